package main

import "github.com/KaramelBytes/preprints/cmd"

func main() {
	cmd.Execute()
}
