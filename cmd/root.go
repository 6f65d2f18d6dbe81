package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/preprints/internal/config"
	"github.com/KaramelBytes/preprints/internal/logger"
	"github.com/KaramelBytes/preprints/internal/provider"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "preprints",
	Short: "Preprints: provider-aware front-end for sharing preprints",
	Long: `Preprints serves the preprint discovery, submission and detail pages.
A deployment whose hostname matches a configured provider domain runs as that
provider's branded site; any other hostname serves every provider under /preprints.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.preprints/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config call requireConfig
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	for _, w := range provider.Validate(cfg.Providers) {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %s\n", w)
	}
}

func requireConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

func newLogger(c *cfgpkg.Global) (*logger.Log, error) {
	level := c.LogLevel
	if debug {
		level = "debug"
	}
	return logger.New().
		FromPath(c.LogFile).
		Level(level).
		Pretty(c.LogFormat == "console").
		Make()
}
