package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cfgpkg "github.com/KaramelBytes/preprints/internal/config"
)

// runCmd executes the root command with args against a fresh config load and
// returns its output.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	// Reset bound variables that persist across invocations
	cfg = nil
	cfgFile = ""
	routesHost = ""
	routesTrace = nil
	addID, addProvider, addTitle, addDescription, addDOI, addLicense = "", "", "", "", "", ""
	addTags, addFiles = nil, nil
	addAdmin = false
	listProvider = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out.String()
}

func writeConfig(t *testing.T, home string) string {
	t.Helper()
	p := filepath.Join(home, "preprints.yaml")
	body := "hostname: localhost\nfb_app_id: \"1022273774556662\"\ndata_dir: " + filepath.Join(home, "data") + `
providers:
  - id: osf
    domain: osf.io
  - id: psyarxiv
    domain: psyarxiv.com
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestCLI_RoutesNestedAndFlat(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	conf := writeConfig(t, home)

	out := runCmd(t, "routes", "--config", conf)
	if !strings.Contains(out, "mode: nested") || !strings.Contains(out, "preprints/:slug/:preprint_id") {
		t.Fatalf("unexpected nested output:\n%s", out)
	}

	out = runCmd(t, "routes", "--config", conf, "--host", "www.psyarxiv.com", "--trace", "/abc12,/nowhere/at/all")
	for _, want := range []string{
		"mode: flat",
		"/abc12 -> content (preprint_id=abc12)",
		"/nowhere/at/all -> page-not-found (bad_url=nowhere/at/all)",
		"tracked page=/abc12 title=content",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "preprints/:slug") {
		t.Fatalf("flat tree should not nest providers:\n%s", out)
	}
}

func TestCLI_Resolve(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	conf := writeConfig(t, home)

	out := runCmd(t, "resolve", "--config", conf, "staging.osf.io")
	if !strings.Contains(out, "theme: id=osf isDomain=true") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	out = runCmd(t, "resolve", "--config", conf, "example.org")
	if !strings.Contains(out, "provider: (none)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestCLI_PreprintAddList(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	conf := writeConfig(t, home)

	out := runCmd(t, "preprint", "add", "--config", conf, "--id", "abc12", "-p", "psyarxiv",
		"-t", "test title", "-d", "test description", "--tag", "a", "--tag", "b",
		"--doi", "10.1037/rmh0000008", "--file", "paper.pdf=https://files.example/f1")
	if !strings.Contains(out, "✓ Preprint saved: abc12") {
		t.Fatalf("unexpected add output:\n%s", out)
	}
	out = runCmd(t, "preprint", "list", "--config", conf, "-p", "psyarxiv")
	if !strings.Contains(out, "- abc12: test title [psyarxiv]") {
		t.Fatalf("unexpected list output:\n%s", out)
	}
	out = runCmd(t, "preprint", "list", "--config", conf, "-p", "osf")
	if !strings.Contains(out, "(no preprints)") {
		t.Fatalf("unexpected filtered output:\n%s", out)
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	conf := writeConfig(t, home)

	runCmd(t, "config", "set", "--config", conf, "providers", "engrxiv=engrxiv.org,osf=osf.io")
	out := runCmd(t, "config", "show", "--config", conf)
	if !strings.Contains(out, "  - engrxiv: engrxiv.org") || !strings.Contains(out, "fb_app_id: 102****662") {
		t.Fatalf("unexpected show output:\n%s", out)
	}
}

func TestSetConfigValueRejectsBadInput(t *testing.T) {
	var c cfgpkg.Global
	for _, kv := range [][2]string{
		{"nope", "x"},
		{"log_format", "xml"},
		{"public_url", "psyarxiv.com"},
		{"read_timeout_sec", "-1"},
		{"providers", "missing-domain"},
	} {
		if err := setConfigValue(&c, kv[0], kv[1]); err == nil {
			t.Errorf("%s=%s: expected error", kv[0], kv[1])
		}
	}
	if err := setConfigValue(&c, "providers", "osf=osf.io, psyarxiv=psyarxiv.com"); err != nil {
		t.Fatalf("valid providers rejected: %v", err)
	}
	if len(c.Providers) != 2 || c.Providers[1].Domain != "psyarxiv.com" {
		t.Fatalf("unexpected providers: %+v", c.Providers)
	}
}
