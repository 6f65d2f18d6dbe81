package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/preprints/internal/config"
	"github.com/KaramelBytes/preprints/internal/provider"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg, err := requireConfig()
		if err != nil {
			fmt.Fprintln(out, "No config loaded")
			return err
		}
		fmt.Fprintf(out, "addr: %s\n", cfg.Addr)
		fmt.Fprintf(out, "hostname: %s\n", cfg.Hostname)
		fmt.Fprintf(out, "root_url: %s\n", cfg.RootURL)
		if cfg.PublicURL != "" {
			fmt.Fprintf(out, "public_url: %s\n", cfg.PublicURL)
		}
		fmt.Fprintf(out, "fb_app_id: %s\n", mask(cfg.FBAppID))
		fmt.Fprintf(out, "data_dir: %s\n", cfg.DataDir)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		if cfg.LogFile != "" {
			fmt.Fprintf(out, "log_file: %s\n", cfg.LogFile)
		}
		if len(cfg.Providers) == 0 {
			fmt.Fprintln(out, "providers: (none)")
			return nil
		}
		fmt.Fprintln(out, "providers:")
		for _, p := range cfg.Providers {
			fmt.Fprintf(out, "  - %s: %s\n", p.ID, p.Domain)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if err := setConfigValue(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "addr":
		c.Addr = val
	case "hostname":
		c.Hostname = val
	case "root_url":
		c.RootURL = val
	case "public_url":
		if val != "" && !strings.HasPrefix(val, "http://") && !strings.HasPrefix(val, "https://") {
			return fmt.Errorf("invalid public_url: %s (want http:// or https://)", val)
		}
		c.PublicURL = val
	case "fb_app_id":
		c.FBAppID = val
	case "data_dir":
		c.DataDir = val
	case "log_level":
		c.LogLevel = strings.ToLower(val)
	case "log_file":
		c.LogFile = val
	case "log_format":
		switch val {
		case "json", "console":
			c.LogFormat = val
		default:
			return fmt.Errorf("invalid log_format: %s (use json or console)", val)
		}
	case "read_timeout_sec", "write_timeout_sec", "shutdown_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "read_timeout_sec":
			c.ReadTimeoutSec = i
		case "write_timeout_sec":
			c.WriteTimeoutSec = i
		default:
			c.ShutdownTimeoutSec = i
		}
	case "providers":
		// id=domain pairs, comma separated, in match order
		ps, err := parseProviders(val)
		if err != nil {
			return err
		}
		c.Providers = ps
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func parseProviders(val string) ([]provider.Provider, error) {
	var out []provider.Provider
	for _, pair := range strings.Split(val, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, domain, ok := strings.Cut(pair, "=")
		if !ok || id == "" || domain == "" {
			return nil, fmt.Errorf("invalid provider %q (want id=domain)", pair)
		}
		out = append(out, provider.Provider{ID: id, Domain: domain})
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
