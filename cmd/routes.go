package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/KaramelBytes/preprints/internal/metrics"
	"github.com/KaramelBytes/preprints/internal/provider"
	"github.com/KaramelBytes/preprints/internal/router"
	"github.com/KaramelBytes/preprints/internal/runloop"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	routesHost  string
	routesTrace []string
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the route tree installed for a hostname",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		host := c.Hostname
		if routesHost != "" {
			host = routesHost
		}
		p, ok := provider.Resolve(host, c.Providers)
		table := router.Build(p, ok)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "hostname: %s\nmode: %s\n", host, table.Mode())
		printRoutes(out, table.Routes(), "")

		if len(routesTrace) == 0 {
			return nil
		}
		var tracker metrics.MemoryTracker
		r := router.New(table, &tracker, zerolog.Nop())
		fmt.Fprintln(out, "trace:")
		for _, path := range routesTrace {
			m, _ := table.Recognize(path)
			q := runloop.NewQueue()
			r.DidTransition(context.Background(), q, router.Transition{Pathname: path, RouteName: m.Name})
			q.Flush()
			fmt.Fprintf(out, "  %s -> %s%s\n", path, m.Name, formatParams(m.Params))
		}
		for _, pv := range tracker.Views() {
			fmt.Fprintf(out, "  tracked page=%s title=%s\n", pv.Page, pv.Title)
		}
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <hostname>",
	Short: "Show which provider and theme a hostname resolves to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		p, ok := provider.Resolve(args[0], c.Providers)
		if !ok {
			fmt.Fprintln(out, "provider: (none)")
			fmt.Fprintln(out, "mode: nested")
			return nil
		}
		theme := provider.ThemeFor(p, ok)
		fmt.Fprintf(out, "provider: %s (%s)\n", p.ID, p.Domain)
		fmt.Fprintf(out, "theme: id=%s isDomain=%t\n", theme.ID, theme.IsDomain)
		fmt.Fprintln(out, "mode: flat")
		return nil
	},
}

func printRoutes(w io.Writer, routes []router.Route, indent string) {
	for _, r := range routes {
		fmt.Fprintf(w, "%s- %-18s %s\n", indent, r.Name, r.Path)
		if len(r.Children) > 0 {
			printRoutes(w, r.Children, indent+"  ")
		}
	}
}

func formatParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func init() {
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(resolveCmd)
	routesCmd.Flags().StringVar(&routesHost, "host", "", "hostname to resolve (default from config)")
	routesCmd.Flags().StringSliceVar(&routesTrace, "trace", nil, "paths to recognize and track")
}
