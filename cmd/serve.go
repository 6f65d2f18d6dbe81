package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/preprints/internal/metrics"
	"github.com/KaramelBytes/preprints/internal/provider"
	"github.com/KaramelBytes/preprints/internal/router"
	"github.com/KaramelBytes/preprints/internal/store"
	"github.com/KaramelBytes/preprints/internal/web"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the preprints site",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			c.Addr = serveAddr
		}
		if serveHost != "" {
			c.Hostname = serveHost
		}
		l, err := newLogger(c)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer l.Close()
		log := l.Logger

		// Provider and route tree are fixed for the life of the process.
		p, ok := provider.Resolve(c.Hostname, c.Providers)
		theme := provider.ThemeFor(p, ok)
		table := router.Build(p, ok)
		log.Info().Str("hostname", c.Hostname).Str("provider", p.ID).Str("mode", table.Mode().String()).Msg("route tree installed")

		st, err := store.Open(c.DataDir)
		if err != nil {
			return err
		}
		r := router.New(table, metrics.NewLogTracker(log), log)
		srv, err := web.NewServer(c, r, theme, st, log)
		if err != nil {
			return fmt.Errorf("init server: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "public hostname used for provider detection (overrides config)")
}
