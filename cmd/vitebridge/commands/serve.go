package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/3-lines-studio/vitebridge"
	"github.com/3-lines-studio/vitebridge/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the production build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			log := c.logger(cfg)

			app, err := vitebridge.New(
				vitebridge.WithConfig(cfg),
				vitebridge.WithLogger(log.Child("server")),
			)
			if err != nil {
				return err
			}
			defer func() { _ = app.Stop() }()

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           app.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				log.Info().Str("addr", srv.Addr).Msg("listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				log.Info().Msg("shutting down")
				return srv.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}

	f := cmd.Flags()
	f.StringVar(&c.flags.Server.Addr, "addr", "", "Listen address")
	f.StringVar(&c.flags.Server.Entry, "entry", "", "Server bundle entry inside the server out dir")
	f.StringVar(&c.flags.Server.Node, "node", "", "Node executable")
	c.addBoolFlag(f, "dev", "Serve without a cached production config", func(cfg *config.Config, v bool) { cfg.Server.Dev = v })

	return cmd
}
