package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tenantkit"
	"github.com/dmitrymomot/tenantkit/pkg/httpserver"
)

func newServeCmd(cfg tenantkit.Config, log *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.HTTP.Addr, "addr", cfg.HTTP.Addr, "listen address")
	flags.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage backend: memory or postgres")
	flags.StringVar(&cfg.FeaturesFile, "features", cfg.FeaturesFile, "YAML file with feature definitions")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		app, err := tenantkit.New(ctx, cfg, tenantkit.WithLogger(log))
		if err != nil {
			return err
		}
		defer app.Close()

		srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
		return srv.Run(ctx, newRouter(app))
	}

	return cmd
}
