// Command tenantkit serves the multi-tenancy HTTP API and manages its schema.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/dmitrymomot/tenantkit"
	"github.com/dmitrymomot/tenantkit/pkg/config"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func main() {
	var cfg tenantkit.Config
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Environment, cfg.ServiceName),
		logger.WithContextExtractors(append(tenant.LoggerExtractors(), requestID)...),
	)
	logger.SetAsDefault(log)

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, a ...any) {
		log.Info(fmt.Sprintf(format, a...))
	}))
	defer undo()
	if err != nil {
		log.Warn("failed to set GOMAXPROCS", logger.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:           "tenantkit",
		Short:         "Multi-tenant resolution, permissions and feature management",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(cfg, log.With(logger.Component("serve"))),
		newMigrateCmd(log.With(logger.Component("migrate"))),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		log.Error("command failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func requestID(ctx context.Context) (slog.Attr, bool) {
	id := middleware.GetReqID(ctx)
	return slog.String("request_id", id), id != ""
}

func newMigrateCmd(log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending PostgreSQL migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate(cmd.Context(), log)
		},
	}
}
