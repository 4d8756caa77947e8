package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/and161185/veriuser/internal/config"
	"github.com/and161185/veriuser/internal/logging"
	"github.com/and161185/veriuser/internal/migrate"
)

func (c *cli) versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print the version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipApp: "true"},
	}
	cmd.RunE = c.runE("version", func(context.Context, []string) error {
		fmt.Fprintf(c.out, "veriuser %s (%s)\n", version, buildDate)
		return nil
	})
	return cmd
}

func (c *cli) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "migrate",
		Short:       "Apply pending PostgreSQL migrations",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipApp: "true"},
	}
	cmd.RunE = c.runE("migrate", func(ctx context.Context, _ []string) error {
		cfg, err := loadConfig(c.flags)
		if err != nil {
			return err
		}
		if cfg.Storage.Backend != config.BackendPostgres {
			return fmt.Errorf("validation: migrate needs the postgres backend (got %q)", cfg.Storage.Backend)
		}
		log, err := logging.New(cfg.Log.Level, cfg.Log.Dev)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		if err := migrate.Up(ctx, cfg.Storage.PostgresDSN, log); err != nil {
			return err
		}
		log.Info("migrations up to date", zap.String("backend", cfg.Storage.Backend))
		fmt.Fprintln(c.out, "ok")
		return nil
	})
	return cmd
}
