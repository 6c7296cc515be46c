package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pafou/PLANDECH-back/internal/config"
	"github.com/pafou/PLANDECH-back/internal/storage/sqldb"
	"github.com/pafou/PLANDECH-back/pkg/logging"
)

// app carries the configuration loaded before any subcommand runs.
type app struct {
	envFiles []string
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "workload",
		Short:         "Workload planning service and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			n, err := config.LoadEnv(a.envFiles...)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg

			logging.Setup(cfg.Log.Level, cfg.Log.Format)
			slog.Debug("Configuration loaded", "env_files", n, "driver", cfg.Database.Driver)
			return nil
		},
	}

	cmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", []string{".env", ".env.local"}, "Env files to load when present")

	cmd.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newImportCmd(a),
		newExportCmd(a),
	)
	return cmd
}

// openStore opens the configured store.
func (a *app) openStore(ctx context.Context) (*sqldb.Store, error) {
	opts := a.cfg.Database.StoreOptions()
	store, err := sqldb.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	slog.Info("Storage initialized",
		"dialect", opts.Dialect,
		"team_column", store.Capabilities().EntryTeamColumn,
	)
	return store, nil
}
