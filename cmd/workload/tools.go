package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pafou/PLANDECH-back/internal/importer"
	"github.com/pafou/PLANDECH-back/internal/pivot"
	"github.com/pafou/PLANDECH-back/internal/spreadsheet"
	"github.com/pafou/PLANDECH-back/internal/storage/sqldb"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sqldb.Migrate(cmd.Context(), a.cfg.Database.StoreOptions()); err != nil {
				return err
			}
			slog.Info("Migrations up to date")
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import workload rows from a workbook and print the summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open workbook: %w", err)
			}
			defer f.Close()

			rows, err := spreadsheet.ReadRows(f, sheet)
			if err != nil {
				return err
			}

			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := importer.New(store).Import(cmd.Context(), rows)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to read (default: first sheet)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the workload pivot to a workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.WorkloadRows(cmd.Context())
			if err != nil {
				return err
			}
			table := pivot.Build(pivot.FromWorkloadRows(rows))

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := spreadsheet.WritePivot(f, table); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			slog.Info("Workload exported", "file", output, "rows", len(table.Rows), "months", len(table.Months))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "workload.xlsx", "Output file")
	return cmd
}
