package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/arnavsurve/kompas/internal/compiler/dump"
	"github.com/arnavsurve/kompas/internal/tablestore"
)

var runsDB string

var RunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List symbol tables exported with check --db",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *tablestore.Store) error {
			runs, err := store.ListRuns(ctx)
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("RUN", "PROGRAM", "SOURCE", "CREATED")
			for _, r := range runs {
				t.Row(r.ID, r.Program, r.Source, r.CreatedAt.Local().Format(time.DateTime))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		})
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Print the stored tables of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *tablestore.Store) error {
			tables, err := store.LoadTables(ctx, args[0])
			if err != nil {
				return err
			}
			if cfg.Output.Format == "yaml" {
				return dump.WriteYAML(cmd.OutOrStdout(), tables, args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), dump.Tables(tables))
			return nil
		})
	},
}

var runsRmCmd = &cobra.Command{
	Use:   "rm [run-id]",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *tablestore.Store) error {
			if err := store.DeleteRun(ctx, args[0]); err != nil {
				return err
			}
			logger.Info("deleted run", "run", args[0])
			return nil
		})
	},
}

func init() {
	RunsCmd.PersistentFlags().StringVar(&runsDB, "db", "", "SQLite database (default: [export] database)")
	RunsCmd.AddCommand(runsShowCmd, runsRmCmd)
}

// withStore opens the configured database for the duration of fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store *tablestore.Store) error) error {
	path := runsDB
	if path == "" {
		path = cfg.Export.Database
	}
	if path == "" {
		return fmt.Errorf("no database given: use --db or set [export] database")
	}

	store, err := tablestore.New(tablestore.Config{Path: path})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Export.Timeout.Duration)
	defer cancel()
	return fn(ctx, store)
}
