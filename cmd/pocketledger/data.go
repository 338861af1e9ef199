package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"pocketledger/internal/archive"
	"pocketledger/internal/cli"
	"pocketledger/internal/ledger"
)

func dataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Export, import, and reset ledger data",
	}

	cmd.AddCommand(exportDataCmd())
	cmd.AddCommand(importDataCmd())
	cmd.AddCommand(resetDataCmd())

	return cmd
}

func exportDataCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data as JSON",
		Long:  `Write the full data set to a JSON file, or stdout when no output file is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			arch := archive.NewArchiver(store, ledger.NewService(store))

			w := os.Stdout
			if output != "" {
				f, createErr := os.Create(output)
				if createErr != nil {
					return fmt.Errorf("failed to create %s: %w", output, createErr)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if err := arch.ExportJSON(ctx, w); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if output != "" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported data to %s", output)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func importDataCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import data from a JSON export",
		Long: `Replace the current data set with the contents of a JSON export and
rebuild account balances. Older export versions are migrated
automatically; exports from a newer version are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !yes {
				return fmt.Errorf("import replaces all existing data; re-run with --yes to confirm")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			// Account count is only known after the document replaces the
			// current set, so the bar is indeterminate.
			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Rebuilding balances..."),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)

			arch := archive.NewArchiver(store, ledger.NewService(store))
			if err := arch.ImportJSON(ctx, f, func() {
				if addErr := bar.Add(1); addErr != nil {
					slog.Warn("Failed to update progress bar", "error", addErr)
				}
			}); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported data from %s", args[0])))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")
	return cmd
}

func resetDataCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all transactions and transfers",
		Long: `Remove every transaction and transfer and reset account balances to
their opening balances. Accounts, categories, and budgets survive.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !yes {
				return fmt.Errorf("this deletes all transactions and transfers; re-run with --yes to confirm")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := ledger.NewService(store)
			if err := svc.ClearAllData(ctx); err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Cleared all transactions and transfers"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")
	return cmd
}
