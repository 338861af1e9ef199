package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"pocketledger/internal/cli"
	"pocketledger/internal/ledger"
)

func recalculateCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "recalculate",
		Short: "Rebuild cached account balances from history",
		Long: `Rebuild account balances from the opening balance plus the full
transaction and transfer history. Use this after restoring a backup or
if a balance ever looks wrong.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := ledger.NewService(store)

			if account != "" {
				balance, recalcErr := svc.RecalculateBalance(ctx, account)
				if recalcErr != nil {
					return fmt.Errorf("recalculation failed: %w", recalcErr)
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Account %s recalculated to %s", account, cli.FormatMoney(balance))))
				return nil
			}

			accounts, err := store.GetAccounts(ctx, true)
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(len(accounts),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Recalculating balances..."),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)

			if err := svc.RecalculateAllBalances(ctx, func() {
				if addErr := bar.Add(1); addErr != nil {
					slog.Warn("Failed to update progress bar", "error", addErr)
				}
			}); err != nil {
				return fmt.Errorf("recalculation failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recalculated %d accounts", len(accounts))))
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "recalculate a single account")
	return cmd
}
