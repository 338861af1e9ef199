package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pocketledger/internal/cli"
	"pocketledger/internal/ledger"
)

func transferCmd() *cobra.Command {
	var (
		fee     float64
		note    string
		dateArg string
	)

	cmd := &cobra.Command{
		Use:   "transfer <from-account> <to-account> <amount>",
		Short: "Move funds between accounts",
		Long: `Move funds from one account to another, atomically. The source is
debited the amount plus the optional fee; the destination is credited
the amount.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			date, err := parseDate(dateArg)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := ledger.NewService(store)
			transfer, err := svc.Transfer(ctx, ledger.TransferParams{
				FromAccountID: args[0],
				ToAccountID:   args[1],
				Amount:        amount,
				Fee:           fee,
				Note:          note,
				Date:          date,
			})
			if err != nil {
				return fmt.Errorf("transfer failed: %w", err)
			}

			msg := fmt.Sprintf("Transferred %s from %s to %s",
				cli.FormatMoney(transfer.Amount), transfer.FromAccountID, transfer.ToAccountID)
			if transfer.Fee > 0 {
				msg += fmt.Sprintf(" (fee %s)", cli.FormatMoney(transfer.Fee))
			}
			fmt.Println(cli.FormatSuccess(msg))
			return nil
		},
	}

	cmd.Flags().Float64Var(&fee, "fee", 0, "transfer fee debited from the source")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	cmd.Flags().StringVar(&dateArg, "date", "", "transfer date (YYYY-MM-DD, default today)")

	cmd.AddCommand(listTransfersCmd())
	return cmd
}

func listTransfersCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transfer history, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			transfers, err := store.GetTransfers(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to get transfers: %w", err)
			}

			if len(transfers) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transfers found."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "Date\tFrom\tTo\tAmount\tFee\tNote")
			for _, tr := range transfers {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					tr.Date.Format("2006-01-02"),
					tr.FromAccountID,
					tr.ToAccountID,
					cli.FormatMoney(tr.Amount),
					cli.FormatMoney(tr.Fee),
					tr.Note,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows (0 for all)")
	return cmd
}
