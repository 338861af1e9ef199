package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pocketledger/internal/cli"
	"pocketledger/internal/ledger"
	"pocketledger/internal/model"
	"pocketledger/internal/service"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and inspect transactions",
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(deleteTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		kind     string
		category string
		account  string
		note     string
		dateArg  string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a transaction",
		Long: `Record an income or expense transaction. The owning account's balance
is updated in the same step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[0])
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
			txn, err := svc.RecordTransaction(ctx, ledger.TransactionParams{
				Kind:       model.TransactionKind(kind),
				Amount:     amount,
				CategoryID: category,
				AccountID:  account,
				Note:       note,
				Date:       date,
			})
			if err != nil {
				return fmt.Errorf("failed to record transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s %s on %s",
				txn.Kind, cli.FormatMoney(txn.Amount), txn.AccountName)))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "expense", "transaction kind (income, expense)")
	cmd.Flags().StringVar(&category, "category", "", "category ID")
	cmd.Flags().StringVar(&account, "account", "default", "account ID")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	cmd.Flags().StringVar(&dateArg, "date", "", "transaction date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func listTxCmd() *cobra.Command {
	var (
		account string
		kind    string
		fromArg string
		toArg   string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filter := service.TransactionFilter{
				AccountID: account,
				Kind:      model.TransactionKind(kind),
				Limit:     limit,
			}
			if fromArg != "" {
				from, parseErr := parseDate(fromArg)
				if parseErr != nil {
					return parseErr
				}
				filter.StartDate = &from
			}
			if toArg != "" {
				to, parseErr := parseDate(toArg)
				if parseErr != nil {
					return parseErr
				}
				filter.EndDate = &to
			}

			transactions, err := store.GetTransactions(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to get transactions: %w", err)
			}

			if len(transactions) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "Date\tAmount\tCategory\tAccount\tNote\tID")
			for _, txn := range transactions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					txn.Date.Format("2006-01-02"),
					cli.FormatSignedMoney(txn.Kind, txn.Amount),
					txn.CategoryID,
					txn.AccountName,
					txn.Note,
					txn.ID,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "filter by account ID")
	cmd.Flags().StringVar(&kind, "kind", "", "filter by kind (income, expense)")
	cmd.Flags().StringVar(&fromArg, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toArg, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows (0 for all)")
	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction and undo its balance effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := ledger.NewService(store)
			if err := svc.ReverseTransaction(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted transaction %s", args[0])))
			return nil
		},
	}
}
