package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pocketledger/internal/cli"
	"pocketledger/internal/ledger"
	"pocketledger/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
		Long:  `List, add, and remove the accounts money moves between.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(deleteAccountCmd())
	cmd.AddCommand(setInitialBalanceCmd())
	cmd.AddCommand(accountsSummaryCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	var includeInactive bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accounts, err := store.GetAccounts(ctx, includeInactive)
			if err != nil {
				return fmt.Errorf("failed to get accounts: %w", err)
			}

			if len(accounts) == 0 {
				fmt.Println(cli.InfoStyle.Render("No accounts found. Use 'pocketledger accounts add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tName\tType\tBalance\tActive")
			for _, acc := range accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n",
					acc.ID, acc.Name, acc.Type, cli.FormatMoney(acc.Balance), acc.IsActive)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeInactive, "all", false, "include deactivated accounts")
	return cmd
}

func addAccountCmd() *cobra.Command {
	var (
		accountType    string
		icon           string
		color          string
		description    string
		initialBalance float64
		sortOrder      int
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := ledger.NewService(store)
			account, err := svc.CreateAccount(ctx, ledger.AccountParams{
				Name:           args[0],
				Type:           model.AccountType(accountType),
				Icon:           icon,
				Color:          color,
				Description:    description,
				InitialBalance: initialBalance,
				SortOrder:      sortOrder,
			})
			if err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created account %q (%s)", account.Name, account.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountType, "type", "cash", "account type (cash, bank_card, e_wallet, credit_card, other)")
	cmd.Flags().StringVar(&icon, "icon", "", "display icon")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	cmd.Flags().StringVar(&description, "description", "", "free-form description")
	cmd.Flags().Float64Var(&initialBalance, "initial-balance", 0, "opening balance")
	cmd.Flags().IntVar(&sortOrder, "sort-order", 0, "list position")
	return cmd
}

func deleteAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Deactivate an account",
		Long: `Deactivate an account so it no longer appears in listings. Accounts
that still have transactions cannot be deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := ledger.NewService(store)
			if err := svc.DeleteAccount(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete account: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deactivated account %s", args[0])))
			return nil
		},
	}
}

func setInitialBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-initial-balance <account-id> <amount>",
		Short: "Set an account's opening balance",
		Long:  `Change an account's opening balance. The current balance is rebuilt from history afterwards.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := ledger.NewService(store)
			if err := svc.SetInitialBalance(ctx, args[0], amount); err != nil {
				return fmt.Errorf("failed to set initial balance: %w", err)
			}

			account, err := store.GetAccount(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Account %q now at %s", account.Name, cli.FormatMoney(account.Balance))))
			return nil
		},
	}
}

func accountsSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the overall asset position",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := ledger.NewService(store)
			summary, err := svc.Summary(ctx)
			if err != nil {
				return fmt.Errorf("failed to compute summary: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render("Asset position"))
			fmt.Printf("Accounts:    %d\n", summary.AccountCount)
			fmt.Printf("Assets:      %s\n", cli.FormatMoney(summary.TotalAssets))
			fmt.Printf("Liabilities: %s\n", cli.FormatMoney(summary.TotalLiabilities))
			fmt.Printf("Net assets:  %s\n", cli.FormatMoney(summary.NetAssets))
			return nil
		},
	}
}
