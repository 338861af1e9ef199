package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pocketledger/internal/budget"
	"pocketledger/internal/cli"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly category budgets",
	}

	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(budgetStatusCmd())
	cmd.AddCommand(budgetAlertsCmd())
	cmd.AddCommand(removeBudgetCmd())

	return cmd
}

func setBudgetCmd() *cobra.Command {
	var (
		periodArg string
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "set <category-id> <amount>",
		Short: "Set a category budget for a month",
		Long: `Set the budget for a category in one month. Setting a budget for a
period that already has one replaces it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			year, month, err := parsePeriod(periodArg)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			calc := budget.NewCalculator(store)
			b, err := calc.SetBudget(ctx, args[0], amount, year, month, threshold)
			if err != nil {
				return fmt.Errorf("failed to set budget: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Budget for %s set to %s (%04d-%02d, alert at %.0f%%)",
				b.CategoryName, cli.FormatMoney(b.Amount), b.Year, b.Month, b.AlertThreshold)))
			return nil
		},
	}

	cmd.Flags().StringVar(&periodArg, "period", "", "budget period (YYYY-MM, default current month)")
	cmd.Flags().Float64Var(&threshold, "alert-threshold", 0, "warning threshold in percent (default 80)")
	return cmd
}

func budgetStatusCmd() *cobra.Command {
	var periodArg string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show budget execution for a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			year, month, err := parsePeriod(periodArg)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			calc := budget.NewCalculator(store)
			executions, err := calc.Execution(ctx, year, month)
			if err != nil {
				return fmt.Errorf("failed to compute budget execution: %w", err)
			}

			if len(executions) == 0 {
				fmt.Println(cli.InfoStyle.Render("No budgets set for this month."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Budget execution %04d-%02d", year, month)))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "Category\tBudget\tSpent\tRemaining\tProjected\tUsage")
			for _, exec := range executions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					exec.CategoryName,
					cli.FormatMoney(exec.BudgetAmount),
					cli.FormatMoney(exec.SpentAmount),
					cli.FormatMoney(exec.RemainingAmount),
					cli.FormatMoney(exec.ProjectedSpending),
					cli.RenderBudgetBar(exec.Status, exec.Percentage, 20),
				)
			}
			_ = w.Flush()

			summary, err := calc.MonthlySummary(ctx, year, month)
			if err != nil {
				return err
			}
			fmt.Printf("\nTotal: %s of %s (%.1f%%)\n",
				cli.FormatMoney(summary.TotalSpent), cli.FormatMoney(summary.TotalBudget), summary.Percentage)
			return nil
		},
	}

	cmd.Flags().StringVar(&periodArg, "period", "", "budget period (YYYY-MM, default current month)")
	return cmd
}

func budgetAlertsCmd() *cobra.Command {
	var periodArg string

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show budgets past their alert threshold",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			year, month, err := parsePeriod(periodArg)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			calc := budget.NewCalculator(store)
			alerts, err := calc.Alerts(ctx, year, month)
			if err != nil {
				return fmt.Errorf("failed to compute alerts: %w", err)
			}

			if len(alerts) == 0 {
				fmt.Println(cli.FormatSuccess("All budgets are on track."))
				return nil
			}

			for _, exec := range alerts {
				fmt.Printf("%s %s: spent %s of %s (%.1f%%)\n",
					cli.RenderBudgetStatus(exec.Status),
					exec.CategoryName,
					cli.FormatMoney(exec.SpentAmount),
					cli.FormatMoney(exec.BudgetAmount),
					exec.Percentage,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&periodArg, "period", "", "budget period (YYYY-MM, default current month)")
	return cmd
}

func removeBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <budget-id>",
		Short: "Remove a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			calc := budget.NewCalculator(store)
			if err := calc.RemoveBudget(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to remove budget: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed budget %s", args[0])))
			return nil
		},
	}
}
