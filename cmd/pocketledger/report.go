package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pocketledger/internal/cli"
	"pocketledger/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Income and expense reports",
	}

	cmd.AddCommand(monthReportCmd())
	cmd.AddCommand(yearReportCmd())
	cmd.AddCommand(rangeReportCmd())

	return cmd
}

func monthReportCmd() *cobra.Command {
	var periodArg string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Report over one calendar month",
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

			agg := report.NewAggregator(store)
			r, err := agg.Monthly(ctx, year, month)
			if err != nil {
				return fmt.Errorf("failed to build report: %w", err)
			}

			printReport(fmt.Sprintf("Report %04d-%02d", year, month), r)
			return nil
		},
	}

	cmd.Flags().StringVar(&periodArg, "period", "", "report period (YYYY-MM, default current month)")
	return cmd
}

func yearReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "year <year>",
		Short: "Report over one calendar year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			agg := report.NewAggregator(store)
			r, err := agg.Yearly(ctx, year)
			if err != nil {
				return fmt.Errorf("failed to build report: %w", err)
			}

			printReport(fmt.Sprintf("Report %d", year), r)
			return nil
		},
	}
}

func rangeReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "range <from> <to>",
		Short: "Report over an arbitrary date range",
		Long:  `Build a report over an inclusive date range. Dates use YYYY-MM-DD.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			from, err := parseDate(args[0])
			if err != nil {
				return err
			}
			to, err := parseDate(args[1])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			agg := report.NewAggregator(store)
			r, err := agg.Range(ctx, from, to)
			if err != nil {
				return fmt.Errorf("failed to build report: %w", err)
			}

			printReport(fmt.Sprintf("Report %s to %s", args[0], args[1]), r)
			return nil
		},
	}
}

func printReport(title string, r *report.Report) {
	fmt.Println(cli.TitleStyle.Render(title))

	s := r.Summary
	fmt.Printf("Income:   %s\n", cli.IncomeStyle.Render(cli.FormatMoney(s.TotalIncome)))
	fmt.Printf("Expense:  %s\n", cli.ExpenseStyle.Render(cli.FormatMoney(s.TotalExpense)))
	fmt.Printf("Net:      %s  (%d transactions)\n", cli.FormatMoney(s.NetIncome), s.TransactionCount)
	if s.TotalExpense > 0 {
		fmt.Printf("Avg/day:  %s", cli.FormatMoney(s.AvgDailyExpense))
		fmt.Printf("  peak %s on %s\n", cli.FormatMoney(s.MaxExpenseAmount), s.MaxExpenseDay)
	}

	if len(r.Categories) > 0 {
		fmt.Println()
		fmt.Println(cli.SubtleStyle.Render("By category"))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Category\tKind\tAmount\tShare")
		for _, c := range r.Categories {
			name := c.CategoryName
			if name == "" {
				name = c.CategoryID
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\n", name, c.Kind, cli.FormatMoney(c.Amount), c.Percentage)
		}
		_ = w.Flush()
	}

	if len(r.Accounts) > 0 {
		fmt.Println()
		fmt.Println(cli.SubtleStyle.Render("By account"))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Account\tIncome\tExpense\tBalance\tCount")
		for _, a := range r.Accounts {
			name := a.AccountName
			if name == "" {
				name = a.AccountID
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
				name, cli.FormatMoney(a.Income), cli.FormatMoney(a.Expense), cli.FormatMoney(a.Balance), a.Count)
		}
		_ = w.Flush()
	}
}
