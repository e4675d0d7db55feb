package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/cli"
	"github.com/Veraticus/the-rent-must-flow/internal/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <property-id>",
		Short: "Show financial performance for a property or unit",
		Long: `Compute NOI, cash flow, DSCR, economic occupancy, break-even rent and a
verdict for one month, or for every month of a year.

Examples:
  # This month for the whole property
  rent report maple-duplex

  # One unit in May 2024
  rent report maple-duplex --unit unit-a --month 2024-05

  # Every month of 2024 with annual totals
  rent report maple-duplex --year 2024`,
		Args: cobra.ExactArgs(1),
		RunE: runReport,
	}

	cmd.Flags().StringP("unit", "u", "", "Report on a single unit")
	cmd.Flags().StringP("month", "m", "", "Month to report (format: 2024-05, default: current month)")
	cmd.Flags().IntP("year", "y", 0, "Report every month of a year")

	_ = viper.BindPFlag("report.unit", cmd.Flags().Lookup("unit"))
	_ = viper.BindPFlag("report.month", cmd.Flags().Lookup("month"))
	_ = viper.BindPFlag("report.year", cmd.Flags().Lookup("year"))

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	scope := engine.Scope{PropertyID: args[0], UnitID: viper.GetString("report.unit")}
	year := viper.GetInt("report.year")
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	e, err := newEngine(store)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if year > 0 {
		handler := cli.NewInterruptHandler(os.Stderr)
		ctx, stop := handler.HandleInterrupts(ctx, "Year report")
		defer stop()

		bar := cli.NewProgressBar(cmd.ErrOrStderr(), 12, fmt.Sprintf("Computing %d...", year))
		report, err := e.YearReport(ctx, scope, year, func(time.Time) { _ = bar.Add(1) })
		if err != nil {
			return fmt.Errorf("failed to build year report: %w", err)
		}
		_ = bar.Finish()

		_, _ = fmt.Fprintln(out, cli.RenderYear(report))
		return nil
	}

	month, err := resolveMonth(viper.GetString("report.month"), time.Now())
	if err != nil {
		return err
	}

	report, err := e.Report(ctx, scope, month)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	_, _ = fmt.Fprintln(out, cli.RenderReport(report))
	return nil
}
