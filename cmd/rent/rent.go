package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/cli"
	"github.com/Veraticus/the-rent-must-flow/internal/engine"
	"github.com/spf13/cobra"
)

func rentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rent <property-id>",
		Short: "Explain the rent due for each unit in a month",
		Long: `Resolve the rent due for every billable space of a property and show which
source produced it: the occupant's rent history, the property's rent history,
the occupant's legacy rent fields, the unit's configured rent or the
property's configured rent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unitID, _ := cmd.Flags().GetString("unit")
			monthFlag, _ := cmd.Flags().GetString("month")
			ctx := cmd.Context()

			month, err := resolveMonth(monthFlag, time.Now())
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			e, err := newEngine(store)
			if err != nil {
				return err
			}

			lines, err := e.RentTrace(ctx, engine.Scope{PropertyID: args[0], UnitID: unitID}, month)
			if err != nil {
				return fmt.Errorf("failed to resolve rent: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("Rent due "+month.Format("January 2006")))
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRentTrace(lines))
			return nil
		},
	}

	cmd.Flags().StringP("unit", "u", "", "Only this unit")
	cmd.Flags().StringP("month", "m", "", "Month to resolve (format: 2024-05, default: current month)")

	return cmd
}
