package main

import (
	"fmt"

	"github.com/Veraticus/the-rent-must-flow/internal/cli"
	"github.com/spf13/cobra"
)

func propertiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "properties",
		Short: "List imported properties and their units",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			properties, err := store.ListProperties(ctx)
			if err != nil {
				return fmt.Errorf("failed to list properties: %w", err)
			}
			if len(properties) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No properties yet. Run 'rent import' first."))
				return nil
			}

			out := cmd.OutOrStdout()
			for _, p := range properties {
				_, _ = fmt.Fprintf(out, "%s %s\n", cli.BoldStyle.Render(p.Name), cli.SubtleStyle.Render("("+p.ID+", "+string(p.Type)+")"))
				for _, u := range p.Units {
					_, _ = fmt.Fprintf(out, "  %s %s\n", u.Name, cli.SubtleStyle.Render("("+u.ID+")"))
				}
			}
			return nil
		},
	}
}
