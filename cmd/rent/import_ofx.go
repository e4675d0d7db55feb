package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/the-rent-must-flow/internal/cli"
	"github.com/Veraticus/the-rent-must-flow/internal/common"
	"github.com/Veraticus/the-rent-must-flow/internal/config"
	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/ofx"
	"github.com/Veraticus/the-rent-must-flow/internal/pattern"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import bank transactions from OFX or QFX (Quicken) files and attribute them
to a property or unit.

Deposits are recorded as income and debits as expenses. Rules under
import.rules in the config file refine the category and can move a
transaction to a specific unit.

Examples:
  # Import one statement for a property
  rent import-ofx --cost-center maple-duplex ~/Downloads/checking_jan_2024.qfx

  # Import every statement for a unit
  rent import-ofx --cost-center unit-a ~/Downloads/UnitA/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().StringP("cost-center", "c", "", "Property or unit ID the transactions belong to (required)")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	_ = cmd.MarkFlagRequired("cost-center")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	costCenter, _ := cmd.Flags().GetString("cost-center")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ctx := cmd.Context()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	slog.Info("🏠 Importing OFX files...",
		"file_count", len(files),
		"cost_center", costCenter,
		"dry_run", dryRun)

	rules, err := config.LoadRules(viper.GetViper())
	if err != nil {
		return common.NewUserError("Invalid import rules", err)
	}

	transactions := parseOFXFiles(ctx, ofx.NewParser(costCenter), files)
	if len(transactions) == 0 {
		slog.Warn("No transactions found in any file")
		return nil
	}

	rules = append(rules, pattern.DefaultRules()...)
	applied, err := pattern.NewMatcher(rules).Apply(ctx, transactions)
	if err != nil {
		return err
	}
	slog.Info("Applied categorization rules", "rules", len(rules), "categorized", applied)

	if dryRun {
		slog.Info("🔍 Dry run complete - no data saved", "transactions", len(transactions))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveTransactions(ctx, transactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	slog.Info(cli.FormatSuccess("Transactions imported"), "count", len(transactions))
	return nil
}

// expandFiles expands globs, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, common.NewUserError("No files found to import", nil)
	}
	return files, nil
}

// parseOFXFiles parses every file, skipping unreadable ones, and drops
// transactions repeated across overlapping statements.
func parseOFXFiles(ctx context.Context, parser *ofx.Parser, files []string) []model.Transaction {
	var all []model.Transaction
	seen := make(map[string]bool)

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			slog.Error("Failed to open file", "file", path, "error", err)
			continue
		}

		transactions, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			continue
		}

		added := 0
		for _, tx := range transactions {
			if !seen[tx.Hash] {
				seen[tx.Hash] = true
				all = append(all, tx)
				added++
			}
		}

		slog.Info("Processed file",
			"file", filepath.Base(path),
			"transactions_found", len(transactions),
			"added", added,
			"duplicates", len(transactions)-added)
	}

	return all
}
