package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/the-rent-must-flow/internal/cli"
	"github.com/Veraticus/the-rent-must-flow/internal/common"
	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/normalize"
	"github.com/Veraticus/the-rent-must-flow/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// portfolioFile is the JSON import format: properties with nested units
// and tenants, plus transactions tagged with their cost center.
type portfolioFile struct {
	Properties   []model.Property       `json:"properties"`
	Transactions []portfolioTransaction `json:"transactions"`
}

// portfolioTransaction accepts the same loose date and amount shapes as the
// rent fields.
type portfolioTransaction struct {
	Date   any `json:"date"`
	Amount any `json:"amount"`
	model.Transaction
}

// portfolio is a decoded import file.
type portfolio struct {
	Properties   []model.Property
	Transactions []model.Transaction
}

// importSummary counts what an import wrote.
type importSummary struct {
	Properties   int
	Units        int
	Tenants      int
	Transactions int
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <portfolio.json>",
		Short: "Import properties, tenants and transactions from JSON",
		Long: `Import a portfolio exported as JSON.

Rent and lease fields are stored exactly as they appear in the file: numbers,
currency strings like "$1,500.00", ISO dates or {"seconds": ...} timestamps
are all accepted and normalized when reports are computed.

Examples:
  # Import a portfolio export
  rent import ~/Downloads/portfolio.json

  # Check a file without saving
  rent import --dry-run portfolio.json`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Validate the file without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	f, err := os.Open(args[0])
	if err != nil {
		return common.NewUserError("Could not open portfolio file", err)
	}
	defer func() { _ = f.Close() }()

	p, err := decodePortfolio(f)
	if err != nil {
		return common.NewUserError("Portfolio file could not be read", err)
	}

	if dryRun {
		summary := summarize(p)
		slog.Info("🔍 Dry run complete - no data saved",
			"properties", summary.Properties,
			"units", summary.Units,
			"tenants", summary.Tenants,
			"transactions", summary.Transactions)
		return nil
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(p.Properties)+1, "Importing portfolio...")
	summary, err := savePortfolio(ctx, store, p, func() { _ = bar.Add(1) })
	if err != nil {
		return err
	}
	_ = bar.Finish()

	slog.Info(cli.FormatSuccess("Portfolio imported"),
		"properties", summary.Properties,
		"units", summary.Units,
		"tenants", summary.Tenants,
		"transactions", summary.Transactions)
	return nil
}

func decodePortfolio(r io.Reader) (*portfolio, error) {
	var file portfolioFile
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode portfolio: %w", err)
	}

	p := &portfolio{
		Properties:   file.Properties,
		Transactions: make([]model.Transaction, 0, len(file.Transactions)),
	}
	for i, raw := range file.Transactions {
		date, ok := normalize.ToDate(raw.Date)
		if !ok {
			return nil, fmt.Errorf("transaction at index %d: unreadable date %v", i, raw.Date)
		}
		txn := raw.Transaction
		txn.Date = date
		txn.Amount = normalize.ToNumber(raw.Amount)
		p.Transactions = append(p.Transactions, txn)
	}
	return p, nil
}

func summarize(p *portfolio) importSummary {
	s := importSummary{Properties: len(p.Properties), Transactions: len(p.Transactions)}
	for _, prop := range p.Properties {
		s.Tenants += len(prop.Tenants)
		s.Units += len(prop.Units)
		for _, u := range prop.Units {
			s.Tenants += len(u.Tenants)
		}
	}
	return s
}

// savePortfolio writes every property and then the transactions. step is
// called after each property and once after the transactions.
func savePortfolio(ctx context.Context, store service.Storage, p *portfolio, step func()) (importSummary, error) {
	for i := range p.Properties {
		property := &p.Properties[i]
		if err := store.SaveProperty(ctx, property); err != nil {
			return importSummary{}, fmt.Errorf("failed to save property %q: %w", property.Name, err)
		}
		slog.Debug("Imported property", "id", property.ID, "name", property.Name, "units", len(property.Units))
		if step != nil {
			step()
		}
	}

	if len(p.Transactions) > 0 {
		for i := range p.Transactions {
			if p.Transactions[i].ID == "" {
				p.Transactions[i].ID = uuid.NewString()
			}
		}
		if err := store.SaveTransactions(ctx, p.Transactions); err != nil {
			return importSummary{}, fmt.Errorf("failed to save transactions: %w", err)
		}
	}
	if step != nil {
		step()
	}

	return summarize(p), nil
}
