package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/service"
)

// SaveTransactions saves multiple transactions to the database. Transactions
// whose hash is already stored are skipped.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveTransactionsTx(ctx, tx, transactions); err != nil {
		return classify(err)
	}

	return tx.Commit()
}

func saveTransactionsTx(ctx context.Context, tx *sql.Tx, transactions []model.Transaction) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, hash, date, description, amount,
			category_l0, category_l1, category_l2, category_l3,
			cost_center, bank_account_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		// Generate hash if not already set
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}

		_, err = stmt.ExecContext(ctx,
			txn.ID,
			txn.Hash,
			txn.Date.UTC(),
			txn.Description,
			txn.Amount,
			txn.Category.L0,
			txn.Category.L1,
			txn.Category.L2,
			txn.Category.L3,
			txn.CostCenter,
			txn.BankAccountID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return nil
}

// ListTransactions returns the transactions matching filter ordered by date.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, *filter.EndDate, *filter.StartDate)
	}
	return listTransactions(ctx, s.db, filter)
}

func listTransactions(ctx context.Context, q queryable, filter service.TransactionFilter) ([]model.Transaction, error) {
	query := `
		SELECT id, hash, date, description, amount,
		       category_l0, category_l1, category_l2, category_l3,
		       cost_center, bank_account_id
		FROM transactions
	`

	var (
		clauses []string
		args    []any
	)
	if len(filter.CostCenters) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.CostCenters)), ",")
		clauses = append(clauses, "cost_center IN ("+placeholders+")")
		for _, c := range filter.CostCenters {
			args = append(args, c)
		}
	}
	if filter.StartDate != nil {
		clauses = append(clauses, "date >= ?")
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		clauses = append(clauses, "date <= ?")
		args = append(args, filter.EndDate.UTC())
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY date ASC, id ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query transactions: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var (
			txn  model.Transaction
			date time.Time
		)
		if err := rows.Scan(
			&txn.ID,
			&txn.Hash,
			&date,
			&txn.Description,
			&txn.Amount,
			&txn.Category.L0,
			&txn.Category.L1,
			&txn.Category.L2,
			&txn.Category.L3,
			&txn.CostCenter,
			&txn.BankAccountID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Date = date.UTC()
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}
