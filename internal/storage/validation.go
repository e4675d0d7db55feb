package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidProperty    = errors.New("invalid property")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	return nil
}

// validateProperty checks identity fields only; rent and lease values are
// stored as-is and normalized when read by the engine.
func validateProperty(property *model.Property) error {
	if property == nil {
		return fmt.Errorf("%w: property", ErrNilParameter)
	}
	if strings.TrimSpace(property.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProperty)
	}

	seen := make(map[string]bool)
	check := func(kind, id string) error {
		if seen[id] {
			return fmt.Errorf("%w: duplicate %s ID %s", ErrInvalidProperty, kind, id)
		}
		seen[id] = true
		return nil
	}
	for _, t := range property.Tenants {
		if err := check("tenant", t.ID); err != nil {
			return err
		}
	}
	for _, u := range property.Units {
		if err := check("unit", u.ID); err != nil {
			return err
		}
		for _, t := range u.Tenants {
			if err := check("tenant", t.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
