// Package service defines the collaborator contracts the rent and
// performance engine reads through.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
// An empty CostCenters slice matches every cost center.
type TransactionFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	CostCenters []string
	Limit       int
	Offset      int
}

// PropertyStore reads properties and their units. Returned properties carry
// their direct tenants and their units with unit tenants attached.
type PropertyStore interface {
	GetProperty(ctx context.Context, id string) (*model.Property, error)
	ListUnits(ctx context.Context, propertyID string) ([]model.Unit, error)
	ListProperties(ctx context.Context) ([]model.Property, error)
}

// TransactionStore reads transactions.
type TransactionStore interface {
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
}

// DataVersioner is implemented by stores that can report a counter which
// changes whenever tenant or transaction data changes.
type DataVersioner interface {
	DataVersion(ctx context.Context) (int64, error)
}

// AmortizationRequest describes the loan and the month being evaluated.
type AmortizationRequest struct {
	LoanStart        time.Time
	TargetDate       time.Time
	Principal        float64
	AnnualRate       float64
	ScheduledPayment float64
	TermYears        int
}

// AmortizationResult is the interest share of the scheduled payment.
type AmortizationResult struct {
	InterestPaidForMonth float64
	Success              bool
}

// AmortizationCalculator computes the interest portion of a loan payment.
// Calls may be slow or fail; callers bound them with ctx.
type AmortizationCalculator interface {
	Calculate(ctx context.Context, req AmortizationRequest) (AmortizationResult, error)
}

// Storage is the persistence surface used by import tooling and the CLI.
type Storage interface {
	PropertyStore
	TransactionStore
	DataVersioner

	SaveProperty(ctx context.Context, property *model.Property) error
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	DeleteProperty(ctx context.Context, id string) error

	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
