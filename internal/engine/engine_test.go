package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/common"
	"github.com/Veraticus/the-rent-must-flow/internal/insight"
	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/performance"
	"github.com/Veraticus/the-rent-must-flow/internal/rent"
	"github.com/Veraticus/the-rent-must-flow/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var may2024 = time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)

func testDuplex() model.Property {
	return model.Property{
		ID:   "p-1",
		Name: "Maple Duplex",
		Type: model.PropertyTypeMultiFamily,
		Mortgage: &model.Mortgage{
			HasMortgage:          true,
			PrincipalAndInterest: 1000,
			EscrowAmount:         "$200",
			OriginalLoanAmount:   200000,
			InterestRate:         6,
			PurchaseDate:         "2020-01-01",
			LoanTermYears:        30,
		},
		Units: []model.Unit{
			{
				ID:         "u-a",
				PropertyID: "p-1",
				Name:       "A",
				Tenants: []model.Tenant{{
					ID:          "t-a",
					LeaseStart:  "2023-06-01",
					LeaseEnd:    "2025-05-31",
					RentHistory: []model.RentHistoryEntry{{Amount: 1000, EffectiveDate: "2023-06-01"}},
				}},
			},
			{
				ID:         "u-b",
				PropertyID: "p-1",
				Name:       "B",
				Tenants: []model.Tenant{{
					ID:         "t-b",
					LeaseStart: "2024-01-01",
					LeaseEnd:   "2024-12-31",
					RentAmount: "1,000",
				}},
			},
		},
	}
}

func monthTransactions(year int, month time.Month) []model.Transaction {
	day := func(d int) time.Time { return time.Date(year, month, d, 12, 0, 0, 0, time.UTC) }
	prefix := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
	return []model.Transaction{
		{ID: prefix + "-a", Date: day(1), Amount: 1000, CostCenter: "u-a", Category: model.CategoryHierarchy{L0: "Income"}},
		{ID: prefix + "-b", Date: day(3), Amount: 1000, CostCenter: "u-b", Category: model.CategoryHierarchy{L0: "Income"}},
		{ID: prefix + "-r", Date: day(20), Amount: -300, CostCenter: "p-1", Category: model.CategoryHierarchy{L0: "Operating Expenses", L1: "Repairs"}},
	}
}

func newTestStore() *MockStore {
	store := NewMockStore(testDuplex())
	store.AddTransactions(monthTransactions(2024, time.May)...)
	store.AddTransactions(model.Transaction{
		ID: "elsewhere", Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Amount: 5000, CostCenter: "p-2",
		Category: model.CategoryHierarchy{L0: "Income"},
	})
	return store
}

func fastConfig() Config {
	config := DefaultConfig()
	config.Retry = service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
	return config
}

func TestPropertyReport(t *testing.T) {
	store := newTestStore()
	e := NewWithConfig(store, store, nil, fastConfig())

	report, err := e.PropertyReport(context.Background(), "p-1", may2024)
	require.NoError(t, err)

	m := report.Metrics
	assert.Equal(t, "p-1", m.ScopeID)
	assert.InDelta(t, 2000, m.RentalIncome, 1e-9)
	assert.InDelta(t, 300, m.OperatingExpenses, 1e-9)
	assert.InDelta(t, 1700, m.NOI, 1e-9)
	assert.InDelta(t, 700, m.CashFlow, 1e-9)
	assert.InDelta(t, 1700.0/1200.0, m.DSCR, 1e-9)
	assert.InDelta(t, 2000, m.PotentialRent, 1e-9)
	assert.InDelta(t, 100, m.EconomicOccupancy, 1e-9)
	assert.InDelta(t, 1500, m.BreakEvenRent, 1e-9)
	assert.Equal(t, performance.VerdictHealthy, m.Verdict)
	assert.Equal(t, 2, m.OccupantCount)
	assert.Equal(t, 3, m.TransactionCount)
	assert.Equal(t, []rent.Source{rent.SourceTenantHistory, rent.SourcePropertyHistory}, m.RentSources)
	assert.False(t, m.InterestAvailable)

	assert.Equal(t, insight.KindStable, report.Insight.Kind)
	require.Len(t, report.Occupants, 2)
	assert.Equal(t, "t-a", report.Occupants[0].Tenant.ID)
	assert.Nil(t, report.Unit)
}

func TestUnitReport(t *testing.T) {
	store := newTestStore()
	e := NewWithConfig(store, store, nil, fastConfig())

	report, err := e.UnitReport(context.Background(), "p-1", "u-a", may2024)
	require.NoError(t, err)

	m := report.Metrics
	assert.Equal(t, "u-a", m.ScopeID)
	assert.InDelta(t, 1000, m.RentalIncome, 1e-9)
	assert.InDelta(t, 0, m.OperatingExpenses, 1e-9)
	assert.InDelta(t, 1000, m.PotentialRent, 1e-9)
	assert.Equal(t, 1, m.TransactionCount)
	assert.Equal(t, performance.VerdictHighDebt, m.Verdict)
	assert.Equal(t, insight.KindCoverage, report.Insight.Kind)

	require.NotNil(t, report.Unit)
	assert.Equal(t, "A", report.Unit.Name)
	require.Len(t, report.Occupants, 1)
	assert.Equal(t, "t-a", report.Occupants[0].Tenant.ID)
}

func TestReport_VacantUnit(t *testing.T) {
	store := newTestStore()
	e := NewWithConfig(store, store, nil, fastConfig())

	report, err := e.UnitReport(context.Background(), "p-1", "u-b", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, report.Metrics.Vacant())
	assert.Nil(t, report.Occupants[0].Tenant)
	assert.InDelta(t, 1000, report.Metrics.PotentialRent, 1e-9)
	assert.Equal(t, []rent.Source{rent.SourcePropertyHistory}, report.Metrics.RentSources)
}

func TestReport_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		scope   Scope
		name    string
	}{
		{name: "missing property ID", scope: Scope{}, wantErr: common.ErrInvalidConfig},
		{name: "unknown property", scope: Scope{PropertyID: "nope"}, wantErr: common.ErrNotFound},
		{name: "unknown unit", scope: Scope{PropertyID: "p-1", UnitID: "u-z"}, wantErr: common.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()
			e := NewWithConfig(store, store, nil, fastConfig())

			_, err := e.Report(context.Background(), tt.scope, may2024)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReport_NotFoundIsNotRetried(t *testing.T) {
	store := newTestStore()
	e := NewWithConfig(store, store, nil, fastConfig())

	_, err := e.PropertyReport(context.Background(), "nope", may2024)
	require.Error(t, err)

	propertyCalls, _ := store.Calls()
	assert.Equal(t, 1, propertyCalls)
}

func TestReport_RetriesBusyStore(t *testing.T) {
	store := newTestStore()
	store.Err = common.ErrStoreBusy
	store.FailNext = 2
	e := NewWithConfig(store, store, nil, fastConfig())

	report, err := e.PropertyReport(context.Background(), "p-1", may2024)
	require.NoError(t, err)
	assert.InDelta(t, 1700, report.Metrics.NOI, 1e-9)

	propertyCalls, transactionCalls := store.Calls()
	assert.Equal(t, 3, propertyCalls)
	assert.Equal(t, 1, transactionCalls)
}

func TestReport_StoreFailureSurfaces(t *testing.T) {
	store := newTestStore()
	store.Err = errors.New("disk on fire")
	store.FailNext = 1
	e := NewWithConfig(store, store, nil, fastConfig())

	_, err := e.PropertyReport(context.Background(), "p-1", may2024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestReport_Interest(t *testing.T) {
	store := newTestStore()
	calc := &MockAmortization{Result: service.AmortizationResult{InterestPaidForMonth: 800, Success: true}}
	e := NewWithConfig(store, store, calc, fastConfig())

	report, err := e.PropertyReport(context.Background(), "p-1", may2024)
	require.NoError(t, err)

	m := report.Metrics
	assert.True(t, m.InterestAvailable)
	assert.InDelta(t, 800, m.InterestPaid, 1e-9)
	assert.InDelta(t, 200, m.PrincipalPaid, 1e-9)
	// Interest does not change NOI or cash flow.
	assert.InDelta(t, 700, m.CashFlow, 1e-9)

	require.Len(t, calc.Requests, 1)
	req := calc.Requests[0]
	assert.InDelta(t, 200000, req.Principal, 1e-9)
	assert.InDelta(t, 6, req.AnnualRate, 1e-9)
	assert.InDelta(t, 1000, req.ScheduledPayment, 1e-9)
	assert.Equal(t, 30, req.TermYears)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), req.LoanStart)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), req.TargetDate)
}

func TestReport_AmortizationFailuresAreZeroed(t *testing.T) {
	tests := []struct {
		calc *MockAmortization
		name string
	}{
		{name: "error", calc: &MockAmortization{Err: errors.New("solver diverged")}},
		{name: "unsuccessful", calc: &MockAmortization{Result: service.AmortizationResult{InterestPaidForMonth: 800}}},
		{name: "timeout", calc: &MockAmortization{
			Delay:  time.Second,
			Result: service.AmortizationResult{InterestPaidForMonth: 800, Success: true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()
			config := fastConfig()
			config.AmortizationTimeout = 10 * time.Millisecond
			e := NewWithConfig(store, store, tt.calc, config)

			report, err := e.PropertyReport(context.Background(), "p-1", may2024)
			require.NoError(t, err)
			assert.False(t, report.Metrics.InterestAvailable)
			assert.InDelta(t, 0, report.Metrics.InterestPaid, 1e-9)
			assert.InDelta(t, 1700, report.Metrics.NOI, 1e-9)
			assert.Equal(t, 1, tt.calc.RequestCount())
		})
	}
}

func TestReport_IncompleteMortgageSkipsAmortization(t *testing.T) {
	property := testDuplex()
	property.Mortgage.OriginalLoanAmount = nil
	store := NewMockStore(property)
	calc := &MockAmortization{Result: service.AmortizationResult{InterestPaidForMonth: 800, Success: true}}
	e := NewWithConfig(store, store, calc, fastConfig())

	report, err := e.PropertyReport(context.Background(), "p-1", may2024)
	require.NoError(t, err)
	assert.False(t, report.Metrics.InterestAvailable)
	assert.Equal(t, 0, calc.RequestCount())
}

func TestReport_Cache(t *testing.T) {
	store := newTestStore()
	config := fastConfig()
	config.EnableCache = true
	e := NewWithConfig(store, store, nil, config)
	ctx := context.Background()

	first, err := e.PropertyReport(ctx, "p-1", may2024)
	require.NoError(t, err)
	second, err := e.PropertyReport(ctx, "p-1", may2024)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, transactionCalls := store.Calls()
	assert.Equal(t, 1, transactionCalls)

	// New data invalidates the cached month.
	store.AddTransactions(model.Transaction{
		ID: "late", Date: time.Date(2024, 5, 28, 0, 0, 0, 0, time.UTC), Amount: 100, CostCenter: "u-a",
		Category: model.CategoryHierarchy{L0: "Income"},
	})
	third, err := e.PropertyReport(ctx, "p-1", may2024)
	require.NoError(t, err)
	assert.InDelta(t, 2100, third.Metrics.RentalIncome, 1e-9)

	_, transactionCalls = store.Calls()
	assert.Equal(t, 2, transactionCalls)
	assert.Equal(t, 1, e.cache.len())
}

func TestReport_CacheDisabled(t *testing.T) {
	store := newTestStore()
	e := NewWithConfig(store, store, nil, fastConfig())

	for i := 0; i < 2; i++ {
		_, err := e.PropertyReport(context.Background(), "p-1", may2024)
		require.NoError(t, err)
	}
	_, transactionCalls := store.Calls()
	assert.Equal(t, 2, transactionCalls)
}

func TestYearReport(t *testing.T) {
	store := NewMockStore(testDuplex())
	for month := time.January; month <= time.December; month++ {
		store.AddTransactions(monthTransactions(2024, month)...)
	}
	calc := &MockAmortization{Result: service.AmortizationResult{InterestPaidForMonth: 700, Success: true}}
	e := NewWithConfig(store, store, calc, fastConfig())

	var progressed atomic.Int32
	report, err := e.YearReport(context.Background(), Scope{PropertyID: "p-1"}, 2024, func(time.Time) {
		progressed.Add(1)
	})
	require.NoError(t, err)

	assert.Equal(t, 2024, report.Year)
	assert.Equal(t, int32(12), progressed.Load())
	require.Len(t, report.Months, 12)
	for i, m := range report.Months {
		require.NotNil(t, m)
		assert.Equal(t, time.Month(i+1), m.Metrics.Month.Month())
		assert.InDelta(t, 1700, m.Metrics.NOI, 1e-9)
	}

	s := report.Summary
	assert.Equal(t, 12, s.Months)
	assert.InDelta(t, 24000, s.RentalIncome, 1e-6)
	assert.InDelta(t, 3600, s.OperatingExpenses, 1e-6)
	assert.InDelta(t, 20400, s.NOI, 1e-6)
	assert.InDelta(t, 12000, s.DebtPayment, 1e-6)
	assert.InDelta(t, 8400, s.CashFlow, 1e-6)
	assert.InDelta(t, 8400, s.InterestPaid, 1e-6)
	assert.InDelta(t, 20400.0/14400.0, s.DSCR, 1e-9)
	assert.Equal(t, performance.VerdictHealthy, s.Verdict)

	// One snapshot read serves all twelve months.
	propertyCalls, transactionCalls := store.Calls()
	assert.Equal(t, 1, propertyCalls)
	assert.Equal(t, 1, transactionCalls)
	assert.Equal(t, 12, calc.RequestCount())
}

func TestYearReport_Cancelled(t *testing.T) {
	store := newTestStore()
	e := NewWithConfig(store, store, nil, fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.YearReport(ctx, Scope{PropertyID: "p-1"}, 2024, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRentTrace(t *testing.T) {
	store := newTestStore()
	e := New(store, store, nil)

	lines, err := e.RentTrace(context.Background(), Scope{PropertyID: "p-1"}, may2024)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "u-a", lines[0].Unit.ID)
	assert.Equal(t, rent.SourceTenantHistory, lines[0].Resolution.Source)
	assert.InDelta(t, 1000, lines[0].Resolution.Amount, 1e-9)

	assert.Equal(t, "u-b", lines[1].Unit.ID)
	assert.Equal(t, rent.SourcePropertyHistory, lines[1].Resolution.Source)
	assert.InDelta(t, 1000, lines[1].Resolution.Amount, 1e-9)

	_, transactionCalls := store.Calls()
	assert.Equal(t, 0, transactionCalls)
}

func TestScope_ID(t *testing.T) {
	assert.Equal(t, "p-1", Scope{PropertyID: "p-1"}.ID())
	assert.Equal(t, "u-a", Scope{PropertyID: "p-1", UnitID: "u-a"}.ID())
}
