// Package engine assembles monthly and annual performance reports for a
// property or one of its units from the persistence and amortization
// collaborators.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/common"
	"github.com/Veraticus/the-rent-must-flow/internal/insight"
	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/normalize"
	"github.com/Veraticus/the-rent-must-flow/internal/occupancy"
	"github.com/Veraticus/the-rent-must-flow/internal/performance"
	"github.com/Veraticus/the-rent-must-flow/internal/period"
	"github.com/Veraticus/the-rent-must-flow/internal/rent"
	"github.com/Veraticus/the-rent-must-flow/internal/service"
)

// Engine orchestrates report generation.
type Engine struct {
	properties   service.PropertyStore
	transactions service.TransactionStore
	amortization service.AmortizationCalculator
	aggregator   *performance.Aggregator
	resolver     *rent.Resolver
	cache        *reportCache
	config       Config
}

// Config holds configuration options for the engine.
type Config struct {
	Vocabulary          *performance.Vocabulary
	Retry               service.RetryOptions
	Workers             int
	AmortizationTimeout time.Duration
	EnableCache         bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Workers:             4,
		AmortizationTimeout: 2 * time.Second,
		Retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 50 * time.Millisecond,
			MaxDelay:     time.Second,
			Multiplier:   2.0,
		},
	}
}

// New creates a new engine with the given collaborators. amortization may be
// nil, in which case interest is never reported.
func New(properties service.PropertyStore, transactions service.TransactionStore, amortization service.AmortizationCalculator) *Engine {
	return NewWithConfig(properties, transactions, amortization, DefaultConfig())
}

// NewWithConfig creates a new engine with custom configuration.
func NewWithConfig(properties service.PropertyStore, transactions service.TransactionStore, amortization service.AmortizationCalculator, config Config) *Engine {
	defaults := DefaultConfig()
	if config.Workers <= 0 {
		config.Workers = defaults.Workers
	}
	if config.AmortizationTimeout <= 0 {
		config.AmortizationTimeout = defaults.AmortizationTimeout
	}

	resolver := rent.NewResolver()
	e := &Engine{
		properties:   properties,
		transactions: transactions,
		amortization: amortization,
		aggregator:   performance.NewAggregator(config.Vocabulary, resolver),
		resolver:     resolver,
		config:       config,
	}
	if config.EnableCache {
		e.cache = newReportCache()
	}
	return e
}

// Scope selects a whole property or one unit of it.
type Scope struct {
	PropertyID string
	UnitID     string
}

// ID returns the cost center the scope reports on.
func (s Scope) ID() string {
	if s.UnitID != "" {
		return s.UnitID
	}
	return s.PropertyID
}

// Report is the result for one scope and month.
type Report struct {
	Property  *model.Property
	Unit      *model.Unit
	Insight   insight.Insight
	Occupants []occupancy.Occupant
	Metrics   performance.Metrics
}

// snapshot is the point-in-time data a report is computed from.
type snapshot struct {
	property     *model.Property
	unit         *model.Unit
	transactions []model.Transaction
}

// Report computes the metrics and insight for scope in the month containing
// month.
func (e *Engine) Report(ctx context.Context, scope Scope, month time.Time) (*Report, error) {
	window := period.MonthWindow(month)
	version, versioned := e.dataVersion(ctx)
	key := cacheKey{scopeID: scope.ID(), month: window.Key(), version: version}

	if versioned {
		if cached, ok := e.cache.get(key); ok {
			slog.Debug("Report served from cache", "scope", key.scopeID, "month", key.month)
			return cached, nil
		}
	}

	snap, err := e.load(ctx, scope, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	report := e.build(ctx, snap, window.Start)
	if versioned {
		e.cache.put(key, report)
	}
	return report, nil
}

// PropertyReport is Report for a whole property.
func (e *Engine) PropertyReport(ctx context.Context, propertyID string, month time.Time) (*Report, error) {
	return e.Report(ctx, Scope{PropertyID: propertyID}, month)
}

// UnitReport is Report for a single unit.
func (e *Engine) UnitReport(ctx context.Context, propertyID, unitID string, month time.Time) (*Report, error) {
	return e.Report(ctx, Scope{PropertyID: propertyID, UnitID: unitID}, month)
}

// build runs the pure pipeline over a snapshot.
func (e *Engine) build(ctx context.Context, snap *snapshot, month time.Time) *Report {
	interest, ok := e.interestForMonth(ctx, snap.property, month)

	metrics := e.aggregator.Aggregate(performance.Input{
		Month:             month,
		Property:          snap.property,
		Unit:              snap.unit,
		Transactions:      snap.transactions,
		InterestPaid:      interest,
		InterestAvailable: ok,
	})

	return &Report{
		Property:  snap.property,
		Unit:      snap.unit,
		Occupants: occupantsFor(snap, month),
		Metrics:   metrics,
		Insight:   insight.Generate(metrics),
	}
}

func occupantsFor(snap *snapshot, month time.Time) []occupancy.Occupant {
	if snap.unit != nil {
		return []occupancy.Occupant{{
			Tenant: occupancy.TenantForMonth(snap.unit.Tenants, month),
			Unit:   snap.unit,
		}}
	}
	return occupancy.OccupantsForProperty(snap.property, month)
}

// load fetches the property, the unit in scope and the transactions dated
// within [from, to] for the scope's cost centers.
func (e *Engine) load(ctx context.Context, scope Scope, from, to time.Time) (*snapshot, error) {
	snap, err := e.loadScope(ctx, scope)
	if err != nil {
		return nil, err
	}

	centers := performance.CostCenters(snap.property, snap.unit)
	filter := service.TransactionFilter{
		StartDate:   &from,
		EndDate:     &to,
		CostCenters: sortedKeys(centers),
	}
	err = common.WithRetry(ctx, func() error {
		var listErr error
		snap.transactions, listErr = e.transactions.ListTransactions(ctx, filter)
		return listErr
	}, e.config.Retry)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for %s: %w", scope.ID(), err)
	}

	slog.Debug("Loaded report snapshot",
		"scope", scope.ID(),
		"from", from.Format(time.DateOnly),
		"to", to.Format(time.DateOnly),
		"transactions", len(snap.transactions))

	return snap, nil
}

// loadScope fetches the property and, for unit scopes, the unit.
func (e *Engine) loadScope(ctx context.Context, scope Scope) (*snapshot, error) {
	if scope.PropertyID == "" {
		return nil, fmt.Errorf("%w: property ID is required", common.ErrInvalidConfig)
	}

	var property *model.Property
	err := common.WithRetry(ctx, func() error {
		var getErr error
		property, getErr = e.properties.GetProperty(ctx, scope.PropertyID)
		return getErr
	}, e.config.Retry)
	if err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", scope.PropertyID, err)
	}

	snap := &snapshot{property: property}
	if scope.UnitID != "" {
		unit, unitErr := e.findUnit(ctx, property, scope.UnitID)
		if unitErr != nil {
			return nil, unitErr
		}
		snap.unit = unit
	}
	return snap, nil
}

func (e *Engine) findUnit(ctx context.Context, property *model.Property, unitID string) (*model.Unit, error) {
	var units []model.Unit
	err := common.WithRetry(ctx, func() error {
		var listErr error
		units, listErr = e.properties.ListUnits(ctx, property.ID)
		return listErr
	}, e.config.Retry)
	if err != nil {
		return nil, fmt.Errorf("failed to load units of %s: %w", property.ID, err)
	}

	for i := range units {
		if units[i].ID == unitID {
			return &units[i], nil
		}
	}
	return nil, fmt.Errorf("unit %s of property %s: %w", unitID, property.ID, common.ErrNotFound)
}

// interestForMonth asks the amortization collaborator for the interest part
// of the month's payment. Any failure yields (0, false).
func (e *Engine) interestForMonth(ctx context.Context, property *model.Property, month time.Time) (float64, bool) {
	if e.amortization == nil {
		return 0, false
	}
	req, ok := amortizationRequest(property, month)
	if !ok {
		return 0, false
	}

	callCtx, cancel := context.WithTimeout(ctx, e.config.AmortizationTimeout)
	defer cancel()

	result, err := e.amortization.Calculate(callCtx, req)
	if err != nil {
		common.LogWarn(fmt.Errorf("%w: %w", common.ErrAmortizationFailed, err),
			"Interest omitted from report",
			common.Fields{"property": property.ID, "month": period.MonthKey(month)})
		return 0, false
	}
	if !result.Success || result.InterestPaidForMonth < 0 {
		slog.Debug("Amortization returned no interest", "property", property.ID, "month", period.MonthKey(month))
		return 0, false
	}
	return result.InterestPaidForMonth, true
}

// amortizationRequest describes the property's loan, or reports false when
// the mortgage lacks the fields a schedule needs.
func amortizationRequest(property *model.Property, month time.Time) (service.AmortizationRequest, bool) {
	if property == nil || property.Mortgage == nil || !property.Mortgage.HasMortgage {
		return service.AmortizationRequest{}, false
	}
	m := property.Mortgage

	principal := normalize.ToNumber(m.OriginalLoanAmount)
	payment := normalize.ToNumber(m.PrincipalAndInterest)
	term := int(normalize.ToNumber(m.LoanTermYears))
	start, ok := normalize.ToDate(m.PurchaseDate)
	if !ok || principal <= 0 || payment <= 0 || term <= 0 {
		return service.AmortizationRequest{}, false
	}

	return service.AmortizationRequest{
		Principal:        principal,
		AnnualRate:       normalize.ToNumber(m.InterestRate),
		ScheduledPayment: payment,
		LoanStart:        start,
		TermYears:        term,
		TargetDate:       period.MonthWindow(month).Start,
	}, true
}

// dataVersion returns the store's data version when caching is enabled and
// the transaction store can report one.
func (e *Engine) dataVersion(ctx context.Context) (int64, bool) {
	if e.cache == nil {
		return 0, false
	}
	versioner, ok := e.transactions.(service.DataVersioner)
	if !ok {
		return 0, false
	}
	version, err := versioner.DataVersion(ctx)
	if err != nil {
		common.LogDebug("Data version unavailable, skipping cache", common.Fields{"error": err})
		return 0, false
	}
	return version, true
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
