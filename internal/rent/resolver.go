// Package rent resolves the contractual rent due for a month through an
// ordered chain of strategies. The first strategy to produce a positive
// amount wins; when none does the rent due is zero.
package rent

import (
	"log/slog"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/normalize"
)

// Source names the strategy that produced a rent amount.
type Source string

const (
	// SourceTenantHistory is the occupant's own as-of rent history.
	SourceTenantHistory Source = "tenant-history"
	// SourcePropertyHistory is the as-of rent history of every tenant of the property.
	SourcePropertyHistory Source = "property-history"
	// SourceTenantLegacy is one of the occupant's pre-history scalar fields.
	SourceTenantLegacy Source = "tenant-legacy"
	// SourceUnitScalar is the unit's configured rent or target rent.
	SourceUnitScalar Source = "unit-scalar"
	// SourcePropertyScalar is the property's configured target rent or rent.
	SourcePropertyScalar Source = "property-scalar"
	// SourceNone means nothing in the chain produced a positive amount.
	SourceNone Source = "none"
)

// Input is everything a strategy may look at. Tenant and Unit may be nil.
type Input struct {
	Date     time.Time
	Tenant   *model.Tenant
	Property *model.Property
	Unit     *model.Unit
}

// Strategy is one step of the fallback chain.
type Strategy struct {
	Resolve func(Input) (float64, bool)
	Source  Source
}

// Resolution is the outcome of walking the chain.
type Resolution struct {
	Source Source
	Amount float64
}

// Resolver walks its strategies in order.
type Resolver struct {
	strategies []Strategy
}

// NewResolver creates a resolver over the given strategies, or over
// DefaultStrategies when none are given.
func NewResolver(strategies ...Strategy) *Resolver {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Resolver{strategies: strategies}
}

// DefaultStrategies returns the standard precedence: tenant history,
// property-wide history, tenant legacy fields, unit scalars, property scalars.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Source: SourceTenantHistory, Resolve: tenantHistory},
		{Source: SourcePropertyHistory, Resolve: propertyHistory},
		{Source: SourceTenantLegacy, Resolve: tenantLegacy},
		{Source: SourceUnitScalar, Resolve: unitScalar},
		{Source: SourcePropertyScalar, Resolve: propertyScalar},
	}
}

// Resolve returns the first positive amount in the chain and where it came from.
func (r *Resolver) Resolve(in Input) Resolution {
	for _, s := range r.strategies {
		if s.Resolve == nil {
			continue
		}
		amount, ok := s.Resolve(in)
		if ok && amount > 0 {
			slog.Debug("rent resolved",
				"source", s.Source,
				"amount", amount,
				"month", in.Date.Format("2006-01"))
			return Resolution{Source: s.Source, Amount: amount}
		}
	}
	return Resolution{Source: SourceNone}
}

// ResolveRentDueForMonth returns the rent due on date for the month occupant
// of property (and unit, when the tenant lives in one). It never returns a
// negative amount.
func ResolveRentDueForMonth(tenant *model.Tenant, property *model.Property, unit *model.Unit, date time.Time) float64 {
	return defaultResolver.Resolve(Input{
		Date:     date,
		Tenant:   tenant,
		Property: property,
		Unit:     unit,
	}).Amount
}

var defaultResolver = NewResolver()

func tenantHistory(in Input) (float64, bool) {
	if in.Tenant == nil {
		return 0, false
	}
	return AsOf(in.Tenant.RentHistory, in.Date)
}

// propertyHistory covers rent changes recorded against the wrong tenant
// record, including a sibling unit's tenant. The pool is every tenant ever
// attached to the property; a unit's own tenants are used only when no
// property is in scope.
func propertyHistory(in Input) (float64, bool) {
	var pool []model.Tenant
	switch {
	case in.Property != nil:
		pool = in.Property.AllTenants()
	case in.Unit != nil:
		pool = in.Unit.Tenants
	default:
		return 0, false
	}
	return AsOf(FlattenHistory(pool), in.Date)
}

func tenantLegacy(in Input) (float64, bool) {
	if in.Tenant == nil {
		return 0, false
	}
	return normalize.PositiveNumber(in.Tenant.RentAmount, in.Tenant.Rent, in.Tenant.MonthlyRent)
}

func unitScalar(in Input) (float64, bool) {
	if in.Unit == nil {
		return 0, false
	}
	var rent, target any
	if in.Unit.Financials != nil {
		rent, target = in.Unit.Financials.Rent, in.Unit.Financials.TargetRent
	}
	return normalize.PositiveNumber(rent, target, in.Unit.TargetRent)
}

func propertyScalar(in Input) (float64, bool) {
	if in.Property == nil {
		return 0, false
	}
	var rent, target any
	if in.Property.Financials != nil {
		rent, target = in.Property.Financials.Rent, in.Property.Financials.TargetRent
	}
	return normalize.PositiveNumber(target, rent, in.Property.TargetRent)
}
