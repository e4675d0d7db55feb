// Package performance computes monthly property financial metrics: income,
// operating expenses, NOI, cash flow, debt coverage, economic occupancy,
// break-even rent and a qualitative verdict.
package performance

import (
	"log/slog"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/normalize"
	"github.com/Veraticus/the-rent-must-flow/internal/occupancy"
	"github.com/Veraticus/the-rent-must-flow/internal/period"
	"github.com/Veraticus/the-rent-must-flow/internal/rent"
	"github.com/shopspring/decimal"
)

// Input is one scope and month to aggregate. Unit is nil for a whole-property
// summary. Transactions outside the scope's cost centers or the month are
// ignored, so callers may pass a wider set.
type Input struct {
	Month        time.Time
	Property     *model.Property
	Unit         *model.Unit
	Transactions []model.Transaction
	// InterestPaid is the interest portion of the month's debt payment, when
	// the amortization collaborator produced one.
	InterestPaid      float64
	InterestAvailable bool
}

// Aggregator turns transactions and rent configuration into Metrics.
type Aggregator struct {
	vocabulary *Vocabulary
	resolver   *rent.Resolver
}

// NewAggregator creates an aggregator. Nil arguments fall back to the
// default vocabulary and the default rent chain.
func NewAggregator(vocabulary *Vocabulary, resolver *rent.Resolver) *Aggregator {
	if vocabulary == nil {
		vocabulary = DefaultVocabulary()
	}
	if resolver == nil {
		resolver = rent.NewResolver()
	}
	return &Aggregator{vocabulary: vocabulary, resolver: resolver}
}

// Vocabulary returns the category vocabulary in use.
func (a *Aggregator) Vocabulary() *Vocabulary {
	return a.vocabulary
}

// CostCenters returns the cost center IDs belonging to a scope: the unit
// alone, or the property and all of its units.
func CostCenters(property *model.Property, unit *model.Unit) map[string]bool {
	centers := make(map[string]bool)
	if unit != nil {
		centers[unit.ID] = true
		return centers
	}
	if property == nil {
		return centers
	}
	centers[property.ID] = true
	for _, u := range property.Units {
		centers[u.ID] = true
	}
	return centers
}

// ScopeTransactions returns the transactions attributed to the scope and
// dated inside window.
func ScopeTransactions(txns []model.Transaction, property *model.Property, unit *model.Unit, window period.Window) []model.Transaction {
	centers := CostCenters(property, unit)
	scoped := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if !centers[t.CostCenter] || !window.Contains(t.Date) {
			continue
		}
		scoped = append(scoped, t)
	}
	return scoped
}

// Aggregate computes the metrics for in.
func (a *Aggregator) Aggregate(in Input) Metrics {
	window := period.MonthWindow(in.Month)
	scoped := ScopeTransactions(in.Transactions, in.Property, in.Unit, window)

	income := decimal.Zero
	expenses := decimal.Zero
	unknown := decimal.Zero
	for _, t := range scoped {
		amount := decimal.NewFromFloat(t.Amount).Abs()
		switch a.vocabulary.Classify(t.Category.L0) {
		case model.ClassIncome:
			income = income.Add(amount)
		case model.ClassOperatingExpense:
			expenses = expenses.Add(amount)
		case model.ClassUnknown:
			unknown = unknown.Add(amount)
		}
	}

	potential, sources, occupants, units := a.potentialRent(in.Property, in.Unit, window.Start)

	debt, escrow := mortgagePayments(in.Property)
	totalDebt := debt.Add(escrow)
	noi := income.Sub(expenses)
	cashFlow := noi.Sub(debt)

	m := Metrics{
		Month:             window.Start,
		ScopeID:           scopeID(in.Property, in.Unit),
		RentSources:       sources,
		RentalIncome:      income.InexactFloat64(),
		OperatingExpenses: expenses.InexactFloat64(),
		PotentialRent:     potential.InexactFloat64(),
		NOI:               noi.InexactFloat64(),
		DebtPayment:       debt.InexactFloat64(),
		TotalDebtPayment:  totalDebt.InexactFloat64(),
		CashFlow:          cashFlow.InexactFloat64(),
		BreakEvenRent:     expenses.Add(totalDebt).InexactFloat64(),
		UnknownTotal:      unknown.InexactFloat64(),
		TransactionCount:  len(scoped),
		OccupantCount:     occupants,
		UnitCount:         units,
	}

	m.DSCR = CoverageRatio(m.NOI, m.TotalDebtPayment)
	if potential.IsPositive() {
		m.EconomicOccupancy = income.Div(potential).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	if in.InterestAvailable && in.InterestPaid > 0 {
		interest := decimal.NewFromFloat(in.InterestPaid)
		m.InterestAvailable = true
		m.InterestPaid = interest.InexactFloat64()
		m.PrincipalPaid = decimal.Max(debt.Sub(interest), decimal.Zero).InexactFloat64()
	}

	m.Verdict = DetermineVerdict(m.CashFlow, m.DSCR, m.DebtPayment)

	slog.Debug("aggregated month",
		"scope", m.ScopeID,
		"month", window.Key(),
		"transactions", m.TransactionCount,
		"noi", m.NOI,
		"verdict", m.Verdict)

	return m
}

// potentialRent sums the rent due for every billable space in scope.
func (a *Aggregator) potentialRent(property *model.Property, unit *model.Unit, date time.Time) (decimal.Decimal, []rent.Source, int, int) {
	if property == nil && unit == nil {
		return decimal.Zero, nil, 0, 0
	}

	var slots []occupancy.Occupant
	if unit != nil {
		slots = []occupancy.Occupant{{Tenant: occupancy.TenantForMonth(unit.Tenants, date), Unit: unit}}
	} else {
		slots = occupancy.OccupantsForProperty(property, date)
	}

	total := decimal.Zero
	sources := make([]rent.Source, 0, len(slots))
	units := 0
	for _, slot := range slots {
		if slot.Unit != nil {
			units++
		}
		res := a.resolver.Resolve(rent.Input{
			Date:     date,
			Tenant:   slot.Tenant,
			Property: property,
			Unit:     slot.Unit,
		})
		total = total.Add(decimal.NewFromFloat(res.Amount))
		sources = append(sources, res.Source)
	}
	return total, sources, occupancy.Count(slots), units
}

// mortgagePayments returns principal-and-interest and escrow. Properties
// without an active mortgage carry no debt; negative values count as zero.
func mortgagePayments(property *model.Property) (decimal.Decimal, decimal.Decimal) {
	if property == nil || property.Mortgage == nil || !property.Mortgage.HasMortgage {
		return decimal.Zero, decimal.Zero
	}
	pi := decimal.NewFromFloat(normalize.ToNumber(property.Mortgage.PrincipalAndInterest))
	escrow := decimal.NewFromFloat(normalize.ToNumber(property.Mortgage.EscrowAmount))
	return decimal.Max(pi, decimal.Zero), decimal.Max(escrow, decimal.Zero)
}

func scopeID(property *model.Property, unit *model.Unit) string {
	if unit != nil {
		return unit.ID
	}
	if property != nil {
		return property.ID
	}
	return ""
}
