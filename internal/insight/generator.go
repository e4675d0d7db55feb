// Package insight turns monthly performance metrics into a single
// human-readable recommendation. Rules are evaluated in order and the first
// match wins.
package insight

import (
	"fmt"
	"math"

	"github.com/Veraticus/the-rent-must-flow/internal/performance"
)

// Kind identifies which rule produced an insight.
type Kind string

// Insight kinds, in rule order.
const (
	KindCollection    Kind = "collection"
	KindConcentration Kind = "concentration"
	KindRefinance     Kind = "refinance"
	KindCoverage      Kind = "coverage"
	KindStable        Kind = "stable"
)

const (
	// CollectionTarget is the economic occupancy below which collection is flagged.
	CollectionTarget = 95.0
	// ConcentrationDSCR is the coverage above which single-tenant risk is flagged.
	ConcentrationDSCR = 2.0
)

// Insight is a recommendation with the rule that produced it.
type Insight struct {
	Kind    Kind
	Message string
}

type rule struct {
	match  func(performance.Metrics) bool
	render func(performance.Metrics) string
	kind   Kind
}

var rules = []rule{
	{
		kind: KindCollection,
		match: func(m performance.Metrics) bool {
			return m.CashFlow > 0 && m.PotentialRent > 0 && m.EconomicOccupancy < CollectionTarget
		},
		render: func(m performance.Metrics) string {
			return fmt.Sprintf(
				"Cash flow is positive but only %.0f%% of potential rent was collected. Collecting the full %s would add %s to this month's cash flow.",
				m.EconomicOccupancy, money(m.PotentialRent), money(m.PotentialRent-m.RentalIncome))
		},
	},
	{
		kind: KindConcentration,
		match: func(m performance.Metrics) bool {
			return !math.IsInf(m.DSCR, 1) && m.DSCR >= ConcentrationDSCR && m.OccupantCount == 1
		},
		render: func(m performance.Metrics) string {
			return fmt.Sprintf(
				"Debt coverage is strong (DSCR %s) but all income depends on a single tenant. Consider building a reserve of at least %s to cover a vacancy.",
				m.DSCRLabel(), money(3*m.TotalDebtPayment))
		},
	},
	{
		kind: KindRefinance,
		match: func(m performance.Metrics) bool {
			return m.NOI > 0 && m.CashFlow < 0
		},
		render: func(m performance.Metrics) string {
			return fmt.Sprintf(
				"The property is operationally profitable (NOI %s) but debt payments of %s leave cash flow at %s. Refinancing to a lower payment could restore positive cash flow.",
				money(m.NOI), money(m.DebtPayment), money(m.CashFlow))
		},
	},
	{
		kind: KindCoverage,
		match: func(m performance.Metrics) bool {
			return m.HasDebt() && m.DSCR < performance.DSCRThreshold
		},
		render: func(m performance.Metrics) string {
			gap := performance.DSCRThreshold*m.TotalDebtPayment - m.NOI
			return fmt.Sprintf(
				"DSCR of %s is below the %.2f lender threshold. Cut operating expenses or raise rent by %s per month to reach it.",
				m.DSCRLabel(), performance.DSCRThreshold, money(gap))
		},
	},
}

// Generate returns the recommendation for m.
func Generate(m performance.Metrics) Insight {
	for _, r := range rules {
		if r.match(m) {
			return Insight{Kind: r.kind, Message: r.render(m)}
		}
	}
	return Insight{
		Kind:    KindStable,
		Message: fmt.Sprintf("Performance is stable: %s verdict with %s net operating income.", m.Verdict, money(m.NOI)),
	}
}

func money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}
