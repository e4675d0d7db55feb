package performance

import (
	"fmt"
	"math"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/rent"
)

// Verdict is the qualitative reading of a month's metrics.
type Verdict string

const (
	// VerdictHealthy means positive cash flow above the cushion with strong coverage.
	VerdictHealthy Verdict = "Healthy Cash Flow"
	// VerdictUnderperforming means the month lost money after debt service.
	VerdictUnderperforming Verdict = "Underperforming"
	// VerdictHighDebt means debt coverage is below the lender threshold.
	VerdictHighDebt Verdict = "High Debt Ratio"
	// VerdictStable is everything else.
	VerdictStable Verdict = "Stable"
)

const (
	// DSCRThreshold is the coverage ratio lenders commonly require.
	DSCRThreshold = 1.25
	// HealthyCashFlowFloor is the monthly cash flow a healthy property clears.
	HealthyCashFlowFloor = 100.0
	// NoDebtLabel is displayed instead of an infinite DSCR.
	NoDebtLabel = "No Debt"
)

// Metrics is the financial performance of one scope for one month.
type Metrics struct {
	Month             time.Time
	ScopeID           string
	Verdict           Verdict
	RentSources       []rent.Source
	RentalIncome      float64
	OperatingExpenses float64
	PotentialRent     float64
	NOI               float64
	DebtPayment       float64
	TotalDebtPayment  float64
	CashFlow          float64
	DSCR              float64 // +Inf when there is no debt
	EconomicOccupancy float64 // percent
	BreakEvenRent     float64
	InterestPaid      float64
	PrincipalPaid     float64
	UnknownTotal      float64
	TransactionCount  int
	OccupantCount     int
	UnitCount         int
	InterestAvailable bool
}

// HasDebt reports whether any debt service applies.
func (m Metrics) HasDebt() bool {
	return m.TotalDebtPayment > 0
}

// Vacant reports whether no tenant occupied the scope during the month.
func (m Metrics) Vacant() bool {
	return m.OccupantCount == 0
}

// DSCRLabel formats the coverage ratio for display.
func (m Metrics) DSCRLabel() string {
	return FormatDSCR(m.DSCR)
}

// FormatDSCR renders a coverage ratio, using NoDebtLabel for +Inf.
func FormatDSCR(dscr float64) string {
	if math.IsInf(dscr, 1) {
		return NoDebtLabel
	}
	return fmt.Sprintf("%.2f", dscr)
}

// DetermineVerdict applies the verdict rules in order.
func DetermineVerdict(cashFlow, dscr, debtPayment float64) Verdict {
	switch {
	case cashFlow > HealthyCashFlowFloor && dscr > DSCRThreshold:
		return VerdictHealthy
	case cashFlow < 0:
		return VerdictUnderperforming
	case dscr < DSCRThreshold && debtPayment > 0:
		return VerdictHighDebt
	default:
		return VerdictStable
	}
}

// CoverageRatio returns noi / totalDebt, or +Inf when there is no debt.
func CoverageRatio(noi, totalDebt float64) float64 {
	if totalDebt > 0 {
		return noi / totalDebt
	}
	return math.Inf(1)
}
