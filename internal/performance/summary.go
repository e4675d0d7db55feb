package performance

import (
	"github.com/shopspring/decimal"
)

// Summary totals a run of monthly metrics for one scope.
type Summary struct {
	ScopeID           string
	Verdict           Verdict
	Months            int
	RentalIncome      float64
	OperatingExpenses float64
	PotentialRent     float64
	NOI               float64
	DebtPayment       float64
	TotalDebtPayment  float64
	CashFlow          float64
	DSCR              float64
	EconomicOccupancy float64
	InterestPaid      float64
}

// Summarize adds up monthly metrics. Ratios are recomputed from the totals
// rather than averaged.
func Summarize(months []Metrics) Summary {
	var (
		income, expenses, potential  = decimal.Zero, decimal.Zero, decimal.Zero
		debt, totalDebt, interestAmt = decimal.Zero, decimal.Zero, decimal.Zero
	)

	s := Summary{Months: len(months)}
	for _, m := range months {
		if s.ScopeID == "" {
			s.ScopeID = m.ScopeID
		}
		income = income.Add(decimal.NewFromFloat(m.RentalIncome))
		expenses = expenses.Add(decimal.NewFromFloat(m.OperatingExpenses))
		potential = potential.Add(decimal.NewFromFloat(m.PotentialRent))
		debt = debt.Add(decimal.NewFromFloat(m.DebtPayment))
		totalDebt = totalDebt.Add(decimal.NewFromFloat(m.TotalDebtPayment))
		interestAmt = interestAmt.Add(decimal.NewFromFloat(m.InterestPaid))
	}

	noi := income.Sub(expenses)
	s.RentalIncome = income.InexactFloat64()
	s.OperatingExpenses = expenses.InexactFloat64()
	s.PotentialRent = potential.InexactFloat64()
	s.NOI = noi.InexactFloat64()
	s.DebtPayment = debt.InexactFloat64()
	s.TotalDebtPayment = totalDebt.InexactFloat64()
	s.CashFlow = noi.Sub(debt).InexactFloat64()
	s.InterestPaid = interestAmt.InexactFloat64()
	s.DSCR = CoverageRatio(s.NOI, s.TotalDebtPayment)
	if potential.IsPositive() {
		s.EconomicOccupancy = income.Div(potential).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	s.Verdict = DetermineVerdict(s.CashFlow, s.DSCR, s.DebtPayment)
	return s
}

// DSCRLabel formats the coverage ratio for display.
func (s Summary) DSCRLabel() string {
	return FormatDSCR(s.DSCR)
}
