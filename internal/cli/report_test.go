package cli

import (
	"math"
	"testing"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/engine"
	"github.com/Veraticus/the-rent-must-flow/internal/insight"
	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/performance"
	"github.com/Veraticus/the-rent-must-flow/internal/rent"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		want   string
		amount float64
	}{
		{amount: 0, want: "$0.00"},
		{amount: 999, want: "$999.00"},
		{amount: 1000, want: "$1,000.00"},
		{amount: 1234567.891, want: "$1,234,567.89"},
		{amount: -50, want: "-$50.00"},
		{amount: -1700.5, want: "-$1,700.50"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.amount))
		})
	}
}

func testReport() *engine.Report {
	property := &model.Property{ID: "p-1", Name: "Maple Duplex"}
	return &engine.Report{
		Property: property,
		Metrics: performance.Metrics{
			Month:             time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			ScopeID:           "p-1",
			RentalIncome:      2000,
			OperatingExpenses: 300,
			NOI:               1700,
			DebtPayment:       1000,
			TotalDebtPayment:  1200,
			CashFlow:          700,
			DSCR:              1700.0 / 1200.0,
			PotentialRent:     2000,
			EconomicOccupancy: 100,
			BreakEvenRent:     1500,
			InterestPaid:      800,
			PrincipalPaid:     200,
			InterestAvailable: true,
			OccupantCount:     2,
			Verdict:           performance.VerdictHealthy,
		},
		Insight: insight.Insight{Kind: insight.KindStable, Message: "Performance is stable."},
	}
}

func TestRenderReport(t *testing.T) {
	out := RenderReport(testReport())

	for _, want := range []string{
		"Maple Duplex · May 2024",
		"$2,000.00",
		"$1,700.00",
		"1.42",
		"100.0%",
		"Interest paid",
		"Healthy Cash Flow",
		"Performance is stable.",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Vacant")
}

func TestRenderReport_NoDebtVacantUnit(t *testing.T) {
	r := testReport()
	r.Unit = &model.Unit{ID: "u-a", Name: "A"}
	r.Metrics.DSCR = math.Inf(1)
	r.Metrics.InterestAvailable = false
	r.Metrics.OccupantCount = 0
	r.Metrics.UnknownTotal = 42

	out := RenderReport(r)
	assert.Contains(t, out, "Maple Duplex · A · May 2024")
	assert.Contains(t, out, performance.NoDebtLabel)
	assert.Contains(t, out, "Vacant")
	assert.Contains(t, out, "Unclassified")
	assert.NotContains(t, out, "Interest paid")
}

func TestRenderYear(t *testing.T) {
	months := make([]*engine.Report, 0, 12)
	metrics := make([]performance.Metrics, 0, 12)
	for m := time.January; m <= time.December; m++ {
		r := testReport()
		r.Metrics.Month = time.Date(2024, m, 1, 0, 0, 0, 0, time.UTC)
		months = append(months, r)
		metrics = append(metrics, r.Metrics)
	}
	y := &engine.YearReport{Year: 2024, Months: months, Summary: performance.Summarize(metrics)}

	out := RenderYear(y)
	assert.Contains(t, out, "Maple Duplex 2024")
	assert.Contains(t, out, "Jan")
	assert.Contains(t, out, "Dec")
	assert.Contains(t, out, "$20,400.00")
	assert.Contains(t, out, "$24,000.00")
}

func TestRenderRentTrace(t *testing.T) {
	lines := []engine.RentLine{
		{
			Unit:       &model.Unit{Name: "A"},
			Tenant:     &model.Tenant{ID: "t-a", Name: "Ada"},
			Resolution: rent.Resolution{Amount: 1650, Source: rent.SourceTenantHistory},
		},
		{
			Unit:       &model.Unit{Name: "B"},
			Resolution: rent.Resolution{Amount: 1400, Source: rent.SourceUnitScalar},
		},
	}

	out := RenderRentTrace(lines)
	assert.Contains(t, out, "Unit A")
	assert.Contains(t, out, "Ada, tenant-history")
	assert.Contains(t, out, "vacant, unit-scalar")
	assert.Contains(t, out, "$3,050.00")
}

func TestVerdictStyle(t *testing.T) {
	assert.Equal(t, SuccessStyle.Render("x"), VerdictStyle(performance.VerdictHealthy).Render("x"))
	assert.Equal(t, InfoStyle.Render("x"), VerdictStyle(performance.VerdictStable).Render("x"))
}
