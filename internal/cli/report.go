package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-rent-must-flow/internal/engine"
	"github.com/Veraticus/the-rent-must-flow/internal/performance"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount as dollars with thousands separators.
func FormatMoney(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	whole, cents := fixed[:len(fixed)-3], fixed[len(fixed)-2:]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + cents
}

// VerdictStyle returns the style a verdict is displayed with.
func VerdictStyle(v performance.Verdict) lipgloss.Style {
	switch v {
	case performance.VerdictHealthy:
		return SuccessStyle
	case performance.VerdictUnderperforming:
		return ErrorStyle
	case performance.VerdictHighDebt:
		return WarningStyle
	default:
		return InfoStyle
	}
}

func row(label, value string) string {
	return LabelStyle.Render(label) + value
}

// ReportTitle names the scope and month of a report.
func ReportTitle(r *engine.Report) string {
	parts := make([]string, 0, 3)
	if r.Property != nil {
		parts = append(parts, r.Property.Name)
	}
	if r.Unit != nil {
		parts = append(parts, r.Unit.Name)
	}
	parts = append(parts, r.Metrics.Month.Format("January 2006"))
	return strings.Join(parts, " · ")
}

// RenderReport renders a monthly report in a box.
func RenderReport(r *engine.Report) string {
	m := r.Metrics
	rows := []string{
		row("Rental income", FormatMoney(m.RentalIncome)),
		row("Operating expenses", FormatMoney(m.OperatingExpenses)),
		row("NOI", BoldStyle.Render(FormatMoney(m.NOI))),
		row("Debt payment", FormatMoney(m.DebtPayment)),
		row("Cash flow", BoldStyle.Render(FormatMoney(m.CashFlow))),
		row("DSCR", m.DSCRLabel()),
		row("Potential rent", FormatMoney(m.PotentialRent)),
		row("Economic occupancy", fmt.Sprintf("%.1f%%", m.EconomicOccupancy)),
		row("Break-even rent", FormatMoney(m.BreakEvenRent)),
	}
	if m.InterestAvailable {
		rows = append(rows,
			row("Interest paid", FormatMoney(m.InterestPaid)),
			row("Principal paid", FormatMoney(m.PrincipalPaid)))
	}
	if m.UnknownTotal > 0 {
		rows = append(rows, row("Unclassified", WarningStyle.Render(FormatMoney(m.UnknownTotal))))
	}
	if m.Vacant() {
		rows = append(rows, row("Occupancy", WarningStyle.Render("Vacant")))
	} else {
		rows = append(rows, row("Occupied spaces", fmt.Sprintf("%d", m.OccupantCount)))
	}
	rows = append(rows,
		"",
		row("Verdict", VerdictStyle(m.Verdict).Render(string(m.Verdict))),
		"",
		SubtleStyle.Render(r.Insight.Message),
	)

	return RenderBox(ChartIcon+" "+ReportTitle(r), lipgloss.JoinVertical(lipgloss.Left, rows...))
}

var yearColumns = []struct {
	title string
	width int
}{
	{"Month", 10},
	{"Income", 14},
	{"Expenses", 14},
	{"NOI", 14},
	{"Cash flow", 14},
	{"DSCR", 9},
	{"Verdict", 18},
}

func yearRow(cells ...string) string {
	rendered := make([]string, len(cells))
	for i, c := range cells {
		rendered[i] = TableCellStyle.Width(yearColumns[i].width).Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// RenderYear renders a year report as a month-by-month table followed by
// the annual totals.
func RenderYear(y *engine.YearReport) string {
	headers := make([]string, len(yearColumns))
	for i, c := range yearColumns {
		headers[i] = c.title
	}

	lines := []string{TableHeaderStyle.Render(yearRow(headers...))}
	for _, r := range y.Months {
		m := r.Metrics
		lines = append(lines, yearRow(
			m.Month.Format("Jan"),
			FormatMoney(m.RentalIncome),
			FormatMoney(m.OperatingExpenses),
			FormatMoney(m.NOI),
			FormatMoney(m.CashFlow),
			m.DSCRLabel(),
			VerdictStyle(m.Verdict).Render(string(m.Verdict)),
		))
	}

	s := y.Summary
	lines = append(lines,
		"",
		BoldStyle.Render(yearRow(
			fmt.Sprintf("%d", y.Year),
			FormatMoney(s.RentalIncome),
			FormatMoney(s.OperatingExpenses),
			FormatMoney(s.NOI),
			FormatMoney(s.CashFlow),
			s.DSCRLabel(),
			VerdictStyle(s.Verdict).Render(string(s.Verdict)),
		)),
		"",
		row("Economic occupancy", fmt.Sprintf("%.1f%%", s.EconomicOccupancy)),
	)
	if s.InterestPaid > 0 {
		lines = append(lines, row("Interest paid", FormatMoney(s.InterestPaid)))
	}

	title := fmt.Sprintf("%s %s %d", ChartIcon, s.ScopeID, y.Year)
	if len(y.Months) > 0 && y.Months[0].Property != nil {
		name := y.Months[0].Property.Name
		if u := y.Months[0].Unit; u != nil {
			name += " · " + u.Name
		}
		title = fmt.Sprintf("%s %s %d", ChartIcon, name, y.Year)
	}
	return RenderBox(title, lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderRentTrace lists the rent due per billable space and which source
// produced it.
func RenderRentTrace(lines []engine.RentLine) string {
	rows := make([]string, 0, len(lines)+1)
	total := decimal.Zero
	for _, l := range lines {
		space := "Property"
		if l.Unit != nil {
			space = "Unit " + l.Unit.Name
		}
		tenant := "vacant"
		if l.Tenant != nil {
			tenant = l.Tenant.Name
			if tenant == "" {
				tenant = l.Tenant.ID
			}
		}
		rows = append(rows, fmt.Sprintf("%s%s  %s",
			LabelStyle.Render(space),
			BoldStyle.Render(FormatMoney(l.Resolution.Amount)),
			SubtleStyle.Render(fmt.Sprintf("(%s, %s)", tenant, l.Resolution.Source))))
		total = total.Add(decimal.NewFromFloat(l.Resolution.Amount))
	}
	rows = append(rows, row("Potential rent", BoldStyle.Render(FormatMoney(total.InexactFloat64()))))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
