package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/warp/household-planner/funding"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorRed    = lipgloss.Color("#D14D41")
	colorMuted  = lipgloss.Color("#6F6E69")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	lateStyle   = lipgloss.NewStyle().Foreground(colorRed)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// formatMoney prints an amount with thousands separators and at most two
// decimals, e.g. "12,500.5 PLN".
func formatMoney(m funding.Money) string {
	return humanize.CommafWithDigits(m.Round().Float64(), 2) + " " + string(m.Currency)
}

// status describes when an occurrence gets funded relative to its due month.
func status(o funding.FundedOccurrence) string {
	switch {
	case o.MonthsNeeded == nil:
		return lateStyle.Render("never funded")
	case o.OnTime:
		return okStyle.Render("on time")
	default:
		late := *o.MonthsNeeded - o.DueOffset
		unit := "months"
		if late == 1 {
			unit = "month"
		}
		return lateStyle.Render(fmt.Sprintf("%d %s late", late, unit))
	}
}

// table lays out rows under a header with padded columns. Widths are
// measured with lipgloss so styled cells line up.
func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style *lipgloss.Style) {
		for i, cell := range cells {
			if style != nil {
				cell = style.Render(cell)
			}
			b.WriteString("  ")
			b.WriteString(cell)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
			}
		}
		b.WriteString("\n")
	}
	writeRow(headers, &headerStyle)
	for _, row := range rows {
		writeRow(row, nil)
	}
	return b.String()
}

func renderSimulation(r *funding.SimulationResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("FUNDING PLAN  as of %s", r.ReferenceDate)))
	b.WriteString("\n\n")

	b.WriteString(table([]string{"Budget", ""}, [][]string{
		{"Monthly budget", formatMoney(r.MonthlyBudget)},
		{"Monthly allocation", formatMoney(r.MonthlyAllocation)},
		{"Left after allocation", formatMoney(r.RemainingAfterAllocation)},
		{"Seed savings", formatMoney(r.Seed)},
	}))
	b.WriteString("\n")

	if len(r.Occurrences) == 0 {
		b.WriteString(mutedStyle.Render("  No upcoming payments."))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(r.Occurrences))
		for _, o := range r.Occurrences {
			fundedBy := "-"
			if o.FundedBy != nil {
				fundedBy = o.FundedBy.String()
			}
			rows = append(rows, []string{
				o.Name,
				o.DueDate.String(),
				formatMoney(o.Amount),
				fundedBy,
				status(o),
			})
		}
		b.WriteString(table([]string{"Payment", "Due", "Amount", "Funded by", "Status"}, rows))
		b.WriteString("\n")
	}

	summary := fmt.Sprintf("  %d of %d on time", r.OnTimeCount, r.TotalCount)
	if short := r.TotalShortfall(); short.IsPositive() {
		summary += ", short " + formatMoney(short) + " at due dates"
	}
	b.WriteString(summary)
	b.WriteString("\n")

	if late := r.Late(); len(late) > 0 {
		names := make([]string, 0, len(late))
		for _, o := range late {
			names = append(names, o.Name+" ("+o.DueDate.String()+")")
		}
		b.WriteString(lateStyle.Render("  late: " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}

	for _, s := range r.Skipped {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  skipped %s: %s", s.Name, s.Reason)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderTimeline(points []funding.TimelinePoint) string {
	rows := make([][]string, len(points))
	for i, p := range points {
		mark := okStyle.Render("covered")
		if !p.Covered {
			mark = lateStyle.Render("short " + formatMoney(p.Required.Sub(p.Available)))
		}
		rows[i] = []string{p.Month.String(), formatMoney(p.Required), formatMoney(p.Available), mark}
	}
	return table([]string{"Month", "Required", "Available", ""}, rows)
}

func renderSummary(s funding.Summary) string {
	return table([]string{"Totals", string(s.Currency)}, [][]string{
		{"Earnings / month", formatMoney(s.Earnings)},
		{"Expenses / month", formatMoney(s.Expenses)},
		{"Balance / month", formatMoney(s.Balance)},
		{"Savings", formatMoney(s.Savings)},
		{"Future payments", formatMoney(s.FuturePayments)},
	})
}
