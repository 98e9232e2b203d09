package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/quotaclock/internal/dashboard"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	errStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + padRight(h, widths[i]) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		rule("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			rule("├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align value columns (all except first)
			var padded string
			if i == 0 {
				padded = " " + padRight(cell, widths[i]) + " "
			} else {
				padded = " " + padLeft(cell, widths[i]) + " "
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	rule("╰", "┴", "╯")

	return b.String()
}

func padRight(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

func padLeft(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return strings.Repeat(" ", w-n) + s
	}
	return s
}

// RenderQuotaBar renders the used share of the quota as a text bar with a
// "|" marker at the elapsed share of the period. Both inputs are 0-100.
func RenderQuotaBar(usedPct, periodPct float64, width int) string {
	if width < 2 {
		width = 2
	}
	filled := clampCells(usedPct, width)
	marker := clampCells(periodPct, width)
	if marker >= width {
		marker = width - 1
	}

	cells := []rune(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
	cells[marker] = '│'

	color := ColorGreen
	switch {
	case usedPct > periodPct+10:
		color = ColorRed
	case usedPct > periodPct:
		color = ColorYellow
	}
	return "[" + lipgloss.NewStyle().Foreground(color).Render(string(cells)) + "]"
}

func clampCells(pct float64, width int) int {
	n := int(pct / 100 * float64(width))
	return min(max(n, 0), width)
}

// RenderDashboard renders the one-shot status view.
func RenderDashboard(m dashboard.DisplayModel) string {
	var b strings.Builder

	b.WriteString(RenderTitle("quotaclock  ·  resets " + m.ResetDate))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  %s %s\n\n",
		RenderQuotaBar(m.UsedPercent, m.PeriodPercent, 40),
		valueStyle.Render(m.UsedLabel+" used"),
	)

	b.WriteString(RenderTable(Table{
		Headers: []string{"", "Value"},
		Rows: [][]string{
			{"Used", m.Used.String()},
			{"Remaining", m.Remaining.String()},
			{"Total", FormatMinutes(m.State.TotalMinutes)},
			{"---"},
			{"Period elapsed", FormatPercent(m.PeriodPercent)},
			{"Days left", fmt.Sprintf("%d", max(m.DaysLeft, 0))},
			{"Max per day", m.HoursPerDay},
		},
	}))

	b.WriteString("\n  ")
	if m.ResetPassed {
		b.WriteString(errStyle.Render(m.Countdown.Text()))
	} else {
		b.WriteString(mutedStyle.Render(m.Countdown.Text()))
	}
	b.WriteString("\n")

	if m.Notification != "" {
		b.WriteString("  ")
		b.WriteString(warnStyle.Render(m.Notification))
		b.WriteString("\n")
	}
	return b.String()
}
