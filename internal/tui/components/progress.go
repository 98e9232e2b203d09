package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/quotaclock/internal/tui/theme"
)

// MarkerRune marks the elapsed share of the period on the quota bar.
const MarkerRune = '┃'

// ColorForPct returns green/yellow/orange/red based on utilization level.
func ColorForPct(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 0.9:
		return string(t.Red)
	case pct >= 0.7:
		return string(t.Orange)
	case pct >= 0.5:
		return string(t.Yellow)
	default:
		return string(t.Green)
	}
}

// PaceColor compares quota use against period progress: green while usage
// trails the calendar, yellow when slightly ahead, red when well ahead.
func PaceColor(usedPct, periodPct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case usedPct > periodPct+10:
		return t.Red
	case usedPct > periodPct:
		return t.Yellow
	default:
		return t.Green
	}
}

// MarkerCell is the bar cell holding the period marker.
func MarkerCell(periodPct float64, width int) int {
	if width <= 0 {
		return 0
	}
	cell := int(periodPct / 100 * float64(width))
	return min(max(cell, 0), width-1)
}

// QuotaBar renders the used share of the quota (0-100) with a marker at the
// elapsed share of the period (0-100).
func QuotaBar(usedPct, periodPct float64, width int) string {
	t := theme.Active
	if width < 2 {
		width = 2
	}

	filled := int(usedPct / 100 * float64(width))
	filled = min(max(filled, 0), width)
	marker := MarkerCell(periodPct, width)

	filledStyle := lipgloss.NewStyle().Foreground(PaceColor(usedPct, periodPct)).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	var b strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == marker:
			b.WriteString(markerStyle.Render(string(MarkerRune)))
		case i < filled:
			b.WriteString(filledStyle.Render("█"))
		default:
			b.WriteString(emptyStyle.Render("░"))
		}
	}
	return b.String()
}

// PeriodBar renders how much of the reset window has elapsed, with the
// percentage after the bar.
func PeriodBar(label string, periodPct float64, labelW, barWidth int) string {
	t := theme.Active

	pct := min(max(periodPct/100, 0), 1)

	bar := progress.New(
		progress.WithSolidFill(string(t.Accent)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", pct*100))
}
