// Package components provides reusable TUI widgets for the quotaclock dashboard.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/quotaclock/internal/tui/theme"
)

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

// Metric is one labelled figure in a MetricCardRow.
type Metric struct {
	Label string
	Value string
	Hint  string
	// Alert draws the card border and value in the warning color.
	Alert bool
}

// frame is the rounded, padded card border sized to outerWidth.
func frame(outerWidth int, border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(max(outerWidth-2, 10)).
		Padding(0, 1)
}

// MetricCard renders m as a small card. outerWidth includes the border.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active

	border, value := t.Border, t.TextPrimary
	if m.Alert {
		border, value = t.Orange, t.Orange
	}

	content := lipgloss.NewStyle().Foreground(t.TextMuted).Render(m.Label) + "\n" +
		lipgloss.NewStyle().Foreground(value).Bold(true).Render(m.Value)
	if m.Hint != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(t.TextDim).Render(m.Hint)
	}
	return frame(outerWidth, border).Render(content)
}

// MetricCardRow lays metrics out side by side across exactly totalWidth.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(metrics))
	cards := make([]string, len(metrics))
	for i, m := range metrics {
		cards[i] = MetricCard(m, widths[i])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// ContentCard renders a bordered card with an optional title.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active
	if title != "" {
		body = lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true).Render(title) + "\n" + body
	}
	return frame(outerWidth, t.Border).Render(body)
}

// CardInnerWidth is the usable text width inside a ContentCard of the given
// outer width.
func CardInnerWidth(outerWidth int) int {
	return max(outerWidth-4, 10)
}
