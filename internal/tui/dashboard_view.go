package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/quotaclock/internal/tui/components"
	"github.com/theirongolddev/quotaclock/internal/tui/theme"
)

func (a App) renderDashboard(cw int) string {
	t := theme.Active
	m := a.model
	var b strings.Builder

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	countdownStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	if m.ResetPassed {
		countdownStyle = countdownStyle.Foreground(t.Red)
	} else if m.Approaching {
		countdownStyle = countdownStyle.Foreground(t.Orange)
	}

	// Row 1: reset date, quota bar, countdown, period bar
	innerW := components.CardInnerWidth(cw)
	barW := max(innerW-12, 10)

	var cur strings.Builder
	cur.WriteString(labelStyle.Render("Reset date  "))
	cur.WriteString(valueStyle.Render(m.ResetDate))
	cur.WriteString("\n\n")
	cur.WriteString(labelStyle.Render(fmt.Sprintf("%-11s ", "Used")))
	cur.WriteString(components.QuotaBar(m.UsedPercent, m.PeriodPercent, barW))
	cur.WriteString("\n")
	cur.WriteString(labelStyle.Render(strings.Repeat(" ", 12)))
	cur.WriteString(labelStyle.Render(m.UsedLabel + " of quota, " + string(components.MarkerRune) + " marks period progress"))
	cur.WriteString("\n")
	cur.WriteString(components.PeriodBar("Period", m.PeriodPercent, 11, max(barW-7, 4)))
	cur.WriteString("\n\n")
	cur.WriteString(countdownStyle.Render(m.Countdown.Text()))

	b.WriteString(components.ContentCard("Current Period", cur.String(), cw))
	b.WriteString("\n")

	// Row 2: metric cards
	perDayHint := fmt.Sprintf("%d days left", max(m.DaysLeft, 0))
	if !m.HoursPerDayKnown {
		perDayHint = "period ending"
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Used", Value: m.Used.String(), Hint: m.UsedLabel},
		{Label: "Remaining", Value: m.Remaining.String(), Hint: fmt.Sprintf("%.1f%%", m.RemainingPercent), Alert: m.State.RemainingMinutes == 0},
		{Label: "Max per day", Value: m.HoursPerDay, Hint: perDayHint, Alert: m.Approaching},
	}, cw))
	b.WriteString("\n")

	// Row 3: quick adjust and the inline editor
	var adjust strings.Builder
	buttons := make([]components.Button, 0, len(quickAdjust)+2)
	for _, qa := range quickAdjust {
		buttons = append(buttons, qa.button)
	}
	buttons = append(buttons,
		components.Button{Label: "Edit", Key: "e"},
		components.Button{Label: "Undo", Key: "u"},
	)
	adjust.WriteString(components.RenderButtonRow(buttons, a.flash))
	if a.edit.active {
		adjust.WriteString("\n\n")
		adjust.WriteString(a.renderEditPanel())
	}
	b.WriteString(components.ContentCard("Quick Adjust", adjust.String(), cw))

	// Single-slot error and notification regions
	if a.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Bold(true).Render(" ✗ " + a.errMsg))
	}
	if m.Notification != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Orange).Render(" ! " + m.Notification))
	}

	return b.String()
}
