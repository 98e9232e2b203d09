package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/quotaclock/internal/tui/theme"
)

// Button is a labelled action with its shortcut.
type Button struct {
	Label string
	Key   string
}

// RenderButtonRow renders buttons side by side. The button at flash, if any,
// is highlighted to acknowledge a key press.
func RenderButtonRow(buttons []Button, flash int) string {
	t := theme.Active

	normal := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.SurfaceHover).
		Padding(0, 1)

	active := lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Accent).
		Bold(true).
		Padding(0, 1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	gap := lipgloss.NewStyle().Background(t.Surface).Render("  ")

	parts := make([]string, 0, len(buttons))
	for i, btn := range buttons {
		style := normal
		if i == flash {
			style = active
		}
		parts = append(parts, style.Render(btn.Label)+keyStyle.Render(" "+btn.Key))
	}
	return strings.Join(parts, gap)
}
