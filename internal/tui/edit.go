package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/quotaclock/internal/quota"
	"github.com/theirongolddev/quotaclock/internal/tui/theme"
)

const (
	editFieldHours = iota
	editFieldMinutes
	editFieldCount // sentinel
)

// editState is the inline remaining-time editor.
type editState struct {
	active bool
	focus  int
	inputs [editFieldCount]textinput.Model
}

func newEditInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 6
	ti.Validate = digitsOnly
	return ti
}

func digitsOnly(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return strconv.ErrSyntax
		}
	}
	return nil
}

func (a App) editStart() (tea.Model, tea.Cmd) {
	hm := quota.Split(a.tracker.State().RemainingMinutes)

	hours := newEditInput("h", 5)
	hours.SetValue(strconv.Itoa(hm.Hours))
	minutes := newEditInput("m", 2)
	minutes.SetValue(strconv.Itoa(hm.Minutes))

	a.edit = editState{
		active: true,
		focus:  editFieldHours,
		inputs: [editFieldCount]textinput.Model{hours, minutes},
	}
	a.errMsg = ""
	cmd := a.edit.inputs[editFieldHours].Focus()
	return a, cmd
}

// updateEditInput owns every key while a field has focus. Only the undo
// shortcut passes through.
func (a App) updateEditInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+z":
		a.undo()
		return a, nil
	case "enter":
		minutes := editedMinutes(
			a.edit.inputs[editFieldHours].Value(),
			a.edit.inputs[editFieldMinutes].Value(),
		)
		a.edit.active = false
		a.tracker.SetRemaining(minutes, true)
		a.logger.Debug("remaining edited")
		a.refresh()
		return a, nil
	case "esc":
		a.edit.active = false
		return a, nil
	case "tab", "shift+tab", "up", "down":
		a.edit.inputs[a.edit.focus].Blur()
		a.edit.focus = (a.edit.focus + 1) % editFieldCount
		return a, a.edit.inputs[a.edit.focus].Focus()
	}

	var cmd tea.Cmd
	a.edit.inputs[a.edit.focus], cmd = a.edit.inputs[a.edit.focus].Update(msg)
	return a, cmd
}

// editedMinutes converts the editor fields to minutes. Unparsable hours count
// as zero and minutes are clamped to 0..59.
func editedMinutes(hours, minutes string) int {
	h, err := strconv.Atoi(strings.TrimSpace(hours))
	if err != nil || h < 0 {
		h = 0
	}
	m, err := strconv.Atoi(strings.TrimSpace(minutes))
	if err != nil || m < 0 {
		m = 0
	}
	if m > 59 {
		m = 59
	}
	return h*60 + m
}

func (a App) renderEditPanel() string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(accentStyle.Render("Set remaining  "))
	b.WriteString(a.edit.inputs[editFieldHours].View())
	b.WriteString(labelStyle.Render(" h  "))
	b.WriteString(a.edit.inputs[editFieldMinutes].View())
	b.WriteString(labelStyle.Render(" m"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("[Enter] save  [Esc] cancel  [Tab] switch field  [^z] undo"))
	return b.String()
}
