// Package tui provides the interactive Bubble Tea dashboard for quotaclock.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/theirongolddev/quotaclock/internal/config"
	"github.com/theirongolddev/quotaclock/internal/countdown"
	"github.com/theirongolddev/quotaclock/internal/dashboard"
	"github.com/theirongolddev/quotaclock/internal/period"
	"github.com/theirongolddev/quotaclock/internal/quota"
	"github.com/theirongolddev/quotaclock/internal/tracker"
	"github.com/theirongolddev/quotaclock/internal/tui/components"
	"github.com/theirongolddev/quotaclock/internal/tui/theme"
)

// tickMsg carries one countdown reading into the program.
type tickMsg countdown.Tick

// Options configures NewApp.
type Options struct {
	Config config.Config
	Logger *zap.Logger
	// Now overrides the clock used for renders outside countdown ticks.
	Now func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	tracker *tracker.Tracker
	driver  *countdown.Driver
	cfg     config.Config
	logger  *zap.Logger
	now     func() time.Time

	// Derived state
	model  dashboard.DisplayModel
	window period.Window

	// Countdown bridge: driver goroutine -> program
	ticks chan countdown.Tick

	// UI state
	width    int
	height   int
	showHelp bool
	help     help.Model
	keys     keyMap
	flash    int // quick-adjust button highlighted until the next tick
	status   string

	// Single-slot error region
	errMsg string

	// Inline remaining editor
	edit editState

	// Quota settings (huh form)
	form     *huh.Form
	formVals *formValues
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 100
	minContentHeight = 5
)

var quickAdjust = []struct {
	button components.Button
	delta  int
}{
	{components.Button{Label: "-1h", Key: "alt+1"}, tracker.MinusHour},
	{components.Button{Label: "-30m", Key: "alt+2"}, tracker.MinusHalfHour},
	{components.Button{Label: "+30m", Key: "alt+3"}, tracker.PlusHalfHour},
	{components.Button{Label: "+1h", Key: "alt+4"}, tracker.PlusHour},
}

// NewApp creates the dashboard model. The tracker must already be loaded.
func NewApp(tr *tracker.Tracker, driver *countdown.Driver, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	theme.SetActive(opts.Config.ThemeName(tr.Settings().DarkMode))

	a := App{
		tracker: tr,
		driver:  driver,
		cfg:     opts.Config,
		logger:  opts.Logger,
		now:     opts.Now,
		ticks:   make(chan countdown.Tick, 1),
		help:    help.New(),
		keys:    newKeyMap(),
		flash:   -1,
	}
	a.window = tr.Window(a.now())
	a.refresh()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	a.startDriver()
	return a.waitForTick()
}

// startDriver points the countdown at the current window end. Ticks are
// handed over with a non-blocking send; a full buffer drops the tick and the
// next one catches up.
func (a *App) startDriver() {
	ch := a.ticks
	a.driver.Start(a.window.End, func(t countdown.Tick) {
		select {
		case ch <- t:
		default:
		}
	})
}

// restartCountdown restarts the driver when the reset window moved.
func (a *App) restartCountdown() {
	w := a.tracker.Window(a.now())
	if w.End.Equal(a.window.End) && a.driver.Running() {
		return
	}
	a.window = w
	a.logger.Info("countdown restarted", zap.Time("end", w.End))
	a.startDriver()
}

// waitForTick blocks until the driver delivers the next tick.
func (a App) waitForTick() tea.Cmd {
	ch := a.ticks
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}
		return tickMsg(t)
	}
}

// refresh recomputes the display model from the tracker.
func (a *App) refresh() {
	a.model = a.tracker.Dashboard(a.now())
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		if a.form != nil {
			a.form = a.form.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tickMsg:
		tick := countdown.Tick(msg)
		if !tick.End.Equal(a.window.End) {
			// Left over from a countdown that has since been replaced.
			return a, a.waitForTick()
		}
		if w := a.tracker.Window(tick.At); !w.End.Equal(a.window.End) {
			a.window = w
			a.logger.Info("reset window rolled over", zap.Time("end", w.End))
			a.startDriver()
			a.model = a.tracker.Dashboard(tick.At)
		} else {
			a.model = a.model.Refresh(tick, a.window)
		}
		a.flash = -1
		return a, a.waitForTick()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.driver.Stop()
			return a, tea.Quit
		}

		if a.form != nil {
			return a.updateSettingsForm(msg)
		}

		if a.edit.active {
			return a.updateEditInput(msg)
		}

		if key.Matches(msg, a.keys.Help) {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		return a.handleKey(msg)
	}

	// Forward everything else (cursor blinks, etc.) to the active input.
	if a.form != nil {
		return a.updateSettingsForm(msg)
	}
	if a.edit.active {
		var cmd tea.Cmd
		a.edit.inputs[a.edit.focus], cmd = a.edit.inputs[a.edit.focus].Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	for i, qa := range []key.Binding{a.keys.MinusHour, a.keys.MinusHalfHour, a.keys.PlusHalfHour, a.keys.PlusHour} {
		if key.Matches(msg, qa) {
			a.adjust(i)
			return a, nil
		}
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.driver.Stop()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Undo):
		a.undo()
		return a, nil

	case key.Matches(msg, a.keys.Edit):
		return a.editStart()

	case key.Matches(msg, a.keys.Settings):
		return a.settingsStart()

	case key.Matches(msg, a.keys.Theme):
		dark := a.tracker.ToggleTheme()
		theme.SetActive(a.cfg.ThemeName(dark))
		a.status = "theme: " + theme.Active.Name
		return a, nil

	case key.Matches(msg, a.keys.Reset):
		a.tracker.ResetDefaults()
		theme.SetActive(a.cfg.ThemeName(a.tracker.Settings().DarkMode))
		a.errMsg = ""
		a.edit.active = false
		a.restartCountdown()
		a.refresh()
		a.status = "reset to defaults"
		return a, nil
	}

	return a, nil
}

func (a *App) adjust(i int) {
	qa := quickAdjust[i]
	a.tracker.Adjust(qa.delta)
	a.flash = i
	a.errMsg = ""
	a.status = "remaining " + qa.button.Label
	a.refresh()
}

func (a *App) undo() {
	if !a.tracker.Undo() {
		a.status = "nothing to undo"
		return
	}
	a.status = "undone"
	a.refresh()
	if a.edit.active {
		hm := quota.Split(a.tracker.State().RemainingMinutes)
		a.edit.inputs[editFieldHours].SetValue(strconv.Itoa(hm.Hours))
		a.edit.inputs[editFieldMinutes].SetValue(strconv.Itoa(hm.Minutes))
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.form != nil {
		return a.form.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  quotaclock needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(a.help.FullHelpView(a.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("While editing only ^z (undo) stays active."))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	headerStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true).
		Width(w)
	header := headerStyle.Render(" ◈ quotaclock")

	right := theme.Active.Name
	if err := a.tracker.StorageErr(); err != nil {
		right = "storage unavailable, changes kept in memory"
	} else if a.status != "" {
		right = a.status
	}
	statusBar := components.RenderStatusBar(w, a.help.ShortHelpView(a.keys.ShortHelp()), right)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	content := a.renderDashboard(cw)
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
