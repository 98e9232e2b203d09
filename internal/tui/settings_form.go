package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/quotaclock/internal/quota"
	"github.com/theirongolddev/quotaclock/internal/settings"
	"github.com/theirongolddev/quotaclock/internal/validate"
)

// formValues backs the quota settings form. Fields stay strings so the
// tracker can validate exactly what was typed.
type formValues struct {
	totalHours       string
	totalMinutes     string
	remainingHours   string
	remainingMinutes string
	manualReset      bool
	resetDay         string
	resetDate        string
}

func formValuesFrom(s settings.Settings) *formValues {
	total := quota.Split(s.State.TotalMinutes)
	remaining := quota.Split(s.State.RemainingMinutes)
	return &formValues{
		totalHours:       strconv.Itoa(total.Hours),
		totalMinutes:     strconv.Itoa(total.Minutes),
		remainingHours:   strconv.Itoa(remaining.Hours),
		remainingMinutes: strconv.Itoa(remaining.Minutes),
		manualReset:      s.ManualReset,
		resetDay:         strconv.Itoa(s.ResetDay),
		resetDate:        s.ResetDate,
	}
}

func (v *formValues) raw() validate.Raw {
	return validate.Raw{
		TotalHours:       v.totalHours,
		TotalMinutes:     v.totalMinutes,
		RemainingHours:   v.remainingHours,
		RemainingMinutes: v.remainingMinutes,
		ManualReset:      v.manualReset,
		ResetDay:         v.resetDay,
		ResetDate:        v.resetDate,
	}
}

func newSettingsForm(vals *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Quota").
				Description("Total allowance and what is left of it."),
			huh.NewInput().
				Title("Total hours").
				Value(&vals.totalHours),
			huh.NewInput().
				Title("Total minutes").
				Value(&vals.totalMinutes),
			huh.NewInput().
				Title("Remaining hours").
				Value(&vals.remainingHours),
			huh.NewInput().
				Title("Remaining minutes").
				Value(&vals.remainingMinutes),
		),
		huh.NewGroup(
			huh.NewNote().
				Title("Reset").
				Description("Reset on a fixed day each month, or on a date you pick."),
			huh.NewInput().
				Title("Reset day of month").
				Description("1-31; short months use their last day").
				Value(&vals.resetDay),
			huh.NewConfirm().
				Title("Use a manual reset date?").
				Affirmative("Yes").
				Negative("No").
				Value(&vals.manualReset),
			huh.NewInput().
				Title("Manual reset date").
				Placeholder("YYYY-MM-DD").
				Value(&vals.resetDate),
		),
	).WithShowHelp(true)
}

func (a App) settingsStart() (tea.Model, tea.Cmd) {
	a.formVals = formValuesFrom(a.tracker.Settings())
	a.form = newSettingsForm(a.formVals)
	if a.width > 0 {
		a.form = a.form.WithWidth(a.width).WithHeight(a.height)
	}
	a.errMsg = ""
	return a, a.form.Init()
}

func (a App) updateSettingsForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.form = nil
		a.formVals = nil
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		if err := a.tracker.Update(a.formVals.raw()); err != nil {
			a.errMsg = err.Error()
		} else {
			a.restartCountdown()
		}
		a.form = nil
		a.formVals = nil
		a.refresh()
		return a, nil
	case huh.StateAborted:
		a.form = nil
		a.formVals = nil
		return a, nil
	}

	return a, cmd
}
