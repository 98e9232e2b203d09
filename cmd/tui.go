package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/quotaclock/internal/countdown"
	"github.com/theirongolddev/quotaclock/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// The terminal belongs to the UI, so logs go to a file.
	s, err := openSession(true)
	if err != nil {
		return err
	}
	defer s.close()

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	driver := countdown.NewDriver(s.logger)
	defer driver.Stop()

	app := tui.NewApp(s.tracker, driver, tui.Options{Config: cfg, Logger: s.logger})
	p := tea.NewProgram(app, tea.WithAltScreen())

	s.logger.Info("dashboard started")
	if _, err := p.Run(); err != nil {
		s.logger.Error("dashboard exited", zap.Error(err))
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
