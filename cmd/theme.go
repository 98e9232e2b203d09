package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the light/dark mode",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(_ *cobra.Command, args []string) error {
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.close()

	if len(args) == 1 {
		switch args[0] {
		case "light":
			s.tracker.SetDarkMode(false)
		case "dark":
			s.tracker.SetDarkMode(true)
		case "toggle":
			s.tracker.ToggleTheme()
		}
	}

	dark := s.tracker.Settings().DarkMode
	mode := "light"
	if dark {
		mode = "dark"
	}
	fmt.Printf("  Mode:  %s\n", mode)
	fmt.Printf("  Theme: %s\n", cfg.ThemeName(dark))
	return storageWarning(s)
}
