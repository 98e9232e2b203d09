package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget all settings and history and return to defaults",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, _ []string) error {
	if !flagResetYes {
		confirmed := false
		err := huh.NewConfirm().
			Title("Reset quotaclock to defaults?").
			Description("Quota, reset schedule, theme and undo history are cleared.").
			Affirmative("Reset").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return fmt.Errorf("confirmation: %w", err)
		}
		if !confirmed {
			fmt.Println("  Cancelled.")
			return nil
		}
	}

	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.close()

	s.tracker.ResetDefaults()
	fmt.Println("  Settings reset to defaults.")
	return nil
}
