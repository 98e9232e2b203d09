package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/quotaclock/internal/cli"
)

var adjustCmd = &cobra.Command{
	Use:   "adjust <delta>",
	Short: "Add to or take from the remaining quota",
	Long: "Shift the remaining quota by a delta. Bare numbers are minutes; " +
		"durations like 1h30m are accepted too. Negative deltas need a leading --.",
	Example: "  quotaclock adjust +30\n" +
		"  quotaclock adjust 1h\n" +
		"  quotaclock adjust -- -1h30m",
	Args: cobra.ExactArgs(1),
	RunE: runAdjust,
}

var spendCmd = &cobra.Command{
	Use:     "spend <amount>",
	Short:   "Take an amount of time off the remaining quota",
	Example: "  quotaclock spend 45\n  quotaclock spend 2h",
	Args:    cobra.ExactArgs(1),
	RunE:    runSpend,
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore the previous remaining value",
	Args:  cobra.NoArgs,
	RunE:  runUndo,
}

func init() {
	rootCmd.AddCommand(adjustCmd)
	rootCmd.AddCommand(spendCmd)
	rootCmd.AddCommand(undoCmd)
}

func runAdjust(_ *cobra.Command, args []string) error {
	delta, err := cli.ParseDelta(args[0])
	if err != nil {
		return err
	}
	return applyDelta(delta)
}

func runSpend(_ *cobra.Command, args []string) error {
	amount, err := cli.ParseDelta(args[0])
	if err != nil {
		return err
	}
	if amount < 0 {
		return fmt.Errorf("spend amount must be positive, got %s", args[0])
	}
	return applyDelta(-amount)
}

func applyDelta(delta int) error {
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.close()

	before := s.tracker.State().RemainingMinutes
	s.tracker.Adjust(delta)
	after := s.tracker.State().RemainingMinutes

	s.logger.Debug("quota adjusted",
		zap.Int("delta_minutes", delta),
		zap.Int("remaining_minutes", after),
	)
	fmt.Printf("  Remaining: %s -> %s (%s)\n",
		cli.FormatMinutes(before), cli.FormatMinutes(after), cli.FormatDelta(after-before))
	if after == 0 && before+delta < 0 {
		fmt.Println("  Remaining quota is exhausted.")
	}
	return storageWarning(s)
}

func runUndo(_ *cobra.Command, _ []string) error {
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.close()

	before := s.tracker.State().RemainingMinutes
	if !s.tracker.Undo() {
		fmt.Println("  Nothing to undo.")
		return nil
	}
	fmt.Printf("  Remaining: %s -> %s\n",
		cli.FormatMinutes(before), cli.FormatMinutes(s.tracker.State().RemainingMinutes))
	return storageWarning(s)
}

// storageWarning tells the user when a change could not be saved.
func storageWarning(s *session) error {
	if err := s.tracker.StorageErr(); err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: change not saved: %v\n", err)
	}
	return nil
}
