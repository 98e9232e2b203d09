package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/quotaclock/internal/cli"
	"github.com/theirongolddev/quotaclock/internal/quota"
	"github.com/theirongolddev/quotaclock/internal/validate"
)

var (
	flagSetTotal     string
	flagSetRemaining string
	flagSetResetDay  int
	flagSetResetDate string
	flagSetManual    bool
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the quota and reset schedule",
	Long: "Change any of the quota settings. Flags that are not given keep their " +
		"current value. The whole set is validated before anything is saved.",
	Example: "  quotaclock set --total 100h --remaining 94h25m\n" +
		"  quotaclock set --reset-day 1\n" +
		"  quotaclock set --reset-date 2025-12-24",
	Args: cobra.NoArgs,
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVar(&flagSetTotal, "total", "", "Total quota, e.g. 100h or 6000")
	setCmd.Flags().StringVar(&flagSetRemaining, "remaining", "", "Remaining quota, e.g. 94h25m")
	setCmd.Flags().IntVar(&flagSetResetDay, "reset-day", 0, "Reset on this day of every month (1-31)")
	setCmd.Flags().StringVar(&flagSetResetDate, "reset-date", "", "Reset on this date (YYYY-MM-DD); implies --manual")
	setCmd.Flags().BoolVar(&flagSetManual, "manual", false, "Use the fixed reset date instead of the monthly day")
	rootCmd.AddCommand(setCmd)
}

func runSet(c *cobra.Command, _ []string) error {
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.close()

	raw, err := setRaw(c, s.tracker.Settings().State, s.tracker.Settings().ManualReset,
		s.tracker.Settings().ResetDay, s.tracker.Settings().ResetDate)
	if err != nil {
		return err
	}

	if err := s.tracker.Update(raw); err != nil {
		return err
	}

	m := s.tracker.Dashboard(now())
	fmt.Printf("  Quota: %s of %s remaining\n", m.Remaining, cli.FormatMinutes(m.State.TotalMinutes))
	fmt.Printf("  Next reset: %s\n", m.ResetDate)
	return storageWarning(s)
}

// setRaw starts from the current values and overlays the flags that were
// given on the command line.
func setRaw(c *cobra.Command, state quota.State, manual bool, resetDay int, resetDate string) (validate.Raw, error) {
	total := state.TotalMinutes
	remaining := state.RemainingMinutes

	if c.Flags().Changed("total") {
		v, err := cli.ParseDelta(flagSetTotal)
		if err != nil {
			return validate.Raw{}, fmt.Errorf("--total: %w", err)
		}
		total = v
	}
	if c.Flags().Changed("remaining") {
		v, err := cli.ParseDelta(flagSetRemaining)
		if err != nil {
			return validate.Raw{}, fmt.Errorf("--remaining: %w", err)
		}
		remaining = v
	}
	if c.Flags().Changed("reset-day") {
		resetDay = flagSetResetDay
	}
	if c.Flags().Changed("manual") {
		manual = flagSetManual
	}
	if c.Flags().Changed("reset-date") {
		resetDate = flagSetResetDate
		manual = true
	}

	th, tm := splitRaw(total)
	rh, rm := splitRaw(remaining)
	return validate.Raw{
		TotalHours:       th,
		TotalMinutes:     tm,
		RemainingHours:   rh,
		RemainingMinutes: rm,
		ManualReset:      manual,
		ResetDay:         strconv.Itoa(resetDay),
		ResetDate:        resetDate,
	}, nil
}

// splitRaw keeps the sign on both parts so negative input is reported as such.
func splitRaw(minutes int) (string, string) {
	return strconv.Itoa(minutes / 60), strconv.Itoa(minutes % 60)
}
