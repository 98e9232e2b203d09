package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/quotaclock/internal/cli"
	"github.com/theirongolddev/quotaclock/internal/dashboard"
)

var flagOutput string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the quota dashboard once",
	RunE:  runStatus,
}

func init() {
	addOutputFlag(statusCmd)
	rootCmd.AddCommand(statusCmd)
}

func addOutputFlag(c *cobra.Command) {
	c.Flags().StringVarP(&flagOutput, "output", "o", "text", "Output format: text, json or yaml")
}

func runStatus(_ *cobra.Command, _ []string) error {
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.close()

	return writeDashboard(os.Stdout, s.tracker.Dashboard(now()), flagOutput)
}

// writeDashboard prints m in the requested format. Text output drops colors
// when stdout is not a terminal.
func writeDashboard(w io.Writer, m dashboard.DisplayModel, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
			lipgloss.SetColorProfile(termenv.Ascii)
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, cli.RenderDashboard(m))
		fmt.Fprintln(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}
