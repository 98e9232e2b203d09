package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/quotaclock/internal/config"
	"github.com/theirongolddev/quotaclock/internal/tui/theme"
)

var flagConfigInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigInit, "init", false, "Write the current configuration to the config file")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	path := flagConfigPath
	if path == "" {
		path = config.ConfigPath()
	}

	if flagConfigInit {
		if err := config.SaveTo(path, cfg); err != nil {
			return err
		}
		fmt.Printf("  Wrote %s\n", path)
		return nil
	}

	fmt.Printf("  Config file: %s\n", path)
	if config.Exists() || flagConfigPath != "" {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Database:    %s\n", cfg.DBPath())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Light theme: %s\n", cfg.Appearance.LightTheme)
	fmt.Printf("    Dark theme:  %s\n", cfg.Appearance.DarkTheme)
	fmt.Printf("    Available:   %v\n", theme.Names())
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level: %s\n", cfg.Logging.Level)
	logFile := cfg.Logging.File
	if logFile == "" {
		logFile = "stderr (tui: " + config.DefaultLogPath() + ")"
	}
	fmt.Printf("    File:  %s\n", logFile)
	fmt.Println()

	fmt.Println("  Run `quotaclock config --init` to write this file.")
	return nil
}
