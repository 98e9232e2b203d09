// Package cmd implements the quotaclock CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/quotaclock/internal/config"
	"github.com/theirongolddev/quotaclock/internal/logging"
	"github.com/theirongolddev/quotaclock/internal/metrics"
	"github.com/theirongolddev/quotaclock/internal/store"
	"github.com/theirongolddev/quotaclock/internal/tracker"
)

var (
	flagDBPath     string
	flagQuiet      bool
	flagConfigPath string
)

// cfg is loaded once per invocation by the root pre-run hook.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "quotaclock",
	Short: "Track a time quota that resets on a schedule",
	Long: "Keep track of how much of a recurring time allowance is left, " +
		"how far the reset period has run, and how long until the next reset.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Settings database path (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Config file path (default "+config.ConfigPath()+")")
	addOutputFlag(rootCmd)
}

// loadConfig reads .env files and the TOML config. Missing files are fine.
func loadConfig(_ *cobra.Command, _ []string) error {
	for _, p := range []string{".env", filepath.Join(config.ConfigDir(), ".env")} {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}

	path := flagConfigPath
	if path == "" {
		path = config.ConfigPath()
	}
	loaded, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		loaded.General.DBPath = flagDBPath
	}
	cfg = loaded
	return nil
}

// newLogger builds the CLI logger on stderr, or on the log file when toFile
// is set.
func newLogger(toFile bool) (*zap.Logger, error) {
	opts := logging.FromConfig(cfg.Logging)
	opts.Quiet = flagQuiet
	if toFile {
		if opts.File == "" {
			opts.File = config.DefaultLogPath()
		}
	} else {
		opts.File = ""
		opts.Console = true
	}
	return logging.New(opts)
}

// session bundles what every quota command needs.
type session struct {
	logger  *zap.Logger
	tracker *tracker.Tracker
	close   func()
}

// openSession opens the settings database and loads the tracker. When the
// database cannot be opened the tracker runs on an in-memory store and the
// failure is logged.
func openSession(logToFile bool) (*session, error) {
	logger, err := newLogger(logToFile)
	if err != nil {
		return nil, err
	}
	metrics.Register()

	var st tracker.Store
	closeStore := func() {}

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		logger.Warn("settings database unavailable, changes will not be saved",
			zap.String("path", cfg.DBPath()),
			zap.Error(err),
		)
		st = store.NewMemory()
	} else {
		st = db
		closeStore = func() {
			if err := db.Close(); err != nil {
				logger.Warn("closing settings database", zap.Error(err))
			}
		}
	}

	tr := tracker.New(st, logger)
	tr.Load()

	return &session{
		logger:  logger,
		tracker: tr,
		close: func() {
			closeStore()
			_ = logger.Sync()
		},
	}, nil
}

// now is the clock shared by commands.
var now = time.Now
