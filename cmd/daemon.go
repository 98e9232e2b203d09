package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/quotaclock/internal/config"
	"github.com/theirongolddev/quotaclock/internal/daemon"
)

type daemonRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DBPath    string    `json:"db_path"`
}

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Serve the quota over a local HTTP API with a live countdown stream",
	Args:  cobra.NoArgs,
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	defaultPID := filepath.Join(config.DataDir(), "quotaclockd.pid")
	defaultLog := filepath.Join(config.DataDir(), "quotaclockd.log")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", time.Second, "Countdown tick interval")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", defaultPID, "PID file path")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Log file path for detached mode")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonAddr is the --addr flag, falling back to the config.
func daemonAddr() string {
	if flagDaemonAddr != "" {
		return flagDaemonAddr
	}
	return cfg.Daemon.Addr
}

func runDaemon(_ *cobra.Command, _ []string) error {
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}

	if flagDaemonDetach {
		return startDaemonDetached()
	}

	return runDaemonForeground()
}

func startDaemonDetached() error {
	pf := pidFile(flagDaemonPIDFile)
	if err := pf.ensureFree(); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	args := append(filterDetachArg(os.Args[1:]), "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}
	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()

	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  PID file: %s\n", pf)
	fmt.Printf("  API: http://%s/v1/status\n", daemonAddr())
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground() error {
	pf := pidFile(flagDaemonPIDFile)
	if err := pf.ensureFree(); err != nil {
		return err
	}

	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.close()

	addr := daemonAddr()
	pid := os.Getpid()
	if err := pf.write(pid); err != nil {
		return err
	}
	defer pf.remove()

	state := daemonRuntimeState{PID: pid, Addr: addr, StartedAt: time.Now(), DBPath: cfg.DBPath()}
	if err := pf.writeState(state); err != nil {
		s.logger.Warn("writing daemon state file", zap.Error(err))
	}

	buffer := flagDaemonEventsBuffer
	if buffer < 1 {
		buffer = cfg.Daemon.EventsBuffer
	}
	svc := daemon.New(daemon.Config{
		Addr:         addr,
		EventsBuffer: buffer,
		TickInterval: flagDaemonInterval,
	}, s.tracker, s.logger)

	if !flagDaemonChild {
		fmt.Printf("  quotaclock daemon listening on http://%s\n", addr)
		fmt.Printf("  Stop with: quotaclock daemon stop --pid-file %s\n", pf)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(c *cobra.Command, _ []string) error {
	pf := pidFile(flagDaemonPIDFile)
	pid, err := pf.read()
	switch {
	case err != nil:
		fmt.Println("  Daemon: not running (pid file not found)")
		return nil
	case !processAlive(pid):
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := daemonAddr()
	if st, err := pf.readState(); err == nil && st.Addr != "" {
		addr = st.Addr
	}
	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()
	st, err := fetchDaemonStatus(ctx, addr)
	if err != nil {
		fmt.Printf("  API status: %v\n", err)
		return nil
	}

	if st.LastTickAt.IsZero() {
		fmt.Println("  Last tick: pending")
	} else {
		fmt.Printf("  Last tick: %s (%d ticks)\n", st.LastTickAt.Local().Format(time.RFC3339), st.TickCount)
	}
	fmt.Printf("  Stream subscribers: %d\n", st.SubscriberCount)
	if st.StorageError != "" {
		fmt.Printf("  Storage error: %s\n", st.StorageError)
	}
	return writeDashboard(os.Stdout, st.Dashboard, "text")
}

// fetchDaemonStatus asks a running daemon for its status.
func fetchDaemonStatus(ctx context.Context, addr string) (daemon.Status, error) {
	var st daemon.Status

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, fmt.Errorf("unreachable (%w)", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response (%w)", err)
	}
	return st, nil
}

func runDaemonStop(c *cobra.Command, _ []string) error {
	pf := pidFile(flagDaemonPIDFile)
	pid, err := pf.read()
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()
	poll := time.NewTicker(150 * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("daemon (pid %d) did not exit in time", pid)
		case <-poll.C:
			if !processAlive(pid) {
				pf.remove()
				fmt.Printf("  Stopped daemon (pid %d)\n", pid)
				return nil
			}
		}
	}
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

// pidFile is the daemon's pid file. A JSON sidecar next to it records the
// address and database the running daemon uses.
type pidFile string

func (p pidFile) statePath() string {
	return string(p) + ".json"
}

// ensureFree fails if a live daemon owns the pid file and clears stale files.
func (p pidFile) ensureFree() error {
	pid, err := p.read()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err == nil && processAlive(pid) {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	p.remove()
	return nil
}

func (p pidFile) write(pid int) error {
	if err := os.MkdirAll(filepath.Dir(string(p)), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	return os.WriteFile(string(p), []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func (p pidFile) read() (int, error) {
	data, err := os.ReadFile(string(p)) //nolint:gosec // daemon pid path is configured by the local user
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", p)
	}
	return pid, nil
}

func (p pidFile) remove() {
	_ = os.Remove(string(p))
	_ = os.Remove(p.statePath())
}

func (p pidFile) writeState(st daemonRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.statePath(), append(data, '\n'), 0o600)
}

func (p pidFile) readState() (daemonRuntimeState, error) {
	var st daemonRuntimeState
	data, err := os.ReadFile(p.statePath()) //nolint:gosec // sidecar of the user's pid file
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
