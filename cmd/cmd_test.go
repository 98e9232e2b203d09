package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/quotaclock/internal/dashboard"
	"github.com/theirongolddev/quotaclock/internal/period"
	"github.com/theirongolddev/quotaclock/internal/quota"
)

func testModel() dashboard.DisplayModel {
	now := time.Date(2025, time.November, 10, 12, 0, 0, 0, time.UTC)
	w := period.Compute(period.Policy{Kind: period.KindDayOfMonth, Day: 25}, now)
	return dashboard.Render(quota.Defaults(), w, now, "")
}

func TestWriteDashboardFormats(t *testing.T) {
	m := testModel()

	var buf bytes.Buffer
	if err := writeDashboard(&buf, m, "json"); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded dashboard.DisplayModel
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json output does not parse: %v", err)
	}
	if decoded.ResetDate != "2025-11-25" || decoded.State.RemainingMinutes != 5665 {
		t.Fatalf("json round trip = %+v", decoded)
	}

	buf.Reset()
	if err := writeDashboard(&buf, m, "yaml"); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var generic map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &generic); err != nil {
		t.Fatalf("yaml output does not parse: %v", err)
	}
	if generic["reset_date"] != "2025-11-25" {
		t.Fatalf("yaml reset_date = %v", generic["reset_date"])
	}

	buf.Reset()
	if err := writeDashboard(&buf, m, "text"); err != nil {
		t.Fatalf("text: %v", err)
	}
	out := ansi.Strip(buf.String())
	for _, want := range []string{"2025-11-25", "94h 25m", "Reset in:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("text output missing %q:\n%s", want, out)
		}
	}

	if err := writeDashboard(&buf, m, "xml"); err == nil {
		t.Fatal("unknown format accepted")
	}
}

func TestSetRaw(t *testing.T) {
	c := setCmd
	if err := c.ParseFlags([]string{"--remaining", "10h30m", "--reset-date", "2025-12-24"}); err != nil {
		t.Fatal(err)
	}

	raw, err := setRaw(c, quota.Defaults(), false, 25, "")
	if err != nil {
		t.Fatalf("setRaw: %v", err)
	}
	if raw.TotalHours != "100" || raw.TotalMinutes != "0" {
		t.Fatalf("total = %s/%s, want unchanged 100/0", raw.TotalHours, raw.TotalMinutes)
	}
	if raw.RemainingHours != "10" || raw.RemainingMinutes != "30" {
		t.Fatalf("remaining = %s/%s, want 10/30", raw.RemainingHours, raw.RemainingMinutes)
	}
	if !raw.ManualReset || raw.ResetDate != "2025-12-24" || raw.ResetDay != "25" {
		t.Fatalf("reset = %+v", raw)
	}
}

func TestSplitRawKeepsSign(t *testing.T) {
	h, m := splitRaw(-90)
	if h != "-1" || m != "-30" {
		t.Fatalf("splitRaw(-90) = %s, %s", h, m)
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", "x", "--detach=true"})
	if strings.Join(got, " ") != "daemon --addr x" {
		t.Fatalf("filterDetachArg = %v", got)
	}
}

func TestPIDFile(t *testing.T) {
	pf := pidFile(filepath.Join(t.TempDir(), "run", "quotaclockd.pid"))

	if err := pf.ensureFree(); err != nil {
		t.Fatalf("ensureFree without pid file: %v", err)
	}
	if err := pf.write(4242); err != nil {
		t.Fatal(err)
	}
	pid, err := pf.read()
	if err != nil || pid != 4242 {
		t.Fatalf("read = %d, %v", pid, err)
	}

	st := daemonRuntimeState{PID: 4242, Addr: "127.0.0.1:9999", DBPath: "/tmp/q.db"}
	if err := pf.writeState(st); err != nil {
		t.Fatal(err)
	}
	got, err := pf.readState()
	if err != nil || got.Addr != st.Addr || got.DBPath != st.DBPath {
		t.Fatalf("readState = %+v, %v", got, err)
	}

	pf.remove()
	if _, err := pf.read(); err == nil {
		t.Fatal("pid file survived remove")
	}
	if _, err := pf.readState(); err == nil {
		t.Fatal("state file survived remove")
	}
}

func TestPIDFileClearsStaleEntry(t *testing.T) {
	pf := pidFile(filepath.Join(t.TempDir(), "quotaclockd.pid"))
	if err := os.WriteFile(string(pf), []byte("garbage\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := pf.ensureFree(); err != nil {
		t.Fatalf("ensureFree with garbage pid: %v", err)
	}
	if _, err := os.Stat(string(pf)); !os.IsNotExist(err) {
		t.Fatal("stale pid file not removed")
	}
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("QUOTACLOCK_LOG_LEVEL", "debug")

	flagConfigPath = filepath.Join(dir, "missing.toml")
	flagDBPath = filepath.Join(dir, "q.db")
	t.Cleanup(func() {
		flagConfigPath = ""
		flagDBPath = ""
	})

	if err := loadConfig(rootCmd, nil); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.DBPath() != flagDBPath {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath(), flagDBPath)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level = %q, want debug", cfg.Logging.Level)
	}
}
