package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"journey/internal/storage"
)

// testNow is Sunday 2025-06-15 at noon UTC.
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// cli runs commands against one data directory with a fixed clock.
type cli struct {
	t       *testing.T
	dataDir string
	now     time.Time
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return &cli{t: t, dataDir: t.TempDir(), now: testNow}
}

// run executes args and returns combined output.
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	opts := &rootOptions{
		now: func() time.Time { return c.now },
		loc: time.UTC,
	}
	root := newRootCmdWithOptions(opts)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data-dir", c.dataDir}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// mustRun is run that fails the test on error.
func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("journey %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func (c *cli) status() statusJSON {
	c.t.Helper()
	var s statusJSON
	if err := json.Unmarshal([]byte(c.mustRun("status", "--json")), &s); err != nil {
		c.t.Fatalf("decode status: %v", err)
	}
	return s
}

func TestStatusWithoutGoal(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("status")
	if !errors.Is(err, storage.ErrNoActiveGoal) {
		t.Fatalf("status error = %v, want ErrNoActiveGoal", err)
	}
	if !strings.Contains(err.Error(), "journey goal new") {
		t.Errorf("error should point at goal new: %v", err)
	}
}

func TestGoalNew(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("goal", "new", "--topic", "Go", "--duration", "week")
	if !strings.Contains(out, "Now learning go for a week: 7 days, 2 freezes") {
		t.Errorf("goal new output = %q", out)
	}

	if _, err := c.run("goal", "new", "--topic", "Rust", "--duration", "month"); err == nil {
		t.Error("second goal new without --force should fail")
	}
	c.mustRun("goal", "new", "--topic", "Rust", "--duration", "month", "--force")

	var g goalJSON
	if err := json.Unmarshal([]byte(c.mustRun("goal", "show", "--json")), &g); err != nil {
		t.Fatal(err)
	}
	if g.Topic != "Rust" || g.Duration != "month" || g.TargetDays != 30 || g.AllowedFreezes != 8 {
		t.Errorf("goal show = %+v", g)
	}
	if g.StartDate != "2025-06-15" {
		t.Errorf("start date = %s, want 2025-06-15", g.StartDate)
	}
}

func TestGoalNewRejectsUnknownDuration(t *testing.T) {
	c := newCLI(t)
	if _, err := c.run("goal", "new", "--topic", "Go", "--duration", "fortnight"); err == nil {
		t.Fatal("expected an error for an unknown duration")
	}
}

func TestLearned(t *testing.T) {
	c := newCLI(t)
	c.mustRun("goal", "new", "--topic", "Go", "--duration", "week")

	out := c.mustRun("learned")
	if !strings.Contains(out, "Logged 2025-06-15 as learned. Streak: 1 day") {
		t.Errorf("learned output = %q", out)
	}

	if _, err := c.run("learned"); !errors.Is(err, errAlreadyLogged) {
		t.Errorf("second learned error = %v, want errAlreadyLogged", err)
	}

	c.mustRun("learned", "--date", "2025-06-14")
	s := c.status()
	if s.CurrentStreak != 2 || s.TodayStatus != "learned" || s.Today != "2025-06-15" {
		t.Errorf("status = %+v", s)
	}

	if _, err := c.run("learned", "--date", "June 14"); err == nil {
		t.Error("a malformed --date should fail")
	}
}

func TestFreezeQuota(t *testing.T) {
	c := newCLI(t)
	c.mustRun("goal", "new", "--topic", "Go", "--duration", "week")

	c.mustRun("freeze", "--date", "2025-06-10")
	out := c.mustRun("freeze", "--date", "2025-06-11")
	if !strings.Contains(out, "2 out of 2 freezes used") {
		t.Errorf("freeze output = %q", out)
	}

	if _, err := c.run("freeze"); !errors.Is(err, errNoFreezesLeft) {
		t.Errorf("third freeze error = %v, want errNoFreezesLeft", err)
	}
	if _, err := c.run("freeze", "--date", "2025-06-10"); !errors.Is(err, errAlreadyLogged) {
		t.Errorf("refreeze error = %v, want errAlreadyLogged", err)
	}

	s := c.status()
	if s.UsedFreezes != 2 || s.RemainingFreezes != 0 || s.TodayStatus != "" {
		t.Errorf("status = %+v", s)
	}
}

func TestFreezeBreaksStreak(t *testing.T) {
	c := newCLI(t)
	c.mustRun("goal", "new", "--topic", "Go", "--duration", "week")

	c.mustRun("learned", "--date", "2025-06-13")
	c.mustRun("freeze", "--date", "2025-06-14")
	c.mustRun("learned")

	if got := c.status().CurrentStreak; got != 1 {
		t.Errorf("streak = %d, want 1", got)
	}
}

func TestHistory(t *testing.T) {
	c := newCLI(t)
	c.mustRun("goal", "new", "--topic", "Go", "--duration", "week")

	if out := c.mustRun("history"); !strings.Contains(out, "No days logged yet.") {
		t.Errorf("empty history output = %q", out)
	}

	c.mustRun("learned")
	c.mustRun("freeze", "--date", "2025-06-12")

	var entries []historyEntry
	if err := json.Unmarshal([]byte(c.mustRun("history", "--json")), &entries); err != nil {
		t.Fatal(err)
	}
	want := []historyEntry{
		{Date: "2025-06-12", Status: "freezed"},
		{Date: "2025-06-15", Status: "learned"},
	}
	if len(entries) != len(want) {
		t.Fatalf("history = %+v, want %+v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestReset(t *testing.T) {
	c := newCLI(t)
	c.mustRun("goal", "new", "--topic", "Go", "--duration", "week")
	c.mustRun("learned")
	c.mustRun("freeze", "--date", "2025-06-14")

	out := c.mustRun("reset", "--yes")
	if !strings.Contains(out, "Started go over") {
		t.Errorf("reset output = %q", out)
	}

	s := c.status()
	if s.CurrentStreak != 0 || s.UsedFreezes != 0 || s.Topic != "Go" {
		t.Errorf("status after reset = %+v", s)
	}
}

func TestGoalUpdate(t *testing.T) {
	tests := []struct {
		name        string
		purge       bool
		wantOldKeys bool
	}{
		{name: "keeps old history", wantOldKeys: true},
		{name: "purges old history", purge: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCLI(t)
			c.mustRun("goal", "new", "--topic", "Go", "--duration", "week")
			c.mustRun("learned")

			var old goalJSON
			if err := json.Unmarshal([]byte(c.mustRun("goal", "show", "--json")), &old); err != nil {
				t.Fatal(err)
			}

			args := []string{"goal", "update", "--duration", "year"}
			if tt.purge {
				args = append(args, "--purge")
			}
			c.mustRun(args...)

			s := c.status()
			if s.Topic != "Go" || s.Duration != "year" || s.TargetDays != 365 || s.CurrentStreak != 0 {
				t.Errorf("status after update = %+v", s)
			}

			kv, err := storage.NewFileKV(c.dataDir, nil)
			if err != nil {
				t.Fatal(err)
			}
			_, ok, err := kv.Get(context.Background(), "goal/"+old.ID+"/history")
			if err != nil {
				t.Fatal(err)
			}
			if ok != tt.wantOldKeys {
				t.Errorf("old history present = %v, want %v", ok, tt.wantOldKeys)
			}
		})
	}
}

func TestBackupAndRestore(t *testing.T) {
	c := newCLI(t)
	c.mustRun("goal", "new", "--topic", "Go", "--duration", "week")
	c.mustRun("learned")

	out := c.mustRun("backup")
	if !strings.Contains(out, "Backup created") || !strings.Contains(out, "Learned: 1, Freezed: 0") {
		t.Errorf("backup output = %q", out)
	}

	c.mustRun("goal", "update", "--topic", "Rust", "--purge")
	if got := c.status().Topic; got != "Rust" {
		t.Fatalf("topic after update = %q", got)
	}

	out = c.mustRun("backup", "restore")
	if !strings.Contains(out, "Restored backup") || !strings.Contains(out, "Previous state saved") {
		t.Errorf("restore output = %q", out)
	}

	s := c.status()
	if s.Topic != "Go" || s.CurrentStreak != 1 {
		t.Errorf("status after restore = %+v", s)
	}

	if out := c.mustRun("backup", "list"); strings.Count(out, "learned,") != 2 {
		t.Errorf("backup list = %q, want two backups", out)
	}
}

func TestBackends(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			c := newCLI(t)
			c.mustRun("--backend", backend, "goal", "new", "--topic", "Go", "--duration", "week")
			c.mustRun("--backend", backend, "learned")

			var s statusJSON
			out := c.mustRun("--backend", backend, "status", "--json")
			if err := json.Unmarshal([]byte(out), &s); err != nil {
				t.Fatal(err)
			}
			if s.CurrentStreak != 1 {
				t.Errorf("streak = %d, want 1", s.CurrentStreak)
			}
		})
	}

	c := newCLI(t)
	if _, err := c.run("--backend", "postgres", "status"); !errors.Is(err, storage.ErrUnknownBackend) {
		t.Errorf("unknown backend error = %v, want ErrUnknownBackend", err)
	}
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	if out := c.mustRun("version"); !strings.Contains(out, "journey dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{15 * 24 * time.Hour, "2 weeks ago"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.d); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
