// Package backup provides backup and restore for journey's saved state.
// This file contains tests for the backup module.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"journey/internal/goal"
	"journey/internal/storage"
	"journey/internal/streak"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var testStart = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// stepClock returns a clock that advances one second per call so every
// backup gets its own name.
func stepClock() func() time.Time {
	t := testStart
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// newTestManager returns a manager over a fresh file store.
func newTestManager(t *testing.T) (*Manager, storage.KV, string) {
	t.Helper()
	dir := t.TempDir()
	kv, err := storage.NewFileKV(dir, nil)
	if err != nil {
		t.Fatalf("NewFileKV() error: %v", err)
	}
	m := NewManager(kv, dir, "1.2.0-test")
	m.now = stepClock()
	return m, kv, dir
}

// seedGoal saves an active goal with two learned days and one freezed day.
func seedGoal(t *testing.T, kv storage.KV) goal.Definition {
	t.Helper()
	ctx := context.Background()

	def, err := goal.New("Go", goal.DurationWeek, testStart)
	if err != nil {
		t.Fatal(err)
	}
	if err := storage.SaveActiveGoal(ctx, kv, def); err != nil {
		t.Fatalf("SaveActiveGoal() error: %v", err)
	}

	today := streak.DayOf(testStart, time.UTC)
	store := storage.NewGoalStore(kv, def.ID, storage.WithStoreLocation(time.UTC))
	h := streak.History{
		today - 2: streak.StatusFreezed,
		today - 1: streak.StatusLearned,
		today:     streak.StatusLearned,
	}
	if err := store.SaveHistory(h); err != nil {
		t.Fatalf("SaveHistory() error: %v", err)
	}
	if err := store.SaveScalars(streak.Scalars{Streak: 2, LastAction: testStart}); err != nil {
		t.Fatalf("SaveScalars() error: %v", err)
	}
	return def
}

// readTestJSON reads JSON from a file for testing.
func readTestJSON(t *testing.T, path string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}

	return result
}

// TestManager_Create tests backup creation.
func TestManager_Create(t *testing.T) {
	manager, kv, dir := newTestManager(t)
	def := seedGoal(t, kv)

	name, err := manager.Create(context.Background())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Verify backup name format (2006-01-02_150405_XXX where XXX is milliseconds)
	if len(name) != 21 {
		t.Errorf("Expected backup name length 21, got %d: %s", len(name), name)
	}

	backupPath := filepath.Join(dir, BackupsDir, name)
	for _, key := range storage.SnapshotKeys(def.ID) {
		if _, err := os.Stat(filepath.Join(backupPath, fileForKey(key))); err != nil {
			t.Errorf("key %s not backed up: %v", key, err)
		}
	}

	manifest := readTestJSON(t, filepath.Join(backupPath, ManifestFile))
	if manifest["version"] != ManifestVersion {
		t.Errorf("Expected manifest version %s, got %v", ManifestVersion, manifest["version"])
	}
	if manifest["app_version"] != "1.2.0-test" {
		t.Errorf("Expected app_version 1.2.0-test, got %v", manifest["app_version"])
	}
	if manifest["goal_id"] != def.ID {
		t.Errorf("Expected goal_id %s, got %v", def.ID, manifest["goal_id"])
	}

	stats, ok := manifest["stats"].(map[string]any)
	if !ok {
		t.Fatal("Stats not found in manifest")
	}
	if int(stats["learned"].(float64)) != 2 {
		t.Errorf("Expected 2 learned days, got %v", stats["learned"])
	}
	if int(stats["freezed"].(float64)) != 1 {
		t.Errorf("Expected 1 freezed day, got %v", stats["freezed"])
	}
}

func TestManager_CreateWithoutGoal(t *testing.T) {
	manager, _, dir := newTestManager(t)

	_, err := manager.Create(context.Background())
	if !errors.Is(err, storage.ErrNoActiveGoal) {
		t.Fatalf("Create() error = %v, want ErrNoActiveGoal", err)
	}
	if _, err := os.Stat(filepath.Join(dir, BackupsDir)); !os.IsNotExist(err) {
		t.Error("backup directory created with nothing to back up")
	}
}

// TestManager_List tests listing backups.
func TestManager_List(t *testing.T) {
	manager, kv, _ := newTestManager(t)
	seedGoal(t, kv)

	backups, err := manager.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("Expected 0 backups, got %d", len(backups))
	}

	name1, _ := manager.Create(context.Background())
	name2, _ := manager.Create(context.Background())

	backups, err = manager.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("Expected 2 backups, got %d", len(backups))
	}
	if backups[0].Name != name2 {
		t.Errorf("Expected newest backup %s first, got %s", name2, backups[0].Name)
	}
	if backups[1].Name != name1 {
		t.Errorf("Expected older backup %s second, got %s", name1, backups[1].Name)
	}
	if backups[0].Topic != "Go" {
		t.Errorf("Topic = %q, want Go", backups[0].Topic)
	}
}

// TestManager_Restore tests restoring from a backup.
func TestManager_Restore(t *testing.T) {
	ctx := context.Background()
	manager, kv, _ := newTestManager(t)
	def := seedGoal(t, kv)

	name, err := manager.Create(ctx)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Replace the goal and wipe the old history.
	other, err := def.Update("Rust", goal.DurationMonth, testStart)
	if err != nil {
		t.Fatal(err)
	}
	if err := storage.SaveActiveGoal(ctx, kv, other); err != nil {
		t.Fatal(err)
	}
	if err := storage.PurgeGoal(ctx, kv, def.ID); err != nil {
		t.Fatal(err)
	}

	safety, err := manager.Restore(ctx, name)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if safety == "" {
		t.Error("Restore() should report a safety backup")
	}

	restored, err := storage.LoadActiveGoal(ctx, kv)
	if err != nil {
		t.Fatalf("LoadActiveGoal() error: %v", err)
	}
	if restored.ID != def.ID || restored.Topic != "Go" {
		t.Errorf("restored goal = %+v, want %s/Go", restored, def.ID)
	}

	h := storage.NewGoalStore(kv, def.ID, storage.WithStoreLocation(time.UTC)).LoadHistory()
	if len(h) != 3 || h.Count(streak.StatusLearned) != 2 {
		t.Errorf("restored history = %v", h)
	}

	backups, _ := manager.List()
	if len(backups) != 2 {
		t.Errorf("Expected original and safety backups, got %d", len(backups))
	}
}

func TestManager_RestoreIntoOtherBackend(t *testing.T) {
	ctx := context.Background()
	source, kv, dir := newTestManager(t)
	def := seedGoal(t, kv)

	name, err := source.Create(ctx)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	mr := miniredis.RunT(t)
	rkv := storage.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	t.Cleanup(func() { _ = rkv.Close() })

	target := NewManager(rkv, dir, "1.2.0-test")
	target.now = stepClock()

	safety, err := target.Restore(ctx, name)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if safety != "" {
		t.Errorf("safety backup %q taken from an empty store", safety)
	}

	restored, err := storage.LoadActiveGoal(ctx, rkv)
	if err != nil {
		t.Fatalf("LoadActiveGoal() error: %v", err)
	}
	if restored.ID != def.ID {
		t.Errorf("restored goal id = %s, want %s", restored.ID, def.ID)
	}
}

func TestManager_RestoreLatest(t *testing.T) {
	ctx := context.Background()
	manager, kv, _ := newTestManager(t)

	if _, _, err := manager.RestoreLatest(ctx); err == nil {
		t.Fatal("RestoreLatest() with no backups should fail")
	}

	seedGoal(t, kv)
	want, _ := manager.Create(ctx)

	got, _, err := manager.RestoreLatest(ctx)
	if err != nil {
		t.Fatalf("RestoreLatest() error: %v", err)
	}
	if got != want {
		t.Errorf("restored %s, want %s", got, want)
	}
}

func TestManager_Prune(t *testing.T) {
	manager, kv, _ := newTestManager(t)
	seedGoal(t, kv)

	for i := 0; i < 4; i++ {
		if _, err := manager.Create(context.Background()); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	deleted, err := manager.Prune(2)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Prune() deleted %d, want 2", deleted)
	}
	backups, _ := manager.List()
	if len(backups) != 2 {
		t.Errorf("Expected 2 backups after prune, got %d", len(backups))
	}

	if _, err := manager.Prune(-1); err == nil {
		t.Error("Prune(-1) should fail")
	}
}

func TestManager_DeleteAndGet(t *testing.T) {
	manager, kv, _ := newTestManager(t)
	seedGoal(t, kv)

	name, _ := manager.Create(context.Background())
	info, err := manager.GetBackup(name)
	if err != nil {
		t.Fatalf("GetBackup() error: %v", err)
	}
	if info.Stats["learned"] != 2 {
		t.Errorf("learned = %d, want 2", info.Stats["learned"])
	}

	if err := manager.Delete(name); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := manager.GetBackup(name); err == nil {
		t.Error("GetBackup() after Delete should fail")
	}
	if err := manager.Delete(name); err == nil {
		t.Error("second Delete() should fail")
	}
}

func TestValidateBackupName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"with millis", "2025-06-15_120001_000", false},
		{"without millis", "2025-06-15_120001", false},
		{"empty", "", true},
		{"traversal", "../2025-06-15_120001", true},
		{"separator", "a/b", true},
		{"not a timestamp", "yesterday", true},
		{"bad millis", "2025-06-15_120001_abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBackupName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateBackupName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestFileForKey(t *testing.T) {
	if got := fileForKey("goal/active"); got != "goal_active.json" {
		t.Errorf("fileForKey() = %q", got)
	}
}
