// Package backup provides backup and restore for journey's saved state.
// A backup is a timestamped directory holding the active goal record, its
// day history and its scalars, copied out of whatever storage backend is
// configured. Restoring writes them back through the same KV interface, so
// a backup taken from the file backend can be restored into SQLite or Redis.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"journey/internal/fsutil"
	"journey/internal/storage"
	"journey/internal/streak"
)

// Version constants for the backup format.
const (
	ManifestVersion = "1.0"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"
)

// Manager handles backup and restore operations.
type Manager struct {
	kv         storage.KV
	backupDir  string // e.g. ~/.journey/backups
	appVersion string
	now        func() time.Time
}

// Entry maps one stored key to the file holding its value.
type Entry struct {
	Key  string `json:"key"`
	File string `json:"file"`
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	GoalID     string         `json:"goal_id"`
	Topic      string         `json:"topic"`
	Entries    []Entry        `json:"entries"`
	Stats      map[string]int `json:"stats"`
}

// BackupInfo contains summary information about a backup.
type BackupInfo struct {
	Name      string         // Directory name (2025-12-15_143022_123)
	Path      string         // Full path to backup directory
	CreatedAt time.Time      // When the backup was created
	Topic     string         // Topic of the goal that was backed up
	Stats     map[string]int // learned, freezed
}

// NewManager creates a manager that reads from and restores into kv, keeping
// backups under <dataDir>/backups.
func NewManager(kv storage.KV, dataDir, appVersion string) *Manager {
	return &Manager{
		kv:         kv,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// Dir returns the directory backups are written to.
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create backs up the active goal and its history.
// Returns the backup name (timestamp format) on success.
func (m *Manager) Create(ctx context.Context) (string, error) {
	def, err := storage.LoadActiveGoal(ctx, m.kv)
	if err != nil {
		return "", fmt.Errorf("nothing to back up: %w", err)
	}

	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	// Names have millisecond resolution; step forward past any taken one.
	now := m.now()
	var name, backupPath string
	for {
		name = fmt.Sprintf("%s_%03d", now.Format("2006-01-02_150405"), now.Nanosecond()/1e6)
		backupPath = filepath.Join(m.backupDir, name)
		err := os.Mkdir(backupPath, 0700)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("failed to create backup: %w", err)
		}
		now = now.Add(time.Millisecond)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		GoalID:     def.ID,
		Topic:      def.Topic,
		Stats:      make(map[string]int),
	}

	for _, key := range storage.SnapshotKeys(def.ID) {
		data, ok, err := m.kv.Get(ctx, key)
		if err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !ok {
			continue
		}

		file := fileForKey(key)
		if err := fsutil.WriteFileAtomic(filepath.Join(backupPath, file), data, 0600); err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to copy %s: %w", key, err)
		}
		manifest.Entries = append(manifest.Entries, Entry{Key: key, File: file})

		if strings.HasSuffix(key, "/history") {
			if h, err := streak.DecodeHistory(data, time.Local); err == nil {
				manifest.Stats["learned"] = h.Count(streak.StatusLearned)
				manifest.Stats["freezed"] = h.Count(streak.StatusFreezed)
			}
		}
	}

	manifestPath := filepath.Join(backupPath, ManifestFile)
	if err := writeJSON(manifestPath, manifest); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return name, nil
}

// List returns all available backups, sorted by creation time (newest first).
func (m *Manager) List() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue // Skip invalid backups
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Restore writes the keys saved in a backup back into the store, making the
// backed-up goal active again. The current state is backed up first when
// there is one.
func (m *Manager) Restore(ctx context.Context, name string) (safetyName string, err error) {
	if err := validateBackupName(name); err != nil {
		return "", err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup not found: %s", name)
	}

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		return "", fmt.Errorf("backup %s has no readable manifest: %w", name, err)
	}
	if len(manifest.Entries) == 0 {
		return "", fmt.Errorf("backup %s is empty", name)
	}

	safetyName, err = m.Create(ctx)
	if err != nil && !errors.Is(err, storage.ErrNoActiveGoal) {
		return "", fmt.Errorf("failed to create safety backup: %w", err)
	}

	for _, e := range manifest.Entries {
		if e.File != filepath.Base(e.File) {
			return safetyName, fmt.Errorf("backup %s: invalid file name %q", name, e.File)
		}
		data, err := os.ReadFile(filepath.Join(backupPath, e.File))
		if err != nil {
			return safetyName, fmt.Errorf("failed to read %s: %w", e.File, err)
		}
		if !json.Valid(data) {
			return safetyName, fmt.Errorf("backup file %s is not valid JSON", e.File)
		}
		if err := m.kv.Set(ctx, e.Key, data); err != nil {
			return safetyName, fmt.Errorf("failed to restore %s (safety backup: %s): %w", e.Key, safetyName, err)
		}
	}

	if _, err := storage.LoadActiveGoal(ctx, m.kv); err != nil {
		return safetyName, fmt.Errorf("restored goal is invalid (safety backup: %s): %w", safetyName, err)
	}

	return safetyName, nil
}

// RestoreLatest restores from the most recent backup.
func (m *Manager) RestoreLatest(ctx context.Context) (string, string, error) {
	backups, err := m.List()
	if err != nil {
		return "", "", err
	}

	if len(backups) == 0 {
		return "", "", fmt.Errorf("no backups available")
	}

	safety, err := m.Restore(ctx, backups[0].Name)
	return backups[0].Name, safety, err
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	backupPath := filepath.Join(m.backupDir, name)

	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}

	return os.RemoveAll(backupPath)
}

// Prune removes old backups, keeping only the N most recent.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}

	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keepCount:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}

	return deleted, nil
}

// GetBackup returns information about a specific backup.
func (m *Manager) GetBackup(name string) (*BackupInfo, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}

	if _, err := os.Stat(filepath.Join(m.backupDir, name)); os.IsNotExist(err) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}

	return m.info(name)
}

func (m *Manager) info(name string) (*BackupInfo, error) {
	backupPath := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		// Try to parse timestamp from directory name
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
	}
	if manifest.Stats == nil {
		manifest.Stats = make(map[string]int)
	}

	return &BackupInfo{
		Name:      name,
		Path:      backupPath,
		CreatedAt: manifest.CreatedAt,
		Topic:     manifest.Topic,
		Stats:     manifest.Stats,
	}, nil
}

// Helper functions

func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

// fileForKey flattens a KV key into a file name: goal/active -> goal_active.json.
func fileForKey(key string) string {
	return strings.ReplaceAll(key, "/", "_") + ".json"
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// parseBackupName parses a backup directory name into a timestamp.
// Supports both 2006-01-02_150405 and 2006-01-02_150405_XXX.
func parseBackupName(name string) (time.Time, error) {
	if len(name) == 21 {
		baseTime, err := time.Parse("2006-01-02_150405", name[:17])
		if err != nil {
			return time.Time{}, err
		}
		if name[17] != '_' {
			return time.Time{}, fmt.Errorf("invalid backup format")
		}
		ms, err := strconv.Atoi(name[18:])
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, fmt.Errorf("invalid milliseconds")
		}
		return baseTime.Add(time.Duration(ms) * time.Millisecond), nil
	}

	return time.Parse("2006-01-02_150405", name)
}
