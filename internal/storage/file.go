package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"journey/internal/fsutil"

	"github.com/charmbracelet/log"
)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

// FileKV keeps each key in its own JSON file under a data directory:
// "goal/<id>/history" lives at <dir>/goal/<id>/history.json.
//
// Writes are atomic and keep the previous version as a .bak. A file that no
// longer parses is restored from its .bak when possible; otherwise it is
// moved aside as .corrupt.<timestamp> and the key reads as absent.
type FileKV struct {
	dir string
	now func() time.Time
	log *log.Logger
}

// NewFileKV creates dir if needed.
func NewFileKV(dir string, logger *log.Logger) (*FileKV, error) {
	if err := os.MkdirAll(dir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &FileKV{dir: dir, now: time.Now, log: logger}, nil
}

// Dir returns the data directory.
func (f *FileKV) Dir() string {
	return f.dir
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, filepath.FromSlash(key)+".json")
}

// Get implements KV.
func (f *FileKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	path := f.path(key)

	data, ok, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return f.restore(key, fmt.Errorf("%s is empty", filepath.Base(path)))
	}
	if !json.Valid(data) {
		return f.restore(key, fmt.Errorf("%s is not valid JSON", filepath.Base(path)))
	}
	return data, true, nil
}

func (f *FileKV) restore(key string, cause error) ([]byte, bool, error) {
	path := f.path(key)

	bak, ok, err := fsutil.ReadFile(fsutil.BackupPath(path))
	if err == nil && ok && len(bytes.TrimSpace(bak)) > 0 && json.Valid(bak) {
		moved := fsutil.Quarantine(path, f.now())
		if err := fsutil.WriteFileAtomic(path, bak, dataFilePerm); err != nil {
			f.log.Warn("restore from backup", "key", key, "err", err)
		}
		f.log.Warn("recovered from backup", "key", key, "cause", cause, "moved_to", moved)
		return bak, true, nil
	}

	moved := fsutil.Quarantine(path, f.now())
	f.log.Warn("discarded unreadable value", "key", key, "cause", cause, "moved_to", moved)
	return nil, false, fmt.Errorf("%w: %s (original moved to %s)", ErrCorrupt, cause, moved)
}

// Set implements KV.
func (f *FileKV) Set(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	path := f.path(key)
	if err := os.MkdirAll(filepath.Dir(path), dataDirPerm); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	fsutil.BestEffortBackup(path, dataFilePerm)
	if err := fsutil.WriteFileAtomic(path, value, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete implements KV. Backups go with the value.
func (f *FileKV) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if err := validateKey(key); err != nil {
			return err
		}
		path := f.path(key)
		for _, p := range []string{path, fsutil.BackupPath(path)} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
	}
	return nil
}

// Close implements KV.
func (f *FileKV) Close() error {
	return nil
}
