package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Options selects and configures a backend.
type Options struct {
	Backend    string // file (default), sqlite or redis
	DataDir    string
	SQLitePath string // default <DataDir>/journey.db
	Redis      RedisOptions
	Logger     *log.Logger
}

// Open returns the KV for opts.Backend. The caller closes it.
func Open(ctx context.Context, opts Options) (KV, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	switch backend {
	case "", BackendFile:
		if opts.DataDir == "" {
			return nil, errors.New("file backend needs a data directory")
		}
		kv, err := NewFileKV(opts.DataDir, opts.Logger)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			if opts.DataDir == "" {
				return nil, errors.New("sqlite backend needs a database path or data directory")
			}
			path = filepath.Join(opts.DataDir, "journey.db")
		}
		kv, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendRedis:
		if opts.Redis.Addr == "" {
			return nil, errors.New("redis backend needs an address")
		}
		kv, err := OpenRedis(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		return kv, nil
	}
	return nil, fmt.Errorf("%w: %q (want file, sqlite or redis)", ErrUnknownBackend, opts.Backend)
}
