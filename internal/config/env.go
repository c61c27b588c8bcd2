package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix starts every environment override, e.g. JOURNEY_DATA_DIR.
const EnvPrefix = "JOURNEY_"

// EnvFile is read from the config directory before the process
// environment, so real variables win over the file.
const EnvFile = ".env"

// loadEnv collects JOURNEY_* variables from <dir>/.env and the environment.
func loadEnv(dir string) map[string]string {
	vars := make(map[string]string)
	if dir != "" {
		if fileVars, err := godotenv.Read(filepath.Join(dir, EnvFile)); err == nil {
			for k, v := range fileVars {
				if strings.HasPrefix(k, EnvPrefix) {
					vars[k] = v
				}
			}
		}
	}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, EnvPrefix) {
			vars[k] = v
		}
	}
	return vars
}

// applyEnv overrides file settings with JOURNEY_* variables.
func (c *Config) applyEnv(vars map[string]string) error {
	str := map[string]*string{
		"JOURNEY_DATA_DIR":        &c.DataDir,
		"JOURNEY_STORAGE_BACKEND": &c.Storage.Backend,
		"JOURNEY_SQLITE_PATH":     &c.Storage.SQLitePath,
		"JOURNEY_REDIS_ADDR":      &c.Storage.Redis.Addr,
		"JOURNEY_REDIS_PASSWORD":  &c.Storage.Redis.Password,
		"JOURNEY_REDIS_PREFIX":    &c.Storage.Redis.Prefix,
		"JOURNEY_LOG_LEVEL":       &c.Log.Level,
	}
	for name, dst := range str {
		if v, ok := vars[name]; ok && v != "" {
			*dst = v
		}
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)

	if v, ok := vars["JOURNEY_REDIS_DB"]; ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil || db < 0 {
			return fmt.Errorf("invalid JOURNEY_REDIS_DB %q", v)
		}
		c.Storage.Redis.DB = db
	}
	if v, ok := vars["JOURNEY_DEBUG"]; ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid JOURNEY_DEBUG %q", v)
		}
		c.Log.Debug = debug
	}
	return nil
}
