// Package config reads application settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables.
const (
	EnvDBPath        = "ROOMKIT_DB_PATH"
	EnvMeshCells     = "ROOMKIT_MESH_CELLS"
	EnvScriptTimeout = "ROOMKIT_SCRIPT_TIMEOUT"
	EnvHoverGrace    = "ROOMKIT_HOVER_GRACE"
)

// Config holds the application settings.
type Config struct {
	DBPath        string
	MeshCells     int
	ScriptTimeout time.Duration
	HoverGrace    time.Duration
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		DBPath:        defaultDBPath(os.Getenv),
		MeshCells:     48,
		ScriptTimeout: 5 * time.Second,
		HoverGrace:    500 * time.Millisecond,
	}
}

func defaultDBPath(getenv func(string) string) string {
	if dir := getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "roomkit", "roomkit.db")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".roomkit", "roomkit.db")
	}
	return "roomkit.db"
}

// Load reads the given env files (".env" when none are named) and then
// the process environment, which takes precedence. A missing file is
// logged and skipped.
func Load(files ...string) (Config, error) {
	vars, err := godotenv.Read(files...)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: reading env file: %w", err)
		}
		log.Printf("config: env file not found, continuing with environment variables")
		vars = map[string]string{}
	}
	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	})
}

// FromLookup builds a Config from lookup, falling back to Default for
// unset keys. Every malformed value is reported.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	if v, ok := lookup(EnvDBPath); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := lookup(EnvMeshCells); ok && v != "" {
		n, err := strconv.Atoi(v)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", EnvMeshCells, err))
		case n < 8:
			errs = append(errs, fmt.Errorf("%s: %d is below the minimum 8", EnvMeshCells, n))
		default:
			cfg.MeshCells = n
		}
	}
	for key, dst := range map[string]*time.Duration{
		EnvScriptTimeout: &cfg.ScriptTimeout,
		EnvHoverGrace:    &cfg.HoverGrace,
	} {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s: must be positive, got %s", key, d))
			continue
		}
		*dst = d
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return cfg, nil
}
