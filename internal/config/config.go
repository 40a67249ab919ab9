// Package config reads the configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cotisations/backend/pkg/state"
	"github.com/cotisations/backend/pkg/store"
)

// SQLiteFile is the name of the database file in the data directory.
const SQLiteFile = "cotisations.db"

type Config struct {
	// HTTP Server
	Port   string
	APIURL string

	// gin and logging
	GinMode   string
	LogFormat string // Empty when not set, see HumanLogs

	CORSAllowOrigins []string
	EnablePprof      bool

	// Storage
	StorageBackend store.Backend
	DataDir        string

	// Ledger behavior
	DeletePolicy    state.DeletePolicy
	LeaderboardSize int
	Currency        string
}

// Load reads the configuration from the environment, using defaults for unset variables.
func Load() *Config {
	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "release"),
		LogFormat: getEnv("LOG_FORMAT", ""),

		CORSAllowOrigins: strings.Fields(getEnv("CORS_ALLOW_ORIGINS", "")),
		EnablePprof:      getEnvBool("ENABLE_PPROF", false),

		StorageBackend: store.Backend(getEnv("STORAGE_BACKEND", string(store.BackendJSON))),
		DataDir:        getEnv("DATA_DIR", filepath.Join(".", "data")),

		DeletePolicy:    state.DeletePolicy(getEnv("DELETE_POLICY", string(state.DeleteBlock))),
		LeaderboardSize: getEnvInt("LEADERBOARD_SIZE", 5),
		Currency:        getEnv("CURRENCY", "DH"),
	}

	cfg.APIURL = getEnv("API_URL", fmt.Sprintf("http://localhost:%s", cfg.Port))

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, err := c.URL(); err != nil {
		errors = append(errors, err.Error())
	}

	switch c.GinMode {
	case "release", "debug", "test":
	default:
		errors = append(errors, fmt.Sprintf("invalid gin mode '%s': must be one of release, debug, test", c.GinMode))
	}

	switch c.LogFormat {
	case "", "human", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be human or json", c.LogFormat))
	}

	switch c.StorageBackend {
	case store.BackendJSON, store.BackendSQLite:
	default:
		errors = append(errors, fmt.Sprintf("invalid storage backend '%s': must be one of %s, %s", c.StorageBackend, store.BackendJSON, store.BackendSQLite))
	}

	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	}

	if _, err := state.ParseDeletePolicy(string(c.DeletePolicy)); err != nil {
		errors = append(errors, fmt.Sprintf("invalid delete policy '%s': must be one of %s, %s", c.DeletePolicy, state.DeleteBlock, state.DeleteCascade))
	}

	if c.LeaderboardSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid leaderboard size %d: must be at least 1", c.LeaderboardSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// URL returns the parsed API URL.
func (c *Config) URL() (*url.URL, error) {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL '%s': %w", c.APIURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL '%s': scheme must be http or https", c.APIURL)
	}

	return u, nil
}

// HumanLogs reports if logs are written for humans instead of as JSON.
//
// If the format is not set, human readable logs are used in debug mode.
func (c *Config) HumanLogs() bool {
	if c.LogFormat == "" {
		return c.GinMode == "debug"
	}
	return c.LogFormat == "human"
}

// SQLitePath returns the path of the SQLite database.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, SQLiteFile)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
