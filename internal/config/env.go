package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/catkinize/internal/logfields"
)

// Environment variables overriding the configuration file.
const (
	EnvLogLevel      = "CATKINIZE_LOG_LEVEL"
	EnvLogFormat     = "CATKINIZE_LOG_FORMAT"
	EnvVersion       = "CATKINIZE_VERSION"
	EnvBugtrackerURL = "CATKINIZE_BUGTRACKER_URL"
	EnvArchIndep     = "CATKINIZE_ARCHITECTURE_INDEPENDENT"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads the first readable .env file. Variables already set in the
// process environment are never overwritten.
func loadEnvFiles() {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load environment file", logfields.Path(path), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.Path(path))
		return
	}
}

func applyEnv(c *Config) {
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Logging.Level = LogLevel(v)
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok {
		c.Logging.Format = LogFormat(v)
	}
	if v, ok := os.LookupEnv(EnvVersion); ok {
		c.Package.Version = v
	}
	if v, ok := os.LookupEnv(EnvBugtrackerURL); ok {
		c.Package.BugtrackerURL = v
	}
	if v, ok := os.LookupEnv(EnvArchIndep); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Package.ArchitectureIndependent = b
		}
	}
}
