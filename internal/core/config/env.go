package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: AUTOIMPORT_[SECTION]_[KEY] (e.g., AUTOIMPORT_WATCH_DEBOUNCE).
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.Root, "AUTOIMPORT_ROOT")
	setEnvBool(&cfg.RespectGitignore, "AUTOIMPORT_RESPECT_GITIGNORE")
	setEnvInt(&cfg.ExistingPriority, "AUTOIMPORT_EXISTING_PRIORITY")
	setEnvString(&cfg.ImportMode, "AUTOIMPORT_IMPORT_MODE")
	setEnvString(&cfg.TargetEnv, "AUTOIMPORT_TARGET_ENV")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "AUTOIMPORT_WATCH_DEBOUNCE")
	setEnvDuration(&cfg.Watch.MinInterval, "AUTOIMPORT_WATCH_MIN_INTERVAL")

	// Caches
	setEnvInt(&cfg.Caches.Files, "AUTOIMPORT_CACHES_FILES")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "AUTOIMPORT_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "AUTOIMPORT_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
