package config

import (
	"time"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDatabasePath  = "database.path"
	KeyLogLevel      = "logging.level"
	KeyLogFormat     = "logging.format"
	KeySeedSamples   = "demo.seed_samples"
	KeyAnalysisSpeed = "analysis.speed"
	KeySessionQuota  = "session.quota_bytes"
)

// DefaultDatabasePath is where the durable backend lives when nothing is configured.
const DefaultDatabasePath = "$HOME/.local/share/tandem/tandem.db"

// DefaultSessionQuota mirrors the usual 5 MiB browser storage quota.
const DefaultSessionQuota = 5 * 1024 * 1024

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeySeedSamples, true)
	v.SetDefault(KeyAnalysisSpeed, 1.0)
	v.SetDefault(KeySessionQuota, DefaultSessionQuota)
}

// DatabasePath returns the expanded durable backend path.
func DatabasePath(v *viper.Viper) string {
	path := v.GetString(KeyDatabasePath)
	if path == "" {
		path = DefaultDatabasePath
	}
	if path == ":memory:" {
		return path
	}
	return ExpandPath(path)
}

// ScaleDuration applies the configured analysis speed to d. A speed of 2
// halves every stage; zero or negative speeds are ignored.
func ScaleDuration(v *viper.Viper, d time.Duration) time.Duration {
	speed := v.GetFloat64(KeyAnalysisSpeed)
	if speed <= 0 {
		return d
	}
	return time.Duration(float64(d) / speed)
}
