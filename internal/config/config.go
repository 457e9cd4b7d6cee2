package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// StorageConfig selects and configures the measurement store backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// SQLiteConfig holds the in-memory SQLite store settings.
type SQLiteConfig struct {
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
}

// MeasureConfig holds engine tuning knobs.
type MeasureConfig struct {
	// ToleranceMeters is the near-equality tolerance for positions; it also
	// drives global duplicate-point suppression.
	ToleranceMeters float64 `json:"toleranceMeters" mapstructure:"toleranceMeters"`
	// DragThresholdPx is the screen displacement below which a drag is
	// treated as an abandoned click.
	DragThresholdPx float64 `json:"dragThresholdPx" mapstructure:"dragThresholdPx"`
	// CurveInterpolationSteps is the subdivision count for curve-mode
	// interpolated point lists.
	CurveInterpolationSteps int `json:"curveInterpolationSteps" mapstructure:"curveInterpolationSteps"`
	// CoordinateSpace selects the coordinate adapter: "planar" for projected
	// canvas meters, "geodetic" for WGS84 lat/lng.
	CoordinateSpace string `json:"coordinateSpace" mapstructure:"coordinateSpace"`
}

// Load reads configuration from a JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName("mapmeasure.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}
	return nil
}

// LoadDefaults applies defaults without requiring a config file. Embedders
// that configure programmatically start from here.
func LoadDefaults() {
	setDefaults()
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./measurelogs")

	viper.SetDefault("measure.toleranceMeters", 0.01)
	viper.SetDefault("measure.dragThresholdPx", 3.0)
	viper.SetDefault("measure.curveInterpolationSteps", 32)
	viper.SetDefault("measure.coordinateSpace", "planar")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.sqlite.dumpInterval", "30s")
	viper.SetDefault("storage.sqlite.dumpPath", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "mapmeasure")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "mapmeasure-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("export.outputDir", "./exports")
	viper.SetDefault("export.compress", true)

	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")

	viper.SetDefault("ws.url", "")
	viper.SetDefault("ws.secret", "")
}

// GetStorageConfig returns the typed storage configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
		},
	}
}

// GetMeasureConfig returns the typed engine configuration.
func GetMeasureConfig() MeasureConfig {
	return MeasureConfig{
		ToleranceMeters:         viper.GetFloat64("measure.toleranceMeters"),
		DragThresholdPx:         viper.GetFloat64("measure.dragThresholdPx"),
		CurveInterpolationSteps: viper.GetInt("measure.curveInterpolationSteps"),
		CoordinateSpace:         viper.GetString("measure.coordinateSpace"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
