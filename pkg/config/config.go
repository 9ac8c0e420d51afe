// Package config provides configuration management for wcimport.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode
//   - Source: path_template, memory_limit
//   - API: url, user, password, timeout, max_retry_time, requests_per_second
//   - Storage: endpoint, access_key, secret_key, bucket, prefix, use_ssl
//   - Blur: radius, jpeg_quality
//   - Metrics: pushgateway_url, job
//   - Log: level, format, destination
//
// Runtime-only fields (CLI flags only):
//   - Import.Single, Import.Clean, Import.LogQueries, Import.ShowProgress
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use WCIMPORT_ prefix with underscores for nesting:
//
//	WCIMPORT_DATABASE_HOST=localhost
//	WCIMPORT_API_URL=https://viltkamera.example.org/api
//	WCIMPORT_STORAGE_BUCKET=wildcameras
//	WCIMPORT_LOG_LEVEL=info
//
// Variables of the legacy import script (EXPORT_BASE_PATH, API_URL, API_USER,
// API_PASSWORD, S3_BUCKET, FSSPEC_S3_KEY, FSSPEC_S3_SECRET,
// FSSPEC_S3_ENDPOINT_URL) are accepted as well.
package config

import (
	"strings"
	"time"
)

// Config represents the complete wcimport configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Source describes where the Parquet export lives.
	Source SourceConfig `mapstructure:"source" yaml:"source"`

	// API is the upstream camera-trap service that serves the images.
	API APIConfig `mapstructure:"api" yaml:"api"`

	// Storage is the S3-compatible bucket that receives processed images.
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`

	Blur BlurConfig `mapstructure:"blur" yaml:"blur"`

	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Import contains per-invocation switches set from CLI flags.
	Import ImportConfig `mapstructure:"-" yaml:"-"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// SourceConfig locates the Parquet tables of the export.
type SourceConfig struct {
	// PathTemplate is a glob with the literal word TABLE in place of the
	// table name, for example "/data/export/TABLE/*.parquet".
	// TABLE is replaced with projects, timeseries and images_metadata.
	PathTemplate string `mapstructure:"path_template" yaml:"path_template"`

	// MemoryLimit is passed to DuckDB as memory_limit.
	MemoryLimit string `mapstructure:"memory_limit" yaml:"memory_limit"`
}

// APIConfig contains credentials and limits for the image service.
type APIConfig struct {
	// URL is the base URL. Login goes to URL/login, images to URL/images/<id>.
	URL string `mapstructure:"url" yaml:"url"`

	User string `mapstructure:"user" yaml:"user"`

	Password string `mapstructure:"password" yaml:"password"`

	// Timeout limits a single HTTP request.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// MaxRetryTime caps the total time spent retrying one request.
	MaxRetryTime time.Duration `mapstructure:"max_retry_time" yaml:"max_retry_time"`

	// RequestsPerSecond throttles image downloads. Zero means no limit.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
}

// StorageConfig describes the S3-compatible object store.
type StorageConfig struct {
	// Endpoint is host[:port] or a full URL. A scheme in the URL
	// overrides UseSSL.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	AccessKey string `mapstructure:"access_key" yaml:"access_key"`

	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`

	Bucket string `mapstructure:"bucket" yaml:"bucket"`

	// Prefix is prepended to every object key.
	Prefix string `mapstructure:"prefix" yaml:"prefix"`

	UseSSL bool `mapstructure:"use_ssl" yaml:"use_ssl"`
}

// BlurConfig controls the privacy blur.
type BlurConfig struct {
	// Radius is the standard deviation of the Gaussian kernel in pixels.
	Radius float64 `mapstructure:"radius" yaml:"radius"`

	// JPEGQuality is used when a blurred JPEG image is encoded again.
	JPEGQuality int `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`
}

// MetricsConfig configures the optional Prometheus Pushgateway push
// at the end of a run.
type MetricsConfig struct {
	// PushgatewayURL is empty when metrics are not pushed.
	PushgatewayURL string `mapstructure:"pushgateway_url" yaml:"pushgateway_url"`

	Job string `mapstructure:"job" yaml:"job"`
}

// ImportConfig contains settings of a single import invocation.
type ImportConfig struct {
	// Single stops after the first new timeseries. Used for debugging.
	Single bool

	// Clean deletes the dataset instead of importing it.
	Clean bool

	// LogQueries makes GORM print every SQL statement.
	LogQueries bool

	// ShowProgress shows a progress bar over the timeseries of a dataset.
	ShowProgress bool
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "viltkamera",
			SSLMode:  "disable",
		},
		Source: SourceConfig{
			PathTemplate: "export/TABLE/*.parquet",
			MemoryLimit:  "500MB",
		},
		API: APIConfig{
			URL:          "http://localhost:8000/api",
			User:         "import",
			Password:     "import",
			Timeout:      30 * time.Second,
			MaxRetryTime: 5 * time.Minute,
		},
		Storage: StorageConfig{
			Endpoint:  "localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Bucket:    "viltkamera",
			Prefix:    "media/",
		},
		Blur: BlurConfig{
			Radius:      50,
			JPEGQuality: 90,
		},
		Metrics: MetricsConfig{
			Job: AppName,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		Import: ImportConfig{
			ShowProgress: true,
		},
	}

	return res
}

// TablePath returns the Parquet glob of the given export table.
func (c *Config) TablePath(table string) string {
	return strings.ReplaceAll(c.Source.PathTemplate, "TABLE", table)
}
