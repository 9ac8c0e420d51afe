package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viltkamera/wcimport/pkg/config"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "wcimport"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "wcimport", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "wcimport", "config.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "disable", cfg.Database.SSLMode)

		assert.Equal(t, "500MB", cfg.Source.MemoryLimit)
		assert.Contains(t, cfg.Source.PathTemplate, "TABLE")

		assert.Equal(t, 5*time.Minute, cfg.API.MaxRetryTime)
		assert.Zero(t, cfg.API.RequestsPerSecond)

		assert.Equal(t, "media/", cfg.Storage.Prefix)
		assert.InDelta(t, 50.0, cfg.Blur.Radius, 0.0001)
		assert.Equal(t, 90, cfg.Blur.JPEGQuality)

		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)

		assert.False(t, cfg.Import.Single)
		assert.False(t, cfg.Import.Clean)
		assert.True(t, cfg.Import.ShowProgress)
	})
}

func TestTablePath(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptSourcePathTemplate("/data/export/TABLE/*.parquet"),
	})

	assert.Equal(t, "/data/export/projects/*.parquet",
		cfg.TablePath(config.TableProjects))
	assert.Equal(t, "/data/export/images_metadata/*.parquet",
		cfg.TablePath(config.TableImages))
}

func TestOptionSourcePathTemplate(t *testing.T) {
	def := config.New().Source.PathTemplate
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid template",
			input:    "s3://bucket/TABLE/*.parquet",
			expected: "s3://bucket/TABLE/*.parquet",
		},
		{
			name:     "ignores template without TABLE",
			input:    "/data/projects/*.parquet",
			expected: def,
		},
		{
			name:     "ignores empty string",
			input:    "  ",
			expected: def,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptSourcePathTemplate(tt.input)})
			assert.Equal(t, tt.expected, cfg.Source.PathTemplate)
		})
	}
}

func TestOptionDatabasePort(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid port",
			input:    6432,
			expected: 6432,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: 5432, // Should keep default
		},
		{
			name:     "ignores negative",
			input:    -100,
			expected: 5432, // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabasePort(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.Port)
		})
	}
}

func TestOptionAPIURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets url",
			input:    "https://example.org/api",
			expected: "https://example.org/api",
		},
		{
			name:     "strips trailing slash",
			input:    " https://example.org/api/ ",
			expected: "https://example.org/api",
		},
		{
			name:     "ignores empty",
			input:    "",
			expected: "http://localhost:8000/api",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptAPIURL(tt.input)})
			assert.Equal(t, tt.expected, cfg.API.URL)
		})
	}
}

func TestOptionStoragePrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"adds slash", "media", "media/"},
		{"normalizes slashes", "/media/", "media/"},
		{"nested", "a/b/", "a/b/"},
		{"empty allowed", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptStoragePrefix(tt.input)})
			assert.Equal(t, tt.expected, cfg.Storage.Prefix)
		})
	}
}

func TestOptionBlur(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptBlurRadius(-1),
		config.OptBlurJPEGQuality(101),
	})
	assert.InDelta(t, 50.0, cfg.Blur.Radius, 0.0001)
	assert.Equal(t, 90, cfg.Blur.JPEGQuality)

	cfg.Update([]config.Option{
		config.OptBlurRadius(12.5),
		config.OptBlurJPEGQuality(75),
	})
	assert.InDelta(t, 12.5, cfg.Blur.Radius, 0.0001)
	assert.Equal(t, 75, cfg.Blur.JPEGQuality)
}

func TestOptionAPIDurations(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptAPITimeout(0),
		config.OptAPIMaxRetryTime(-time.Second),
		config.OptAPIRequestsPerSecond(-2),
	})
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.API.MaxRetryTime)
	assert.Zero(t, cfg.API.RequestsPerSecond)

	cfg.Update([]config.Option{
		config.OptAPITimeout(time.Second),
		config.OptAPIMaxRetryTime(time.Minute),
		config.OptAPIRequestsPerSecond(4),
	})
	assert.Equal(t, time.Second, cfg.API.Timeout)
	assert.Equal(t, time.Minute, cfg.API.MaxRetryTime)
	assert.InDelta(t, 4.0, cfg.API.RequestsPerSecond, 0.0001)
}

func TestOptionLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets debug", "debug", "debug"},
		{"sets error", "error", "error"},
		{"normalizes to lowercase", "WARN", "warn"},
		{"ignores invalid value", "verbose", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptLogLevel(tt.input)})
			assert.Equal(t, tt.expected, cfg.Log.Level)
		})
	}
}

func TestOptionLogDestination(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptLogDestination("stderr")})
	assert.Equal(t, "stderr", cfg.Log.Destination)

	cfg.Update([]config.Option{config.OptLogDestination("syslog")})
	assert.Equal(t, "stderr", cfg.Log.Destination)
}

func TestImportOptions(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptImportSingle(true),
		config.OptImportClean(true),
		config.OptImportLogQueries(true),
		config.OptImportShowProgress(false),
	})
	assert.True(t, cfg.Import.Single)
	assert.True(t, cfg.Import.Clean)
	assert.True(t, cfg.Import.LogQueries)
	assert.False(t, cfg.Import.ShowProgress)
}

func TestToOptions(t *testing.T) {
	src := config.New()
	src.Update([]config.Option{
		config.OptDatabaseHost("db.internal"),
		config.OptDatabasePassword("secret"),
		config.OptSourcePathTemplate("/exports/TABLE/*.parquet"),
		config.OptAPIURL("https://api.example.org"),
		config.OptAPIRequestsPerSecond(2),
		config.OptStorageBucket("images"),
		config.OptStorageUseSSL(true),
		config.OptBlurRadius(20),
		config.OptMetricsPushgatewayURL("http://push:9091"),
		config.OptLogLevel("debug"),
		config.OptImportSingle(true),
		config.OptHomeDir("/home/test"),
	})

	dst := config.New()
	dst.Update(src.ToOptions())

	assert.Equal(t, "db.internal", dst.Database.Host)
	assert.Equal(t, "secret", dst.Database.Password)
	assert.Equal(t, "/exports/TABLE/*.parquet", dst.Source.PathTemplate)
	assert.Equal(t, "https://api.example.org", dst.API.URL)
	assert.InDelta(t, 2.0, dst.API.RequestsPerSecond, 0.0001)
	assert.Equal(t, "images", dst.Storage.Bucket)
	assert.True(t, dst.Storage.UseSSL)
	assert.InDelta(t, 20.0, dst.Blur.Radius, 0.0001)
	assert.Equal(t, "http://push:9091", dst.Metrics.PushgatewayURL)
	assert.Equal(t, "debug", dst.Log.Level)

	// runtime-only fields are not carried over
	assert.False(t, dst.Import.Single)
	assert.Empty(t, dst.HomeDir)
}

func TestRedacted(t *testing.T) {
	cfg := config.New()
	red := cfg.Redacted()

	assert.Equal(t, "*****", red.Database.Password)
	assert.Equal(t, "*****", red.API.Password)
	assert.Equal(t, "*****", red.Storage.SecretKey)
	assert.Equal(t, "postgres", cfg.Database.Password, "original untouched")
}
