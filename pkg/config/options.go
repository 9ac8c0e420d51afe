package config

import (
	"strings"
	"time"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptSourcePathTemplate sets the Parquet glob template. The template
// must contain the word TABLE.
func OptSourcePathTemplate(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if !isValidString("Source Path Template", s) {
			return
		}
		if !strings.Contains(s, "TABLE") {
			warnf("<em>Source Path Template</em> must contain TABLE, ignoring '%s'", s)
			return
		}
		c.Source.PathTemplate = s
	}
}

// OptSourceMemoryLimit sets DuckDB memory_limit, for example "500MB".
func OptSourceMemoryLimit(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Source Memory Limit", s) {
			c.Source.MemoryLimit = s
		}
	}
}

// OptAPIURL sets the base URL of the image service.
// Trailing slashes are removed.
func OptAPIURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidString("API URL", s) {
			c.API.URL = s
		}
	}
}

// OptAPIUser sets the login name for the image service.
func OptAPIUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("API User", s) {
			c.API.User = s
		}
	}
}

// OptAPIPassword sets the password for the image service.
func OptAPIPassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("API Password", s) {
			c.API.Password = s
		}
	}
}

// OptAPITimeout sets the timeout of a single HTTP request.
func OptAPITimeout(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("API Timeout", d) {
			c.API.Timeout = d
		}
	}
}

// OptAPIMaxRetryTime sets the total retry budget of one HTTP request.
func OptAPIMaxRetryTime(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("API Max Retry Time", d) {
			c.API.MaxRetryTime = d
		}
	}
}

// OptAPIRequestsPerSecond throttles image downloads.
// Zero removes the limit.
func OptAPIRequestsPerSecond(f float64) Option {
	return func(c *Config) {
		if f < 0 {
			warnf("<em>API Requests Per Second</em> cannot be negative, ignoring %v", f)
			return
		}
		c.API.RequestsPerSecond = f
	}
}

// OptStorageEndpoint sets the object store endpoint.
func OptStorageEndpoint(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Storage Endpoint", s) {
			c.Storage.Endpoint = s
		}
	}
}

// OptStorageAccessKey sets the object store access key.
func OptStorageAccessKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Storage Access Key", s) {
			c.Storage.AccessKey = s
		}
	}
}

// OptStorageSecretKey sets the object store secret key.
func OptStorageSecretKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Storage Secret Key", s) {
			c.Storage.SecretKey = s
		}
	}
}

// OptStorageBucket sets the target bucket.
func OptStorageBucket(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Storage Bucket", s) {
			c.Storage.Bucket = s
		}
	}
}

// OptStoragePrefix sets the key prefix inside the bucket.
// An empty prefix is allowed; a non-empty one always ends with "/".
func OptStoragePrefix(s string) Option {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s != "" {
		s += "/"
	}
	return func(c *Config) {
		c.Storage.Prefix = s
	}
}

// OptStorageUseSSL toggles TLS for endpoints given without scheme.
func OptStorageUseSSL(b bool) Option {
	return func(c *Config) {
		c.Storage.UseSSL = b
	}
}

// OptBlurRadius sets the Gaussian blur radius in source pixels.
func OptBlurRadius(f float64) Option {
	return func(c *Config) {
		if f <= 0 {
			warnf("<em>Blur Radius</em> has to be positive number, ignoring %v", f)
			return
		}
		c.Blur.Radius = f
	}
}

// OptBlurJPEGQuality sets quality (1-100) of re-encoded JPEG images.
func OptBlurJPEGQuality(i int) Option {
	return func(c *Config) {
		if i < 1 || i > 100 {
			warnf("<em>Blur JPEG Quality</em> must be within 1-100, ignoring %d", i)
			return
		}
		c.Blur.JPEGQuality = i
	}
}

// OptMetricsPushgatewayURL sets the Pushgateway URL. Empty disables
// pushing.
func OptMetricsPushgatewayURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		c.Metrics.PushgatewayURL = s
	}
}

// OptMetricsJob sets the Pushgateway job name.
func OptMetricsJob(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Metrics Job", s) {
			c.Metrics.Job = s
		}
	}
}

// OptImportSingle makes import stop after the first new timeseries.
// Runtime-only field - not in ToOptions().
func OptImportSingle(b bool) Option {
	return func(c *Config) {
		c.Import.Single = b
	}
}

// OptImportClean makes import delete the dataset instead.
// Runtime-only field - not in ToOptions().
func OptImportClean(b bool) Option {
	return func(c *Config) {
		c.Import.Clean = b
	}
}

// OptImportLogQueries enables SQL statement logging.
// Runtime-only field - not in ToOptions().
func OptImportLogQueries(b bool) Option {
	return func(c *Config) {
		c.Import.LogQueries = b
	}
}

// OptImportShowProgress toggles the progress bar.
// Runtime-only field - not in ToOptions().
func OptImportShowProgress(b bool) Option {
	return func(c *Config) {
		c.Import.ShowProgress = b
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptHomeDir sets the home directory for config and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
