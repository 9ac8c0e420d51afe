package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Import).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	str := func(s string, fn func(string) Option) {
		if s != "" {
			res = append(res, fn(s))
		}
	}
	dur := func(d time.Duration, fn func(time.Duration) Option) {
		if d > 0 {
			res = append(res, fn(d))
		}
	}

	str(c.Database.Host, OptDatabaseHost)
	if c.Database.Port > 0 {
		res = append(res, OptDatabasePort(c.Database.Port))
	}
	str(c.Database.User, OptDatabaseUser)
	str(c.Database.Password, OptDatabasePassword)
	str(c.Database.Database, OptDatabaseDatabase)
	str(c.Database.SSLMode, OptDatabaseSSLMode)

	str(c.Source.PathTemplate, OptSourcePathTemplate)
	str(c.Source.MemoryLimit, OptSourceMemoryLimit)

	str(c.API.URL, OptAPIURL)
	str(c.API.User, OptAPIUser)
	str(c.API.Password, OptAPIPassword)
	dur(c.API.Timeout, OptAPITimeout)
	dur(c.API.MaxRetryTime, OptAPIMaxRetryTime)
	if c.API.RequestsPerSecond > 0 {
		res = append(res, OptAPIRequestsPerSecond(c.API.RequestsPerSecond))
	}

	str(c.Storage.Endpoint, OptStorageEndpoint)
	str(c.Storage.AccessKey, OptStorageAccessKey)
	str(c.Storage.SecretKey, OptStorageSecretKey)
	str(c.Storage.Bucket, OptStorageBucket)
	str(c.Storage.Prefix, OptStoragePrefix)
	if c.Storage.UseSSL {
		res = append(res, OptStorageUseSSL(true))
	}

	if c.Blur.Radius > 0 {
		res = append(res, OptBlurRadius(c.Blur.Radius))
	}
	if c.Blur.JPEGQuality > 0 {
		res = append(res, OptBlurJPEGQuality(c.Blur.JPEGQuality))
	}

	str(c.Metrics.PushgatewayURL, OptMetricsPushgatewayURL)
	str(c.Metrics.Job, OptMetricsJob)

	str(c.Log.Format, OptLogFormat)
	str(c.Log.Level, OptLogLevel)
	str(c.Log.Destination, OptLogDestination)
	return res
}

// Redacted returns a copy of the Config with passwords and secret keys
// replaced, suitable for printing.
func (c *Config) Redacted() Config {
	res := *c
	mask := func(s string) string {
		if s == "" {
			return s
		}
		return "*****"
	}
	res.Database.Password = mask(res.Database.Password)
	res.API.Password = mask(res.API.Password)
	res.Storage.SecretKey = mask(res.Storage.SecretKey)
	return res
}

func warnf(msg string, vars ...any) {
	gn.Warn(msg, vars...)
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		warnf("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		warnf("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidDuration(name string, d time.Duration) bool {
	res := d > 0
	if !res {
		warnf("<em>%s</em> has to be positive duration, ignoring %s", name, d)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	warnf(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
