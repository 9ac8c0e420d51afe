package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "wcimport"

	// ImagePathPrefix is the object key prefix of imported images,
	// relative to Storage.Prefix. The same value is stored in Image.File.
	ImagePathPrefix = "processed/tsimages/imported/"
)

// Names of the exported Parquet tables.
const (
	TableProjects   = "projects"
	TableTimeseries = "timeseries"
	TableImages     = "images_metadata"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/wcimport by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/wcimport/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/wcimport/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}
