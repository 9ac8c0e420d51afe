package iofs

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/viltkamera/wcimport/pkg/errcode"
)

// CreateDirError is returned when a config or log directory cannot be
// created under the home directory.
func CreateDirError(dir string, err error) error {
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  "Cannot create <em>%s</em>",
		Vars: []any{dir},
		Err:  fmt.Errorf("create directory %s: %w", dir, err),
	}
}

// CopyFileError is returned when the default config.yaml cannot be
// written.
func CopyFileError(file string, err error) error {
	msg := `Cannot write default config to <em>%s</em>

Check that the config directory is writable.`
	return &gn.Error{
		Code: errcode.CopyFileError,
		Msg:  msg,
		Vars: []any{file},
		Err:  fmt.Errorf("write default config %s: %w", file, err),
	}
}

// ReadFileError is returned when config.yaml cannot be read or
// decoded.
func ReadFileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  "Cannot read <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("read %s: %w", path, err),
	}
}
