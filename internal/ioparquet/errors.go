package ioparquet

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/viltkamera/wcimport/pkg/errcode"
)

// OpenError is returned when the DuckDB engine cannot be started or
// configured.
func OpenError(step string, err error) error {
	msg := `Cannot start DuckDB engine at step <em>%s</em>

Check source.memory_limit and source.path_template settings.`

	return &gn.Error{
		Code: errcode.SourceOpenError,
		Msg:  msg,
		Vars: []any{step},
		Err:  fmt.Errorf("duckdb %s: %w", step, err),
	}
}

// QueryError is returned when a query over the export fails.
func QueryError(table string, err error) error {
	msg := `Cannot query Parquet table <em>%s</em>

Make sure files exist under source.path_template.`

	return &gn.Error{
		Code: errcode.SourceQueryError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("query %s: %w", table, err),
	}
}

// DecodeError is returned when a value of a row cannot be converted.
func DecodeError(table, id string, err error) error {
	return &gn.Error{
		Code: errcode.SourceDecodeError,
		Msg:  "Cannot decode row <em>%s</em> of <em>%s</em>",
		Vars: []any{id, table},
		Err:  fmt.Errorf("decode %s %s: %w", table, id, err),
	}
}
