package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/viltkamera/wcimport/pkg/errcode"
)

// ConnectionError is returned when database connection fails.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL database

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>
  2. Verify database <em>%s</em> exists for user <em>%s</em>
  3. Check your configuration file:
     <em>~/.config/wcimport/config.yaml</em>`

	vars := []any{host, port, database, user}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// NotConnectedError is returned when an operation runs before Connect.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database operation attempted without connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableCheckError is returned when checking for tables fails.
func TableCheckError(err error) error {
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  "Could not verify database state",
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}

// TableExistsCheckError is returned when a single table check fails.
func TableExistsCheckError(table string, err error) error {
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  "Could not check if table <em>%s</em> exists",
		Vars: []any{table},
		Err:  fmt.Errorf("failed to check table %s: %w", table, err),
	}
}

// EmptyDatabaseError is returned when the database has no
// wild_cameras tables.
func EmptyDatabaseError(host, database string) error {
	msg := `Database <em>%s</em> at <em>%s</em> has no tables

Run <em>wcimport migrate</em> to create them, or point the
configuration to the database of the web application.`

	return &gn.Error{
		Code: errcode.DBEmptyDatabaseError,
		Msg:  msg,
		Vars: []any{database, host},
		Err:  fmt.Errorf("database %s has no tables", database),
	}
}

// GORMConnectionError is returned when GORM cannot wrap the pool.
func GORMConnectionError(err error) error {
	return &gn.Error{
		Code: errcode.DBGORMConnectionError,
		Msg:  "Cannot open GORM session",
		Err:  fmt.Errorf("failed to open GORM session: %w", err),
	}
}

// AnalyzeError is returned when ANALYZE of a table fails.
func AnalyzeError(table string, err error) error {
	return &gn.Error{
		Code: errcode.DBAnalyzeError,
		Msg:  "Cannot update statistics of <em>%s</em>",
		Vars: []any{table},
		Err:  fmt.Errorf("failed to analyze %s: %w", table, err),
	}
}
