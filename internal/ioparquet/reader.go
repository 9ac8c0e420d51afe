// Package ioparquet reads the camera-trap export with an embedded
// DuckDB engine. Parquet files are queried in place, nothing is loaded
// into DuckDB tables.
package ioparquet

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	duckdb "github.com/duckdb/duckdb-go/v2"
	"github.com/viltkamera/wcimport/pkg/config"
	"github.com/viltkamera/wcimport/pkg/wcimport"
)

type reader struct {
	db         *sql.DB
	projects   string
	timeseries string
	images     string
	logQueries bool
}

// New starts an in-memory DuckDB engine configured for the export
// described by cfg.Source. Globs starting with s3:// are read with the
// httpfs extension and credentials of cfg.Storage.
func New(ctx context.Context, cfg *config.Config) (wcimport.SourceReader, error) {
	connector, err := duckdb.NewConnector("", nil)
	if err != nil {
		return nil, OpenError("connector", err)
	}

	res := &reader{
		db:         sql.OpenDB(connector),
		projects:   cfg.TablePath(config.TableProjects),
		timeseries: cfg.TablePath(config.TableTimeseries),
		images:     cfg.TablePath(config.TableImages),
		logQueries: cfg.Import.LogQueries,
	}
	// a single connection keeps session settings for every query
	res.db.SetMaxOpenConns(1)

	setup := []string{
		"SET memory_limit = " + quote(cfg.Source.MemoryLimit),
	}
	if strings.HasPrefix(cfg.Source.PathTemplate, "s3://") {
		setup = append(setup, "INSTALL httpfs", "LOAD httpfs", s3Secret(cfg.Storage))
	}
	for _, v := range setup {
		if _, err = res.db.ExecContext(ctx, v); err != nil {
			res.db.Close()
			return nil, OpenError(strings.Fields(v)[0], err)
		}
	}

	slog.Info("DuckDB engine started",
		"projects", res.projects,
		"memory_limit", cfg.Source.MemoryLimit,
	)
	return res, nil
}

// Close implements wcimport.SourceReader.
func (r *reader) Close() error {
	return r.db.Close()
}

func (r *reader) query(
	ctx context.Context,
	table, q string,
	args ...any,
) (*sql.Rows, error) {
	if r.logQueries {
		slog.Debug("DuckDB query", "table", table, "sql", q, "args", args)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, QueryError(table, err)
	}
	return rows, nil
}

// quote renders s as a SQL string literal. Table function paths and
// SET values cannot be passed as parameters.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func s3Secret(cfg config.StorageConfig) string {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}
	return fmt.Sprintf(`CREATE OR REPLACE SECRET export_s3 (
	TYPE S3,
	KEY_ID %s,
	SECRET %s,
	ENDPOINT %s,
	URL_STYLE 'path',
	USE_SSL %t
)`, quote(cfg.AccessKey), quote(cfg.SecretKey), quote(endpoint), useSSL)
}
