package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/viltkamera/wcimport/pkg/config"
	"gorm.io/gorm"
)

// Operator defines the interface for basic database management operations.
// It provides connection lifecycle management and exposes the pgxpool.Pool
// together with a GORM session built on top of it. The importer works
// through GORM, so transactions and lookups share one pool.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool.
	Pool() *pgxpool.Pool

	// GORM returns a GORM session bound to the pool. With logQueries
	// every SQL statement is logged.
	GORM(logQueries bool) (*gorm.DB, error)

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables in the public schema.
	HasTables(ctx context.Context) (bool, error)

	// Analyze updates query planner statistics of the given tables.
	Analyze(ctx context.Context, tables []string) error
}
