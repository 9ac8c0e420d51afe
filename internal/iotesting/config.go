// Package iotesting provides shared test utilities.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/viltkamera/wcimport/pkg/config"
	"github.com/viltkamera/wcimport/pkg/schema"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "wcimport_test"
)

// GetTestConfig returns a configuration suitable for tests.
// It starts from defaults, applies WCIMPORT_DATABASE_* environment
// variables and overrides the database name to TestDatabaseName.
// Progress bars are switched off.
func GetTestConfig() *config.Config {
	cfg := config.New()

	var opts []config.Option
	if s := os.Getenv("WCIMPORT_DATABASE_HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("WCIMPORT_DATABASE_PORT"); s != "" {
		if i, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(i))
		}
	}
	if s := os.Getenv("WCIMPORT_DATABASE_USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("WCIMPORT_DATABASE_PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	opts = append(opts,
		config.OptDatabaseDatabase(TestDatabaseName),
		config.OptImportShowProgress(false),
	)
	cfg.Update(opts)
	return cfg
}

// RequirePostgres returns the test configuration, or skips the test in
// short mode or when PostgreSQL is not reachable.
func RequirePostgres(t *testing.T) *config.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := GetTestConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	dsn := "postgres://" + cfg.Database.User + ":" + cfg.Database.Password +
		"@" + cfg.Database.Host + ":" + strconv.Itoa(cfg.Database.Port) +
		"/" + cfg.Database.Database + "?sslmode=" + cfg.Database.SSLMode
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	_ = conn.Close(ctx)
	return cfg
}

// NewSQLiteDB returns a GORM session on a fresh SQLite file with all
// wild_cameras tables created. The file is removed after the test.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "wcimport.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open SQLite database: %v", err)
	}
	if err = schema.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate SQLite database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SeedLabels inserts annotation labels and returns them.
// Labels named "human" and "vehicle" are blur-flagged.
func SeedLabels(t *testing.T, db *gorm.DB, texts ...string) []schema.AnnotationLabel {
	t.Helper()

	res := make([]schema.AnnotationLabel, 0, len(texts))
	for i, v := range texts {
		l := schema.AnnotationLabel{
			ID:   i + 1,
			Text: v,
			Blur: v == "human" || v == "vehicle",
		}
		if err := db.Create(&l).Error; err != nil {
			t.Fatalf("Failed to seed label %s: %v", v, err)
		}
		res = append(res, l)
	}
	return res
}
