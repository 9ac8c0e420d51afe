// Package ioschema creates and checks the wild_cameras tables. This is
// an impure I/O package that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"

	"github.com/viltkamera/wcimport/pkg/schema"
	"gorm.io/gorm"
)

// Manager keeps the database schema in line with pkg/schema models.
type Manager interface {
	// Migrate creates missing tables, columns and indices.
	Migrate(ctx context.Context) error

	// MissingTables returns names of model tables absent from the
	// database.
	MissingTables(ctx context.Context) ([]string, error)
}

type manager struct {
	db *gorm.DB
}

// NewManager creates a new schema Manager on top of a GORM session.
func NewManager(db *gorm.DB) Manager {
	return &manager{db: db}
}

// Migrate updates the database schema to the latest version
// using GORM AutoMigrate.
func (m *manager) Migrate(ctx context.Context) error {
	if err := schema.Migrate(m.db.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}
	return nil
}

func (m *manager) MissingTables(ctx context.Context) ([]string, error) {
	mg := m.db.WithContext(ctx).Migrator()

	var res []string
	for _, v := range schema.TableNames() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !mg.HasTable(v) {
			res = append(res, v)
		}
	}
	return res, nil
}
