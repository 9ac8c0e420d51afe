package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&AnnotationLabel{},
		&Location{},
		&Dataset{},
		&Timeseries{},
		&Image{},
		&BBoxAnnotation{},
		&ValidationRevision{},
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// Tabler is implemented by every model of AllModels.
type Tabler interface {
	TableName() string
}

// TableNames returns table names of AllModels in the same order.
func TableNames() []string {
	models := AllModels()
	res := make([]string, 0, len(models))
	for _, v := range models {
		res = append(res, v.(Tabler).TableName())
	}
	return res
}
