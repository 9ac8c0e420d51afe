package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viltkamera/wcimport/pkg/schema"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, schema.Migrate(db))
	return db
}

func TestTableNames(t *testing.T) {
	db := setupDB(t)

	tables := []string{
		"wild_cameras_annotationlabel",
		"wild_cameras_location",
		"wild_cameras_dataset",
		"wild_cameras_timeseries",
		"wild_cameras_image",
		"wild_cameras_bboxannotation",
		"wild_cameras_validationrevision",
	}
	for _, v := range tables {
		assert.True(t, db.Migrator().HasTable(v), v)
	}
	assert.Len(t, schema.AllModels(), len(tables))
	assert.Equal(t, tables, schema.TableNames())
}

func TestLabelTextColumn(t *testing.T) {
	db := setupDB(t)
	assert.True(t, db.Migrator().HasColumn(&schema.AnnotationLabel{}, "text_"))
}

func TestTimeseriesExtraRoundTrip(t *testing.T) {
	db := setupDB(t)

	dist := 4.5
	num := int64(2)
	inactive := false
	ts := schema.Timeseries{
		ExtID: 10,
		Extra: datatypes.NewJSONType(schema.TimeseriesExtra{
			Distance:       &dist,
			NumAnimals:     &num,
			CameraInactive: &inactive,
		}),
	}
	require.NoError(t, db.Create(&ts).Error)

	var got schema.Timeseries
	require.NoError(t, db.First(&got, ts.ID).Error)
	extra := got.Extra.Data()
	require.NotNil(t, extra.Distance)
	assert.InDelta(t, 4.5, *extra.Distance, 0.0001)
	assert.Equal(t, int64(2), *extra.NumAnimals)
	assert.False(t, *extra.CameraInactive)
	assert.Nil(t, extra.TakenOffset)
	assert.Nil(t, got.SelectedImageID)
}

func TestLocationKeepsExternalID(t *testing.T) {
	db := setupDB(t)

	loc := schema.Location{ID: 9042}
	require.NoError(t, db.Create(&loc).Error)

	var got schema.Location
	require.NoError(t, db.First(&got, 9042).Error)
	assert.Equal(t, int64(9042), got.ID)
}
