package iorepo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viltkamera/wcimport/internal/iorepo"
	"github.com/viltkamera/wcimport/internal/iotesting"
	"github.com/viltkamera/wcimport/pkg/labels"
	"github.com/viltkamera/wcimport/pkg/schema"
	"github.com/viltkamera/wcimport/pkg/source"
	"github.com/viltkamera/wcimport/pkg/wcimport"
	"gorm.io/gorm"
)

// seedDataset creates a dataset with two timeseries of two images,
// each image with one box. The first timeseries is verified.
func seedDataset(t *testing.T, db *gorm.DB, cat *labels.Catalog, extID int64) {
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		_, _, err := iorepo.UpsertLocation(ctx, tx, 77, t0)
		require.NoError(t, err)
		ds, _, err := iorepo.UpsertDataset(ctx, tx,
			source.Dataset{ID: extID, CameraID: 77}, 77)
		require.NoError(t, err)

		for i := range 2 {
			src := source.Timeseries{
				ID:               extID*10 + int64(i),
				PredictedLabel:   "roe_deer",
				GroundTruthLabel: "roe_deer",
			}
			if i == 0 {
				src.Status = source.StatusVerified
			}
			ts, _, err := iorepo.UpsertTimeseries(ctx, tx, src, ds.ID, cat)
			require.NoError(t, err)
			if src.Verified() {
				_, err = iorepo.AddRevision(ctx, tx, ts, src, cat)
				require.NoError(t, err)
			}
			for j := range 2 {
				imgSrc := source.Image{
					ID:    fmt.Sprintf("%d-%d-%d", extID, i, j),
					Index: j,
				}
				img, _, err := iorepo.UpsertImage(ctx, tx, imgSrc, ts, t0)
				require.NoError(t, err)
				_, err = iorepo.AddAnnotation(ctx, tx, img,
					source.PredictedBox{Label: "roe_deer", Score: 0.5}, cat)
				require.NoError(t, err)
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func counts(t *testing.T, db *gorm.DB) map[string]int64 {
	res := make(map[string]int64)
	for k, m := range map[string]any{
		"datasets":    &schema.Dataset{},
		"timeseries":  &schema.Timeseries{},
		"images":      &schema.Image{},
		"annotations": &schema.BBoxAnnotation{},
		"revisions":   &schema.ValidationRevision{},
		"locations":   &schema.Location{},
	} {
		var c int64
		require.NoError(t, db.Model(m).Count(&c).Error)
		res[k] = c
	}
	return res
}

func TestDeleteDataset(t *testing.T) {
	ctx := context.Background()
	db := iotesting.NewSQLiteDB(t)
	cat := catalog(t, db)

	seedDataset(t, db, cat, 1)
	seedDataset(t, db, cat, 2)
	before := counts(t, db)
	assert.Equal(t, int64(8), before["images"])

	c := iorepo.NewCleaner(db)
	stats, err := c.Clean(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, wcimport.CleanStats{
		Annotations: 4,
		Images:      4,
		Revisions:   1,
		Timeseries:  2,
		Datasets:    1,
	}, stats)
	assert.Equal(t, int64(12), stats.Total())

	after := counts(t, db)
	assert.Equal(t, map[string]int64{
		"datasets":    1,
		"timeseries":  2,
		"images":      4,
		"annotations": 4,
		"revisions":   1,
		"locations":   1,
	}, after, "other dataset and locations stay")
}

func TestDeleteDatasetAbsent(t *testing.T) {
	ctx := context.Background()
	db := iotesting.NewSQLiteDB(t)
	cat := catalog(t, db)
	seedDataset(t, db, cat, 1)
	before := counts(t, db)

	stats, err := iorepo.NewCleaner(db).Clean(ctx, 999)
	require.NoError(t, err)
	assert.Zero(t, stats.Total())
	assert.Equal(t, before, counts(t, db))
}

func TestDeleteDatasetCancelled(t *testing.T) {
	db := iotesting.NewSQLiteDB(t)
	cat := catalog(t, db)
	seedDataset(t, db, cat, 1)
	before := counts(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := iorepo.NewCleaner(db).Clean(ctx, 1)
	assert.Error(t, err)
	assert.Equal(t, before, counts(t, db))
}
