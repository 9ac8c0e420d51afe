package iorepo

import (
	"context"
	"log/slog"

	"github.com/viltkamera/wcimport/pkg/schema"
	"github.com/viltkamera/wcimport/pkg/wcimport"
	"gorm.io/gorm"
)

type cleaner struct {
	db *gorm.DB
}

// NewCleaner returns a wcimport.Cleaner that deletes datasets from db.
func NewCleaner(db *gorm.DB) wcimport.Cleaner {
	return &cleaner{db: db}
}

// Clean implements wcimport.Cleaner.
func (c *cleaner) Clean(
	ctx context.Context,
	datasetID int64,
) (wcimport.CleanStats, error) {
	var res wcimport.CleanStats
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = DeleteDataset(ctx, tx, datasetID)
		return err
	})
	if err != nil {
		return wcimport.CleanStats{}, err
	}
	slog.Info("Dataset cleaned",
		"dataset_id", datasetID,
		"annotations", res.Annotations,
		"images", res.Images,
		"revisions", res.Revisions,
		"timeseries", res.Timeseries,
	)
	return res, nil
}

// DeleteDataset removes a dataset and every row it owns, children
// first. An unknown dataset id deletes nothing.
func DeleteDataset(
	ctx context.Context,
	tx *gorm.DB,
	datasetID int64,
) (wcimport.CleanStats, error) {
	var res wcimport.CleanStats
	tx = tx.WithContext(ctx)

	datasets := tx.Model(&schema.Dataset{}).
		Select("id").
		Where("ext_id = ?", datasetID)
	images := tx.Model(&schema.Image{}).
		Select("id").
		Where("dataset_id IN (?)", datasets)
	timeseries := tx.Model(&schema.Timeseries{}).
		Select("id").
		Where("dataset_id IN (?)", datasets)

	steps := []struct {
		table string
		model any
		where string
		arg   *gorm.DB
		count *int64
	}{
		{"annotations", &schema.BBoxAnnotation{}, "image_id IN (?)", images, &res.Annotations},
		{"images", &schema.Image{}, "dataset_id IN (?)", datasets, &res.Images},
		{"revisions", &schema.ValidationRevision{}, "timeseries_id IN (?)", timeseries, &res.Revisions},
		{"timeseries", &schema.Timeseries{}, "dataset_id IN (?)", datasets, &res.Timeseries},
		{"datasets", &schema.Dataset{}, "ext_id = ?", nil, &res.Datasets},
	}

	for _, v := range steps {
		var arg any = v.arg
		if v.arg == nil {
			arg = datasetID
		}
		q := tx.Where(v.where, arg).Delete(v.model)
		if q.Error != nil {
			return wcimport.CleanStats{}, DeleteError(datasetID, v.table, q.Error)
		}
		*v.count = q.RowsAffected
	}
	return res, nil
}
