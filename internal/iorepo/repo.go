// Package iorepo implements idempotent writes and cascading deletes of
// wild_cameras rows with GORM. Functions never commit: they run inside
// the transaction passed by the caller.
package iorepo

import (
	"context"
	"fmt"

	"github.com/viltkamera/wcimport/pkg/labels"
	"github.com/viltkamera/wcimport/pkg/schema"
	"gorm.io/gorm"
)

// Key maps column names to values. All pairs must match.
type Key map[string]any

// FindOrCreate returns the row matching key, or inserts the row built
// by defaults when there is none. The boolean reports if a row was
// created. More than one matching row is an error.
func FindOrCreate[T any](
	ctx context.Context,
	tx *gorm.DB,
	key Key,
	defaults func() *T,
) (*T, bool, error) {
	model := modelName[T]()

	var rows []T
	err := tx.WithContext(ctx).
		Where(map[string]any(key)).
		Limit(2).
		Find(&rows).Error
	if err != nil {
		return nil, false, QueryError(model, err)
	}

	switch len(rows) {
	case 0:
		obj := defaults()
		if err = tx.WithContext(ctx).Create(obj).Error; err != nil {
			return nil, false, InsertError(model, err)
		}
		return obj, true, nil
	case 1:
		return &rows[0], false, nil
	default:
		return nil, false, MultipleMatchesError(model, key)
	}
}

// Insert stages a row that has no external id of its own.
func Insert[T any](ctx context.Context, tx *gorm.DB, obj *T) error {
	if err := tx.WithContext(ctx).Create(obj).Error; err != nil {
		return InsertError(modelName[T](), err)
	}
	return nil
}

// ImportedTimeseriesIDs returns external ids of timeseries already
// stored for a dataset, ascending.
func ImportedTimeseriesIDs(
	ctx context.Context,
	tx *gorm.DB,
	datasetID uint,
) ([]int64, error) {
	var res []int64
	err := tx.WithContext(ctx).
		Model(&schema.Timeseries{}).
		Where("dataset_id = ?", datasetID).
		Order("ext_id").
		Pluck("ext_id", &res).Error
	if err != nil {
		return nil, QueryError("Timeseries", err)
	}
	return res, nil
}

// SetSelectedImage points the timeseries to its representative image.
// The image has to belong to the timeseries.
func SetSelectedImage(
	ctx context.Context,
	tx *gorm.DB,
	ts *schema.Timeseries,
	img *schema.Image,
) error {
	if img.TimeseriesID != ts.ID {
		return InsertError("Timeseries.SelectedImage",
			fmt.Errorf("image %s belongs to timeseries %d, not %d",
				img.ExtID, img.TimeseriesID, ts.ID))
	}
	err := tx.WithContext(ctx).
		Model(ts).
		Update("selected_image_id", img.ID).Error
	if err != nil {
		return InsertError("Timeseries.SelectedImage", err)
	}
	ts.SelectedImageID = &img.ID
	return nil
}

// LoadLabels builds the label catalog from wild_cameras_annotationlabel.
func LoadLabels(ctx context.Context, db *gorm.DB) (*labels.Catalog, error) {
	var rows []schema.AnnotationLabel
	err := db.WithContext(ctx).Order("id").Find(&rows).Error
	if err != nil {
		return nil, LabelsError(err)
	}
	return labels.New(rows), nil
}

func modelName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
