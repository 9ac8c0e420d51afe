package iorepo

import (
	"context"
	"time"

	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
	"github.com/viltkamera/wcimport/pkg/config"
	"github.com/viltkamera/wcimport/pkg/labels"
	"github.com/viltkamera/wcimport/pkg/schema"
	"github.com/viltkamera/wcimport/pkg/source"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UpsertLocation finds or creates the location of a camera.
func UpsertLocation(
	ctx context.Context,
	tx *gorm.DB,
	cameraID int64,
	now time.Time,
) (*schema.Location, bool, error) {
	return FindOrCreate(ctx, tx, Key{"id": cameraID}, func() *schema.Location {
		return &schema.Location{
			ID:             cameraID,
			CreatedAt:      now,
			LastModifiedAt: now,
		}
	})
}

// UpsertDataset finds or creates a dataset by its external id.
// New datasets are locked: they are edited only through imports.
func UpsertDataset(
	ctx context.Context,
	tx *gorm.DB,
	ds source.Dataset,
	locationID int64,
) (*schema.Dataset, bool, error) {
	return FindOrCreate(ctx, tx, Key{"ext_id": ds.ID}, func() *schema.Dataset {
		return &schema.Dataset{
			ExtID:          ds.ID,
			Locked:         true,
			Deleted:        ds.Deleted,
			LocationID:     locationID,
			CreatedAt:      ds.CreatedAt,
			LastModifiedAt: ds.UpdatedAt,
		}
	})
}

// UpsertTimeseries finds or creates a timeseries by its external id.
// Labels are resolved first, an unknown label fails before any insert.
func UpsertTimeseries(
	ctx context.Context,
	tx *gorm.DB,
	ts source.Timeseries,
	datasetID uint,
	cat *labels.Catalog,
) (*schema.Timeseries, bool, error) {
	predicted, err := cat.OptionalID(ts.PredictedLabel)
	if err != nil {
		return nil, false, UnknownLabelError(err)
	}
	validated, err := cat.OptionalID(ts.GroundTruthLabel)
	if err != nil {
		return nil, false, UnknownLabelError(err)
	}

	return FindOrCreate(ctx, tx, Key{"ext_id": ts.ID}, func() *schema.Timeseries {
		return &schema.Timeseries{
			ExtID:              ts.ID,
			DatasetID:          datasetID,
			PredictedSpeciesID: predicted,
			ValidatedSpeciesID: validated,
			Hidden:             ts.PredictedLabel == source.LabelNothing,
			Extra: datatypes.NewJSONType(schema.TimeseriesExtra{
				Distance:           ts.Distance,
				NumAnimals:         ts.NumAnimals,
				ShouldExportImages: ts.ShouldExportImages,
				CameraInactive:     ts.CameraInactive,
				TakenOffset:        ts.TakenOffset,
			}),
			CreatedAt:      ts.CreatedAt,
			LastModifiedAt: ts.UpdatedAt,
		}
	})
}

// UpsertImage finds or creates an image of a timeseries by its
// external id.
func UpsertImage(
	ctx context.Context,
	tx *gorm.DB,
	img source.Image,
	ts *schema.Timeseries,
	now time.Time,
) (*schema.Image, bool, error) {
	return FindOrCreate(ctx, tx, Key{"ext_id": img.ID}, func() *schema.Image {
		var meta datatypes.JSON
		if len(img.Exif) > 0 {
			meta = datatypes.JSON(img.Exif)
		}
		return &schema.Image{
			UUID:          ImageUUID(img.ID),
			ExtID:         img.ID,
			Metadata:      meta,
			CapturedAt:    img.TakenAt,
			ClassifiedAt:  img.PredictedAt,
			File:          ImageFile(img.ID),
			Hidden:        img.PredictedLabel == source.LabelNothing,
			SequenceIndex: img.Index,
			TimeseriesID:  ts.ID,
			DatasetID:     ts.DatasetID,
			CreatedAt:     now,
		}
	})
}

// AddRevision records the reviewed ground truth of a verified
// timeseries. The reviewer is not known.
func AddRevision(
	ctx context.Context,
	tx *gorm.DB,
	ts *schema.Timeseries,
	src source.Timeseries,
	cat *labels.Catalog,
) (*schema.ValidationRevision, error) {
	labelID, err := cat.ID(src.GroundTruthLabel)
	if err != nil {
		return nil, UnknownLabelError(err)
	}
	res := &schema.ValidationRevision{
		TimeseriesID:   ts.ID,
		LabelID:        labelID,
		UserID:         schema.UnknownUserID,
		CreatedAt:      src.UpdatedAt,
		LastModifiedAt: src.UpdatedAt,
	}
	if err = Insert(ctx, tx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// AddAnnotation stores a predicted box of an image. Coordinates stay
// fractional.
func AddAnnotation(
	ctx context.Context,
	tx *gorm.DB,
	img *schema.Image,
	box source.PredictedBox,
	cat *labels.Catalog,
) (*schema.BBoxAnnotation, error) {
	labelID, err := cat.ID(box.Label)
	if err != nil {
		return nil, UnknownLabelError(err)
	}
	res := &schema.BBoxAnnotation{
		ImageID: img.ID,
		LabelID: labelID,
		UserID:  schema.UnknownUserID,
		Score:   box.Score,
		XMin:    box.Box.XMin,
		YMin:    box.Box.YMin,
		XMax:    box.Box.XMax,
		YMax:    box.Box.YMax,
	}
	if img.ClassifiedAt != nil {
		res.CreatedAt = *img.ClassifiedAt
	}
	if err = Insert(ctx, tx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ImageFile returns the object key of an image relative to the
// storage prefix.
func ImageFile(extID string) string {
	return config.ImagePathPrefix + extID
}

// ImageUUID keeps external ids that are UUIDs already and derives a
// UUIDv5 from any other id.
func ImageUUID(extID string) string {
	if u, err := uuid.Parse(extID); err == nil {
		return u.String()
	}
	return gnuuid.New(extID).String()
}
