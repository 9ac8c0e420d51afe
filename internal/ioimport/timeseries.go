package ioimport

import (
	"context"
	"log/slog"
	"time"

	"github.com/viltkamera/wcimport/internal/iorepo"
	"github.com/viltkamera/wcimport/pkg/schema"
	"github.com/viltkamera/wcimport/pkg/source"
	"gorm.io/gorm"
)

// Outcome is the result of one timeseries. The import loop decides
// what to do with Err.
type Outcome struct {
	Created bool
	Skipped bool
	Images  int
	Blurred int
	Err     error
}

// processTimeseries stores a timeseries with its images in one
// transaction. Any error rolls the transaction back.
func (i *importer) processTimeseries(
	ctx context.Context,
	ds *schema.Dataset,
	src source.Timeseries,
) Outcome {
	var res Outcome
	log := slog.With("dataset_id", ds.ExtID, "timeseries_id", src.ID)

	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ts, created, err := iorepo.UpsertTimeseries(ctx, tx, src, ds.ID, i.Labels)
		if err != nil {
			return err
		}
		if !created {
			res.Skipped = true
			return nil
		}

		if src.Verified() {
			if _, err = iorepo.AddRevision(ctx, tx, ts, src, i.Labels); err != nil {
				return err
			}
			log.Debug("Added validation revision", "label", src.GroundTruthLabel)
		}

		imgs, err := i.Source.Images(ctx, src.ID)
		if err != nil {
			return err
		}
		log.Debug("Found images", "count", len(imgs))

		for _, v := range imgs {
			n, err := i.processImage(ctx, tx, ts, v)
			if err != nil {
				return &imageError{imageID: v.ID, err: err}
			}
			res.Images++
			res.Blurred += n
		}
		res.Created = true
		return nil
	})
	if err != nil {
		return Outcome{Err: err}
	}
	return res
}

// processImage downloads, stores, annotates and uploads one image. It
// returns the number of blurred regions.
func (i *importer) processImage(
	ctx context.Context,
	tx *gorm.DB,
	ts *schema.Timeseries,
	src source.Image,
) (int, error) {
	log := slog.With("timeseries_id", ts.ExtID, "image_id", src.ID)

	start := time.Now()
	data, err := i.Fetcher.Image(ctx, src.ID)
	i.Metrics.Fetch(time.Since(start))
	if err != nil {
		return 0, err
	}

	img, created, err := iorepo.UpsertImage(ctx, tx, src, ts, i.now())
	if err != nil {
		return 0, err
	}
	if !created {
		return 0, iorepo.ImageOwnerError(src.ID, img.TimeseriesID)
	}

	if src.Selected() {
		if err = iorepo.SetSelectedImage(ctx, tx, ts, img); err != nil {
			return 0, err
		}
		log.Debug("Set image as selected")
	}

	var boxes []source.Box
	for _, v := range src.PredictedBoxes {
		if _, err = iorepo.AddAnnotation(ctx, tx, img, v, i.Labels); err != nil {
			return 0, err
		}
		if i.Labels.Blur(v.Label) {
			boxes = append(boxes, v.Box)
		}
	}

	out, err := blurImage(src.ID, data, boxes, i.cfg.Blur)
	if err != nil {
		return 0, err
	}
	if out.regions > 0 {
		log.Debug("Blurred image", "regions", out.regions)
	}

	if err = i.Store.Put(ctx, img.File, out.data, out.contentType); err != nil {
		return 0, err
	}
	i.Metrics.Image(len(out.data), out.regions)
	return out.regions, nil
}
