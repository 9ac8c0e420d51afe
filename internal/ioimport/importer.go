// Package ioimport implements the wcimport.Importer. It moves datasets
// of the Parquet export into the database and their images into object
// storage, one timeseries per transaction.
package ioimport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/viltkamera/wcimport/internal/iometrics"
	"github.com/viltkamera/wcimport/internal/iorepo"
	"github.com/viltkamera/wcimport/pkg/config"
	"github.com/viltkamera/wcimport/pkg/errcode"
	"github.com/viltkamera/wcimport/pkg/labels"
	"github.com/viltkamera/wcimport/pkg/schema"
	"github.com/viltkamera/wcimport/pkg/source"
	"github.com/viltkamera/wcimport/pkg/wcimport"
	"gorm.io/gorm"
)

// Deps are the collaborators of the importer.
type Deps struct {
	Source  wcimport.SourceReader
	Fetcher wcimport.ImageFetcher
	Store   wcimport.ObjectStore
	Labels  *labels.Catalog
	// Metrics is optional.
	Metrics *iometrics.Recorder
}

type importer struct {
	Deps
	cfg      *config.Config
	db       *gorm.DB
	loggedIn bool
	now      func() time.Time
}

// New creates an Importer writing to db.
func New(cfg *config.Config, db *gorm.DB, deps Deps) wcimport.Importer {
	return &importer{
		Deps: deps,
		cfg:  cfg,
		db:   db,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Import implements wcimport.Importer.
func (i *importer) Import(ctx context.Context, datasetID int64) (wcimport.Summary, error) {
	start := time.Now()
	res, err := i.importDataset(ctx, datasetID)
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}
	if res.Datasets > 0 {
		report(fmt.Sprintf("Dataset %d imported", datasetID), res)
	}
	return res, nil
}

// ImportRange implements wcimport.Importer.
func (i *importer) ImportRange(
	ctx context.Context,
	from, to int64,
) (wcimport.Summary, error) {
	var res wcimport.Summary
	if from > to {
		return res, RangeError(from, to)
	}

	start := time.Now()
	ids, err := i.Source.DatasetIDs(ctx, from, to)
	if err != nil {
		return res, err
	}
	gn.Info("Found <em>%s</em> datasets between %d and %d",
		humanize.Comma(int64(len(ids))), from, to)

	for _, id := range ids {
		if ctx.Err() != nil {
			res.Duration = time.Since(start)
			return res, CancelledError(ctx.Err())
		}
		sum, err := i.Import(ctx, id)
		res.Add(sum)
		if err != nil {
			res.Duration = time.Since(start)
			return res, err
		}
	}

	res.Duration = time.Since(start)
	report(fmt.Sprintf("Datasets %d..%d imported", from, to), res)
	return res, nil
}

func (i *importer) importDataset(
	ctx context.Context,
	datasetID int64,
) (wcimport.Summary, error) {
	var res wcimport.Summary
	log := slog.With("dataset_id", datasetID)

	src, err := i.Source.Dataset(ctx, datasetID)
	if err != nil {
		return res, err
	}
	if src == nil {
		log.Error("Dataset not found")
		gn.Warn("Dataset <em>%d</em> not found in the export", datasetID)
		i.Metrics.Dataset(false)
		res.DatasetsNotFound = 1
		return res, nil
	}
	i.Metrics.Dataset(true)
	res.Datasets = 1

	ds, exclude, err := i.prepareDataset(ctx, src)
	if err != nil {
		return res, DatasetError(datasetID, err)
	}

	tss, err := i.Source.Timeseries(ctx, datasetID, exclude)
	if err != nil {
		return res, err
	}
	log.Info("Timeseries to import",
		"new", len(tss),
		"imported_before", len(exclude),
	)
	if len(tss) == 0 {
		return res, nil
	}

	if err = i.login(ctx); err != nil {
		return res, err
	}

	var bar *pb.ProgressBar
	if i.cfg.Import.ShowProgress {
		bar = pb.Full.Start(len(tss))
		bar.Set("prefix", fmt.Sprintf("dataset %d ", datasetID))
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
	}

	for _, ts := range tss {
		if ctx.Err() != nil {
			return res, CancelledError(ctx.Err())
		}

		out := i.processTimeseries(ctx, ds, ts)
		if bar != nil {
			bar.Increment()
		}

		switch {
		case out.Err != nil:
			if isFatal(ctx, out.Err) {
				if ctx.Err() != nil {
					return res, CancelledError(ctx.Err())
				}
				return res, out.Err
			}
			res.TimeseriesFailed++
			i.Metrics.Timeseries(iometrics.OutcomeFailed)
			logFailure(log.With("timeseries_id", ts.ID), out.Err)
		case out.Skipped:
			res.TimeseriesSkipped++
			i.Metrics.Timeseries(iometrics.OutcomeSkipped)
			log.Debug("Timeseries already present, skipping",
				"timeseries_id", ts.ID)
			continue
		default:
			res.TimeseriesCreated++
			res.Images += out.Images
			res.BlurredBoxes += out.Blurred
			i.Metrics.Timeseries(iometrics.OutcomeCreated)
		}

		if i.cfg.Import.Single {
			log.Info("Single mode, stopping after first timeseries",
				"timeseries_id", ts.ID)
			break
		}
	}
	return res, nil
}

// prepareDataset stores location and dataset in their own transaction
// and returns external ids of timeseries imported earlier.
func (i *importer) prepareDataset(
	ctx context.Context,
	src *source.Dataset,
) (*schema.Dataset, []int64, error) {
	var ds *schema.Dataset
	var exclude []int64

	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loc, created, err := iorepo.UpsertLocation(ctx, tx, src.CameraID, i.now())
		if err != nil {
			return err
		}
		slog.Debug("Location ready", "location_id", loc.ID, "created", created)

		ds, created, err = iorepo.UpsertDataset(ctx, tx, *src, loc.ID)
		if err != nil {
			return err
		}
		slog.Debug("Dataset ready",
			"dataset_id", src.ID, "db_id", ds.ID, "created", created)

		if !created {
			exclude, err = iorepo.ImportedTimeseriesIDs(ctx, tx, ds.ID)
		}
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return ds, exclude, nil
}

func (i *importer) login(ctx context.Context) error {
	if i.loggedIn {
		return nil
	}
	if err := i.Fetcher.Login(ctx); err != nil {
		return err
	}
	i.loggedIn = true
	return nil
}

// isFatal tells apart errors that end the run from errors of a single
// timeseries.
func isFatal(ctx context.Context, err error) bool {
	if ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var gnErr *gn.Error
	if !errors.As(err, &gnErr) {
		return false
	}
	switch gnErr.Code {
	case errcode.SourceOpenError,
		errcode.SourceQueryError,
		errcode.HTTPLoginError,
		errcode.HTTPRetryExhaustedError,
		errcode.StorageClientError,
		errcode.StorageBucketError:
		return true
	default:
		return false
	}
}

func logFailure(log *slog.Logger, err error) {
	var imgErr *imageError
	if errors.As(err, &imgErr) {
		log = log.With("image_id", imgErr.imageID)
	}
	log.Error("Cannot import timeseries", "error", err)
}

func report(title string, sum wcimport.Summary) {
	slog.Info(title,
		"datasets", sum.Datasets,
		"not_found", sum.DatasetsNotFound,
		"timeseries_created", sum.TimeseriesCreated,
		"timeseries_failed", sum.TimeseriesFailed,
		"timeseries_skipped", sum.TimeseriesSkipped,
		"images", sum.Images,
		"blurred_boxes", sum.BlurredBoxes,
		"duration", gnfmt.TimeString(sum.Duration.Seconds()),
	)
	gn.Info(`%s
Timeseries created: %s, failed: %s, skipped: %s.
Images: %s, blurred boxes: %s.
Elapsed time: <em>%s</em>
`,
		title,
		humanize.Comma(int64(sum.TimeseriesCreated)),
		humanize.Comma(int64(sum.TimeseriesFailed)),
		humanize.Comma(int64(sum.TimeseriesSkipped)),
		humanize.Comma(int64(sum.Images)),
		humanize.Comma(int64(sum.BlurredBoxes)),
		gnfmt.TimeString(sum.Duration.Seconds()),
	)
}
