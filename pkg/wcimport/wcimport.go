// Package wcimport defines the contracts between the import pipeline
// and its collaborators: the Parquet export, the image service and the
// object store. Implementations live in internal/io* packages.
package wcimport

import (
	"context"

	"github.com/viltkamera/wcimport/pkg/source"
)

// SourceReader queries the exported Parquet tables.
type SourceReader interface {
	// Dataset returns the dataset with the given external id, or
	// (nil, nil) if there is no such dataset.
	Dataset(ctx context.Context, id int64) (*source.Dataset, error)

	// DatasetIDs returns ids of datasets within [from, to], ascending.
	DatasetIDs(ctx context.Context, from, to int64) ([]int64, error)

	// DatasetBounds returns the smallest and largest dataset id.
	DatasetBounds(ctx context.Context) (int64, int64, error)

	// Timeseries returns timeseries of a dataset ordered by id, leaving
	// out ids listed in exclude.
	Timeseries(
		ctx context.Context,
		datasetID int64,
		exclude []int64,
	) ([]source.Timeseries, error)

	// Images returns images of a timeseries in their sequence order.
	Images(ctx context.Context, timeseriesID int64) ([]source.Image, error)

	// Close releases the query engine.
	Close() error
}

// ImageFetcher downloads images from the upstream service.
type ImageFetcher interface {
	// Login authenticates the session. It must be called before Image.
	Login(ctx context.Context) error

	// Image returns the raw bytes of an image.
	Image(ctx context.Context, id string) ([]byte, error)
}

// ObjectStore receives processed images.
type ObjectStore interface {
	// Put writes data under key, replacing an existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Importer loads datasets from the export into the database.
type Importer interface {
	// Import loads one dataset. A dataset missing from the export is
	// not an error.
	Import(ctx context.Context, datasetID int64) (Summary, error)

	// ImportRange loads all datasets with ids within [from, to].
	ImportRange(ctx context.Context, from, to int64) (Summary, error)
}

// Cleaner removes an imported dataset with everything it owns.
type Cleaner interface {
	Clean(ctx context.Context, datasetID int64) (CleanStats, error)
}
