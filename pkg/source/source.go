// Package source describes records of the Parquet export as they are
// read by the dataset locator and the timeseries/image fetcher.
package source

import (
	"encoding/json"
	"time"
)

// Status of a timeseries whose ground truth was reviewed by a person.
const StatusVerified = "verified"

// LabelNothing is the predicted label of empty pictures. Such
// timeseries and images are hidden.
const LabelNothing = "nothing"

// Dataset is a row of the projects table.
type Dataset struct {
	ID        int64
	CameraID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Deleted   bool
}

// Timeseries is a row of the timeseries table.
type Timeseries struct {
	ID                 int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Status             string
	PredictedLabel     string
	GroundTruthLabel   string
	Distance           *float64
	NumAnimals         *int64
	ShouldExportImages *bool
	CameraInactive     *bool
	TakenOffset        *float64
}

// Verified reports if the ground truth label was reviewed.
func (ts Timeseries) Verified() bool {
	return ts.Status == StatusVerified
}

// Image is a row of images_metadata joined with its position in the
// timeseries.
type Image struct {
	ID             string
	Exif           json.RawMessage
	TakenAt        *time.Time
	PredictedAt    *time.Time
	PredictedLabel string
	PredictedBoxes []PredictedBox
	// Index is the one-based position of the image in its timeseries,
	// stored as the sequence index.
	Index int
	// SelectedImage is the id of the representative image of the
	// timeseries, the same for all images of one timeseries.
	SelectedImage string
}

// Selected reports if this image is the representative image of its
// timeseries.
func (img Image) Selected() bool {
	return img.SelectedImage != "" && img.ID == img.SelectedImage
}

// PredictedBox is a bounding box predicted by the classifier.
type PredictedBox struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Box   Box     `json:"box"`
}

// Box coordinates are fractions of image width and height.
type Box struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}
