// Package schema provides database schema models for wcimport.
// Models mirror the wild_cameras tables of the web application that
// owns the database; wcimport only creates and deletes rows in them.
// Relations are plain id columns, referential integrity is kept by
// the importer and by DeleteDataset order.
package schema

import (
	"time"

	"gorm.io/datatypes"
)

// UnknownUserID marks rows created by the importer. The export has no
// information about who reviewed or annotated a record.
const UnknownUserID int64 = -1

// Location is a camera. Its primary key is the external camera id.
type Location struct {
	ID             int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt      time.Time
	LastModifiedAt time.Time
}

// TableName returns the PostgreSQL table name for this model.
func (Location) TableName() string { return "wild_cameras_location" }

// Dataset is one imported project of the export.
type Dataset struct {
	ID             uint  `gorm:"primaryKey"`
	ExtID          int64 `gorm:"uniqueIndex"`
	Locked         bool
	Deleted        bool
	LocationID     int64 `gorm:"index"`
	Comment        string
	RegistrationID *int64
	Delta          *string
	CreatedAt      time.Time
	LastModifiedAt time.Time
}

// TableName returns the PostgreSQL table name for this model.
func (Dataset) TableName() string { return "wild_cameras_dataset" }

// TimeseriesExtra holds attributes of a timeseries that have no
// dedicated column.
type TimeseriesExtra struct {
	Distance           *float64 `json:"distance"`
	NumAnimals         *int64   `json:"num_animals"`
	ShouldExportImages *bool    `json:"should_export_images"`
	CameraInactive     *bool    `json:"camera_inactive"`
	TakenOffset        *float64 `json:"taken_offset"`
}

// Timeseries is a sequence of images of one observation event.
type Timeseries struct {
	ID                 uint  `gorm:"primaryKey"`
	ExtID              int64 `gorm:"uniqueIndex"`
	DatasetID          uint  `gorm:"index"`
	PredictedSpeciesID *int
	ValidatedSpeciesID *int
	Hidden             bool
	Comment            string
	Extra              datatypes.JSONType[TimeseriesExtra]
	// SelectedImageID points to an Image of this timeseries.
	SelectedImageID *uint
	CreatedAt       time.Time
	LastModifiedAt  time.Time
}

// TableName returns the PostgreSQL table name for this model.
func (Timeseries) TableName() string { return "wild_cameras_timeseries" }

// Image is a single camera-trap picture.
type Image struct {
	ID    uint   `gorm:"primaryKey"`
	UUID  string `gorm:"size:36;index"`
	ExtID string `gorm:"uniqueIndex"`
	// Metadata is the EXIF data as exported.
	Metadata     datatypes.JSON
	CapturedAt   *time.Time
	ClassifiedAt *time.Time
	// File is the object key relative to the storage prefix.
	File          string
	Hidden        bool
	SequenceIndex int
	TimeseriesID  uint `gorm:"index"`
	DatasetID     uint `gorm:"index"`
	CreatedAt     time.Time
}

// TableName returns the PostgreSQL table name for this model.
func (Image) TableName() string { return "wild_cameras_image" }

// BBoxAnnotation is a predicted bounding box. Coordinates are fractions
// of the image width and height.
type BBoxAnnotation struct {
	ID        uint `gorm:"primaryKey"`
	ImageID   uint `gorm:"index"`
	LabelID   int
	UserID    int64
	Score     float64
	XMin      float64
	YMin      float64
	XMax      float64
	YMax      float64
	CreatedAt time.Time
}

// TableName returns the PostgreSQL table name for this model.
func (BBoxAnnotation) TableName() string { return "wild_cameras_bboxannotation" }

// ValidationRevision records the ground truth label of a verified
// timeseries.
type ValidationRevision struct {
	ID             uint `gorm:"primaryKey"`
	TimeseriesID   uint `gorm:"index"`
	LabelID        int
	UserID         int64
	Comment        string
	CreatedAt      time.Time
	LastModifiedAt time.Time
}

// TableName returns the PostgreSQL table name for this model.
func (ValidationRevision) TableName() string { return "wild_cameras_validationrevision" }

// AnnotationLabel is a species or object label. Labels with Blur set
// mark sensitive content (people, vehicles) that has to be blurred.
type AnnotationLabel struct {
	ID   int    `gorm:"primaryKey"`
	Text string `gorm:"column:text_;uniqueIndex"`
	Blur bool
}

// TableName returns the PostgreSQL table name for this model.
func (AnnotationLabel) TableName() string { return "wild_cameras_annotationlabel" }
