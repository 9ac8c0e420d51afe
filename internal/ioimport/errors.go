package ioimport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/viltkamera/wcimport/pkg/errcode"
)

// CancelledError is returned when the run is interrupted.
func CancelledError(err error) error {
	return &gn.Error{
		Code: errcode.ImportCancelledError,
		Msg:  "Import cancelled",
		Err:  fmt.Errorf("import cancelled: %w", err),
	}
}

// DatasetError is returned when the location or dataset rows of a
// dataset cannot be stored.
func DatasetError(datasetID int64, err error) error {
	return &gn.Error{
		Code: errcode.ImportDatasetError,
		Msg:  "Cannot import dataset <em>%d</em>",
		Vars: []any{datasetID},
		Err:  fmt.Errorf("dataset %d: %w", datasetID, err),
	}
}

// RangeError is returned for a range with the lower bound above the
// upper one.
func RangeError(from, to int64) error {
	return &gn.Error{
		Code: errcode.ImportRangeError,
		Msg:  "Invalid dataset range <em>%d..%d</em>",
		Vars: []any{from, to},
		Err:  fmt.Errorf("invalid range %d..%d", from, to),
	}
}

// DecodeError is returned when downloaded bytes are not an image.
func DecodeError(imageID string, err error) error {
	return &gn.Error{
		Code: errcode.ImageDecodeError,
		Msg:  "Cannot decode image <em>%s</em>",
		Vars: []any{imageID},
		Err:  fmt.Errorf("decode image %s: %w", imageID, err),
	}
}

// EncodeError is returned when a blurred image cannot be encoded.
func EncodeError(imageID string, err error) error {
	return &gn.Error{
		Code: errcode.ImageEncodeError,
		Msg:  "Cannot encode image <em>%s</em>",
		Vars: []any{imageID},
		Err:  fmt.Errorf("encode image %s: %w", imageID, err),
	}
}

// imageError attaches the id of the failed image to a timeseries
// failure.
type imageError struct {
	imageID string
	err     error
}

func (e *imageError) Error() string {
	return fmt.Sprintf("image %s: %v", e.imageID, e.err)
}

func (e *imageError) Unwrap() error {
	return e.err
}
