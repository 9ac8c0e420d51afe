package iorepo

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/viltkamera/wcimport/pkg/errcode"
)

// ErrMultipleMatches is the cause of MultipleMatchesError.
var ErrMultipleMatches = errors.New("lookup matched more than one row")

// ErrImageOwner is the cause of ImageOwnerError.
var ErrImageOwner = errors.New("image is stored already")

// QueryError is returned when a lookup query fails.
func QueryError(model string, err error) error {
	return &gn.Error{
		Code: errcode.RepoQueryError,
		Msg:  "Cannot query <em>%s</em>",
		Vars: []any{model},
		Err:  fmt.Errorf("query %s: %w", model, err),
	}
}

// InsertError is returned when a new row cannot be inserted.
func InsertError(model string, err error) error {
	return &gn.Error{
		Code: errcode.RepoInsertError,
		Msg:  "Cannot insert <em>%s</em>",
		Vars: []any{model},
		Err:  fmt.Errorf("insert %s: %w", model, err),
	}
}

// MultipleMatchesError is returned when an upsert key matches more
// than one row. External ids are unique, so this means duplicated data.
func MultipleMatchesError(model string, key Key) error {
	msg := `Duplicate rows of <em>%s</em> for key <em>%v</em>

External ids must be unique. Remove the duplicates and run the
import again.`

	return &gn.Error{
		Code: errcode.RepoMultipleMatchesError,
		Msg:  msg,
		Vars: []any{model, key},
		Err:  fmt.Errorf("%s %v: %w", model, key, ErrMultipleMatches),
	}
}

// ImageOwnerError is returned when an image of the export already has
// a row. An image belongs to exactly one timeseries, so a second
// timeseries listing it is rejected.
func ImageOwnerError(extID string, timeseriesID uint) error {
	msg := `Image <em>%s</em> is already stored with timeseries <em>%d</em>`
	return &gn.Error{
		Code: errcode.RepoImageOwnerError,
		Msg:  msg,
		Vars: []any{extID, timeseriesID},
		Err: fmt.Errorf("image %s belongs to timeseries %d: %w",
			extID, timeseriesID, ErrImageOwner),
	}
}

// DeleteError is returned when cleanup of a dataset fails.
func DeleteError(datasetID int64, table string, err error) error {
	return &gn.Error{
		Code: errcode.RepoDeleteError,
		Msg:  "Cannot delete <em>%s</em> rows of dataset <em>%d</em>",
		Vars: []any{table, datasetID},
		Err:  fmt.Errorf("delete %s of dataset %d: %w", table, datasetID, err),
	}
}

// LabelsError is returned when the label catalog cannot be loaded.
func LabelsError(err error) error {
	return &gn.Error{
		Code: errcode.RepoLabelsError,
		Msg:  "Cannot load annotation labels",
		Err:  fmt.Errorf("load annotation labels: %w", err),
	}
}

// UnknownLabelError is returned when a label of the export is missing
// from wild_cameras_annotationlabel.
func UnknownLabelError(err error) error {
	return &gn.Error{
		Code: errcode.RepoUnknownLabelError,
		Msg:  "Unknown annotation label",
		Err:  fmt.Errorf("resolve label: %w", err),
	}
}
