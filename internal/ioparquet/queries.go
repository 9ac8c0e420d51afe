package ioparquet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/viltkamera/wcimport/pkg/config"
	"github.com/viltkamera/wcimport/pkg/source"
)

// Dataset implements wcimport.SourceReader.
func (r *reader) Dataset(ctx context.Context, id int64) (*source.Dataset, error) {
	q := fmt.Sprintf(`
SELECT
	id,
	camera_id,
	CAST(created_at AS TIMESTAMP),
	CAST(updated_at AS TIMESTAMP),
	COALESCE(deleted, false)
FROM read_parquet(%s)
WHERE id = $1
LIMIT 1`, quote(r.projects))

	rows, err := r.query(ctx, config.TableProjects, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, QueryError(config.TableProjects, err)
		}
		return nil, nil
	}

	var res source.Dataset
	var created, updated sql.NullTime
	err = rows.Scan(&res.ID, &res.CameraID, &created, &updated, &res.Deleted)
	if err != nil {
		return nil, DecodeError(config.TableProjects, strconv.FormatInt(id, 10), err)
	}
	res.CreatedAt = created.Time
	res.UpdatedAt = updated.Time
	return &res, nil
}

// DatasetIDs implements wcimport.SourceReader.
func (r *reader) DatasetIDs(ctx context.Context, from, to int64) ([]int64, error) {
	q := fmt.Sprintf(`
SELECT DISTINCT id
FROM read_parquet(%s)
WHERE id BETWEEN $1 AND $2
ORDER BY id`, quote(r.projects))

	rows, err := r.query(ctx, config.TableProjects, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, QueryError(config.TableProjects, err)
		}
		res = append(res, id)
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(config.TableProjects, err)
	}
	return res, nil
}

// DatasetBounds implements wcimport.SourceReader.
func (r *reader) DatasetBounds(ctx context.Context) (int64, int64, error) {
	q := fmt.Sprintf(`SELECT min(id), max(id) FROM read_parquet(%s)`,
		quote(r.projects))

	rows, err := r.query(ctx, config.TableProjects, q)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	var lo, hi sql.NullInt64
	if rows.Next() {
		if err = rows.Scan(&lo, &hi); err != nil {
			return 0, 0, QueryError(config.TableProjects, err)
		}
	}
	if err = rows.Err(); err != nil {
		return 0, 0, QueryError(config.TableProjects, err)
	}
	if !lo.Valid || !hi.Valid {
		return 0, 0, QueryError(config.TableProjects,
			errors.New("export has no datasets"))
	}
	return lo.Int64, hi.Int64, nil
}

// Timeseries implements wcimport.SourceReader.
func (r *reader) Timeseries(
	ctx context.Context,
	datasetID int64,
	exclude []int64,
) ([]source.Timeseries, error) {
	args := []any{datasetID}
	var notIn string
	if len(exclude) > 0 {
		ph := make([]string, len(exclude))
		for i, v := range exclude {
			args = append(args, v)
			ph[i] = "$" + strconv.Itoa(i+2)
		}
		notIn = "\n  AND id NOT IN (" + strings.Join(ph, ", ") + ")"
	}

	q := fmt.Sprintf(`
SELECT
	id,
	CAST(created_at AS TIMESTAMP),
	CAST(updated_at AS TIMESTAMP),
	COALESCE(CAST(status AS VARCHAR), ''),
	COALESCE(CAST(predicted_label AS VARCHAR), ''),
	COALESCE(CAST(ground_truth_label AS VARCHAR), ''),
	CAST(distance AS DOUBLE),
	CAST(num_animals AS BIGINT),
	CAST(should_export_images AS BOOLEAN),
	CAST(camera_inactive AS BOOLEAN),
	CAST(taken_offset AS DOUBLE)
FROM read_parquet(%s)
WHERE id IN (
	SELECT unnest(timeseries)
	FROM read_parquet(%s)
	WHERE id = $1
)%s
ORDER BY id`, quote(r.timeseries), quote(r.projects), notIn)

	rows, err := r.query(ctx, config.TableTimeseries, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []source.Timeseries
	for rows.Next() {
		var ts source.Timeseries
		var created, updated sql.NullTime
		var distance, offset sql.NullFloat64
		var animals sql.NullInt64
		var export, inactive sql.NullBool
		err = rows.Scan(
			&ts.ID, &created, &updated,
			&ts.Status, &ts.PredictedLabel, &ts.GroundTruthLabel,
			&distance, &animals, &export, &inactive, &offset,
		)
		if err != nil {
			return nil, QueryError(config.TableTimeseries, err)
		}
		ts.CreatedAt = created.Time
		ts.UpdatedAt = updated.Time
		ts.Distance = nullPtr(distance.Float64, distance.Valid)
		ts.NumAnimals = nullPtr(animals.Int64, animals.Valid)
		ts.ShouldExportImages = nullPtr(export.Bool, export.Valid)
		ts.CameraInactive = nullPtr(inactive.Bool, inactive.Valid)
		ts.TakenOffset = nullPtr(offset.Float64, offset.Valid)
		res = append(res, ts)
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(config.TableTimeseries, err)
	}
	return res, nil
}

// Images implements wcimport.SourceReader. Ground truth columns of
// images are not read.
func (r *reader) Images(ctx context.Context, timeseriesID int64) ([]source.Image, error) {
	q := fmt.Sprintf(`
WITH tsi AS (
	SELECT
		selected_image,
		unnest(images) AS image_id,
		generate_subscripts(images, 1) AS image_index
	FROM read_parquet(%s)
	WHERE id = $1
)
SELECT
	CAST(img.id AS VARCHAR),
	CAST(img.exif AS VARCHAR),
	CAST(img.taken_at AS TIMESTAMP),
	CAST(img.predicted_at AS TIMESTAMP),
	COALESCE(CAST(img.predicted_label AS VARCHAR), ''),
	CAST(to_json(img.predicted_boxes) AS VARCHAR),
	tsi.image_index,
	COALESCE(CAST(tsi.selected_image AS VARCHAR), '')
FROM tsi
JOIN read_parquet(%s) AS img ON tsi.image_id = img.id
ORDER BY tsi.image_index`, quote(r.timeseries), quote(r.images))

	rows, err := r.query(ctx, config.TableImages, q, timeseriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []source.Image
	for rows.Next() {
		var img source.Image
		var exif, boxes sql.NullString
		var taken, predicted sql.NullTime
		var index int64
		err = rows.Scan(
			&img.ID, &exif, &taken, &predicted,
			&img.PredictedLabel, &boxes, &index, &img.SelectedImage,
		)
		if err != nil {
			return nil, QueryError(config.TableImages, err)
		}
		img.Index = int(index)
		img.TakenAt = nullTime(taken)
		img.PredictedAt = nullTime(predicted)
		if exif.Valid && exif.String != "" {
			if !json.Valid([]byte(exif.String)) {
				return nil, DecodeError(config.TableImages, img.ID,
					errors.New("exif is not valid JSON"))
			}
			img.Exif = json.RawMessage(exif.String)
		}
		if boxes.Valid && boxes.String != "" {
			err = json.Unmarshal([]byte(boxes.String), &img.PredictedBoxes)
			if err != nil {
				return nil, DecodeError(config.TableImages, img.ID, err)
			}
		}
		res = append(res, img)
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(config.TableImages, err)
	}
	return res, nil
}

func nullPtr[T any](v T, valid bool) *T {
	if !valid {
		return nil
	}
	return &v
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	res := t.Time.UTC()
	return &res
}
