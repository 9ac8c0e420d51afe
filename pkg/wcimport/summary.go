package wcimport

import "time"

// Summary collects counts of an import run.
type Summary struct {
	Datasets          int
	DatasetsNotFound  int
	TimeseriesCreated int
	TimeseriesSkipped int
	TimeseriesFailed  int
	Images            int
	BlurredBoxes      int
	Duration          time.Duration
}

// Add merges counts of another summary. Duration is not summed, it
// belongs to the whole run.
func (s *Summary) Add(o Summary) {
	s.Datasets += o.Datasets
	s.DatasetsNotFound += o.DatasetsNotFound
	s.TimeseriesCreated += o.TimeseriesCreated
	s.TimeseriesSkipped += o.TimeseriesSkipped
	s.TimeseriesFailed += o.TimeseriesFailed
	s.Images += o.Images
	s.BlurredBoxes += o.BlurredBoxes
}

// CleanStats reports how many rows were deleted per table.
type CleanStats struct {
	Annotations int64
	Images      int64
	Revisions   int64
	Timeseries  int64
	Datasets    int64
}

// Total returns the number of all deleted rows.
func (c CleanStats) Total() int64 {
	return c.Annotations + c.Images + c.Revisions + c.Timeseries + c.Datasets
}
