// Package iometrics counts what an import run did. Counters live in a
// private registry that is pushed to a Prometheus Pushgateway when the
// run ends. A nil *Recorder ignores all calls.
package iometrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "wcimport"

// Timeseries outcomes.
const (
	OutcomeCreated = "created"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Recorder holds the metrics of one run.
type Recorder struct {
	reg          *prometheus.Registry
	datasets     *prometheus.CounterVec
	timeseries   *prometheus.CounterVec
	images       prometheus.Counter
	blurred      prometheus.Counter
	uploaded     prometheus.Counter
	fetchSeconds prometheus.Histogram
	lastRun      prometheus.Gauge
	runSeconds   prometheus.Gauge
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		datasets: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "datasets_total",
			Help:      "Datasets processed by result",
		}, []string{"result"}),
		timeseries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timeseries_total",
			Help:      "Timeseries processed by outcome",
		}, []string{"outcome"}),
		images: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_total",
			Help:      "Images stored and uploaded",
		}),
		blurred: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blurred_boxes_total",
			Help:      "Bounding boxes blurred",
		}),
		uploaded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes written to object storage",
		}),
		fetchSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "image_fetch_duration_seconds",
			Help:      "Duration of image downloads including retries",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
		lastRun: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time when the last run finished",
		}),
		runSeconds: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run",
		}),
	}
}

// Registry returns the registry of the Recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// Dataset counts a dataset, found or missing from the export.
func (r *Recorder) Dataset(found bool) {
	if r == nil {
		return
	}
	result := "imported"
	if !found {
		result = "not_found"
	}
	r.datasets.WithLabelValues(result).Inc()
}

// Timeseries counts a timeseries with one of the Outcome constants.
func (r *Recorder) Timeseries(outcome string) {
	if r == nil {
		return
	}
	r.timeseries.WithLabelValues(outcome).Inc()
}

// Image counts an uploaded image of the given size with the number of
// its blurred boxes.
func (r *Recorder) Image(size, blurred int) {
	if r == nil {
		return
	}
	r.images.Inc()
	r.uploaded.Add(float64(size))
	r.blurred.Add(float64(blurred))
}

// Fetch observes the duration of one image download.
func (r *Recorder) Fetch(d time.Duration) {
	if r == nil {
		return
	}
	r.fetchSeconds.Observe(d.Seconds())
}

// Finish records the end of a run.
func (r *Recorder) Finish(d time.Duration) {
	if r == nil {
		return
	}
	r.runSeconds.Set(d.Seconds())
	r.lastRun.SetToCurrentTime()
}

// Push sends all metrics to the Pushgateway at url under job.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if r == nil || url == "" {
		return nil
	}
	err := push.New(url, job).Gatherer(r.reg).PushContext(ctx)
	if err != nil {
		return PushError(url, err)
	}
	return nil
}
