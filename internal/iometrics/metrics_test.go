package iometrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viltkamera/wcimport/internal/iometrics"
	"github.com/viltkamera/wcimport/pkg/errcode"
)

func TestRecorder(t *testing.T) {
	r := iometrics.New()
	r.Dataset(true)
	r.Dataset(false)
	r.Timeseries(iometrics.OutcomeCreated)
	r.Timeseries(iometrics.OutcomeCreated)
	r.Timeseries(iometrics.OutcomeFailed)
	r.Image(100, 2)
	r.Image(50, 0)
	r.Fetch(20 * time.Millisecond)
	r.Finish(3 * time.Second)

	expected := `
# HELP wcimport_timeseries_total Timeseries processed by outcome
# TYPE wcimport_timeseries_total counter
wcimport_timeseries_total{outcome="created"} 2
wcimport_timeseries_total{outcome="failed"} 1
# HELP wcimport_blurred_boxes_total Bounding boxes blurred
# TYPE wcimport_blurred_boxes_total counter
wcimport_blurred_boxes_total 2
# HELP wcimport_uploaded_bytes_total Bytes written to object storage
# TYPE wcimport_uploaded_bytes_total counter
wcimport_uploaded_bytes_total 150
# HELP wcimport_run_duration_seconds Duration of the last run
# TYPE wcimport_run_duration_seconds gauge
wcimport_run_duration_seconds 3
`
	err := testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected),
		"wcimport_timeseries_total",
		"wcimport_blurred_boxes_total",
		"wcimport_uploaded_bytes_total",
		"wcimport_run_duration_seconds",
	)
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(r.Registry(), "wcimport_datasets_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNilRecorder(t *testing.T) {
	var r *iometrics.Recorder
	assert.NotPanics(t, func() {
		r.Dataset(true)
		r.Timeseries(iometrics.OutcomeSkipped)
		r.Image(1, 1)
		r.Fetch(time.Second)
		r.Finish(time.Second)
	})
	assert.Nil(t, r.Registry())
	assert.NoError(t, r.Push(context.Background(), "http://push:9091", "job"))
}

func TestPush(t *testing.T) {
	var path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path = req.URL.Path
		b, _ := io.ReadAll(req.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := iometrics.New()
	r.Image(10, 1)
	require.NoError(t, r.Push(context.Background(), srv.URL, "wcimport"))
	assert.Equal(t, "/metrics/job/wcimport", path)
	assert.NotEmpty(t, body)

	assert.NoError(t, r.Push(context.Background(), "", "wcimport"), "no url")
}

func TestPushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := iometrics.New().Push(context.Background(), srv.URL, "wcimport")
	require.Error(t, err)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.MetricsPushError, gnErr.Code)
}
