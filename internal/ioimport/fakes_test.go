package ioimport_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viltkamera/wcimport/pkg/source"
)

type fakeSource struct {
	datasets   map[int64]source.Dataset
	timeseries map[int64][]source.Timeseries
	images     map[int64][]source.Image
	imagesErr  map[int64]error
	excludes   [][]int64
}

func (f *fakeSource) Dataset(_ context.Context, id int64) (*source.Dataset, error) {
	ds, ok := f.datasets[id]
	if !ok {
		return nil, nil
	}
	return &ds, nil
}

func (f *fakeSource) DatasetIDs(_ context.Context, from, to int64) ([]int64, error) {
	var res []int64
	for id := range f.datasets {
		if id >= from && id <= to {
			res = append(res, id)
		}
	}
	slices.Sort(res)
	return res, nil
}

func (f *fakeSource) DatasetBounds(context.Context) (int64, int64, error) {
	var ids []int64
	for id := range f.datasets {
		ids = append(ids, id)
	}
	return slices.Min(ids), slices.Max(ids), nil
}

func (f *fakeSource) Timeseries(
	_ context.Context,
	datasetID int64,
	exclude []int64,
) ([]source.Timeseries, error) {
	f.excludes = append(f.excludes, exclude)
	var res []source.Timeseries
	for _, v := range f.timeseries[datasetID] {
		if !slices.Contains(exclude, v.ID) {
			res = append(res, v)
		}
	}
	return res, nil
}

func (f *fakeSource) Images(_ context.Context, tsID int64) ([]source.Image, error) {
	if err := f.imagesErr[tsID]; err != nil {
		return nil, err
	}
	return f.images[tsID], nil
}

func (f *fakeSource) Close() error { return nil }

type fakeFetcher struct {
	mu     sync.Mutex
	data   map[string][]byte
	errs   map[string]error
	logins int
	calls  []string
	// cancel is called when cancelAt is requested.
	cancel   context.CancelFunc
	cancelAt string
}

func (f *fakeFetcher) Login(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	return nil
}

func (f *fakeFetcher) Image(ctx context.Context, id string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	if f.cancel != nil && id == f.cancelAt {
		f.cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	return f.data[id], nil
}

type object struct {
	data        []byte
	contentType string
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string]object
}

func (f *fakeStore) Put(_ context.Context, key string, data []byte, ct string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = object{data: bytes.Clone(data), contentType: ct}
	return nil
}

// pattern returns a 100x100 image with a vertical stripe pattern that
// a blur visibly changes.
func pattern() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := range 100 {
		for x := range 100 {
			c := color.NRGBA{A: 255}
			if x%2 == 0 {
				c.R, c.G, c.B = 255, 255, 255
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, pattern()))
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, pattern(), &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}
