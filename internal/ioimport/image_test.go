package ioimport

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viltkamera/wcimport/pkg/config"
	"github.com/viltkamera/wcimport/pkg/errcode"
	"github.com/viltkamera/wcimport/pkg/source"
)

func testPNG(t *testing.T) []byte {
	img := image.NewGray(image.Rect(0, 0, 40, 20))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBlurImage(t *testing.T) {
	cfg := config.New().Blur
	data := testPNG(t)

	tests := []struct {
		msg     string
		boxes   []source.Box
		same    bool
		regions int
	}{
		{
			msg:  "no boxes",
			same: true,
		},
		{
			msg:   "zero area box",
			boxes: []source.Box{{XMin: 0.5, YMin: 0.5, XMax: 0.5, YMax: 0.9}},
			same:  true,
		},
		{
			msg:   "box outside the image",
			boxes: []source.Box{{XMin: 1.2, YMin: 1.2, XMax: 1.5, YMax: 1.5}},
			same:  true,
		},
		{
			msg:     "one box",
			boxes:   []source.Box{{XMin: 0, YMin: 0, XMax: 0.5, YMax: 0.5}},
			regions: 1,
		},
		{
			msg: "two boxes, one empty",
			boxes: []source.Box{
				{XMin: 0, YMin: 0, XMax: 0.5, YMax: 0.5},
				{XMin: 0.7, YMin: 0.7, XMax: 0.7, YMax: 0.7},
			},
			regions: 1,
		},
	}

	for _, v := range tests {
		res, err := blurImage("img", data, v.boxes, cfg)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.regions, res.regions, v.msg)
		assert.Equal(t, "image/png", res.contentType, v.msg)
		assert.Equal(t, v.same, bytes.Equal(data, res.data), v.msg)
	}
}

func TestBlurImageDecodeError(t *testing.T) {
	cfg := config.New().Blur
	data := []byte("not an image")

	res, err := blurImage("x", data, nil, cfg)
	require.NoError(t, err, "nothing to blur, nothing to decode")
	assert.Equal(t, data, res.data)

	box := []source.Box{{XMax: 1, YMax: 1}}
	_, err = blurImage("x", data, box, cfg)
	require.Error(t, err)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ImageDecodeError, gnErr.Code)
}
