package ioimport

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/viltkamera/wcimport/pkg/blur"
	"github.com/viltkamera/wcimport/pkg/config"
	"github.com/viltkamera/wcimport/pkg/source"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// blurred is the result of the privacy transform.
type blurred struct {
	data        []byte
	contentType string
	regions     int
}

// blurImage blurs boxes of an encoded image. Images without boxes to
// blur are returned as they are, byte for byte. Blurred JPEG images
// stay JPEG, any other format is written as PNG.
func blurImage(
	imageID string,
	data []byte,
	boxes []source.Box,
	cfg config.BlurConfig,
) (blurred, error) {
	res := blurred{data: data, contentType: http.DetectContentType(data)}
	if len(boxes) == 0 {
		return res, nil
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return res, DecodeError(imageID, err)
	}

	img := imaging.Clone(src)
	for _, v := range boxes {
		if blur.Region(img, v, cfg.Radius) {
			res.regions++
		}
	}
	if res.regions == 0 {
		return res, nil
	}

	out := imaging.PNG
	res.contentType = "image/png"
	if format == "jpeg" {
		out = imaging.JPEG
		res.contentType = "image/jpeg"
	}

	var buf bytes.Buffer
	err = imaging.Encode(&buf, img, out, imaging.JPEGQuality(cfg.JPEGQuality))
	if err != nil {
		return res, EncodeError(imageID, err)
	}
	res.data = buf.Bytes()
	return res, nil
}
