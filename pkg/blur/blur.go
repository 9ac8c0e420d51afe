// Package blur hides sensitive regions of camera-trap images.
package blur

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/viltkamera/wcimport/pkg/source"
	"golang.org/x/image/draw"
)

// DefaultRadius is the standard deviation of the Gaussian kernel in
// source pixels.
const DefaultRadius = 50.0

// PixelRect converts a box in unit-square coordinates into pixel
// coordinates of an image with the given bounds. Coordinates are
// multiplied by width and height and rounded half to even. The result
// is clamped to bounds and may be empty.
func PixelRect(bounds image.Rectangle, box source.Box) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	r := image.Rect(
		bounds.Min.X+int(math.RoundToEven(box.XMin*w)),
		bounds.Min.Y+int(math.RoundToEven(box.YMin*h)),
		bounds.Min.X+int(math.RoundToEven(box.XMax*w)),
		bounds.Min.Y+int(math.RoundToEven(box.YMax*h)),
	)
	return r.Intersect(bounds)
}

// Region blurs the part of img covered by box in place. The region is
// cropped, blurred with a Gaussian of the given radius and pasted back
// at the same position. Pixels outside the region are not touched.
// It returns false when the box does not cover any pixel.
func Region(img draw.Image, box source.Box, radius float64) bool {
	r := PixelRect(img.Bounds(), box)
	if r.Empty() {
		return false
	}
	crop := imaging.Crop(img, r)
	blurred := imaging.Blur(crop, radius)
	draw.Draw(img, r, blurred, image.Point{}, draw.Src)
	return true
}
