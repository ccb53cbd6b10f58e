package images_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/indysafe/safety-bot-api/images"
	"github.com/stretchr/testify/assert"
)

func checkerboard(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.NRGBA{A: 255}
			if (x+y)%2 == 0 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestBlurRegionsChangesInsideOnly(t *testing.T) {
	src := checkerboard(80)
	region := image.Rect(20, 20, 60, 60)

	out := images.BlurRegions(src, []image.Rectangle{region})

	// A hard blur turns the checkerboard mid-gray at the region
	// center.
	assert.NotEqual(t, src.At(40, 40), out.At(40, 40))

	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			if image.Pt(x, y).In(region) {
				continue
			}
			assert.Equal(t, src.At(x, y), out.At(x, y), "pixel (%d,%d) outside the region changed", x, y)
		}
	}
}

func TestBlurRegionsNoRegions(t *testing.T) {
	src := checkerboard(16)
	out := images.BlurRegions(src, nil)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			assert.Equal(t, src.At(x, y), out.At(x, y))
		}
	}
}

func TestBlurRegionsClipsToBounds(t *testing.T) {
	src := checkerboard(16)
	out := images.BlurRegions(src, []image.Rectangle{image.Rect(-10, -10, 200, 200)})

	assert.Equal(t, src.Bounds(), out.Bounds())
	assert.NotEqual(t, src.At(8, 8), out.At(8, 8))
}

func TestBlurRegionsDoesNotMutateSource(t *testing.T) {
	src := checkerboard(32)
	before := src.At(16, 16)

	_ = images.BlurRegions(src, []image.Rectangle{image.Rect(0, 0, 32, 32)})
	assert.Equal(t, before, src.At(16, 16))
}
