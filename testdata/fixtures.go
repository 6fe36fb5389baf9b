// Package testdata builds synthetic client captures for tests.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
)

// Frame returns a BGR frame of the given size with a filled disc in the
// middle. The caller must Close it.
func Frame(width, height int) gocv.Mat {
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(40, 40, 40, 0))
	gocv.Circle(&mat, image.Pt(width/2, height/2), min(width, height)/4, color.RGBA{R: 220, G: 180, B: 150, A: 255}, -1)
	return mat
}

// FrameDataURL returns a JPEG data URL of a width x height frame, the way a
// browser canvas would send it. The mock detector scripts results by width,
// so tests use distinct widths to give players distinct hands.
func FrameDataURL(width, height int) (string, error) {
	mat := Frame(width, height)
	defer mat.Close()
	return capture.EncodeDataURL(mat)
}
