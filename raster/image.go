package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// FromImage converts img to a single-band grid of luminance values in [0, 255].
// Fully transparent pixels become NaN. Row 0 of the grid is the top row of the
// image.
func FromImage(img image.Image, t Transform) (*Grid, error) {
	gray := imaging.Grayscale(img)
	bounds := gray.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()
	if rows == 0 || cols == 0 {
		return nil, ErrEmptyGrid
	}

	values := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		line := gray.Pix[i*gray.Stride : i*gray.Stride+4*cols]
		for j := 0; j < cols; j++ {
			px := line[4*j : 4*j+4]
			if px[3] == 0 {
				values.Set(i, j, math.NaN())
				continue
			}

			values.Set(i, j, float64(px[0]))
		}
	}

	return NewGrid(values, t)
}

// LoadImage decodes the image file at path and converts it with [FromImage].
func LoadImage(path string, t Transform) (*Grid, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("raster: load %s: %w", path, err)
	}

	return FromImage(img, t)
}
