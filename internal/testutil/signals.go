package testutil

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// NoiseImage returns a rows x cols matrix of seeded white noise in
// [-amplitude, amplitude).
func NoiseImage(seed int64, amplitude float64, rows, cols int) *mat.Dense {
	return mat.NewDense(rows, cols, DeterministicNoise(seed, amplitude, rows*cols))
}

// Impulse2D returns a rows x cols matrix that is zero except for a unit
// sample at (row, col).
func Impulse2D(rows, cols, row, col int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	if row >= 0 && row < rows && col >= 0 && col < cols {
		m.Set(row, col, 1)
	}
	return m
}

// Window copies the rows x cols window of src whose top-left sample is
// (r0, c0).
func Window(src mat.Matrix, r0, c0, rows, cols int) *mat.Dense {
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, src.At(r0+i, c0+j))
		}
	}
	return out
}

// Translate returns the rows x cols window of src at (r0, c0) with its content
// moved by (dRow, dCol): out[i][j] = src[r0+i-dRow][c0+j-dCol]. src must be
// large enough to supply every sample.
func Translate(src mat.Matrix, r0, c0, rows, cols, dRow, dCol int) *mat.Dense {
	return Window(src, r0-dRow, c0-dCol, rows, cols)
}

// ShiftBlock returns a copy of src in which the block of height h and width w
// at (r0, c0) holds src content moved by (dRow, dCol). Samples outside the
// block are unchanged.
func ShiftBlock(src mat.Matrix, r0, c0, h, w, dRow, dCol int) *mat.Dense {
	out := mat.DenseCopyOf(src)
	for i := r0; i < r0+h; i++ {
		for j := c0; j < c0+w; j++ {
			out.Set(i, j, src.At(i-dRow, j-dCol))
		}
	}
	return out
}
