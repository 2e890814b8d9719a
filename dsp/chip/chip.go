// Package chip extracts and conditions the rectangular windows ("chips") that
// are matched against each other by the correlator.
//
// Chips are *mat.Dense values owned by the caller that created them. Every
// function in this package returns fresh storage and never mutates its input.
package chip

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Size is a chip size in pixels.
type Size struct {
	Width  int // columns
	Height int // rows
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Matches reports whether m has exactly this size.
func (s Size) Matches(m mat.Matrix) bool {
	if m == nil {
		return false
	}

	rows, cols := m.Dims()

	return rows == s.Height && cols == s.Width
}

// Extract copies the window of the given size centered on pixel (row, col).
// The window starts at (row - Height/2, col - Width/2). Windows crossing the
// matrix border are truncated, not padded, so the result may be smaller than
// size; nil is returned when nothing of the window lies inside m.
func Extract(m mat.Matrix, row, col int, size Size) *mat.Dense {
	rows, cols := m.Dims()

	r0 := max(row-size.Height/2, 0)
	c0 := max(col-size.Width/2, 0)
	r1 := min(row-size.Height/2+size.Height, rows)
	c1 := min(col-size.Width/2+size.Width, cols)

	if r0 >= r1 || c0 >= c1 {
		return nil
	}

	out := mat.NewDense(r1-r0, c1-c0, nil)
	for i := r0; i < r1; i++ {
		for j := c0; j < c1; j++ {
			out.Set(i-r0, j-c0, m.At(i, j))
		}
	}

	return out
}

// HasMissing reports whether m contains a NaN sample.
func HasMissing(m *mat.Dense) bool {
	return floats.HasNaN(data(m))
}

// Normalize returns m rescaled to zero mean and unit population standard
// deviation. A constant chip yields an all-zero chip of the same shape.
func Normalize(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	values := append([]float64(nil), data(m)...)

	mean, std := stat.PopMeanStdDev(values, nil)
	if std == 0 || math.IsNaN(std) {
		return mat.NewDense(rows, cols, nil)
	}

	floats.AddConst(-mean, values)
	floats.Scale(1/std, values)

	return mat.NewDense(rows, cols, values)
}

// Stack copies chips into a single matrix, one chip per row, each flattened
// row-major. All chips must share the shape of the first one; nil is returned
// for an empty or ragged input.
func Stack(chips []*mat.Dense) *mat.Dense {
	if len(chips) == 0 || chips[0] == nil {
		return nil
	}

	rows, cols := chips[0].Dims()
	out := mat.NewDense(len(chips), rows*cols, nil)

	for k, c := range chips {
		if c == nil {
			return nil
		}
		if r, cc := c.Dims(); r != rows || cc != cols {
			return nil
		}

		out.SetRow(k, data(c))
	}

	return out
}

// data returns the samples of m in row-major order. Contiguous matrices are
// returned without copying.
func data(m *mat.Dense) []float64 {
	raw := m.RawMatrix()
	if raw.Stride == raw.Cols {
		return raw.Data[:raw.Rows*raw.Cols]
	}

	out := make([]float64, 0, raw.Rows*raw.Cols)
	for i := 0; i < raw.Rows; i++ {
		out = append(out, raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols]...)
	}

	return out
}
