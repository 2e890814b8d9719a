// Package surface computes summary statistics of correlation surfaces and
// other dense 2-D grids.
package surface

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Stats holds summary statistics of a 2-D surface.
type Stats struct {
	Rows, Cols int
	Mean       float64
	Std        float64 // population standard deviation
	Min        float64
	Max        float64
	MaxRow     int
	MaxCol     int
	Range      float64 // max - min
}

// Calculate computes the statistics of m. Rows and columns of the maximum are
// derived from its row-major flat index with integer division. NaN samples
// propagate into Mean and Std.
func Calculate(m *mat.Dense) Stats {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return Stats{}
	}

	values := Flatten(m)

	mean, std := stat.PopMeanStdDev(values, nil)
	idx := floats.MaxIdx(values)
	minVal := floats.Min(values)
	maxVal := values[idx]

	return Stats{
		Rows:   rows,
		Cols:   cols,
		Mean:   mean,
		Std:    std,
		Min:    minVal,
		Max:    maxVal,
		MaxRow: idx / cols,
		MaxCol: idx % cols,
		Range:  maxVal - minVal,
	}
}

// ZScore returns (v - Mean) / Std. A zero Std is replaced by floor so the
// score stays finite.
func (s Stats) ZScore(v, floor float64) float64 {
	std := s.Std
	if std == 0 || math.IsNaN(std) {
		std = floor
	}

	return (v - s.Mean) / std
}

// Flatten returns the samples of m in row-major order. Contiguous matrices are
// returned without copying, so callers must not modify the result.
func Flatten(m *mat.Dense) []float64 {
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
