// Package peak locates the maximum of a correlation surface, refines it to
// subpixel precision and scores how distinct it is from the background.
package peak

import (
	"math"

	"github.com/cwbudde/algo-track/stats/surface"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultEpsilon is the margin added below the surface minimum before taking
// logarithms during subpixel refinement.
const DefaultEpsilon = 1e-3

// SentinelStd replaces a zero surface standard deviation in Strength.
const SentinelStd = math.MaxFloat32

// Peak is the integer location and value of a surface maximum.
type Peak struct {
	Row, Col int
	Value    float64
}

// Find returns the first maximum of m in row-major order. Row and column are
// derived from the flat index by integer division.
func Find(m *mat.Dense) Peak {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return Peak{}
	}

	values := surface.Flatten(m)
	idx := floats.MaxIdx(values)

	return Peak{Row: idx / cols, Col: idx % cols, Value: values[idx]}
}

// OnBorder reports whether p lies on the first or last row or column of m.
func OnBorder(m *mat.Dense, p Peak) bool {
	rows, cols := m.Dims()
	return p.Row <= 0 || p.Col <= 0 || p.Row >= rows-1 || p.Col >= cols-1
}

// Subpixel refines p with a three-point Gaussian fit on each axis
// (Debella-Gilo and Kääb, 2011). Samples are shifted by min(m)-eps so the
// logarithms stay defined. A peak on the border of m is returned unrefined.
// An axis whose fit degenerates keeps its integer position.
func Subpixel(m *mat.Dense, p Peak, eps float64) (row, col float64) {
	row, col = float64(p.Row), float64(p.Col)
	if OnBorder(m, p) {
		return row, col
	}

	shift := floats.Min(surface.Flatten(m)) - eps
	tap := func(i, j int) float64 {
		return mathLog(m.At(i, j) - shift)
	}

	c0 := tap(p.Row, p.Col)
	row += gaussOffset(tap(p.Row-1, p.Col), c0, tap(p.Row+1, p.Col))
	col += gaussOffset(tap(p.Row, p.Col-1), c0, tap(p.Row, p.Col+1))

	return row, col
}

// gaussOffset fits a parabola through three log samples and returns the
// vertex position relative to the center sample.
func gaussOffset(lm, l0, lp float64) float64 {
	den := 2*lp - 4*l0 + 2*lm
	if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
		return 0
	}

	d := (lm - lp) / den
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}

	return d
}

// Strength returns the z-score of value against the samples of m. A flat
// surface is scored against SentinelStd, so the result is always finite for
// finite input.
func Strength(m *mat.Dense, value float64) float64 {
	s := surface.Calculate(m)
	return s.ZScore(value, SentinelStd)
}
