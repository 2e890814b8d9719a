package conv

import (
	"gonum.org/v1/gonum/mat"
)

// Correlator computes FFT-based cross-correlation surfaces for a fixed pair of
// search and reference chip shapes. Plans and scratch buffers are allocated
// once, so a Correlator should be reused for every chip pair of that shape
// handled by one goroutine.
type Correlator struct {
	c *convolver
}

// NewCorrelator creates a correlator for search chips of sRows x sCols and
// reference chips of rRows x rCols.
func NewCorrelator(sRows, sCols, rRows, rCols int) (*Correlator, error) {
	c, err := newConvolver(sRows, sCols, rRows, rCols)
	if err != nil {
		return nil, err
	}

	return &Correlator{c: c}, nil
}

// Accepts reports whether search and ref have the shapes the correlator was
// built for.
func (c *Correlator) Accepts(search, ref mat.Matrix) bool {
	sr, sc := search.Dims()
	rr, rc := ref.Dims()

	return sr == c.c.sRows && sc == c.c.sCols && rr == c.c.kRows && rc == c.c.kCols
}

// Correlate returns the cross-correlation surface of search and ref: search
// convolved with ref reversed along both axes, trimmed to mode.
func (c *Correlator) Correlate(search, ref mat.Matrix, mode Mode) (*mat.Dense, error) {
	if err := checkInputs(search, ref, mode); err != nil {
		return nil, err
	}

	return c.c.process(search, ref, true, mode)
}

// Correlate2D computes the cross-correlation surface of search and ref with a
// temporary FFT correlator.
func Correlate2D(search, ref mat.Matrix, mode Mode) (*mat.Dense, error) {
	if err := checkInputs(search, ref, mode); err != nil {
		return nil, err
	}

	sr, sc := search.Dims()
	rr, rc := ref.Dims()

	c, err := NewCorrelator(sr, sc, rr, rc)
	if err != nil {
		return nil, err
	}

	return c.Correlate(search, ref, mode)
}

// DirectCorrelate2D computes the cross-correlation surface in the spatial
// domain. It produces the same result as [Correlate2D] up to rounding.
func DirectCorrelate2D(search, ref mat.Matrix, mode Mode) (*mat.Dense, error) {
	if err := checkInputs(search, ref, mode); err != nil {
		return nil, err
	}

	return DirectConvolve2D(search, reversed(ref), mode)
}

// reversed returns m flipped along both axes.
func reversed(m mat.Matrix) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(rows-1-i, cols-1-j, m.At(i, j))
		}
	}

	return out
}

// ZeroLagIndex returns the index, along one axis of a correlation surface,
// at which a reference chip of length m cut around the same center pixel as a
// search chip of length n shows zero displacement. Chips are assumed to start
// at center - length/2, as produced by chip.Extract.
//
// For even lengths in ModeSame this is n/2.
func ZeroLagIndex(n, m int, mode Mode) int {
	start, _ := span(n, m, mode)

	// Offset of the reference start within the search chip at zero lag.
	lag := n/2 - m/2

	return lag + m - 1 - start
}
