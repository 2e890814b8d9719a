package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/mat"
)

// Plan2D computes in-place 2-D FFTs of row-major rows x cols buffers by
// transforming every row and then every column with 1-D plans.
//
// Both dimensions must be powers of two. A Plan2D holds scratch memory and is
// not safe for concurrent use.
type Plan2D struct {
	rows, cols int

	rowPlan *algofft.Plan[complex128]
	colPlan *algofft.Plan[complex128]

	column []complex128
}

// NewPlan2D creates a 2-D plan for rows x cols buffers.
func NewPlan2D(rows, cols int) (*Plan2D, error) {
	if !isPowerOf2(rows) || !isPowerOf2(cols) {
		return nil, fmt.Errorf("conv: FFT size %dx%d is not a power of two", rows, cols)
	}

	rowPlan, err := algofft.NewPlan64(cols)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	colPlan := rowPlan
	if rows != cols {
		colPlan, err = algofft.NewPlan64(rows)
		if err != nil {
			return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
		}
	}

	return &Plan2D{
		rows:    rows,
		cols:    cols,
		rowPlan: rowPlan,
		colPlan: colPlan,
		column:  make([]complex128, rows),
	}, nil
}

// Dims returns the buffer shape the plan transforms.
func (p *Plan2D) Dims() (rows, cols int) {
	return p.rows, p.cols
}

// Forward replaces data with its 2-D discrete Fourier transform.
func (p *Plan2D) Forward(data []complex128) error {
	return p.transform(data, false)
}

// Inverse replaces data with its normalized inverse 2-D transform.
func (p *Plan2D) Inverse(data []complex128) error {
	return p.transform(data, true)
}

func (p *Plan2D) transform(data []complex128, inverse bool) error {
	if len(data) != p.rows*p.cols {
		return fmt.Errorf("%w: buffer length %d, plan %dx%d", ErrShapeMismatch, len(data), p.rows, p.cols)
	}

	step := func(plan *algofft.Plan[complex128], buf []complex128) error {
		if inverse {
			return plan.Inverse(buf, buf)
		}
		return plan.Forward(buf, buf)
	}

	for i := 0; i < p.rows; i++ {
		row := data[i*p.cols : (i+1)*p.cols]
		if err := step(p.rowPlan, row); err != nil {
			return fmt.Errorf("conv: row FFT failed: %w", err)
		}
	}

	for j := 0; j < p.cols; j++ {
		for i := 0; i < p.rows; i++ {
			p.column[i] = data[i*p.cols+j]
		}

		if err := step(p.colPlan, p.column); err != nil {
			return fmt.Errorf("conv: column FFT failed: %w", err)
		}

		for i := 0; i < p.rows; i++ {
			data[i*p.cols+j] = p.column[i]
		}
	}

	return nil
}

// convolver performs FFT convolution for one fixed pair of input shapes.
type convolver struct {
	sRows, sCols int
	kRows, kCols int

	// full (unpadded) result shape
	fullRows, fullCols int

	plan *Plan2D

	signal []complex128
	kernel []complex128
}

func newConvolver(sRows, sCols, kRows, kCols int) (*convolver, error) {
	if sRows <= 0 || sCols <= 0 {
		return nil, ErrEmptyInput
	}
	if kRows <= 0 || kCols <= 0 {
		return nil, ErrEmptyKernel
	}

	fullRows := sRows + kRows - 1
	fullCols := sCols + kCols - 1

	plan, err := NewPlan2D(nextPowerOf2(fullRows), nextPowerOf2(fullCols))
	if err != nil {
		return nil, err
	}

	n := plan.rows * plan.cols

	return &convolver{
		sRows:    sRows,
		sCols:    sCols,
		kRows:    kRows,
		kCols:    kCols,
		fullRows: fullRows,
		fullCols: fullCols,
		plan:     plan,
		signal:   make([]complex128, n),
		kernel:   make([]complex128, n),
	}, nil
}

// process convolves signal with kernel, reversing the kernel along both axes
// first when reverse is set, and trims the result to mode.
func (c *convolver) process(signal, kernel mat.Matrix, reverse bool, mode Mode) (*mat.Dense, error) {
	if r, cc := signal.Dims(); r != c.sRows || cc != c.sCols {
		return nil, fmt.Errorf("%w: signal %dx%d, want %dx%d", ErrShapeMismatch, r, cc, c.sRows, c.sCols)
	}
	if r, cc := kernel.Dims(); r != c.kRows || cc != c.kCols {
		return nil, fmt.Errorf("%w: kernel %dx%d, want %dx%d", ErrShapeMismatch, r, cc, c.kRows, c.kCols)
	}

	stride := c.plan.cols

	clear(c.signal)
	clear(c.kernel)

	for i := 0; i < c.sRows; i++ {
		for j := 0; j < c.sCols; j++ {
			c.signal[i*stride+j] = complex(signal.At(i, j), 0)
		}
	}

	for i := 0; i < c.kRows; i++ {
		for j := 0; j < c.kCols; j++ {
			ii, jj := i, j
			if reverse {
				ii, jj = c.kRows-1-i, c.kCols-1-j
			}
			c.kernel[ii*stride+jj] = complex(kernel.At(i, j), 0)
		}
	}

	if err := c.plan.Forward(c.signal); err != nil {
		return nil, err
	}
	if err := c.plan.Forward(c.kernel); err != nil {
		return nil, err
	}

	for i := range c.signal {
		c.signal[i] *= c.kernel[i]
	}

	if err := c.plan.Inverse(c.signal); err != nil {
		return nil, err
	}

	full := make([]float64, c.fullRows*c.fullCols)
	for i := 0; i < c.fullRows; i++ {
		for j := 0; j < c.fullCols; j++ {
			full[i*c.fullCols+j] = real(c.signal[i*stride+j])
		}
	}

	return trimToMode(full, c.fullCols, c.sRows, c.sCols, c.kRows, c.kCols, mode), nil
}
