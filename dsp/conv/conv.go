package conv

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput    = errors.New("conv: empty input")
	ErrEmptyKernel   = errors.New("conv: empty kernel")
	ErrShapeMismatch = errors.New("conv: input shape does not match correlator")
	ErrInvalidMode   = errors.New("conv: invalid mode")
)

// Mode specifies the output mode for convolution and correlation.
type Mode int

const (
	// ModeFull returns the full result with extent n+m-1 on each axis.
	ModeFull Mode = iota

	// ModeSame returns output with the same shape as the first input.
	ModeSame

	// ModeValid returns only the portion where the inputs fully overlap,
	// with extent max(n, m) - min(n, m) + 1 on each axis.
	ModeValid
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeSame:
		return "same"
	case ModeValid:
		return "valid"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode returns the Mode named s ("full", "same" or "valid").
func ParseMode(s string) (Mode, error) {
	switch s {
	case "full":
		return ModeFull, nil
	case "same":
		return ModeSame, nil
	case "valid":
		return ModeValid, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

func (m Mode) valid() bool {
	return m == ModeFull || m == ModeSame || m == ModeValid
}

// span returns the start index and extent, within a full result of length
// n+m-1, that the mode keeps along one axis.
func span(n, m int, mode Mode) (start, length int) {
	switch mode {
	case ModeSame:
		return (m - 1) / 2, n
	case ModeValid:
		if n >= m {
			return m - 1, n - m + 1
		}
		return n - 1, m - n + 1
	default:
		return 0, n + m - 1
	}
}

// OutputDims returns the surface shape for a signal of sRows x sCols and a
// kernel of kRows x kCols.
func OutputDims(sRows, sCols, kRows, kCols int, mode Mode) (rows, cols int) {
	_, rows = span(sRows, kRows, mode)
	_, cols = span(sCols, kCols, mode)

	return rows, cols
}

// DirectConvolve2D performs spatial-domain 2-D linear convolution of a with
// kernel b and trims the result to mode.
//
// This is an O(N*M) algorithm suitable for small kernels. For larger kernels,
// use the FFT-based [Correlator] or [Convolve2D].
func DirectConvolve2D(a, b mat.Matrix, mode Mode) (*mat.Dense, error) {
	if err := checkInputs(a, b, mode); err != nil {
		return nil, err
	}

	ar, ac := a.Dims()
	br, bc := b.Dims()
	fr, fc := ar+br-1, ac+bc-1
	full := make([]float64, fr*fc)

	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			av := a.At(i, j)
			if av == 0 {
				continue
			}

			for k := 0; k < br; k++ {
				row := full[(i+k)*fc+j:]
				for l := 0; l < bc; l++ {
					row[l] += av * b.At(k, l)
				}
			}
		}
	}

	return trimToMode(full, fc, ar, ac, br, bc, mode), nil
}

// Convolve2D performs 2-D linear convolution with automatic algorithm
// selection. Kernels with at most directThreshold samples use direct
// convolution, larger ones the FFT.
func Convolve2D(a, b mat.Matrix, mode Mode) (*mat.Dense, error) {
	if err := checkInputs(a, b, mode); err != nil {
		return nil, err
	}

	const directThreshold = 64

	br, bc := b.Dims()
	if br*bc <= directThreshold {
		return DirectConvolve2D(a, b, mode)
	}

	ar, ac := a.Dims()

	c, err := newConvolver(ar, ac, br, bc)
	if err != nil {
		return nil, err
	}

	return c.process(a, b, false, mode)
}

func checkInputs(a, b mat.Matrix, mode Mode) error {
	if a == nil || isEmpty(a) {
		return ErrEmptyInput
	}
	if b == nil || isEmpty(b) {
		return ErrEmptyKernel
	}
	if !mode.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}

	return nil
}

func isEmpty(m mat.Matrix) bool {
	r, c := m.Dims()
	return r == 0 || c == 0
}

// trimToMode extracts the appropriate window of a row-major full result with
// row stride fullCols.
func trimToMode(full []float64, fullCols, ar, ac, br, bc int, mode Mode) *mat.Dense {
	r0, rows := span(ar, br, mode)
	c0, cols := span(ac, bc, mode)

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		src := full[(r0+i)*fullCols+c0 : (r0+i)*fullCols+c0+cols]
		out.SetRow(i, src)
	}

	return out
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// isPowerOf2 returns true if n is a power of 2.
func isPowerOf2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
