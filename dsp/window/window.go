// Package window generates separable tapers for image chips.
//
// A taper attenuates chip edges before correlation so that the implicit
// zero padding of the correlator does not dominate the peak.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeTukey
	TypeGauss
)

var typeNames = map[Type]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeHamming:     "hamming",
	TypeBlackman:    "blackman",
	TypeTukey:       "tukey",
	TypeGauss:       "gauss",
}

var (
	hannCoeffs     = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

// String returns the lower-case window name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return "unknown"
}

// Parse returns the Type named s.
func Parse(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}

	return TypeRectangular, unknownType(s)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha    float64
	periodic bool
}

func defaultConfig() config {
	return config{alpha: 0.5}
}

// WithAlpha configures the taper fraction for Tukey and the width for Gauss.
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 {
			c.alpha = v
		}
	}
}

// WithPeriodic configures periodic form instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		x := samplePosition(i, length, cfg.periodic)
		out[i] = evalWindow(t, x, cfg)
	}

	return out
}

// Coefficients2D returns the separable rows x cols window as a row-major
// slice, the outer product of the row and column windows.
func Coefficients2D(t Type, rows, cols int, opts ...Option) ([]float64, error) {
	if err := validateShape(rows, cols); err != nil {
		return nil, err
	}

	wr := Generate(t, rows, opts...)
	wc := Generate(t, cols, opts...)

	out := make([]float64, rows*cols)
	for i, g := range wr {
		vecmath.ScaleBlock(out[i*cols:(i+1)*cols], wc, g)
	}

	return out, nil
}

// Apply2D multiplies m in place by the separable window of its shape.
func Apply2D(t Type, m *mat.Dense, opts ...Option) error {
	rows, cols := m.Dims()

	coeffs, err := Coefficients2D(t, rows, cols, opts...)
	if err != nil {
		return err
	}

	raw := m.RawMatrix()
	for i := 0; i < rows; i++ {
		vecmath.MulBlockInPlace(raw.Data[i*raw.Stride:i*raw.Stride+cols], coeffs[i*cols:(i+1)*cols])
	}

	return nil
}

func evalWindow(t Type, x float64, cfg config) float64 {
	if x < 0 {
		x = 0
	}

	if x > 1 {
		x = 1
	}

	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	case TypeTukey:
		return tukeyAt(x, cfg.alpha)
	case TypeGauss:
		if cfg.alpha == 0 {
			return 1
		}

		v := (2*x - 1) / cfg.alpha
		return math.Exp(-math.Ln2 * v * v)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0.5
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

func tukeyAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}

	if alpha >= 1 {
		return cosineFromCoeffs(x, hannCoeffs)
	}

	a := alpha / 2
	switch {
	case x < a:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-1)))
	case x <= 1-a:
		return 1
	default:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-2/alpha+1)))
	}
}
