package conv

import (
	"errors"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-track/internal/testutil"
	"gonum.org/v1/gonum/mat"
)

func argmax(m *mat.Dense) (row, col int) {
	rows, cols := m.Dims()
	best := m.At(0, 0)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := m.At(i, j); v > best {
				best, row, col = v, i, j
			}
		}
	}
	return row, col
}

func TestDirectConvolve2D(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *mat.Dense
		mode     Mode
		expected *mat.Dense
	}{
		{
			name:     "row kernel full",
			a:        mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
			b:        mat.NewDense(1, 2, []float64{1, 1}),
			mode:     ModeFull,
			expected: mat.NewDense(2, 3, []float64{1, 3, 2, 3, 7, 4}),
		},
		{
			name:     "impulse kernel same",
			a:        mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}),
			b:        mat.NewDense(1, 1, []float64{2}),
			mode:     ModeSame,
			expected: mat.NewDense(2, 3, []float64{2, 4, 6, 8, 10, 12}),
		},
		{
			name:     "box kernel valid",
			a:        mat.NewDense(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}),
			b:        mat.NewDense(2, 2, []float64{1, 1, 1, 1}),
			mode:     ModeValid,
			expected: mat.NewDense(2, 2, []float64{12, 16, 24, 28}),
		},
		{
			name:     "box kernel same",
			a:        mat.NewDense(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}),
			b:        mat.NewDense(3, 3, []float64{0, 0, 0, 0, 1, 0, 0, 0, 0}),
			mode:     ModeSame,
			expected: mat.NewDense(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DirectConvolve2D(tt.a, tt.b, tt.mode)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.RequireMatrixNearlyEqual(t, result, tt.expected, 1e-12)
		})
	}
}

func TestConvolve2DMatchesDirect(t *testing.T) {
	signal := testutil.NoiseImage(11, 1, 13, 17)
	kernels := map[string]*mat.Dense{
		"small": testutil.NoiseImage(12, 1, 3, 4),
		"large": testutil.NoiseImage(13, 1, 9, 10),
	}

	for name, kernel := range kernels {
		for _, mode := range []Mode{ModeFull, ModeSame, ModeValid} {
			t.Run(name+"/"+mode.String(), func(t *testing.T) {
				direct, err := DirectConvolve2D(signal, kernel, mode)
				if err != nil {
					t.Fatalf("direct convolution failed: %v", err)
				}

				auto, err := Convolve2D(signal, kernel, mode)
				if err != nil {
					t.Fatalf("convolution failed: %v", err)
				}

				testutil.RequireMatrixNearlyEqual(t, auto, direct, 1e-9)
			})
		}
	}
}

func TestOutputDims(t *testing.T) {
	tests := []struct {
		mode               Mode
		sr, sc, kr, kc     int
		wantRows, wantCols int
	}{
		{ModeFull, 32, 32, 16, 16, 47, 47},
		{ModeSame, 32, 24, 16, 8, 32, 24},
		{ModeValid, 32, 24, 16, 8, 17, 17},
		{ModeValid, 8, 8, 12, 10, 5, 3},
	}

	for _, tt := range tests {
		rows, cols := OutputDims(tt.sr, tt.sc, tt.kr, tt.kc, tt.mode)
		if rows != tt.wantRows || cols != tt.wantCols {
			t.Errorf("%v %dx%d * %dx%d: got %dx%d, want %dx%d",
				tt.mode, tt.sr, tt.sc, tt.kr, tt.kc, rows, cols, tt.wantRows, tt.wantCols)
		}
	}
}

func TestConvolveErrors(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	if _, err := DirectConvolve2D(&mat.Dense{}, a, ModeFull); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := Convolve2D(a, &mat.Dense{}, ModeFull); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}
	if _, err := Convolve2D(a, a, Mode(7)); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for _, mode := range []Mode{ModeFull, ModeSame, ModeValid} {
		got, err := ParseMode(mode.String())
		if err != nil || got != mode {
			t.Errorf("ParseMode(%q) = %v, %v", mode.String(), got, err)
		}
	}

	if _, err := ParseMode("circular"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
}

func TestPlan2DRoundTrip(t *testing.T) {
	plan, err := NewPlan2D(8, 16)
	if err != nil {
		t.Fatalf("NewPlan2D: %v", err)
	}

	noise := testutil.DeterministicNoise(5, 1, 8*16)
	data := make([]complex128, len(noise))
	for i, v := range noise {
		data[i] = complex(v, 0)
	}

	if err := plan.Forward(data); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	// DC bin holds the sum of all samples.
	var sum float64
	for _, v := range noise {
		sum += v
	}
	if cmplx.Abs(data[0]-complex(sum, 0)) > 1e-9 {
		t.Fatalf("DC bin = %v, want %v", data[0], sum)
	}

	if err := plan.Inverse(data); err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	for i, v := range noise {
		if cmplx.Abs(data[i]-complex(v, 0)) > 1e-12 {
			t.Fatalf("index %d: got %v, want %v", i, data[i], v)
		}
	}
}

func TestPlan2DErrors(t *testing.T) {
	if _, err := NewPlan2D(6, 8); err == nil {
		t.Fatal("expected error for non power-of-two rows")
	}

	plan, err := NewPlan2D(4, 4)
	if err != nil {
		t.Fatalf("NewPlan2D: %v", err)
	}

	if err := plan.Forward(make([]complex128, 8)); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}
