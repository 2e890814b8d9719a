package surface

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCalculate(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{
		1, -2, 3,
		4, 9, 0,
	})

	s := Calculate(m)

	if s.Rows != 2 || s.Cols != 3 {
		t.Fatalf("dims = %dx%d, want 2x3", s.Rows, s.Cols)
	}
	if s.MaxRow != 1 || s.MaxCol != 1 {
		t.Fatalf("max at (%d, %d), want (1, 1)", s.MaxRow, s.MaxCol)
	}
	if s.Max != 9 || s.Min != -2 || s.Range != 11 {
		t.Fatalf("max/min/range = %v/%v/%v, want 9/-2/11", s.Max, s.Min, s.Range)
	}
	if math.Abs(s.Mean-2.5) > 1e-12 {
		t.Fatalf("mean = %v, want 2.5", s.Mean)
	}

	// population variance: sum((x-2.5)^2)/6 = 73.5/6, so std is exactly 3.5
	if want := math.Sqrt(73.5 / 6); math.Abs(s.Std-want) > 1e-12 || math.Abs(s.Std-3.5) > 1e-12 {
		t.Fatalf("std = %v, want %v", s.Std, want)
	}
}

func TestCalculateFlatIndexRowMajor(t *testing.T) {
	// The maximum sits on the last column; a float-based row computation
	// would be tempted to round it into the next row.
	tests := []struct {
		rows, cols int
		row, col   int
	}{
		{4, 7, 0, 6},
		{4, 7, 2, 6},
		{4, 7, 3, 0},
		{5, 5, 4, 4},
	}

	for _, tt := range tests {
		m := mat.NewDense(tt.rows, tt.cols, nil)
		m.Set(tt.row, tt.col, 1)

		s := Calculate(m)
		if s.MaxRow != tt.row || s.MaxCol != tt.col {
			t.Errorf("%dx%d: max at (%d, %d), want (%d, %d)",
				tt.rows, tt.cols, s.MaxRow, s.MaxCol, tt.row, tt.col)
		}
	}
}

func TestCalculateView(t *testing.T) {
	m := mat.NewDense(4, 4, []float64{
		0, 0, 0, 0,
		0, 1, 5, 0,
		0, 2, 3, 0,
		0, 0, 0, 99,
	})
	view := m.Slice(1, 3, 1, 3).(*mat.Dense)

	s := Calculate(view)
	if s.Max != 5 || s.MaxRow != 0 || s.MaxCol != 1 {
		t.Fatalf("view max %v at (%d, %d), want 5 at (0, 1)", s.Max, s.MaxRow, s.MaxCol)
	}
	if math.Abs(s.Mean-2.75) > 1e-12 {
		t.Fatalf("view mean = %v, want 2.75", s.Mean)
	}
}

func TestZScore(t *testing.T) {
	s := Stats{Mean: 1, Std: 2}
	if got := s.ZScore(5, 1e9); got != 2 {
		t.Fatalf("ZScore = %v, want 2", got)
	}

	flat := Stats{Mean: 3, Std: 0}
	got := flat.ZScore(3, math.MaxFloat32)
	if math.IsNaN(got) || math.IsInf(got, 0) || got != 0 {
		t.Fatalf("flat ZScore = %v, want 0", got)
	}
}
