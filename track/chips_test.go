package track

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-track/dsp/chip"
	"github.com/cwbudde/algo-track/dsp/conv"
	"github.com/cwbudde/algo-track/dsp/window"
	"github.com/cwbudde/algo-track/internal/testutil"
	"gonum.org/v1/gonum/mat"
)

func TestCorrelateChipsRecoversShift(t *testing.T) {
	search := testutil.NoiseImage(21, 1, 32, 32)

	tests := []struct {
		dRow, dCol int
	}{
		{0, 0},
		{3, -2},
		{-5, 4},
		{6, 6},
		{-7, -1},
	}

	for _, mode := range []conv.Mode{conv.ModeSame, conv.ModeValid, conv.ModeFull} {
		for _, tt := range tests {
			// Zero lag places the reference at (8, 8); moving the cut by
			// (dRow, dCol) moves the matching content by the same amount.
			ref := testutil.Window(search, 8+tt.dRow, 8+tt.dCol, 16, 16)

			m, err := CorrelateChips(search, ref, mode)
			if err != nil {
				t.Fatalf("%v: CorrelateChips: %v", mode, err)
			}

			if math.Abs(m.OffsetX-float64(tt.dCol)) >= 0.5 || math.Abs(m.OffsetY-float64(tt.dRow)) >= 0.5 {
				t.Errorf("%v shift (%d, %d): offset (%v, %v)", mode, tt.dRow, tt.dCol, m.OffsetY, m.OffsetX)
			}
			if m.Strength < 5 {
				t.Errorf("%v shift (%d, %d): strength %v", mode, tt.dRow, tt.dCol, m.Strength)
			}
		}
	}
}

func TestCorrelateChipsOddSizes(t *testing.T) {
	search := testutil.NoiseImage(25, 1, 33, 33)

	tests := []struct {
		dRow, dCol int
	}{
		{0, 0},
		{2, -3},
		{-4, 1},
	}

	for _, mode := range []conv.Mode{conv.ModeSame, conv.ModeValid, conv.ModeFull} {
		for _, tt := range tests {
			// Integer halves put the zero-lag reference at 33/2 - 15/2 = 9.
			ref := testutil.Window(search, 9+tt.dRow, 9+tt.dCol, 15, 15)

			m, err := CorrelateChips(search, ref, mode)
			if err != nil {
				t.Fatalf("%v: CorrelateChips: %v", mode, err)
			}

			if math.Abs(m.OffsetX-float64(tt.dCol)) >= 0.5 || math.Abs(m.OffsetY-float64(tt.dRow)) >= 0.5 {
				t.Errorf("%v shift (%d, %d): offset (%v, %v)", mode, tt.dRow, tt.dCol, m.OffsetY, m.OffsetX)
			}
		}
	}
}

func TestCorrelateChipsConstantChip(t *testing.T) {
	search := mat.NewDense(32, 32, testutil.DC(4, 32*32))
	ref := testutil.NoiseImage(22, 1, 16, 16)

	m, err := CorrelateChips(search, ref, conv.ModeSame)
	if err != nil {
		t.Fatalf("CorrelateChips: %v", err)
	}

	testutil.RequireFinite(t, []float64{m.OffsetX, m.OffsetY, m.Strength})
	if m.Strength != 0 {
		t.Fatalf("strength %v, want 0 for a constant chip", m.Strength)
	}
}

func TestCorrelateChipsTaper(t *testing.T) {
	search := testutil.NoiseImage(23, 1, 32, 32)
	ref := testutil.Window(search, 10, 5, 16, 16)

	m, err := CorrelateChips(search, ref, conv.ModeSame, WithTaper(window.TypeHann))
	if err != nil {
		t.Fatalf("CorrelateChips: %v", err)
	}

	if math.Abs(m.OffsetY-2) >= 0.5 || math.Abs(m.OffsetX+3) >= 0.5 {
		t.Fatalf("offset (%v, %v), want ~(2, -3)", m.OffsetY, m.OffsetX)
	}
}

func TestCorrelateChipsDoesNotMutateInput(t *testing.T) {
	search := testutil.NoiseImage(24, 1, 16, 16)
	ref := testutil.Window(search, 4, 4, 8, 8)
	before := mat.DenseCopyOf(search)

	if _, err := CorrelateChips(search, ref, conv.ModeSame, WithTaper(window.TypeBlackman)); err != nil {
		t.Fatalf("CorrelateChips: %v", err)
	}

	testutil.RequireMatrixNearlyEqual(t, search, before, 0)
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name           string
		deltaX, deltaY float64
		ox, oy         int
		dx, dy         float64
		wantX, wantY   float64
	}{
		{"no shift", 1.5, -0.25, 0, 0, 30, 30, 45, -7.5},
		{"shift only", 0, 0, 3, -2, 15, 15, 45, -30},
		{"north-up", 0.5, 1, 2, 2, 10, -10, 25, -30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Convert(tt.deltaX, tt.deltaY, tt.ox, tt.oy, tt.dx, tt.dy)
			if x != tt.wantX || y != tt.wantY {
				t.Fatalf("Convert = (%v, %v), want (%v, %v)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestPrecheck(t *testing.T) {
	refSize := chip.Size{Width: 4, Height: 4}
	searchSize := chip.Size{Width: 8, Height: 8}

	withNaN := mat.NewDense(8, 8, nil)
	withNaN.Set(3, 5, math.NaN())

	tests := []struct {
		name        string
		ref, search *mat.Dense
		want        skipReason
	}{
		{"admitted", mat.NewDense(4, 4, nil), mat.NewDense(8, 8, nil), admitted},
		{"nil ref", nil, mat.NewDense(8, 8, nil), skipShape},
		{"truncated search", mat.NewDense(4, 4, nil), mat.NewDense(8, 5, nil), skipShape},
		{"missing sample", mat.NewDense(4, 4, nil), withNaN, skipNaNChip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := precheck(tt.ref, tt.search, refSize, searchSize); got != tt.want {
				t.Fatalf("precheck = %v, want %v", got, tt.want)
			}
		})
	}
}
