package track

import (
	"sort"

	"github.com/cwbudde/algo-track/dsp/chip"
	"github.com/cwbudde/algo-track/dsp/peak"
	"gonum.org/v1/gonum/mat"
)

// Point is a location in map coordinates.
type Point struct {
	X, Y float64
}

// Result is the displacement measured around one reference center.
type Result struct {
	Center   Point
	DX, DY   float64 // displacement in map units
	Strength float64
	Peak     peak.Peak
	ShiftX   int // search chip shift applied from the guess field, pixels
	ShiftY   int

	// RefChip and SearchChip are the raw chips that were correlated. They are
	// only retained by CorrelateScenesAtPoints.
	RefChip    *mat.Dense
	SearchChip *mat.Dense
}

// Stats counts what happened to the candidate centers of one run.
type Stats struct {
	Candidates     int
	SkippedMissing int // NaN in either scene at the center
	SkippedGuess   int // outside the guess field or guess is NaN
	SkippedShape   int // a chip crossed the scene border
	SkippedNaNChip int // a chip held missing samples
	Scheduled      int
	Completed      int
	Failed         int
}

func (s *Stats) skip(r skipReason) {
	switch r {
	case skipMissing:
		s.SkippedMissing++
	case skipGuess:
		s.SkippedGuess++
	case skipShape:
		s.SkippedShape++
	case skipNaNChip:
		s.SkippedNaNChip++
	}
}

// Skipped returns the total number of candidates that were not scheduled.
func (s Stats) Skipped() int {
	return s.SkippedMissing + s.SkippedGuess + s.SkippedShape + s.SkippedNaNChip
}

// Results holds the correlation results of one run in completion order.
type Results struct {
	Items []Result
	Stats Stats
}

// Len returns the number of results.
func (r *Results) Len() int {
	return len(r.Items)
}

// Points returns the reference centers.
func (r *Results) Points() []Point {
	out := make([]Point, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Center
	}
	return out
}

// Displacements returns an n x 2 matrix of (DX, DY) rows, or nil when empty.
func (r *Results) Displacements() *mat.Dense {
	if len(r.Items) == 0 {
		return nil
	}

	out := mat.NewDense(len(r.Items), 2, nil)
	for i, it := range r.Items {
		out.Set(i, 0, it.DX)
		out.Set(i, 1, it.DY)
	}
	return out
}

// Strengths returns the peak strengths.
func (r *Results) Strengths() []float64 {
	out := make([]float64, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Strength
	}
	return out
}

// RefChips stacks the retained reference chips, one flattened chip per row.
// It returns nil when no chips were retained.
func (r *Results) RefChips() *mat.Dense {
	chips := make([]*mat.Dense, len(r.Items))
	for i, it := range r.Items {
		chips[i] = it.RefChip
	}
	return chip.Stack(chips)
}

// SearchChips stacks the retained search chips, one flattened chip per row.
func (r *Results) SearchChips() *mat.Dense {
	chips := make([]*mat.Dense, len(r.Items))
	for i, it := range r.Items {
		chips[i] = it.SearchChip
	}
	return chip.Stack(chips)
}

// Filter returns the results whose strength is at least minStrength. Stats
// are copied unchanged.
func (r *Results) Filter(minStrength float64) *Results {
	out := &Results{Stats: r.Stats}
	for _, it := range r.Items {
		if it.Strength >= minStrength {
			out.Items = append(out.Items, it)
		}
	}
	return out
}

// SortByCenter orders the results by center Y, then X.
func (r *Results) SortByCenter() {
	sort.SliceStable(r.Items, func(i, j int) bool {
		a, b := r.Items[i].Center, r.Items[j].Center
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}
