package track

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-track/dsp/chip"
	"github.com/cwbudde/algo-track/raster"
)

// CorrelateScenes runs [Engine.CorrelateScenes] with the given chip sizes,
// grid resolution and worker count. A non-positive workers value uses one
// worker per CPU.
func CorrelateScenes(ctx context.Context, earlier, later raster.Scene, guessU, guessV raster.Field, dt float64,
	searchSize, refSize chip.Size, resolution Spacing, workers int,
) (*Results, error) {
	if !resolution.valid() {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidResolution, resolution)
	}

	e, err := newSized(searchSize, refSize, WithResolution(resolution), WithWorkers(workers))
	if err != nil {
		return nil, err
	}

	return e.CorrelateScenes(ctx, earlier, later, guessU, guessV, dt)
}

// CorrelateScenesAtPoints runs [Engine.CorrelateScenesAtPoints] with the given
// chip sizes and worker count.
func CorrelateScenesAtPoints(ctx context.Context, earlier, later raster.Scene, guessU, guessV raster.Field, dt float64,
	points []Point, searchSize, refSize chip.Size, workers int,
) (*Results, error) {
	e, err := newSized(searchSize, refSize, WithWorkers(workers))
	if err != nil {
		return nil, err
	}

	return e.CorrelateScenesAtPoints(ctx, earlier, later, guessU, guessV, dt, points)
}

func newSized(searchSize, refSize chip.Size, opts ...Option) (*Engine, error) {
	if !searchSize.Valid() || !refSize.Valid() {
		return nil, fmt.Errorf("%w: search %+v, reference %+v", ErrInvalidSize, searchSize, refSize)
	}

	return New(append([]Option{WithSearchSize(searchSize), WithRefSize(refSize)}, opts...)...)
}
