package track

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-track/dsp/conv"
	"github.com/cwbudde/algo-track/raster"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Engine correlates pairs of scenes. An Engine is immutable and may be used
// by several goroutines at once.
type Engine struct {
	cfg Config
}

// New creates an engine from the default config and opts.
func New(opts ...Option) (*Engine, error) {
	cfg := ApplyOptions(opts...)

	if cfg.Mode == conv.ModeValid &&
		(cfg.RefSize.Width > cfg.SearchSize.Width || cfg.RefSize.Height > cfg.SearchSize.Height) {
		return nil, fmt.Errorf("%w: reference %dx%d exceeds search %dx%d in valid mode",
			ErrInvalidSize, cfg.RefSize.Width, cfg.RefSize.Height, cfg.SearchSize.Width, cfg.SearchSize.Height)
	}

	return &Engine{cfg: cfg}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// scenePair holds both scenes clipped to their common valid-data extent.
type scenePair struct {
	earlier, later raster.Scene
	box            raster.BBox
}

func clipPair(earlier, later raster.Scene) (*scenePair, error) {
	if earlier == nil || later == nil {
		return nil, fmt.Errorf("%w: nil scene", ErrInputMismatch)
	}

	a, b := earlier.DataBBox(), later.DataBBox()

	box, ok := raster.Overlap(a, b)
	if !ok {
		return nil, fmt.Errorf("%w: data extents %v and %v", ErrInputMismatch, a, b)
	}

	ec, err := earlier.Clip(box)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputMismatch, err)
	}

	lc, err := later.Clip(box)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputMismatch, err)
	}

	return &scenePair{earlier: ec, later: lc, box: box}, nil
}

// grid returns the regular sampling centers inside the common extent of the
// clipped scenes, inset by one pixel on every side.
func (p *scenePair) grid(step Spacing) []Point {
	dx, dy := p.later.Resolution()

	inner, ok := raster.Overlap(p.earlier.BBox(), p.later.BBox())
	if !ok {
		return nil
	}
	inner = inner.Shrink(dx, dy)

	xs := arange(inner.XMin, inner.XMax, step.X)
	ys := arange(inner.YMin, inner.YMax, step.Y)

	out := make([]Point, 0, len(xs)*len(ys))
	for _, y := range ys {
		for _, x := range xs {
			out = append(out, Point{X: x, Y: y})
		}
	}

	return out
}

// arange returns start, start+step, ... below stop.
func arange(start, stop, step float64) []float64 {
	if !(stop > start) {
		return nil
	}

	n := int(math.Ceil((stop - start) / step))
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if v := start + float64(i)*step; v < stop {
			out = append(out, v)
		}
	}

	return out
}

// candidates filters centers by scene validity and guess coverage and derives
// the search chip shift for each survivor.
func (p *scenePair) candidates(centers []Point, guessU, guessV raster.Field, dt float64, stats *Stats) []candidate {
	dx, dy := p.later.Resolution()

	gdx, gdy := guessU.Resolution()
	guessBox, ok := raster.Overlap(guessU.BBox(), guessV.BBox())
	guessBox = guessBox.Shrink(gdx, gdy)

	out := make([]candidate, 0, len(centers))
	for _, c := range centers {
		stats.Candidates++

		if math.IsNaN(p.earlier.Sample(c.X, c.Y)) || math.IsNaN(p.later.Sample(c.X, c.Y)) {
			stats.skip(skipMissing)
			continue
		}

		if !ok || !guessBox.Contains(c.X, c.Y) {
			stats.skip(skipGuess)
			continue
		}

		u := guessU.Sample(c.X, c.Y)
		v := guessV.Sample(c.X, c.Y)
		if math.IsNaN(u) || math.IsNaN(v) {
			stats.skip(skipGuess)
			continue
		}

		out = append(out, candidate{
			center: c,
			ox:     int(math.Round(u * dt / dx)),
			oy:     int(math.Round(v * dt / dy)),
		})
	}

	return out
}

// CorrelateScenes measures displacements from earlier to later on a regular
// grid of reference centers spaced by the configured resolution. The search
// chip for each center is shifted by the displacement predicted by the guess
// rates (guessU along x, guessV along y, map units per unit time) over dt.
//
// Centers that fall on missing data, outside the guess fields, or whose chips
// cross a scene border or hold missing samples are skipped and counted in
// Results.Stats. A guess field that covers none of the overlap yields an empty
// result and no error.
func (e *Engine) CorrelateScenes(ctx context.Context, earlier, later raster.Scene, guessU, guessV raster.Field, dt float64) (*Results, error) {
	ctx, span := e.cfg.Tracer.Start(ctx, "track.CorrelateScenes")
	defer span.End()

	p, err := clipPair(earlier, later)
	if err != nil {
		return nil, spanError(span, err)
	}

	res, err := e.correlate(ctx, span, p, p.grid(e.cfg.Resolution), guessU, guessV, dt, false)
	if err != nil {
		return res, spanError(span, err)
	}

	return res, nil
}

// CorrelateScenesAtPoints is CorrelateScenes for caller-supplied reference
// centers. Each result also carries the reference and search chips used.
func (e *Engine) CorrelateScenesAtPoints(ctx context.Context, earlier, later raster.Scene, guessU, guessV raster.Field, dt float64, points []Point) (*Results, error) {
	ctx, span := e.cfg.Tracer.Start(ctx, "track.CorrelateScenesAtPoints")
	defer span.End()

	p, err := clipPair(earlier, later)
	if err != nil {
		return nil, spanError(span, err)
	}

	res, err := e.correlate(ctx, span, p, points, guessU, guessV, dt, true)
	if err != nil {
		return res, spanError(span, err)
	}

	return res, nil
}

func (e *Engine) correlate(ctx context.Context, span trace.Span, p *scenePair, centers []Point, guessU, guessV raster.Field, dt float64, keepChips bool) (*Results, error) {
	if guessU == nil || guessV == nil {
		return nil, fmt.Errorf("%w: nil guess field", ErrInputMismatch)
	}

	res := &Results{}
	cands := p.candidates(centers, guessU, guessV, dt, &res.Stats)

	items, err := e.dispatch(ctx, p, cands, keepChips, &res.Stats)
	res.Items = items

	s := res.Stats
	span.SetAttributes(
		attribute.Int("track.candidates", s.Candidates),
		attribute.Int("track.skipped", s.Skipped()),
		attribute.Int("track.scheduled", s.Scheduled),
		attribute.Int("track.completed", s.Completed),
		attribute.Int("track.failed", s.Failed),
		attribute.String("track.mode", e.cfg.Mode.String()),
	)

	e.cfg.Logger.Printf("track: %d candidates, %d skipped, %d scheduled, %d completed, %d failed",
		s.Candidates, s.Skipped(), s.Scheduled, s.Completed, s.Failed)

	return res, err
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
