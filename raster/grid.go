package raster

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Errors returned by grid construction and clipping.
var (
	ErrEmptyGrid        = errors.New("raster: grid has no cells")
	ErrInvalidTransform = errors.New("raster: transform resolution must be non-zero and finite")
	ErrLengthMismatch   = errors.New("raster: data length does not match grid size")
	ErrEmptyClip        = errors.New("raster: clip box does not intersect grid")
)

// clipTolerance absorbs rounding when a clip edge falls on a cell edge.
const clipTolerance = 1e-9

// Field is a scalar surface that can be sampled at map coordinates.
// Sample returns NaN for missing data and for points outside the field.
type Field interface {
	Sample(x, y float64) float64
	BBox() BBox
	Resolution() (dx, dy float64)
}

// Scene is a raster whose raw values can be windowed directly by pixel index.
type Scene interface {
	Field

	// Indices returns the row and column of the cell containing (x, y). The
	// result may lie outside the grid.
	Indices(x, y float64) (row, col int)

	// DataBBox returns the extent of the cells holding valid (non-NaN) data.
	// It is empty when the scene holds no valid data.
	DataBBox() BBox

	// Clip returns a view restricted to the cells intersecting b.
	Clip(b BBox) (Scene, error)

	// Values returns the raw sample matrix, row 0 first. Callers must not
	// modify it.
	Values() mat.Matrix
}

// Transform maps pixel indices to map coordinates.
type Transform struct {
	X0, Y0 float64 // map position of the outer corner of pixel (0, 0)
	DX, DY float64 // signed pixel size along columns and rows
}

// Center returns the map coordinates of the center of pixel (row, col).
func (t Transform) Center(row, col int) (x, y float64) {
	return t.X0 + (float64(col)+0.5)*t.DX, t.Y0 + (float64(row)+0.5)*t.DY
}

func (t Transform) valid() bool {
	for _, v := range []float64{t.X0, t.Y0, t.DX, t.DY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return t.DX != 0 && t.DY != 0
}

// GridOption configures grid construction.
type GridOption func(*gridConfig)

type gridConfig struct {
	noData    float64
	hasNoData bool
}

// WithNoData marks v as the missing-value sentinel of the input data. Matching
// samples are replaced by NaN.
func WithNoData(v float64) GridOption {
	return func(c *gridConfig) {
		c.noData = v
		c.hasNoData = !math.IsNaN(v)
	}
}

// Grid is an in-memory regular raster. It implements [Scene] and is safe for
// concurrent reads.
type Grid struct {
	values    *mat.Dense
	transform Transform

	dataOnce sync.Once
	dataBBox BBox
}

// NewGrid wraps values with transform t. The matrix is used as is unless a
// nodata option requires a rewrite, in which case it is copied first.
func NewGrid(values *mat.Dense, t Transform, opts ...GridOption) (*Grid, error) {
	if values == nil || values.IsEmpty() {
		return nil, ErrEmptyGrid
	}
	if !t.valid() {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidTransform, t)
	}

	var cfg gridConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.hasNoData {
		values = mat.DenseCopyOf(values)
		rows, cols := values.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				if values.At(i, j) == cfg.noData {
					values.Set(i, j, math.NaN())
				}
			}
		}
	}

	return &Grid{values: values, transform: t}, nil
}

// FromSlice builds a grid from row-major data.
func FromSlice(rows, cols int, data []float64, t Transform, opts ...GridOption) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrEmptyGrid
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrLengthMismatch, len(data), rows, cols)
	}

	return NewGrid(mat.NewDense(rows, cols, data), t, opts...)
}

// Constant builds a grid filled with v.
func Constant(rows, cols int, v float64, t Transform) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrEmptyGrid
	}

	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = v
	}

	return FromSlice(rows, cols, data, t)
}

// Size returns the number of rows and columns.
func (g *Grid) Size() (rows, cols int) {
	return g.values.Dims()
}

// Transform returns the pixel-to-map transform.
func (g *Grid) Transform() Transform {
	return g.transform
}

// Resolution returns the signed pixel size.
func (g *Grid) Resolution() (dx, dy float64) {
	return g.transform.DX, g.transform.DY
}

// Values returns the underlying sample matrix.
func (g *Grid) Values() mat.Matrix {
	return g.values
}

// BBox returns the full extent of the grid.
func (g *Grid) BBox() BBox {
	rows, cols := g.values.Dims()
	t := g.transform

	return NewBBox(t.X0, t.Y0, t.X0+float64(cols)*t.DX, t.Y0+float64(rows)*t.DY)
}

// DataBBox returns the extent of the cells holding non-NaN samples. The result
// is computed once and cached.
func (g *Grid) DataBBox() BBox {
	g.dataOnce.Do(func() {
		g.dataBBox = g.scanDataBBox()
	})

	return g.dataBBox
}

func (g *Grid) scanDataBBox() BBox {
	rows, cols := g.values.Dims()
	rMin, rMax, cMin, cMax := rows, -1, cols, -1

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if math.IsNaN(g.values.At(i, j)) {
				continue
			}

			rMin = min(rMin, i)
			rMax = max(rMax, i)
			cMin = min(cMin, j)
			cMax = max(cMax, j)
		}
	}

	if rMax < 0 {
		return BBox{}
	}

	t := g.transform

	return NewBBox(
		t.X0+float64(cMin)*t.DX, t.Y0+float64(rMin)*t.DY,
		t.X0+float64(cMax+1)*t.DX, t.Y0+float64(rMax+1)*t.DY,
	)
}

// Indices returns the row and column of the cell containing (x, y) using
// floor division, so points left of or above the grid map to negative indices.
func (g *Grid) Indices(x, y float64) (row, col int) {
	t := g.transform
	col = int(math.Floor((x - t.X0) / t.DX))
	row = int(math.Floor((y - t.Y0) / t.DY))

	return row, col
}

// Sample returns the bilinearly interpolated value at (x, y), treating each
// sample as located at its pixel center. Points within half a pixel of the
// outer edge use the nearest edge samples. NaN is returned outside the grid or
// when any contributing sample is NaN.
func (g *Grid) Sample(x, y float64) float64 {
	rows, cols := g.values.Dims()
	t := g.transform

	u := (x-t.X0)/t.DX - 0.5
	v := (y-t.Y0)/t.DY - 0.5

	c0, c1, fc, ok := bracket(u, cols)
	if !ok {
		return math.NaN()
	}

	r0, r1, fr, ok := bracket(v, rows)
	if !ok {
		return math.NaN()
	}

	v00 := g.values.At(r0, c0)
	v01 := g.values.At(r0, c1)
	v10 := g.values.At(r1, c0)
	v11 := g.values.At(r1, c1)

	top := v00 + (v01-v00)*fc
	bottom := v10 + (v11-v10)*fc

	return top + (bottom-top)*fr
}

// bracket returns the two sample indices surrounding the continuous index u
// and the interpolation fraction between them.
func bracket(u float64, n int) (i0, i1 int, frac float64, ok bool) {
	if math.IsNaN(u) || u < -0.5 || u > float64(n)-0.5 {
		return 0, 0, 0, false
	}

	u = math.Max(0, math.Min(u, float64(n-1)))
	i0 = int(math.Floor(u))
	i1 = min(i0+1, n-1)

	return i0, i1, u - float64(i0), true
}

// Clip returns a view of the cells intersecting b. The view shares storage
// with g.
func (g *Grid) Clip(b BBox) (Scene, error) {
	clipped, err := g.ClipGrid(b)
	if err != nil {
		return nil, err
	}

	return clipped, nil
}

// ClipGrid is [Grid.Clip] with a concrete result type.
func (g *Grid) ClipGrid(b BBox) (*Grid, error) {
	rows, cols := g.values.Dims()
	t := g.transform

	c0, c1 := cellRange(b.XMin, b.XMax, t.X0, t.DX, cols)
	r0, r1 := cellRange(b.YMin, b.YMax, t.Y0, t.DY, rows)

	if c0 >= c1 || r0 >= r1 {
		return nil, fmt.Errorf("%w: box %v, grid %v", ErrEmptyClip, b, g.BBox())
	}

	view := g.values.Slice(r0, r1, c0, c1).(*mat.Dense)

	return &Grid{
		values: view,
		transform: Transform{
			X0: t.X0 + float64(c0)*t.DX,
			Y0: t.Y0 + float64(r0)*t.DY,
			DX: t.DX,
			DY: t.DY,
		},
	}, nil
}

// cellRange returns the half-open index range of cells along one axis whose
// extent intersects [lo, hi].
func cellRange(lo, hi, origin, step float64, n int) (start, end int) {
	a := (lo - origin) / step
	b := (hi - origin) / step
	if a > b {
		a, b = b, a
	}

	start = int(math.Floor(a + clipTolerance))
	end = int(math.Ceil(b - clipTolerance))

	return max(start, 0), min(end, n)
}
