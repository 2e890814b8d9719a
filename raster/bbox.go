package raster

import (
	"fmt"
	"math"
)

// BBox is an axis-aligned bounding box in map coordinates.
type BBox struct {
	XMin, YMin, XMax, YMax float64
}

// NewBBox returns the box spanned by two corners in any order.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{
		XMin: math.Min(x0, x1),
		YMin: math.Min(y0, y1),
		XMax: math.Max(x0, x1),
		YMax: math.Max(y0, y1),
	}
}

// Empty reports whether b has no area. Boxes that only touch along an edge
// are empty.
func (b BBox) Empty() bool {
	return !(b.XMin < b.XMax) || !(b.YMin < b.YMax)
}

// Width returns XMax - XMin.
func (b BBox) Width() float64 { return b.XMax - b.XMin }

// Height returns YMax - YMin.
func (b BBox) Height() float64 { return b.YMax - b.YMin }

// Contains reports whether (x, y) lies inside b, edges included.
func (b BBox) Contains(x, y float64) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

// Shrink moves every edge inwards by dx horizontally and dy vertically.
// Negative margins are taken by magnitude. The result may be empty.
func (b BBox) Shrink(dx, dy float64) BBox {
	dx = math.Abs(dx)
	dy = math.Abs(dy)

	return BBox{
		XMin: b.XMin + dx,
		YMin: b.YMin + dy,
		XMax: b.XMax - dx,
		YMax: b.YMax - dy,
	}
}

func (b BBox) String() string {
	return fmt.Sprintf("[%g %g %g %g]", b.XMin, b.YMin, b.XMax, b.YMax)
}

// Overlap returns the intersection of a and b. ok is false when the boxes do
// not share any area.
func Overlap(a, b BBox) (box BBox, ok bool) {
	box = BBox{
		XMin: math.Max(a.XMin, b.XMin),
		YMin: math.Max(a.YMin, b.YMin),
		XMax: math.Min(a.XMax, b.XMax),
		YMax: math.Min(a.YMax, b.YMax),
	}

	return box, !box.Empty()
}
