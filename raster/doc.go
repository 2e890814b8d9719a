// Package raster provides the scene abstraction consumed by the correlation
// engine: a 2-D grid of float64 samples with an affine pixel-to-map transform.
//
// Missing samples are represented by NaN. Grids built from external data with a
// sentinel nodata value can convert it on construction with [WithNoData].
//
// # Geometry
//
// Pixel (row, col) covers the map-space rectangle
//
//	[X0 + col*DX, X0 + (col+1)*DX] x [Y0 + row*DY, Y0 + (row+1)*DY]
//
// DX and DY may be negative (north-up rasters usually have DY < 0). Bounding
// boxes are always normalized so that XMin <= XMax and YMin <= YMax.
//
// # Interfaces
//
// [Field] is the sampling contract shared by scenes and guess fields. [Scene]
// adds pixel lookup, clipping and raw value access. [Grid] implements both.
package raster
