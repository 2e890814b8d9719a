// Package conv provides two-dimensional convolution and cross-correlation of
// image chips.
//
// The package offers two strategies:
//
//   - Direct convolution: O(N*M) spatial-domain evaluation, best for very small kernels
//   - FFT convolution: row/column 2-D FFT on power-of-two padded buffers
//
// Cross-correlation is convolution with the kernel reversed along both axes,
// so a correlation surface peaks where the kernel best matches the signal.
//
// # Usage
//
// For one-shot correlation, use the simple functions:
//
//	surface, err := conv.Correlate2D(search, ref, conv.ModeSame)       // FFT
//	surface, err := conv.DirectCorrelate2D(search, ref, conv.ModeSame) // spatial
//
// For repeated correlation of equally sized chips, create a reusable
// correlator. A Correlator owns its FFT plans and scratch buffers and must not
// be shared between goroutines:
//
//	c, err := conv.NewCorrelator(searchRows, searchCols, refRows, refCols)
//	surface, err := c.Correlate(search, ref, conv.ModeSame)
//
// # Output modes
//
// Output extents follow the usual conventions per axis, with n the signal and
// m the kernel length:
//
//   - [ModeFull]:  n + m - 1
//   - [ModeSame]:  n, centered on the full result (start (m-1)/2)
//   - [ModeValid]: |n - m| + 1, only fully overlapping positions
//
// [ZeroLagIndex] gives the surface index that corresponds to zero
// displacement between two chips cut around the same center pixel.
package conv
