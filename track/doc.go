// Package track estimates displacement fields between two co-located raster
// scenes by template matching.
//
// For every reference center a small reference chip is cut from the earlier
// scene and a larger search chip from the later scene, shifted by the motion
// predicted from a pair of guess-rate fields. Both chips are normalized, cross
// correlated, and the subpixel correlation peak is converted into a
// displacement in map units. The peak strength is the z-score of the peak
// against the whole correlation surface.
//
// Chip pairs are correlated on a bounded pool of goroutines. Results are
// returned in completion order; call [Results.SortByCenter] for a stable
// order.
//
// Basic usage:
//
//	e, err := track.New(
//		track.WithSearchSize(chip.Size{Width: 64, Height: 64}),
//		track.WithRefSize(chip.Size{Width: 16, Height: 16}),
//		track.WithResolution(track.Spacing{X: 100, Y: 100}),
//	)
//	if err != nil {
//		return err
//	}
//	res, err := e.CorrelateScenes(ctx, earlier, later, guessU, guessV, dt)
package track
