//go:build fastmath

package peak

import "github.com/meko-christian/algo-approx"

// mathLog computes ln(x) using fast approximation.
func mathLog(x float64) float64 {
	return approx.FastLog(x)
}
