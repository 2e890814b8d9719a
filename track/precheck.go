package track

import (
	"github.com/cwbudde/algo-track/dsp/chip"
	"gonum.org/v1/gonum/mat"
)

// skipReason classifies why a candidate center produced no task.
type skipReason int

const (
	admitted skipReason = iota
	skipMissing
	skipGuess
	skipShape
	skipNaNChip
)

func (r skipReason) String() string {
	switch r {
	case admitted:
		return "admitted"
	case skipMissing:
		return "missing sample"
	case skipGuess:
		return "outside guess field"
	case skipShape:
		return "chip crosses scene border"
	case skipNaNChip:
		return "chip contains missing data"
	default:
		return "unknown"
	}
}

// precheck decides whether a chip pair may be correlated: both chips must
// have exactly the configured sizes and hold no missing samples.
func precheck(ref, search *mat.Dense, refSize, searchSize chip.Size) skipReason {
	if ref == nil || search == nil {
		return skipShape
	}

	if !refSize.Matches(ref) || !searchSize.Matches(search) {
		return skipShape
	}

	if chip.HasMissing(ref) || chip.HasMissing(search) {
		return skipNaNChip
	}

	return admitted
}
