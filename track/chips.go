package track

import (
	"fmt"

	"github.com/cwbudde/algo-track/dsp/chip"
	"github.com/cwbudde/algo-track/dsp/conv"
	"github.com/cwbudde/algo-track/dsp/peak"
	"github.com/cwbudde/algo-track/dsp/window"
	"gonum.org/v1/gonum/mat"
)

// Match is the outcome of correlating one search chip against one reference
// chip.
type Match struct {
	// OffsetX and OffsetY locate the reference content inside the search chip
	// relative to the position it would have without displacement, in pixels
	// along columns and rows.
	OffsetX, OffsetY float64
	Strength         float64
	Peak             peak.Peak
	Surface          *mat.Dense
}

// CorrelateChips normalizes both chips, correlates them in the given mode and
// locates the subpixel peak. Epsilon and Taper are taken from opts.
//
// Offsets are measured from conv.ZeroLagIndex, which uses integer halves of
// the chip dimensions, matching the windows cut by chip.Extract. For
// odd-sized chips this origin sits half a pixel away from one computed as
// size/2 in floating point.
func CorrelateChips(search, ref mat.Matrix, mode conv.Mode, opts ...Option) (Match, error) {
	cfg := ApplyOptions(opts...)
	cfg.Mode = mode

	m := matcher{cfg: &cfg}

	return m.match(mat.DenseCopyOf(search), mat.DenseCopyOf(ref))
}

// matcher correlates chip pairs for one goroutine, reusing its FFT correlator
// while chip shapes stay the same.
type matcher struct {
	cfg  *Config
	corr *conv.Correlator
}

func (m *matcher) match(search, ref *mat.Dense) (Match, error) {
	s := chip.Normalize(search)
	r := chip.Normalize(ref)

	if m.cfg.Taper != window.TypeRectangular {
		if err := window.Apply2D(m.cfg.Taper, s); err != nil {
			return Match{}, err
		}
		if err := window.Apply2D(m.cfg.Taper, r); err != nil {
			return Match{}, err
		}
	}

	if m.corr == nil || !m.corr.Accepts(s, r) {
		sr, sc := s.Dims()
		rr, rc := r.Dims()

		corr, err := conv.NewCorrelator(sr, sc, rr, rc)
		if err != nil {
			return Match{}, fmt.Errorf("track: correlator: %w", err)
		}
		m.corr = corr
	}

	surface, err := m.corr.Correlate(s, r, m.cfg.Mode)
	if err != nil {
		return Match{}, fmt.Errorf("track: correlate: %w", err)
	}

	p := peak.Find(surface)
	row, col := peak.Subpixel(surface, p, m.cfg.Epsilon)

	sr, sc := s.Dims()
	rr, rc := r.Dims()

	return Match{
		OffsetX:  col - float64(conv.ZeroLagIndex(sc, rc, m.cfg.Mode)),
		OffsetY:  row - float64(conv.ZeroLagIndex(sr, rr, m.cfg.Mode)),
		Strength: peak.Strength(surface, p.Value),
		Peak:     p,
		Surface:  surface,
	}, nil
}
