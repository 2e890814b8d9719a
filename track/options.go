package track

import (
	"io"
	"log"
	"math"
	"runtime"

	"github.com/cwbudde/algo-track/dsp/chip"
	"github.com/cwbudde/algo-track/dsp/conv"
	"github.com/cwbudde/algo-track/dsp/peak"
	"github.com/cwbudde/algo-track/dsp/window"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/cwbudde/algo-track/track"

// DefaultMaxInFlight bounds the number of extracted chip pairs whose results
// have not been collected yet.
const DefaultMaxInFlight = 5000

// Spacing is a distance pair in map units along x and y.
type Spacing struct {
	X, Y float64
}

func (s Spacing) valid() bool {
	return s.X > 0 && s.Y > 0 && !math.IsInf(s.X, 0) && !math.IsInf(s.Y, 0)
}

// Config defines engine settings.
type Config struct {
	SearchSize  chip.Size
	RefSize     chip.Size
	Resolution  Spacing // grid sampling step, map units
	Workers     int
	MaxInFlight int
	Mode        conv.Mode
	Epsilon     float64     // subpixel log offset
	Taper       window.Type // applied to normalized chips; rectangular disables it
	Logger      *log.Logger
	Tracer      trace.Tracer
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the defaults used for feature tracking on repeat
// imagery.
func DefaultConfig() Config {
	return Config{
		SearchSize:  chip.Size{Width: 128, Height: 128},
		RefSize:     chip.Size{Width: 32, Height: 32},
		Resolution:  Spacing{X: 50, Y: 50},
		Workers:     runtime.NumCPU(),
		MaxInFlight: DefaultMaxInFlight,
		Mode:        conv.ModeSame,
		Epsilon:     peak.DefaultEpsilon,
		Taper:       window.TypeRectangular,
		Logger:      log.New(io.Discard, "", 0),
		Tracer:      otel.Tracer(tracerName),
	}
}

// WithSearchSize sets the search chip size.
func WithSearchSize(s chip.Size) Option {
	return func(cfg *Config) {
		if s.Valid() {
			cfg.SearchSize = s
		}
	}
}

// WithRefSize sets the reference chip size.
func WithRefSize(s chip.Size) Option {
	return func(cfg *Config) {
		if s.Valid() {
			cfg.RefSize = s
		}
	}
}

// WithResolution sets the grid sampling step.
func WithResolution(s Spacing) Option {
	return func(cfg *Config) {
		if s.valid() {
			cfg.Resolution = s
		}
	}
}

// WithWorkers sets the number of correlation goroutines.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Workers = n
		}
	}
}

// WithMaxInFlight sets the bound on extracted but uncollected chip pairs.
func WithMaxInFlight(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxInFlight = n
		}
	}
}

// WithMode sets the correlation mode.
func WithMode(m conv.Mode) Option {
	return func(cfg *Config) {
		if m == conv.ModeFull || m == conv.ModeSame || m == conv.ModeValid {
			cfg.Mode = m
		}
	}
}

// WithEpsilon sets the margin below the surface minimum used by subpixel
// refinement.
func WithEpsilon(eps float64) Option {
	return func(cfg *Config) {
		if eps > 0 && !math.IsInf(eps, 0) {
			cfg.Epsilon = eps
		}
	}
}

// WithTaper applies a separable window to both normalized chips before
// correlation.
func WithTaper(t window.Type) Option {
	return func(cfg *Config) {
		cfg.Taper = t
	}
}

// WithLogger sets the logger for run summaries and dropped tasks.
func WithLogger(l *log.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// WithTracer sets the tracer used for engine spans.
func WithTracer(tr trace.Tracer) Option {
	return func(cfg *Config) {
		if tr != nil {
			cfg.Tracer = tr
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
