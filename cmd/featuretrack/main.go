// Command featuretrack measures the displacement field between two images of
// the same area by template matching.
//
// Usage:
//
//	featuretrack [flags] earlier.png later.png
//
// Both images share one pixel grid whose size is set with -pixel. Guess rates
// -u and -v shift every search chip by the expected motion over -dt.
//
// Examples:
//
//	featuretrack earlier.png later.png
//	featuretrack -search 64 -ref 16 -step 8 earlier.png later.png
//	featuretrack -u 2.5 -v -1 -dt 12 -min-strength 4 earlier.png later.png
//
// Defaults are read from ALGO_TRACK_* environment variables. Spans are
// exported over OTLP/HTTP when ALGO_TRACK_OTEL_ENDPOINT is set.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/cwbudde/algo-track/dsp/chip"
	"github.com/cwbudde/algo-track/dsp/conv"
	"github.com/cwbudde/algo-track/dsp/window"
	"github.com/cwbudde/algo-track/internal/config"
	"github.com/cwbudde/algo-track/internal/telemetry"
	"github.com/cwbudde/algo-track/raster"
	"github.com/cwbudde/algo-track/track"
)

const serviceName = "featuretrack"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var errUsage = errors.New("featuretrack: expected two image paths")

func main() {
	log.SetFlags(0)
	log.SetPrefix("featuretrack: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
}

type options struct {
	search, ref int
	step        float64
	pixel       float64
	workers     int
	maxInFlight int
	dt, u, v    float64
	minStrength float64
	mode        string
	taper       string
	verbose     bool
}

func parseFlags(args []string, cfg config.Config, stderr io.Writer) (options, []string, error) {
	var o options

	fs := flag.NewFlagSet("featuretrack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&o.search, "search", cfg.SearchSize, "search chip size in pixels")
	fs.IntVar(&o.ref, "ref", cfg.RefSize, "reference chip size in pixels")
	fs.Float64Var(&o.step, "step", cfg.Step, "grid spacing in map units")
	fs.Float64Var(&o.pixel, "pixel", 1, "pixel size in map units")
	fs.IntVar(&o.workers, "workers", cfg.Workers, "correlation goroutines (0 = one per CPU)")
	fs.IntVar(&o.maxInFlight, "max-in-flight", cfg.MaxInFlight, "maximum extracted but uncollected chip pairs")
	fs.Float64Var(&o.dt, "dt", 1, "time between the two images")
	fs.Float64Var(&o.u, "u", 0, "guess rate along x in map units per time")
	fs.Float64Var(&o.v, "v", 0, "guess rate along y in map units per time")
	fs.Float64Var(&o.minStrength, "min-strength", cfg.MinStrength, "drop results weaker than this")
	fs.StringVar(&o.mode, "mode", cfg.Mode, "correlation mode: full, same or valid")
	fs.StringVar(&o.taper, "taper", cfg.Taper, "chip taper: rectangular, hann, hamming, blackman, tukey or gauss")
	fs.BoolVar(&o.verbose, "verbose", false, "log a run summary to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: featuretrack [flags] earlier.png later.png\n\n")
		fmt.Fprintf(stderr, "Prints the displacement field between two images as a table.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}

	return o, fs.Args(), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	o, paths, err := parseFlags(args, cfg, stderr)
	if err != nil {
		return err
	}
	if len(paths) != 2 {
		return errUsage
	}

	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Endpoint:       cfg.OTelEndpoint,
		Enabled:        cfg.OTelEnabled,
		SampleRatio:    cfg.OTelSampleRatio,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	mode, err := conv.ParseMode(o.mode)
	if err != nil {
		return err
	}

	taper, err := window.Parse(o.taper)
	if err != nil {
		return err
	}

	// Image rows run downwards, so y grows with the row index.
	t := raster.Transform{DX: o.pixel, DY: o.pixel}

	earlier, err := raster.LoadImage(paths[0], t)
	if err != nil {
		return err
	}

	later, err := raster.LoadImage(paths[1], t)
	if err != nil {
		return err
	}

	rows, cols := earlier.Size()

	guessU, err := raster.Constant(rows, cols, o.u, t)
	if err != nil {
		return err
	}

	guessV, err := raster.Constant(rows, cols, o.v, t)
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if o.verbose {
		logger = log.New(stderr, "featuretrack: ", 0)
	}

	e, err := track.New(
		track.WithSearchSize(chip.Size{Width: o.search, Height: o.search}),
		track.WithRefSize(chip.Size{Width: o.ref, Height: o.ref}),
		track.WithResolution(track.Spacing{X: o.step, Y: o.step}),
		track.WithWorkers(o.workers),
		track.WithMaxInFlight(o.maxInFlight),
		track.WithMode(mode),
		track.WithTaper(taper),
		track.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	res, err := e.CorrelateScenes(ctx, earlier, later, guessU, guessV, o.dt)
	if err != nil {
		return err
	}

	res = res.Filter(o.minStrength)
	res.SortByCenter()

	return printResults(stdout, res)
}

func printResults(w io.Writer, res *track.Results) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "x\ty\tdx\tdy\tstrength\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range res.Items {
		if _, err := fmt.Fprintf(tw, "%.3f\t%.3f\t%.4f\t%.4f\t%.3f\n",
			r.Center.X, r.Center.Y, r.DX, r.DY, r.Strength); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
