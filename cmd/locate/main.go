package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mclights/geopoint/internal/config"
	"github.com/mclights/geopoint/internal/geo"
	"github.com/mclights/geopoint/internal/geocode"
	"github.com/mclights/geopoint/internal/logger"
	"github.com/mclights/geopoint/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input       string `short:"i" long:"in"          env:"INPUT"       description:"Input GeoJSON file or URL. Reads from stdin if empty" default:"-"`
	Output      string `short:"o" long:"out"         env:"OUTPUT"      description:"Output file path. Writes to stdout if empty"`
	Format      string `short:"f" long:"format"      env:"FORMAT"      description:"Output format" choice:"json" choice:"yaml" default:"json"`
	ConfigFile  string `short:"c" long:"config"      env:"CONFIG_FILE" description:"Path to configuration file"`
	Language    string `short:"l" long:"language"    env:"GEOCODER_LANG" description:"Override geocoder language"`
	Concurrency int    `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Parallel reverse geocoding lookups" default:"1"`
	Geocode     bool   `short:"g" long:"geocode"     description:"Resolve the city of every point"`
	Minify      bool   `short:"m" long:"minify"      description:"Minify JSON output"`
	NoLines     bool   `long:"no-lines"              description:"Skip line geometries, reduce only points and polygons"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, opts)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("Locate failed")
		os.Exit(1)
	}

	log.Info().Str("out", opts.Output).Str("format", opts.Format).Msg("Locate finished successfully")
}

// run loads, processes and writes the features. Deferred cleanup always runs
// before the error reaches main.
func run(ctx context.Context, opts Options) (err error) {
	client := &http.Client{Timeout: 30 * time.Second}

	fc, err := processor.Load(ctx, client, opts.Input)
	if err != nil {
		return errors.Wrapf(err, "load features from %s", opts.Input)
	}

	procOpts := processor.Options{
		Reducer:     geo.Reducer{Kinds: geo.AllKinds},
		Concurrency: opts.Concurrency,
	}
	if opts.NoLines {
		procOpts.Reducer.Kinds = geo.ArealKinds
	}

	if opts.Geocode {
		cfg, err := config.Load(opts.ConfigFile)
		if err != nil {
			return errors.Wrap(err, "load configuration")
		}
		if opts.Language != "" {
			cfg.Geocoder.Language = opts.Language
		}

		locator, err := geocode.NewFromConfig(cfg)
		if err != nil {
			return errors.Wrap(err, "create geocoder")
		}
		defer func() { _ = locator.Close() }()
		procOpts.Locator = locator
	}

	log.Info().
		Str("source", opts.Input).
		Int("features", len(fc.Features)).
		Bool("geocode", opts.Geocode).
		Msg("Starting locate")

	out, _, err := processor.Process(ctx, fc, procOpts)
	if err != nil {
		return errors.Wrap(err, "processing interrupted")
	}

	var w io.Writer = os.Stdout
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return errors.Wrap(err, "create output file")
		}

		// We care about write errors on close
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = errors.Wrapf(closeErr, "close %s", opts.Output)
			}
		}()
		w = f
	}

	return errors.Wrap(processor.Save(w, out, opts.Format, opts.Minify), "write features")
}
