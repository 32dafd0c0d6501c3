// Package processor reduces GeoJSON features to representative points and
// names the place each point falls in.
package processor

import (
	"context"
	"runtime"

	"github.com/mclights/geopoint/internal/geo"
	"github.com/mclights/geopoint/internal/geocode"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Options tunes Process.
type Options struct {
	Reducer geo.Reducer
	// Locator names the place of each point; nil skips reverse geocoding.
	Locator *geocode.Locator
	// Concurrency bounds parallel lookups. Defaults to the number of CPUs.
	Concurrency int
}

// Stats summarizes a Process run.
type Stats struct {
	Total   int `json:"total"`
	Located int `json:"located"`
	Skipped int `json:"skipped"`
	Named   int `json:"named"`
}

type located struct {
	feature *geojson.Feature
	named   bool
}

// Process returns a collection with one Point feature per input feature that
// reduces to a point, in input order. Original properties are kept; "kind"
// records the source geometry kind and "city" the resolved place name.
//
// Features that reduce to nothing are skipped. The only error is the
// cancellation of ctx.
func Process(ctx context.Context, fc *geojson.FeatureCollection, opts Options) (*geojson.FeatureCollection, Stats, error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	stats := Stats{Total: len(fc.Features)}
	results := make([]located, len(fc.Features))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, f := range fc.Features {
		if err := gctx.Err(); err != nil {
			break
		}

		g.Go(func() error {
			results[i] = locate(gctx, i, f, opts)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, stats, err
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	out := geojson.NewFeatureCollection()
	for _, r := range results {
		if r.feature == nil {
			stats.Skipped++
			continue
		}
		stats.Located++
		if r.named {
			stats.Named++
		}
		out.Append(r.feature)
	}

	log.Info().
		Int("total", stats.Total).
		Int("located", stats.Located).
		Int("named", stats.Named).
		Int("skipped", stats.Skipped).
		Msg("Features processed")

	return out, stats, nil
}

func locate(ctx context.Context, index int, f *geojson.Feature, opts Options) located {
	if f == nil {
		return located{}
	}

	kind := geo.Classify(f.Geometry)
	p, ok := opts.Reducer.Point(f.Geometry)
	if !ok {
		log.Debug().
			Int("index", index).
			Interface("id", f.ID).
			Stringer("kind", kind).
			Msg("Feature has no representative point, skipping")
		return located{}
	}

	out := geojson.NewFeature(p)
	out.ID = f.ID
	for k, v := range f.Properties {
		out.Properties[k] = v
	}
	out.Properties["kind"] = kind.String()

	if opts.Locator == nil {
		return located{feature: out}
	}

	name, named := opts.Locator.City(ctx, p)
	if named {
		out.Properties["city"] = name
	}
	return located{feature: out, named: named}
}
