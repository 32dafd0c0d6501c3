package geocode

import (
	"context"
	"io"
	"time"

	"github.com/mclights/geopoint/internal/config"

	"github.com/cenkalti/backoff/v5"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RetryOptions controls how timed out lookups are repeated.
type RetryOptions struct {
	// Delay is the fixed wait before each retry.
	Delay time.Duration
	// MaxAttempts caps the number of requests, the first one included.
	// Zero means no cap; the lookup then ends only with the context.
	MaxAttempts uint
}

// Locator resolves place names for points.
type Locator struct {
	reverser Reverser
	retry    RetryOptions
}

// NewLocator wraps r. A zero Delay falls back to the default delay.
func NewLocator(r Reverser, retry RetryOptions) *Locator {
	if retry.Delay <= 0 {
		retry.Delay = config.DefaultRetryDelay
	}
	return &Locator{reverser: r, retry: retry}
}

// NewFromConfig builds a Locator over a Nominatim client.
func NewFromConfig(cfg *config.Config) (*Locator, error) {
	client, err := NewNominatim(cfg.Geocoder, nil)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("url", cfg.Geocoder.URL).
		Str("language", cfg.Geocoder.Language).
		Dur("retry_delay", cfg.Retry.Delay).
		Uint("max_attempts", cfg.Retry.Attempts()).
		Msg("Geocoder configured")

	return NewLocator(client, RetryOptions{
		Delay:       cfg.Retry.Delay,
		MaxAttempts: cfg.Retry.Attempts(),
	}), nil
}

// Close closes the underlying Reverser when it holds resources.
func (l *Locator) Close() error {
	if c, ok := l.reverser.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Resolve returns the place name at p, whose x is the longitude and y the
// latitude. An empty name with a nil error means nothing was found.
//
// A lookup that times out is retried after the fixed delay until it succeeds,
// MaxAttempts is reached or ctx ends. Other failures are returned at once.
func (l *Locator) Resolve(ctx context.Context, p orb.Point) (string, error) {
	lat, lon := p.Y(), p.X()

	loc, err := backoff.Retry(ctx,
		func() (*Location, error) {
			loc, err := l.reverser.Reverse(ctx, lat, lon)
			if err != nil && !errors.Is(err, ErrTimedOut) {
				return nil, backoff.Permanent(err)
			}
			return loc, err
		},
		backoff.WithBackOff(backoff.NewConstantBackOff(l.retry.Delay)),
		backoff.WithMaxTries(l.retry.MaxAttempts),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().
				Err(err).
				Float64("lat", lat).
				Float64("lon", lon).
				Dur("retry_in", next).
				Msg("Geocoder timed out, trying again")
		}),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		return "", err
	}

	var name string
	if loc != nil {
		name, _ = loc.Address.PlaceName()
	}

	log.Info().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("city", name).
		Bool("found", name != "").
		Msg("Located city")

	return name, nil
}

// City is Resolve with every failure folded into "not found". Failures are
// only reported as warnings in the log.
func (l *Locator) City(ctx context.Context, p orb.Point) (string, bool) {
	name, err := l.Resolve(ctx, p)
	if err != nil {
		event := log.Warn().Err(err).Float64("lat", p.Y()).Float64("lon", p.X())
		switch {
		case errors.Is(err, ErrUnavailable):
			event.Msg("Geocoder unavailable, giving up")
		case errors.Is(err, ErrTimedOut):
			event.Msg("Geocoder kept timing out, giving up")
		default:
			event.Msg("Reverse geocoding failed")
		}
		return "", false
	}
	return name, name != ""
}

// CityOf resolves the place name at p through r.
func CityOf(ctx context.Context, p orb.Point, r Reverser, retry RetryOptions) (string, bool) {
	return NewLocator(r, retry).City(ctx, p)
}
