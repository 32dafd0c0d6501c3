package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mclights/geopoint/internal/config"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Nominatim is a Reverser backed by the OpenStreetMap Nominatim API.
// It is safe for concurrent use.
type Nominatim struct {
	baseURL    string
	language   string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *ristretto.Cache[string, *Location]
}

// NewNominatim creates a client from the geocoder configuration. A nil
// httpClient uses a client with pooled connections.
func NewNominatim(cfg config.Geocoder, httpClient *http.Client) (*Nominatim, error) {
	if cfg.URL == "" {
		cfg.URL = config.DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = config.DefaultRequestsPerSecond
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	n := &Nominatim{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		language:   cfg.Language,
		userAgent:  cfg.UserAgent,
		timeout:    cfg.Timeout,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}

	if cfg.CacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, *Location]{
			NumCounters: cfg.CacheSize * 10,
			MaxCost:     cfg.CacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, errors.Wrap(err, "create geocoder cache")
		}
		n.cache = cache
	}

	return n, nil
}

// Close releases the cache.
func (n *Nominatim) Close() error {
	if n.cache != nil {
		n.cache.Close()
	}
	return nil
}

type reverseResponse struct {
	Error       string  `json:"error"`
	DisplayName string  `json:"display_name"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Address     Address `json:"address"`
}

// Reverse requests the single best match at lat, lon.
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (*Location, error) {
	key := cacheKey(lat, lon)
	if n.cache != nil {
		if loc, ok := n.cache.Get(key); ok {
			log.Trace().Str("key", key).Msg("Geocoder cache hit")
			return loc, nil
		}
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "wait for rate limit")
	}

	params := url.Values{
		"lat":            {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(lon, 'f', -1, 64)},
		"format":         {"jsonv2"},
		"addressdetails": {"1"},
	}
	if n.language != "" {
		params.Set("accept-language", n.language)
	}

	reqCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, n.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}
	if n.language != "" {
		req.Header.Set("Accept-Language", n.language)
	}

	start := time.Now()
	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Reverse geocoding request")

	switch {
	case resp.StatusCode == http.StatusOK, resp.StatusCode == http.StatusNotFound:
	case resp.StatusCode == http.StatusRequestTimeout, resp.StatusCode == http.StatusGatewayTimeout:
		return nil, errors.Wrapf(ErrTimedOut, "status %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, errors.Wrapf(ErrUnavailable, "status %d", resp.StatusCode)
	default:
		return nil, errors.Wrapf(ErrService, "status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, classifyDecode(ctx, err)
	}

	if body.Error != "" || resp.StatusCode == http.StatusNotFound {
		log.Debug().Str("reason", body.Error).Msg("Nothing found at coordinate")
		return nil, nil
	}

	loc := &Location{
		DisplayName: body.DisplayName,
		Lat:         lat,
		Lon:         lon,
		Address:     body.Address,
	}
	if v, err := strconv.ParseFloat(body.Lat, 64); err == nil {
		loc.Lat = v
	}
	if v, err := strconv.ParseFloat(body.Lon, 64); err == nil {
		loc.Lon = v
	}

	if n.cache != nil {
		n.cache.Set(key, loc, 1)
	}
	return loc, nil
}

// cacheKey rounds to roughly 11 cm, below the resolution of any address.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lon)
}

func classifyTransport(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), "reverse geocode")
	}
	if isTimeout(err) {
		return errors.Wrap(ErrTimedOut, err.Error())
	}
	return errors.Wrap(ErrUnavailable, err.Error())
}

// classifyDecode treats a body cut short by the deadline as a timeout.
func classifyDecode(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), "reverse geocode")
	}
	if isTimeout(err) {
		return errors.Wrap(ErrTimedOut, err.Error())
	}
	return errors.Wrapf(ErrService, "decode response: %v", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
