package server

import (
	"net/http"

	"github.com/mclights/geopoint/internal/config"
	"github.com/mclights/geopoint/internal/geo"
	"github.com/mclights/geopoint/internal/geocode"

	"github.com/rs/zerolog/log"
)

// maxBodyBytes bounds the size of a posted geometry.
const maxBodyBytes = 4 << 20

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config  *config.Config
	Reducer geo.Reducer
	Locator *geocode.Locator
}

// NewServerContext wires the handlers to a locator. A nil locator disables
// the endpoints that need reverse geocoding.
func NewServerContext(cfg *config.Config, locator *geocode.Locator) *ServerContext {
	log.Info().
		Str("geocoder", cfg.Geocoder.URL).
		Str("language", cfg.Geocoder.Language).
		Bool("geocoding", locator != nil).
		Msg("Server context initialized")

	return &ServerContext{
		Config:  cfg,
		Reducer: geo.DefaultReducer,
		Locator: locator,
	}
}

// Routes registers every handler on a new mux.
func (s *ServerContext) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/point", s.HandlePoint)
	mux.HandleFunc("POST /api/city", s.HandleCity)
	mux.HandleFunc("GET /api/reverse", s.HandleReverse)
	mux.HandleFunc("GET /healthz", s.HandleHealth)
	return mux
}
