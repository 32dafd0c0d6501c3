// Package server exposes the geometry reducer and the reverse geocoder over HTTP.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/mclights/geopoint/internal/geo"
	"github.com/mclights/geopoint/internal/geocode"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// PointResponse is the answer of /api/point and /api/city.
type PointResponse struct {
	Kind  string     `json:"kind"`
	Point [2]float64 `json:"point"`
	City  string     `json:"city,omitempty"`
}

// ReverseResponse is the answer of /api/reverse.
type ReverseResponse struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	City string  `json:"city,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandlePoint reduces the posted GeoJSON geometry to its representative point.
func (s *ServerContext) HandlePoint(w http.ResponseWriter, r *http.Request) {
	kind, p, ok := s.reduceBody(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, PointResponse{Kind: kind.String(), Point: [2]float64{p.X(), p.Y()}})
}

// HandleCity reduces the posted geometry and names the place its point falls
// in. A failed lookup is not an error: the city is just left out.
func (s *ServerContext) HandleCity(w http.ResponseWriter, r *http.Request) {
	if s.Locator == nil {
		writeError(w, http.StatusServiceUnavailable, "reverse geocoding is disabled")
		return
	}

	kind, p, ok := s.reduceBody(w, r)
	if !ok {
		return
	}

	resp := PointResponse{Kind: kind.String(), Point: [2]float64{p.X(), p.Y()}}
	resp.City, _ = s.Locator.City(r.Context(), p)
	writeJSON(w, http.StatusOK, resp)
}

// HandleReverse names the place at ?lat=&lon=. Unlike HandleCity it reports
// geocoder failures with a status code.
func (s *ServerContext) HandleReverse(w http.ResponseWriter, r *http.Request) {
	if s.Locator == nil {
		writeError(w, http.StatusServiceUnavailable, "reverse geocoding is disabled")
		return
	}

	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, "lat and lon must be valid coordinates")
		return
	}

	name, err := s.Locator.Resolve(r.Context(), orb.Point{lon, lat})
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, geocode.ErrUnavailable):
			status = http.StatusServiceUnavailable
		case errors.Is(err, geocode.ErrTimedOut):
			status = http.StatusGatewayTimeout
		}
		log.Warn().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("Reverse geocoding failed")
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ReverseResponse{Lat: lat, Lon: lon, City: name})
}

// HandleHealth reports that the process is serving.
func (s *ServerContext) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *ServerContext) reduceBody(w http.ResponseWriter, r *http.Request) (geo.Kind, orb.Point, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "geometry too large")
		return 0, orb.Point{}, false
	}

	g, err := geo.ParseGeometry(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, orb.Point{}, false
	}

	kind := geo.Classify(g)
	p, ok := s.Reducer.Point(g)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "geometry has no representative point: "+kind.String())
		return 0, orb.Point{}, false
	}
	return kind, p, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
