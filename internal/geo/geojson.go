// Package geo reduces geometries to a single representative point and decodes
// them from GeoJSON.
package geo

import (
	"bytes"
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

var jsonNull = []byte("null")

// ParseGeometry decodes a GeoJSON geometry object. A Feature is unwrapped to
// its geometry. A JSON null decodes to a nil geometry.
func ParseGeometry(data []byte) (orb.Geometry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty geometry")
	}
	if bytes.Equal(data, jsonNull) {
		return nil, nil
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errors.Wrap(err, "decode geometry")
	}

	if head.Type == "Feature" {
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errors.Wrap(err, "decode feature")
		}
		return f.Geometry, nil
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode geometry")
	}
	return g.Geometry(), nil
}
