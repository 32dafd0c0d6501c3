package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/mclights/geopoint/internal/geo"

	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	minjson "github.com/tdewolff/minify/v2/json"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Save.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Load reads GeoJSON from an http(s) URL, a file path or, for "-", stdin.
// A FeatureCollection is returned as is; a single Feature or bare geometry is
// wrapped in a collection of one.
func Load(ctx context.Context, client *http.Client, source string) (*geojson.FeatureCollection, error) {
	data, err := read(ctx, client, source)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes GeoJSON data into a feature collection.
func Parse(data []byte) (*geojson.FeatureCollection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errors.Wrap(err, "decode geojson")
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errors.Wrap(err, "decode feature collection")
		}
		return fc, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errors.Wrap(err, "decode feature")
		}
		fc := geojson.NewFeatureCollection()
		return fc.Append(f), nil
	default:
		g, err := geo.ParseGeometry(data)
		if err != nil {
			return nil, err
		}
		fc := geojson.NewFeatureCollection()
		if g == nil {
			return fc, nil
		}
		return fc.Append(geojson.NewFeature(g)), nil
	}
}

func read(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	switch {
	case source == "" || source == "-":
		data, err := io.ReadAll(os.Stdin)
		return data, errors.Wrap(err, "read stdin")

	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		log.Info().Str("source", source).Msg("Downloading features")

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, errors.Wrap(err, "build request")
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, errors.Wrapf(err, "download %s", source)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, errors.Errorf("download %s: status %d", source, resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		return data, errors.Wrapf(err, "download %s", source)

	default:
		data, err := os.ReadFile(source)
		return data, errors.Wrap(err, "read input")
	}
}

// Save writes fc to w as indented JSON, minified JSON or YAML.
func Save(w io.Writer, fc *geojson.FeatureCollection, format string, minified bool) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal features")
	}

	switch format {
	case "", FormatJSON:
		if minified {
			m := minify.New()
			m.AddFunc("application/json", minjson.Minify)
			if data, err = m.Bytes("application/json", data); err != nil {
				return errors.Wrap(err, "minify features")
			}
		}
	case FormatYAML:
		// go through a generic value so the GeoJSON member names and
		// geometry types survive
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var doc interface{}
		if err := dec.Decode(&doc); err != nil {
			return errors.Wrap(err, "convert features")
		}
		if data, err = yaml.Marshal(yamlNumbers(doc)); err != nil {
			return errors.Wrap(err, "marshal yaml")
		}
	default:
		return errors.Errorf("unknown format %q", format)
	}

	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "write features")
}

// yamlNumbers replaces json.Number values with int64 where the literal is an
// integer and float64 otherwise, so integers are not written in exponent form
// and stay exact beyond 2^53.
func yamlNumbers(v interface{}) interface{} {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case map[string]interface{}:
		for k, e := range v {
			v[k] = yamlNumbers(e)
		}
	case []interface{}:
		for i, e := range v {
			v[i] = yamlNumbers(e)
		}
	}
	return v
}
