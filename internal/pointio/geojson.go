package pointio

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"

	"github.com/pspoerri/reproject/internal/coord"
)

// object holds the members of any GeoJSON object this package reads.
type object struct {
	Type        string                 `json:"type"`
	Features    []object               `json:"features,omitempty"`
	Geometry    *geojson.Geometry      `json:"geometry,omitempty"`
	Properties  map[string]interface{} `json:"properties,omitempty"`
	Coordinates interface{}            `json:"coordinates,omitempty"`
}

// ReadGeoJSON reads a FeatureCollection of Point features, a single Point
// Feature, or a bare Point geometry. Only two-dimensional points are
// accepted.
func ReadGeoJSON(r io.Reader) (*Collection, error) {
	var o object
	if err := json.NewDecoder(r).Decode(&o); err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}

	var features []object
	switch o.Type {
	case "FeatureCollection":
		features = o.Features
	case "Feature":
		features = []object{o}
	case "Point":
		features = []object{{
			Type:     "Feature",
			Geometry: &geojson.Geometry{Type: o.Type, Coordinates: o.Coordinates},
		}}
	default:
		return nil, fmt.Errorf("geojson: unsupported object type %q", o.Type)
	}

	c := &Collection{}
	fields := map[string]bool{}
	for i, f := range features {
		n := i + 1
		if f.Geometry == nil {
			return nil, fmt.Errorf("geojson: feature %d has no geometry", n)
		}
		g, err := geojson.FromGeoJSON(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("geojson: feature %d: %w", n, err)
		}
		pt, ok := g.(geom.Point)
		if !ok {
			return nil, fmt.Errorf("geojson: feature %d: geometry %s is not a Point", n, f.Geometry.Type)
		}
		for k := range f.Properties {
			fields[k] = true
		}
		c.Records = append(c.Records, Record{
			Line:       n,
			Location:   coord.Location{Lon: pt.X, Lat: pt.Y},
			Properties: f.Properties,
		})
	}
	for k := range fields {
		c.Fields = append(c.Fields, k)
	}
	sort.Strings(c.Fields)
	return c, nil
}

type namedCRS struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	CRS      *namedCRS `json:"crs,omitempty"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string                 `json:"type"`
	Geometry   *geojson.Geometry      `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// WriteGeoJSON writes projected records as a FeatureCollection. A non-empty
// crsName adds a named "crs" member, as GeoJSON readers expect for
// coordinates that are not WGS84.
func WriteGeoJSON(w io.Writer, recs []Projected, crsName string) error {
	fc := featureCollection{
		Type:     "FeatureCollection",
		Features: make([]feature, 0, len(recs)),
	}
	if crsName != "" {
		fc.CRS = &namedCRS{Type: "name", Properties: map[string]string{"name": crsName}}
	}
	for _, r := range recs {
		g, err := geojson.ToGeoJSON(r.Point)
		if err != nil {
			return err
		}
		props := r.Properties
		if props == nil {
			props = map[string]interface{}{}
		}
		fc.Features = append(fc.Features, feature{Type: "Feature", Geometry: g, Properties: props})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}
