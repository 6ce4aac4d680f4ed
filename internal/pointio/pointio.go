// Package pointio reads WGS84 point data and writes it projected.
package pointio

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"

	"github.com/pspoerri/reproject/internal/coord"
)

// Format is a point file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatGeoJSON Format = "geojson"
)

// ParseFormat accepts "csv", "geojson" and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "geojson", "json":
		return FormatGeoJSON, nil
	default:
		return "", fmt.Errorf("unsupported point format: %q (supported: csv, geojson)", s)
	}
}

// FormatForPath guesses the format from a file name, or returns "".
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV
	case ".geojson", ".json":
		return FormatGeoJSON
	}
	return ""
}

// Record is one input point with its non-coordinate attributes.
type Record struct {
	// Line is the 1-based CSV line or GeoJSON feature number.
	Line       int
	Location   coord.Location
	Properties map[string]interface{}
}

// Collection is a set of records read from one source. Fields lists the
// property names in output order.
type Collection struct {
	Fields  []string
	Records []Record
}

// Projected is a record together with its position in the target CRS.
type Projected struct {
	Record
	Point geom.Point
}

// Stats summarizes a Project run.
type Stats struct {
	Total   int
	Invalid int // locations outside the WGS84 range, skipped
	Failed  int // rejected by the transform, skipped
}

// Projected returns how many records made it to the output.
func (s Stats) Projected() int { return s.Total - s.Invalid - s.Failed }

// Project applies p to every record. Records with out-of-range locations,
// that the transform rejects, or that project to a non-finite point are
// logged and left out of the result.
func Project(p *coord.Projection, recs []Record, log logrus.FieldLogger) ([]Projected, Stats) {
	out := make([]Projected, 0, len(recs))
	stats := Stats{Total: len(recs)}
	for _, r := range recs {
		if !r.Location.Valid() {
			stats.Invalid++
			log.WithFields(logrus.Fields{
				"line":     r.Line,
				"location": r.Location.String(),
			}).Warn("skipping location outside the WGS84 range")
			continue
		}
		pt, err := p.TryTransform(r.Location)
		if err != nil {
			stats.Failed++
			log.WithFields(logrus.Fields{
				"line":       r.Line,
				"location":   r.Location.String(),
				"projection": p.Definition(),
			}).WithError(err).Warn("skipping location the projection rejected")
			continue
		}
		if !finite(pt) {
			// Web Mercator sends the poles to infinity.
			stats.Failed++
			log.WithFields(logrus.Fields{
				"line":       r.Line,
				"location":   r.Location.String(),
				"projection": p.Definition(),
				"max_lat":    coord.MaxLatitude,
			}).Warn("skipping location with no finite position in the target CRS")
			continue
		}
		out = append(out, Projected{Record: r, Point: pt})
	}
	return out, stats
}

func finite(p geom.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Points returns the projected positions of recs.
func Points(recs []Projected) []geom.Point {
	pts := make([]geom.Point, len(recs))
	for i, r := range recs {
		pts[i] = r.Point
	}
	return pts
}
