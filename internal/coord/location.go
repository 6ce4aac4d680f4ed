package coord

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// Location is a WGS84 (EPSG:4326) position in degrees.
type Location struct {
	Lon, Lat float64
}

// Valid reports whether the longitude is within [-180, 180] and the latitude
// within [-90, 90]. NaN components are invalid.
func (l Location) Valid() bool {
	return s2.LatLngFromDegrees(l.Lat, l.Lon).IsValid()
}

func (l Location) String() string {
	return fmt.Sprintf("(%.7f, %.7f)", l.Lon, l.Lat)
}
