package coord

import "math"

const (
	// EarthRadius is the WGS84 semi-major axis in meters, used as the sphere
	// radius by Web Mercator.
	EarthRadius = 6378137.0
	// EarthCircumference is the equatorial circumference in meters at zoom 0.
	EarthCircumference = 2 * math.Pi * EarthRadius
	// OriginShift is half the earth's circumference: the largest x (and y)
	// reached by Web Mercator.
	OriginShift = EarthCircumference / 2.0
	// MaxLatitude is the latitude at which Web Mercator y equals OriginShift,
	// the edge of the square world map.
	MaxLatitude = 85.0511287798066
	// DefaultTileSize is the standard web map tile dimension.
	DefaultTileSize = 256
)

// LonToX converts a WGS84 longitude in degrees to a Web Mercator x in meters.
func LonToX(lon float64) float64 {
	return lon * OriginShift / 180.0
}

// LatToY converts a WGS84 latitude in degrees to a Web Mercator y in meters.
// The poles map to ±Inf; latitudes beyond ±90 produce NaN.
func LatToY(lat float64) float64 {
	// atanh(sin φ) == ln(tan(π/4 + φ/2)), but exact at the equator.
	return EarthRadius * math.Atanh(math.Sin(lat*math.Pi/180.0))
}

// XToLon is the inverse of LonToX.
func XToLon(x float64) float64 {
	return x / OriginShift * 180.0
}

// YToLat is the inverse of LatToY.
func YToLat(y float64) float64 {
	return 180.0 / math.Pi * (2.0*math.Atan(math.Exp(y/EarthRadius)) - math.Pi/2.0)
}

// LonLatToTile converts WGS84 lon/lat to tile coordinates at the given zoom
// level. Latitudes beyond ±MaxLatitude land in the edge rows.
func LonLatToTile(lon, lat float64, zoom int) (x, y int) {
	n := math.Pow(2, float64(zoom))
	x = int(math.Floor((lon + 180.0) / 360.0 * n))
	y = int(math.Floor(globalTileY(lat) * n))

	maxTile := int(n) - 1
	if x < 0 {
		x = 0
	}
	if x > maxTile {
		x = maxTile
	}
	if y < 0 {
		y = 0
	}
	if y > maxTile {
		y = maxTile
	}
	return
}

// TileBounds returns the WGS84 bounding box of a tile at the given zoom level.
func TileBounds(z, x, y int) (minLon, minLat, maxLon, maxLat float64) {
	n := math.Pow(2, float64(z))
	minLon = XToLon(OriginShift * (2*float64(x)/n - 1))
	maxLon = XToLon(OriginShift * (2*float64(x+1)/n - 1))
	minLat = YToLat(OriginShift * (1 - 2*float64(y+1)/n))
	maxLat = YToLat(OriginShift * (1 - 2*float64(y)/n))
	return
}

// TilePixelCoords returns the fractional pixel coordinates within a tile
// for a given WGS84 lon/lat and tile (z,x,y), using the given tile size.
func TilePixelCoords(lon, lat float64, z, tileX, tileY, tileSize int) (px, py float64) {
	n := math.Pow(2, float64(z))

	// Global pixel coordinates.
	globalX := (lon + 180.0) / 360.0 * n * float64(tileSize)
	globalY := globalTileY(lat) * n * float64(tileSize)

	px = globalX - float64(tileX)*float64(tileSize)
	py = globalY - float64(tileY)*float64(tileSize)
	return
}

// globalTileY maps lat to [0, 1] from the top edge of the zoom 0 tile,
// clamping to ±MaxLatitude.
func globalTileY(lat float64) float64 {
	lat = math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
	return (1 - LatToY(lat)/OriginShift) / 2
}

// ResolutionAtLat returns the ground resolution in meters/pixel at the given
// latitude and zoom level for tiles of tileSize pixels.
func ResolutionAtLat(lat float64, zoom, tileSize int) float64 {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	return EarthCircumference * math.Cos(lat*math.Pi/180.0) / math.Pow(2, float64(zoom)) / float64(tileSize)
}

// MaxZoom is the deepest zoom level the tile helpers consider.
const MaxZoom = 30

// ZoomForResolution returns the deepest zoom level whose ground resolution at
// lat is still coarser than or equal to pixelSize meters.
func ZoomForResolution(pixelSize, lat float64, tileSize int) int {
	for z := MaxZoom; z >= 0; z-- {
		if ResolutionAtLat(lat, z, tileSize) >= pixelSize {
			return z
		}
	}
	return 0
}
