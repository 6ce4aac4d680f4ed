package coord

import (
	"math"
	"strconv"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

const (
	// EPSGWGS84 is the geographic source CRS of every Projection.
	EPSGWGS84 = 4326
	// EPSGWebMercator is the spherical Web Mercator CRS.
	EPSGWebMercator = 3857
	// NoEPSG is reported by Projection.EPSG for projections built from a
	// definition string.
	NoEPSG = -1
)

// Projection converts WGS84 longitude/latitude into coordinates of a target
// CRS.
//
// Projections built with NewEPSG(4326) return the input unchanged and
// NewEPSG(3857) uses the closed-form Web Mercator formulas; neither holds a
// library transform. Every other target goes through a prepared transform of
// github.com/ctessum/geom/proj. The fast paths are chosen by NewEPSG only:
// New("EPSG:3857") always prepares a library transform.
//
// A Projection is safe for concurrent use. Close releases the prepared
// transform.
type Projection struct {
	def  string
	epsg int
	m    mode
}

// mode is the transform strategy a Projection was built with.
type mode interface {
	transform(lon, lat float64) (x, y float64, err error)
	close()
}

type identity struct{}

func (identity) transform(lon, lat float64) (float64, float64, error) { return lon, lat, nil }
func (identity) close()                                               {}

type webMercator struct{}

func (webMercator) transform(lon, lat float64) (float64, float64, error) {
	return LonToX(lon), LatToY(lat), nil
}
func (webMercator) close() {}

// general owns a prepared WGS84 -> target transform. The library updates its
// spatial reference state on every call, hence the mutex.
type general struct {
	mu  sync.Mutex
	fwd proj.Transformer
}

func newGeneral(def string) (*general, error) {
	resolved, err := resolveDefinition(def)
	if err != nil {
		return nil, err
	}
	src, err := proj.Parse(wgs84Definition)
	if err != nil {
		return nil, err
	}
	dst, err := proj.Parse(resolved)
	if err != nil {
		return nil, err
	}
	// NewTransform defers projection lookup to the first call; fail here
	// instead for unknown +proj names.
	if _, _, err := dst.Transformers(); err != nil {
		return nil, err
	}
	fwd, err := src.NewTransform(dst)
	if err != nil {
		return nil, err
	}
	return &general{fwd: fwd}, nil
}

func (g *general) transform(lon, lat float64) (float64, float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fwd == nil {
		return math.NaN(), math.NaN(), ErrClosed
	}
	return g.fwd(lon, lat)
}

func (g *general) close() {
	g.mu.Lock()
	g.fwd = nil
	g.mu.Unlock()
}

// New prepares a projection from WGS84 to the CRS described by def: a PROJ.4
// string, WKT, or an "EPSG:<code>" reference. The returned projection always
// uses the transform library and reports NoEPSG from EPSG.
func New(def string) (*Projection, error) {
	g, err := newGeneral(def)
	if err != nil {
		return nil, &ProjectionSetupError{Definition: def, Err: err}
	}
	return &Projection{def: def, epsg: NoEPSG, m: g}, nil
}

// NewEPSG prepares a projection from WGS84 to the CRS with the given EPSG
// code.
func NewEPSG(code int) (*Projection, error) {
	p := &Projection{def: "EPSG:" + strconv.Itoa(code), epsg: code}
	switch code {
	case EPSGWGS84:
		p.m = identity{}
	case EPSGWebMercator:
		p.m = webMercator{}
	default:
		g, err := newGeneral(p.def)
		if err != nil {
			return nil, &ProjectionSetupError{Definition: p.def, Err: err}
		}
		p.m = g
	}
	return p, nil
}

// Transform projects loc into the target CRS. loc must be valid for the
// target; out-of-domain input gives formula- or library-defined output,
// NaN when the library rejects the point.
func (p *Projection) Transform(loc Location) geom.Point {
	x, y, err := p.m.transform(loc.Lon, loc.Lat)
	if err != nil {
		return geom.Point{X: math.NaN(), Y: math.NaN()}
	}
	return geom.Point{X: x, Y: y}
}

// TryTransform is like Transform but returns the transform library's
// diagnostic when it rejects the point, and ErrClosed after Close.
func (p *Projection) TryTransform(loc Location) (geom.Point, error) {
	x, y, err := p.m.transform(loc.Lon, loc.Lat)
	if err != nil {
		return geom.Point{X: math.NaN(), Y: math.NaN()}, err
	}
	return geom.Point{X: x, Y: y}, nil
}

// EPSG returns the code the projection was built with, or NoEPSG.
func (p *Projection) EPSG() int { return p.epsg }

// Definition returns the target CRS as given to New, or "EPSG:<code>".
func (p *Projection) Definition() string { return p.def }

// Close releases the prepared transform, if any. It is safe to call more
// than once.
func (p *Projection) Close() error {
	p.m.close()
	return nil
}
