package coord

import (
	"errors"
	"math"
	"sync"
	"testing"
)

var testLocations = []Location{
	{8.5417, 47.3769},    // Zurich
	{6.6323, 46.5197},    // Lausanne
	{-74.0060, 40.7128},  // NYC
	{139.6917, 35.6895},  // Tokyo
	{-58.3816, -34.6037}, // Buenos Aires
	{0, 0},
	{-180, -85},
	{180, 85},
}

func mustEPSG(t *testing.T, code int) *Projection {
	t.Helper()
	p, err := NewEPSG(code)
	if err != nil {
		t.Fatalf("NewEPSG(%d): %v", code, err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestNewEPSG_Identity(t *testing.T) {
	p := mustEPSG(t, 4326)
	for _, loc := range testLocations {
		got := p.Transform(loc)
		if got.X != loc.Lon || got.Y != loc.Lat {
			t.Errorf("EPSG:4326 Transform(%v) = (%v, %v), want (%v, %v)", loc, got.X, got.Y, loc.Lon, loc.Lat)
		}
	}
}

func TestNewEPSG_WebMercatorOrigin(t *testing.T) {
	p := mustEPSG(t, 3857)
	got := p.Transform(Location{0, 0})
	if got.X != 0 || got.Y != 0 {
		t.Errorf("EPSG:3857 Transform(0, 0) = (%v, %v), want (0, 0)", got.X, got.Y)
	}
}

func TestNewEPSG_WebMercatorAxes(t *testing.T) {
	p := mustEPSG(t, 3857)

	// x depends on longitude only.
	for _, lat := range []float64{-60, 0, 33.3, 80} {
		got := p.Transform(Location{Lon: 45, Lat: lat})
		if math.Abs(got.X-OriginShift/4) > 1e-6 {
			t.Errorf("Transform(45, %v).X = %v, want %v", lat, got.X, OriginShift/4)
		}
	}

	// y depends on latitude only and increases with it.
	prev := math.Inf(-1)
	for lat := -85.0; lat <= 85.0; lat += 2.5 {
		a := p.Transform(Location{Lon: -120, Lat: lat})
		b := p.Transform(Location{Lon: 60, Lat: lat})
		if a.Y != b.Y {
			t.Errorf("Transform(·, %v).Y differs with longitude: %v vs %v", lat, a.Y, b.Y)
		}
		if a.Y <= prev {
			t.Errorf("Transform(·, %v).Y = %v, not greater than %v", lat, a.Y, prev)
		}
		prev = a.Y
	}
}

func TestEPSGAccessor(t *testing.T) {
	tests := []struct {
		name string
		make func() (*Projection, error)
		want int
	}{
		{"code 4326", func() (*Projection, error) { return NewEPSG(4326) }, 4326},
		{"code 3857", func() (*Projection, error) { return NewEPSG(3857) }, 3857},
		{"code 32632", func() (*Projection, error) { return NewEPSG(32632) }, 32632},
		{"string proj4", func() (*Projection, error) { return New("+proj=utm +zone=32 +datum=WGS84 +units=m +no_defs") }, NoEPSG},
		{"string epsg 3857", func() (*Projection, error) { return New("EPSG:3857") }, NoEPSG},
		{"string epsg 4326", func() (*Projection, error) { return New("EPSG:4326") }, NoEPSG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.make()
			if err != nil {
				t.Fatalf("construct: %v", err)
			}
			defer p.Close()
			if got := p.EPSG(); got != tt.want {
				t.Errorf("EPSG() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDefinition(t *testing.T) {
	p := mustEPSG(t, 3857)
	if got := p.Definition(); got != "EPSG:3857" {
		t.Errorf("Definition() = %q, want %q", got, "EPSG:3857")
	}

	def := "+proj=utm +zone=33 +datum=WGS84 +units=m +no_defs"
	q, err := New(def)
	if err != nil {
		t.Fatalf("New(%q): %v", def, err)
	}
	defer q.Close()
	if got := q.Definition(); got != def {
		t.Errorf("Definition() = %q, want %q", got, def)
	}
}

func TestNew_SetupErrors(t *testing.T) {
	defs := []string{
		"not-a-crs",
		"",
		"EPSG:999999",
		"epsg:abc",
		"+proj=nosuchprojection +datum=WGS84",
	}
	for _, def := range defs {
		p, err := New(def)
		if err == nil {
			p.Close()
			t.Errorf("New(%q) succeeded, want error", def)
			continue
		}
		if p != nil {
			t.Errorf("New(%q) returned a projection alongside error %v", def, err)
		}
		var setupErr *ProjectionSetupError
		if !errors.As(err, &setupErr) {
			t.Errorf("New(%q) error %T, want *ProjectionSetupError", def, err)
			continue
		}
		if setupErr.Definition != def {
			t.Errorf("ProjectionSetupError.Definition = %q, want %q", setupErr.Definition, def)
		}
		if setupErr.Unwrap() == nil {
			t.Errorf("New(%q) error carries no library diagnostic", def)
		}
	}
}

func TestNewEPSG_UnknownCode(t *testing.T) {
	p, err := NewEPSG(999999)
	if err == nil {
		p.Close()
		t.Fatal("NewEPSG(999999) succeeded, want error")
	}
	if p != nil {
		t.Errorf("NewEPSG(999999) returned a projection alongside error")
	}
	var setupErr *ProjectionSetupError
	if !errors.As(err, &setupErr) {
		t.Fatalf("error %T, want *ProjectionSetupError", err)
	}
	if setupErr.Definition != "EPSG:999999" {
		t.Errorf("Definition = %q, want EPSG:999999", setupErr.Definition)
	}
}

func TestGeneral_UTM32N(t *testing.T) {
	p := mustEPSG(t, 32632)

	// The central meridian of zone 32 is 9°E; on the equator that is the
	// false easting.
	got := p.Transform(Location{Lon: 9, Lat: 0})
	if math.Abs(got.X-500000) > 1e-3 || math.Abs(got.Y) > 1e-3 {
		t.Errorf("EPSG:32632 Transform(9, 0) = (%v, %v), want (500000, 0)", got.X, got.Y)
	}

	// East of the central meridian easting grows, north of the equator
	// northing grows.
	ne := p.Transform(Location{Lon: 10, Lat: 1})
	if ne.X <= 500000 || ne.Y <= 0 {
		t.Errorf("EPSG:32632 Transform(10, 1) = (%v, %v), want x > 500000, y > 0", ne.X, ne.Y)
	}
}

func TestGeneral_WebMercatorStringMatchesFastPath(t *testing.T) {
	fast := mustEPSG(t, 3857)
	slow, err := New("EPSG:3857")
	if err != nil {
		t.Fatalf("New(EPSG:3857): %v", err)
	}
	defer slow.Close()

	for _, loc := range testLocations {
		a := fast.Transform(loc)
		b := slow.Transform(loc)
		if math.Abs(a.X-b.X) > 1e-3 || math.Abs(a.Y-b.Y) > 1e-3 {
			t.Errorf("Transform(%v): fast (%v, %v), library (%v, %v)", loc, a.X, a.Y, b.X, b.Y)
		}
	}
}

func TestGeneral_Deterministic(t *testing.T) {
	a := mustEPSG(t, 32633)
	b := mustEPSG(t, 32633)
	for _, loc := range testLocations[:5] {
		pa, pb := a.Transform(loc), b.Transform(loc)
		if pa != pb {
			t.Errorf("Transform(%v): %v != %v", loc, pa, pb)
		}
		// Repeated calls on one projection do not drift.
		if again := a.Transform(loc); again != pa {
			t.Errorf("Transform(%v) second call: %v != %v", loc, again, pa)
		}
	}
}

func TestFastPaths_Deterministic(t *testing.T) {
	for _, code := range []int{4326, 3857} {
		a, b := mustEPSG(t, code), mustEPSG(t, code)
		for _, loc := range testLocations {
			if pa, pb := a.Transform(loc), b.Transform(loc); pa != pb {
				t.Errorf("EPSG:%d Transform(%v): %v != %v", code, loc, pa, pb)
			}
		}
	}
}

func TestGeneral_LibraryRejectsPoint(t *testing.T) {
	p, err := New("EPSG:3857")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	// Mercator is undefined at the pole.
	got := p.Transform(Location{Lon: 0, Lat: 90})
	if !math.IsNaN(got.X) || !math.IsNaN(got.Y) {
		t.Errorf("Transform(0, 90) = (%v, %v), want NaN", got.X, got.Y)
	}
	if _, err := p.TryTransform(Location{Lon: 0, Lat: 90}); err == nil {
		t.Error("TryTransform(0, 90) succeeded, want library error")
	}
}

func TestClose(t *testing.T) {
	p, err := NewEPSG(32632)
	if err != nil {
		t.Fatalf("NewEPSG: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := p.TryTransform(Location{9, 0}); !errors.Is(err, ErrClosed) {
		t.Errorf("TryTransform after Close: err = %v, want ErrClosed", err)
	}
	if got := p.Transform(Location{9, 0}); !math.IsNaN(got.X) {
		t.Errorf("Transform after Close = %v, want NaN", got)
	}

	// Fast paths have nothing to release and keep working.
	q := mustEPSG(t, 3857)
	q.Close()
	if got := q.Transform(Location{0, 0}); got.X != 0 || got.Y != 0 {
		t.Errorf("closed EPSG:3857 Transform(0, 0) = %v, want origin", got)
	}
}

func TestTryTransform_FastPaths(t *testing.T) {
	for _, code := range []int{4326, 3857} {
		p := mustEPSG(t, code)
		for _, loc := range testLocations {
			got, err := p.TryTransform(loc)
			if err != nil {
				t.Errorf("EPSG:%d TryTransform(%v): %v", code, loc, err)
			}
			if want := p.Transform(loc); got != want {
				t.Errorf("EPSG:%d TryTransform(%v) = %v, Transform = %v", code, loc, got, want)
			}
		}
	}
}

func TestGeneral_ConcurrentUse(t *testing.T) {
	p := mustEPSG(t, 32632)
	want := p.Transform(Location{10, 45})

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := p.Transform(Location{10, 45}); got != want {
					errs <- "concurrent Transform result differs"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}
