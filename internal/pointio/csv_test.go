package pointio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ctessum/geom"

	"github.com/pspoerri/reproject/internal/coord"
)

func TestReadCSV_DetectsColumns(t *testing.T) {
	in := "name,Latitude,Longitude,pop\n" +
		"Zurich,47.3769,8.5417,421878\n" +
		"Bern, 46.9480, 7.4474,134794\n"

	c, err := ReadCSV(strings.NewReader(in), CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got := strings.Join(c.Fields, ","); got != "name,pop" {
		t.Errorf("Fields = %q, want %q", got, "name,pop")
	}
	if len(c.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(c.Records))
	}

	r := c.Records[1]
	if r.Location != (coord.Location{Lon: 7.4474, Lat: 46.9480}) {
		t.Errorf("Location = %v, want Bern", r.Location)
	}
	if r.Line != 3 {
		t.Errorf("Line = %d, want 3", r.Line)
	}
	if r.Properties["name"] != "Bern" || r.Properties["pop"] != "134794" {
		t.Errorf("Properties = %v", r.Properties)
	}
}

func TestReadCSV_ExplicitColumnsAndComma(t *testing.T) {
	in := "id;e;n\n1;9;0\n"
	c, err := ReadCSV(strings.NewReader(in), CSVOptions{LonColumn: "E", LatColumn: "n", Comma: ';'})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(c.Records) != 1 || c.Records[0].Location != (coord.Location{Lon: 9, Lat: 0}) {
		t.Errorf("Records = %+v", c.Records)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		opts    CSVOptions
		wantErr string
	}{
		{"empty", "", CSVOptions{}, "empty input"},
		{"no latitude", "lon,height\n1,2\n", CSVOptions{}, "latitude"},
		{"missing explicit", "lon,lat\n1,2\n", CSVOptions{LonColumn: "easting"}, `"easting" not found`},
		{"bad number", "lon,lat\n1,2\n3,north\n", CSVOptions{}, "line 3"},
		{"same column", "lon,lat\n1,2\n", CSVOptions{LonColumn: "lon", LatColumn: "LON"}, "both map"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in), tt.opts)
			if err == nil {
				t.Fatalf("ReadCSV succeeded, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	recs := []Projected{
		{
			Record: Record{Properties: map[string]interface{}{"name": "a", "n": 3.5}},
			Point:  geom.Point{X: 500000, Y: 0.25},
		},
		{
			Record: Record{Properties: map[string]interface{}{"name": "b,c"}},
			Point:  geom.Point{X: -1.5, Y: 2},
		},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []string{"name", "n"}, recs); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "x,y,name,n\n500000,0.25,a,3.5\n-1.5,2,\"b,c\",\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteCSV output:\n%s\nwant:\n%s", got, want)
	}
}
