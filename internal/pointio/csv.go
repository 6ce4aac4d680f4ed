package pointio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"

	"github.com/pspoerri/reproject/internal/coord"
)

var (
	lonColumns = []string{"lon", "lng", "long", "longitude", "x"}
	latColumns = []string{"lat", "latitude", "y"}
)

// CSVOptions configures ReadCSV. Empty column names are detected from the
// header.
type CSVOptions struct {
	LonColumn string
	LatColumn string
	Comma     rune
}

// ReadCSV reads points from CSV with a header row. Columns other than the
// longitude and latitude are kept as string properties.
func ReadCSV(r io.Reader, opts CSVOptions) (*Collection, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("csv: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	lonIdx, err := findColumn(header, opts.LonColumn, lonColumns)
	if err != nil {
		return nil, fmt.Errorf("csv: longitude %w", err)
	}
	latIdx, err := findColumn(header, opts.LatColumn, latColumns)
	if err != nil {
		return nil, fmt.Errorf("csv: latitude %w", err)
	}
	if lonIdx == latIdx {
		return nil, fmt.Errorf("csv: longitude and latitude both map to column %q", header[lonIdx])
	}

	c := &Collection{}
	for i, name := range header {
		if i != lonIdx && i != latIdx {
			c.Fields = append(c.Fields, name)
		}
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		lon, err := cast.ToFloat64E(strings.TrimSpace(row[lonIdx]))
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: longitude %q: %w", line, row[lonIdx], err)
		}
		lat, err := cast.ToFloat64E(strings.TrimSpace(row[latIdx]))
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: latitude %q: %w", line, row[latIdx], err)
		}
		props := make(map[string]interface{}, len(c.Fields))
		for i, v := range row {
			if i != lonIdx && i != latIdx {
				props[header[i]] = v
			}
		}
		c.Records = append(c.Records, Record{
			Line:       line,
			Location:   coord.Location{Lon: lon, Lat: lat},
			Properties: props,
		})
	}
	return c, nil
}

// findColumn returns the index of want, or of the first candidate present
// when want is empty. Matching ignores case and surrounding space.
func findColumn(header []string, want string, candidates []string) (int, error) {
	if want != "" {
		candidates = []string{want}
	}
	for _, c := range candidates {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), c) {
				return i, nil
			}
		}
	}
	if want != "" {
		return -1, fmt.Errorf("column %q not found", want)
	}
	return -1, fmt.Errorf("column not found (tried %s)", strings.Join(candidates, ", "))
}

// WriteCSV writes projected records as x,y followed by fields.
func WriteCSV(w io.Writer, fields []string, recs []Projected) error {
	cw := csv.NewWriter(w)
	header := append([]string{"x", "y"}, fields...)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, r := range recs {
		row[0] = cast.ToString(r.Point.X)
		row[1] = cast.ToString(r.Point.Y)
		for i, f := range fields {
			row[i+2] = cast.ToString(r.Properties[f])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
