package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pspoerri/reproject/internal/coord"
	"github.com/pspoerri/reproject/internal/pointio"
)

func newTransformCmd(a *app) *cobra.Command {
	var output, inFormat, outFormat, lonCol, latCol, delimiter string

	cmd := &cobra.Command{
		Use:   "transform [input]",
		Short: "Project a CSV or GeoJSON point file.",
		Long: `transform reads WGS84 points from the input file (or stdin when it is
omitted or "-") and writes them in the target CRS. Points outside the valid
longitude/latitude range, or that the projection cannot handle, are skipped
and reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("input-format") {
				a.cfg.InputFormat = inFormat
			}
			if flags.Changed("output-format") {
				a.cfg.OutputFormat = outFormat
			}
			if flags.Changed("lon-column") {
				a.cfg.LonColumn = lonCol
			}
			if flags.Changed("lat-column") {
				a.cfg.LatColumn = latCol
			}
			if flags.Changed("delimiter") {
				a.cfg.Delimiter = delimiter
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			in, err := inputFormat(a.cfg.InputFormat, input)
			if err != nil {
				return err
			}
			out, err := outputFormat(a.cfg.OutputFormat, output, in)
			if err != nil {
				return err
			}

			col, err := a.readPoints(input, in)
			if err != nil {
				return err
			}
			p, err := a.projection()
			if err != nil {
				return err
			}
			defer p.Close()

			projected, stats := pointio.Project(p, col.Records, a.log)
			logStats(a.log, stats)

			w, err := a.create(output)
			if err != nil {
				return err
			}
			switch out {
			case pointio.FormatGeoJSON:
				err = pointio.WriteGeoJSON(w, projected, crsName(p))
			default:
				err = pointio.WriteCSV(w, col.Fields, projected)
			}
			if cerr := w.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", `output file (default stdout)`)
	f.StringVar(&inFormat, "input-format", "", "input format: csv or geojson (default from file name, else csv)")
	f.StringVar(&outFormat, "output-format", "", "output format: csv or geojson (default from file name, else input format)")
	f.StringVar(&lonCol, "lon-column", "", "CSV longitude column (default detected from header)")
	f.StringVar(&latCol, "lat-column", "", "CSV latitude column (default detected from header)")
	f.StringVarP(&delimiter, "delimiter", "d", "", `input CSV field separator, one character or "tab" (default ",")`)
	return cmd
}

func inputFormat(configured, path string) (pointio.Format, error) {
	if configured != "" {
		return pointio.ParseFormat(configured)
	}
	if f := pointio.FormatForPath(path); f != "" {
		return f, nil
	}
	return pointio.FormatCSV, nil
}

func outputFormat(configured, path string, in pointio.Format) (pointio.Format, error) {
	if configured != "" {
		return pointio.ParseFormat(configured)
	}
	if f := pointio.FormatForPath(path); f != "" {
		return f, nil
	}
	return in, nil
}

func (a *app) readPoints(path string, format pointio.Format) (*pointio.Collection, error) {
	r, err := a.open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var col *pointio.Collection
	switch format {
	case pointio.FormatGeoJSON:
		col, err = pointio.ReadGeoJSON(r)
	default:
		col, err = pointio.ReadCSV(r, pointio.CSVOptions{
			LonColumn: a.cfg.LonColumn,
			LatColumn: a.cfg.LatColumn,
			Comma:     a.cfg.Comma(),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	a.log.WithFields(logrus.Fields{
		"points": len(col.Records),
		"format": format,
	}).Debug("input read")
	return col, nil
}

func logStats(log logrus.FieldLogger, s pointio.Stats) {
	entry := log.WithFields(logrus.Fields{
		"total":     s.Total,
		"projected": s.Projected(),
		"invalid":   s.Invalid,
		"failed":    s.Failed,
	})
	if s.Invalid+s.Failed > 0 {
		entry.Warn("some points were skipped")
		return
	}
	entry.Info("points projected")
}

// crsName is the GeoJSON "crs" name for p, or "" when p has no EPSG
// reference.
func crsName(p *coord.Projection) string {
	if code := p.EPSG(); code != coord.NoEPSG {
		return fmt.Sprintf("EPSG:%d", code)
	}
	def := strings.TrimSpace(p.Definition())
	if strings.HasPrefix(strings.ToUpper(def), "EPSG:") {
		return "EPSG:" + def[len("EPSG:"):]
	}
	return ""
}
