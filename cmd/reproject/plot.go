package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pspoerri/reproject/internal/encode"
	"github.com/pspoerri/reproject/internal/plot"
	"github.com/pspoerri/reproject/internal/pointio"
)

func newPlotCmd(a *app) *cobra.Command {
	var (
		inFormat      string
		delimiter     string
		width, height int
		margin        int
		pointSize     float64
		format        string
		quality       int
	)

	cmd := &cobra.Command{
		Use:   "plot <input> <output-image>",
		Short: "Render projected points to a PNG, JPEG or WebP image.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("input-format") {
				a.cfg.InputFormat = inFormat
			}
			if flags.Changed("delimiter") {
				a.cfg.Delimiter = delimiter
			}
			if flags.Changed("width") {
				a.cfg.Plot.Width = width
			}
			if flags.Changed("height") {
				a.cfg.Plot.Height = height
			}
			if flags.Changed("margin") {
				a.cfg.Plot.Margin = margin
			}
			if flags.Changed("point-size") {
				a.cfg.Plot.PointSize = pointSize
			}
			if flags.Changed("format") {
				a.cfg.Plot.Format = format
			}
			if flags.Changed("quality") {
				a.cfg.Plot.Quality = quality
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			input, output := args[0], args[1]
			imgFormat := a.cfg.Plot.Format
			if imgFormat == "" {
				imgFormat = encode.FormatForPath(output)
			}
			if imgFormat == "" {
				imgFormat = "png"
			}
			enc, err := encode.NewEncoder(imgFormat, a.cfg.Plot.Quality)
			if err != nil {
				return err
			}

			in, err := inputFormat(a.cfg.InputFormat, input)
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

			opts := plot.DefaultOptions()
			opts.Width = a.cfg.Plot.Width
			opts.Height = a.cfg.Plot.Height
			opts.Margin = a.cfg.Plot.Margin
			opts.PointSize = a.cfg.Plot.PointSize
			img, err := plot.Render(pointio.Points(projected), opts)
			if err != nil {
				return err
			}
			data, err := enc.Encode(img)
			if err != nil {
				return fmt.Errorf("encode %s: %w", enc.Format(), err)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write image: %w", err)
			}
			a.log.WithFields(logrus.Fields{
				"file":   output,
				"format": enc.Format(),
				"bytes":  len(data),
			}).Info("plot written")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&inFormat, "input-format", "", "input format: csv or geojson (default from file name, else csv)")
	f.StringVarP(&delimiter, "delimiter", "d", "", `input CSV field separator, one character or "tab" (default ",")`)
	f.IntVar(&width, "width", 1024, "image width in pixels")
	f.IntVar(&height, "height", 1024, "image height in pixels")
	f.IntVar(&margin, "margin", 16, "empty border in pixels")
	f.Float64Var(&pointSize, "point-size", 4, "marker size in pixels")
	f.StringVar(&format, "format", "", "image format: png, jpeg or webp (default from file name, else png)")
	f.IntVar(&quality, "quality", 85, "JPEG/WebP quality 1-100")
	return cmd
}
