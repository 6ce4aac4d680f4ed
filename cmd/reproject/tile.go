package main

import (
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/pspoerri/reproject/internal/coord"
)

func newTileCmd(a *app) *cobra.Command {
	var (
		zoom       int
		tileSize   int
		resolution float64
	)

	cmd := &cobra.Command{
		Use:   "tile <lon> <lat>",
		Short: "Show the Web Mercator tile and target coordinates of a location.",
		Long: `tile prints the slippy-map tile containing the location at the given zoom,
the tile's WGS84 bounds, the pixel position inside the tile, the ground
resolution, and the location projected into the target CRS. With
--resolution it also prints the zoom level matching that ground resolution.

Use "--" before negative coordinates, e.g. "reproject tile -- -74.006 40.7128".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lon, err := cast.ToFloat64E(args[0])
			if err != nil {
				return fmt.Errorf("longitude %q: %w", args[0], err)
			}
			lat, err := cast.ToFloat64E(args[1])
			if err != nil {
				return fmt.Errorf("latitude %q: %w", args[1], err)
			}
			loc := coord.Location{Lon: lon, Lat: lat}
			if !loc.Valid() {
				return fmt.Errorf("location %v is outside the WGS84 range", loc)
			}
			if zoom < 0 || zoom > coord.MaxZoom {
				return fmt.Errorf("zoom %d out of range 0-%d", zoom, coord.MaxZoom)
			}
			if tileSize <= 0 {
				return fmt.Errorf("tile size must be positive, got %d", tileSize)
			}

			p, err := a.projection()
			if err != nil {
				return err
			}
			defer p.Close()
			pt, err := p.TryTransform(loc)
			if err != nil {
				return fmt.Errorf("project %v: %w", loc, err)
			}

			x, y := coord.LonLatToTile(lon, lat, zoom)
			minLon, minLat, maxLon, maxLat := coord.TileBounds(zoom, x, y)
			px, py := coord.TilePixelCoords(lon, lat, zoom, x, y, tileSize)

			w := a.stdout
			fmt.Fprintf(w, "tile        %d/%d/%d\n", zoom, x, y)
			fmt.Fprintf(w, "bounds      %.7f,%.7f,%.7f,%.7f\n", minLon, minLat, maxLon, maxLat)
			fmt.Fprintf(w, "pixel       %.2f,%.2f\n", px, py)
			fmt.Fprintf(w, "resolution  %.4f m/px\n", coord.ResolutionAtLat(lat, zoom, tileSize))
			fmt.Fprintf(w, "projected   %.4f,%.4f (%s)\n", pt.X, pt.Y, p.Definition())
			if resolution > 0 {
				fmt.Fprintf(w, "zoom-for    %g m/px: %d\n", resolution, coord.ZoomForResolution(resolution, lat, tileSize))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&zoom, "zoom", "z", 10, "zoom level")
	cmd.Flags().IntVar(&tileSize, "tile-size", coord.DefaultTileSize, "tile size in pixels")
	cmd.Flags().Float64Var(&resolution, "resolution", 0, "also print the deepest zoom matching this ground resolution in meters/pixel")
	return cmd
}
