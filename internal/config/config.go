// Package config loads reproject settings from the environment and an
// optional TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the settings shared by all subcommands.
type Config struct {
	// Target is a CRS definition (PROJ.4, WKT or "EPSG:<code>"). When set it
	// takes precedence over EPSG.
	Target string `env:"REPROJECT_TARGET" toml:"target"`
	// EPSG is the target CRS code used when Target is empty.
	EPSG int `env:"REPROJECT_EPSG" envDefault:"3857" toml:"epsg"`

	InputFormat  string `env:"REPROJECT_INPUT_FORMAT" toml:"input_format"`
	OutputFormat string `env:"REPROJECT_OUTPUT_FORMAT" toml:"output_format"`
	LonColumn    string `env:"REPROJECT_LON_COLUMN" toml:"lon_column"`
	LatColumn    string `env:"REPROJECT_LAT_COLUMN" toml:"lat_column"`
	// Delimiter is the CSV field separator: one character, or "tab".
	// Empty means a comma.
	Delimiter string `env:"REPROJECT_DELIMITER" toml:"delimiter"`

	Plot Plot `envPrefix:"REPROJECT_PLOT_" toml:"plot"`

	Verbose bool `env:"REPROJECT_VERBOSE" toml:"verbose"`
}

// Plot holds raster preview settings.
type Plot struct {
	Width     int     `env:"WIDTH" envDefault:"1024" toml:"width"`
	Height    int     `env:"HEIGHT" envDefault:"1024" toml:"height"`
	Margin    int     `env:"MARGIN" envDefault:"16" toml:"margin"`
	PointSize float64 `env:"POINT_SIZE" envDefault:"4" toml:"point_size"`
	// Format is png, jpeg or webp; empty picks it from the output file name.
	Format  string `env:"FORMAT" toml:"format"`
	Quality int    `env:"QUALITY" envDefault:"85" toml:"quality"`
}

// Load builds a Config from, lowest precedence first: defaults, the dotenv
// file (if it exists), the process environment, and the TOML file (if
// tomlPath is set). Variables already in the environment win over the
// dotenv file.
func Load(dotenvPath, tomlPath string) (Config, error) {
	var cfg Config
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if tomlPath != "" {
		md, err := toml.DecodeFile(tomlPath, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", tomlPath, err)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return cfg, fmt.Errorf("read config %s: unknown keys %v", tomlPath, keys)
		}
	}
	return cfg, nil
}

// Validate checks settings that do not depend on the subcommand.
func (c Config) Validate() error {
	if c.Target == "" && c.EPSG <= 0 {
		return fmt.Errorf("no target CRS: set a definition or a positive EPSG code (got %d)", c.EPSG)
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return fmt.Errorf("plot size must be positive, got %dx%d", c.Plot.Width, c.Plot.Height)
	}
	if 2*c.Plot.Margin >= c.Plot.Width || 2*c.Plot.Margin >= c.Plot.Height {
		return fmt.Errorf("plot margin %d leaves no room in %dx%d", c.Plot.Margin, c.Plot.Width, c.Plot.Height)
	}
	if c.Plot.Quality < 1 || c.Plot.Quality > 100 {
		return fmt.Errorf("plot quality must be within 1-100, got %d", c.Plot.Quality)
	}
	if _, err := parseDelimiter(c.Delimiter); err != nil {
		return err
	}
	return nil
}

// Comma returns the CSV field separator, or 0 for the reader's default.
// It assumes Validate passed.
func (c Config) Comma() rune {
	r, _ := parseDelimiter(c.Delimiter)
	return r
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, n := utf8.DecodeRuneInString(s)
	if n != len(s) || r == utf8.RuneError || r == '\r' || r == '\n' || r == '"' {
		return 0, fmt.Errorf("csv delimiter must be a single character other than a quote or newline, got %q", s)
	}
	return r, nil
}
