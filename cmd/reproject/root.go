package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pspoerri/reproject/internal/config"
	"github.com/pspoerri/reproject/internal/coord"
)

// app carries the state shared by the subcommands of one invocation.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	configFile string
	envFile    string
	target     string
	epsg       int
	verbose    bool

	cfg config.Config
	log *logrus.Logger
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "reproject",
		Short: "Project WGS84 points into another coordinate reference system.",
		Long: `reproject reads longitude/latitude points (CSV or GeoJSON) and writes
them in a target CRS. EPSG:4326 and EPSG:3857 are computed directly; every
other target is handed to a projection library.

Settings are read, lowest precedence first, from built-in defaults, a .env
file, REPROJECT_* environment variables, a TOML file (--config) and flags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOutput(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "TOML configuration file")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file read before the environment (ignored if missing)")
	pf.StringVarP(&a.target, "target", "t", "", `target CRS definition: PROJ.4, WKT or "EPSG:<code>"`)
	pf.IntVarP(&a.epsg, "epsg", "e", 0, "target EPSG code, used when no target definition is set (default 3857)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log per-point diagnostics")

	root.AddCommand(
		newTransformCmd(a),
		newPlotCmd(a),
		newTileCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads the layered configuration and applies the flags the user set
// explicitly on top of it.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile, a.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("target") {
		cfg.Target = a.target
	}
	if flags.Changed("epsg") {
		cfg.EPSG = a.epsg
		// An explicit code beats a target inherited from env or file.
		if !flags.Changed("target") {
			cfg.Target = ""
		}
	}
	if flags.Changed("verbose") {
		cfg.Verbose = a.verbose
	}
	a.cfg = cfg

	a.log = logrus.New()
	a.log.Out = a.stderr
	a.log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if cfg.Verbose {
		a.log.Level = logrus.DebugLevel
	}
	return a.cfg.Validate()
}

// projection builds the configured target projection.
func (a *app) projection() (*coord.Projection, error) {
	var (
		p   *coord.Projection
		err error
	)
	if a.cfg.Target != "" {
		p, err = coord.New(a.cfg.Target)
	} else {
		p, err = coord.NewEPSG(a.cfg.EPSG)
	}
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{
		"definition": p.Definition(),
		"epsg":       p.EPSG(),
	}).Debug("projection ready")
	return p, nil
}

// open returns the named input, or stdin for "" and "-".
func (a *app) open(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(a.stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

// create returns the named output, or stdout for "" and "-".
func (a *app) create(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{a.stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
