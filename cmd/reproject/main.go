// Command reproject converts WGS84 points into a target coordinate
// reference system.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		logrus.WithError(err).Error("reproject failed")
		os.Exit(1)
	}
}
