package coord

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by TryTransform on a projection that has been closed.
var ErrClosed = errors.New("projection is closed")

// ProjectionSetupError is returned when a transform from WGS84 to the
// requested CRS cannot be prepared. Err carries the transform library's
// diagnostic.
type ProjectionSetupError struct {
	Definition string
	Err        error
}

func (e *ProjectionSetupError) Error() string {
	return fmt.Sprintf("creating projection %q failed: %v", e.Definition, e.Err)
}

func (e *ProjectionSetupError) Unwrap() error { return e.Err }
