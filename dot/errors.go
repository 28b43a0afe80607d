package dot

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when no border transition exists from the seed inside the search area
	ErrNotFound = errors.New("dot not found")
	// ErrBorderTrace is returned when contour does not close within the step cap
	ErrBorderTrace = errors.New("border trace did not close")
	// ErrInvalidShape is returned for degenerate traces and for candidates rejected by validation
	ErrInvalidShape = errors.New("invalid dot shape")
	// ErrOutOfBounds is returned when a trace step leaves the image
	ErrOutOfBounds = errors.New("out of image bounds")
	// ErrInvalidArea is returned for empty or inverted search areas
	ErrInvalidArea = errors.New("invalid search area")
	// ErrNotInitialized is returned when tracking is requested before initialization
	ErrNotInitialized = errors.New("tracker is not initialized")
)

// isSkippable reports whether an error only rejects a single search probe
func isSkippable(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidShape) ||
		errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrBorderTrace)
}
