package geometry

import "errors"

var (
	// ErrInvalidArgument marks inputs that cannot describe a polygon or point set
	// (side count < 3, non-positive canvas size, non-positive point count).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrGeometry marks degenerate inputs such as coincident points that would
	// otherwise produce NaN or Inf downstream.
	ErrGeometry = errors.New("degenerate geometry")
)
