package carve

import "errors"

var (
	// ErrEmptyImage is returned when an input plane is nil or has no pixels.
	ErrEmptyImage = errors.New("empty image")
	// ErrSizeMismatch is returned when the color and grayscale planes differ in size.
	ErrSizeMismatch = errors.New("color and grayscale planes differ in size")
	// ErrInvalidOrientation is returned for an orientation or mode outside the supported set.
	ErrInvalidOrientation = errors.New("invalid seam orientation")
	// ErrSeamCount is returned when the requested number of seams is negative
	// or not smaller than the dimension being reduced.
	ErrSeamCount = errors.New("invalid number of seams")
	// ErrSeamOutOfBounds is returned when a seam leaves the plane or is not 8-connected.
	ErrSeamOutOfBounds = errors.New("seam out of bounds")
	// ErrUnsupportedFormat is returned when an output extension has no encoder.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
