package carving

import "errors"

var (
	// ErrDimensionMismatch is returned when an image and its mask do not share
	// the shape the operation requires.
	ErrDimensionMismatch = errors.New("image and mask dimensions differ")

	// ErrOverReduction is returned when a crop would leave zero or fewer columns.
	ErrOverReduction = errors.New("requested reduction leaves no columns")

	// ErrInvalidArgument is returned for nil, empty or malformed inputs.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidSeam is returned when a seam is not a connected path through the grid.
	ErrInvalidSeam = errors.New("invalid seam")

	// ErrAllocation is returned when a grid would exceed MaxGridPixels.
	ErrAllocation = errors.New("grid allocation failed")
)
