package carving

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// CropResult is the outcome of a Cropper run.
type CropResult struct {
	// Grid is the carved image, Width-pixels columns wide.
	Grid *Grid

	// Seams holds the removed seams in removal order. Seams[k] is expressed in
	// the coordinates of the grid before the k-th removal; use ProjectSeams to
	// map them onto the original image.
	Seams []Seam
}

// Cropper runs the energy, seam search and seam removal stages repeatedly.
//
// The zero value is ready to use and logs through log.Default().
type Cropper struct {
	// Logger receives one debug entry per removed seam and a summary per run.
	Logger *log.Logger

	// Observer, when set, is called after every removal with the 0-based
	// iteration and the seam that was removed.
	Observer func(iteration int, seam Seam)

	// Sequential disables row-parallel energy scoring. Output is identical
	// either way.
	Sequential bool
}

// Crop removes pixels columns from img, guided by mask, using a default Cropper.
//
// See Cropper.Run for preconditions and errors.
func Crop(img, mask *Grid, pixels int) (*Grid, error) {
	var c Cropper
	res, err := c.Run(img, mask, pixels)
	if err != nil {
		return nil, err
	}
	return res.Grid, nil
}

// CheckCrop validates the inputs of a crop run without doing any work.
//
// img and mask must be well-formed and equally sized, and 0 <= pixels < img.Width.
func CheckCrop(img, mask *Grid, pixels int) error {
	return checkCrop(img, mask, pixels, true)
}

func checkCrop(img, mask *Grid, pixels int, exact bool) error {
	if err := img.Validate(); err != nil {
		return fmt.Errorf("image: %w", err)
	}
	if err := mask.Validate(); err != nil {
		return fmt.Errorf("mask: %w", err)
	}
	if (exact && !img.SameSize(mask)) || mask.Height != img.Height || mask.Width < img.Width {
		return fmt.Errorf("%w: image %dx%d, mask %dx%d",
			ErrDimensionMismatch, img.Width, img.Height, mask.Width, mask.Height)
	}
	if pixels < 0 {
		return fmt.Errorf("%w: negative pixel count %d", ErrInvalidArgument, pixels)
	}
	if pixels >= img.Width {
		return fmt.Errorf("%w: removing %d of %d columns", ErrOverReduction, pixels, img.Width)
	}
	return nil
}

// Run removes pixels columns from img, one minimum-energy seam at a time.
//
// The mask is read unchanged on every iteration at its original size. Column x
// of the narrowed image reads column x of the mask.
//
// Run never modifies img or mask. With pixels == 0 the result is a copy of img.
//
// # Errors
//
//   - ErrDimensionMismatch if img and mask differ in size
//   - ErrOverReduction if pixels >= img.Width
//   - ErrInvalidArgument for nil or malformed grids and negative counts
//   - ErrAllocation if an intermediate grid cannot be allocated
func (c *Cropper) Run(img, mask *Grid, pixels int) (*CropResult, error) {
	return c.RunContext(context.Background(), img, mask, pixels)
}

// RunContext is Run with cancellation. ctx is checked before every seam; once
// it is done the run stops and returns ctx.Err() wrapped with the iteration.
func (c *Cropper) RunContext(ctx context.Context, img, mask *Grid, pixels int) (*CropResult, error) {
	if err := CheckCrop(img, mask, pixels); err != nil {
		return nil, err
	}
	return c.run(ctx, img, mask, pixels)
}

// Resume continues carving an image that earlier runs have already narrowed,
// against the mask those runs started with. The mask must have the height of
// img and be at least as wide; its columns beyond img.Width are ignored.
//
// Errors are as for RunContext.
func (c *Cropper) Resume(ctx context.Context, img, mask *Grid, pixels int) (*CropResult, error) {
	if err := checkCrop(img, mask, pixels, false); err != nil {
		return nil, err
	}
	return c.run(ctx, img, mask, pixels)
}

func (c *Cropper) run(ctx context.Context, img, mask *Grid, pixels int) (*CropResult, error) {
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}

	start := time.Now()
	current := img.Clone()
	seams := make([]Seam, 0, pixels)

	for k := 0; k < pixels; k++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("iteration %d: %w", k, err)
		}
		energy, err := computeEnergy(current, mask, !c.Sequential)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", k, err)
		}
		seam, err := FindMinSeam(energy)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", k, err)
		}
		next, err := RemoveSeam(current, seam)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", k, err)
		}
		current = next
		seams = append(seams, seam)

		logger.Debug("removed seam", "iteration", k+1, "width", current.Width, "top", seam[0], "bottom", seam[len(seam)-1])
		if c.Observer != nil {
			c.Observer(k, seam)
		}
	}

	logger.Debug("carved image",
		"from", fmt.Sprintf("%dx%d", img.Width, img.Height),
		"to", fmt.Sprintf("%dx%d", current.Width, current.Height),
		"elapsed", time.Since(start).Round(time.Millisecond))

	return &CropResult{Grid: current, Seams: seams}, nil
}
