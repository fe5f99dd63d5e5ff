package carving

import (
	"fmt"

	"github.com/anthonynsimon/bild/parallel"
)

// Energy bounds and mask overrides.
const (
	// MaxGradientEnergy is the largest score a pixel can get from gradients
	// alone: two axes, three channels, each difference at most 255.
	MaxGradientEnergy int64 = 6 * 255 * 255

	// ForceRemoveEnergy is assigned to pixels the mask marks for removal.
	ForceRemoveEnergy int64 = -999_999_999

	// ForceKeepEnergy is assigned to pixels the mask protects.
	ForceKeepEnergy int64 = 999_999_999

	// MaskThreshold is the red-minus-green difference a mask pixel must exceed
	// (in either direction) to override the gradient energy.
	MaskThreshold = 200
)

// EnergyMap holds one score per pixel of the grid it was computed from.
type EnergyMap struct {
	Width  int
	Height int
	Values []int64
}

// At returns the energy at column x, row y.
func (e *EnergyMap) At(x, y int) int64 {
	return e.Values[y*e.Width+x]
}

// ComputeEnergy scores every pixel of img.
//
// A pixel's score is the squared colour difference between its left and right
// neighbours plus the squared difference between its upper and lower
// neighbours, summed over R, G and B. Neighbours wrap cyclically: the left
// neighbour of column 0 is the last column of the same row, and the upper
// neighbour of row 0 is the last row of the same column.
//
// Mask pixels whose red-minus-green difference exceeds MaskThreshold override
// the score with ForceRemoveEnergy; those below -MaskThreshold override it with
// ForceKeepEnergy. The mask is addressed by (x, y), so it may be wider than img
// but must have the same height.
func ComputeEnergy(img, mask *Grid) (*EnergyMap, error) {
	return computeEnergy(img, mask, true)
}

func computeEnergy(img, mask *Grid, rowParallel bool) (*EnergyMap, error) {
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}
	if err := mask.Validate(); err != nil {
		return nil, fmt.Errorf("mask: %w", err)
	}
	if mask.Height != img.Height || mask.Width < img.Width {
		return nil, fmt.Errorf("%w: image %dx%d, mask %dx%d",
			ErrDimensionMismatch, img.Width, img.Height, mask.Width, mask.Height)
	}

	w, h := img.Width, img.Height
	e := &EnergyMap{
		Width:  w,
		Height: h,
		Values: make([]int64, w*h),
	}

	fill := func(start, end int) {
		for y := start; y < end; y++ {
			up := img.Row((y - 1 + h) % h)
			down := img.Row((y + 1) % h)
			row := img.Row(y)
			maskRow := mask.Row(y)
			out := e.Values[y*w : (y+1)*w]

			for x := 0; x < w; x++ {
				if v, ok := maskOverride(maskRow[x]); ok {
					out[x] = v
					continue
				}
				left := row[(x-1+w)%w]
				right := row[(x+1)%w]
				out[x] = squaredDiff(right, left) + squaredDiff(down[x], up[x])
			}
		}
	}

	if rowParallel {
		parallel.Line(h, fill)
	} else {
		fill(0, h)
	}
	return e, nil
}

// MaskClass is the meaning of one mask pixel.
type MaskClass int

const (
	MaskNeutral MaskClass = iota
	MaskRemove
	MaskProtect
)

func (c MaskClass) String() string {
	switch c {
	case MaskRemove:
		return "remove"
	case MaskProtect:
		return "protect"
	}
	return "neutral"
}

// ClassifyMask reports how a mask pixel affects the energy under it.
func ClassifyMask(p Pixel) MaskClass {
	m := int(p.R) - int(p.G)
	switch {
	case m > MaskThreshold:
		return MaskRemove
	case m < -MaskThreshold:
		return MaskProtect
	}
	return MaskNeutral
}

// maskOverride returns the sentinel energy a mask pixel forces, if any.
func maskOverride(p Pixel) (int64, bool) {
	switch ClassifyMask(p) {
	case MaskRemove:
		return ForceRemoveEnergy, true
	case MaskProtect:
		return ForceKeepEnergy, true
	}
	return 0, false
}

func squaredDiff(a, b Pixel) int64 {
	dr := int64(a.R) - int64(b.R)
	dg := int64(a.G) - int64(b.G)
	db := int64(a.B) - int64(b.B)
	return dr*dr + dg*dg + db*db
}
