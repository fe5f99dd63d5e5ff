package imaging

import (
	"fmt"

	"github.com/ironsheep/seamcarve-mcp/internal/carving"
)

// Paint values written by MaskFromRegions.
var (
	RemovePaint  = carving.Pixel{R: 255}
	ProtectPaint = carving.Pixel{G: 255}
)

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r Region) validate(width, height int) error {
	if r.X1 < 0 || r.Y1 < 0 || r.X2 > width || r.Y2 > height {
		return fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, width, height)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	return nil
}

// NeutralMask returns an all-black mask, which leaves every pixel to its
// gradient energy.
func NeutralMask(width, height int) (*carving.Grid, error) {
	return carving.NewGrid(width, height)
}

// MaskFromRegions builds a mask for a width x height image.
//
// Pixels inside any remove region are painted RemovePaint, pixels inside any
// protect region ProtectPaint. Protect regions are painted last, so they win
// where the two overlap. Everything else stays neutral.
func MaskFromRegions(width, height int, remove, protect []Region) (*carving.Grid, error) {
	mask, err := NeutralMask(width, height)
	if err != nil {
		return nil, err
	}

	paint := func(kind string, regions []Region, p carving.Pixel) error {
		for i, r := range regions {
			if err := r.validate(width, height); err != nil {
				return fmt.Errorf("%s region %d: %w", kind, i, err)
			}
			for y := r.Y1; y < r.Y2; y++ {
				row := mask.Row(y)
				for x := r.X1; x < r.X2; x++ {
					row[x] = p
				}
			}
		}
		return nil
	}

	if err := paint("remove", remove, RemovePaint); err != nil {
		return nil, err
	}
	if err := paint("protect", protect, ProtectPaint); err != nil {
		return nil, err
	}
	return mask, nil
}

// MaskSummary describes what a mask will do to a crop.
type MaskSummary struct {
	Width         int `json:"width"`
	Height        int `json:"height"`
	RemovePixels  int `json:"remove_pixels"`
	ProtectPixels int `json:"protect_pixels"`
	NeutralPixels int `json:"neutral_pixels"`

	// RemoveColumns lists columns whose every pixel is marked for removal.
	// Each one is a seam the carver will take before any other.
	RemoveColumns []int `json:"remove_columns"`

	// ProtectedColumns lists columns whose every pixel is protected.
	ProtectedColumns []int `json:"protected_columns"`
}

// AnalyzeMask classifies every pixel of mask.
func AnalyzeMask(mask *carving.Grid) (*MaskSummary, error) {
	if err := mask.Validate(); err != nil {
		return nil, err
	}

	s := &MaskSummary{
		Width:            mask.Width,
		Height:           mask.Height,
		RemoveColumns:    []int{},
		ProtectedColumns: []int{},
	}
	removeCount := make([]int, mask.Width)
	protectCount := make([]int, mask.Width)

	for i, p := range mask.Pix {
		x := i % mask.Width
		switch carving.ClassifyMask(p) {
		case carving.MaskRemove:
			s.RemovePixels++
			removeCount[x]++
		case carving.MaskProtect:
			s.ProtectPixels++
			protectCount[x]++
		default:
			s.NeutralPixels++
		}
	}

	for x := 0; x < mask.Width; x++ {
		if removeCount[x] == mask.Height {
			s.RemoveColumns = append(s.RemoveColumns, x)
		}
		if protectCount[x] == mask.Height {
			s.ProtectedColumns = append(s.ProtectedColumns, x)
		}
	}
	return s, nil
}
