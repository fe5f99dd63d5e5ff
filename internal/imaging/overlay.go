package imaging

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/seamcarve-mcp/internal/carving"
)

// DefaultSeamColor is the overlay colour used when none is given.
const DefaultSeamColor = "#FF0000"

// SeamOverlay paints seams onto a copy of g.
//
// Each seam lists one column per row in the coordinates of g. Seams projected
// onto the original image with carving.ProjectSeams may jump by more than one
// column between rows; only the range of each entry is checked here.
//
// colorHex accepts "#RGB" or "#RRGGBB", with or without the leading '#'. An
// empty string selects DefaultSeamColor.
func SeamOverlay(g *carving.Grid, seams []carving.Seam, colorHex string) (*carving.Grid, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	paint, err := ParseOverlayColor(colorHex)
	if err != nil {
		return nil, err
	}

	out := g.Clone()
	for k, seam := range seams {
		if len(seam) != g.Height {
			return nil, fmt.Errorf("seam %d has %d rows, image has %d", k, len(seam), g.Height)
		}
		for y, x := range seam {
			if x < 0 || x >= g.Width {
				return nil, fmt.Errorf("seam %d row %d: column %d outside image width %d", k, y, x, g.Width)
			}
			out.Set(x, y, paint)
		}
	}
	return out, nil
}

// ParseOverlayColor parses a hex colour string like "#FF0000" or "f00".
// An empty string selects DefaultSeamColor.
func ParseOverlayColor(hex string) (carving.Pixel, error) {
	if hex == "" {
		hex = DefaultSeamColor
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return carving.Pixel{}, fmt.Errorf("invalid overlay color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return carving.Pixel{R: r, G: g, B: b}, nil
}
