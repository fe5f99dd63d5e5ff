package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/seamcarve-mcp/internal/carving"
)

// FromImage converts any decoded image into a tightly packed RGB grid.
func FromImage(img image.Image) (*carving.Grid, error) {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	g, err := carving.NewGrid(w, h)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			g.Pix[y*w+x] = carving.Pixel{R: row[x*4], G: row[x*4+1], B: row[x*4+2]}
		}
	}
	return g, nil
}

// ToNRGBA converts a grid into an opaque image.
func ToNRGBA(g *carving.Grid) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, p := range g.Pix {
		o := i * 4
		dst.Pix[o] = p.R
		dst.Pix[o+1] = p.G
		dst.Pix[o+2] = p.B
		dst.Pix[o+3] = 0xff
	}
	return dst
}
