package carving

import "fmt"

// MaxGridPixels is the largest pixel count NewGrid will allocate.
const MaxGridPixels = 1 << 28

// Pixel is one 8-bit RGB triple.
type Pixel struct {
	R, G, B uint8
}

// Grid is a tightly packed, row-major RGB raster. It is used both for the
// image being carved and for its mask.
//
// Pix holds Width*Height pixels; the pixel at (x, y) is Pix[y*Width+x].
type Grid struct {
	Width  int
	Height int
	Pix    []Pixel
}

// NewGrid allocates a zeroed (black) grid.
//
// Returns ErrInvalidArgument for non-positive dimensions and ErrAllocation when
// width*height exceeds MaxGridPixels.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: grid size %dx%d", ErrInvalidArgument, width, height)
	}
	if width > MaxGridPixels/height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrAllocation, width, height, MaxGridPixels)
	}
	return &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]Pixel, width*height),
	}, nil
}

// NewUniformGrid allocates a grid with every pixel set to p.
func NewUniformGrid(width, height int, p Pixel) (*Grid, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	for i := range g.Pix {
		g.Pix[i] = p
	}
	return g, nil
}

// At returns the pixel at column x, row y.
func (g *Grid) At(x, y int) Pixel {
	return g.Pix[y*g.Width+x]
}

// Set stores p at column x, row y.
func (g *Grid) Set(x, y int, p Pixel) {
	g.Pix[y*g.Width+x] = p
}

// Row returns the pixels of row y. The slice aliases the grid.
func (g *Grid) Row(y int) []Pixel {
	return g.Pix[y*g.Width : (y+1)*g.Width]
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	pix := make([]Pixel, len(g.Pix))
	copy(pix, g.Pix)
	return &Grid{Width: g.Width, Height: g.Height, Pix: pix}
}

// SameSize reports whether g and other have identical width and height.
func (g *Grid) SameSize(other *Grid) bool {
	return g.Width == other.Width && g.Height == other.Height
}

// Validate checks that the grid is non-empty and that Pix matches its dimensions.
func (g *Grid) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrInvalidArgument)
	}
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: grid size %dx%d", ErrInvalidArgument, g.Width, g.Height)
	}
	if len(g.Pix) != g.Width*g.Height {
		return fmt.Errorf("%w: grid %dx%d holds %d pixels", ErrInvalidArgument, g.Width, g.Height, len(g.Pix))
	}
	return nil
}
