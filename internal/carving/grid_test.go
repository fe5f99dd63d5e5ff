package carving

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// patternGrid builds a grid whose pixels all differ from their neighbours.
func patternGrid(t *testing.T, width, height int) *Grid {
	t.Helper()
	g, err := NewGrid(width, height)
	if err != nil {
		t.Fatalf("NewGrid(%d, %d) failed: %v", width, height, err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.Set(x, y, Pixel{
				R: uint8(x*37 + y*11),
				G: uint8(x*x + 3*y),
				B: uint8((x ^ y) * 5),
			})
		}
	}
	return g
}

// neutralMask builds an all-black mask, which never overrides energy.
func neutralMask(t *testing.T, width, height int) *Grid {
	t.Helper()
	g, err := NewGrid(width, height)
	if err != nil {
		t.Fatalf("NewGrid(%d, %d) failed: %v", width, height, err)
	}
	return g
}

// maskColumn paints column x of mask with p.
func maskColumn(mask *Grid, x int, p Pixel) {
	for y := 0; y < mask.Height; y++ {
		mask.Set(x, y, p)
	}
}

var (
	removePaint  = Pixel{R: 255}
	protectPaint = Pixel{G: 255}
)

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(4, 3)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	if g.Width != 4 || g.Height != 3 {
		t.Errorf("dimensions: got %dx%d, want 4x3", g.Width, g.Height)
	}
	if len(g.Pix) != 12 {
		t.Errorf("len(Pix): got %d, want 12", len(g.Pix))
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestNewGrid_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          error
	}{
		{"zero width", 0, 5, ErrInvalidArgument},
		{"zero height", 5, 0, ErrInvalidArgument},
		{"negative", -1, -1, ErrInvalidArgument},
		{"too large", 1 << 15, 1 << 14, ErrAllocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.width, tt.height)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGrid_Clone(t *testing.T) {
	g := patternGrid(t, 5, 4)
	c := g.Clone()

	if diff := cmp.Diff(g, c); diff != "" {
		t.Fatalf("clone mismatch (-orig +clone):\n%s", diff)
	}

	c.Set(0, 0, Pixel{R: 1, G: 2, B: 3})
	if g.At(0, 0) == c.At(0, 0) {
		t.Error("clone shares pixel storage with the original")
	}
}

func TestGrid_Validate(t *testing.T) {
	var nilGrid *Grid
	if err := nilGrid.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil grid: got %v, want ErrInvalidArgument", err)
	}

	short := &Grid{Width: 3, Height: 3, Pix: make([]Pixel, 8)}
	if err := short.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("short buffer: got %v, want ErrInvalidArgument", err)
	}
}

func TestGrid_Row(t *testing.T) {
	g := patternGrid(t, 4, 3)
	row := g.Row(2)
	if len(row) != 4 {
		t.Fatalf("len(Row): got %d, want 4", len(row))
	}
	for x, p := range row {
		if p != g.At(x, 2) {
			t.Errorf("Row(2)[%d]: got %+v, want %+v", x, p, g.At(x, 2))
		}
	}
}
