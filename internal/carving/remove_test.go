package carving

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// labelGrid gives every pixel a distinct value that encodes its position.
func labelGrid(t *testing.T, width, height int) *Grid {
	t.Helper()
	g, err := NewGrid(width, height)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.Set(x, y, Pixel{R: uint8(x), G: uint8(y), B: 7})
		}
	}
	return g
}

func TestRemoveSeam_StraightColumn(t *testing.T) {
	img := labelGrid(t, 3, 3)

	got, err := RemoveSeam(img, Seam{1, 1, 1})
	if err != nil {
		t.Fatalf("RemoveSeam failed: %v", err)
	}

	want := &Grid{Width: 2, Height: 3, Pix: []Pixel{
		{R: 0, G: 0, B: 7}, {R: 2, G: 0, B: 7},
		{R: 0, G: 1, B: 7}, {R: 2, G: 1, B: 7},
		{R: 0, G: 2, B: 7}, {R: 2, G: 2, B: 7},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveSeam_Diagonal(t *testing.T) {
	img := labelGrid(t, 3, 3)

	got, err := RemoveSeam(img, Seam{0, 1, 2})
	if err != nil {
		t.Fatalf("RemoveSeam failed: %v", err)
	}

	want := &Grid{Width: 2, Height: 3, Pix: []Pixel{
		{R: 1, G: 0, B: 7}, {R: 2, G: 0, B: 7},
		{R: 0, G: 1, B: 7}, {R: 2, G: 1, B: 7},
		{R: 0, G: 2, B: 7}, {R: 1, G: 2, B: 7},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveSeam_EdgeColumns(t *testing.T) {
	img := labelGrid(t, 4, 2)

	tests := []struct {
		name string
		seam Seam
		keep []uint8
	}{
		{"left edge", Seam{0, 0}, []uint8{1, 2, 3}},
		{"right edge", Seam{3, 3}, []uint8{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RemoveSeam(img, tt.seam)
			if err != nil {
				t.Fatalf("RemoveSeam failed: %v", err)
			}
			for y := 0; y < got.Height; y++ {
				for x, want := range tt.keep {
					if p := got.At(x, y); p.R != want || p.G != uint8(y) {
						t.Errorf("(%d,%d): got %+v, want column %d of row %d", x, y, p, want, y)
					}
				}
			}
		})
	}
}

func TestRemoveSeam_LeavesInputUntouched(t *testing.T) {
	img := labelGrid(t, 5, 4)
	before := img.Clone()

	if _, err := RemoveSeam(img, Seam{2, 3, 4, 3}); err != nil {
		t.Fatalf("RemoveSeam failed: %v", err)
	}
	if diff := cmp.Diff(before, img); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestRemoveSeam_Errors(t *testing.T) {
	tests := []struct {
		name string
		img  *Grid
		seam Seam
		want error
	}{
		{"single column", labelGrid(t, 1, 3), Seam{0, 0, 0}, ErrOverReduction},
		{"wrong length", labelGrid(t, 3, 3), Seam{0, 0}, ErrInvalidSeam},
		{"disconnected", labelGrid(t, 3, 3), Seam{0, 2, 2}, ErrInvalidSeam},
		{"nil grid", nil, Seam{0}, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RemoveSeam(tt.img, tt.seam); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRemoveSeam_TallGrid(t *testing.T) {
	// Enough rows for the row shift to be split across workers.
	img := labelGrid(t, 6, 200)
	seam := make(Seam, 200)
	for y := range seam {
		seam[y] = (y / 3) % 6
		if y > 0 && seam[y]-seam[y-1] > 1 {
			seam[y] = seam[y-1] + 1
		}
		if y > 0 && seam[y]-seam[y-1] < -1 {
			seam[y] = seam[y-1] - 1
		}
	}

	got, err := RemoveSeam(img, seam)
	if err != nil {
		t.Fatalf("RemoveSeam failed: %v", err)
	}
	for y := 0; y < got.Height; y++ {
		want := uint8(0)
		for x := 0; x < got.Width; x++ {
			if want == uint8(seam[y]) {
				want++
			}
			if p := got.At(x, y); p.R != want || p.G != uint8(y) {
				t.Fatalf("(%d,%d): got %+v, want R=%d G=%d", x, y, p, want, y)
			}
			want++
		}
	}
}
