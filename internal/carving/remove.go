package carving

import (
	"fmt"

	"github.com/anthonynsimon/bild/parallel"
)

// RemoveSeam returns a copy of img with the seam's pixel deleted from every
// row. The result is one column narrower; img is not modified.
//
// Removal happens in two passes over a working copy of the pixel buffer.
// First every row shifts the pixels right of its seam column one slot left,
// leaving the last slot of the row vacated. Rows are independent and are
// processed in parallel. Then a single sequential pass walks the whole buffer
// and copies every slot that is not a vacated row end into the output, whose
// write cursor advances only on kept pixels.
func RemoveSeam(img *Grid, seam Seam) (*Grid, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if img.Width < 2 {
		return nil, fmt.Errorf("%w: cannot remove a seam from a %d-column grid", ErrOverReduction, img.Width)
	}
	if err := ValidateSeam(seam, img.Width, img.Height); err != nil {
		return nil, err
	}

	w, h := img.Width, img.Height
	work := make([]Pixel, len(img.Pix))
	copy(work, img.Pix)

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := work[y*w : (y+1)*w]
			copy(row[seam[y]:], row[seam[y]+1:])
		}
	})

	out, err := NewGrid(w-1, h)
	if err != nil {
		return nil, err
	}
	cursor := 0
	for i, p := range work {
		if i%w == w-1 {
			continue
		}
		out.Pix[cursor] = p
		cursor++
	}
	return out, nil
}
