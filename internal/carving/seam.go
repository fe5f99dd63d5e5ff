package carving

import "fmt"

// Seam lists, for every row from top to bottom, the column to remove.
type Seam []int

// costCell is one entry of the seam search table: the cheapest cumulative
// energy of any path from row 0 to this pixel, and the column of the
// predecessor on that path (-1 in row 0).
type costCell struct {
	cost int64
	from int
}

// FindMinSeam returns the connected top-to-bottom path of least cumulative
// energy.
//
// Row 0 costs are the energies themselves. Every later pixel extends the
// cheapest of its up-left, up and up-right predecessors; columns outside the
// grid are skipped. Ties prefer the straight-up predecessor, then up-left,
// then up-right. The path ends at the cheapest pixel of the last row (lowest
// column on ties) and is recovered by following predecessors back to row 0.
//
// The returned seam has one entry per row, each in [0, Width), and adjacent
// entries differ by at most 1.
func FindMinSeam(e *EnergyMap) (Seam, error) {
	if e == nil || e.Width <= 0 || e.Height <= 0 || len(e.Values) != e.Width*e.Height {
		return nil, fmt.Errorf("%w: malformed energy map", ErrInvalidArgument)
	}

	w, h := e.Width, e.Height
	cells := make([]costCell, w*h)
	for x := 0; x < w; x++ {
		cells[x] = costCell{cost: e.Values[x], from: -1}
	}

	for y := 1; y < h; y++ {
		prev := cells[(y-1)*w : y*w]
		cur := cells[y*w : (y+1)*w]
		energy := e.Values[y*w : (y+1)*w]

		for x := 0; x < w; x++ {
			best := x
			if x > 0 && prev[x-1].cost < prev[best].cost {
				best = x - 1
			}
			if x < w-1 && prev[x+1].cost < prev[best].cost {
				best = x + 1
			}
			cur[x] = costCell{cost: energy[x] + prev[best].cost, from: best}
		}
	}

	last := cells[(h-1)*w:]
	end := 0
	for x := 1; x < w; x++ {
		if last[x].cost < last[end].cost {
			end = x
		}
	}

	seam := make(Seam, h)
	x := end
	for y := h - 1; y >= 0; y-- {
		seam[y] = x
		x = cells[y*w+x].from
	}
	return seam, nil
}

// ValidateSeam checks that seam is a connected path through a width x height
// grid.
func ValidateSeam(seam Seam, width, height int) error {
	if len(seam) != height {
		return fmt.Errorf("%w: %d entries for %d rows", ErrInvalidSeam, len(seam), height)
	}
	for y, x := range seam {
		if x < 0 || x >= width {
			return fmt.Errorf("%w: row %d column %d outside [0,%d)", ErrInvalidSeam, y, x, width)
		}
		if y > 0 {
			if d := x - seam[y-1]; d < -1 || d > 1 {
				return fmt.Errorf("%w: rows %d and %d jump from column %d to %d",
					ErrInvalidSeam, y-1, y, seam[y-1], x)
			}
		}
	}
	return nil
}

// ProjectSeams maps seams recorded during a crop run back onto the columns of
// the original image.
//
// seams[k] must be expressed in the coordinates of the grid as it was before
// the k-th removal, which is what Cropper records. width is the original width.
// The returned seams are in original coordinates, in removal order.
func ProjectSeams(width int, seams []Seam) ([]Seam, error) {
	if len(seams) == 0 {
		return nil, nil
	}
	if len(seams) >= width {
		return nil, fmt.Errorf("%w: %d seams for width %d", ErrOverReduction, len(seams), width)
	}

	height := len(seams[0])
	remaining := make([][]int, height)
	for y := range remaining {
		cols := make([]int, width)
		for x := range cols {
			cols[x] = x
		}
		remaining[y] = cols
	}

	projected := make([]Seam, len(seams))
	for k, seam := range seams {
		if err := ValidateSeam(seam, width-k, height); err != nil {
			return nil, fmt.Errorf("seam %d: %w", k, err)
		}
		out := make(Seam, height)
		for y, x := range seam {
			cols := remaining[y]
			out[y] = cols[x]
			remaining[y] = append(cols[:x], cols[x+1:]...)
		}
		projected[k] = out
	}
	return projected, nil
}
