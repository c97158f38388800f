package carve

import (
	"fmt"
	"image"
	"math"

	"github.com/esimov/carve/utils"
)

// Point is a pixel coordinate of a seam.
type Point struct {
	X int
	Y int
}

// Seam is a connected path of pixels crossing the image, one pixel per row
// (ColumnSeam) or per column (RowSeam). The first point lies on the last
// row or column, the following points walk back towards the origin edge.
type Seam []Point

// FindSeam extracts the lowest energy seam from the cost table.
//
// The terminal pixel is the first minimum of the last row (ColumnSeam) or
// the last column (RowSeam). From there the path walks back one row or
// column at a time. At every step the previous index is kept unless one of
// the neighbours, checked in the order -1, 0, +1, has a strictly lower cost;
// on equal costs the earliest checked neighbour wins.
func (t *CostTable) FindSeam(o Orientation) (Seam, error) {
	along, across, err := o.span(t.width, t.height)
	if err != nil {
		return nil, err
	}
	if along == 0 || across == 0 {
		return nil, ErrEmptyImage
	}

	// cost returns the table value at index i on line l, where a line is a
	// row for column seams and a column for row seams.
	cost := func(i, l int) int {
		if o == RowSeam {
			return t.get(l, i)
		}
		return t.get(i, l)
	}
	point := func(i, l int) Point {
		if o == RowSeam {
			return Point{X: l, Y: i}
		}
		return Point{X: i, Y: l}
	}

	last := along - 1
	best, idx := math.MaxInt, 0
	for i := 0; i < across; i++ {
		if c := cost(i, last); c < best {
			best, idx = c, i
		}
	}

	seam := make(Seam, 0, along)
	seam = append(seam, point(idx, last))

	// Walk back towards the origin edge checking the three neighbours
	// of the previously selected pixel.
	for l := last - 1; l >= 0; l-- {
		prev := idx
		best = cost(prev, l)
		for offset := -1; offset <= 1; offset++ {
			adj := prev + offset
			if adj < 0 || adj >= across {
				continue
			}
			if c := cost(adj, l); c < best {
				best, idx = c, adj
			}
		}
		seam = append(seam, point(idx, l))
	}
	return seam, nil
}

// Validate checks that the seam crosses a plane with the given bounds with
// exactly one pixel per row (ColumnSeam) or column (RowSeam), that every
// pixel lies inside the bounds and that consecutive pixels are 8-connected.
func (s Seam) Validate(bounds image.Rectangle, o Orientation) error {
	w, h := bounds.Dx(), bounds.Dy()
	along, _, err := o.span(w, h)
	if err != nil {
		return err
	}
	if len(s) != along {
		return fmt.Errorf("%w: seam has %d points, expected %d", ErrSeamOutOfBounds, len(s), along)
	}

	seen := make([]bool, along)
	for i, p := range s {
		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
			return fmt.Errorf("%w: point (%d,%d) outside %dx%d", ErrSeamOutOfBounds, p.X, p.Y, w, h)
		}
		line, idx := p.Y, p.X
		if o == RowSeam {
			line, idx = p.X, p.Y
		}
		if seen[line] {
			return fmt.Errorf("%w: line %d crossed twice", ErrSeamOutOfBounds, line)
		}
		seen[line] = true

		if i == 0 {
			continue
		}
		prev := s[i-1]
		pline, pidx := prev.Y, prev.X
		if o == RowSeam {
			pline, pidx = prev.X, prev.Y
		}
		if utils.Abs(line-pline) != 1 || utils.Abs(idx-pidx) > 1 {
			return fmt.Errorf("%w: points (%d,%d) and (%d,%d) are not connected",
				ErrSeamOutOfBounds, prev.X, prev.Y, p.X, p.Y)
		}
	}
	return nil
}
