package carve

import (
	"fmt"
	"image"
)

// CostTable is the dynamic programming table holding, for every pixel, the
// lowest total energy of a connected path reaching it from the starting edge.
// The values are stored in a single row-major buffer.
type CostTable struct {
	width  int
	height int
	table  []int
}

// NewCostTable allocates a zeroed table for a width×height plane.
func NewCostTable(width, height int) *CostTable {
	return &CostTable{
		width:  width,
		height: height,
		table:  make([]int, width*height),
	}
}

// Width returns the number of columns of the table.
func (t *CostTable) Width() int { return t.width }

// Height returns the number of rows of the table.
func (t *CostTable) Height() int { return t.height }

// At returns the cumulative cost stored at (x, y).
func (t *CostTable) At(x, y int) int {
	return t.get(x, y)
}

// Get cumulative cost value
func (t *CostTable) get(x, y int) int {
	return t.table[x+y*t.width]
}

// Set cumulative cost value
func (t *CostTable) set(x, y, v int) {
	t.table[x+y*t.width] = v
}

// ComputeCost fills a new cost table from the energy plane.
//
// For a ColumnSeam the first row equals the first energy row and every
// following cell adds the minimum of its (up to three) upper neighbours:
//
//	M(x, y) = e(x, y) + min(M(x-1, y-1), M(x, y-1), M(x+1, y-1))
//
// For a RowSeam the same recurrence runs from the left column to the right
// one over the three left neighbours. Neighbours outside the plane are left
// out of the minimum.
func ComputeCost(energy *image.Gray, o Orientation) (*CostTable, error) {
	if energy == nil || energy.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	b := energy.Bounds()
	w, h := b.Dx(), b.Dy()
	t := NewCostTable(w, h)

	e := func(x, y int) int {
		return int(energy.Pix[energy.PixOffset(b.Min.X+x, b.Min.Y+y)])
	}

	switch o {
	case ColumnSeam:
		for x := 0; x < w; x++ {
			t.set(x, 0, e(x, 0))
		}
		for y := 1; y < h; y++ {
			for x := 0; x < w; x++ {
				best := t.get(x, y-1)
				// Do not compute edge cases: pixels are far left.
				if x > 0 && t.get(x-1, y-1) < best {
					best = t.get(x-1, y-1)
				}
				// Do not compute edge cases: pixels are far right.
				if x < w-1 && t.get(x+1, y-1) < best {
					best = t.get(x+1, y-1)
				}
				t.set(x, y, e(x, y)+best)
			}
		}
	case RowSeam:
		for y := 0; y < h; y++ {
			t.set(0, y, e(0, y))
		}
		for x := 1; x < w; x++ {
			for y := 0; y < h; y++ {
				best := t.get(x-1, y)
				if y > 0 && t.get(x-1, y-1) < best {
					best = t.get(x-1, y-1)
				}
				if y < h-1 && t.get(x-1, y+1) < best {
					best = t.get(x-1, y+1)
				}
				t.set(x, y, e(x, y)+best)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrientation, o)
	}
	return t, nil
}
