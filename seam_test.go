package carve

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// costTable builds a table from rows of cumulative costs.
func costTable(rows [][]int) *CostTable {
	t := NewCostTable(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, v := range row {
			t.set(x, y, v)
		}
	}
	return t
}

func TestSeam_BacktrackPrefersStrictlyLowerNeighbour(t *testing.T) {
	table := costTable([][]int{
		{2, 3, 2},
		{9, 1, 9},
	})
	seam, err := table.FindSeam(ColumnSeam)
	require.NoError(t, err)

	// Both side neighbours are cheaper than the middle one; the left is checked first.
	assert.Equal(t, Seam{{X: 1, Y: 1}, {X: 0, Y: 0}}, seam)
}

func TestSeam_BacktrackKeepsIndexOnTie(t *testing.T) {
	table := costTable([][]int{
		{3, 3, 4},
		{9, 1, 9},
	})
	seam, err := table.FindSeam(ColumnSeam)
	require.NoError(t, err)

	assert.Equal(t, Seam{{X: 1, Y: 1}, {X: 1, Y: 0}}, seam)
}

func TestSeam_TerminalIsFirstMinimum(t *testing.T) {
	table := costTable([][]int{
		{0, 0, 0, 0},
		{4, 2, 2, 3},
	})
	seam, err := table.FindSeam(ColumnSeam)
	require.NoError(t, err)

	assert.Equal(t, Point{X: 1, Y: 1}, seam[0])
}

func TestSeam_RowSeam(t *testing.T) {
	table := costTable([][]int{
		{2, 9},
		{3, 1},
		{2, 9},
	})
	seam, err := table.FindSeam(RowSeam)
	require.NoError(t, err)

	assert.Equal(t, Seam{{X: 1, Y: 1}, {X: 0, Y: 0}}, seam)
}

func TestSeam_IsConnectedAndInBounds(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		energy := randomGray(9, 7, seed)
		for _, o := range []Orientation{ColumnSeam, RowSeam} {
			table, err := ComputeCost(energy, o)
			require.NoError(t, err)

			seam, err := table.FindSeam(o)
			require.NoError(t, err)
			assert.NoError(t, seam.Validate(energy.Bounds(), o), "seed %d, %s", seed, o)
		}
	}
}

func TestSeam_HasMinimalCost(t *testing.T) {
	energy := randomGray(7, 6, 42)
	table, err := ComputeCost(energy, ColumnSeam)
	require.NoError(t, err)

	seam, err := table.FindSeam(ColumnSeam)
	require.NoError(t, err)

	var total int
	for _, p := range seam {
		total += int(energy.GrayAt(p.X, p.Y).Y)
	}
	lastRow := bruteCost(energy, ColumnSeam)[5]
	lowest := lastRow[0]
	for _, v := range lastRow {
		if v < lowest {
			lowest = v
		}
	}
	assert.Equal(t, lowest, total)
}

func TestSeam_Validate(t *testing.T) {
	bounds := image.Rect(0, 0, 3, 3)

	tests := []struct {
		name string
		seam Seam
		o    Orientation
		ok   bool
	}{
		{"valid column", Seam{{0, 2}, {1, 1}, {1, 0}}, ColumnSeam, true},
		{"valid row", Seam{{2, 0}, {1, 1}, {0, 2}}, RowSeam, true},
		{"too short", Seam{{0, 2}, {0, 1}}, ColumnSeam, false},
		{"outside", Seam{{3, 2}, {2, 1}, {2, 0}}, ColumnSeam, false},
		{"disconnected", Seam{{0, 2}, {2, 1}, {2, 0}}, ColumnSeam, false},
		{"row crossed twice", Seam{{0, 2}, {0, 2}, {0, 1}}, ColumnSeam, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.seam.Validate(bounds, tt.o)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrSeamOutOfBounds)
			}
		})
	}

	err := Seam{{0, 0}}.Validate(bounds, Orientation(7))
	assert.ErrorIs(t, err, ErrInvalidOrientation)
}
