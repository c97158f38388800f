package carve

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomImage(w, h int, seed int64) *image.NRGBA {
	rnd := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = uint8(rnd.Intn(256))
		img.Pix[i+1] = uint8(rnd.Intn(256))
		img.Pix[i+2] = uint8(rnd.Intn(256))
		img.Pix[i+3] = 0xff
	}
	return img
}

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

func TestCarver_ReducesDimensions(t *testing.T) {
	img := randomImage(12, 8, 1)
	gray := Grayscale(img)

	tests := []struct {
		o    Orientation
		n    int
		want image.Rectangle
	}{
		{ColumnSeam, 5, image.Rect(0, 0, 7, 8)},
		{RowSeam, 5, image.Rect(0, 0, 12, 3)},
		{ColumnSeam, 11, image.Rect(0, 0, 1, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.o.String(), func(t *testing.T) {
			c := NewCarver(12, 8)
			res, err := c.Carve(img, gray, tt.n, tt.o)
			require.NoError(t, err)

			assert.Equal(t, tt.want, res.Resized.Bounds())
			assert.Equal(t, img.Bounds(), res.Seamed.Bounds())
			assert.Len(t, res.Seams, tt.n)
			assert.Equal(t, tt.want.Dx(), c.Width)
			assert.Equal(t, tt.want.Dy(), c.Height)
		})
	}
}

func TestCarver_ZeroSeamsKeepsImage(t *testing.T) {
	img := randomImage(6, 4, 2)

	res, err := NewCarver(6, 4).Carve(img, Grayscale(img), 0, ColumnSeam)
	require.NoError(t, err)

	assert.Empty(t, res.Seams)
	if diff := cmp.Diff(img.Pix, res.Resized.Pix); diff != "" {
		t.Errorf("resized image changed (-want +got):\n%s", diff)
	}
}

func TestCarver_LeavesInputUntouched(t *testing.T) {
	img := randomImage(10, 10, 3)
	gray := Grayscale(img)
	imgCopy := imaging.Clone(img)
	grayPix := append([]uint8(nil), gray.Pix...)

	_, err := NewCarver(10, 10).Carve(img, gray, 4, RowSeam)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(imgCopy.Pix, img.Pix))
	assert.Empty(t, cmp.Diff(grayPix, gray.Pix))
}

func TestCarver_SeamsAreMarked(t *testing.T) {
	img := uniformImage(8, 5, color.NRGBA{R: 20, G: 40, B: 60, A: 255})

	c := NewCarver(8, 5)
	c.SeamColor = color.NRGBA{G: 255, A: 255}
	res, err := c.Carve(img, Grayscale(img), 1, ColumnSeam)
	require.NoError(t, err)

	require.Len(t, res.Seams, 1)
	for _, p := range res.Seams[0] {
		assert.Equal(t, c.SeamColor, res.Seamed.NRGBAAt(p.X, p.Y))
	}
}

// A 3x3 plane with a bright center has no interior gradient once smoothed,
// so the seam runs down the first column, away from the center.
func TestCarver_BrightCenterScenario(t *testing.T) {
	gray := grayFromRows([][]uint8{
		{10, 10, 10},
		{10, 50, 10},
		{10, 10, 10},
	})
	img := imaging.Clone(gray)

	energy, err := EnergyMap(gray)
	require.NoError(t, err)
	table, err := ComputeCost(energy, ColumnSeam)
	require.NoError(t, err)
	seam, err := table.FindSeam(ColumnSeam)
	require.NoError(t, err)
	assert.NotEqual(t, 1, seam[0].X)

	plane := grayFromRows(grayRows(gray))
	require.NoError(t, RemoveGraySeam(plane, seam, ColumnSeam))
	assert.Equal(t, [][]uint8{
		{10, 10, 255},
		{50, 10, 255},
		{10, 10, 255},
	}, grayRows(plane))

	res, err := NewCarver(3, 3).Carve(img, gray, 1, ColumnSeam)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 3), res.Resized.Bounds())
	assert.Equal(t, uint8(50), res.Resized.NRGBAAt(0, 1).R)
}

func TestCarver_InvalidInput(t *testing.T) {
	img := randomImage(5, 4, 4)
	gray := Grayscale(img)

	tests := []struct {
		name string
		img  *image.NRGBA
		gray *image.Gray
		n    int
		o    Orientation
		err  error
	}{
		{"nil image", nil, gray, 1, ColumnSeam, ErrEmptyImage},
		{"empty image", image.NewNRGBA(image.Rect(0, 0, 0, 0)), gray, 1, ColumnSeam, ErrEmptyImage},
		{"size mismatch", img, image.NewGray(image.Rect(0, 0, 4, 4)), 1, ColumnSeam, ErrSizeMismatch},
		{"invalid orientation", img, gray, 1, Orientation(3), ErrInvalidOrientation},
		{"negative count", img, gray, -1, ColumnSeam, ErrSeamCount},
		{"too many columns", img, gray, 5, ColumnSeam, ErrSeamCount},
		{"too many rows", img, gray, 4, RowSeam, ErrSeamCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewCarver(5, 4).Carve(tt.img, tt.gray, tt.n, tt.o)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.err), "got %v, want %v", err, tt.err)
		})
	}
}

func TestCarver_ReportsProgress(t *testing.T) {
	img := randomImage(9, 6, 5)

	var calls []int
	c := NewCarver(9, 6)
	c.OnSeam = func(done, total int, seam Seam) {
		assert.Equal(t, 3, total)
		assert.Len(t, seam, 6)
		calls = append(calls, done)
	}
	_, err := c.Carve(img, Grayscale(img), 3, ColumnSeam)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, calls)
}

func TestCarver_ProtectedRegionIsKept(t *testing.T) {
	img := uniformImage(10, 6, color.NRGBA{R: 90, G: 90, B: 90, A: 255})

	c := NewCarver(10, 6)
	c.Protect = []image.Rectangle{image.Rect(0, 0, 4, 6)}
	res, err := c.Carve(img, Grayscale(img), 3, ColumnSeam)
	require.NoError(t, err)

	for _, seam := range res.Seams {
		for _, p := range seam {
			assert.GreaterOrEqual(t, p.X, 4)
		}
	}
}

func TestCarver_ApplyMask(t *testing.T) {
	energy := uniformGray(4, 4, 100)

	// A 2x2 mask whose right half is white, scaled up to the 4x4 plane.
	mask := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	mask.SetNRGBA(1, 0, color.NRGBA{255, 255, 255, 255})
	mask.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 255})

	c := NewCarver(4, 4)
	c.RMask = mask
	c.protect(energy)

	for y := 0; y < 4; y++ {
		assert.Equal(t, []uint8{100, 100, 0, 0}, energy.Pix[y*4:y*4+4])
	}

	c = NewCarver(4, 4)
	c.Mask = mask
	c.protect(energy)
	for y := 0; y < 4; y++ {
		assert.Equal(t, []uint8{100, 100, 255, 255}, energy.Pix[y*4:y*4+4])
	}
}
