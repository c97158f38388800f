package carve

import (
	"image"
	"image/color"
)

var (
	// graySentinel fills the cells vacated by a removed seam on a gray plane.
	graySentinel uint8 = 0xff
	// colorSentinel fills the cells vacated by a removed seam on a color plane.
	colorSentinel = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	// SeamMarker is the default color used to draw the seams on the visualization plane.
	SeamMarker = color.NRGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
)

// RemoveGraySeam deletes the seam pixels from a gray plane in place.
// For a ColumnSeam the pixels right of the seam move one position to the
// left and the last column is filled with white; for a RowSeam the pixels
// below the seam move one position up and the last row is filled with white.
// The plane keeps its extent.
func RemoveGraySeam(img *image.Gray, seam Seam, o Orientation) error {
	if err := seam.Validate(img.Bounds(), o); err != nil {
		return err
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	switch o {
	case ColumnSeam:
		for _, p := range seam {
			row := img.Pix[p.Y*img.Stride : p.Y*img.Stride+w]
			copy(row[p.X:], row[p.X+1:])
			row[w-1] = graySentinel
		}
	case RowSeam:
		for _, p := range seam {
			for y := p.Y; y < h-1; y++ {
				img.Pix[y*img.Stride+p.X] = img.Pix[(y+1)*img.Stride+p.X]
			}
			img.Pix[(h-1)*img.Stride+p.X] = graySentinel
		}
	}
	return nil
}

// RemoveColorSeam deletes the seam pixels from a color plane in place,
// shifting the remaining pixels the same way as RemoveGraySeam does and
// filling the vacated cells with opaque white.
func RemoveColorSeam(img *image.NRGBA, seam Seam, o Orientation) error {
	if err := seam.Validate(img.Bounds(), o); err != nil {
		return err
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	switch o {
	case ColumnSeam:
		for _, p := range seam {
			row := img.Pix[p.Y*img.Stride : p.Y*img.Stride+w*4]
			copy(row[p.X*4:], row[(p.X+1)*4:])
			setNRGBA(row[(w-1)*4:], colorSentinel)
		}
	case RowSeam:
		for _, p := range seam {
			for y := p.Y; y < h-1; y++ {
				dst := y*img.Stride + p.X*4
				src := (y+1)*img.Stride + p.X*4
				copy(img.Pix[dst:dst+4], img.Pix[src:src+4])
			}
			setNRGBA(img.Pix[(h-1)*img.Stride+p.X*4:], colorSentinel)
		}
	}
	return nil
}

// MarkSeam paints every seam pixel with the marker color. Nothing is shifted,
// so marks drawn by earlier calls stay visible.
func MarkSeam(img *image.NRGBA, seam Seam, marker color.NRGBA) error {
	b := img.Bounds()
	for _, p := range seam {
		if !(image.Point{X: p.X, Y: p.Y}).In(image.Rect(0, 0, b.Dx(), b.Dy())) {
			return ErrSeamOutOfBounds
		}
	}
	for _, p := range seam {
		setNRGBA(img.Pix[p.Y*img.Stride+p.X*4:], marker)
	}
	return nil
}

func setNRGBA(pix []uint8, c color.NRGBA) {
	pix[0] = c.R
	pix[1] = c.G
	pix[2] = c.B
	pix[3] = c.A
}
