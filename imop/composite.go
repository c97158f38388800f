package imop

import (
	"fmt"
	"image"

	"github.com/esimov/carve/utils"
)

// Draw blends src over backdrop and returns the result as a new image.
// The blended color is composited over the backdrop with the source-over
// operator, the source alpha being scaled by opacity. Both images must have
// the same size.
func Draw(backdrop, src *image.NRGBA, mode Blend, opacity float64) (*image.NRGBA, error) {
	bb, sb := backdrop.Bounds(), src.Bounds()
	if bb.Dx() != sb.Dx() || bb.Dy() != sb.Dy() {
		return nil, fmt.Errorf("size mismatch: backdrop %v, source %v", bb.Size(), sb.Size())
	}
	opacity = utils.Clamp(opacity, 0, 1)

	dx, dy := bb.Dx(), bb.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, dx, dy))

	for y := 0; y < dy; y++ {
		bi := backdrop.PixOffset(bb.Min.X, bb.Min.Y+y)
		si := src.PixOffset(sb.Min.X, sb.Min.Y+y)
		di := dst.PixOffset(0, y)
		for x := 0; x < dx; x++ {
			as := float64(src.Pix[si+3]) / 255 * opacity
			ab := float64(backdrop.Pix[bi+3]) / 255
			ao := as + ab*(1-as)

			for c := 0; c < 3; c++ {
				cs := float64(src.Pix[si+c]) / 255
				cb := float64(backdrop.Pix[bi+c]) / 255

				// Mix the blended color with the plain source color by the
				// backdrop alpha, then apply the source-over operator.
				mixed := (1-ab)*cs + ab*mode.apply(cb, cs)
				var co float64
				if ao > 0 {
					co = (as*mixed + ab*cb*(1-as)) / ao
				}
				dst.Pix[di+c] = uint8(utils.Clamp(co*255+0.5, 0, 255))
			}
			dst.Pix[di+3] = uint8(utils.Clamp(ao*255+0.5, 0, 255))

			bi += 4
			si += 4
			di += 4
		}
	}
	return dst, nil
}
