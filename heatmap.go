package carve

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
)

type gradientStop struct {
	col colorful.Color
	pos float64
}

// jet reproduces the classic "jet" color map: dark blue for the lowest
// energy through cyan and yellow to dark red for the highest.
var jet = []gradientStop{
	{colorful.Color{R: 0, G: 0, B: 0.5}, 0},
	{colorful.Color{R: 0, G: 0, B: 1}, 0.125},
	{colorful.Color{R: 0, G: 1, B: 1}, 0.375},
	{colorful.Color{R: 1, G: 1, B: 0}, 0.625},
	{colorful.Color{R: 1, G: 0, B: 0}, 0.875},
	{colorful.Color{R: 0.5, G: 0, B: 0}, 1},
}

// jetColor interpolates the jet gradient at t in [0, 1].
func jetColor(t float64) colorful.Color {
	for i := 1; i < len(jet); i++ {
		lo, hi := jet[i-1], jet[i]
		if t <= hi.pos {
			return lo.col.BlendRgb(hi.col, (t-lo.pos)/(hi.pos-lo.pos))
		}
	}
	return jet[len(jet)-1].col
}

// Heatmap false-colors an energy map with the jet color map.
func Heatmap(energy *image.Gray) *image.NRGBA {
	var lut [256][3]uint8
	for i := range lut {
		r, g, b := jetColor(float64(i) / 255).Clamped().RGB255()
		lut[i] = [3]uint8{r, g, b}
	}

	bounds := energy.Bounds()
	dx, dy := bounds.Dx(), bounds.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, dx, dy))
	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			c := lut[energy.Pix[energy.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)]]
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = c[0]
			dst.Pix[i+1] = c[1]
			dst.Pix[i+2] = c[2]
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}

// EnergyHeatmap builds the energy map of the grayscale plane the same way a
// carving pass does and returns it false-colored.
func EnergyHeatmap(gray *image.Gray) (*image.NRGBA, error) {
	energy, err := EnergyMap(gray)
	if err != nil {
		return nil, err
	}
	return Heatmap(energy), nil
}
