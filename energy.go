package carve

import (
	"fmt"
	"image"
	"math"

	"github.com/esimov/carve/utils"
	"gonum.org/v1/gonum/floats"
)

type kernel [][]int

var (
	// gaussianKernel is a 3x3 binomial approximation of a gaussian.
	gaussianKernel = kernel{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}

	// derivative is the central difference mask, applied along rows for the
	// horizontal gradient and along columns for the vertical one.
	derivative = [3]int{-1, 0, 1}
)

// gaussianWeight is the sum of the gaussianKernel taps. Border pixels are
// divided by the full weight even though some taps fall outside the image,
// which darkens the image edges slightly.
const gaussianWeight = 16

// Smooth applies the 3x3 gaussian kernel to every pixel of src.
// Out of range taps are skipped, not clamped or reflected.
func Smooth(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	half := len(gaussianKernel) / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// The accumulator starts at 1, matching the reference output bit for bit.
			sum := 1
			for ky := -half; ky <= half; ky++ {
				sy := y + ky
				if sy < 0 || sy >= h {
					continue
				}
				for kx := -half; kx <= half; kx++ {
					sx := x + kx
					if sx < 0 || sx >= w {
						continue
					}
					px := src.Pix[src.PixOffset(b.Min.X+sx, b.Min.Y+sy)]
					sum += gaussianKernel[ky+half][kx+half] * int(px)
				}
			}
			dst.Pix[y*dst.Stride+x] = uint8(sum / gaussianWeight)
		}
	}
	return dst
}

// Gradient returns the edge magnitude sqrt(gx²+gy²) of every pixel of src as
// a row-major slice. The first and last rows and columns have no neighbours
// on one side and are left at zero.
func Gradient(src *image.Gray) []float64 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	mag := make([]float64, w*h)

	at := func(x, y int) int {
		return int(src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)])
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var gx, gy int
			for i := -1; i <= 1; i++ {
				gx += derivative[i+1] * at(x+i, y)
				gy += derivative[i+1] * at(x, y+i)
			}
			mag[y*w+x] = math.Sqrt(float64(gx*gx + gy*gy))
		}
	}
	return mag
}

// Normalize rescales the magnitudes linearly so that the smallest value maps
// to 0 and the largest to 255, then rounds to the nearest 8-bit value.
// A constant input maps to an all-zero plane.
func Normalize(mag []float64, w, h int) (*image.Gray, error) {
	if w <= 0 || h <= 0 || len(mag) != w*h {
		return nil, fmt.Errorf("%w: %d magnitudes for a %dx%d plane", ErrEmptyImage, len(mag), w, h)
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))

	lo, hi := floats.Min(mag), floats.Max(mag)
	var scale float64
	if hi-lo > math.SmallestNonzeroFloat64 {
		scale = 255 / (hi - lo)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := math.RoundToEven((mag[y*w+x] - lo) * scale)
			dst.Pix[y*dst.Stride+x] = uint8(utils.Clamp(v, 0, 255))
		}
	}
	return dst, nil
}

// EnergyMap builds the per-pixel cost plane used by the seam search:
// the grayscale plane is smoothed, converted into an edge magnitude and
// normalized into the [0, 255] range.
func EnergyMap(gray *image.Gray) (*image.Gray, error) {
	if gray == nil || gray.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	smooth := Smooth(gray)
	w, h := smooth.Bounds().Dx(), smooth.Bounds().Dy()

	return Normalize(Gradient(smooth), w, h)
}
