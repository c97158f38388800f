package carve

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/esimov/carve/utils"
)

// SupportedExtensions lists the output file extensions Encode can write.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff"}

// Decode reads an image and returns its color plane together with the
// grayscale plane derived from the same pixels. EXIF orientation is applied.
func Decode(r io.Reader) (*image.NRGBA, *image.Gray, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, fmt.Errorf("could not decode the source image: %w", err)
	}
	img := imaging.Clone(src)
	if img.Bounds().Empty() {
		return nil, nil, ErrEmptyImage
	}
	return img, Grayscale(img), nil
}

// Grayscale converts the color plane to an 8-bit luminance plane using the
// ITU-R BT.601 weights.
func Grayscale(src *image.NRGBA) *image.Gray {
	b := src.Bounds()
	dx, dy := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, dx, dy))

	for y := 0; y < dy; y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := y * dst.Stride
		for x := 0; x < dx; x++ {
			r, g, bl := src.Pix[si], src.Pix[si+1], src.Pix[si+2]
			lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)
			dst.Pix[di+x] = uint8(utils.Clamp(lum+0.5, 0, 255))
			si += 4
		}
	}
	return dst
}

// Encode writes img to w in the format selected by the file extension.
// An empty extension selects png, which keeps the output lossless.
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case "", ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case ".bmp":
		return bmp.Encode(w, img)
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// encodeFile creates the file at path and encodes img into it. The file is
// removed when encoding fails.
func encodeFile(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create the destination file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return Encode(f, img, filepath.Ext(path))
}

// decodeMask decodes a mask image file.
func decodeMask(path string) (*image.NRGBA, error) {
	ctype, err := utils.DetectContentType(path)
	if err != nil {
		return nil, fmt.Errorf("could not open the mask file: %w", err)
	}
	if !strings.Contains(ctype, "image") {
		return nil, fmt.Errorf("the mask should be an image file")
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not decode the mask file: %w", err)
	}
	return imaging.Clone(img), nil
}
