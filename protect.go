package carve

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"

	"github.com/esimov/carve/utils"
)

// faceQuality is the minimum detection score for a face to be protected.
const faceQuality = 5.0

// FaceDetector finds faces with a pigo cascade classifier.
type FaceDetector struct {
	classifier *pigo.Pigo
	Angle      float64
}

// NewFaceDetector loads the pigo cascade file from path.
func NewFaceDetector(path string, angle float64) (*FaceDetector, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading the cascade file: %w", err)
	}
	// Unpack the binary file. This will return the number of cascade trees,
	// the tree depth, the threshold and the prediction from tree's leaf nodes.
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the cascade file: %w", err)
	}
	return &FaceDetector{classifier: classifier, Angle: angle}, nil
}

// Detect returns the bounding boxes of the faces found on the grayscale plane.
func (fd *FaceDetector) Detect(gray *image.Gray) []image.Rectangle {
	b := gray.Bounds()
	dx, dy := b.Dx(), b.Dy()

	pixels := make([]uint8, 0, dx*dy)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := gray.PixOffset(b.Min.X, y)
		pixels = append(pixels, gray.Pix[off:off+dx]...)
	}

	cParams := pigo.CascadeParams{
		MinSize:     utils.Max(20, utils.Min(dx, dy)/10),
		MaxSize:     utils.Max(dx, dy),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   dy,
			Cols:   dx,
			Dim:    dx,
		},
	}

	// Run the classifier over the obtained leaf nodes and return the detection results.
	// The result contains quadruplets representing the row, column, scale and detection score.
	faces := fd.classifier.RunCascade(cParams, fd.Angle)

	// Calculate the intersection over union (IoU) of two clusters.
	faces = fd.classifier.ClusterDetections(faces, 0.2)

	rects := make([]image.Rectangle, 0, len(faces))
	for _, face := range faces {
		if face.Q > faceQuality {
			rects = append(rects, image.Rect(
				face.Col-face.Scale/2,
				face.Row-face.Scale/2,
				face.Col+face.Scale/2,
				face.Row+face.Scale/2,
			))
		}
	}
	return rects
}

// protect raises the energy of the protected regions and of the keep mask to
// the maximum and zeroes the energy under the removal mask.
func (c *Carver) protect(energy *image.Gray) {
	b := energy.Bounds()
	for _, r := range c.Protect {
		r = r.Intersect(b)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				energy.Pix[energy.PixOffset(x, y)] = 0xff
			}
		}
	}
	if c.Mask != nil {
		applyMask(energy, c.Mask, 0xff)
	}
	if c.RMask != nil {
		applyMask(energy, c.RMask, 0x00)
	}
}

// applyMask sets the energy to v wherever the mask is white. The mask is
// resized to the energy plane when the sizes differ.
func applyMask(energy *image.Gray, mask *image.NRGBA, v uint8) {
	b := energy.Bounds()
	if mask.Bounds().Dx() != b.Dx() || mask.Bounds().Dy() != b.Dy() {
		mask = imaging.Resize(mask, b.Dx(), b.Dy(), imaging.NearestNeighbor)
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := mask.PixOffset(mask.Bounds().Min.X+x, mask.Bounds().Min.Y+y)
			r, g, bl := mask.Pix[i], mask.Pix[i+1], mask.Pix[i+2]
			if r > 127 && g > 127 && bl > 127 {
				energy.Pix[energy.PixOffset(b.Min.X+x, b.Min.Y+y)] = v
			}
		}
	}
}
