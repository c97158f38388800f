package carve

import (
	"fmt"
	"image"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
)

// Carver runs a single carving pass over an image: it builds the energy map
// once, removes the requested number of seams of one orientation and crops
// the result to its logical size.
type Carver struct {
	// Width and Height hold the logical size of the image being carved.
	// They start at the input size and shrink by one with every removed seam,
	// while the underlying buffers keep their original extent.
	Width  int
	Height int

	// SeamColor is the marker used on the visualization image.
	SeamColor color.NRGBA
	// Protect lists regions whose energy is raised to the maximum before
	// the seams are searched, e.g. detected faces.
	Protect []image.Rectangle
	// Mask marks regions to keep (white pixels) and RMask regions to remove
	// first (white pixels). Both are resized to the image when needed.
	Mask  *image.NRGBA
	RMask *image.NRGBA

	// OnSeam, when set, is called after every removed seam.
	OnSeam func(done, total int, seam Seam)
	Logger *log.Logger
}

// Result holds the output of a carving pass.
type Result struct {
	// Resized is the carved image, cropped to its new size.
	Resized *image.NRGBA
	// Seamed is the input image at its original size with every removed seam drawn over it.
	Seamed *image.NRGBA
	// Seams lists the removed seams in removal order.
	Seams []Seam
}

// NewCarver initializes a Carver for an image of the given size.
func NewCarver(width, height int) *Carver {
	return &Carver{
		Width:     width,
		Height:    height,
		SeamColor: SeamMarker,
	}
}

// Carve removes n seams of the given orientation from img. gray is the
// grayscale version of img and is the only source of the energy map.
//
// The energy map is computed once, before the first seam is searched, and is
// then shrunk together with the image; it is not recomputed after each removal.
// The input planes are left untouched. On error no partial result is returned.
func (c *Carver) Carve(img *image.NRGBA, gray *image.Gray, n int, o Orientation) (*Result, error) {
	if img == nil || gray == nil || img.Bounds().Empty() || gray.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if gray.Bounds().Dx() != w || gray.Bounds().Dy() != h {
		return nil, fmt.Errorf("%w: color %dx%d, gray %dx%d",
			ErrSizeMismatch, w, h, gray.Bounds().Dx(), gray.Bounds().Dy())
	}
	_, across, err := o.span(w, h)
	if err != nil {
		return nil, err
	}
	if n < 0 || n >= across {
		return nil, fmt.Errorf("%w: %d %s seams requested from a %dx%d image", ErrSeamCount, n, o, w, h)
	}
	c.Width, c.Height = w, h

	energy, err := EnergyMap(gray)
	if err != nil {
		return nil, fmt.Errorf("building energy map: %w", err)
	}
	c.protect(energy)

	reduced := imaging.Clone(img)
	seamed := imaging.Clone(img)
	seams := make([]Seam, 0, n)

	c.debug("carving", "orientation", o, "seams", n, "width", w, "height", h)
	for i := 0; i < n; i++ {
		table, err := ComputeCost(energy, o)
		if err != nil {
			return nil, err
		}
		seam, err := table.FindSeam(o)
		if err != nil {
			return nil, err
		}
		if err := RemoveGraySeam(energy, seam, o); err != nil {
			return nil, fmt.Errorf("seam %d: %w", i, err)
		}
		if err := RemoveColorSeam(reduced, seam, o); err != nil {
			return nil, fmt.Errorf("seam %d: %w", i, err)
		}
		if err := MarkSeam(seamed, seam, c.SeamColor); err != nil {
			return nil, fmt.Errorf("seam %d: %w", i, err)
		}

		switch o {
		case ColumnSeam:
			c.Width--
		case RowSeam:
			c.Height--
		}
		seams = append(seams, seam)

		if c.OnSeam != nil {
			c.OnSeam(i+1, n, seam)
		}
	}

	resized := imaging.Crop(reduced, image.Rect(0, 0, c.Width, c.Height))
	c.debug("carved", "orientation", o, "width", c.Width, "height", c.Height)

	return &Result{
		Resized: resized,
		Seamed:  seamed,
		Seams:   seams,
	}, nil
}

func (c *Carver) debug(msg string, keyvals ...any) {
	if c.Logger != nil {
		c.Logger.Debug(msg, keyvals...)
	}
}
