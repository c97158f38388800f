package carve

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/esimov/carve/utils"
)

// Processor options
type Processor struct {
	// Seams is the number of seams removed by every pass.
	Seams int
	// Mode selects the column pass, the row pass or both, in this order.
	Mode Mode
	// SeamColor is the hex color of the seams drawn on the visualization image.
	SeamColor string
	// MaskPath is an image whose white pixels mark regions to keep.
	MaskPath string
	// RMaskPath is an image whose white pixels mark regions to remove first.
	RMaskPath string
	// FaceDetect protects the faces found with the cascade file in Classifier.
	FaceDetect bool
	Classifier string
	FaceAngle  float64

	// OnSeam, when set, is called after every removed seam.
	OnSeam func(o Orientation, done, total int)
	Logger *log.Logger

	once     sync.Once
	initErr  error
	detector *FaceDetector
	mask     *image.NRGBA
	rmask    *image.NRGBA
	marker   color.NRGBA
}

// Pass is the output of one carving pass.
type Pass struct {
	Orientation Orientation
	Resized     *image.NRGBA
	Seamed      *image.NRGBA
}

// setup loads the resources shared by every image processed with p.
func (p *Processor) setup() error {
	p.once.Do(func() {
		p.marker = SeamMarker
		if p.SeamColor != "" {
			c, err := utils.HexToRGBA(p.SeamColor)
			if err != nil {
				p.initErr = err
				return
			}
			p.marker = c
		}
		if p.FaceDetect {
			if p.Classifier == "" {
				p.initErr = fmt.Errorf("a cascade classifier is required for face detection")
				return
			}
			p.detector, p.initErr = NewFaceDetector(p.Classifier, p.FaceAngle)
			if p.initErr != nil {
				return
			}
		}
		if p.MaskPath != "" {
			if p.mask, p.initErr = decodeMask(p.MaskPath); p.initErr != nil {
				return
			}
		}
		if p.RMaskPath != "" {
			p.rmask, p.initErr = decodeMask(p.RMaskPath)
		}
	})
	return p.initErr
}

// Run carves the image with every pass selected by the mode. The row pass of
// the Both mode runs on the output of the column pass.
func (p *Processor) Run(img *image.NRGBA, gray *image.Gray) ([]Pass, error) {
	if err := p.setup(); err != nil {
		return nil, err
	}
	orientations, err := p.Mode.Orientations()
	if err != nil {
		return nil, err
	}

	passes := make([]Pass, 0, len(orientations))
	for i, o := range orientations {
		if i > 0 {
			gray = Grayscale(img)
		}
		c := NewCarver(img.Bounds().Dx(), img.Bounds().Dy())
		c.SeamColor = p.marker
		c.Mask, c.RMask = p.mask, p.rmask
		c.Logger = p.Logger
		if p.detector != nil {
			c.Protect = p.detector.Detect(gray)
			if p.Logger != nil {
				p.Logger.Debug("faces detected", "count", len(c.Protect))
			}
		}
		if p.OnSeam != nil {
			c.OnSeam = func(done, total int, _ Seam) {
				p.OnSeam(o, done, total)
			}
		}

		res, err := c.Carve(img, gray, p.Seams, o)
		if err != nil {
			return nil, fmt.Errorf("%s pass: %w", o, err)
		}
		passes = append(passes, Pass{
			Orientation: o,
			Resized:     res.Resized,
			Seamed:      res.Seamed,
		})
		img = res.Resized
	}
	return passes, nil
}

// Process decodes the image from r, carves it and encodes the final image
// into w. The output format follows the extension of w when it is a file
// and defaults to png otherwise.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	img, gray, err := Decode(r)
	if err != nil {
		return err
	}
	passes, err := p.Run(img, gray)
	if err != nil {
		return err
	}

	var ext string
	if f, ok := w.(*os.File); ok {
		ext = filepath.Ext(f.Name())
	}
	return Encode(w, passes[len(passes)-1].Resized, ext)
}

// ProcessFile carves the image stored at src and writes, for every pass, the
// resized and the seam visualization images into <dst>/<name>/ as
// resized_<pass>-<file> and seamed_<pass>-<file>. It returns the written paths.
func (p *Processor) ProcessFile(src, dst string) ([]string, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("unable to open the source file: %w", err)
	}
	defer f.Close()

	return p.ProcessNamed(f, src, dst)
}

// ProcessNamed is like ProcessFile but reads the image from r. The output
// names are derived from name. On error the files written so far are removed.
func (p *Processor) ProcessNamed(r io.Reader, name, dst string) ([]string, error) {
	img, gray, err := Decode(r)
	if err != nil {
		return nil, err
	}
	passes, err := p.Run(img, gray)
	if err != nil {
		return nil, err
	}

	dir := OutputDir(dst, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create the output directory: %w", err)
	}

	paths := make([]string, 0, 2*len(passes))
	for _, pass := range passes {
		resized, seamed := OutputNames(name, pass.Orientation)
		for _, out := range []struct {
			name string
			img  image.Image
		}{
			{resized, pass.Resized},
			{seamed, pass.Seamed},
		} {
			path := filepath.Join(dir, out.name)
			if err := encodeFile(path, out.img); err != nil {
				// Leave no partial output behind.
				for _, written := range paths {
					os.Remove(written)
				}
				return nil, err
			}
			if p.Logger != nil {
				p.Logger.Debug("image saved", "path", path)
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// OutputDir returns the directory receiving the images generated from src:
// a folder named after the source file, without its extension, inside root.
func OutputDir(root, src string) string {
	base := filepath.Base(src)
	return filepath.Join(root, strings.TrimSuffix(base, filepath.Ext(base)))
}

// OutputNames returns the file names of the resized and the seam
// visualization images produced from src by a pass of the given orientation.
// Sources in a format without an encoder are written as png.
func OutputNames(src string, o Orientation) (resized, seamed string) {
	base := filepath.Base(src)
	if ext := strings.ToLower(filepath.Ext(base)); !utils.Contains(SupportedExtensions, ext) {
		base = strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
	}
	return fmt.Sprintf("resized_%s-%s", o, base), fmt.Sprintf("seamed_%s-%s", o, base)
}
