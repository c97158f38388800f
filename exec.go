package carve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/esimov/carve/utils"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// validExtensions lists the source files picked up when walking a directory.
var validExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff", ".webp"}

// Ops describes where the images are read from and written to.
type Ops struct {
	// Src is a file, a directory, an image URL or PipeName for stdin.
	Src string
	// Dst is the output root directory or PipeName for stdout.
	Dst      string
	PipeName string
	// Workers bounds the number of images carved concurrently in directory mode.
	Workers int

	Stdin  io.Reader
	Stdout io.Writer
	Logger *log.Logger
}

// FileResult holds the outcome of carving one source image.
type FileResult struct {
	Src     string
	Outputs []string
	Err     error
}

// Execute carves the images described by op with the processor p. Every
// processed file is reported through report, which may be nil. In directory
// mode a failing image does not stop the others; the returned error joins
// all the failures.
func (op *Ops) Execute(ctx context.Context, p *Processor, report func(FileResult)) error {
	if report == nil {
		report = func(FileResult) {}
	}
	if op.Stdin == nil {
		op.Stdin = os.Stdin
	}
	if op.Stdout == nil {
		op.Stdout = os.Stdout
	}

	// Check if source path is a local image, an URL or the standard input.
	switch {
	case utils.IsValidUrl(op.Src):
		return op.executeURL(ctx, p, report)
	case op.Src == op.PipeName:
		if f, ok := op.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return errors.New("`-` should be used with a pipe for stdin")
		}
		return op.executeOne(p, op.Stdin, "stdin.png", report)
	}

	fi, err := os.Stat(op.Src)
	if err != nil {
		return fmt.Errorf("failed to load the source image: %w", err)
	}
	if fi.IsDir() {
		if op.Dst == op.PipeName {
			return errors.New("a directory cannot be written to stdout")
		}
		return op.executeDir(ctx, p, report)
	}

	f, err := os.Open(op.Src)
	if err != nil {
		return fmt.Errorf("unable to open the source file: %w", err)
	}
	defer f.Close()

	return op.executeOne(p, f, op.Src, report)
}

// executeURL downloads the image into a temporary file before carving it.
func (op *Ops) executeURL(ctx context.Context, p *Processor, report func(FileResult)) error {
	src, err := utils.DownloadImage(ctx, op.Src)
	if err != nil {
		return fmt.Errorf("failed to load the source image: %w", err)
	}
	defer os.Remove(src.Name())
	defer src.Close()

	name := "image.png"
	if u, err := url.Parse(op.Src); err == nil && path.Base(u.Path) != "/" && path.Base(u.Path) != "." {
		name = path.Base(u.Path)
	}
	return op.executeOne(p, src, name, report)
}

// executeOne carves a single image either to stdout or into the output directory.
func (op *Ops) executeOne(p *Processor, r io.Reader, name string, report func(FileResult)) error {
	res := FileResult{Src: name}

	if op.Dst == op.PipeName {
		if f, ok := op.Stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return errors.New("`-` should be used with a pipe for stdout")
		}
		res.Err = p.Process(r, op.Stdout)
	} else {
		res.Outputs, res.Err = p.ProcessNamed(r, name, op.Dst)
	}
	report(res)
	return res.Err
}

// executeDir processes recursively the image files from the source directory concurrently.
func (op *Ops) executeDir(ctx context.Context, p *Processor, report func(FileResult)) error {
	// Limit the concurrently running workers to maxWorkers.
	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if op.Logger != nil {
		op.Logger.Debug("processing directory", "src", op.Src, "workers", workers)
	}
	paths, errc := walkDir(ctx, op.Src, validExtensions)
	ch := make(chan FileResult)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(ctx, p, paths, ch)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var errs []error
	for res := range ch {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Src, res.Err))
		}
		report(res)
	}
	if err := <-errc; err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// consumer reads the path names from the paths channel and calls the
// carving processor against the source image. Once ctx is cancelled the
// remaining paths are reported with the context error.
func (op *Ops) consumer(ctx context.Context, p *Processor, paths <-chan string, res chan<- FileResult) {
	for src := range paths {
		if err := ctx.Err(); err != nil {
			res <- FileResult{Src: src, Err: err}
			continue
		}
		// Keep the relative layout of the source tree below the output directory.
		dst := op.Dst
		if rel, err := filepath.Rel(op.Src, filepath.Dir(src)); err == nil && rel != "." {
			dst = filepath.Join(op.Dst, rel)
		}
		outputs, err := p.ProcessFile(src, dst)

		// The collector drains res until every consumer returns, so the
		// outputs already written are always reported.
		res <- FileResult{Src: src, Outputs: outputs, Err: err}
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each supported image file to a
// new channel. It finishes early when the context is cancelled.
func walkDir(ctx context.Context, src string, srcExts []string) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if !utils.Contains(srcExts, strings.ToLower(filepath.Ext(d.Name()))) {
				return nil
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("directory walk cancelled: %w", ctx.Err())
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}
