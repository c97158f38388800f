package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/esimov/carve"
	"github.com/esimov/carve/utils"
)

// carveOpts holds the flags of the carve command.
type carveOpts struct {
	source      string
	destination string
	seams       int
	mode        string
	seamColor   string
	faceDetect  bool
	cascade     string
	faceAngle   float64
	mask        string
	rmask       string
	workers     int
	config      string
}

func newCarveCmd() *cobra.Command {
	opts := carveOpts{
		source:      pipeName,
		destination: "output",
		mode:        "cols",
		workers:     runtime.NumCPU(),
	}

	cmd := &cobra.Command{
		Use:   "carve",
		Short: "Remove the lowest energy seams from an image",
		Example: `  carve carve --in image.jpg --seams 50 --mode both --out output
  cat image.png | carve carve --seams 20 --out - > resized.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.config != "" {
				if err := applyConfig(cmd.Flags(), opts.config); err != nil {
					return err
				}
			}
			return runCarve(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.source, "in", opts.source, "source image, directory, URL or - for stdin")
	f.StringVar(&opts.destination, "out", opts.destination, "output directory or - for stdout")
	f.IntVar(&opts.seams, "seams", 0, "number of seams removed by every pass")
	f.StringVar(&opts.mode, "mode", opts.mode, "seam orientation: cols, rows or both")
	f.StringVar(&opts.seamColor, "seam-color", "#ff0000", "color of the seams on the visualization image")
	f.BoolVar(&opts.faceDetect, "face", false, "protect the detected faces")
	f.StringVar(&opts.cascade, "cc", "", "pigo cascade classifier used for face detection")
	f.Float64Var(&opts.faceAngle, "angle", 0, "plane rotated faces angle")
	f.StringVar(&opts.mask, "mask", "", "mask image, white pixels are kept")
	f.StringVar(&opts.rmask, "rmask", "", "mask image, white pixels are removed first")
	f.IntVar(&opts.workers, "conc", opts.workers, "number of files processed concurrently")
	f.StringVar(&opts.config, "config", "", "TOML file with default flag values")

	return cmd
}

func runCarve(cmd *cobra.Command, opts carveOpts) error {
	logger := loggerFromContext(cmd.Context())
	stderr := cmd.ErrOrStderr()

	if opts.seams <= 0 {
		return errors.New("please provide the number of seams to remove")
	}
	mode, err := carve.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	if opts.faceDetect && opts.cascade == "" {
		return errors.New("please specify a face classifier in case you are using the --face flag")
	}

	proc := &carve.Processor{
		Seams:      opts.seams,
		Mode:       mode,
		SeamColor:  opts.seamColor,
		MaskPath:   opts.mask,
		RMaskPath:  opts.rmask,
		FaceDetect: opts.faceDetect,
		Classifier: opts.cascade,
		FaceAngle:  opts.faceAngle,
		Logger:     logger,
	}
	op := &carve.Ops{
		Src:      opts.source,
		Dst:      opts.destination,
		PipeName: pipeName,
		Workers:  opts.workers,
		Stdin:    cmd.InOrStdin(),
		Stdout:   cmd.OutOrStdout(),
		Logger:   logger,
	}

	title := utils.DecorateText("⚡ CARVE", utils.StatusMessage)
	spinner := utils.NewSpinner(stderr, fmt.Sprintf("%s %s", title,
		utils.DecorateText("is carving the image...", utils.DefaultMessage)), 200*time.Millisecond, true)

	// The spinner only runs for a single image on an interactive terminal.
	interactive := term.IsTerminal(int(os.Stderr.Fd())) && !isDir(opts.source)
	if interactive {
		proc.OnSeam = func(o carve.Orientation, done, total int) {
			spinner.SetMessage(fmt.Sprintf("%s %s", title,
				utils.DecorateText(fmt.Sprintf("removing %s seams %d/%d", o, done, total), utils.DefaultMessage)))
		}
		spinner.StopMsg = fmt.Sprintf("%s %s", title,
			utils.DecorateText("is carving the image... ✔", utils.DefaultMessage))
		spinner.Start()
		go func() {
			<-cmd.Context().Done()
			spinner.RestoreCursor()
		}()
	}

	now := time.Now()
	var failed int
	err = op.Execute(cmd.Context(), proc, func(res carve.FileResult) {
		if interactive {
			spinner.Stop()
		}
		if res.Err != nil {
			failed++
			fmt.Fprintf(stderr, "\n%s %s\n",
				utils.DecorateText("Error carving "+filepath.Base(res.Src)+":", utils.ErrorMessage),
				utils.DecorateText(res.Err.Error(), utils.DefaultMessage))
			return
		}
		for _, out := range res.Outputs {
			logger.Debug("image saved", "src", res.Src, "path", out)
		}
		if len(res.Outputs) > 0 {
			fmt.Fprintf(stderr, "\nThe carved images have been saved in: %s\n",
				utils.DecorateText(filepath.Dir(res.Outputs[0]), utils.SuccessMessage))
		}
	})
	if interactive {
		spinner.Stop()
	}
	fmt.Fprintf(stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))

	if errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil && failed > 0 {
		return fmt.Errorf("%d image(s) could not be carved", failed)
	}
	return err
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
