package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/esimov/carve"
	"github.com/esimov/carve/imop"
	"github.com/esimov/carve/utils"
)

type energyOpts struct {
	source      string
	destination string
	overlay     bool
	blend       string
	opacity     float64
}

func newEnergyCmd() *cobra.Command {
	opts := energyOpts{
		source:      pipeName,
		destination: pipeName,
		blend:       string(imop.Normal),
		opacity:     0.6,
	}

	cmd := &cobra.Command{
		Use:   "energy",
		Short: "Write the false-colored energy map of an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnergy(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.source, "in", opts.source, "source image, URL or - for stdin")
	f.StringVar(&opts.destination, "out", opts.destination, "output image or - for stdout")
	f.BoolVar(&opts.overlay, "overlay", false, "draw the energy map over the source image")
	f.StringVar(&opts.blend, "blend", opts.blend, "overlay blend mode: normal, darken, lighten, multiply, screen or overlay")
	f.Float64Var(&opts.opacity, "opacity", opts.opacity, "overlay opacity between 0 and 1")

	return cmd
}

func runEnergy(cmd *cobra.Command, opts energyOpts) error {
	logger := loggerFromContext(cmd.Context())

	mode, err := imop.ParseBlend(opts.blend)
	if err != nil {
		return err
	}

	var r io.Reader
	switch {
	case opts.source == pipeName:
		r = cmd.InOrStdin()
	case utils.IsValidUrl(opts.source):
		f, err := utils.DownloadImage(cmd.Context(), opts.source)
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		defer os.Remove(f.Name())
		defer f.Close()
		r = f
	default:
		f, err := os.Open(opts.source)
		if err != nil {
			return fmt.Errorf("unable to open the source file: %w", err)
		}
		defer f.Close()
		r = f
	}

	img, gray, err := carve.Decode(r)
	if err != nil {
		return err
	}
	heat, err := carve.EnergyHeatmap(gray)
	if err != nil {
		return err
	}
	if opts.overlay {
		if heat, err = imop.Draw(img, heat, mode, opts.opacity); err != nil {
			return err
		}
	}

	if opts.destination == pipeName {
		return carve.Encode(cmd.OutOrStdout(), heat, "")
	}
	ext := strings.ToLower(filepath.Ext(opts.destination))
	if !utils.Contains(carve.SupportedExtensions, ext) {
		return errors.New(ext + " file type not supported")
	}
	out, err := os.Create(opts.destination)
	if err != nil {
		return fmt.Errorf("unable to create the destination file: %w", err)
	}
	if err := carve.Encode(out, heat, ext); err != nil {
		out.Close()
		return err
	}
	logger.Info("energy map saved", "path", opts.destination)
	return out.Close()
}
