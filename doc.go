/*
Package carve reduces images by seam carving: it repeatedly removes the
connected path of pixels, one per row or one per column, that crosses the
least visually important part of the image.

The importance of a pixel is given by an energy map computed once from the
grayscale version of the image: a 3x3 Gaussian smoothing, a central
difference gradient magnitude and a min/max normalization to 0..255.
A dynamic programming table of cumulative costs then yields the cheapest
seam, which is removed from the energy map and the color image alike
while the removed pixels are drawn in red on a visualization copy.

The package provides a command line interface, to check the supported
commands type:

	$ carve --help

To integrate the API in a self constructed environment:

	package main

	import (
		"fmt"
		"os"

		"github.com/esimov/carve"
	)

	func main() {
		p := &carve.Processor{
			Seams: 50,
			Mode:  carve.Both,
		}

		if err := p.Process(os.Stdin, os.Stdout); err != nil {
			fmt.Printf("Error carving image: %s", err.Error())
		}
	}
*/
package carve
