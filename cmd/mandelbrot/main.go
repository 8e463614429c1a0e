// mandelbrot renders a grayscale image of the Mandelbrot set into a file.
//
//	mandelbrot [-workers N] FILE PIXELS UPPERLEFT LOWERRIGHT
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	mandel "github.com/marben/grayscale_mandel"
	"github.com/marben/grayscale_mandel/imgfile"
	"github.com/marben/grayscale_mandel/render"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(1)
		}
		log.Fatalf("FATAL: %v", err)
	}
}

func usage(w io.Writer, prog string) {
	fmt.Fprintln(w, "Usage: mandelbrot [-workers N] FILE PIXELS UPPERLEFT LOWERRIGHT")
	fmt.Fprintf(w, "Example: %s mandel.png 1000x750 -1.20,0.35 -1,0.20\n", prog)
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr, args[0]) }
	workers := fs.Int("workers", 1, "number of goroutines rendering row bands")
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}

	if fs.NArg() != 4 {
		usage(stderr, args[0])
		return errUsage
	}
	filename := fs.Arg(0)

	bounds, ok := mandel.ParseBounds(fs.Arg(1))
	if !ok {
		return fmt.Errorf("error parsing pixel bounds %q", fs.Arg(1))
	}
	upperLeft, ok := mandel.ParseComplex(fs.Arg(2))
	if !ok {
		return fmt.Errorf("error parsing upper left corner %q", fs.Arg(2))
	}
	lowerRight, ok := mandel.ParseComplex(fs.Arg(3))
	if !ok {
		return fmt.Errorf("error parsing lower right corner %q", fs.Arg(3))
	}

	pixels := make([]byte, bounds.Width*bounds.Height)
	render.Parallel(pixels, bounds, mandel.Viewport{UpperLeft: upperLeft, LowerRight: lowerRight}, *workers)

	if err := imgfile.WriteFile(filename, pixels, bounds); err != nil {
		return fmt.Errorf("error writing image file: %w", err)
	}

	return nil
}
