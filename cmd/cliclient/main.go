// cliclient is a CLI client for the distributed Mandelbrot renderer.
// It connects to the Mandelbrot server, renders tiles for it, and saves the finished image as a PNG file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/marben/grayscale_mandel/remote"
	"github.com/marben/grayscale_mandel/render"
)

// main is the entry point for the CLI client.
// It runs the client logic and logs any fatal errors.
func main() {
	server := flag.String("server", "localhost:8080", "address of the Mandelbrot server")
	filename := flag.String("o", "mandel.png", "output file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("Starting CLI client...")
	if err := run(ctx, *server, *filename); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run connects to the Mandelbrot server, renders tiles for it and saves the finished image.
// Returns an error if any step fails.
func run(ctx context.Context, server, filename string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Step 1: Connect to Mandelbrot server
	wsURL := "ws://" + server + "/ws"
	log.Printf("Connecting to Mandelbrot server at %s...", wsURL)
	conn, err := remote.Dial(ctx, wsURL)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	// Step 2: Serve tile requests using our CPU, until the server has no more work for us
	renderer := render.RendererImpl{OnTileRender: func(tile image.Rectangle) { log.Printf("Rendering tile: %s", tile) }}
	served := make(chan error, 1)
	go func() {
		served <- remote.Serve(ctx, conn, renderer)
	}()

	// Step 3: Request the fully rendered image from the server
	log.Printf("Requesting fully rendered image from server...")
	if err := download(ctx, "http://"+server+"/image.png", filename); err != nil {
		return err
	}
	log.Printf("Fully rendered image saved to %q", filename)

	cancel()
	if err := <-served; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serving tiles: %w", err)
	}
	return nil
}

// download blocks until the server has the whole image and writes it to filename.
func download(ctx context.Context, url, filename string) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("client.GetImage: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("client.GetImage: %s", resp.Status)
	}

	log.Printf("Saving rendered image to %q...", filename)
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
