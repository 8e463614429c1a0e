// Package main is the coordinating server of the distributed renderer.
// It splits the image into tiles and hands them to workers connected over websockets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	mandel "github.com/marben/grayscale_mandel"
)

// main is the entry point for the Mandelbrot server.
// Note: All rendering is performed by clients; the server only coordinates and distributes work.
func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

type config struct {
	addr     string
	bounds   mandel.Bounds
	viewport mandel.Viewport
	tileSize int
}

func parseFlags(args []string) (config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	addr := fs.String("addr", ":8080", "http listen address")
	size := fs.String("size", "1920x1080", "image size WIDTHxHEIGHT")
	regionName := fs.String("region", "seahorse", "landmark to render: "+strings.Join(mandel.RegionNames(), ", "))
	ul := fs.String("ul", "", "upper left corner RE,IM, overrides -region")
	lr := fs.String("lr", "", "lower right corner RE,IM, overrides -region")
	tileSize := fs.Int("tile", 64, "tile edge in pixels")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	cfg := config{addr: *addr, tileSize: *tileSize}
	if cfg.tileSize <= 0 {
		return config{}, fmt.Errorf("tile size must be positive, got %d", cfg.tileSize)
	}

	b, ok := mandel.ParseBounds(*size)
	if !ok || b.Width == 0 || b.Height == 0 {
		return config{}, fmt.Errorf("error parsing image size %q", *size)
	}
	cfg.bounds = b

	vp, err := mandel.LookupRegion(*regionName)
	if err != nil {
		return config{}, err
	}
	if *ul != "" || *lr != "" {
		var okUL, okLR bool
		vp.UpperLeft, okUL = mandel.ParseComplex(*ul)
		vp.LowerRight, okLR = mandel.ParseComplex(*lr)
		if !okUL || !okLR {
			return config{}, fmt.Errorf("error parsing corners %q and %q", *ul, *lr)
		}
	}
	cfg.viewport = vp

	return cfg, nil
}

func run(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	imgWorkScheduler := newImgWorkScheduler(cfg.bounds, cfg.viewport, cfg.tileSize)
	log.Printf("rendering %dx%d of %v in %d tiles", cfg.bounds.Width, cfg.bounds.Height, cfg.viewport, imgWorkScheduler.TotalTilesCount())

	go func() {
		<-imgWorkScheduler.done()
		log.Printf("image complete")
	}()

	// httpServer provides the websocket endpoint for workers along with status and image endpoints
	httpServer := webServer(ctx, cfg.addr, imgWorkScheduler)
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	log.Printf("mb server waiting for websocket connections")
	select {
	case err := <-errCh:
		return fmt.Errorf("httpServer: %w", err)
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.Shutdown: %w", err)
	}
	return nil
}
