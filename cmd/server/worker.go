package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"sync"

	mandel "github.com/marben/grayscale_mandel"
)

var errTileNotFinished = errors.New("tile not finished")

type imgWorkScheduler struct {
	workers  int
	bounds   mandel.Bounds
	viewport mandel.Viewport
	img      *image.Gray

	// cancelled once all tiles are finished
	ctx       context.Context
	ctxCancel context.CancelFunc

	totalPixels    int
	finishedPixels int
	totalTiles     int

	unstarted map[image.Rectangle]struct{}
	inProcess map[image.Rectangle]struct{}
	finished  map[image.Rectangle]struct{}
	m         sync.Mutex
}

var (
	_ mandel.ImgProvider  = (*imgWorkScheduler)(nil)
	_ mandel.TileProvider = (*imgWorkScheduler)(nil)
)

func newImgWorkScheduler(b mandel.Bounds, vp mandel.Viewport, tileSize int) *imgWorkScheduler {
	img := image.NewGray(b.Rect())
	allTilesSlice := splitRectNoClip(img.Bounds(), tileSize, tileSize)
	allTiles := make(map[image.Rectangle]struct{}, len(allTilesSlice))
	for _, t := range allTilesSlice {
		allTiles[t] = struct{}{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	if len(allTiles) == 0 {
		cancel()
	}
	return &imgWorkScheduler{
		img:         img,
		bounds:      b,
		viewport:    vp,
		unstarted:   allTiles,
		inProcess:   make(map[image.Rectangle]struct{}),
		finished:    make(map[image.Rectangle]struct{}, len(allTiles)),
		totalPixels: b.Width * b.Height,
		totalTiles:  len(allTiles),
		ctx:         ctx,
		ctxCancel:   cancel,
	}
}

func (iws *imgWorkScheduler) popTile() (tile image.Rectangle, found bool) {
	iws.m.Lock()
	defer iws.m.Unlock()

	// Get unstarted tile
	if len(iws.unstarted) > 0 {
		for tile = range iws.unstarted {
			break
		}
		delete(iws.unstarted, tile)

		// Move popped tile to currently processed tiles
		iws.inProcess[tile] = struct{}{}
		return tile, true
	}

	// If there is no unstarted tile, we work again on a started one
	if len(iws.inProcess) > 0 {
		for tile = range iws.inProcess {
			break
		}

		return tile, true
	}

	return image.Rectangle{}, false
}

// GetImage implements mandel.ImgProvider.
func (iws *imgWorkScheduler) GetImage(ctx context.Context) (*image.Gray, error) {
	select {
	case <-iws.ctx.Done():
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	iws.m.Lock()
	defer iws.m.Unlock()
	return cloneGray(iws.img), nil
}

// done is closed once the whole image is rendered
func (iws *imgWorkScheduler) done() <-chan struct{} {
	return iws.ctx.Done()
}

func (iws *imgWorkScheduler) progress() float32 {
	iws.m.Lock()
	defer iws.m.Unlock()
	if iws.totalPixels == 0 {
		return 1
	}
	return float32(iws.finishedPixels) / float32(iws.totalPixels)
}

func (iws *imgWorkScheduler) tileFinished(tileImg *image.Gray) {
	defer func() { log.Printf("finished: %f", iws.progress()) }()

	rect := tileImg.Bounds()
	iws.m.Lock()
	defer iws.m.Unlock()

	// the same tile may have been handed to more than one worker, first result wins
	if _, found := iws.inProcess[rect]; !found {
		return
	}

	draw.Draw(
		iws.img,
		rect,     // destination rectangle (global coords)
		tileImg,  // source image
		rect.Min, // source start
		draw.Src,
	)

	iws.finishedPixels += rect.Dx() * rect.Dy()
	delete(iws.inProcess, rect)
	iws.finished[rect] = struct{}{}

	if len(iws.unstarted) == 0 && len(iws.inProcess) == 0 {
		iws.ctxCancel()
	}
}

// FullImageDimensions implements mandel.TileProvider.
func (iws *imgWorkScheduler) FullImageDimensions() (width, height int) {
	return iws.bounds.Width, iws.bounds.Height
}

// TotalTilesCount implements mandel.TileProvider.
func (iws *imgWorkScheduler) TotalTilesCount() int {
	return iws.totalTiles
}

// FinishedTiles implements mandel.TileProvider.
func (iws *imgWorkScheduler) FinishedTiles() map[image.Rectangle]struct{} {
	iws.m.Lock()
	defer iws.m.Unlock()

	tiles := make(map[image.Rectangle]struct{}, len(iws.finished))
	for t := range iws.finished {
		tiles[t] = struct{}{}
	}
	return tiles
}

// GetTileImg implements mandel.TileProvider.
func (iws *imgWorkScheduler) GetTileImg(tile image.Rectangle) (*image.Gray, error) {
	iws.m.Lock()
	defer iws.m.Unlock()

	if _, found := iws.finished[tile]; !found {
		return nil, fmt.Errorf("%s: %w", tile, errTileNotFinished)
	}
	return cloneGray(iws.img.SubImage(tile).(*image.Gray)), nil
}

// WorkersCount implements mandel.TileProvider.
func (iws *imgWorkScheduler) WorkersCount() int {
	iws.m.Lock()
	defer iws.m.Unlock()
	return iws.workers
}

func (iws *imgWorkScheduler) incActiveWorker() {
	iws.m.Lock()
	iws.workers++
	w := iws.workers
	iws.m.Unlock()

	log.Printf("workers: %d", w)
}

func (iws *imgWorkScheduler) decActiveWorkers() {
	iws.m.Lock()
	iws.workers--
	w := iws.workers
	iws.m.Unlock()

	log.Printf("workers: %d", w)
}

// renders unfinished tiles on provided Renderer
// can be called from multiple goroutines in parallel
func (iws *imgWorkScheduler) render(ctx context.Context, renderer mandel.Renderer) error {
	iws.incActiveWorker()
	defer iws.decActiveWorkers()

	for {
		tile, found := iws.popTile()
		if !found {
			return nil
		}
		tileImg, err := renderer.RenderTile(ctx, iws.viewport, tile, iws.bounds)
		if err != nil {
			return fmt.Errorf("render of tile %s: %w", tile, err)
		}
		if tileImg.Rect != tile {
			return fmt.Errorf("renderer returned tile %s instead of %s", tileImg.Rect, tile)
		}
		iws.tileFinished(tileImg)
	}
}

// cloneGray copies img into a new image with the same bounds.
func cloneGray(img *image.Gray) *image.Gray {
	c := image.NewGray(img.Rect)
	draw.Draw(c, c.Rect, img, img.Rect.Min, draw.Src)
	return c
}

// splitRectNoClip splits r into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func splitRectNoClip(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	w := r.Dx()
	h := r.Dy()

	var tiles []image.Rectangle

	for oy := 0; oy < h; oy += tileH {
		th := tileH
		if oy+th > h {
			th = h - oy
		}

		for ox := 0; ox < w; ox += tileW {
			tw := tileW
			if ox+tw > w {
				tw = w - ox
			}

			tile := image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			)
			tiles = append(tiles, tile)
		}
	}

	return tiles
}
