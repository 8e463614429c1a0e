// Package render renders grayscale Mandelbrot tiles and whole images on the local CPU.
package render

import (
	"context"
	"image"
	"sync"

	mandel "github.com/marben/grayscale_mandel"
)

// RendererImpl renders tiles locally.
type RendererImpl struct {
	// OnTileRender is called before each tile is rendered, if set
	OnTileRender func(tile image.Rectangle)
}

var _ mandel.Renderer = RendererImpl{}

// RenderTile implements mandel.Renderer.
// Tile has global coordinates and is clipped to the image bounds.
func (imp RendererImpl) RenderTile(ctx context.Context, vp mandel.Viewport, tile image.Rectangle, b mandel.Bounds) (*image.Gray, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if imp.OnTileRender != nil {
		imp.OnTileRender(tile)
	}

	img := image.NewGray(tile.Intersect(b.Rect()))
	mandel.RenderRegion(img.Pix, img.Stride, b, vp, img.Rect)

	return img, nil
}

// Parallel renders the same image as mandel.Render, splitting rows into
// contiguous bands rendered by up to workers goroutines.
// It panics if len(buf) != b.Width*b.Height.
func Parallel(buf []byte, b mandel.Bounds, vp mandel.Viewport, workers int) {
	if len(buf) != b.Width*b.Height {
		panic("render: buffer length does not match bounds")
	}
	if workers <= 1 || b.Height <= 1 {
		mandel.Render(buf, b, vp)
		return
	}

	var wg sync.WaitGroup
	for _, band := range splitRows(b.Rect(), workers) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// each band owns a disjoint part of buf
			dst := buf[band.Min.Y*b.Width : band.Max.Y*b.Width]
			mandel.RenderRegion(dst, b.Width, b, vp, band)
		}()
	}
	wg.Wait()
}

// splitRows splits r into at most n horizontal bands of nearly equal height.
func splitRows(r image.Rectangle, n int) []image.Rectangle {
	h := r.Dy()
	if n > h {
		n = h
	}

	bands := make([]image.Rectangle, 0, n)
	y := r.Min.Y
	for i := range n {
		bh := h / n
		if i < h%n {
			bh++
		}
		bands = append(bands, image.Rect(r.Min.X, y, r.Max.X, y+bh))
		y += bh
	}

	return bands
}
