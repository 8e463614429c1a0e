package render

import (
	"bytes"
	"context"
	"image"
	"testing"

	mandel "github.com/marben/grayscale_mandel"
)

func TestParallelMatchesSequential(t *testing.T) {
	vp := mandel.Viewport{UpperLeft: complex(-1.2, 0.35), LowerRight: complex(-1, 0.2)}
	for _, b := range []mandel.Bounds{{Width: 1, Height: 1}, {Width: 10, Height: 1}, {Width: 1, Height: 10}, {Width: 100, Height: 75}, {Width: 33, Height: 17}} {
		want := make([]byte, b.Width*b.Height)
		mandel.Render(want, b, vp)

		for _, workers := range []int{0, 1, 2, 3, 8, 64} {
			got := make([]byte, b.Width*b.Height)
			Parallel(got, b, vp, workers)
			if !bytes.Equal(got, want) {
				t.Errorf("bounds %v, %d workers: output differs from sequential render", b, workers)
			}
		}
	}
}

func TestParallelBufferLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on buffer length mismatch")
		}
	}()
	Parallel(make([]byte, 5), mandel.Bounds{Width: 2, Height: 2}, mandel.FullSet, 4)
}

func TestSplitRows(t *testing.T) {
	r := image.Rect(0, 0, 5, 10)
	for n := 1; n <= 12; n++ {
		bands := splitRows(r, n)
		y := 0
		for _, band := range bands {
			if band.Min.Y != y || band.Dx() != 5 || band.Empty() {
				t.Fatalf("n=%d: unexpected band %v", n, band)
			}
			y = band.Max.Y
		}
		if y != 10 {
			t.Fatalf("n=%d: bands cover rows up to %d", n, y)
		}
	}
}

func TestRenderTile(t *testing.T) {
	b := mandel.Bounds{Width: 130, Height: 70}
	vp := mandel.SeahorseValley
	full := make([]byte, b.Width*b.Height)
	mandel.Render(full, b, vp)

	var rendered []image.Rectangle
	r := RendererImpl{OnTileRender: func(tile image.Rectangle) { rendered = append(rendered, tile) }}

	// last tile reaches over the image edge and is clipped
	tiles := []image.Rectangle{image.Rect(0, 0, 64, 64), image.Rect(64, 64, 128, 128)}
	for _, tile := range tiles {
		img, err := r.RenderTile(context.Background(), vp, tile, b)
		if err != nil {
			t.Fatal(err)
		}
		want := tile.Intersect(b.Rect())
		if img.Rect != want {
			t.Fatalf("tile rect: got %v, want %v", img.Rect, want)
		}
		for y := want.Min.Y; y < want.Max.Y; y++ {
			for x := want.Min.X; x < want.Max.X; x++ {
				if got := img.GrayAt(x, y).Y; got != full[y*b.Width+x] {
					t.Fatalf("pixel (%d,%d): got %d, want %d", x, y, got, full[y*b.Width+x])
				}
			}
		}
	}

	if len(rendered) != len(tiles) {
		t.Errorf("OnTileRender called %d times, want %d", len(rendered), len(tiles))
	}
}

func TestRenderTileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (RendererImpl{}).RenderTile(ctx, mandel.FullSet, image.Rect(0, 0, 8, 8), mandel.Bounds{Width: 8, Height: 8}); err == nil {
		t.Fatal("expected error on cancelled context")
	}
}
