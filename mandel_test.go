package mandel

import (
	"bytes"
	"image"
	"testing"
)

func TestPixelToPoint(t *testing.T) {
	testCases := []struct {
		bounds Bounds
		pixel  Pixel
		vp     Viewport
		want   complex128
	}{
		{Bounds{200, 100}, Pixel{0, 0}, Viewport{complex(0, 1), complex(1, 0)}, complex(0, 1)},
		{Bounds{7, 3}, Pixel{0, 0}, Viewport{complex(0, 1), complex(1, 0)}, complex(0, 1)},
		{Bounds{200, 100}, Pixel{0, 0}, Viewport{complex(1, 2), complex(2, 1)}, complex(1, 2)},
		{Bounds{200, 100}, Pixel{50, 50}, Viewport{complex(1, 2), complex(2, 1)}, complex(1.25, 1.5)},
		// inverted imaginary axis
		{Bounds{4, 4}, Pixel{2, 2}, Viewport{complex(0, -1), complex(1, 1)}, complex(0.5, 0)},
		// extrapolation
		{Bounds{4, 4}, Pixel{8, 4}, Viewport{complex(0, 1), complex(1, 0)}, complex(2, 0)},
	}
	for _, tc := range testCases {
		if got := PixelToPoint(tc.bounds, tc.pixel, tc.vp); got != tc.want {
			t.Errorf("PixelToPoint(%v, %v, %v) = %v, want %v", tc.bounds, tc.pixel, tc.vp, got, tc.want)
		}
	}
}

func TestEscapeTime(t *testing.T) {
	testCases := []struct {
		c       complex128
		limit   int
		n       int
		escaped bool
	}{
		{complex(3, 4), 255, 0, true},
		{complex(0.1, 0.8), 255, 5, true},
		{complex(0.1, 0.8), 3, 0, false},
		{complex(0, 0), 255, 0, false},
		{complex(-1, 0), 255, 0, false},
		{complex(2, 0), 255, 0, true},
		{complex(3, 4), 0, 0, false},
	}
	for _, tc := range testCases {
		n, escaped := EscapeTime(tc.c, tc.limit)
		if n != tc.n || escaped != tc.escaped {
			t.Errorf("EscapeTime(%v, %d) = (%d, %t), want (%d, %t)", tc.c, tc.limit, n, escaped, tc.n, tc.escaped)
		}
	}
}

func TestIntensity(t *testing.T) {
	if got := Intensity(0, false); got != 0 {
		t.Errorf("bounded intensity: got %d, want 0", got)
	}
	for n := 0; n < Limit; n++ {
		if got := Intensity(n, true); int(got) != 255-n {
			t.Errorf("Intensity(%d, true) = %d, want %d", n, got, 255-n)
		}
	}
}

func TestRenderTransposed(t *testing.T) {
	// row 0, col 1 samples pixel (0, 1), i.e. 0+0i, which never escapes.
	// The non transposed mapping would sample 1.5+3i and give 255.
	b := Bounds{2, 1}
	buf := make([]byte, 2)
	Render(buf, b, Viewport{complex(0, 3), complex(3, 0)})

	if want := []byte{255, 0}; !bytes.Equal(buf, want) {
		t.Fatalf("got %v, want %v", buf, want)
	}
}

func TestRenderMatchesEscapeTime(t *testing.T) {
	b := Bounds{37, 23}
	vp := Viewport{complex(-1.2, 0.35), complex(-1, 0.2)}
	buf := make([]byte, b.Width*b.Height)
	Render(buf, b, vp)

	for row := 0; row < b.Height; row++ {
		for col := 0; col < b.Width; col++ {
			n, escaped := EscapeTime(PixelToPoint(b, Pixel{row, col}, vp), Limit)
			got := buf[row*b.Width+col]
			switch {
			case !escaped && got != 0:
				t.Errorf("(%d,%d): bounded point has intensity %d", col, row, got)
			case escaped && int(got) != 255-n:
				t.Errorf("(%d,%d): escaped at %d, intensity %d", col, row, n, got)
			}
		}
	}
}

func TestRenderIdempotent(t *testing.T) {
	b := Bounds{64, 48}
	first := make([]byte, b.Width*b.Height)
	second := make([]byte, b.Width*b.Height)
	Render(first, b, FullSet)
	Render(second, b, FullSet)

	if !bytes.Equal(first, second) {
		t.Fatal("renders of the same input differ")
	}
}

func TestRenderBufferLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on buffer length mismatch")
		}
	}()
	Render(make([]byte, 10), Bounds{3, 3}, FullSet)
}

func TestRenderRegion(t *testing.T) {
	b := Bounds{50, 30}
	vp := SeahorseValley
	full := make([]byte, b.Width*b.Height)
	Render(full, b, vp)

	r := image.Rect(7, 3, 31, 29)
	dst := make([]byte, r.Dx()*r.Dy())
	RenderRegion(dst, r.Dx(), b, vp, r)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		want := full[y*b.Width+r.Min.X : y*b.Width+r.Max.X]
		got := dst[(y-r.Min.Y)*r.Dx() : (y-r.Min.Y+1)*r.Dx()]
		if !bytes.Equal(got, want) {
			t.Fatalf("row %d: got %v, want %v", y, got, want)
		}
	}
}
