package mandel

import "image"

// Limit is the iteration bound used when rendering intensity bytes.
const Limit = 255

// Bounds are the column and row counts of the output image.
type Bounds struct {
	Width, Height int
}

// Rect returns the whole image as a rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// Pixel is a 0-indexed column (X) and row (Y).
type Pixel struct {
	X, Y int
}

// Viewport within the complex plane, defined by its upper left and lower right corners.
type Viewport struct {
	UpperLeft, LowerRight complex128
}

// PixelToPoint returns the complex point sampled at pixel p of an image with bounds b.
// Pixels outside of b are not validated and extrapolate linearly.
func PixelToPoint(b Bounds, p Pixel, vp Viewport) complex128 {
	width := real(vp.LowerRight) - real(vp.UpperLeft)
	height := imag(vp.UpperLeft) - imag(vp.LowerRight)

	return complex(
		real(vp.UpperLeft)+(float64(p.X)/float64(b.Width))*width,
		imag(vp.UpperLeft)-(float64(p.Y)/float64(b.Height))*height,
	)
}

// EscapeTime iterates z = z*z + c from zero at most limit times.
// It returns the index of the first iteration where |z| >= 2 and true,
// or false if c did not escape within the limit.
func EscapeTime(c complex128, limit int) (int, bool) {
	z := complex(0, 0)

	for i := range limit {
		z = z*z + c
		if real(z)*real(z)+imag(z)*imag(z) >= 4 {
			return i, true
		}
	}

	return 0, false
}

// Intensity maps an escape result to a grayscale byte.
// Fast escapes are bright, bounded points are black.
func Intensity(n int, escaped bool) uint8 {
	if !escaped {
		return 0
	}
	return uint8(Limit - n)
}

// Render fills buf, row-major, with the intensity of every pixel of b.
// It panics if len(buf) != b.Width*b.Height.
func Render(buf []byte, b Bounds, vp Viewport) {
	if len(buf) != b.Width*b.Height {
		panic("mandel: buffer length does not match bounds")
	}
	RenderRegion(buf, b.Width, b, vp, b.Rect())
}

// RenderRegion renders the part r of the image into dst.
// Pixel (x, y) of r is stored at dst[(y-r.Min.Y)*stride+(x-r.Min.X)].
//
// The mapper is called with the row as its horizontal and the column as its
// vertical argument. Existing images depend on this orientation, don't swap them.
func RenderRegion(dst []byte, stride int, b Bounds, vp Viewport, r image.Rectangle) {
	for row := r.Min.Y; row < r.Max.Y; row++ {
		line := dst[(row-r.Min.Y)*stride:]
		for col := r.Min.X; col < r.Max.X; col++ {
			c := PixelToPoint(b, Pixel{X: row, Y: col}, vp)
			line[col-r.Min.X] = Intensity(EscapeTime(c, Limit))
		}
	}
}
