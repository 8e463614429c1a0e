package mandel

import (
	"math"
	"strconv"
	"strings"
)

// ParsePair parses two values separated by sep, e.g. "1000x750" or "-1.2,0.35".
// The split happens at the first sep. ok is false if either half fails to parse.
func ParsePair[T int | float64](s string, sep byte) (left, right T, ok bool) {
	l, r, found := strings.Cut(s, string(sep))
	if !found {
		return left, right, false
	}

	left, err := parseNum[T](l)
	if err != nil {
		return left, right, false
	}
	right, err = parseNum[T](r)
	if err != nil {
		return left, right, false
	}

	return left, right, true
}

func parseNum[T int | float64](s string) (T, error) {
	var v T
	switch p := any(&v).(type) {
	case *int:
		n, err := strconv.Atoi(s)
		if err != nil {
			return v, err
		}
		*p = n
	case *float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return v, err
		}
		*p = f
	}
	return v, nil
}

// ParseBounds parses "WIDTHxHEIGHT". Negative sizes and sizes whose pixel
// count does not fit in an int are rejected.
func ParseBounds(s string) (Bounds, bool) {
	w, h, ok := ParsePair[int](s, 'x')
	if !ok || w < 0 || h < 0 {
		return Bounds{}, false
	}
	if w > 0 && h > math.MaxInt/w {
		return Bounds{}, false
	}
	return Bounds{Width: w, Height: h}, true
}

// ParseComplex parses "RE,IM".
func ParseComplex(s string) (complex128, bool) {
	re, im, ok := ParsePair[float64](s, ',')
	if !ok {
		return 0, false
	}
	return complex(re, im), true
}
