package mandel

import "testing"

func TestParsePair(t *testing.T) {
	if _, _, ok := ParsePair[int]("", ','); ok {
		t.Error("empty string parsed")
	}

	w, h, ok := ParsePair[int]("12x14", 'x')
	if !ok || w != 12 || h != 14 {
		t.Errorf(`ParsePair("12x14") = (%d, %d, %t)`, w, h, ok)
	}

	re, im, ok := ParsePair[float64]("1.5,2", ',')
	if !ok || re != 1.5 || im != 2.0 {
		t.Errorf(`ParsePair("1.5,2") = (%v, %v, %t)`, re, im, ok)
	}

	for _, s := range []string{"12", "12x", "x14", "12,14", "1.5x2", "12x14x16"} {
		if _, _, ok := ParsePair[int](s, 'x'); ok {
			t.Errorf("%q parsed as int pair", s)
		}
	}
}

func TestParseBounds(t *testing.T) {
	testCases := []struct {
		s    string
		want Bounds
		ok   bool
	}{
		{"1000x750", Bounds{1000, 750}, true},
		{"1x1", Bounds{1, 1}, true},
		{"-4x3", Bounds{}, false},
		{"100000000000x100000000000", Bounds{}, false},
		{"0x750", Bounds{0, 750}, true},
		{"1000,750", Bounds{}, false},
		{"", Bounds{}, false},
	}
	for _, tc := range testCases {
		got, ok := ParseBounds(tc.s)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseBounds(%q) = (%v, %t), want (%v, %t)", tc.s, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseComplex(t *testing.T) {
	testCases := []struct {
		s    string
		want complex128
		ok   bool
	}{
		{"12,13.5", complex(12, 13.5), true},
		{"-1.20,0.35", complex(-1.2, 0.35), true},
		{"-1,0.20", complex(-1, 0.2), true},
		{",-0.0625", 0, false},
		{"1.5", 0, false},
	}
	for _, tc := range testCases {
		got, ok := ParseComplex(tc.s)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseComplex(%q) = (%v, %t), want (%v, %t)", tc.s, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLookupRegion(t *testing.T) {
	vp, err := LookupRegion("seahorse")
	if err != nil {
		t.Fatal(err)
	}
	if vp != SeahorseValley {
		t.Errorf("got %v, want %v", vp, SeahorseValley)
	}
	if real(vp.UpperLeft) >= real(vp.LowerRight) || imag(vp.UpperLeft) <= imag(vp.LowerRight) {
		t.Errorf("corners of %v are not upper left / lower right", vp)
	}

	if _, err := LookupRegion("nowhere"); err == nil {
		t.Error("unknown region found")
	}
	if n := len(RegionNames()); n != len(Regions) {
		t.Errorf("RegionNames returned %d names for %d regions", n, len(Regions))
	}
}
