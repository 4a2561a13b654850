package color

import (
	"errors"
	"testing"
)

func TestNewValidatesChannels(t *testing.T) {
	cases := []struct {
		name    string
		r, g, b int
		channel string
	}{
		{"ok low", 0, 0, 0, ""},
		{"ok high", 255, 255, 255, ""},
		{"negative red", -1, 0, 0, "r"},
		{"green too big", 0, 256, 0, "g"},
		{"blue too big", 10, 20, 1000, "b"},
		{"first bad wins", 300, -5, 0, "r"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.r, tc.g, tc.b)
			if tc.channel == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if int(c.R) != tc.r || int(c.G) != tc.g || int(c.B) != tc.b {
					t.Errorf("got %v", c)
				}
				return
			}
			if !errors.Is(err, ErrInvalidComponent) {
				t.Fatalf("expected ErrInvalidComponent, got %v", err)
			}
			var ce *ComponentError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ComponentError, got %T", err)
			}
			if ce.Channel != tc.channel {
				t.Errorf("channel = %q, want %q", ce.Channel, tc.channel)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	c := MustNew(255, 0, 128)
	if got := c.Hex(); got != "#ff0080" {
		t.Fatalf("Hex() = %q, want #ff0080", got)
	}
	back, err := ParseHex("#ff0080")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if back != c {
		t.Errorf("round trip = %v, want %v", back, c)
	}
}

func TestHexRoundTripAllChannelValues(t *testing.T) {
	for v := 0; v <= MaxComponent; v++ {
		c := MustNew(v, MaxComponent-v, v/2)
		back, err := ParseHex(c.Hex())
		if err != nil {
			t.Fatalf("ParseHex(%q): %v", c.Hex(), err)
		}
		if back != c {
			t.Fatalf("round trip of %v gave %v via %q", c, back, c.Hex())
		}
	}
}

func TestParseHexForms(t *testing.T) {
	cases := []struct {
		in   string
		want RGB
	}{
		{"#000000", RGB{}},
		{"FFFFFF", RGB{255, 255, 255}},
		{" #FF0080 ", RGB{255, 0, 128}},
		{"#f08", RGB{255, 0, 136}},
	}
	for _, tc := range cases {
		got, err := ParseHex(tc.in)
		if err != nil {
			t.Errorf("ParseHex(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseHexRejects(t *testing.T) {
	for _, in := range []string{"", "#", "#12345", "#1234567", "#gg0000", "red", "#+f0000"} {
		if _, err := ParseHex(in); !errors.Is(err, ErrInvalidHex) {
			t.Errorf("ParseHex(%q) err = %v, want ErrInvalidHex", in, err)
		}
	}
}

func TestRandomIsReproducibleWithSeed(t *testing.T) {
	a := NewRandomSeeded(1, 2)
	b := NewRandomSeeded(1, 2)
	for i := 0; i < 50; i++ {
		if x, y := a.Generate(), b.Generate(); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
	}
}

func TestRandomCoversRange(t *testing.T) {
	g := NewRandom()
	var sawLow, sawHigh bool
	distinct := map[RGB]struct{}{}
	for i := 0; i < 5000; i++ {
		c := g.Generate()
		distinct[c] = struct{}{}
		if c.R < 16 {
			sawLow = true
		}
		if c.R > 239 {
			sawHigh = true
		}
	}
	if !sawLow || !sawHigh {
		t.Errorf("red channel did not span the range (low=%v high=%v)", sawLow, sawHigh)
	}
	if len(distinct) < 4900 {
		t.Errorf("only %d distinct colors in 5000 draws", len(distinct))
	}
}
