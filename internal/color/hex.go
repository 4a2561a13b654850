package color

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned when a display code is not "#rgb" or "#rrggbb".
var ErrInvalidHex = errors.New("invalid hex color")

// Hex returns the lowercase "#rrggbb" display code for c.
func (c RGB) Hex() string {
	return c.toColorful().Hex()
}

// ParseHex reads a "#rrggbb" or "#rgb" display code (the leading '#' is optional,
// case is ignored). Parsing c.Hex() always yields c again.
func ParseHex(s string) (RGB, error) {
	code := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(code, "#") {
		code = "#" + code
	}
	if (len(code) != 4 && len(code) != 7) || !isHexDigits(code[1:]) {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	cf, err := colorful.Hex(code)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	r, g, b := cf.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

func (c RGB) toColorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / MaxComponent,
		G: float64(c.G) / MaxComponent,
		B: float64(c.B) / MaxComponent,
	}
}

func isHexDigits(s string) bool {
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}
