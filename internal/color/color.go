// internal/color/color.go
//
// RGB value type for the color match game.
// Defines:
//   - RGB: an immutable 8-bit-per-channel color.
//   - New: validating constructor used at input boundaries.
//   - ComponentError / ErrInvalidComponent: rejection of out-of-range channels.

package color

import (
	"errors"
	"fmt"
)

// MaxComponent is the largest value a single channel may hold.
const MaxComponent = 255

// ErrInvalidComponent is matched (errors.Is) by every channel validation failure.
var ErrInvalidComponent = errors.New("invalid color component")

// RGB is a color in flat 8-bit RGB space.
// Values are compared by exact field equality (==).
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ComponentError reports which channel was rejected and why.
type ComponentError struct {
	Channel string // "r", "g" or "b"
	Value   int
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("%s: channel %s=%d outside [0,%d]", ErrInvalidComponent, e.Channel, e.Value, MaxComponent)
}

// Unwrap lets errors.Is(err, ErrInvalidComponent) succeed.
func (e *ComponentError) Unwrap() error { return ErrInvalidComponent }

// New validates three integer channels and builds an RGB.
// The first offending channel (in r, g, b order) is reported.
func New(r, g, b int) (RGB, error) {
	for _, ch := range []struct {
		name string
		v    int
	}{{"r", r}, {"g", g}, {"b", b}} {
		if ch.v < 0 || ch.v > MaxComponent {
			return RGB{}, &ComponentError{Channel: ch.name, Value: ch.v}
		}
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// MustNew is New for constants known to be valid; it panics otherwise.
func MustNew(r, g, b int) RGB {
	c, err := New(r, g, b)
	if err != nil {
		panic(err)
	}
	return c
}

// String renders the channels as "(r, g, b)".
func (c RGB) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}
