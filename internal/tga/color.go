package tga

import (
	"fmt"
	"strings"
)

// Color is an 8-bit RGBA value in logical channel order.
type Color struct {
	R, G, B, A uint8
}

// Named presets. These are plain values; copying one never aliases another.
var (
	White  = Color{255, 255, 255, 255}
	Black  = Color{0, 0, 0, 255}
	Red    = Color{255, 0, 0, 255}
	Green  = Color{0, 255, 0, 255}
	Blue   = Color{0, 0, 255, 255}
	Yellow = Color{255, 255, 0, 255}
	Purple = Color{255, 0, 255, 255}
	Gray   = Color{128, 128, 128, 255}
	Clear  = Color{0, 0, 0, 0}
)

var named = map[string]Color{
	"white":  White,
	"black":  Black,
	"red":    Red,
	"green":  Green,
	"blue":   Blue,
	"yellow": Yellow,
	"purple": Purple,
	"gray":   Gray,
	"clear":  Clear,
}

// Named looks up a preset by case-insensitive name.
func Named(name string) (Color, bool) {
	c, ok := named[strings.ToLower(name)]
	return c, ok
}

// Raw returns the channels in on-disk order (B, G, R, A).
func (c Color) Raw() [4]byte {
	return [4]byte{c.B, c.G, c.R, c.A}
}

// Scale multiplies R, G and B by intensity; alpha is kept.
// The product is converted with a truncating cast and is not clamped, so
// intensities outside [0,1] give unspecified (but non-panicking) results.
func (c Color) Scale(intensity float32) Color {
	return Color{
		R: uint8(float32(c.R) * intensity),
		G: uint8(float32(c.G) * intensity),
		B: uint8(float32(c.B) * intensity),
		A: c.A,
	}
}

// ScaleAll is Scale applied to all four channels, alpha included.
func (c Color) ScaleAll(intensity float32) Color {
	s := c.Scale(intensity)
	s.A = uint8(float32(c.A) * intensity)
	return s
}

func (c Color) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", c.R, c.G, c.B, c.A)
}
