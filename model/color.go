package model

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Scale is the number of fractional bits carried by Fixed values.
const Scale = 16

const fixedMax = int32(255) << Scale

// RGB is one pixel as three 8-bit channel intensities.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

var (
	Off   = RGB{}
	White = RGB{255, 255, 255}
)

// Hex builds an RGB from a 0xRRGGBB value.
func Hex(h uint32) RGB {
	return RGB{R: uint8(h >> 16), G: uint8(h >> 8), B: uint8(h)}
}

// Add sums two colors channel by channel, saturating at 255.
func (c RGB) Add(o RGB) RGB {
	return RGB{R: addSat(c.R, o.R), G: addSat(c.G, o.G), B: addSat(c.B, o.B)}
}

// Max keeps the brightest value of each channel independently.
func (c RGB) Max(o RGB) RGB {
	if o.R > c.R {
		c.R = o.R
	}
	if o.G > c.G {
		c.G = o.G
	}
	if o.B > c.B {
		c.B = o.B
	}
	return c
}

func (c RGB) IsOff() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

func (c RGB) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

func addSat(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

// Fixed is an RGB value scaled by Scale bits for incremental interpolation.
type Fixed struct {
	R int32
	G int32
	B int32
}

func ToFixed(c RGB) Fixed {
	return Fixed{R: int32(c.R) << Scale, G: int32(c.G) << Scale, B: int32(c.B) << Scale}
}

func (f Fixed) Add(d Fixed) Fixed {
	return Fixed{R: f.R + d.R, G: f.G + d.G, B: f.B + d.B}
}

// RGB rounds each channel back to 8 bits, clamped to [0, 255].
func (f Fixed) RGB() RGB {
	return RGB{R: fromFixed(f.R), G: fromFixed(f.G), B: fromFixed(f.B)}
}

func fromFixed(v int32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= fixedMax {
		return 255
	}
	return uint8((v + 1<<(Scale-1)) >> Scale)
}

func clampFixed(v int32) int32 {
	if v < 0 {
		return 0
	}
	if v > fixedMax {
		return fixedMax
	}
	return v
}

// StepSize returns the per-step delta that walks start to end in steps
// values, endpoints included. steps <= 1 has nothing to interpolate and
// yields a zero delta.
func StepSize(start, end RGB, steps int) Fixed {
	if steps <= 1 {
		return Fixed{}
	}
	n := int32(steps - 1)
	return Fixed{
		R: ((int32(end.R) - int32(start.R)) << Scale) / n,
		G: ((int32(end.G) - int32(start.G)) << Scale) / n,
		B: ((int32(end.B) - int32(start.B)) << Scale) / n,
	}
}

// Named looks up a CSS/SVG color name, ignoring case.
func Named(name string) (RGB, bool) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return Off, false
	}
	return RGB{R: c.R, G: c.G, B: c.B}, true
}

// ParseColor accepts either a color name ("red") or a hex triplet ("#ff0000").
func ParseColor(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if c, ok := Named(s); ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	cc, err := colorful.Hex(s)
	if err != nil {
		return Off, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := cc.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}
