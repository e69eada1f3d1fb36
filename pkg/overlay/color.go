package overlay

import (
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"
)

// Color is an RGB color carried as a #rrggbb hex string, constructed from
// either a named palette entry or an explicit hex value. The zero value is
// not valid; use ParseColor or one of the named constants.
type Color struct {
	hex string
}

var (
	Black = Color{"#000000"}
	White = Color{"#ffffff"}
	Blue  = Color{"#0000ff"}
	Red   = Color{"#ff0000"}
	Green = Color{"#008000"}
	Gray  = Color{"#808080"}
)

var namedColors = map[string]Color{
	"black": Black,
	"white": White,
	"blue":  Blue,
	"red":   Red,
	"green": Green,
	"gray":  Gray,
	"grey":  Gray,
}

var hexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ParseColor resolves a named or #rrggbb hex color string. Unknown values
// degrade to the given fallback with ok=false so the caller can record a
// warning instead of aborting.
func ParseColor(s string, fallback Color) (c Color, ok bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return fallback, false
	}
	if c, found := namedColors[s]; found {
		return c, true
	}
	if hexPattern.MatchString(s) {
		return Color{s}, true
	}
	return fallback, false
}

// Hex returns the color as a #rrggbb string, defaulting to black for the
// zero value.
func (c Color) Hex() string {
	if c.hex == "" {
		return Black.hex
	}
	return c.hex
}

// IsZero reports whether the color was left unset.
func (c Color) IsZero() bool {
	return c.hex == ""
}

func (c Color) String() string {
	return c.Hex()
}

// RGBA returns the color as an image/color value for raster rendering.
func (c Color) RGBA() color.RGBA {
	hex := c.Hex()
	r, _ := strconv.ParseUint(hex[1:3], 16, 8)
	g, _ := strconv.ParseUint(hex[3:5], 16, 8)
	b, _ := strconv.ParseUint(hex[5:7], 16, 8)
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}

// MarshalText implements encoding.TextMarshaler for config and JSON use.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Invalid values are an
// error here; lenient degradation belongs to Spec.Normalize, which parses
// the raw strings itself.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, ok := ParseColor(string(text), Black)
	if !ok {
		return fmt.Errorf("overlay: invalid color %q", text)
	}
	*c = parsed
	return nil
}
