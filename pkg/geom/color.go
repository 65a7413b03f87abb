package geom

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is a linear RGB triple. Components are nominally in [0, 1] but are
// not clamped; colour arithmetic belongs to the shading layer.
type Color struct {
	R, G, B float64
}

var (
	White = Color{R: 1, G: 1, B: 1}
	Black = Color{}
)

// RGB is shorthand for Color{r, g, b}.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// FromRGBA converts an 8-bit colour, ignoring alpha.
func FromRGBA(c color.RGBA) Color {
	return Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// Named looks up an SVG 1.1 colour keyword such as "white" or "steelblue".
func Named(name string) (Color, bool) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return Color{}, false
	}
	return FromRGBA(c), true
}

// Equal compares the three channels within Epsilon.
func (c Color) Equal(o Color) bool {
	return FloatEqual(c.R, o.R) && FloatEqual(c.G, o.G) && FloatEqual(c.B, o.B)
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%g, %g, %g)", c.R, c.G, c.B)
}
