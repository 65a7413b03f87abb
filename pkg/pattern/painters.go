package pattern

import (
	"math"

	"github.com/chazu/kerf/pkg/geom"
)

// Stripes cycles through Colors along x, one unit per band.
type Stripes struct {
	Colors []geom.Color
}

// NewStripes returns a stripe pattern. With no colours it alternates white
// and black.
func NewStripes(colors ...geom.Color) *Pattern {
	if len(colors) == 0 {
		colors = []geom.Color{geom.White, geom.Black}
	}
	return New(Stripes{Colors: append([]geom.Color(nil), colors...)})
}

func (s Stripes) ColorAt(p geom.Tuple) geom.Color {
	n := len(s.Colors)
	if n == 0 {
		return geom.Black
	}
	i := int(math.Floor(p.X)) % n
	if i < 0 {
		i += n
	}
	return s.Colors[i]
}

// Checkers alternates A and B in unit cubes.
type Checkers struct {
	A, B geom.Color
}

// NewCheckers returns a 3-D checker pattern.
func NewCheckers(a, b geom.Color) *Pattern {
	return New(Checkers{A: a, B: b})
}

func (c Checkers) ColorAt(p geom.Tuple) geom.Color {
	sum := math.Floor(p.X) + math.Floor(p.Y) + math.Floor(p.Z)
	if math.Mod(sum, 2) == 0 {
		return c.A
	}
	return c.B
}

// Coordinates paints each point with its own pattern-space coordinates,
// which makes the transform pipeline directly observable.
type Coordinates struct{}

// NewTest returns a Coordinates pattern.
func NewTest() *Pattern {
	return New(Coordinates{})
}

func (Coordinates) ColorAt(p geom.Tuple) geom.Color {
	return geom.Color{R: p.X, G: p.Y, B: p.Z}
}
