// Package material holds the surface constants a shading model reads from
// a shape. kerf does not shade; it only carries these values and resolves a
// surface colour through an optional pattern.
package material

import (
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/pattern"
)

// Material describes how a surface responds to light.
type Material struct {
	Color           geom.Color
	Ambient         float64
	Diffuse         float64
	Specular        float64
	Shininess       float64
	Reflective      float64
	Transparency    float64
	RefractiveIndex float64
	Pattern         *pattern.Pattern
}

// Default returns a white, opaque, non-reflective material.
func Default() Material {
	return Material{
		Color:           geom.White,
		Ambient:         0.1,
		Diffuse:         0.9,
		Specular:        0.9,
		Shininess:       200,
		RefractiveIndex: 1,
	}
}

// Glass is Default with full transparency and a refractive index of 1.5.
func Glass() Material {
	m := Default()
	m.Transparency = 1
	m.RefractiveIndex = 1.5
	return m
}

// Equal compares the scalar fields within geom.Epsilon. Patterns are equal
// only when they are the same pattern.
func (m Material) Equal(o Material) bool {
	return m.Color.Equal(o.Color) &&
		geom.FloatEqual(m.Ambient, o.Ambient) &&
		geom.FloatEqual(m.Diffuse, o.Diffuse) &&
		geom.FloatEqual(m.Specular, o.Specular) &&
		geom.FloatEqual(m.Shininess, o.Shininess) &&
		geom.FloatEqual(m.Reflective, o.Reflective) &&
		geom.FloatEqual(m.Transparency, o.Transparency) &&
		geom.FloatEqual(m.RefractiveIndex, o.RefractiveIndex) &&
		m.Pattern == o.Pattern
}

// ColorAt returns the surface colour at worldPoint on obj: the pattern's
// colour when one is set, otherwise the flat Color.
func (m Material) ColorAt(obj pattern.Object, worldPoint geom.Tuple) (geom.Color, error) {
	if m.Pattern == nil {
		return m.Color, nil
	}
	return m.Pattern.Apply(obj, worldPoint)
}
