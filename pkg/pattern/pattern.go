// Package pattern colours surfaces as a function of position. A Pattern
// carries its own transform, independent of the shape it is painted on:
// a world point is first taken into the shape's object space, then into
// pattern space, and only there handed to the painter.
package pattern

import (
	"fmt"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/transform"
)

// Object is the part of a shape a pattern needs: the mapping from world
// space into the shape's object space.
type Object interface {
	WorldToObject(p geom.Tuple) (geom.Tuple, error)
}

// Painter computes a colour from a point already in pattern space.
type Painter interface {
	ColorAt(p geom.Tuple) geom.Color
}

// Pattern pairs a Painter with a pattern-space transform.
type Pattern struct {
	painter   Painter
	transform transform.Matrix
	inverse   transform.Matrix
	invErr    error
}

// New wraps painter with an identity transform.
func New(painter Painter) *Pattern {
	return &Pattern{
		painter:   painter,
		transform: transform.Identity(4),
		inverse:   transform.Identity(4),
	}
}

// Painter returns the wrapped painter.
func (p *Pattern) Painter() Painter { return p.painter }

// Transform returns the pattern-to-object transform.
func (p *Pattern) Transform() transform.Matrix { return p.transform }

// SetTransform replaces the transform. m must be 4x4. A singular m is
// accepted; Apply reports the error when it is next used.
func (p *Pattern) SetTransform(m transform.Matrix) error {
	if !m.IsAffine() {
		return fmt.Errorf("pattern transform is %dx%d: %w", m.Rows(), m.Cols(), transform.ErrNotAffine)
	}
	p.transform = m
	p.inverse, p.invErr = m.Inverse()
	return nil
}

// Local evaluates the painter at a point already in pattern space.
func (p *Pattern) Local(point geom.Tuple) geom.Color {
	return p.painter.ColorAt(point)
}

// Apply returns the colour at worldPoint on obj.
func (p *Pattern) Apply(obj Object, worldPoint geom.Tuple) (geom.Color, error) {
	objPoint, err := obj.WorldToObject(worldPoint)
	if err != nil {
		return geom.Color{}, err
	}
	if p.invErr != nil {
		return geom.Color{}, fmt.Errorf("pattern: %w", p.invErr)
	}
	return p.Local(p.inverse.Apply(objPoint)), nil
}

// Err reports whether the current transform could not be inverted.
func (p *Pattern) Err() error { return p.invErr }
