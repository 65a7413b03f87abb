// Package shape implements the primitive surfaces kerf can intersect: the
// sphere, plane, cube, cylinder and cone. Each primitive is defined once,
// in its own object space, and a Shape carries the transform that places
// it in the world together with the material it is painted with.
//
// Rays are carried into object space with the inverse of the shape's
// transform, intersected there, and the resulting times are valid in world
// space unchanged. Normals take the opposite trip through the
// inverse-transpose.
package shape

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/material"
	"github.com/chazu/kerf/pkg/transform"
)

// Geometry is a primitive surface in its own object space.
type Geometry interface {
	// LocalIntersect returns the ray parameters at which r crosses the
	// surface. Order is primitive-specific.
	LocalIntersect(r geom.Ray) []float64
	// LocalNormal returns the (unnormalised) surface normal at p.
	LocalNormal(p geom.Tuple) geom.Tuple
}

// Kind names a primitive.
type Kind string

const (
	KindSphere   Kind = "sphere"
	KindPlane    Kind = "plane"
	KindCube     Kind = "cube"
	KindCylinder Kind = "cylinder"
	KindCone     Kind = "cone"
)

// Shape is a primitive placed in the world. Shapes are compared by
// identity: two shapes with identical fields are still distinct.
type Shape struct {
	geometry  Geometry
	transform transform.Matrix
	inverse   transform.Matrix
	normalM   transform.Matrix
	invErr    error
	material  material.Material
}

// New wraps g with an identity transform and the default material.
func New(g Geometry) *Shape {
	return &Shape{
		geometry:  g,
		transform: transform.Identity(4),
		inverse:   transform.Identity(4),
		normalM:   transform.Identity(4),
		material:  material.Default(),
	}
}

// NewSphere returns a unit sphere at the origin.
func NewSphere() *Shape { return New(Sphere{}) }

// NewGlassSphere returns a unit sphere with a glass material.
func NewGlassSphere() *Shape {
	s := NewSphere()
	s.SetMaterial(material.Glass())
	return s
}

// NewPlane returns the xz plane.
func NewPlane() *Shape { return New(Plane{}) }

// NewCube returns the axis-aligned cube spanning -1..1 on every axis.
func NewCube() *Shape { return New(Cube{}) }

// NewCylinder returns an infinite, open unit-radius cylinder around y.
func NewCylinder() *Shape { return New(NewCylinderGeometry()) }

// NewCone returns an infinite, open double cone around y with its apex at
// the origin.
func NewCone() *Shape { return New(NewConeGeometry()) }

// Geometry returns the primitive.
func (s *Shape) Geometry() Geometry { return s.geometry }

// Kind reports which primitive s is.
func (s *Shape) Kind() Kind {
	switch s.geometry.(type) {
	case Sphere, *Sphere:
		return KindSphere
	case Plane, *Plane:
		return KindPlane
	case Cube, *Cube:
		return KindCube
	case *Cylinder:
		return KindCylinder
	case *Cone:
		return KindCone
	}
	return Kind(fmt.Sprintf("%T", s.geometry))
}

// Bounded reports whether the primitive occupies a finite region.
func (s *Shape) Bounded() bool {
	switch g := s.geometry.(type) {
	case Plane, *Plane:
		return false
	case *Cylinder:
		return !math.IsInf(g.Min, 0) && !math.IsInf(g.Max, 0)
	case *Cone:
		return !math.IsInf(g.Min, 0) && !math.IsInf(g.Max, 0)
	}
	return true
}

// Transform returns the object-to-world transform.
func (s *Shape) Transform() transform.Matrix { return s.transform }

// SetTransform replaces the object-to-world transform and caches its
// inverse. m must be 4x4. A singular m is stored; queries on the shape
// then fail with transform.ErrSingularMatrix until it is replaced.
func (s *Shape) SetTransform(m transform.Matrix) error {
	if !m.IsAffine() {
		return fmt.Errorf("shape transform is %dx%d: %w", m.Rows(), m.Cols(), transform.ErrNotAffine)
	}
	s.transform = m
	s.inverse, s.invErr = m.Inverse()
	if s.invErr == nil {
		s.normalM = s.inverse.Transpose()
	}
	return nil
}

// Err returns the error from inverting the current transform, if any.
func (s *Shape) Err() error { return s.invErr }

// Material returns the shape's material.
func (s *Shape) Material() material.Material { return s.material }

// SetMaterial replaces the material.
func (s *Shape) SetMaterial(m material.Material) { s.material = m }

// WorldToObject maps a world-space point into object space.
func (s *Shape) WorldToObject(p geom.Tuple) (geom.Tuple, error) {
	if s.invErr != nil {
		return geom.Tuple{}, fmt.Errorf("shape %s: %w", s.Kind(), s.invErr)
	}
	return s.inverse.Apply(p), nil
}

// Intersect returns every crossing of the world-space ray r with s, tagged
// with s. A miss is an empty slice.
func (s *Shape) Intersect(r geom.Ray) ([]Intersection, error) {
	if s.invErr != nil {
		return nil, fmt.Errorf("intersect %s: %w", s.Kind(), s.invErr)
	}
	ts := s.geometry.LocalIntersect(r.Transform(s.inverse))
	return lo.Map(ts, func(t float64, _ int) Intersection {
		return Intersection{T: t, Object: s}
	}), nil
}

// NormalAt returns the unit world-space normal at a world-space point on
// the surface. Where the primitive has no defined normal (the cone apex)
// the zero vector is returned.
func (s *Shape) NormalAt(p geom.Tuple) (geom.Tuple, error) {
	local, err := s.WorldToObject(p)
	if err != nil {
		return geom.Tuple{}, err
	}
	n := s.normalM.Apply(s.geometry.LocalNormal(local))
	n.W = 0
	if n.Magnitude() == 0 {
		return geom.Vector(0, 0, 0), nil
	}
	return n.Normalize(), nil
}

// ColorAt resolves the material colour at a world-space point on s.
func (s *Shape) ColorAt(p geom.Tuple) (geom.Color, error) {
	return s.material.ColorAt(s, p)
}
