// Package kernel defines the implicit-surface kernel used to cross-check
// and tessellate scene shapes. Solids are built in the same object space
// as the analytic shapes (unit sphere, cube spanning -1..1, unit-radius
// cylinder and double cone along y) and placed with a transform.Matrix.
package kernel

import (
	"errors"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/transform"
)

var (
	// ErrUnbounded is returned when a solid would extend to infinity and so
	// cannot be represented or meshed.
	ErrUnbounded = errors.New("kernel: solid is unbounded")

	// ErrEmpty is returned for a truncated solid whose min is not below its max.
	ErrEmpty = errors.New("kernel: solid has no volume")
)

// Solid is an opaque handle to a kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and queries implicit solids.
type Kernel interface {
	// Primitives, in object space.
	Sphere() Solid
	Cube() Solid
	Cylinder(min, max float64) (Solid, error)
	Cone(min, max float64) (Solid, error)

	// Transform places s in world space. m must be an invertible 4x4
	// affine matrix.
	Transform(s Solid, m transform.Matrix) (Solid, error)

	// Distance is the signed distance estimate from p to the surface of s:
	// negative inside, zero on the surface.
	Distance(s Solid, p geom.Tuple) float64

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
