// Package geom defines the small value types the kernel is built from:
// homogeneous tuples (points and vectors), rays and colours, together with
// the single floating-point tolerance every comparison in kerf uses.
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the tolerance for every approximate float comparison in kerf,
// from matrix equality to the parallel-ray checks in the intersection code.
const Epsilon = 1e-4

// FloatEqual reports whether a and b differ by less than Epsilon.
// Infinities of the same sign compare equal.
func FloatEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) < Epsilon
}

// Tuple is a homogeneous 4-component value. W is 1 for points and 0 for
// vectors; translation only affects tuples with W != 0.
type Tuple struct {
	X, Y, Z, W float64
}

// Point returns a tuple with W = 1.
func Point(x, y, z float64) Tuple {
	return Tuple{X: x, Y: y, Z: z, W: 1}
}

// Vector returns a tuple with W = 0.
func Vector(x, y, z float64) Tuple {
	return Tuple{X: x, Y: y, Z: z, W: 0}
}

// Origin is the point (0, 0, 0).
var Origin = Point(0, 0, 0)

// IsPoint reports whether t is a point (W = 1).
func (t Tuple) IsPoint() bool { return t.W == 1 }

// IsVector reports whether t is a vector (W = 0).
func (t Tuple) IsVector() bool { return t.W == 0 }

func (t Tuple) r3() r3.Vec { return r3.Vec{X: t.X, Y: t.Y, Z: t.Z} }

func fromR3(v r3.Vec, w float64) Tuple {
	return Tuple{X: v.X, Y: v.Y, Z: v.Z, W: w}
}

// Add returns t + u, including W.
func (t Tuple) Add(u Tuple) Tuple {
	return fromR3(r3.Add(t.r3(), u.r3()), t.W+u.W)
}

// Sub returns t - u, including W. Point minus point is a vector.
func (t Tuple) Sub(u Tuple) Tuple {
	return fromR3(r3.Sub(t.r3(), u.r3()), t.W-u.W)
}

// Neg negates all four components.
func (t Tuple) Neg() Tuple {
	return Tuple{X: -t.X, Y: -t.Y, Z: -t.Z, W: -t.W}
}

// Scale multiplies x, y and z by f. W is left alone.
func (t Tuple) Scale(f float64) Tuple {
	return fromR3(r3.Scale(f, t.r3()), t.W)
}

// Dot is the 3-component dot product.
func (t Tuple) Dot(u Tuple) float64 {
	return r3.Dot(t.r3(), u.r3())
}

// Cross returns the cross product t × u as a vector.
func (t Tuple) Cross(u Tuple) Tuple {
	return fromR3(r3.Cross(t.r3(), u.r3()), 0)
}

// Magnitude is the euclidean length of x, y, z.
func (t Tuple) Magnitude() float64 {
	return r3.Norm(t.r3())
}

// Normalize returns a unit-length copy of t with the same W.
// The zero vector normalises to NaN components.
func (t Tuple) Normalize() Tuple {
	return fromR3(r3.Unit(t.r3()), t.W)
}

// Equal compares all four components within Epsilon.
func (t Tuple) Equal(u Tuple) bool {
	return FloatEqual(t.X, u.X) && FloatEqual(t.Y, u.Y) &&
		FloatEqual(t.Z, u.Z) && FloatEqual(t.W, u.W)
}

func (t Tuple) String() string {
	if t.IsVector() {
		return fmt.Sprintf("vector(%g, %g, %g)", t.X, t.Y, t.Z)
	}
	if t.IsPoint() {
		return fmt.Sprintf("point(%g, %g, %g)", t.X, t.Y, t.Z)
	}
	return fmt.Sprintf("tuple(%g, %g, %g, %g)", t.X, t.Y, t.Z, t.W)
}
