package transform

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/geom"
)

func affine(rows [4][4]float64) Matrix {
	return Matrix{rows: 4, cols: 4, m: rows}
}

// Translation moves points by (x, y, z). Vectors are unaffected.
func Translation(x, y, z float64) Matrix {
	return affine([4][4]float64{
		{1, 0, 0, x},
		{0, 1, 0, y},
		{0, 0, 1, z},
		{0, 0, 0, 1},
	})
}

// Scaling scales each axis independently. A negative factor reflects.
func Scaling(x, y, z float64) Matrix {
	return affine([4][4]float64{
		{x, 0, 0, 0},
		{0, y, 0, 0},
		{0, 0, z, 0},
		{0, 0, 0, 1},
	})
}

// RotationX rotates by r radians about the x axis (right-handed).
func RotationX(r float64) Matrix {
	s, c := math.Sincos(r)
	return affine([4][4]float64{
		{1, 0, 0, 0},
		{0, c, -s, 0},
		{0, s, c, 0},
		{0, 0, 0, 1},
	})
}

// RotationY rotates by r radians about the y axis (right-handed).
func RotationY(r float64) Matrix {
	s, c := math.Sincos(r)
	return affine([4][4]float64{
		{c, 0, s, 0},
		{0, 1, 0, 0},
		{-s, 0, c, 0},
		{0, 0, 0, 1},
	})
}

// RotationZ rotates by r radians about the z axis (right-handed).
func RotationZ(r float64) Matrix {
	s, c := math.Sincos(r)
	return affine([4][4]float64{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	})
}

// Shearing moves each component in proportion to the other two. xy is the
// amount x moves in proportion to y, and so on.
func Shearing(xy, xz, yx, yz, zx, zy float64) Matrix {
	return affine([4][4]float64{
		{1, xy, xz, 0},
		{yx, 1, yz, 0},
		{zx, zy, 1, 0},
		{0, 0, 0, 1},
	})
}

// Chain composes transforms in the order they are listed, so the first one
// is applied first: Chain(a, b, c) == c × b × a. With no arguments it
// returns the identity.
func Chain(ms ...Matrix) (Matrix, error) {
	out := Identity(4)
	for i, m := range ms {
		if !m.IsAffine() {
			return Matrix{}, fmt.Errorf("chain argument %d is %dx%d: %w", i, m.rows, m.cols, ErrNotAffine)
		}
		var err error
		if out, err = m.Mul(out); err != nil {
			return Matrix{}, err
		}
	}
	return out, nil
}

// ViewTransform orients the world as seen by an eye at from looking toward
// to, with up giving the approximate vertical. Degenerate input (to equal to
// from, or up parallel to the view direction) yields NaN elements.
func ViewTransform(from, to, up geom.Tuple) Matrix {
	forward := to.Sub(from).Normalize()
	left := forward.Cross(up.Normalize())
	trueUp := left.Cross(forward)
	orientation := affine([4][4]float64{
		{left.X, left.Y, left.Z, 0},
		{trueUp.X, trueUp.Y, trueUp.Z, 0},
		{-forward.X, -forward.Y, -forward.Z, 0},
		{0, 0, 0, 1},
	})
	out, _ := orientation.Mul(Translation(-from.X, -from.Y, -from.Z))
	return out
}
