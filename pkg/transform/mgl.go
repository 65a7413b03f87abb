package transform

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/kerf/pkg/geom"
)

// ErrZeroAxis is returned by Rotation for an axis of zero length.
var ErrZeroAxis = errors.New("transform: rotation axis has zero length")

// FromMat4 converts a column-major mathgl matrix.
func FromMat4(m mgl64.Mat4) Matrix {
	out := Matrix{rows: 4, cols: 4}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out.m[r][c] = m.At(r, c)
		}
	}
	return out
}

// ToMat4 converts a 4x4 Matrix to mathgl's layout.
func (a Matrix) ToMat4() (mgl64.Mat4, error) {
	if !a.IsAffine() {
		return mgl64.Mat4{}, fmt.Errorf("to mat4 from %dx%d: %w", a.rows, a.cols, ErrNotAffine)
	}
	var out mgl64.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out.Set(r, c, a.m[r][c])
		}
	}
	return out, nil
}

// Rotation turns r radians about axis, counter-clockwise when looking down
// the axis toward the origin. Only the x, y and z components of axis are
// read.
func Rotation(axis geom.Tuple, r float64) (Matrix, error) {
	v := mgl64.Vec3{axis.X, axis.Y, axis.Z}
	if v.Len() == 0 {
		return Matrix{}, fmt.Errorf("rotation about %s: %w", axis, ErrZeroAxis)
	}
	return FromMat4(mgl64.HomogRotate3D(r, v.Normalize())), nil
}
