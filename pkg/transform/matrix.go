// Package transform implements the small dense matrices used to place
// shapes and patterns in the world: determinant, cofactor inversion,
// transposition, multiplication and the affine builder functions.
//
// A Matrix is a value. Its elements live in a fixed array, so assignment
// copies the whole grid and no two matrices ever share storage.
package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/kerf/pkg/geom"
)

// MaxDim is the largest supported row or column count.
const MaxDim = 4

var (
	// ErrSingularMatrix is returned when inverting a matrix whose
	// determinant is exactly zero.
	ErrSingularMatrix = errors.New("transform: matrix is not invertible")
	// ErrNotSquare is returned by operations defined only on square matrices.
	ErrNotSquare = errors.New("transform: matrix is not square")
	// ErrDimensionMismatch is returned when operand shapes are incompatible.
	ErrDimensionMismatch = errors.New("transform: dimension mismatch")
	// ErrOutOfRange is returned for row/column indices outside the matrix.
	ErrOutOfRange = errors.New("transform: index out of range")
	// ErrNotAffine is returned where a 4x4 matrix is required.
	ErrNotAffine = errors.New("transform: matrix is not 4x4")
)

// Matrix is a rows x cols grid of float64 with 1 <= rows, cols <= MaxDim.
// The zero Matrix is 0x0 and not useful; build one with Identity, New,
// Diagonal or FromRows.
type Matrix struct {
	rows, cols int
	m          [MaxDim][MaxDim]float64
}

// New returns a rows x cols matrix of zeros.
func New(rows, cols int) (Matrix, error) {
	if rows < 1 || rows > MaxDim || cols < 1 || cols > MaxDim {
		return Matrix{}, fmt.Errorf("new %dx%d: %w", rows, cols, ErrOutOfRange)
	}
	return Matrix{rows: rows, cols: cols}, nil
}

// Identity returns the n x n identity matrix. n is clamped to [1, MaxDim].
func Identity(n int) Matrix {
	return Diagonal(n, 1)
}

// Diagonal returns an n x n matrix with v on the diagonal. n is clamped to
// [1, MaxDim].
func Diagonal(n int, v float64) Matrix {
	n = min(max(n, 1), MaxDim)
	out := Matrix{rows: n, cols: n}
	for i := 0; i < n; i++ {
		out.m[i][i] = v
	}
	return out
}

// FromRows builds a matrix from a row-major grid. Every row must have the
// same length.
func FromRows(rows [][]float64) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, fmt.Errorf("from rows: empty grid: %w", ErrOutOfRange)
	}
	out, err := New(len(rows), len(rows[0]))
	if err != nil {
		return Matrix{}, err
	}
	for r, row := range rows {
		if len(row) != out.cols {
			return Matrix{}, fmt.Errorf("from rows: row %d has %d columns, want %d: %w",
				r, len(row), out.cols, ErrDimensionMismatch)
		}
		copy(out.m[r][:], row)
	}
	return out, nil
}

// Rows returns the row count.
func (a Matrix) Rows() int { return a.rows }

// Cols returns the column count.
func (a Matrix) Cols() int { return a.cols }

func (a Matrix) valid(r, c int) bool {
	return r >= 0 && r < a.rows && c >= 0 && c < a.cols
}

// At returns the element at row r, column c. Out-of-range indices return 0.
func (a Matrix) At(r, c int) float64 {
	if !a.valid(r, c) {
		return 0
	}
	return a.m[r][c]
}

// Set replaces the element at row r, column c.
func (a *Matrix) Set(r, c int, v float64) error {
	if !a.valid(r, c) {
		return fmt.Errorf("set (%d,%d) on %dx%d: %w", r, c, a.rows, a.cols, ErrOutOfRange)
	}
	a.m[r][c] = v
	return nil
}

// Equal reports whether a and b have the same shape and every element
// differs by less than geom.Epsilon.
func (a Matrix) Equal(b Matrix) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			if !geom.FloatEqual(a.m[r][c], b.m[r][c]) {
				return false
			}
		}
	}
	return true
}

// IsSquare reports whether rows == cols.
func (a Matrix) IsSquare() bool { return a.rows == a.cols && a.rows > 0 }

// IsAffine reports whether a is 4x4, the only shape the builders produce.
func (a Matrix) IsAffine() bool { return a.rows == 4 && a.cols == 4 }

// Transpose returns the cols x rows transpose.
func (a Matrix) Transpose() Matrix {
	out := Matrix{rows: a.cols, cols: a.rows}
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			out.m[c][r] = a.m[r][c]
		}
	}
	return out
}

// Mul returns a × b. a.Cols() must equal b.Rows().
func (a Matrix) Mul(b Matrix) (Matrix, error) {
	if a.cols != b.rows || a.rows == 0 || b.cols == 0 {
		return Matrix{}, fmt.Errorf("mul %dx%d by %dx%d: %w", a.rows, a.cols, b.rows, b.cols, ErrDimensionMismatch)
	}
	out := Matrix{rows: a.rows, cols: b.cols}
	for r := 0; r < a.rows; r++ {
		for c := 0; c < b.cols; c++ {
			var sum float64
			for k := 0; k < a.cols; k++ {
				sum += a.m[r][k] * b.m[k][c]
			}
			out.m[r][c] = sum
		}
	}
	return out, nil
}

// MulTuple returns a × t, treating t as a column vector. a must be 4x4.
func (a Matrix) MulTuple(t geom.Tuple) (geom.Tuple, error) {
	if !a.IsAffine() {
		return geom.Tuple{}, fmt.Errorf("mul %dx%d by tuple: %w", a.rows, a.cols, ErrNotAffine)
	}
	return a.Apply(t), nil
}

// Apply is MulTuple for matrices already known to be 4x4; elements outside
// a smaller matrix read as zero. It satisfies geom.Transformer.
func (a Matrix) Apply(t geom.Tuple) geom.Tuple {
	v := [4]float64{t.X, t.Y, t.Z, t.W}
	var out [4]float64
	for r := 0; r < 4; r++ {
		out[r] = a.m[r][0]*v[0] + a.m[r][1]*v[1] + a.m[r][2]*v[2] + a.m[r][3]*v[3]
	}
	return geom.Tuple{X: out[0], Y: out[1], Z: out[2], W: out[3]}
}

func (a Matrix) String() string {
	var sb strings.Builder
	for r := 0; r < a.rows; r++ {
		sb.WriteString("|")
		for c := 0; c < a.cols; c++ {
			fmt.Fprintf(&sb, " %9.5f", a.m[r][c])
		}
		sb.WriteString(" |\n")
	}
	return sb.String()
}
