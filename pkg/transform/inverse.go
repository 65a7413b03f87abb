package transform

import "fmt"

// Submatrix returns a copy of the matrix with the given row and column
// removed. Only square matrices of size 2 or more have submatrices.
func (a Matrix) Submatrix(row, col int) (Matrix, error) {
	if !a.IsSquare() {
		return Matrix{}, fmt.Errorf("submatrix of %dx%d: %w", a.rows, a.cols, ErrNotSquare)
	}
	if a.rows < 2 || !a.valid(row, col) {
		return Matrix{}, fmt.Errorf("submatrix (%d,%d) of %dx%d: %w", row, col, a.rows, a.cols, ErrOutOfRange)
	}
	out := Matrix{rows: a.rows - 1, cols: a.cols - 1}
	for r, or := 0, 0; r < a.rows; r++ {
		if r == row {
			continue
		}
		for c, oc := 0, 0; c < a.cols; c++ {
			if c == col {
				continue
			}
			out.m[or][oc] = a.m[r][c]
			oc++
		}
		or++
	}
	return out, nil
}

// Determinant returns the determinant of a square matrix: the element itself
// for 1x1, ad - bc for 2x2, and cofactor expansion along row 0 above that.
func (a Matrix) Determinant() (float64, error) {
	if !a.IsSquare() {
		return 0, fmt.Errorf("determinant of %dx%d: %w", a.rows, a.cols, ErrNotSquare)
	}
	switch a.rows {
	case 1:
		return a.m[0][0], nil
	case 2:
		return a.m[0][0]*a.m[1][1] - a.m[0][1]*a.m[1][0], nil
	}
	var det float64
	for c := 0; c < a.cols; c++ {
		cof, err := a.Cofactor(0, c)
		if err != nil {
			return 0, err
		}
		det += a.m[0][c] * cof
	}
	return det, nil
}

// Minor is the determinant of Submatrix(row, col).
func (a Matrix) Minor(row, col int) (float64, error) {
	sub, err := a.Submatrix(row, col)
	if err != nil {
		return 0, err
	}
	return sub.Determinant()
}

// Cofactor is the minor, negated when row+col is odd.
func (a Matrix) Cofactor(row, col int) (float64, error) {
	minor, err := a.Minor(row, col)
	if err != nil {
		return 0, err
	}
	if (row+col)%2 == 1 {
		return -minor, nil
	}
	return minor, nil
}

// IsInvertible reports whether the determinant is non-zero. The comparison
// is exact: a determinant of 1e-300 still counts as invertible.
func (a Matrix) IsInvertible() bool {
	det, err := a.Determinant()
	return err == nil && det != 0
}

// Inverse returns the inverse via the adjugate: element [c][r] of the result
// is cofactor(r, c) / determinant. Returns ErrSingularMatrix when the
// determinant is exactly zero.
func (a Matrix) Inverse() (Matrix, error) {
	det, err := a.Determinant()
	if err != nil {
		return Matrix{}, err
	}
	if det == 0 {
		return Matrix{}, ErrSingularMatrix
	}
	if a.rows == 1 {
		return Matrix{rows: 1, cols: 1, m: [MaxDim][MaxDim]float64{{1 / det}}}, nil
	}
	out := Matrix{rows: a.rows, cols: a.cols}
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			cof, err := a.Cofactor(r, c)
			if err != nil {
				return Matrix{}, err
			}
			out.m[c][r] = cof / det
		}
	}
	return out, nil
}
