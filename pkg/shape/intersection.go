package shape

import (
	"cmp"
	"slices"
)

// NoHit is the index Hit returns when no intersection is visible.
const NoHit = -1

// Intersection records that a ray crossed Object at parameter T.
type Intersection struct {
	T      float64
	Object *Shape
}

// Intersections collects records in the order given. It does not sort.
func Intersections(xs ...Intersection) []Intersection {
	return slices.Clone(xs)
}

// Hit returns the index of the record with the smallest non-negative T, or
// NoHit. The first of several equal times wins. NaN times never count.
func Hit(xs []Intersection) int {
	idx := NoHit
	for i, x := range xs {
		if !(x.T >= 0) {
			continue
		}
		if idx == NoHit || x.T < xs[idx].T {
			idx = i
		}
	}
	return idx
}

// CompareIntersections orders records by ascending T.
func CompareIntersections(a, b Intersection) int {
	return cmp.Compare(a.T, b.T)
}

// Sort orders xs in place by ascending T, keeping equal times in their
// original order.
func Sort(xs []Intersection) {
	slices.SortStableFunc(xs, CompareIntersections)
}
