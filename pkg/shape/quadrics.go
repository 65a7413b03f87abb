package shape

import (
	"math"
	"slices"

	"github.com/chazu/kerf/pkg/geom"
)

// Cylinder is a unit-radius cylinder around the y axis, truncated to
// Min < y < Max. Closed adds flat caps at both ends.
type Cylinder struct {
	Min, Max float64
	Closed   bool
}

// NewCylinderGeometry returns an infinite open cylinder.
func NewCylinderGeometry() *Cylinder {
	return &Cylinder{Min: math.Inf(-1), Max: math.Inf(1)}
}

// Cone is the double cone x² + z² = y² around the y axis, truncated and
// capped like Cylinder. The cap at height h has radius |h|.
type Cone struct {
	Min, Max float64
	Closed   bool
}

// NewConeGeometry returns an infinite open double cone.
func NewConeGeometry() *Cone {
	return &Cone{Min: math.Inf(-1), Max: math.Inf(1)}
}

// within reports whether y lies strictly between lo and hi. Points exactly
// on a bound belong to the cap, not the wall.
func within(y, lo, hi float64) bool {
	return lo < y && y < hi
}

// wallRoots keeps the times whose height lies inside the bounds.
func wallRoots(r geom.Ray, ts []float64, lo, hi float64) []float64 {
	out := make([]float64, 0, len(ts)+2)
	for _, t := range ts {
		if within(r.Origin.Y+t*r.Direction.Y, lo, hi) {
			out = append(out, t)
		}
	}
	return out
}

// capRoots appends the times at which r crosses the y = lo and y = hi
// planes inside the given cap radii. Nothing is added for a ray parallel
// to the caps.
func capRoots(xs []float64, r geom.Ray, lo, hi, rlo, rhi float64) []float64 {
	if math.Abs(r.Direction.Y) < geom.Epsilon {
		return xs
	}
	for _, c := range [2]struct{ y, radius float64 }{{lo, rlo}, {hi, rhi}} {
		t := (c.y - r.Origin.Y) / r.Direction.Y
		x := r.Origin.X + t*r.Direction.X
		z := r.Origin.Z + t*r.Direction.Z
		if x*x+z*z <= c.radius*c.radius {
			xs = append(xs, t)
		}
	}
	return xs
}

// capNormal returns the cap normal when p lies on one of the caps.
func capNormal(p geom.Tuple, lo, hi float64, closed bool) (geom.Tuple, bool) {
	if !closed {
		return geom.Tuple{}, false
	}
	if math.Abs(p.Y-hi) < geom.Epsilon {
		return geom.Vector(0, 1, 0), true
	}
	if math.Abs(p.Y-lo) < geom.Epsilon {
		return geom.Vector(0, -1, 0), true
	}
	return geom.Tuple{}, false
}

func (c *Cylinder) LocalIntersect(r geom.Ray) []float64 {
	d, o := r.Direction, r.Origin
	var ts []float64
	if a := d.X*d.X + d.Z*d.Z; math.Abs(a) >= geom.Epsilon {
		b := 2*o.X*d.X + 2*o.Z*d.Z
		cc := o.X*o.X + o.Z*o.Z - 1
		disc := b*b - 4*a*cc
		if disc < 0 {
			return nil
		}
		sq := math.Sqrt(disc)
		t0, t1 := (-b-sq)/(2*a), (-b+sq)/(2*a)
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		ts = []float64{t0, t1}
	}
	xs := wallRoots(r, ts, c.Min, c.Max)
	if c.Closed {
		xs = capRoots(xs, r, c.Min, c.Max, 1, 1)
	}
	return xs
}

func (c *Cylinder) LocalNormal(p geom.Tuple) geom.Tuple {
	if n, ok := capNormal(p, c.Min, c.Max, c.Closed); ok {
		return n
	}
	return geom.Vector(p.X, 0, p.Z)
}

func (c *Cone) LocalIntersect(r geom.Ray) []float64 {
	d, o := r.Direction, r.Origin
	a := d.X*d.X - d.Y*d.Y + d.Z*d.Z
	b := 2 * (o.X*d.X - o.Y*d.Y + o.Z*d.Z)
	cc := o.X*o.X - o.Y*o.Y + o.Z*o.Z

	var ts []float64
	switch {
	case math.Abs(a) < geom.Epsilon && math.Abs(b) < geom.Epsilon:
		// Ray runs along the surface or misses it entirely.
	case math.Abs(a) < geom.Epsilon:
		// Parallel to one half of the cone: a single crossing.
		ts = []float64{-cc / (2 * b)}
	default:
		disc := b*b - 4*a*cc
		if disc < 0 && disc > -geom.Epsilon {
			disc = 0
		}
		if disc >= 0 {
			sq := math.Sqrt(disc)
			ts = []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)}
			slices.Sort(ts)
		}
	}
	xs := wallRoots(r, ts, c.Min, c.Max)
	if c.Closed {
		xs = capRoots(xs, r, c.Min, c.Max, math.Abs(c.Min), math.Abs(c.Max))
	}
	return xs
}

func (c *Cone) LocalNormal(p geom.Tuple) geom.Tuple {
	if n, ok := capNormal(p, c.Min, c.Max, c.Closed); ok {
		return n
	}
	y := math.Sqrt(p.X*p.X + p.Z*p.Z)
	switch {
	case p.Y > 0:
		y = -y
	case p.Y == 0:
		y = 0
	}
	return geom.Vector(p.X, y, p.Z)
}
