package shape

import (
	"math"

	"github.com/chazu/kerf/pkg/geom"
)

// Sphere is the unit sphere centred on the origin.
type Sphere struct{}

func (Sphere) LocalIntersect(r geom.Ray) []float64 {
	toRay := r.Origin.Sub(geom.Origin)
	a := r.Direction.Dot(r.Direction)
	b := 2 * r.Direction.Dot(toRay)
	c := toRay.Dot(toRay) - 1
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	return []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)}
}

func (Sphere) LocalNormal(p geom.Tuple) geom.Tuple {
	return p.Sub(geom.Origin)
}

// Plane is the infinite xz plane, y = 0.
type Plane struct{}

func (Plane) LocalIntersect(r geom.Ray) []float64 {
	if math.Abs(r.Direction.Y) < geom.Epsilon {
		return nil
	}
	return []float64{-r.Origin.Y / r.Direction.Y}
}

func (Plane) LocalNormal(geom.Tuple) geom.Tuple {
	return geom.Vector(0, 1, 0)
}

// Cube is the axis-aligned box from -1 to 1 on each axis.
type Cube struct{}

// slab returns the entry and exit times of a ray against the pair of
// planes at -1 and 1 on one axis. A direction component below Epsilon is
// treated as parallel and produces signed unbounded times.
func slab(origin, direction float64) (float64, float64) {
	minNum := -1 - origin
	maxNum := 1 - origin
	var tmin, tmax float64
	if math.Abs(direction) >= geom.Epsilon {
		tmin = minNum / direction
		tmax = maxNum / direction
	} else {
		tmin = minNum * math.MaxFloat64
		tmax = maxNum * math.MaxFloat64
	}
	if tmin > tmax {
		tmin, tmax = tmax, tmin
	}
	return tmin, tmax
}

func (Cube) LocalIntersect(r geom.Ray) []float64 {
	xmin, xmax := slab(r.Origin.X, r.Direction.X)
	ymin, ymax := slab(r.Origin.Y, r.Direction.Y)
	zmin, zmax := slab(r.Origin.Z, r.Direction.Z)

	tmin := max(xmin, ymin, zmin)
	tmax := min(xmax, ymax, zmax)
	if tmin > tmax {
		return nil
	}
	return []float64{tmin, tmax}
}

func (Cube) LocalNormal(p geom.Tuple) geom.Tuple {
	ax, ay, az := math.Abs(p.X), math.Abs(p.Y), math.Abs(p.Z)
	switch max(ax, ay, az) {
	case ax:
		return geom.Vector(p.X, 0, 0)
	case ay:
		return geom.Vector(0, p.Y, 0)
	}
	return geom.Vector(0, 0, p.Z)
}
