package geom

// Ray is an origin point and a direction vector. The direction is not
// required to be unit length; intersection times are in units of it.
type Ray struct {
	Origin    Tuple
	Direction Tuple
}

// NewRay creates a ray.
func NewRay(origin, direction Tuple) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// Position returns the point at parameter t along the ray.
func (r Ray) Position(t float64) Tuple {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Transformer maps a homogeneous tuple through an affine transform.
// transform.Matrix satisfies it for 4x4 matrices.
type Transformer interface {
	Apply(t Tuple) Tuple
}

// Transform returns the ray with both origin and direction mapped by m.
func (r Ray) Transform(m Transformer) Ray {
	return Ray{Origin: m.Apply(r.Origin), Direction: m.Apply(r.Direction)}
}
