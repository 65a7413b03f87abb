// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/transform"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution along
// the longest axis of a solid's bounding box.
const DefaultMeshCells = 200

// zToY turns sdfx's z-axis solids of revolution onto the y axis.
var zToY = sdf.RotateX(-math.Pi / 2)

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithCells sets the marching cubes resolution. Values below 1 are ignored.
func WithCells(n int) Option {
	return func(k *SdfxKernel) {
		if n > 0 {
			k.cells = n
		}
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{cells: DefaultMeshCells}
	for _, o := range opts {
		o(k)
	}
	return k
}

// Cells reports the marching cubes resolution.
func (k *SdfxKernel) Cells() int { return k.cells }

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Sphere is the unit sphere at the origin.
func (k *SdfxKernel) Sphere() kernel.Solid {
	s, err := sdf.Sphere3D(1)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Sphere3D: %v", err))
	}
	return wrap(s)
}

// Cube spans -1..1 on every axis.
func (k *SdfxKernel) Cube() kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: 2, Y: 2, Z: 2}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return wrap(s)
}

// Cylinder is the unit-radius cylinder around the y axis between lo and hi.
// The solid is always capped.
func (k *SdfxKernel) Cylinder(lo, hi float64) (kernel.Solid, error) {
	if err := checkRange("cylinder", lo, hi); err != nil {
		return nil, err
	}
	s, err := sdf.Cylinder3D(hi-lo, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	return wrap(onY(s, lo, hi)), nil
}

// Cone is the double cone x^2 + z^2 = y^2 between lo and hi. A range that
// spans the apex is built as the union of the two nappes.
func (k *SdfxKernel) Cone(lo, hi float64) (kernel.Solid, error) {
	if err := checkRange("cone", lo, hi); err != nil {
		return nil, err
	}
	if lo < 0 && hi > 0 {
		below, err := frustum(lo, 0)
		if err != nil {
			return nil, err
		}
		above, err := frustum(0, hi)
		if err != nil {
			return nil, err
		}
		return wrap(sdf.Union3D(below, above)), nil
	}
	s, err := frustum(lo, hi)
	if err != nil {
		return nil, err
	}
	return wrap(s), nil
}

func checkRange(what string, lo, hi float64) error {
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return fmt.Errorf("%s [%g, %g]: %w", what, lo, hi, kernel.ErrUnbounded)
	}
	if !(lo < hi) {
		return fmt.Errorf("%s [%g, %g]: %w", what, lo, hi, kernel.ErrEmpty)
	}
	return nil
}

// frustum is one nappe of the unit double cone between lo and hi, which
// must not straddle zero.
func frustum(lo, hi float64) (sdf.SDF3, error) {
	s, err := sdf.Cone3D(hi-lo, math.Abs(lo), math.Abs(hi), 0)
	if err != nil {
		return nil, fmt.Errorf("cone [%g, %g]: %w", lo, hi, err)
	}
	return onY(s, lo, hi), nil
}

// onY moves a z-centred solid of revolution onto the y axis, spanning lo..hi.
func onY(s sdf.SDF3, lo, hi float64) sdf.SDF3 {
	m := sdf.Translate3d(v3.Vec{Y: (lo + hi) / 2}).Mul(zToY)
	return sdf.Transform3D(s, m)
}

// Transform places s in world space under m.
func (k *SdfxKernel) Transform(s kernel.Solid, m transform.Matrix) (kernel.Solid, error) {
	a, err := newAffine(unwrap(s), m)
	if err != nil {
		return nil, err
	}
	return wrap(a), nil
}

// Distance evaluates the signed distance estimate of s at p.
func (k *SdfxKernel) Distance(s kernel.Solid, p geom.Tuple) float64 {
	return unwrap(s).Evaluate(toVec(p))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Face normal, shared by the three vertices.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

func toVec(t geom.Tuple) v3.Vec { return v3.Vec{X: t.X, Y: t.Y, Z: t.Z} }

// ---------------------------------------------------------------------------
// Arbitrary affine placement
// ---------------------------------------------------------------------------

// affineSDF3 evaluates an inner SDF3 through an arbitrary affine matrix.
// sdf.M44 can only be built from sdfx's own translate/rotate/scale
// helpers, so shears and composed scene transforms go through here.
type affineSDF3 struct {
	inner sdf.SDF3
	inv   transform.Matrix
	// scale is the smallest singular value of the linear part. Multiplying
	// object-space distances by it keeps the estimate a lower bound.
	scale float64
	bb    sdf.Box3
}

func newAffine(s sdf.SDF3, m transform.Matrix) (*affineSDF3, error) {
	g, err := m.ToMat4()
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	inv, err := m.Inverse()
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	return &affineSDF3{
		inner: s,
		inv:   inv,
		scale: minSingularValue(m),
		bb:    transformBox(s.BoundingBox(), g),
	}, nil
}

func (a *affineSDF3) Evaluate(p v3.Vec) float64 {
	q := a.inv.Apply(geom.Point(p.X, p.Y, p.Z))
	return a.inner.Evaluate(toVec(q)) * a.scale
}

func (a *affineSDF3) BoundingBox() sdf.Box3 { return a.bb }

// minSingularValue of the upper-left 3x3 block of m.
func minSingularValue(m transform.Matrix) float64 {
	lin := mat.NewDense(3, 3, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			lin.Set(r, c, m.At(r, c))
		}
	}
	var svd mat.SVD
	if !svd.Factorize(lin, mat.SVDNone) {
		return 1
	}
	vals := svd.Values(nil)
	return vals[len(vals)-1]
}

// transformBox maps the eight corners of bb through m and returns their
// axis-aligned hull.
func transformBox(bb sdf.Box3, m mgl64.Mat4) sdf.Box3 {
	lo := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := 0; i < 8; i++ {
		c := mgl64.Vec4{bb.Min.X, bb.Min.Y, bb.Min.Z, 1}
		if i&1 != 0 {
			c[0] = bb.Max.X
		}
		if i&2 != 0 {
			c[1] = bb.Max.Y
		}
		if i&4 != 0 {
			c[2] = bb.Max.Z
		}
		w := m.Mul4x1(c)
		lo = v3.Vec{X: math.Min(lo.X, w.X()), Y: math.Min(lo.Y, w.Y()), Z: math.Min(lo.Z, w.Z())}
		hi = v3.Vec{X: math.Max(hi.X, w.X()), Y: math.Max(hi.Y, w.Y()), Z: math.Max(hi.Z, w.Z())}
	}
	return sdf.Box3{Min: lo, Max: hi}
}
