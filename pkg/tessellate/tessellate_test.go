package tessellate_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"github.com/chazu/kerf/pkg/scene"
	"github.com/chazu/kerf/pkg/shape"
	"github.com/chazu/kerf/pkg/tessellate"
	"github.com/chazu/kerf/pkg/transform"
)

// newKernel returns a coarse sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.New(sdfx.WithCells(24))
}

func mustAdd(t *testing.T, sc *scene.Scene, name string, s *shape.Shape) scene.Handle {
	t.Helper()
	h, err := sc.AddNamed(name, s)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func truncated(g shape.Geometry, lo, hi float64) *shape.Shape {
	switch g := g.(type) {
	case *shape.Cylinder:
		g.Min, g.Max, g.Closed = lo, hi, true
	case *shape.Cone:
		g.Min, g.Max, g.Closed = lo, hi, true
	}
	return shape.New(g)
}

func TestNilScene(t *testing.T) {
	res, err := tessellate.Tessellate(nil, newKernel())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Meshes) != 0 || len(res.Skipped) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestSingleSphere(t *testing.T) {
	sc := scene.New()
	mustAdd(t, sc, "ball", shape.NewSphere())

	res, err := tessellate.Tessellate(sc, newKernel())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(res.Meshes))
	}
	m := res.Meshes[0]
	if m.Name != "ball" {
		t.Errorf("mesh name = %q, want ball", m.Name)
	}
	if m.IsEmpty() || m.TriangleCount() == 0 {
		t.Error("mesh has no triangles")
	}
}

func TestPointerGeometry(t *testing.T) {
	sc := scene.New()
	mustAdd(t, sc, "ball", shape.New(&shape.Sphere{}))
	mustAdd(t, sc, "box", shape.New(&shape.Cube{}))

	res, err := tessellate.Tessellate(sc, newKernel())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Meshes) != 2 || len(res.Skipped) != 0 {
		t.Fatalf("meshes = %d, skipped = %v", len(res.Meshes), res.Skipped)
	}
	for _, m := range res.Meshes {
		if m.TriangleCount() == 0 {
			t.Errorf("%s has no triangles", m.Name)
		}
	}
}

func TestUnnamedShapeUsesHandle(t *testing.T) {
	sc := scene.New()
	mustAdd(t, sc, "ball", shape.NewSphere())
	sc.Add(shape.NewCube())

	res, err := tessellate.Tessellate(sc, newKernel())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(res.Meshes))
	}
	if res.Meshes[1].Name != "#1" {
		t.Errorf("unnamed mesh name = %q, want #1", res.Meshes[1].Name)
	}
}

func TestTransformApplied(t *testing.T) {
	sc := scene.New()
	s := shape.NewSphere()
	if err := s.SetTransform(transform.Translation(10, 0, 0)); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, sc, "moved", s)

	res, err := tessellate.Tessellate(sc, newKernel())
	if err != nil {
		t.Fatal(err)
	}
	min, max, ok := res.Meshes[0].Bounds()
	if !ok {
		t.Fatal("empty mesh")
	}
	if math.Abs(float64(min[0])-9) > 0.2 || math.Abs(float64(max[0])-11) > 0.2 {
		t.Errorf("x bounds %g..%g, expected about 9..11", min[0], max[0])
	}
}

func TestSkipsUnmeshableShapes(t *testing.T) {
	sc := scene.New()
	mustAdd(t, sc, "floor", shape.NewPlane())
	mustAdd(t, sc, "pipe", shape.NewCylinder())
	flat := shape.NewSphere()
	if err := flat.SetTransform(transform.Scaling(1, 0, 1)); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, sc, "flat", flat)
	mustAdd(t, sc, "inverted", truncated(shape.NewCylinderGeometry(), 2, 1))
	mustAdd(t, sc, "funnel", truncated(shape.NewConeGeometry(), -1, 1))

	res, err := tessellate.Tessellate(sc, newKernel())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Meshes) != 1 || res.Meshes[0].Name != "funnel" {
		t.Fatalf("meshes = %v", res.Meshes)
	}

	reasons := map[string]string{}
	for _, sk := range res.Skipped {
		reasons[sk.Name] = sk.Reason
	}
	tests := []struct {
		name, reason string
	}{
		{"floor", "unbounded"},
		{"pipe", "unbounded"},
		{"flat", "not invertible"},
		{"inverted", "no volume"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := reasons[tt.name]
			if !ok {
				t.Fatalf("%s not listed as skipped", tt.name)
			}
			if !strings.Contains(got, tt.reason) {
				t.Errorf("reason = %q, want containing %q", got, tt.reason)
			}
		})
	}
}

func TestSceneNotMutated(t *testing.T) {
	sc := scene.New()
	s := shape.NewCube()
	m := transform.Shearing(1, 0, 0, 0, 0, 0)
	if err := s.SetTransform(m); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, sc, "box", s)

	if _, err := tessellate.Tessellate(sc, newKernel()); err != nil {
		t.Fatal(err)
	}
	if sc.Len() != 1 || !s.Transform().Equal(m) {
		t.Error("tessellation modified the scene")
	}
}

func TestSolidResidual(t *testing.T) {
	k := newKernel()
	s := truncated(shape.NewCylinderGeometry(), 0, 3)
	if err := s.SetTransform(transform.RotationZ(math.Pi / 2)); err != nil {
		t.Fatal(err)
	}
	solid, err := tessellate.Solid(k, s)
	if err != nil {
		t.Fatal(err)
	}
	r := geom.NewRay(geom.Point(-1.5, 5, 0), geom.Vector(0, -1, 0))
	xs, err := s.Intersect(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(xs) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(xs))
	}
	for _, x := range xs {
		if d := k.Distance(solid, r.Position(x.T)); math.Abs(d) > 1e-6 {
			t.Errorf("residual at t=%g is %g", x.T, d)
		}
	}

	if _, err := tessellate.Solid(k, shape.NewPlane()); !errors.Is(err, kernel.ErrUnbounded) {
		t.Errorf("plane: err = %v, want ErrUnbounded", err)
	}
}
