package kernel

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/transform"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshBounds(t *testing.T) {
	if _, _, ok := (&Mesh{}).Bounds(); ok {
		t.Error("empty mesh should report no bounds")
	}
	m := &Mesh{Vertices: []float32{1, -2, 3, -4, 5, 0, 2, 2, -6}}
	min, max, ok := m.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if min != [3]float32{-4, -2, -6} || max != [3]float32{2, 5, 3} {
		t.Errorf("bounds = %v..%v", min, max)
	}
}

// --- Interface check with a stub kernel ---

// stubSolid is an axis-aligned box.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel proves the interface is satisfiable with bounding boxes only.
type stubKernel struct{}

func unitBox(r float64) *stubSolid {
	return &stubSolid{minBB: [3]float64{-r, -r, -r}, maxBB: [3]float64{r, r, r}}
}

func (k *stubKernel) Sphere() Solid { return unitBox(1) }
func (k *stubKernel) Cube() Solid   { return unitBox(1) }

func (k *stubKernel) Cylinder(lo, hi float64) (Solid, error) {
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, ErrUnbounded
	}
	return &stubSolid{minBB: [3]float64{-1, lo, -1}, maxBB: [3]float64{1, hi, 1}}, nil
}

func (k *stubKernel) Cone(lo, hi float64) (Solid, error) {
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, ErrUnbounded
	}
	r := math.Max(math.Abs(lo), math.Abs(hi))
	return &stubSolid{minBB: [3]float64{-r, lo, -r}, maxBB: [3]float64{r, hi, r}}, nil
}

func (k *stubKernel) Transform(s Solid, m transform.Matrix) (Solid, error) {
	if !m.IsAffine() {
		return nil, transform.ErrNotAffine
	}
	b := s.(*stubSolid)
	lo := m.Apply(geom.Point(b.minBB[0], b.minBB[1], b.minBB[2]))
	hi := m.Apply(geom.Point(b.maxBB[0], b.maxBB[1], b.maxBB[2]))
	return &stubSolid{minBB: [3]float64{lo.X, lo.Y, lo.Z}, maxBB: [3]float64{hi.X, hi.Y, hi.Z}}, nil
}

func (k *stubKernel) Distance(s Solid, p geom.Tuple) float64 {
	b := s.(*stubSolid)
	d := math.Inf(-1)
	for i, v := range [3]float64{p.X, p.Y, p.Z} {
		d = math.Max(d, math.Max(b.minBB[i]-v, v-b.maxBB[i]))
	}
	return d
}

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelTransform(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Transform(k.Cube(), transform.Translation(10, 20, 30))
	if err != nil {
		t.Fatal(err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{9, 19, 29} || max != [3]float64{11, 21, 31} {
		t.Errorf("bounds = %v..%v", min, max)
	}
	if d := k.Distance(s, geom.Point(11, 20, 30)); d != 0 {
		t.Errorf("distance on face = %g", d)
	}
	if _, err := k.Transform(s, transform.Identity(3)); !errors.Is(err, transform.ErrNotAffine) {
		t.Errorf("expected ErrNotAffine, got %v", err)
	}
}

func TestStubKernelUnbounded(t *testing.T) {
	var k Kernel = &stubKernel{}
	if _, err := k.Cylinder(math.Inf(-1), 1); !errors.Is(err, ErrUnbounded) {
		t.Errorf("expected ErrUnbounded, got %v", err)
	}
	if _, err := k.Cone(0, math.Inf(1)); !errors.Is(err, ErrUnbounded) {
		t.Errorf("expected ErrUnbounded, got %v", err)
	}
	m, err := k.ToMesh(k.Sphere())
	if err != nil || m == nil || !m.IsEmpty() {
		t.Errorf("stub ToMesh = %v, %v", m, err)
	}
}
