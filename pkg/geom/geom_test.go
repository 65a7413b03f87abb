package geom

import (
	"math"
	"testing"
)

func TestPointAndVectorTags(t *testing.T) {
	p := Point(4, -4, 3)
	if !p.IsPoint() || p.IsVector() {
		t.Errorf("Point(4,-4,3) = %v, want W=1", p)
	}
	v := Vector(4, -4, 3)
	if !v.IsVector() || v.IsPoint() {
		t.Errorf("Vector(4,-4,3) = %v, want W=0", v)
	}
}

func TestTupleArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Tuple
		want Tuple
	}{
		{"point plus vector", Point(3, -2, 5).Add(Vector(-2, 3, 1)), Point(1, 1, 6)},
		{"point minus point", Point(3, 2, 1).Sub(Point(5, 6, 7)), Vector(-2, -4, -6)},
		{"point minus vector", Point(3, 2, 1).Sub(Vector(5, 6, 7)), Point(-2, -4, -6)},
		{"negate", Tuple{1, -2, 3, -4}.Neg(), Tuple{-1, 2, -3, 4}},
		{"scale", Vector(1, -2, 3).Scale(3.5), Vector(3.5, -7, 10.5)},
		{"cross", Vector(1, 2, 3).Cross(Vector(2, 3, 4)), Vector(-1, 2, -1)},
		{"cross reversed", Vector(2, 3, 4).Cross(Vector(1, 2, 3)), Vector(1, -2, 1)},
		{"normalize axis", Vector(4, 0, 0).Normalize(), Vector(1, 0, 0)},
		{"normalize", Vector(1, 2, 3).Normalize(), Vector(1/math.Sqrt(14), 2/math.Sqrt(14), 3/math.Sqrt(14))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equal(tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestDotAndMagnitude(t *testing.T) {
	if got := Vector(1, 2, 3).Dot(Vector(2, 3, 4)); got != 20 {
		t.Errorf("Dot = %f, want 20", got)
	}
	if got := Vector(-1, -2, -3).Magnitude(); !FloatEqual(got, math.Sqrt(14)) {
		t.Errorf("Magnitude = %f, want sqrt(14)", got)
	}
	if got := Vector(1, 2, 3).Normalize().Magnitude(); !FloatEqual(got, 1) {
		t.Errorf("normalized magnitude = %f, want 1", got)
	}
}

func TestFloatEqual(t *testing.T) {
	if !FloatEqual(1, 1+Epsilon/2) {
		t.Error("values within Epsilon should compare equal")
	}
	if FloatEqual(1, 1+2*Epsilon) {
		t.Error("values beyond Epsilon should not compare equal")
	}
	if !FloatEqual(math.Inf(1), math.Inf(1)) {
		t.Error("+Inf should equal +Inf")
	}
	if FloatEqual(math.Inf(1), math.Inf(-1)) {
		t.Error("+Inf should not equal -Inf")
	}
}

func TestRayPosition(t *testing.T) {
	r := NewRay(Point(2, 3, 4), Vector(1, 0, 0))
	tests := []struct {
		t    float64
		want Tuple
	}{
		{0, Point(2, 3, 4)},
		{1, Point(3, 3, 4)},
		{-1, Point(1, 3, 4)},
		{2.5, Point(4.5, 3, 4)},
	}
	for _, tt := range tests {
		if got := r.Position(tt.t); !got.Equal(tt.want) {
			t.Errorf("Position(%g) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

type shift struct{ dx float64 }

func (s shift) Apply(t Tuple) Tuple { return Tuple{t.X + s.dx*t.W, t.Y, t.Z, t.W} }

func TestRayTransform(t *testing.T) {
	r := NewRay(Point(1, 2, 3), Vector(0, 1, 0))
	got := r.Transform(shift{dx: 3})
	if !got.Origin.Equal(Point(4, 2, 3)) {
		t.Errorf("origin = %v, want point(4, 2, 3)", got.Origin)
	}
	if !got.Direction.Equal(Vector(0, 1, 0)) {
		t.Errorf("direction = %v, want vector(0, 1, 0)", got.Direction)
	}
}

func TestNamedColors(t *testing.T) {
	tests := []struct {
		name string
		want Color
		ok   bool
	}{
		{"white", White, true},
		{"Black", Black, true},
		{"red", RGB(1, 0, 0), true},
		{"no-such-colour", Color{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Named(tt.name)
			if ok != tt.ok {
				t.Fatalf("Named(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("Named(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
