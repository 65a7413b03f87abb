package material

import (
	"testing"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/pattern"
)

type identity struct{}

func (identity) WorldToObject(p geom.Tuple) (geom.Tuple, error) { return p, nil }

func TestDefault(t *testing.T) {
	m := Default()
	tests := []struct {
		name      string
		got, want float64
	}{
		{"ambient", m.Ambient, 0.1},
		{"diffuse", m.Diffuse, 0.9},
		{"specular", m.Specular, 0.9},
		{"shininess", m.Shininess, 200},
		{"reflective", m.Reflective, 0},
		{"transparency", m.Transparency, 0},
		{"refractive index", m.RefractiveIndex, 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %g, want %g", tt.name, tt.got, tt.want)
		}
	}
	if !m.Color.Equal(geom.White) {
		t.Errorf("color = %v, want white", m.Color)
	}
	if m.Pattern != nil {
		t.Error("default material has a pattern")
	}
}

func TestGlass(t *testing.T) {
	g := Glass()
	if g.Transparency != 1 || g.RefractiveIndex != 1.5 {
		t.Errorf("glass = %+v", g)
	}
	if g.Equal(Default()) {
		t.Error("glass should differ from default")
	}
}

func TestEqual(t *testing.T) {
	a, b := Default(), Default()
	if !a.Equal(b) {
		t.Error("two defaults differ")
	}
	b.Pattern = pattern.NewStripes()
	if a.Equal(b) {
		t.Error("pattern ignored by Equal")
	}
	a.Pattern = b.Pattern
	if !a.Equal(b) {
		t.Error("shared pattern should compare equal")
	}
}

func TestColorAt(t *testing.T) {
	m := Default()
	m.Color = geom.RGB(0.2, 0.4, 0.6)
	got, err := m.ColorAt(identity{}, geom.Point(3, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(m.Color) {
		t.Errorf("flat colour = %v, want %v", got, m.Color)
	}

	m.Pattern = pattern.NewStripes()
	for x, want := range map[float64]geom.Color{0.9: geom.White, 1.1: geom.Black} {
		got, err := m.ColorAt(identity{}, geom.Point(x, 0, 0))
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(want) {
			t.Errorf("x=%g: got %v, want %v", x, got, want)
		}
	}
}
