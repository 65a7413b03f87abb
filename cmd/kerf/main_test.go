package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTripleSet(t *testing.T) {
	tests := []struct {
		in      string
		want    triple
		wantErr bool
	}{
		{"0,0,-5", triple{0, 0, -5}, false},
		{" 1.5, 2 ,3e2", triple{1.5, 2, 300}, false},
		{"1,2", triple{}, true},
		{"1,two,3", triple{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got triple
			err := got.Set(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Set(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func writeScene(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.kerf")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunHit(t *testing.T) {
	path := writeScene(t, `
(sphere :name "ball" :material (material :color (rgb 1 0 0)))
(plane :name "floor" :transform (translate 0 -1 0))
`)
	var out bytes.Buffer
	err := run(&out, options{
		scene:     path,
		origin:    triple{0, 0, -5},
		direction: triple{0, 0, 1},
		mesh:      true,
		cells:     16,
	})
	if err != nil {
		t.Fatal(err)
	}
	got := out.String()
	var lo, hi [3]float64
	if i := strings.Index(got, "bounds "); i < 0 {
		t.Errorf("no mesh bounds in output:\n%s", got)
	} else if _, err := fmt.Sscanf(got[i:], "bounds (%f, %f, %f)..(%f, %f, %f)", &lo[0], &lo[1], &lo[2], &hi[0], &hi[1], &hi[2]); err != nil {
		t.Errorf("parse bounds: %v", err)
	} else {
		for a := 0; a < 3; a++ {
			if math.Abs(lo[a]+1) > 0.2 || math.Abs(hi[a]-1) > 0.2 {
				t.Errorf("axis %d bounds %g..%g, expected about -1..1", a, lo[a], hi[a])
			}
		}
	}
	for _, want := range []string{
		"hit ball (sphere) at t=4.00000",
		"point  point(0, 0, -1)",
		"normal vector(0, 0, -1)",
		"residual",
		"mesh ball:",
		"bounds (",
		"skipped floor (plane): unbounded",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunMissAndUnboundedResidual(t *testing.T) {
	path := writeScene(t, `(plane :name "floor")`)

	var out bytes.Buffer
	if err := run(&out, options{scene: path, origin: triple{0, 1, 0}, direction: triple{1, 0, 0}, cells: 8}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "miss") {
		t.Errorf("expected a miss, got:\n%s", out.String())
	}

	out.Reset()
	if err := run(&out, options{scene: path, origin: triple{0, 1, 0}, direction: triple{0, -1, 0}, cells: 8}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "residual n/a") {
		t.Errorf("expected no residual for a plane, got:\n%s", out.String())
	}
}

func TestRunSceneErrors(t *testing.T) {
	path := writeScene(t, `(cylinder :min 2 :max 1)`)
	var out bytes.Buffer
	if err := run(&out, options{scene: path, direction: triple{0, 0, 1}}); err == nil {
		t.Fatal("expected an error for an invalid scene")
	}
	if !strings.Contains(out.String(), "exceeds max") {
		t.Errorf("expected validation message, got:\n%s", out.String())
	}

	if err := run(&out, options{scene: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected an error for a missing file")
	}
}
