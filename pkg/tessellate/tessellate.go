// Package tessellate turns the bounded shapes of a scene into triangle
// meshes using a geometry kernel. One mesh is produced per shape.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/chazu/kerf/internal/logging"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/scene"
	"github.com/chazu/kerf/pkg/shape"
)

// Skipped records a shape that produced no mesh.
type Skipped struct {
	Handle scene.Handle
	Name   string
	Kind   shape.Kind
	Reason string
}

// Result is the output of Tessellate.
type Result struct {
	Meshes  []*kernel.Mesh
	Skipped []Skipped
}

// part pairs a scene shape with its handle.
type part struct {
	h scene.Handle
	s *shape.Shape
}

// Tessellate produces one mesh per bounded shape in handle order. Planes,
// untruncated cylinders and cones, and shapes with a singular transform are
// listed in Result.Skipped. The scene is never mutated.
func Tessellate(sc *scene.Scene, k kernel.Kernel) (Result, error) {
	var res Result
	if sc == nil {
		return res, nil
	}
	log := logging.Logger()

	parts := lo.Map(sc.Shapes(), func(s *shape.Shape, i int) part {
		return part{h: scene.Handle(i), s: s}
	})
	meshable := func(p part, _ int) bool {
		return p.s.Bounded() && p.s.Err() == nil
	}
	skip := func(p part, reason string) {
		sk := Skipped{Handle: p.h, Name: sc.NameOf(p.h), Kind: p.s.Kind(), Reason: reason}
		log.Warn("tessellate: skipping shape", "handle", p.h.String(), "name", sk.Name, "kind", sk.Kind, "reason", reason)
		res.Skipped = append(res.Skipped, sk)
	}

	for _, p := range lo.Reject(parts, meshable) {
		reason := "unbounded"
		if err := p.s.Err(); err != nil {
			reason = err.Error()
		}
		skip(p, reason)
	}

	for _, p := range lo.Filter(parts, meshable) {
		solid, err := solidFor(k, p.s)
		if errors.Is(err, kernel.ErrEmpty) {
			// Zero-height truncations have no volume to mesh.
			skip(p, err.Error())
			continue
		}
		if err != nil {
			return Result{}, fmt.Errorf("tessellate: shape %s: %w", p.h, err)
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return Result{}, fmt.Errorf("tessellate: ToMesh failed for shape %s: %w", p.h, err)
		}

		// Prefer the scene name, fall back to the handle.
		if name := sc.NameOf(p.h); name != "" {
			mesh.Name = name
		} else {
			mesh.Name = p.h.String()
		}
		log.Debug("tessellate: meshed shape", "name", mesh.Name, "kind", p.s.Kind(), "triangles", mesh.TriangleCount())
		res.Meshes = append(res.Meshes, mesh)
	}
	return res, nil
}

// Solid builds the world-space kernel solid for s.
func Solid(k kernel.Kernel, s *shape.Shape) (kernel.Solid, error) {
	if !s.Bounded() {
		return nil, fmt.Errorf("%s: %w", s.Kind(), kernel.ErrUnbounded)
	}
	return solidFor(k, s)
}

func solidFor(k kernel.Kernel, s *shape.Shape) (kernel.Solid, error) {
	var (
		obj kernel.Solid
		err error
	)
	switch g := s.Geometry().(type) {
	case shape.Sphere, *shape.Sphere:
		obj = k.Sphere()
	case shape.Cube, *shape.Cube:
		obj = k.Cube()
	case *shape.Cylinder:
		obj, err = k.Cylinder(g.Min, g.Max)
	case *shape.Cone:
		obj, err = k.Cone(g.Min, g.Max)
	default:
		return nil, fmt.Errorf("%s: %w", s.Kind(), kernel.ErrUnbounded)
	}
	if err != nil {
		return nil, err
	}
	return k.Transform(obj, s.Transform())
}
