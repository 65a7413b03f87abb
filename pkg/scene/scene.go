// Package scene holds the shapes a ray is cast against. Shapes live in an
// append-only arena and are addressed by Handle; a Handle stays valid for
// the lifetime of the scene. Intersection records still point at the shape
// itself, so callers can go from a hit straight to its material.
package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/shape"
	"github.com/chazu/kerf/pkg/transform"
)

var (
	// ErrDuplicateName is returned when a name is registered twice.
	ErrDuplicateName = errors.New("scene: duplicate shape name")
	// ErrAlreadyNamed is returned when a named shape is added again under
	// a different name.
	ErrAlreadyNamed = errors.New("scene: shape already named")
	// ErrUnknownHandle is returned for handles the scene did not issue.
	ErrUnknownHandle = errors.New("scene: unknown handle")
)

// Handle addresses a shape in a Scene.
type Handle int

// NoHandle is the zero-value sentinel for "no shape".
const NoHandle Handle = -1

func (h Handle) String() string {
	if h == NoHandle {
		return "#none"
	}
	return fmt.Sprintf("#%d", int(h))
}

// Scene is an arena of shapes plus a camera view transform.
type Scene struct {
	shapes  []*shape.Shape
	names   map[string]Handle
	labels  map[Handle]string
	handles map[*shape.Shape]Handle
	view    transform.Matrix
}

// New returns an empty scene with an identity view.
func New() *Scene {
	return &Scene{
		names:   make(map[string]Handle),
		labels:  make(map[Handle]string),
		handles: make(map[*shape.Shape]Handle),
		view:    transform.Identity(4),
	}
}

// Add appends s and returns its handle. Adding the same shape twice
// returns the original handle.
func (sc *Scene) Add(s *shape.Shape) Handle {
	if h, ok := sc.handles[s]; ok {
		return h
	}
	h := Handle(len(sc.shapes))
	sc.shapes = append(sc.shapes, s)
	sc.handles[s] = h
	return h
}

// AddNamed appends s under name. An empty name behaves like Add. A shape
// carries at most one name: re-adding it under the same name returns its
// handle, under another name fails with ErrAlreadyNamed.
func (sc *Scene) AddNamed(name string, s *shape.Shape) (Handle, error) {
	if name == "" {
		return sc.Add(s), nil
	}
	if h, ok := sc.handles[s]; ok {
		switch cur := sc.labels[h]; cur {
		case name:
			return h, nil
		case "":
		default:
			return NoHandle, fmt.Errorf("add %q: %s is %q: %w", name, h, cur, ErrAlreadyNamed)
		}
	}
	if _, exists := sc.names[name]; exists {
		return NoHandle, fmt.Errorf("add %q: %w", name, ErrDuplicateName)
	}
	h := sc.Add(s)
	sc.names[name] = h
	sc.labels[h] = name
	return h, nil
}

// Get returns the shape for h.
func (sc *Scene) Get(h Handle) (*shape.Shape, error) {
	if h < 0 || int(h) >= len(sc.shapes) {
		return nil, fmt.Errorf("get %s: %w", h, ErrUnknownHandle)
	}
	return sc.shapes[h], nil
}

// Lookup returns the handle registered under name.
func (sc *Scene) Lookup(name string) (Handle, bool) {
	h, ok := sc.names[name]
	return h, ok
}

// HandleOf returns the handle of a shape added to this scene.
func (sc *Scene) HandleOf(s *shape.Shape) (Handle, bool) {
	h, ok := sc.handles[s]
	return h, ok
}

// NameOf returns the name registered for h, or "".
func (sc *Scene) NameOf(h Handle) string {
	return sc.labels[h]
}

// Len returns the number of shapes.
func (sc *Scene) Len() int { return len(sc.shapes) }

// Shapes returns the shapes in handle order. The slice is a copy.
func (sc *Scene) Shapes() []*shape.Shape {
	return slices.Clone(sc.shapes)
}

// Names returns the registered names, sorted.
func (sc *Scene) Names() []string {
	names := lo.Keys(sc.names)
	slices.Sort(names)
	return names
}

// View returns the camera view transform.
func (sc *Scene) View() transform.Matrix { return sc.view }

// SetView replaces the camera view transform. m must be 4x4.
func (sc *Scene) SetView(m transform.Matrix) error {
	if !m.IsAffine() {
		return fmt.Errorf("scene view is %dx%d: %w", m.Rows(), m.Cols(), transform.ErrNotAffine)
	}
	sc.view = m
	return nil
}

// Intersect casts r against every shape and concatenates the records in
// handle order. The result is not sorted.
func (sc *Scene) Intersect(r geom.Ray) ([]shape.Intersection, error) {
	var xs []shape.Intersection
	for h, s := range sc.shapes {
		got, err := s.Intersect(r)
		if err != nil {
			return nil, fmt.Errorf("shape %s: %w", Handle(h), err)
		}
		xs = append(xs, got...)
	}
	return xs, nil
}

// Hit returns the nearest visible intersection of r with the scene.
func (sc *Scene) Hit(r geom.Ray) (shape.Intersection, bool, error) {
	xs, err := sc.Intersect(r)
	if err != nil {
		return shape.Intersection{}, false, err
	}
	i := shape.Hit(xs)
	if i == shape.NoHit {
		return shape.Intersection{}, false, nil
	}
	return xs[i], true, nil
}
