package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/material"
	"github.com/chazu/kerf/pkg/pattern"
	"github.com/chazu/kerf/pkg/scene"
	"github.com/chazu/kerf/pkg/shape"
	"github.com/chazu/kerf/pkg/transform"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites scene source into something zygomys can read.
//
//   - (sphere :refractive-index 1.5) passes the keyword as the string
//     "__kw_refractive-index", so keyword arguments never collide with
//     scene variables.
//   - glass-sphere becomes glass_sphere, since zygomys reads a bare hyphen
//     as subtraction. (- 1 2) and -3 are left alone.
//   - ;; comments become // comments.
//
// String literals pass through untouched.
func preprocessSource(src string) string {
	out := make([]byte, 0, len(src)+len(src)/4)
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"' || c == '`':
			end := literalEnd(src, i)
			out = append(out, src[i:end]...)
			i = end
		case c == ';':
			body := i
			for body < len(src) && src[body] == ';' {
				body++
			}
			end := lineEnd(src, body)
			out = append(out, "//"...)
			out = append(out, src[body:end]...)
			i = end
		case strings.HasPrefix(src[i:], ":="):
			out = append(out, ":="...)
			i += 2
		case c == ':' && i+1 < len(src) && isLetter(src[i+1]):
			end := keywordEnd(src, i+1)
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, src[i+1:end]...)
			out = append(out, '"')
			i = end
		case c == '-' && joinsWords(src, i):
			out = append(out, '_')
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// literalEnd returns the index just past the string literal opening at
// src[i], or len(src) if it is never closed. Backslash escapes apply to
// double-quoted strings only.
func literalEnd(src string, i int) int {
	q := src[i]
	for j := i + 1; j < len(src); j++ {
		switch {
		case src[j] == q:
			return j + 1
		case q == '"' && src[j] == '\\':
			j++
		}
	}
	return len(src)
}

// lineEnd returns the index of the next newline at or after i.
func lineEnd(src string, i int) int {
	if n := strings.IndexByte(src[i:], '\n'); n >= 0 {
		return i + n
	}
	return len(src)
}

func keywordEnd(src string, i int) int {
	for i < len(src) && isKWChar(src[i]) {
		i++
	}
	return i
}

// joinsWords reports whether the hyphen at src[i] sits inside a name.
func joinsWords(src string, i int) bool {
	return i > 0 && i+1 < len(src) && isIdentChar(src[i-1]) && isLetter(src[i+1])
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// shapeOpts are the keyword arguments every shape builtin accepts.
type shapeOpts struct {
	name      string
	transform *transform.Matrix
	material  *material.Material
}

func parseShapeOpts(fn string, pa kwArgs) (shapeOpts, error) {
	var o shapeOpts
	if v, ok := pa.kw["name"]; ok {
		s, err := toString(v)
		if err != nil {
			return o, fmt.Errorf("%s: name: %w", fn, err)
		}
		o.name = s
	}
	if v, ok := pa.kw["transform"]; ok {
		m, err := toMatrix(v)
		if err != nil {
			return o, fmt.Errorf("%s: transform: %w", fn, err)
		}
		o.transform = &m
	}
	if v, ok := pa.kw["material"]; ok {
		m, err := toMaterial(v)
		if err != nil {
			return o, fmt.Errorf("%s: material: %w", fn, err)
		}
		o.material = &m
	}
	return o, nil
}

// addShape applies the common options and registers s with the scene.
func addShape(fn string, sc *scene.Scene, s *shape.Shape, o shapeOpts) (zygo.Sexp, error) {
	if o.transform != nil {
		if err := s.SetTransform(*o.transform); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
		}
	}
	if o.material != nil {
		s.SetMaterial(*o.material)
	}
	h, err := sc.AddNamed(o.name, s)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	return &sexpShape{handle: h, name: o.name, kind: s.Kind()}, nil
}

// heightOpts reads :min :max :closed for cylinders and cones.
func heightOpts(fn string, pa kwArgs, lo, hi *float64, closed *bool) error {
	if err := floatKW(fn, pa, "min", lo); err != nil {
		return err
	}
	if err := floatKW(fn, pa, "max", hi); err != nil {
		return err
	}
	if v, ok := pa.kw["closed"]; ok {
		b, err := toBool(v)
		if err != nil {
			return fmt.Errorf("%s: closed: %w", fn, err)
		}
		*closed = b
	}
	return nil
}

func matrixResult(m transform.Matrix) (zygo.Sexp, error) {
	return &sexpMatrix{m: m}, nil
}

// registerBuiltins installs all kerf DSL builtins into a zygomys environment.
// Shape builtins add to sc as they are evaluated.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *scene.Scene) {

	// -----------------------------------------------------------------------
	// (point 1 2 3) / (vector 0 1 0)
	// -----------------------------------------------------------------------
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		x, y, z, err := threeFloats(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpTuple{t: geom.Point(x, y, z)}, nil
	})
	env.AddFunction("vector", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		x, y, z, err := threeFloats(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpTuple{t: geom.Vector(x, y, z)}, nil
	})

	// -----------------------------------------------------------------------
	// (rgb 1 0.2 0) / (color "steelblue")
	// -----------------------------------------------------------------------
	env.AddFunction("rgb", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, g, b, err := threeFloats(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpColor{c: geom.RGB(r, g, b)}, nil
	})
	env.AddFunction("color", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("color requires exactly 1 argument, got %d", len(args))
		}
		cname, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("color: %w", err)
		}
		c, ok := geom.Named(cname)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("color: unknown colour %q", cname)
		}
		return &sexpColor{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// Transforms: (translate x y z) (scale x y z) (rotate-x r)
	// (rotate axis r) (shear ...)
	// (chain m1 m2 ...) (view-transform from to up) (radians deg)
	// -----------------------------------------------------------------------
	env.AddFunction("radians", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("radians requires exactly 1 argument, got %d", len(args))
		}
		deg, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("radians: %w", err)
		}
		return &zygo.SexpFloat{Val: deg * math.Pi / 180}, nil
	})
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		x, y, z, err := threeFloats(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return matrixResult(transform.Translation(x, y, z))
	})
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 1 {
			f, err := toFloat64(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("scale: %w", err)
			}
			return matrixResult(transform.Scaling(f, f, f))
		}
		x, y, z, err := threeFloats(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return matrixResult(transform.Scaling(x, y, z))
	})
	for fn, rot := range map[string]func(float64) transform.Matrix{
		"rotate_x": transform.RotationX,
		"rotate_y": transform.RotationY,
		"rotate_z": transform.RotationZ,
	} {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 argument (radians), got %d", dslName(name), len(args))
			}
			r, err := toFloat64(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", dslName(name), err)
			}
			return matrixResult(rot(r))
		})
	}
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rotate requires an axis and an angle in radians, got %d arguments", len(args))
		}
		axis, err := toTuple(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: axis: %w", err)
		}
		r, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: angle: %w", err)
		}
		m, err := transform.Rotation(axis, r)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		return matrixResult(m)
	})
	env.AddFunction("shear", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 6 {
			return zygo.SexpNull, fmt.Errorf("shear requires exactly 6 arguments (xy xz yx yz zx zy), got %d", len(args))
		}
		var v [6]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shear: argument %d: %w", i+1, err)
			}
			v[i] = f
		}
		return matrixResult(transform.Shearing(v[0], v[1], v[2], v[3], v[4], v[5]))
	})
	env.AddFunction("chain", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ms := make([]transform.Matrix, 0, len(args))
		for i, a := range args {
			m, err := toMatrix(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("chain: argument %d: %w", i+1, err)
			}
			ms = append(ms, m)
		}
		m, err := transform.Chain(ms...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("chain: %w", err)
		}
		return matrixResult(m)
	})
	env.AddFunction("view_transform", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("view-transform requires from, to and up, got %d arguments", len(args))
		}
		var ts [3]geom.Tuple
		for i, a := range args {
			t, err := toTuple(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("view-transform: argument %d: %w", i+1, err)
			}
			ts[i] = t
		}
		return matrixResult(transform.ViewTransform(ts[0], ts[1], ts[2]))
	})

	// -----------------------------------------------------------------------
	// (camera (view-transform ...))
	// -----------------------------------------------------------------------
	env.AddFunction("camera", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("camera requires a view transform")
		}
		m, err := toMatrix(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("camera: %w", err)
		}
		if err := sc.SetView(m); err != nil {
			return zygo.SexpNull, fmt.Errorf("camera: %w", err)
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// Patterns: (stripes c1 c2 ... :transform m) (checkers a b) (test-pattern)
	// -----------------------------------------------------------------------
	env.AddFunction("stripes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		colors := make([]geom.Color, 0, len(pa.positional))
		for i, a := range pa.positional {
			c, err := toColor(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("stripes: colour %d: %w", i+1, err)
			}
			colors = append(colors, c)
		}
		return patternResult(name, pattern.NewStripes(colors...), pa)
	})
	env.AddFunction("checkers", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		a, b := geom.White, geom.Black
		if len(pa.positional) != 0 && len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("checkers takes 0 or 2 colours, got %d", len(pa.positional))
		}
		if len(pa.positional) == 2 {
			var err error
			if a, err = toColor(pa.positional[0]); err != nil {
				return zygo.SexpNull, fmt.Errorf("checkers: first colour: %w", err)
			}
			if b, err = toColor(pa.positional[1]); err != nil {
				return zygo.SexpNull, fmt.Errorf("checkers: second colour: %w", err)
			}
		}
		return patternResult(name, pattern.NewCheckers(a, b), pa)
	})
	env.AddFunction("test_pattern", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return patternResult(name, pattern.NewTest(), parseArgs(args))
	})

	// -----------------------------------------------------------------------
	// (material :color (rgb 1 0 0) :ambient 0.1 :diffuse 0.9 :specular 0.9
	//           :shininess 200 :reflective 0 :transparency 0
	//           :refractive-index 1 :pattern (stripes))
	// -----------------------------------------------------------------------
	env.AddFunction("material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		m := material.Default()
		if v, ok := pa.kw["color"]; ok {
			c, err := toColor(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("material: color: %w", err)
			}
			m.Color = c
		}
		for kw, dst := range map[string]*float64{
			"ambient":          &m.Ambient,
			"diffuse":          &m.Diffuse,
			"specular":         &m.Specular,
			"shininess":        &m.Shininess,
			"reflective":       &m.Reflective,
			"transparency":     &m.Transparency,
			"refractive-index": &m.RefractiveIndex,
		} {
			if err := floatKW(name, pa, kw, dst); err != nil {
				return zygo.SexpNull, err
			}
		}
		if v, ok := pa.kw["pattern"]; ok {
			p, err := toPattern(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("material: pattern: %w", err)
			}
			m.Pattern = p
		}
		return &sexpMaterial{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// Shapes: (sphere :name "ball" :transform m :material mat)
	// (cylinder :min 0 :max 2 :closed true) (cone ...) (plane) (cube)
	// (glass-sphere)
	// -----------------------------------------------------------------------
	simple := map[string]func() *shape.Shape{
		"sphere":       shape.NewSphere,
		"glass_sphere": shape.NewGlassSphere,
		"plane":        shape.NewPlane,
		"cube":         shape.NewCube,
	}
	for fn, ctor := range simple {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			o, err := parseShapeOpts(dslName(name), pa)
			if err != nil {
				return zygo.SexpNull, err
			}
			return addShape(dslName(name), sc, ctor(), o)
		})
	}
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		o, err := parseShapeOpts(name, pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		g := shape.NewCylinderGeometry()
		if err := heightOpts(name, pa, &g.Min, &g.Max, &g.Closed); err != nil {
			return zygo.SexpNull, err
		}
		return addShape(name, sc, shape.New(g), o)
	})
	env.AddFunction("cone", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		o, err := parseShapeOpts(name, pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		g := shape.NewConeGeometry()
		if err := heightOpts(name, pa, &g.Min, &g.Max, &g.Closed); err != nil {
			return zygo.SexpNull, err
		}
		return addShape(name, sc, shape.New(g), o)
	})
}

// patternResult applies the optional :transform keyword to p.
func patternResult(fn string, p *pattern.Pattern, pa kwArgs) (zygo.Sexp, error) {
	if v, ok := pa.kw["transform"]; ok {
		m, err := toMatrix(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: transform: %w", dslName(fn), err)
		}
		if err := p.SetTransform(m); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", dslName(fn), err)
		}
	}
	return &sexpPattern{p: p}, nil
}

// dslName turns a registered builtin name back into the kebab-case form
// users write.
func dslName(registered string) string {
	return strings.ReplaceAll(registered, "_", "-")
}
