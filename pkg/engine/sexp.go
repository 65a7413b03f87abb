package engine

import (
	"fmt"
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
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpTuple wraps a point or vector.
type sexpTuple struct {
	t geom.Tuple
}

func (s *sexpTuple) SexpString(ps *zygo.PrintState) string { return s.t.String() }
func (s *sexpTuple) Type() *zygo.RegisteredType            { return nil }

// sexpColor wraps a geom.Color.
type sexpColor struct {
	c geom.Color
}

func (s *sexpColor) SexpString(ps *zygo.PrintState) string { return s.c.String() }
func (s *sexpColor) Type() *zygo.RegisteredType            { return nil }

// sexpMatrix wraps a 4x4 transform.
type sexpMatrix struct {
	m transform.Matrix
}

func (s *sexpMatrix) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(matrix %dx%d)", s.m.Rows(), s.m.Cols())
}
func (s *sexpMatrix) Type() *zygo.RegisteredType { return nil }

// sexpPattern wraps a pattern so materials can reference it.
type sexpPattern struct {
	p *pattern.Pattern
}

func (s *sexpPattern) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pattern %T)", s.p.Painter())
}
func (s *sexpPattern) Type() *zygo.RegisteredType { return nil }

// sexpMaterial wraps a material.Material so it can be passed between builtins.
type sexpMaterial struct {
	m material.Material
}

func (s *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(material :color %s)", s.m.Color)
}
func (s *sexpMaterial) Type() *zygo.RegisteredType { return nil }

// sexpShape is what a shape builtin returns: the handle of the shape it
// added to the scene.
type sexpShape struct {
	handle scene.Handle
	name   string
	kind   shape.Kind
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	if s.name != "" {
		return fmt.Sprintf("(%s %q)", s.kind, s.name)
	}
	return fmt.Sprintf("(%s %s)", s.kind, s.handle)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_red) and plain strings ("red").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toBool accepts the literals true and false, or the keywords :true and
// :false. A bare trailing keyword (nil value) counts as true.
func toBool(s zygo.Sexp) (bool, error) {
	if s == zygo.SexpNull {
		return true, nil
	}
	text := s.SexpString(nil)
	if kw, err := toKeywordString(s); err == nil {
		text = kw
	}
	switch text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

func toTuple(s zygo.Sexp) (geom.Tuple, error) {
	if v, ok := s.(*sexpTuple); ok {
		return v.t, nil
	}
	return geom.Tuple{}, fmt.Errorf("expected point or vector, got %T (%s)", s, s.SexpString(nil))
}

// toColor accepts an (rgb ...) value or a colour name.
func toColor(s zygo.Sexp) (geom.Color, error) {
	if v, ok := s.(*sexpColor); ok {
		return v.c, nil
	}
	if name, err := toKeywordString(s); err == nil {
		if c, ok := geom.Named(name); ok {
			return c, nil
		}
		return geom.Color{}, fmt.Errorf("unknown colour %q", name)
	}
	return geom.Color{}, fmt.Errorf("expected colour, got %T (%s)", s, s.SexpString(nil))
}

func toMatrix(s zygo.Sexp) (transform.Matrix, error) {
	if v, ok := s.(*sexpMatrix); ok {
		return v.m, nil
	}
	return transform.Matrix{}, fmt.Errorf("expected transform, got %T (%s)", s, s.SexpString(nil))
}

func toMaterial(s zygo.Sexp) (material.Material, error) {
	if v, ok := s.(*sexpMaterial); ok {
		return v.m, nil
	}
	return material.Material{}, fmt.Errorf("expected material, got %T (%s)", s, s.SexpString(nil))
}

func toPattern(s zygo.Sexp) (*pattern.Pattern, error) {
	if v, ok := s.(*sexpPattern); ok {
		return v.p, nil
	}
	return nil, fmt.Errorf("expected pattern, got %T (%s)", s, s.SexpString(nil))
}

// threeFloats reads exactly three numeric positional arguments.
func threeFloats(fn string, args []zygo.Sexp) (float64, float64, float64, error) {
	if len(args) != 3 {
		return 0, 0, 0, fmt.Errorf("%s requires exactly 3 arguments, got %d", dslName(fn), len(args))
	}
	var v [3]float64
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%s: %c: %w", dslName(fn), "xyz"[i], err)
		}
		v[i] = f
	}
	return v[0], v[1], v[2], nil
}

// floatKW stores keyword kw into dst when present.
func floatKW(fn string, pa kwArgs, kw string, dst *float64) error {
	v, ok := pa.kw[kw]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", dslName(fn), kw, err)
	}
	*dst = f
	return nil
}
