package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/kerf/pkg/shape"
)

// ValidationSeverity indicates whether a finding makes the scene unusable
// or is merely advisory.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // queries on the shape fail
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Handle   Handle             // which shape has the problem (NoHandle if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Handle == NoHandle {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] shape %s: %s", e.Severity, e.Handle, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Handle  Handle
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory) from
// all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether the result holds no errors.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate runs the structural checks: every shape and pattern transform
// must be invertible, and the view must be a 4x4 matrix. It never mutates
// the scene.
func Validate(sc *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateTransforms(sc)...)
	errs = append(errs, validatePatterns(sc)...)
	return errs
}

// ValidateAll runs all tiers (structural, geometric, material) and
// separates errors from warnings.
func ValidateAll(sc *Scene) ValidationResult {
	var result ValidationResult
	findings := Validate(sc)
	findings = append(findings, validateBounds(sc)...)
	findings = append(findings, validateMaterials(sc)...)
	for _, f := range findings {
		if f.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{Handle: f.Handle, Message: f.Message})
		} else {
			result.Errors = append(result.Errors, f)
		}
	}
	return result
}

func validateTransforms(sc *Scene) []ValidationError {
	var errs []ValidationError
	if !sc.view.IsAffine() {
		errs = append(errs, ValidationError{
			Handle:   NoHandle,
			Message:  "view transform is not 4x4",
			Severity: SeverityError,
		})
	}
	for i, s := range sc.shapes {
		if err := s.Err(); err != nil {
			errs = append(errs, ValidationError{
				Handle:   Handle(i),
				Message:  fmt.Sprintf("%s transform: %v", s.Kind(), err),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func validatePatterns(sc *Scene) []ValidationError {
	var errs []ValidationError
	for i, s := range sc.shapes {
		p := s.Material().Pattern
		if p == nil {
			continue
		}
		if err := p.Err(); err != nil {
			errs = append(errs, ValidationError{
				Handle:   Handle(i),
				Message:  fmt.Sprintf("pattern transform: %v", err),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// heightBounds extracts the truncation of a cylinder or cone.
func heightBounds(s *shape.Shape) (lo, hi float64, ok bool) {
	switch g := s.Geometry().(type) {
	case *shape.Cylinder:
		return g.Min, g.Max, true
	case *shape.Cone:
		return g.Min, g.Max, true
	}
	return 0, 0, false
}

func validateBounds(sc *Scene) []ValidationError {
	var errs []ValidationError
	for i, s := range sc.shapes {
		lo, hi, ok := heightBounds(s)
		if !ok {
			continue
		}
		switch {
		case lo > hi:
			errs = append(errs, ValidationError{
				Handle:   Handle(i),
				Message:  fmt.Sprintf("%s min %g exceeds max %g", s.Kind(), lo, hi),
				Severity: SeverityError,
			})
		case lo == hi:
			errs = append(errs, ValidationError{
				Handle:   Handle(i),
				Message:  fmt.Sprintf("%s has zero height at %g", s.Kind(), lo),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

func validateMaterials(sc *Scene) []ValidationError {
	var errs []ValidationError
	warn := func(h int, format string, args ...any) {
		errs = append(errs, ValidationError{
			Handle:   Handle(h),
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityWarning,
		})
	}
	for i, s := range sc.shapes {
		m := s.Material()
		if m.Transparency < 0 || m.Transparency > 1 {
			warn(i, "transparency %g outside [0, 1]", m.Transparency)
		}
		if m.Reflective < 0 || m.Reflective > 1 {
			warn(i, "reflectivity %g outside [0, 1]", m.Reflective)
		}
		if m.RefractiveIndex < 1 {
			warn(i, "refractive index %g below 1", m.RefractiveIndex)
		}
	}
	return errs
}

// Err folds the blocking findings into a single error, or nil.
func (r ValidationResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}
