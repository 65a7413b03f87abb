// Command kerf evaluates a scene file, casts a single ray into it and reports
// what the ray hits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/kerf/internal/logging"
	"github.com/chazu/kerf/pkg/engine"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"github.com/chazu/kerf/pkg/scene"
	"github.com/chazu/kerf/pkg/tessellate"
)

// triple is a flag.Value holding "x,y,z".
type triple [3]float64

func (t *triple) String() string {
	return fmt.Sprintf("%g,%g,%g", t[0], t[1], t[2])
}

func (t *triple) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("expected x,y,z, got %q", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("component %d: %w", i+1, err)
		}
		t[i] = f
	}
	return nil
}

type options struct {
	scene     string
	origin    triple
	direction triple
	mesh      bool
	cells     int
}

func main() {
	opts := options{
		origin:    triple{0, 0, -5},
		direction: triple{0, 0, 1},
	}
	flag.StringVar(&opts.scene, "scene", "", "Scene file to evaluate (required)")
	flag.Var(&opts.origin, "origin", "Ray origin as x,y,z")
	flag.Var(&opts.direction, "direction", "Ray direction as x,y,z")
	flag.BoolVar(&opts.mesh, "mesh", false, "Tessellate bounded shapes and print mesh statistics")
	flag.IntVar(&opts.cells, "cells", sdfx.DefaultMeshCells, "Marching cubes resolution for -mesh")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if opts.scene == "" {
		fmt.Fprintln(os.Stderr, "kerf: -scene is required")
		flag.Usage()
		os.Exit(2)
	}
	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "kerf: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, opts options) error {
	log := logging.Logger()

	src, err := os.ReadFile(opts.scene)
	if err != nil {
		return err
	}
	res, err := engine.NewEngine().EvaluateAll(string(src))
	if err != nil {
		return err
	}
	for _, warn := range res.Warnings {
		log.Warn("scene warning", "shape", warn.Handle.String(), "message", warn.Message)
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			fmt.Fprintln(w, e.Error())
		}
		return errors.New("scene has errors")
	}
	sc := res.Scene
	log.Info("scene loaded", "file", opts.scene, "shapes", sc.Len())

	k := sdfx.New(sdfx.WithCells(opts.cells))
	ray := geom.NewRay(
		geom.Point(opts.origin[0], opts.origin[1], opts.origin[2]),
		geom.Vector(opts.direction[0], opts.direction[1], opts.direction[2]),
	)
	if err := report(w, sc, k, ray); err != nil {
		return err
	}

	if !opts.mesh {
		return nil
	}
	tr, err := tessellate.Tessellate(sc, k)
	if err != nil {
		return err
	}
	for _, m := range tr.Meshes {
		fmt.Fprintf(w, "mesh %s: %d vertices, %d triangles", m.Name, m.VertexCount(), m.TriangleCount())
		if lo, hi, ok := m.Bounds(); ok {
			fmt.Fprintf(w, ", bounds (%.2f, %.2f, %.2f)..(%.2f, %.2f, %.2f)", lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
		}
		fmt.Fprintln(w)
	}
	for _, s := range tr.Skipped {
		fmt.Fprintf(w, "skipped %s (%s): %s\n", label(s.Name, s.Handle), s.Kind, s.Reason)
	}
	return nil
}

// report casts ray into sc and prints the hit.
func report(w io.Writer, sc *scene.Scene, k kernel.Kernel, ray geom.Ray) error {
	x, ok, err := sc.Hit(ray)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(w, "ray %s -> %s: miss\n", ray.Origin, ray.Direction)
		return nil
	}

	h, _ := sc.HandleOf(x.Object)
	p := ray.Position(x.T)
	n, err := x.Object.NormalAt(p)
	if err != nil {
		return err
	}
	c, err := x.Object.ColorAt(p)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "hit %s (%s) at t=%.5f\n", label(sc.NameOf(h), h), x.Object.Kind(), x.T)
	fmt.Fprintf(w, "  point  %s\n", p)
	fmt.Fprintf(w, "  normal %s\n", n)
	fmt.Fprintf(w, "  colour %s\n", c)

	solid, err := tessellate.Solid(k, x.Object)
	switch {
	case errors.Is(err, kernel.ErrUnbounded), errors.Is(err, kernel.ErrEmpty):
		fmt.Fprintf(w, "  residual n/a (%v)\n", err)
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "  residual %.3g\n", k.Distance(solid, p))
	}
	return nil
}

func label(name string, h scene.Handle) string {
	if name != "" {
		return name
	}
	return h.String()
}
