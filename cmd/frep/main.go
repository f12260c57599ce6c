// Command frep inspects, meshes and slices implicit surface tree files.
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/frep"
	"github.com/soypat/frep/render"
)

var log = logrus.New()

var (
	flagBounds     string
	flagResolution float64
	flagWorkers    int
	flagOutput     string
	flagZ          float64
	flagVerbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "frep",
		Short:         "Inspect, mesh and slice implicit surface tree files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	info := &cobra.Command{
		Use:   "info <tree file>",
		Short: "Print statistics of a tree file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}

	mesh := &cobra.Command{
		Use:   "mesh <tree file>",
		Short: "Mesh a tree file into a binary STL",
		Args:  cobra.ExactArgs(1),
		RunE:  runMesh,
	}
	mesh.Flags().StringVarP(&flagBounds, "bounds", "b", "-1,-1,-1,1,1,1", "meshing region x0,y0,z0,x1,y1,z1")
	mesh.Flags().Float64VarP(&flagResolution, "resolution", "r", 0.02, "marching cell edge length")
	mesh.Flags().IntVarP(&flagWorkers, "workers", "w", 1, "meshing goroutines")
	mesh.Flags().StringVarP(&flagOutput, "output", "o", "out.stl", "output STL path")

	slice := &cobra.Command{
		Use:   "slice <tree file>",
		Short: "Slice a tree file at a z plane into an SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  runSlice,
	}
	slice.Flags().StringVarP(&flagBounds, "bounds", "b", "-1,-1,-1,1,1,1", "slice rectangle x0,y0,z0,x1,y1,z1 (z ignored)")
	slice.Flags().Float64VarP(&flagResolution, "resolution", "r", 0.01, "marching cell edge length")
	slice.Flags().Float64VarP(&flagZ, "zplane", "z", 0, "slice plane height")
	slice.Flags().StringVarP(&flagOutput, "output", "o", "out.svg", "output SVG path")

	demo := &cobra.Command{
		Use:   "demo <" + strings.Join(demoNames(), "|") + ">",
		Short: "Write a built-in demo shape as a tree file",
		Args:  cobra.ExactArgs(1),
		RunE:  runDemo,
	}
	demo.Flags().StringVarP(&flagOutput, "output", "o", "", "output tree file path (default <name>.frep)")

	root.AddCommand(info, mesh, slice, demo)
	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	t, err := frep.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("nodes: %d\n", t.NodeCount())
	fmt.Printf("free variables: %v\n", t.HasFreeVars())
	simplified := frep.Simplify(t)
	fmt.Printf("nodes after simplify: %d\n", simplified.NodeCount())
	counts := t.OpCounts()
	ops := make([]frep.Opcode, 0, len(counts))
	for op := range counts {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return counts[ops[i]] > counts[ops[j]] })
	for _, op := range ops {
		fmt.Printf("  %-10s %d\n", op, counts[op])
	}
	if !t.HasFreeVars() {
		v, err := frep.Eval(t, r3.Vec{})
		if err != nil {
			return err
		}
		fmt.Printf("value at origin: %g\n", v)
	}
	return nil
}

func runMesh(cmd *cobra.Command, args []string) error {
	t, err := frep.Load(args[0])
	if err != nil {
		return err
	}
	bounds, err := parseBounds(flagBounds)
	if err != nil {
		return err
	}
	e, err := frep.NewEvaluator(frep.Simplify(t), nil)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"resolution": flagResolution,
		"workers":    flagWorkers,
		"output":     flagOutput,
	}).Info("meshing")
	err = render.SaveSTL(flagOutput, e, bounds, render.Settings{
		Resolution: flagResolution,
		Workers:    flagWorkers,
	})
	if err != nil {
		return err
	}
	log.WithField("path", flagOutput).Info("wrote STL")
	return nil
}

func runSlice(cmd *cobra.Command, args []string) error {
	t, err := frep.Load(args[0])
	if err != nil {
		return err
	}
	bounds, err := parseBounds(flagBounds)
	if err != nil {
		return err
	}
	e, err := frep.NewEvaluator(frep.Simplify(t), nil)
	if err != nil {
		return err
	}
	min := r2.Vec{X: bounds.Min.X, Y: bounds.Min.Y}
	max := r2.Vec{X: bounds.Max.X, Y: bounds.Max.Y}
	if err := render.CreateSVG(flagOutput, e, flagZ, min, max, flagResolution); err != nil {
		return err
	}
	log.WithField("path", flagOutput).Info("wrote SVG")
	return nil
}

var demos = map[string]func() frep.Tree{
	"sphere": func() frep.Tree {
		return frep.Sphere(0.8, r3.Vec{})
	},
	"csg": func() frep.Tree {
		// A sphere hollowed out and pierced by cylinders along each axis.
		outer := frep.Sphere(1, r3.Vec{})
		inner := frep.Sphere(0.6, r3.Vec{})
		cyl := frep.CylinderZ(0.3, 4, -2, 0, 0)
		drills := frep.Union(cyl,
			frep.ReflectXZ(cyl), // along x
			frep.ReflectYZ(cyl), // along y
		)
		return frep.Difference(outer, inner, drills)
	},
	"gyroid": func() frep.Tree {
		lattice := frep.Gyroid(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, 0.05)
		box := frep.BoxExact(r3.Vec{X: -1, Y: -1, Z: -1}, r3.Vec{X: 1, Y: 1, Z: 1})
		return frep.Intersect(box, lattice)
	},
}

func demoNames() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runDemo(cmd *cobra.Command, args []string) error {
	build, ok := demos[args[0]]
	if !ok {
		return fmt.Errorf("unknown demo %q, have %s", args[0], strings.Join(demoNames(), ", "))
	}
	out := flagOutput
	if out == "" {
		out = args[0] + ".frep"
	}
	t := build()
	if err := t.Save(out); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"path": out, "nodes": t.NodeCount()}).Info("wrote tree file")
	return nil
}

func parseBounds(s string) (r3.Box, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return r3.Box{}, fmt.Errorf("bounds %q: want 6 comma separated numbers", s)
	}
	var v [6]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return r3.Box{}, fmt.Errorf("bounds %q: %w", s, err)
		}
		v[i] = f
	}
	b := r3.Box{
		Min: r3.Vec{X: v[0], Y: v[1], Z: v[2]},
		Max: r3.Vec{X: v[3], Y: v[4], Z: v[5]},
	}
	if b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y || b.Max.Z <= b.Min.Z {
		return r3.Box{}, fmt.Errorf("bounds %q: max must exceed min on every axis", s)
	}
	return b, nil
}
