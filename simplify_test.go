package frep_test

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/frep"
)

func TestSimplifyIdentities(t *testing.T) {
	x, y := frep.X(), frep.Y()
	zero, one := frep.Const(0), frep.Const(1)
	for _, tc := range []struct {
		name string
		in   frep.Tree
		want frep.Tree
	}{
		{"add-zero", x.Add(zero), x},
		{"zero-add", zero.Add(x), x},
		{"sub-zero", x.Sub(zero), x},
		{"zero-sub", zero.Sub(x), x.Neg()},
		{"sub-self", x.Add(y).Sub(x.Add(y)), zero},
		{"mul-one", x.Mul(one), x},
		{"mul-zero", x.Mul(zero), zero},
		{"mul-minus-one", x.Mul(frep.Const(-1)), x.Neg()},
		{"div-one", x.Div(one), x},
		{"neg-neg", x.Neg().Neg(), x},
		{"recip-recip", x.Recip().Recip(), x},
		{"min-self", x.Min(x), x},
		{"max-self", x.Add(y).Max(x.Add(y)), x.Add(y)},
		{"sqrt-square", x.Square().Sqrt(), x.Abs()},
		{"abs-abs", x.Abs().Abs(), x.Abs()},
		{"abs-square", x.Square().Abs(), x.Square()},
		{"abs-neg", x.Neg().Abs(), x.Abs()},
		{"pow-one", x.Pow(one), x},
		{"pow-zero", x.Pow(zero), one},
		{"nthroot-two", x.NthRoot(frep.Const(2)), x.Sqrt()},
		{"nanfill-const", frep.Const(5).NanFill(x), frep.Const(5)},
		{"fold", frep.Const(2).Add(frep.Const(3)).Mul(frep.Const(4)), frep.Const(20)},
		{"fold-unary", frep.Const(9).Sqrt(), frep.Const(3)},
		{"nested", x.Mul(one).Add(y.Mul(zero)), x},
	} {
		got := frep.Simplify(tc.in)
		if !got.Same(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSimplifyLeavesVarsAlone(t *testing.T) {
	v := frep.Var()
	s := frep.Simplify(v.Add(frep.Const(0)))
	if !s.Same(v) {
		t.Error("simplify should preserve free variable identity")
	}
}

// Simplification must not change field values.
func TestSimplifySemantics(t *testing.T) {
	shapes := []frep.Tree{
		frep.Difference(
			frep.Sphere(1, r3.Vec{}),
			frep.Sphere(0.6, r3.Vec{}),
			frep.CylinderZ(0.3, 4, -2, 0, 0),
		),
		frep.Intersect(
			frep.BoxExact(r3.Vec{X: -1, Y: -1, Z: -1}, r3.Vec{X: 1, Y: 1, Z: 1}),
			frep.Gyroid(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, 0.05),
		),
		frep.RotateZ(frep.TorusZ(0.8, 0.2, r3.Vec{}), math.Pi/5, r3.Vec{X: 0.1}),
	}
	rng := rand.New(rand.NewSource(7))
	for i, shape := range shapes {
		simplified := frep.Simplify(shape)
		if simplified.NodeCount() > shape.NodeCount() {
			t.Errorf("shape %d: simplify grew the tree from %d to %d nodes",
				i, shape.NodeCount(), simplified.NodeCount())
		}
		for j := 0; j < 200; j++ {
			p := r3.Vec{
				X: rng.Float64()*4 - 2,
				Y: rng.Float64()*4 - 2,
				Z: rng.Float64()*4 - 2,
			}
			want, err := frep.Eval(shape, p)
			if err != nil {
				t.Fatal(err)
			}
			got, err := frep.Eval(simplified, p)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-want) > 1e-12*math.Max(1, math.Abs(want)) {
				t.Fatalf("shape %d at %v: simplified value %g, want %g", i, p, got, want)
			}
		}
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	shape := frep.Difference(
		frep.Sphere(1, r3.Vec{}),
		frep.BoxMitered(r3.Vec{X: -0.5, Y: -0.5, Z: -0.5}, r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}),
	)
	once := frep.Simplify(shape)
	twice := frep.Simplify(once)
	if !once.Same(twice) {
		t.Error("simplify is not idempotent")
	}
}
