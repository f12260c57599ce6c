package frep_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/frep"
)

func evalAt(t *testing.T, shape frep.Tree, p r3.Vec) float64 {
	t.Helper()
	v, err := frep.Eval(shape, p)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestRevolveY(t *testing.T) {
	// Revolving an off-axis circle about the line x = 0.5 yields a torus
	// of ring radius 0.5 and tube radius 0.3 around that line.
	torus := frep.RevolveY(frep.Circle(0.3, 1, 0), 0.5)
	for _, tc := range []struct {
		p      r3.Vec
		inside bool
	}{
		{r3.Vec{}, true},
		{r3.Vec{X: 1}, true},
		{r3.Vec{X: 0.5, Z: 0.5}, true},
		{r3.Vec{X: 0.5}, false},
		{r3.Vec{X: 0.5, Z: 1}, false},
		{r3.Vec{X: 0.5, Y: 0.4, Z: 0.5}, false},
	} {
		v := evalAt(t, torus, tc.p)
		if got := v < 0; got != tc.inside {
			t.Errorf("point %v: value %g, want inside=%v", tc.p, v, tc.inside)
		}
	}
}

func TestRevolveYBothSides(t *testing.T) {
	// The generating circle sits entirely at x < 0; revolution must sweep
	// it through the full turn anyway.
	torus := frep.RevolveY(frep.Circle(0.3, -1, 0), 0)
	if v := evalAt(t, torus, r3.Vec{X: 1}); v >= 0 {
		t.Errorf("value %g at (1,0,0), want inside", v)
	}
	if v := evalAt(t, torus, r3.Vec{Z: -1}); v >= 0 {
		t.Errorf("value %g at (0,0,-1), want inside", v)
	}
	if v := evalAt(t, torus, r3.Vec{}); v <= 0 {
		t.Errorf("value %g at origin, want outside", v)
	}
}

func TestTwirlZ(t *testing.T) {
	shape := frep.Sphere(0.5, r3.Vec{X: 1})
	const amount, radius = 1.2, 2.0
	tw := frep.TwirlZ(shape, amount, radius, r3.Vec{})
	for _, p := range []r3.Vec{
		{X: 1},
		{X: 0.3, Y: -0.8, Z: 0.2},
		{X: -1.1, Y: 0.4, Z: 0.7},
		{Y: 2},
	} {
		// The twirled field at p equals the original field at p rotated
		// about z by the distance-damped angle.
		d := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
		a := amount * math.Exp(-d/radius)
		c, s := math.Cos(a), math.Sin(a)
		q := r3.Vec{X: c*p.X + s*p.Y, Y: c*p.Y - s*p.X, Z: p.Z}
		want := evalAt(t, shape, q)
		if got := evalAt(t, tw, p); math.Abs(got-want) > 1e-12 {
			t.Errorf("point %v: got %g, want %g", p, got, want)
		}
	}
}

func TestTwirlAxisX(t *testing.T) {
	shape := frep.Sphere(0.5, r3.Vec{Y: 1})
	const amount, radius = 0.9, 1.5
	center := r3.Vec{X: 0.2, Y: -0.1, Z: 0.3}
	tw := frep.TwirlAxisX(shape, amount, radius, center)
	for _, p := range []r3.Vec{
		{Y: 1},
		{X: 0.7, Y: 0.4, Z: -0.5},
		{X: -0.3, Y: 1.2, Z: 0.8},
	} {
		// Axis variant: the angle decays with the distance from the x
		// axis through center, independent of p.X.
		yc, zc := p.Y-center.Y, p.Z-center.Z
		d := math.Sqrt(yc*yc + zc*zc)
		a := amount * math.Exp(-d/radius)
		c, s := math.Cos(a), math.Sin(a)
		q := r3.Vec{
			X: p.X,
			Y: center.Y + c*yc + s*zc,
			Z: center.Z + c*zc - s*yc,
		}
		want := evalAt(t, shape, q)
		if got := evalAt(t, tw, p); math.Abs(got-want) > 1e-12 {
			t.Errorf("point %v: got %g, want %g", p, got, want)
		}
	}
}
