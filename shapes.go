package frep

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Primitive shape constructors. 2D shapes ignore z and may be extruded or
// revolved into solids; see ExtrudeZ and RevolveY. All shapes follow the
// sign convention negative inside, positive outside.

// Emptiness returns a shape containing no points.
func Emptiness() Tree { return Const(math.Inf(1)) }

// Circle returns a circle of radius r centered at (cx, cy) in the xy plane.
func Circle(r, cx, cy float64) Tree {
	x := X().Sub(Const(cx))
	y := Y().Sub(Const(cy))
	return x.Square().Add(y.Square()).Sqrt().Sub(Const(r))
}

// Ring returns an annulus with outer radius ro and inner radius ri
// centered at (cx, cy).
func Ring(ro, ri, cx, cy float64) Tree {
	return Difference(Circle(ro, cx, cy), Circle(ri, cx, cy))
}

// PolygonN returns a regular n-gon centered at (cx, cy) with circumradius r.
// Panics if n < 3.
func PolygonN(r, cx, cy float64, n int) Tree {
	if n < 3 {
		panic("frep: polygon needs at least 3 sides")
	}
	apothem := r * math.Cos(math.Pi/float64(n))
	x := X().Sub(Const(cx))
	y := Y().Sub(Const(cy))
	half := Emptiness()
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * (float64(i) + 0.5) / float64(n)
		// Signed distance to the half-plane with outward normal
		// (cos theta, sin theta) at distance apothem.
		plane := x.Mul(Const(math.Cos(theta))).Add(y.Mul(Const(math.Sin(theta)))).Sub(Const(apothem))
		if i == 0 {
			half = plane
		} else {
			half = half.Max(plane)
		}
	}
	return half
}

// Rectangle returns an axis-aligned rectangle spanning (xmin, ymin) to
// (xmax, ymax). The field is mitered, not a true distance outside corners.
func Rectangle(xmin, ymin, xmax, ymax float64) Tree {
	dx := Const(xmin).Sub(X()).Max(X().Sub(Const(xmax)))
	dy := Const(ymin).Sub(Y()).Max(Y().Sub(Const(ymax)))
	return dx.Max(dy)
}

// RoundedRectangle returns a rectangle with corners rounded to radius r.
func RoundedRectangle(xmin, ymin, xmax, ymax, r float64) Tree {
	shapes := []Tree{
		Rectangle(xmin, ymin+r, xmax, ymax-r),
		Rectangle(xmin+r, ymin, xmax-r, ymax),
		Circle(r, xmin+r, ymin+r),
		Circle(r, xmax-r, ymin+r),
		Circle(r, xmin+r, ymax-r),
		Circle(r, xmax-r, ymax-r),
	}
	return Union(shapes...)
}

// Triangle2D returns the triangle with corners a, b, c in the xy plane.
// Winding order does not matter.
func Triangle2D(ax, ay, bx, by, cx, cy float64) Tree {
	// Fix winding to counterclockwise.
	if (bx-ax)*(cy-ay)-(by-ay)*(cx-ax) < 0 {
		bx, by, cx, cy = cx, cy, bx, by
	}
	edge := func(x0, y0, x1, y1 float64) Tree {
		// Signed distance to the edge line, positive on the outside
		// of a counterclockwise triangle.
		nx, ny := y1-y0, x0-x1
		norm := math.Hypot(nx, ny)
		nx, ny = nx/norm, ny/norm
		return X().Sub(Const(x0)).Mul(Const(nx)).Add(Y().Sub(Const(y0)).Mul(Const(ny)))
	}
	return edge(ax, ay, bx, by).Max(edge(bx, by, cx, cy)).Max(edge(cx, cy, ax, ay))
}

// Sphere returns a sphere of radius r centered at c.
func Sphere(r float64, c r3.Vec) Tree {
	return Move(X().Square().Add(Y().Square()).Add(Z().Square()).Sqrt().Sub(Const(r)), c)
}

// BoxMitered returns an axis-aligned box spanning min to max built from
// six half-spaces. Corners are mitered.
func BoxMitered(min, max r3.Vec) Tree {
	dx := Const(min.X).Sub(X()).Max(X().Sub(Const(max.X)))
	dy := Const(min.Y).Sub(Y()).Max(Y().Sub(Const(max.Y)))
	dz := Const(min.Z).Sub(Z()).Max(Z().Sub(Const(max.Z)))
	return dx.Max(dy).Max(dz)
}

// BoxExact returns an axis-aligned box with a true euclidean distance
// field, so Offset grows it with rounded corners.
func BoxExact(min, max r3.Vec) Tree {
	c := r3.Scale(0.5, r3.Add(min, max))
	h := r3.Scale(0.5, r3.Sub(max, min))
	dx := X().Sub(Const(c.X)).Abs().Sub(Const(h.X))
	dy := Y().Sub(Const(c.Y)).Abs().Sub(Const(h.Y))
	dz := Z().Sub(Const(c.Z)).Abs().Sub(Const(h.Z))
	outer := dx.Max(Const(0)).Square().
		Add(dy.Max(Const(0)).Square()).
		Add(dz.Max(Const(0)).Square()).Sqrt()
	inner := dx.Max(dy).Max(dz).Min(Const(0))
	return outer.Add(inner)
}

// RoundedBox returns a box with edges and corners rounded to radius r.
func RoundedBox(min, max r3.Vec, r float64) Tree {
	shrink := r3.Vec{X: r, Y: r, Z: r}
	return Offset(BoxExact(r3.Add(min, shrink), r3.Sub(max, shrink)), r)
}

// CylinderZ returns a cylinder of radius r along z from zmin up by height h,
// with its axis through (cx, cy).
func CylinderZ(r, h, zmin, cx, cy float64) Tree {
	return ExtrudeZ(Circle(r, cx, cy), zmin, zmin+h)
}

// ConeZ returns a cone with base radius r at zmin tapering to a point at
// zmin+h, its axis through (cx, cy).
func ConeZ(r, h, zmin, cx, cy float64) Tree {
	return TaperXYAlongZ(CylinderZ(r, h, zmin, cx, cy),
		r3.Vec{X: cx, Y: cy, Z: zmin}, h, 1, 0)
}

// Pyramid returns a rectangular-base pyramid spanning (xmin, ymin) to
// (xmax, ymax) at zmin, with its apex h above the base center.
func Pyramid(xmin, ymin, xmax, ymax, zmin, h float64) Tree {
	base := ExtrudeZ(Rectangle(xmin, ymin, xmax, ymax), zmin, zmin+h)
	c := r3.Vec{X: (xmin + xmax) / 2, Y: (ymin + ymax) / 2, Z: zmin}
	return TaperXYAlongZ(base, c, h, 1, 0)
}

// TorusZ returns a torus about the z axis centered at c, with ring radius
// ro and tube radius ri.
func TorusZ(ro, ri float64, c r3.Vec) Tree {
	ring := X().Square().Add(Y().Square()).Sqrt().Sub(Const(ro))
	return Move(ring.Square().Add(Z().Square()).Sqrt().Sub(Const(ri)), c)
}

// Gyroid returns a gyroid lattice with the given cell period, shelled to
// the given thickness. Unbounded; intersect with a solid to mesh it.
func Gyroid(period r3.Vec, thickness float64) Tree {
	fx := 2 * math.Pi / period.X
	fy := 2 * math.Pi / period.Y
	fz := 2 * math.Pi / period.Z
	surf := X().Mul(Const(fx)).Sin().Mul(Y().Mul(Const(fy)).Cos()).
		Add(Y().Mul(Const(fy)).Sin().Mul(Z().Mul(Const(fz)).Cos())).
		Add(Z().Mul(Const(fz)).Sin().Mul(X().Mul(Const(fx)).Cos()))
	return Shell(surf, thickness)
}

// HalfSpace returns the half-space on the opposite side of norm from the
// plane through point.
func HalfSpace(norm, point r3.Vec) Tree {
	return X().Sub(Const(point.X)).Mul(Const(norm.X)).
		Add(Y().Sub(Const(point.Y)).Mul(Const(norm.Y))).
		Add(Z().Sub(Const(point.Z)).Mul(Const(norm.Z)))
}
