package frep

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Coordinate transforms. Each builds the inverse mapping of coordinates
// and applies it with Remap, so transforming a shape never grows its tree
// by more than the remap expressions.

// Move translates a shape by offset.
func Move(t Tree, offset r3.Vec) Tree {
	return Remap(t,
		X().Sub(Const(offset.X)),
		Y().Sub(Const(offset.Y)),
		Z().Sub(Const(offset.Z)))
}

// ReflectX mirrors a shape about the plane x = pos.
func ReflectX(t Tree, pos float64) Tree {
	return Remap(t, Const(2*pos).Sub(X()), Y(), Z())
}

// ReflectY mirrors a shape about the plane y = pos.
func ReflectY(t Tree, pos float64) Tree {
	return Remap(t, X(), Const(2*pos).Sub(Y()), Z())
}

// ReflectZ mirrors a shape about the plane z = pos.
func ReflectZ(t Tree, pos float64) Tree {
	return Remap(t, X(), Y(), Const(2*pos).Sub(Z()))
}

// ReflectXY mirrors a shape about the plane x = y.
func ReflectXY(t Tree) Tree { return Remap(t, Y(), X(), Z()) }

// ReflectYZ mirrors a shape about the plane y = z.
func ReflectYZ(t Tree) Tree { return Remap(t, X(), Z(), Y()) }

// ReflectXZ mirrors a shape about the plane x = z.
func ReflectXZ(t Tree) Tree { return Remap(t, Z(), Y(), X()) }

// SymmetricX clips a shape to x >= 0 and mirrors that half to x < 0.
func SymmetricX(t Tree) Tree { return Remap(t, X().Abs(), Y(), Z()) }

// SymmetricY clips a shape to y >= 0 and mirrors that half to y < 0.
func SymmetricY(t Tree) Tree { return Remap(t, X(), Y().Abs(), Z()) }

// SymmetricZ clips a shape to z >= 0 and mirrors that half to z < 0.
func SymmetricZ(t Tree) Tree { return Remap(t, X(), Y(), Z().Abs()) }

// ScaleX scales a shape by s along x about the plane x = x0.
func ScaleX(t Tree, x0, s float64) Tree {
	return Remap(t, Const(x0).Add(X().Sub(Const(x0)).Div(Const(s))), Y(), Z())
}

// ScaleY scales a shape by s along y about the plane y = y0.
func ScaleY(t Tree, y0, s float64) Tree {
	return Remap(t, X(), Const(y0).Add(Y().Sub(Const(y0)).Div(Const(s))), Z())
}

// ScaleZ scales a shape by s along z about the plane z = z0.
func ScaleZ(t Tree, z0, s float64) Tree {
	return Remap(t, X(), Y(), Const(z0).Add(Z().Sub(Const(z0)).Div(Const(s))))
}

// ScaleXYZ scales a shape per-axis about center.
func ScaleXYZ(t Tree, center, s r3.Vec) Tree {
	return Remap(t,
		Const(center.X).Add(X().Sub(Const(center.X)).Div(Const(s.X))),
		Const(center.Y).Add(Y().Sub(Const(center.Y)).Div(Const(s.Y))),
		Const(center.Z).Add(Z().Sub(Const(center.Z)).Div(Const(s.Z))))
}

// RotateX rotates a shape by angle radians about the x axis through center.
func RotateX(t Tree, angle float64, center r3.Vec) Tree {
	c, s := math.Cos(angle), math.Sin(angle)
	y := Y().Sub(Const(center.Y))
	z := Z().Sub(Const(center.Z))
	return Remap(t,
		X(),
		Const(center.Y).Add(y.Mul(Const(c))).Add(z.Mul(Const(s))),
		Const(center.Z).Add(z.Mul(Const(c))).Sub(y.Mul(Const(s))))
}

// RotateY rotates a shape by angle radians about the y axis through center.
func RotateY(t Tree, angle float64, center r3.Vec) Tree {
	c, s := math.Cos(angle), math.Sin(angle)
	x := X().Sub(Const(center.X))
	z := Z().Sub(Const(center.Z))
	return Remap(t,
		Const(center.X).Add(x.Mul(Const(c))).Sub(z.Mul(Const(s))),
		Y(),
		Const(center.Z).Add(x.Mul(Const(s))).Add(z.Mul(Const(c))))
}

// RotateZ rotates a shape by angle radians about the z axis through center.
func RotateZ(t Tree, angle float64, center r3.Vec) Tree {
	c, s := math.Cos(angle), math.Sin(angle)
	x := X().Sub(Const(center.X))
	y := Y().Sub(Const(center.Y))
	return Remap(t,
		Const(center.X).Add(x.Mul(Const(c))).Add(y.Mul(Const(s))),
		Const(center.Y).Add(y.Mul(Const(c))).Sub(x.Mul(Const(s))),
		Z())
}

// TaperXYAlongZ tapers a shape in x and y along z: the cross-section is
// scaled by s0 at base.Z and by s1 at base.Z + h, interpolating linearly.
func TaperXYAlongZ(t Tree, base r3.Vec, h, s0, s1 float64) Tree {
	z := Z().Sub(Const(base.Z))
	s := Const(s0).Add(z.Mul(Const((s1 - s0) / h)))
	return Remap(t,
		Const(base.X).Add(X().Sub(Const(base.X)).Div(s)),
		Const(base.Y).Add(Y().Sub(Const(base.Y)).Div(s)),
		Z())
}

// ShearXAlongY shears a shape in x along y: the offset is o0 at base.Y and
// o1 at base.Y + h.
func ShearXAlongY(t Tree, base r3.Vec, h, o0, o1 float64) Tree {
	y := Y().Sub(Const(base.Y))
	o := Const(o0).Add(y.Mul(Const((o1 - o0) / h)))
	return Remap(t, X().Sub(o), Y(), Z())
}

// Axes selects coordinate axes for Attract and Repel.
type Axes uint8

const (
	AxisX Axes = 1 << iota
	AxisY
	AxisZ
	AxesAll = AxisX | AxisY | AxisZ
)

// Attract pulls space toward locus along the selected axes with
// exponential falloff of the given radius; e sets the strength.
func Attract(t Tree, locus r3.Vec, radius, e float64, axes Axes) Tree {
	return deform(t, locus, radius, -e, axes)
}

// Repel pushes space away from locus along the selected axes with
// exponential falloff of the given radius; e sets the strength.
func Repel(t Tree, locus r3.Vec, radius, e float64, axes Axes) Tree {
	return deform(t, locus, radius, e, axes)
}

func deform(t Tree, locus r3.Vec, radius, e float64, axes Axes) Tree {
	x := X().Sub(Const(locus.X))
	y := Y().Sub(Const(locus.Y))
	z := Z().Sub(Const(locus.Z))
	norm := x.Square().Add(y.Square()).Add(z.Square()).Sqrt()
	fallout := Const(1).Add(Const(e).Mul(norm.Div(Const(radius)).Neg().Exp()))
	nx, ny, nz := X(), Y(), Z()
	if axes&AxisX != 0 {
		nx = Const(locus.X).Add(x.Mul(fallout))
	}
	if axes&AxisY != 0 {
		ny = Const(locus.Y).Add(y.Mul(fallout))
	}
	if axes&AxisZ != 0 {
		nz = Const(locus.Z).Add(z.Mul(fallout))
	}
	return Remap(t, nx, ny, nz)
}

// RevolveY revolves a 2D shape in the xy plane about the vertical line
// x = x0. Both sides of the line contribute, so shapes crossing it revolve
// into a single solid.
func RevolveY(t Tree, x0 float64) Tree {
	s := Move(t, r3.Vec{X: -x0})
	r := X().Square().Add(Z().Square()).Sqrt()
	out := Remap(s, r, Y(), Z()).Min(Remap(s, r.Neg(), Y(), Z()))
	return Move(out, r3.Vec{X: x0})
}

// TwirlX twists space about the x axis through center. The rotation angle
// is amount at the center and decays as exp(-d/radius) with the distance d
// from center.
func TwirlX(t Tree, amount, radius float64, center r3.Vec) Tree {
	return twirl(t, amount, radius, center, AxisX, false)
}

// TwirlY twists space about the y axis through center; see TwirlX.
func TwirlY(t Tree, amount, radius float64, center r3.Vec) Tree {
	return twirl(t, amount, radius, center, AxisY, false)
}

// TwirlZ twists space about the z axis through center; see TwirlX.
func TwirlZ(t Tree, amount, radius float64, center r3.Vec) Tree {
	return twirl(t, amount, radius, center, AxisZ, false)
}

// TwirlAxisX is TwirlX with the angle decaying with the distance from the
// rotation axis instead of from the center point, so the twist is uniform
// along the axis.
func TwirlAxisX(t Tree, amount, radius float64, center r3.Vec) Tree {
	return twirl(t, amount, radius, center, AxisX, true)
}

// TwirlAxisY is TwirlY with the angle decaying with the distance from the
// rotation axis.
func TwirlAxisY(t Tree, amount, radius float64, center r3.Vec) Tree {
	return twirl(t, amount, radius, center, AxisY, true)
}

// TwirlAxisZ is TwirlZ with the angle decaying with the distance from the
// rotation axis.
func TwirlAxisZ(t Tree, amount, radius float64, center r3.Vec) Tree {
	return twirl(t, amount, radius, center, AxisZ, true)
}

func twirl(t Tree, amount, radius float64, center r3.Vec, axis Axes, axisDist bool) Tree {
	xc := X().Sub(Const(center.X))
	yc := Y().Sub(Const(center.Y))
	zc := Z().Sub(Const(center.Z))
	// w runs along the rotation axis; (u, v) span its plane so the same
	// rotation composition serves all three axes.
	var u, v, w Tree
	switch axis {
	case AxisX:
		w, u, v = xc, yc, zc
	case AxisY:
		w, u, v = yc, zc, xc
	case AxisZ:
		w, u, v = zc, xc, yc
	default:
		panic("frep: twirl needs a single axis")
	}
	norm := u.Square().Add(v.Square())
	if !axisDist {
		norm = norm.Add(w.Square())
	}
	a := Const(amount).Mul(norm.Sqrt().Div(Const(radius)).Neg().Exp())
	c, s := a.Cos(), a.Sin()
	nu := c.Mul(u).Add(s.Mul(v))
	nv := c.Mul(v).Sub(s.Mul(u))
	switch axis {
	case AxisX:
		return Remap(t, X(), Const(center.Y).Add(nu), Const(center.Z).Add(nv))
	case AxisY:
		return Remap(t, Const(center.X).Add(nv), Y(), Const(center.Z).Add(nu))
	default:
		return Remap(t, Const(center.X).Add(nu), Const(center.Y).Add(nv), Z())
	}
}

// ExtrudeZ extrudes a 2D shape in the xy plane from zmin to zmax.
func ExtrudeZ(t Tree, zmin, zmax float64) Tree {
	slab := Const(zmin).Sub(Z()).Max(Z().Sub(Const(zmax)))
	return t.Max(slab)
}

// ArrayX unions n copies of a shape spaced dx apart along x.
func ArrayX(t Tree, n int, dx float64) Tree {
	shapes := make([]Tree, n)
	for i := range shapes {
		shapes[i] = Move(t, r3.Vec{X: float64(i) * dx})
	}
	return Union(shapes...)
}

// ArrayXY unions an nx by ny grid of copies spaced by d.
func ArrayXY(t Tree, nx, ny int, d r3.Vec) Tree {
	shapes := make([]Tree, 0, nx*ny)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			shapes = append(shapes, Move(t, r3.Vec{X: float64(i) * d.X, Y: float64(j) * d.Y}))
		}
	}
	return Union(shapes...)
}

// ArrayXYZ unions an nx by ny by nz grid of copies spaced by d.
func ArrayXYZ(t Tree, nx, ny, nz int, d r3.Vec) Tree {
	shapes := make([]Tree, 0, nx*ny*nz)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				shapes = append(shapes, Move(t, r3.Vec{
					X: float64(i) * d.X,
					Y: float64(j) * d.Y,
					Z: float64(k) * d.Z,
				}))
			}
		}
	}
	return Union(shapes...)
}

// ArrayPolarZ unions n copies of a shape rotated evenly about the z axis
// through center.
func ArrayPolarZ(t Tree, n int, center r3.Vec) Tree {
	shapes := make([]Tree, n)
	for i := range shapes {
		shapes[i] = RotateZ(t, 2*math.Pi*float64(i)/float64(n), center)
	}
	return Union(shapes...)
}
