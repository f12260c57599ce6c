package frep

// Union returns the boolean union of the shapes. With no arguments it
// returns Emptiness.
func Union(shapes ...Tree) Tree {
	if len(shapes) == 0 {
		return Emptiness()
	}
	t := shapes[0]
	for _, s := range shapes[1:] {
		t = t.Min(s)
	}
	return t
}

// Intersect returns the boolean intersection of the shapes.
func Intersect(shapes ...Tree) Tree {
	if len(shapes) == 0 {
		return Emptiness()
	}
	t := shapes[0]
	for _, s := range shapes[1:] {
		t = t.Max(s)
	}
	return t
}

// Difference subtracts every shape in sub from a.
func Difference(a Tree, sub ...Tree) Tree {
	if len(sub) == 0 {
		return a
	}
	return a.Max(Union(sub...).Neg())
}

// Inverse swaps the inside and outside of a shape.
func Inverse(t Tree) Tree { return t.Neg() }

// Offset grows the shape outward by o, or shrinks it for negative o.
// Exact only for distance fields.
func Offset(t Tree, o float64) Tree { return t.Sub(Const(o)) }

// Shell hollows the shape into a skin of the given thickness centered on
// its surface.
func Shell(t Tree, thickness float64) Tree {
	return t.Abs().Sub(Const(thickness / 2))
}

// Clearance subtracts b grown by o from a, leaving a gap around b.
func Clearance(a, b Tree, o float64) Tree {
	return Difference(a, Offset(b, o))
}

// Morph interpolates between two shapes; m is 0 for a and 1 for b.
func Morph(a, b Tree, m float64) Tree {
	return a.Mul(Const(1 - m)).Add(b.Mul(Const(m)))
}

// BlendRough unions two shapes with a rough fillet along their
// intersection. m sets the fillet size.
func BlendRough(a, b Tree, m float64) Tree {
	joint := a.Abs().Sqrt().Add(b.Abs().Sqrt()).Sub(Const(m))
	return Union(a, b, joint)
}
