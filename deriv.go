package frep

// Deriv returns the symbolic partial derivative of t with respect to axis,
// which must be one of X(), Y(), Z() or a free variable. Derivatives of
// min, max, abs and compare are piecewise; the result at the crease takes
// one branch. Mod with a non-constant divisor has no rule and returns
// ErrNonDifferentiable.
func Deriv(t, axis Tree) (Tree, error) {
	if t.n == nil || axis.n == nil {
		return Tree{}, ErrNilTree
	}
	switch axis.n.op {
	case OpVarX, OpVarY, OpVarZ, OpVarFree:
	default:
		return Tree{}, &OpError{Op: axis.n.op, Err: ErrNonDifferentiable}
	}
	memo := make(map[*node]*node)
	d, err := derivNode(t.n, axis.n, memo)
	if err != nil {
		return Tree{}, err
	}
	return Simplify(Tree{n: d}), nil
}

func derivNode(n, axis *node, memo map[*node]*node) (*node, error) {
	if d, ok := memo[n]; ok {
		return d, nil
	}
	d, err := derivRule(n, axis, memo)
	if err != nil {
		return nil, err
	}
	memo[n] = d
	return d, nil
}

func derivRule(n, axis *node, memo map[*node]*node) (*node, error) {
	zero := Const(0).n
	one := Const(1).n
	if n == axis {
		return one, nil
	}
	switch n.op {
	case OpConst, OpVarX, OpVarY, OpVarZ, OpVarFree, OpConstVar:
		return zero, nil
	}

	da, err := derivNode(n.lhs, axis, memo)
	if err != nil {
		return nil, err
	}
	var db *node
	if n.rhs != nil {
		db, err = derivNode(n.rhs, axis, memo)
		if err != nil {
			return nil, err
		}
	}
	a := Tree{n: n.lhs}
	dA := Tree{n: da}

	switch n.op {
	case OpSquare:
		return Const(2).Mul(a).Mul(dA).n, nil
	case OpSqrt:
		return dA.Div(Const(2).Mul(Tree{n: n})).n, nil
	case OpNeg:
		return dA.Neg().n, nil
	case OpSin:
		return a.Cos().Mul(dA).n, nil
	case OpCos:
		return a.Sin().Neg().Mul(dA).n, nil
	case OpTan:
		return dA.Div(a.Cos().Square()).n, nil
	case OpAsin:
		return dA.Div(Const(1).Sub(a.Square()).Sqrt()).n, nil
	case OpAcos:
		return dA.Neg().Div(Const(1).Sub(a.Square()).Sqrt()).n, nil
	case OpAtan:
		return dA.Div(Const(1).Add(a.Square())).n, nil
	case OpExp:
		return (Tree{n: n}).Mul(dA).n, nil
	case OpAbs:
		// d|a| = sign(a) da, with sign written as compare against zero.
		return a.Compare(Const(0)).Mul(dA).n, nil
	case OpLog:
		return dA.Div(a).n, nil
	case OpRecip:
		return dA.Neg().Div(a.Square()).n, nil
	}

	b := Tree{n: n.rhs}
	dB := Tree{n: db}

	switch n.op {
	case OpAdd:
		return dA.Add(dB).n, nil
	case OpSub:
		return dA.Sub(dB).n, nil
	case OpMul:
		return dA.Mul(b).Add(a.Mul(dB)).n, nil
	case OpDiv:
		return dA.Mul(b).Sub(a.Mul(dB)).Div(b.Square()).n, nil
	case OpMin, OpMax:
		// Blend the branch derivatives by which side wins; c is -1, 0
		// or 1 so the weights select a branch away from the crease.
		c := a.Compare(b)
		var wa, wb Tree
		if n.op == OpMin {
			wa = Const(1).Sub(c).Div(Const(2))
			wb = Const(1).Add(c).Div(Const(2))
		} else {
			wa = Const(1).Add(c).Div(Const(2))
			wb = Const(1).Sub(c).Div(Const(2))
		}
		return wa.Mul(dA).Add(wb.Mul(dB)).n, nil
	case OpAtan2:
		// d atan2(a, b) = (b da - a db) / (a^2 + b^2)
		denom := a.Square().Add(b.Square())
		return b.Mul(dA).Sub(a.Mul(dB)).Div(denom).n, nil
	case OpPow:
		if n.rhs.op == OpConst {
			e := n.rhs.val
			return Const(e).Mul(a.Pow(Const(e - 1))).Mul(dA).n, nil
		}
		// a^b = exp(b log a)
		self := Tree{n: n}
		return self.Mul(dB.Mul(a.Log()).Add(b.Mul(dA).Div(a))).n, nil
	case OpNthRoot:
		if n.rhs.op != OpConst {
			return nil, &OpError{Op: n.op, Err: ErrNonDifferentiable}
		}
		e := 1 / n.rhs.val
		return Const(e).Mul(a.Pow(Const(e - 1))).Mul(dA).n, nil
	case OpMod:
		// Away from wrap points mod(a, b) has slope da when b is constant.
		if n.rhs.op != OpConst {
			return nil, &OpError{Op: n.op, Err: ErrNonDifferentiable}
		}
		return da, nil
	case OpNanFill:
		return dA.NanFill(dB).n, nil
	case OpCompare:
		// Piecewise constant.
		return Const(0).n, nil
	}
	return nil, &OpError{Op: n.op, Err: ErrNonDifferentiable}
}
