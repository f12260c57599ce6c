package frep

import "math"

// Simplify returns an equivalent tree with constant subexpressions folded
// and algebraic identities applied. Pointer equality of interned operands
// drives identities like min(a, a) = a. Simplification preserves IEEE
// semantics at evaluated points except for NaN propagation through pruned
// branches (x*0 folds to 0).
func Simplify(t Tree) Tree {
	if t.n == nil {
		return t
	}
	memo := make(map[*node]*node)
	return Tree{n: simplifyNode(t.n, memo)}
}

func simplifyNode(n *node, memo map[*node]*node) *node {
	if s, ok := memo[n]; ok {
		return s
	}
	s := n
	if n.op.Arity() > 0 {
		lhs := simplifyNode(n.lhs, memo)
		var rhs *node
		if n.rhs != nil {
			rhs = simplifyNode(n.rhs, memo)
		}
		s = rewrite(n.op, lhs, rhs)
	}
	memo[n] = s
	return s
}

// rewrite builds op(lhs, rhs) applying one layer of folding and identities.
// Operands are already simplified.
func rewrite(op Opcode, lhs, rhs *node) *node {
	if rhs == nil {
		if lhs.op == OpConst {
			return Const(evalUnary(op, lhs.val)).n
		}
		switch op {
		case OpNeg:
			if lhs.op == OpNeg {
				return lhs.lhs
			}
		case OpRecip:
			if lhs.op == OpRecip {
				return lhs.lhs
			}
		case OpSqrt:
			if lhs.op == OpSquare {
				return intern(OpAbs, lhs.lhs, nil, 0)
			}
		case OpAbs:
			switch lhs.op {
			case OpAbs, OpSquare, OpSqrt, OpExp:
				// Already nonnegative.
				return lhs
			case OpNeg:
				return intern(OpAbs, lhs.lhs, nil, 0)
			}
		}
		return intern(op, lhs, nil, 0)
	}

	lc := lhs.op == OpConst
	rc := rhs.op == OpConst
	if lc && rc {
		return Const(evalBinary(op, lhs.val, rhs.val)).n
	}
	switch op {
	case OpAdd:
		if lc && lhs.val == 0 {
			return rhs
		}
		if rc && rhs.val == 0 {
			return lhs
		}
	case OpSub:
		if rc && rhs.val == 0 {
			return lhs
		}
		if lc && lhs.val == 0 {
			return intern(OpNeg, rhs, nil, 0)
		}
		if lhs == rhs {
			return Const(0).n
		}
	case OpMul:
		if lc {
			switch lhs.val {
			case 0:
				return Const(0).n
			case 1:
				return rhs
			case -1:
				return intern(OpNeg, rhs, nil, 0)
			}
		}
		if rc {
			switch rhs.val {
			case 0:
				return Const(0).n
			case 1:
				return lhs
			case -1:
				return intern(OpNeg, lhs, nil, 0)
			}
		}
	case OpDiv:
		if rc && rhs.val == 1 {
			return lhs
		}
		if rc && rhs.val == -1 {
			return intern(OpNeg, lhs, nil, 0)
		}
		if lc && lhs.val == 0 {
			return Const(0).n
		}
	case OpMin, OpMax:
		if lhs == rhs {
			return lhs
		}
	case OpNanFill:
		if lc && !math.IsNaN(lhs.val) {
			return lhs
		}
	case OpPow:
		if rc && rhs.val == 1 {
			return lhs
		}
		if rc && rhs.val == 0 {
			return Const(1).n
		}
	case OpNthRoot:
		if rc && rhs.val == 1 {
			return lhs
		}
		if rc && rhs.val == 2 {
			return intern(OpSqrt, lhs, nil, 0)
		}
	}
	return intern(op, lhs, rhs, 0)
}
