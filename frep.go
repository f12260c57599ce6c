// Package frep implements a solid-modeling kernel based on function
// representation (F-Rep). A shape is the zero level set of a scalar field
// built as a symbolic expression tree over the spatial coordinates x, y, z.
//
// Trees are immutable and interned: constructing a structurally identical
// expression twice returns the identical handle, so structural equality is
// pointer equality and common subexpressions are shared. Free variables are
// the one exception, each Var call mints a new identity.
//
// The render subpackage meshes a tree over a bounding region and exports the
// result to STL or SVG.
package frep

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// Tree is an opaque handle to an immutable expression tree node.
// The zero value is invalid; use the package constructors.
type Tree struct {
	n *node
}

type node struct {
	op  Opcode
	lhs *node
	rhs *node
	val float64 // payload for OpConst
}

// nodeKey identifies a node up to structural equality. Operand identity
// suffices for deep structural equality because operands are themselves
// interned.
type nodeKey struct {
	op   Opcode
	lhs  *node
	rhs  *node
	bits uint64
}

var (
	internMu sync.Mutex
	interned = make(map[nodeKey]*node)
)

// intern returns the canonical node for (op, lhs, rhs, val).
func intern(op Opcode, lhs, rhs *node, val float64) *node {
	key := nodeKey{op: op, lhs: lhs, rhs: rhs, bits: math.Float64bits(val)}
	internMu.Lock()
	defer internMu.Unlock()
	if n, ok := interned[key]; ok {
		return n
	}
	n := &node{op: op, lhs: lhs, rhs: rhs, val: val}
	interned[key] = n
	return n
}

// X returns the tree evaluating to the x spatial coordinate.
func X() Tree { return Tree{n: intern(OpVarX, nil, nil, 0)} }

// Y returns the tree evaluating to the y spatial coordinate.
func Y() Tree { return Tree{n: intern(OpVarY, nil, nil, 0)} }

// Z returns the tree evaluating to the z spatial coordinate.
func Z() Tree { return Tree{n: intern(OpVarZ, nil, nil, 0)} }

// Const returns a constant tree.
func Const(v float64) Tree { return Tree{n: intern(OpConst, nil, nil, v)} }

// Var returns a new free variable. Every call returns a distinct identity;
// free variables are never deduplicated by interning. Bind values with a
// Variables set when evaluating.
func Var() Tree {
	return Tree{n: &node{op: OpVarFree}}
}

// Unary builds a unary operation, checking opcode arity.
func Unary(op Opcode, t Tree) (Tree, error) {
	if op.Arity() != 1 {
		return Tree{}, &OpError{Op: op, Err: ErrArity}
	}
	if t.n == nil {
		return Tree{}, &OpError{Op: op, Err: ErrNilTree}
	}
	return Tree{n: intern(op, t.n, nil, 0)}, nil
}

// Binary builds a binary operation, checking opcode arity.
func Binary(op Opcode, a, b Tree) (Tree, error) {
	if op.Arity() != 2 {
		return Tree{}, &OpError{Op: op, Err: ErrArity}
	}
	if a.n == nil || b.n == nil {
		return Tree{}, &OpError{Op: op, Err: ErrNilTree}
	}
	return Tree{n: intern(op, a.n, b.n, 0)}, nil
}

func unaryOp(op Opcode, t Tree) Tree {
	if t.n == nil {
		panic("frep: zero value Tree")
	}
	return Tree{n: intern(op, t.n, nil, 0)}
}

func binaryOp(op Opcode, a, b Tree) Tree {
	if a.n == nil || b.n == nil {
		panic("frep: zero value Tree")
	}
	return Tree{n: intern(op, a.n, b.n, 0)}
}

func (t Tree) Square() Tree { return unaryOp(OpSquare, t) }
func (t Tree) Sqrt() Tree   { return unaryOp(OpSqrt, t) }
func (t Tree) Neg() Tree    { return unaryOp(OpNeg, t) }
func (t Tree) Sin() Tree    { return unaryOp(OpSin, t) }
func (t Tree) Cos() Tree    { return unaryOp(OpCos, t) }
func (t Tree) Tan() Tree    { return unaryOp(OpTan, t) }
func (t Tree) Asin() Tree   { return unaryOp(OpAsin, t) }
func (t Tree) Acos() Tree   { return unaryOp(OpAcos, t) }
func (t Tree) Atan() Tree   { return unaryOp(OpAtan, t) }
func (t Tree) Exp() Tree    { return unaryOp(OpExp, t) }
func (t Tree) Abs() Tree    { return unaryOp(OpAbs, t) }
func (t Tree) Log() Tree    { return unaryOp(OpLog, t) }
func (t Tree) Recip() Tree  { return unaryOp(OpRecip, t) }

// ConstVar marks a subtree as constant with respect to differentiation.
// Evaluation passes the value through unchanged.
func (t Tree) ConstVar() Tree { return unaryOp(OpConstVar, t) }

func (t Tree) Add(u Tree) Tree     { return binaryOp(OpAdd, t, u) }
func (t Tree) Mul(u Tree) Tree     { return binaryOp(OpMul, t, u) }
func (t Tree) Min(u Tree) Tree     { return binaryOp(OpMin, t, u) }
func (t Tree) Max(u Tree) Tree     { return binaryOp(OpMax, t, u) }
func (t Tree) Sub(u Tree) Tree     { return binaryOp(OpSub, t, u) }
func (t Tree) Div(u Tree) Tree     { return binaryOp(OpDiv, t, u) }
func (t Tree) Atan2(x Tree) Tree   { return binaryOp(OpAtan2, t, x) }
func (t Tree) Pow(e Tree) Tree     { return binaryOp(OpPow, t, e) }
func (t Tree) NthRoot(n Tree) Tree { return binaryOp(OpNthRoot, t, n) }
func (t Tree) Mod(u Tree) Tree     { return binaryOp(OpMod, t, u) }
func (t Tree) NanFill(u Tree) Tree { return binaryOp(OpNanFill, t, u) }
func (t Tree) Compare(u Tree) Tree { return binaryOp(OpCompare, t, u) }

// Op returns the node's opcode, OpInvalid for the zero Tree.
func (t Tree) Op() Opcode {
	if t.n == nil {
		return OpInvalid
	}
	return t.n.op
}

// Operands returns the node's operand trees in order. Leaves return nil.
func (t Tree) Operands() []Tree {
	if t.n == nil {
		return nil
	}
	switch t.n.op.Arity() {
	case 1:
		return []Tree{{n: t.n.lhs}}
	case 2:
		return []Tree{{n: t.n.lhs}, {n: t.n.rhs}}
	}
	return nil
}

// Value returns the constant value of the tree. It returns ErrNotConstant
// unless the tree is a single constant node.
func (t Tree) Value() (float64, error) {
	if t.n == nil || t.n.op != OpConst {
		return 0, ErrNotConstant
	}
	return t.n.val, nil
}

// IsVar reports whether the tree is a single free variable.
func (t Tree) IsVar() bool { return t.n != nil && t.n.op == OpVarFree }

// Same reports whether two handles refer to the identical interned node.
// Because trees are interned this is structural equality.
func (t Tree) Same(u Tree) bool { return t.n == u.n }

// NodeCount returns the number of unique nodes in the tree.
func (t Tree) NodeCount() int {
	if t.n == nil {
		return 0
	}
	seen := make(map[*node]bool)
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		walk(n.lhs)
		walk(n.rhs)
	}
	walk(t.n)
	return len(seen)
}

// OpCounts returns a histogram of opcode use over unique nodes.
func (t Tree) OpCounts() map[Opcode]int {
	counts := make(map[Opcode]int)
	if t.n == nil {
		return counts
	}
	seen := make(map[*node]bool)
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		counts[n.op]++
		walk(n.lhs)
		walk(n.rhs)
	}
	walk(t.n)
	return counts
}

// HasFreeVars reports whether the tree contains any free variable.
func (t Tree) HasFreeVars() bool {
	found := false
	seen := make(map[*node]bool)
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil || seen[n] || found {
			return
		}
		seen[n] = true
		if n.op == OpVarFree {
			found = true
			return
		}
		walk(n.lhs)
		walk(n.rhs)
	}
	walk(t.n)
	return found
}

// String renders the tree as an s-expression. Shared subtrees are expanded
// at each use, so the output can be large for heavily shared trees.
func (t Tree) String() string {
	if t.n == nil {
		return "()"
	}
	var sb strings.Builder
	writeSexpr(&sb, t.n)
	return sb.String()
}

func writeSexpr(sb *strings.Builder, n *node) {
	switch n.op.Arity() {
	case 0:
		if n.op == OpConst {
			sb.WriteString(strconv.FormatFloat(n.val, 'g', -1, 64))
		} else {
			sb.WriteString(n.op.String())
		}
	case 1:
		sb.WriteByte('(')
		sb.WriteString(n.op.String())
		sb.WriteByte(' ')
		writeSexpr(sb, n.lhs)
		sb.WriteByte(')')
	case 2:
		sb.WriteByte('(')
		sb.WriteString(n.op.String())
		sb.WriteByte(' ')
		writeSexpr(sb, n.lhs)
		sb.WriteByte(' ')
		writeSexpr(sb, n.rhs)
		sb.WriteByte(')')
	}
}

// Remap substitutes the spatial coordinates of t with the trees x, y and z.
// It is the basis of every coordinate transform in this package.
func Remap(t, x, y, z Tree) Tree {
	if t.n == nil || x.n == nil || y.n == nil || z.n == nil {
		panic("frep: zero value Tree")
	}
	memo := make(map[*node]*node)
	return Tree{n: remapNode(t.n, x.n, y.n, z.n, memo)}
}

func remapNode(n, x, y, z *node, memo map[*node]*node) *node {
	if r, ok := memo[n]; ok {
		return r
	}
	var r *node
	switch n.op {
	case OpVarX:
		r = x
	case OpVarY:
		r = y
	case OpVarZ:
		r = z
	case OpConst, OpVarFree:
		r = n
	default:
		lhs := remapNode(n.lhs, x, y, z, memo)
		var rhs *node
		if n.rhs != nil {
			rhs = remapNode(n.rhs, x, y, z, memo)
		}
		r = intern(n.op, lhs, rhs, n.val)
	}
	memo[n] = r
	return r
}

// Eval evaluates a tree without free variables at a point. It compiles a
// throwaway evaluator; use an Evaluator for repeated evaluation.
func Eval(t Tree, p r3.Vec) (float64, error) {
	e, err := NewEvaluator(t, nil)
	if err != nil {
		return 0, err
	}
	return e.At(p), nil
}
