package frep

// Opcode is the discriminant tag identifying an expression tree node's
// operation. The in-memory numbering is dense and grouped by arity; the
// on-disk numbering is a build-time property, see wireCode.
type Opcode uint8

const (
	OpInvalid Opcode = iota

	// Leaf opcodes.
	OpConst
	OpVarX
	OpVarY
	OpVarZ
	OpVarFree

	// Unary opcodes.
	OpConstVar
	OpSquare
	OpSqrt
	OpNeg
	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan
	OpExp
	OpAbs
	OpLog
	OpRecip

	// Binary opcodes.
	OpAdd
	OpMul
	OpMin
	OpMax
	OpSub
	OpDiv
	OpAtan2
	OpPow
	OpNthRoot
	OpMod
	OpNanFill
	OpCompare

	opEnd // sentinel, keep last
)

// Arity returns the number of operands the opcode takes: 0 for leaves,
// 1 for unary operations and 2 for binary operations. Invalid opcodes
// return -1.
func (op Opcode) Arity() int {
	switch {
	case op >= OpConst && op <= OpVarFree:
		return 0
	case op >= OpConstVar && op <= OpRecip:
		return 1
	case op >= OpAdd && op <= OpCompare:
		return 2
	}
	return -1
}

// Valid reports whether op names a real operation.
func (op Opcode) Valid() bool { return op > OpInvalid && op < opEnd }

var opNames = [opEnd]string{
	OpConst:    "const",
	OpVarX:     "x",
	OpVarY:     "y",
	OpVarZ:     "z",
	OpVarFree:  "var",
	OpConstVar: "const-var",
	OpSquare:   "square",
	OpSqrt:     "sqrt",
	OpNeg:      "neg",
	OpSin:      "sin",
	OpCos:      "cos",
	OpTan:      "tan",
	OpAsin:     "asin",
	OpAcos:     "acos",
	OpAtan:     "atan",
	OpExp:      "exp",
	OpAbs:      "abs",
	OpLog:      "log",
	OpRecip:    "recip",
	OpAdd:      "add",
	OpMul:      "mul",
	OpMin:      "min",
	OpMax:      "max",
	OpSub:      "sub",
	OpDiv:      "div",
	OpAtan2:    "atan2",
	OpPow:      "pow",
	OpNthRoot:  "nth-root",
	OpMod:      "mod",
	OpNanFill:  "nan-fill",
	OpCompare:  "compare",
}

func (op Opcode) String() string {
	if !op.Valid() {
		return "invalid"
	}
	return opNames[op]
}
