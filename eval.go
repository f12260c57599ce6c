package frep

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/frep/internal/interval"
)

// evalUnary applies a unary opcode to a scalar. It is shared by the
// evaluator tape and the simplifier's constant folding.
func evalUnary(op Opcode, a float64) float64 {
	switch op {
	case OpConstVar:
		return a
	case OpSquare:
		return a * a
	case OpSqrt:
		return math.Sqrt(a)
	case OpNeg:
		return -a
	case OpSin:
		return math.Sin(a)
	case OpCos:
		return math.Cos(a)
	case OpTan:
		return math.Tan(a)
	case OpAsin:
		return math.Asin(a)
	case OpAcos:
		return math.Acos(a)
	case OpAtan:
		return math.Atan(a)
	case OpExp:
		return math.Exp(a)
	case OpAbs:
		return math.Abs(a)
	case OpLog:
		return math.Log(a)
	case OpRecip:
		return 1 / a
	}
	panic("frep: bad unary opcode " + op.String())
}

// evalBinary applies a binary opcode to scalars.
func evalBinary(op Opcode, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpMul:
		return a * b
	case OpMin:
		return math.Min(a, b)
	case OpMax:
		return math.Max(a, b)
	case OpSub:
		return a - b
	case OpDiv:
		return a / b
	case OpAtan2:
		return math.Atan2(a, b)
	case OpPow:
		return math.Pow(a, b)
	case OpNthRoot:
		return nthRoot(a, b)
	case OpMod:
		return euclMod(a, b)
	case OpNanFill:
		if math.IsNaN(a) {
			return b
		}
		return a
	case OpCompare:
		switch {
		case math.IsNaN(a) || math.IsNaN(b):
			return math.NaN()
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	panic("frep: bad binary opcode " + op.String())
}

// nthRoot computes a^(1/n). Odd integer roots of negatives are real.
func nthRoot(a, n float64) float64 {
	if a < 0 && n == math.Trunc(n) && int64(n)%2 != 0 {
		return -math.Pow(-a, 1/n)
	}
	return math.Pow(a, 1/n)
}

// euclMod computes a mod b with the result taking the sign of b,
// matching remainder-of-floored-division semantics.
func euclMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// tapeInstr is one evaluator instruction. lhs and rhs index earlier tape
// slots; vidx indexes the bound variable slot for free variables.
type tapeInstr struct {
	op   Opcode
	lhs  int32
	rhs  int32
	vidx int32
	val  float64
}

// Evaluator is a tree compiled to a flat postorder tape for repeated
// point and interval evaluation. A single Evaluator may be used from
// multiple goroutines concurrently; register buffers come from a pool.
type Evaluator struct {
	tape []tapeInstr
	vars []float64 // snapshot of bound variable values
	mu   sync.RWMutex
	pool sync.Pool
	iv   sync.Pool
}

// NewEvaluator compiles a tree against a variable set. Trees with free
// variables not present in vars return ErrUnboundVar.
func NewEvaluator(t Tree, vars *Variables) (*Evaluator, error) {
	if t.n == nil {
		return nil, ErrNilTree
	}
	e := &Evaluator{vars: make([]float64, vars.Len())}
	if vars != nil {
		copy(e.vars, vars.vals)
	}
	slot := make(map[*node]int32)
	var compile func(n *node) (int32, error)
	compile = func(n *node) (int32, error) {
		if s, ok := slot[n]; ok {
			return s, nil
		}
		instr := tapeInstr{op: n.op, lhs: -1, rhs: -1, vidx: -1}
		switch n.op {
		case OpConst:
			instr.val = n.val
		case OpVarFree:
			i := vars.indexOf(n)
			if i < 0 {
				return 0, ErrUnboundVar
			}
			instr.vidx = int32(i)
		case OpVarX, OpVarY, OpVarZ:
		default:
			l, err := compile(n.lhs)
			if err != nil {
				return 0, err
			}
			instr.lhs = l
			if n.rhs != nil {
				r, err := compile(n.rhs)
				if err != nil {
					return 0, err
				}
				instr.rhs = r
			}
		}
		s := int32(len(e.tape))
		e.tape = append(e.tape, instr)
		slot[n] = s
		return s, nil
	}
	if _, err := compile(t.n); err != nil {
		return nil, err
	}
	n := len(e.tape)
	e.pool.New = func() any { return make([]float64, n) }
	e.iv.New = func() any { return make([]interval.Interval, n) }
	return e, nil
}

// UpdateVars re-snapshots variable values from vars. It returns
// ErrVarMismatch when vars does not hold the same number of variables the
// evaluator was compiled with. Evaluations already in flight keep the old
// values.
func (e *Evaluator) UpdateVars(vars *Variables) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if vars.Len() != len(e.vars) {
		return ErrVarMismatch
	}
	if vars != nil {
		copy(e.vars, vars.vals)
	}
	return nil
}

// At evaluates the compiled tree at a point.
func (e *Evaluator) At(p r3.Vec) float64 {
	reg := e.pool.Get().([]float64)
	defer e.pool.Put(reg)
	e.mu.RLock()
	vars := e.vars
	e.mu.RUnlock()
	for i, in := range e.tape {
		var v float64
		switch in.op {
		case OpConst:
			v = in.val
		case OpVarX:
			v = p.X
		case OpVarY:
			v = p.Y
		case OpVarZ:
			v = p.Z
		case OpVarFree:
			v = vars[in.vidx]
		default:
			if in.rhs >= 0 {
				v = evalBinary(in.op, reg[in.lhs], reg[in.rhs])
			} else {
				v = evalUnary(in.op, reg[in.lhs])
			}
		}
		reg[i] = v
	}
	return reg[len(reg)-1]
}

// Evaluate is At under the name the render package's Field3 interface
// expects.
func (e *Evaluator) Evaluate(p r3.Vec) float64 { return e.At(p) }

// Interval evaluates a conservative range of the tree over a box: the true
// range of values inside b is contained in [lo, hi]. lo > 0 proves the box
// entirely outside the solid and hi < 0 entirely inside.
func (e *Evaluator) Interval(b r3.Box) (lo, hi float64) {
	reg := e.iv.Get().([]interval.Interval)
	defer e.iv.Put(reg)
	e.mu.RLock()
	vars := e.vars
	e.mu.RUnlock()
	for i, in := range e.tape {
		var v interval.Interval
		switch in.op {
		case OpConst:
			v = interval.Point(in.val)
		case OpVarX:
			v = interval.New(b.Min.X, b.Max.X)
		case OpVarY:
			v = interval.New(b.Min.Y, b.Max.Y)
		case OpVarZ:
			v = interval.New(b.Min.Z, b.Max.Z)
		case OpVarFree:
			v = interval.Point(vars[in.vidx])
		default:
			if in.rhs >= 0 {
				v = evalBinaryInterval(in.op, reg[in.lhs], reg[in.rhs])
			} else {
				v = evalUnaryInterval(in.op, reg[in.lhs])
			}
		}
		reg[i] = v
	}
	last := reg[len(reg)-1]
	return last.Lo, last.Hi
}

func evalUnaryInterval(op Opcode, a interval.Interval) interval.Interval {
	switch op {
	case OpConstVar:
		return a
	case OpSquare:
		return a.Square()
	case OpSqrt:
		return a.Sqrt()
	case OpNeg:
		return a.Neg()
	case OpSin:
		return a.Sin()
	case OpCos:
		return a.Cos()
	case OpTan:
		return a.Tan()
	case OpAsin:
		return a.Asin()
	case OpAcos:
		return a.Acos()
	case OpAtan:
		return a.Atan()
	case OpExp:
		return a.Exp()
	case OpAbs:
		return a.Abs()
	case OpLog:
		return a.Log()
	case OpRecip:
		return a.Recip()
	}
	panic("frep: bad unary opcode " + op.String())
}

func evalBinaryInterval(op Opcode, a, b interval.Interval) interval.Interval {
	switch op {
	case OpAdd:
		return a.Add(b)
	case OpMul:
		return a.Mul(b)
	case OpMin:
		return a.Min(b)
	case OpMax:
		return a.Max(b)
	case OpSub:
		return a.Sub(b)
	case OpDiv:
		return a.Div(b)
	case OpAtan2:
		return a.Atan2(b)
	case OpPow:
		return a.Pow(b)
	case OpNthRoot:
		return a.NthRoot(b)
	case OpMod:
		return a.Mod(b)
	case OpNanFill:
		return a.NanFill(b)
	case OpCompare:
		return a.Compare(b)
	}
	panic("frep: bad binary opcode " + op.String())
}
