package frep

import "errors"

var (
	// ErrNotConstant is returned when querying the value of a tree that is
	// not a single constant node.
	ErrNotConstant = errors.New("frep: tree is not a constant")
	// ErrArity is returned by Unary and Binary on an opcode of the wrong
	// arity.
	ErrArity = errors.New("frep: opcode arity mismatch")
	// ErrNilTree is returned when an operand is the zero value Tree.
	ErrNilTree = errors.New("frep: zero value Tree operand")
	// ErrVarNotFound is returned when a named variable is missing from a
	// Variables set.
	ErrVarNotFound = errors.New("frep: variable not found")
	// ErrVarExists is returned when adding a variable name twice.
	ErrVarExists = errors.New("frep: variable already added")
	// ErrUnboundVar is returned when compiling a tree whose free variables
	// are not covered by the Variables set.
	ErrUnboundVar = errors.New("frep: unbound free variable")
	// ErrVarMismatch is returned by Evaluator.UpdateVars when the set does
	// not match the one the evaluator was compiled with.
	ErrVarMismatch = errors.New("frep: variable set does not match evaluator")
	// ErrLayoutMismatch is returned when loading a tree saved under the
	// other opcode wire layout. See PackedOpcodes.
	ErrLayoutMismatch = errors.New("frep: tree file uses the other opcode wire layout")
	// ErrNonDifferentiable is returned by Deriv for trees containing
	// operations with no symbolic derivative rule.
	ErrNonDifferentiable = errors.New("frep: no symbolic derivative for operation")
)

// OpError decorates an error with the opcode that caused it.
type OpError struct {
	Op  Opcode
	Err error
}

func (e *OpError) Error() string {
	return "frep: op " + e.Op.String() + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }
