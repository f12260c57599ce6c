package frep

import "testing"

func TestOpcodeArity(t *testing.T) {
	for op := OpConst; op < opEnd; op++ {
		if a := op.Arity(); a < 0 || a > 2 {
			t.Errorf("%v: arity %d", op, a)
		}
	}
	if OpInvalid.Arity() != -1 || opEnd.Arity() != -1 {
		t.Error("invalid opcodes should have arity -1")
	}
	for op, want := range map[Opcode]int{
		OpConst: 0, OpVarX: 0, OpVarFree: 0,
		OpSin: 1, OpRecip: 1, OpConstVar: 1,
		OpAdd: 2, OpCompare: 2,
	} {
		if got := op.Arity(); got != want {
			t.Errorf("%v: arity %d, want %d", op, got, want)
		}
	}
}

func TestOpcodeString(t *testing.T) {
	if OpAdd.String() != "add" || OpNthRoot.String() != "nth-root" {
		t.Error("opcode names wrong")
	}
	if OpInvalid.String() != "invalid" || Opcode(200).String() != "invalid" {
		t.Error("invalid opcodes should stringify as invalid")
	}
	for op := OpConst; op < opEnd; op++ {
		if op.String() == "" || op.String() == "invalid" {
			t.Errorf("opcode %d has no name", op)
		}
	}
}

// Wire codes must round trip for every opcode under the build's layout.
func TestWireRoundTrip(t *testing.T) {
	seen := make(map[uint8]Opcode)
	for op := OpConst; op < opEnd; op++ {
		w := wireCode(op)
		if w == 0 {
			t.Errorf("%v: no wire code assigned", op)
			continue
		}
		if prev, dup := seen[w]; dup {
			t.Errorf("wire code %d assigned to both %v and %v", w, prev, op)
		}
		seen[w] = op
		if got := opcodeFromWire(w); got != op {
			t.Errorf("%v: round trips to %v", op, got)
		}
	}
	if opcodeFromWire(0) != OpInvalid || opcodeFromWire(255) != OpInvalid {
		t.Error("unassigned wire bytes should map to OpInvalid")
	}
}
