//go:build !frep_packedopcodes

package frep

// Default opcode wire layout. Codes follow the historical sparse numbering
// so that saved trees remain loadable across releases: abs, recip and log
// were added late and sit above the binary block.

// PackedOpcodes reports which wire layout this binary was built with.
const PackedOpcodes = false

const wireLayoutByte = 'U'

var opWire = [opEnd]uint8{
	OpConst:    1,
	OpVarX:     2,
	OpVarY:     3,
	OpVarZ:     4,
	OpVarFree:  5,
	OpConstVar: 6,
	OpSquare:   7,
	OpSqrt:     8,
	OpNeg:      9,
	OpSin:      10,
	OpCos:      11,
	OpTan:      12,
	OpAsin:     13,
	OpAcos:     14,
	OpAtan:     15,
	OpExp:      16,
	OpAdd:      17,
	OpMul:      18,
	OpMin:      19,
	OpMax:      20,
	OpSub:      21,
	OpDiv:      22,
	OpAtan2:    23,
	OpPow:      24,
	OpNthRoot:  25,
	OpMod:      26,
	OpNanFill:  27,
	OpAbs:      28,
	OpRecip:    29,
	OpLog:      30,
	OpCompare:  31,
}

var wireOp [256]Opcode

func init() {
	for op, w := range opWire {
		if w != 0 {
			wireOp[w] = Opcode(op)
		}
	}
}

// wireCode returns the on-disk byte for an opcode.
func wireCode(op Opcode) uint8 { return opWire[op] }

// opcodeFromWire returns the opcode for an on-disk byte, or OpInvalid.
func opcodeFromWire(w uint8) Opcode { return wireOp[w] }
