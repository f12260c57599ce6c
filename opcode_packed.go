//go:build frep_packedopcodes

package frep

// Tightly packed opcode wire layout. The dense codes are the in-memory
// numbering written straight to disk. Builds with this tag cannot load
// trees saved by default builds and vice versa; Decode fails loudly on
// the mismatch.

// PackedOpcodes reports which wire layout this binary was built with.
const PackedOpcodes = true

const wireLayoutByte = 'P'

// wireCode returns the on-disk byte for an opcode.
func wireCode(op Opcode) uint8 { return uint8(op) }

// opcodeFromWire returns the opcode for an on-disk byte, or OpInvalid.
func opcodeFromWire(w uint8) Opcode {
	op := Opcode(w)
	if !op.Valid() {
		return OpInvalid
	}
	return op
}
