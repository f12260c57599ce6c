package frep

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Tree file format: a 4 byte magic, a version byte, a layout byte naming
// the opcode wire layout the writer was built with, a uint32 node count,
// then one record per node in postorder. Each record is the opcode wire
// byte followed by its payload: a little-endian float64 for constants,
// uvarint operand indices for unary and binary operations, nothing for
// leaves. Operand indices refer to earlier records, so a single pass
// rebuilds the tree. Free variables regain fresh identities on load.

var treeMagic = [4]byte{'F', 'R', 'e', 'p'}

const treeVersion = 1

// Encode writes the tree to w.
func (t Tree) Encode(w io.Writer) error {
	if t.n == nil {
		return ErrNilTree
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(treeMagic[:]); err != nil {
		return err
	}
	bw.WriteByte(treeVersion)
	bw.WriteByte(wireLayoutByte)

	index := make(map[*node]uint64)
	var order []*node
	var walk func(n *node)
	walk = func(n *node) {
		if _, ok := index[n]; ok {
			return
		}
		if n.lhs != nil {
			walk(n.lhs)
		}
		if n.rhs != nil {
			walk(n.rhs)
		}
		index[n] = uint64(len(order))
		order = append(order, n)
	}
	walk(t.n)

	if uint64(len(order)) > math.MaxUint32 {
		return errors.New("frep: tree too large to encode")
	}
	var cnt [4]byte
	binary.LittleEndian.PutUint32(cnt[:], uint32(len(order)))
	if _, err := bw.Write(cnt[:]); err != nil {
		return err
	}

	var buf [binary.MaxVarintLen64]byte
	for _, n := range order {
		bw.WriteByte(wireCode(n.op))
		switch n.op.Arity() {
		case 0:
			if n.op == OpConst {
				binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(n.val))
				bw.Write(buf[:8])
			}
		case 1:
			k := binary.PutUvarint(buf[:], index[n.lhs])
			bw.Write(buf[:k])
		case 2:
			k := binary.PutUvarint(buf[:], index[n.lhs])
			bw.Write(buf[:k])
			k = binary.PutUvarint(buf[:], index[n.rhs])
			bw.Write(buf[:k])
		}
	}
	return bw.Flush()
}

// Decode reads a tree written by Encode. Trees written under the other
// opcode wire layout fail with ErrLayoutMismatch. Loaded nodes are
// re-interned, so shared structure is restored.
func Decode(r io.Reader) (Tree, error) {
	br := bufio.NewReader(r)
	var hdr [6]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return Tree{}, fmt.Errorf("frep: reading tree header: %w", err)
	}
	if [4]byte(hdr[:4]) != treeMagic {
		return Tree{}, errors.New("frep: bad magic, not a tree file")
	}
	if hdr[4] != treeVersion {
		return Tree{}, fmt.Errorf("frep: unsupported tree file version %d", hdr[4])
	}
	if hdr[5] != wireLayoutByte {
		return Tree{}, ErrLayoutMismatch
	}
	var cnt [4]byte
	if _, err := io.ReadFull(br, cnt[:]); err != nil {
		return Tree{}, fmt.Errorf("frep: reading node count: %w", err)
	}
	count := binary.LittleEndian.Uint32(cnt[:])
	if count == 0 {
		return Tree{}, errors.New("frep: empty tree file")
	}

	// The header count is untrusted; cap the preallocation and let append
	// grow for genuinely huge trees.
	prealloc := int(count)
	if prealloc > 1<<16 {
		prealloc = 1 << 16
	}
	nodes := make([]*node, 0, prealloc)
	ref := func() (*node, error) {
		i, err := binary.ReadUvarint(br)
		if err != nil {
			return nil, err
		}
		if i >= uint64(len(nodes)) {
			return nil, fmt.Errorf("frep: operand index %d out of range", i)
		}
		return nodes[i], nil
	}
	for rec := uint32(0); rec < count; rec++ {
		w, err := br.ReadByte()
		if err != nil {
			return Tree{}, fmt.Errorf("frep: reading node %d: %w", rec, err)
		}
		op := opcodeFromWire(w)
		if !op.Valid() {
			return Tree{}, fmt.Errorf("frep: node %d: unknown opcode byte %#x", rec, w)
		}
		var n *node
		switch op.Arity() {
		case 0:
			if op == OpConst {
				var vb [8]byte
				if _, err := io.ReadFull(br, vb[:]); err != nil {
					return Tree{}, fmt.Errorf("frep: node %d: %w", rec, err)
				}
				n = intern(op, nil, nil, math.Float64frombits(binary.LittleEndian.Uint64(vb[:])))
			} else if op == OpVarFree {
				n = &node{op: OpVarFree}
			} else {
				n = intern(op, nil, nil, 0)
			}
		case 1:
			lhs, err := ref()
			if err != nil {
				return Tree{}, fmt.Errorf("frep: node %d: %w", rec, err)
			}
			n = intern(op, lhs, nil, 0)
		case 2:
			lhs, err := ref()
			if err != nil {
				return Tree{}, fmt.Errorf("frep: node %d: %w", rec, err)
			}
			rhs, err := ref()
			if err != nil {
				return Tree{}, fmt.Errorf("frep: node %d: %w", rec, err)
			}
			n = intern(op, lhs, rhs, 0)
		}
		nodes = append(nodes, n)
	}
	return Tree{n: nodes[len(nodes)-1]}, nil
}

// Save writes the tree to a file.
func (t Tree) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a tree from a file written by Save.
func Load(path string) (Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tree{}, err
	}
	defer f.Close()
	return Decode(f)
}
