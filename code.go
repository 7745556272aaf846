package huffpack

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/chronos-tachyon/assert"
)

// Code represents a sequence of bits.
type Code struct {
	// Bits holds the packed bit values.  The most significant bit of
	// Bits[0] is the first bit.
	Bits []byte

	// Size holds the number of valid bits.
	Size int
}

// Bit returns the i'th bit of this Code, 0 or 1.
func (c Code) Bit(i int) byte {
	return (c.Bits[i>>3] >> (7 - uint(i&7))) & 1
}

// String returns the string representation of this Code.
func (c Code) String() string {
	if c.Size == 0 {
		return "\"\""
	}
	buf := make([]byte, c.Size)
	for i := 0; i < c.Size; i++ {
		buf[i] = '0' + c.Bit(i)
	}
	return strconv.Quote(string(buf))
}

var _ fmt.Stringer = Code{}

// CodeBook maps each byte value to its Huffman code.  Byte values absent
// from the source alphabet have a zero-Size code.
type CodeBook struct {
	codes [256]Code
}

// Lookup returns the code assigned to value b.  ok is false when b has no
// code.
func (cb *CodeBook) Lookup(b byte) (c Code, ok bool) {
	c = cb.codes[b]
	return c, c.Size != 0
}

// Codes derives the code book from tree by walking root to leaf,
// appending a 0 bit for each left edge and a 1 bit for each right edge
// and recording a code whenever a leaf is reached.  Every code terminates
// at a distinct leaf and no leaf is an ancestor of another, so the result
// is always a valid prefix code.
//
// The walk is iterative; a deep, skewed tree cannot overflow the stack.
//
func Codes(tree *Node) (*CodeBook, error) {
	if tree == nil {
		return nil, ErrEmptyTree
	}
	assert.Assertf(!tree.IsLeaf(), "tree root must be an internal node")

	// stackItem.x tracks progress at each internal node:
	//   x=0 → visit the left child next
	//   x=1 → visit the right child next
	//   x=2 → both children done, pop
	type stackItem struct {
		node *Node
		x    byte
	}

	var cb CodeBook
	stack := make([]stackItem, 0, 16)
	path := make([]byte, 0, 16)

	push := func(n *Node) {
		stack = append(stack, stackItem{node: n})
	}

	processChild := func(child *Node, bit byte) {
		if child == nil {
			// only the single-leaf root has a missing right child
			return
		}
		if child.IsLeaf() {
			cb.codes[child.Value] = Code{
				Bits: packBits(append(path, bit)),
				Size: len(path) + 1,
			}
			return
		}
		path = append(path, bit)
		push(child)
	}

	push(tree)
	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		x := top.x
		top.x++
		switch x {
		case 0:
			processChild(top.node.Left, 0)
		case 1:
			processChild(top.node.Right, 1)
		case 2:
			stack = stack[:len(stack)-1]
			if len(path) != 0 {
				path = path[:len(path)-1]
			}
		}
	}

	return &cb, nil
}

// Dump writes a programmer-readable debugging dump of the CodeBook to the
// given writer.
func (cb *CodeBook) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeBook{\n")
	for value := 0; value < 256; value++ {
		c := cb.codes[value]
		if c.Size == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\tCode(0x%02x) = %s\n", value, c)
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}
