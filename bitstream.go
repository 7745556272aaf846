package huffpack

import (
	"fmt"
)

// bitWriter accumulates bits most significant first and packs them into
// whole bytes.
type bitWriter struct {
	buf   []byte
	cur   byte
	nbits byte
}

func (w *bitWriter) WriteBit(bit byte) {
	w.cur = w.cur<<1 | (bit & 1)
	w.nbits++
	if w.nbits == 8 {
		w.buf = append(w.buf, w.cur)
		w.cur = 0
		w.nbits = 0
	}
}

func (w *bitWriter) WriteCode(c Code) {
	for i := 0; i < c.Size; i++ {
		w.WriteBit(c.Bit(i))
	}
}

// Finish pads the final partial byte with zero bits on the right and
// returns the packed bytes along with the number of padding bits added.
func (w *bitWriter) Finish() (packed []byte, padding byte) {
	if w.nbits == 0 {
		return w.buf, 0
	}
	padding = 8 - w.nbits
	w.buf = append(w.buf, w.cur<<padding)
	w.cur = 0
	w.nbits = 0
	return w.buf, padding
}

// bitReader yields bits most significant first from a packed byte slice.
type bitReader struct {
	data []byte
	bits uint64 // number of readable bits
	pos  uint64
}

func (r *bitReader) ReadBit() (bit byte, ok bool) {
	if r.pos >= r.bits {
		return 0, false
	}
	bit = (r.data[r.pos>>3] >> (7 - uint(r.pos&7))) & 1
	r.pos++
	return bit, true
}

// Encode translates each byte of data into its code bits and packs the
// result most significant bit first, zero-padding the last byte on the
// right.  It fails with ErrMissingCode when a byte value has no entry in
// cb.  That cannot happen when cb was derived from a tree built over the
// same data, but a code book supplied from elsewhere is not trusted.
func Encode(data []byte, cb *CodeBook) (packed []byte, padding byte, err error) {
	if cb == nil {
		return nil, 0, fmt.Errorf("%w: nil code book", ErrMissingCode)
	}

	var w bitWriter
	w.buf = make([]byte, 0, len(data)/2+1)
	for i, b := range data {
		c, ok := cb.Lookup(b)
		if !ok {
			return nil, 0, fmt.Errorf("%w: byte 0x%02x at offset %d", ErrMissingCode, b, i)
		}
		w.WriteCode(c)
	}
	packed, padding = w.Finish()
	return packed, padding, nil
}

// Decode unpacks the encoded bits, drops the trailing padding bits, and
// walks the tree once per bit, 0 descending left and 1 descending right.
// Each leaf reached appends one byte to the output and restarts the walk
// at the root.
//
// Decoding stops after exactly symbolCount bytes.  The count, not bit
// exhaustion, is the stop condition: zero padding bits can coincidentally
// complete a valid code path and a naive "decode until the bits run out"
// would emit a spurious trailing symbol.
//
func Decode(packed []byte, padding byte, symbolCount uint64, tree *Node) ([]byte, error) {
	if tree == nil {
		return nil, ErrEmptyTree
	}
	if padding > 7 {
		return nil, fmt.Errorf("%w: padding %d out of range", ErrDecodeTraversal, padding)
	}
	totalBits := uint64(len(packed)) * 8
	if uint64(padding) > totalBits {
		return nil, fmt.Errorf("%w: padding exceeds payload", ErrDecodeTraversal)
	}

	r := bitReader{data: packed, bits: totalBits - uint64(padding)}

	// every symbol consumes at least one bit, so an oversized count can
	// be rejected before allocating the output
	if symbolCount > r.bits {
		return nil, fmt.Errorf("%w: %d symbols cannot fit in %d bits", ErrDecodeTraversal, symbolCount, r.bits)
	}

	out := make([]byte, 0, symbolCount)
	cur := tree
	for uint64(len(out)) < symbolCount {
		bit, ok := r.ReadBit()
		if !ok {
			return nil, fmt.Errorf("%w: bit stream exhausted after %d of %d symbols", ErrDecodeTraversal, len(out), symbolCount)
		}
		if bit == 0 {
			cur = cur.Left
		} else {
			cur = cur.Right
		}
		if cur == nil {
			return nil, fmt.Errorf("%w: walk stepped into a missing child", ErrDecodeTraversal)
		}
		if cur.IsLeaf() {
			out = append(out, cur.Value)
			cur = tree
		}
	}
	return out, nil
}
