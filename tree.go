package huffpack

import (
	"container/heap"
	"fmt"

	"github.com/chronos-tachyon/assert"
)

// Node is a node in a Huffman code tree.  A node with no children is a
// leaf carrying a byte value; any other node is an internal merge point
// whose weight equals the sum of its children's weights.  Trees are
// immutable once built.
//
// Trees rebuilt by ParseTree carry shape and leaf values only; their
// weights are zero, since the serialized form does not store frequencies
// and decoding never consults them.
//
type Node struct {
	Left   *Node
	Right  *Node
	Weight uint64
	Value  byte
}

// IsLeaf reports whether n carries a byte value.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// BuildTree builds a Huffman tree from freq by greedily merging the two
// lowest-weight nodes until a single root remains.  Ties on weight are
// broken by insertion order, leaves first in ascending byte order, so the
// same frequency table always yields the same tree and therefore the same
// code assignment.
//
// The root is always an internal node.  When freq holds a single distinct
// byte value, the root has that value's leaf as its only (left) child, so
// the value still receives a one-bit code.
//
func BuildTree(freq *FrequencyTable) (*Node, error) {
	if freq == nil || freq.distinct == 0 {
		return nil, ErrEmptyInput
	}

	h := nodeHeap{list: make([]weightedNode, 0, freq.distinct)}
	for value := 0; value < 256; value++ {
		if count := freq.counts[value]; count != 0 {
			h.append(&Node{Weight: count, Value: byte(value)})
		}
	}
	h.Init()

	if h.Len() == 1 {
		leaf := heap.Pop(&h).(*Node)
		return &Node{Weight: leaf.Weight, Left: leaf}, nil
	}

	for h.Len() > 1 {
		a := heap.Pop(&h).(*Node)
		b := heap.Pop(&h).(*Node)
		heap.Push(&h, &Node{Weight: a.Weight + b.Weight, Left: a, Right: b})
	}

	root := heap.Pop(&h).(*Node)
	assert.Assertf(root.Weight == freq.total, "root weight %d != input length %d", root.Weight, freq.total)
	return root, nil
}

// Tags used by the serialized tree encoding.  Each internal node is the
// tag byte followed by its serialized left and right subtrees; each leaf
// is the tag byte followed by the leaf's byte value.
const (
	tagInternal = 0x00
	tagLeaf     = 0x01
)

// MarshalTree flattens root into a tagged pre-order byte encoding that
// ParseTree reverses exactly.  A tree over a single distinct byte value
// is stored as the bare leaf record; ParseTree restores the canonical
// root shape.
//
// The walk is iterative; a deep, skewed tree cannot overflow the stack.
//
func MarshalTree(root *Node) ([]byte, error) {
	if root == nil {
		return nil, ErrEmptyTree
	}
	assert.Assertf(!root.IsLeaf(), "tree root must be an internal node")

	if root.Right == nil {
		leaf := root.Left
		assert.Assertf(leaf != nil && leaf.IsLeaf(), "single-child root must hold a leaf")
		return []byte{tagLeaf, leaf.Value}, nil
	}

	out := make([]byte, 0, 64)
	stack := make([]*Node, 0, 16)
	stack = append(stack, root)
	for len(stack) != 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.IsLeaf() {
			out = append(out, tagLeaf, n.Value)
			continue
		}
		assert.Assertf(n.Left != nil && n.Right != nil, "internal node missing a child")
		out = append(out, tagInternal)
		// left is serialized first
		stack = append(stack, n.Right, n.Left)
	}
	return out, nil
}

// ParseTree rebuilds a tree from its tagged pre-order encoding.  It fails
// with ErrMalformedTree if the input is truncated, carries an unknown
// tag, or has bytes left over after the tree is complete.
func ParseTree(raw []byte) (*Node, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedTree)
	}

	// frame.next tracks which child of frame.node is attached next:
	//   next=0 → left
	//   next=1 → right
	type frame struct {
		node *Node
		next byte
	}

	var root *Node
	stack := make([]frame, 0, 16)
	pos := 0

	for {
		if pos >= len(raw) {
			return nil, fmt.Errorf("%w: truncated at offset %d", ErrMalformedTree, pos)
		}
		tag := raw[pos]
		pos++

		var n *Node
		switch tag {
		case tagInternal:
			n = &Node{}
		case tagLeaf:
			if pos >= len(raw) {
				return nil, fmt.Errorf("%w: truncated leaf at offset %d", ErrMalformedTree, pos)
			}
			n = &Node{Value: raw[pos]}
			pos++
		default:
			return nil, fmt.Errorf("%w: unknown tag 0x%02x at offset %d", ErrMalformedTree, tag, pos-1)
		}

		if root == nil {
			root = n
		} else {
			top := &stack[len(stack)-1]
			if top.next == 0 {
				top.node.Left = n
				top.next = 1
			} else {
				top.node.Right = n
				stack = stack[:len(stack)-1]
			}
		}

		if tag == tagInternal {
			stack = append(stack, frame{node: n})
		}

		if len(stack) == 0 {
			break
		}
	}

	if pos != len(raw) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedTree, len(raw)-pos)
	}

	if root.IsLeaf() {
		root = &Node{Left: root}
	}
	return root, nil
}

// type weightedNode + type nodeHeap {{{

type weightedNode struct {
	node *Node
	seq  uint32
}

type nodeHeap struct {
	list    []weightedNode
	nextSeq uint32
}

// append adds n without restoring heap order; callers either Init
// afterwards or go through heap.Push.  Each node gets a monotonically
// increasing sequence number so that equal weights pop in insertion
// order.
func (h *nodeHeap) append(n *Node) {
	h.list = append(h.list, weightedNode{n, h.nextSeq})
	h.nextSeq++
}

func (h *nodeHeap) Init() {
	heap.Init(h)
}

func (h *nodeHeap) Len() int {
	return len(h.list)
}

func (h *nodeHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.node.Weight != b.node.Weight {
		return a.node.Weight < b.node.Weight
	}
	return a.seq < b.seq
}

func (h *nodeHeap) Push(x interface{}) {
	h.append(x.(*Node))
}

func (h *nodeHeap) Pop() interface{} {
	last := len(h.list) - 1
	x := h.list[last].node
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*nodeHeap)(nil)

// }}}
