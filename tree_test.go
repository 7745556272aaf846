package huffpack

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustBuildTree(t *testing.T, data []byte) *Node {
	t.Helper()
	freq, err := CountFrequencies(data)
	require.NoError(t, err)
	tree, err := BuildTree(freq)
	require.NoError(t, err)
	return tree
}

// leafDepths maps each leaf value to its depth below the root.
func leafDepths(root *Node) map[byte]int {
	depths := make(map[byte]int)
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if n == nil {
			return
		}
		if n.IsLeaf() {
			depths[n.Value] = depth
			return
		}
		walk(n.Left, depth+1)
		walk(n.Right, depth+1)
	}
	walk(root, 0)
	return depths
}

// checkWeights verifies that every internal node weighs as much as its
// children combined.
func checkWeights(t *testing.T, n *Node) {
	t.Helper()
	if n == nil || n.IsLeaf() {
		return
	}
	var sum uint64
	if n.Left != nil {
		sum += n.Left.Weight
	}
	if n.Right != nil {
		sum += n.Right.Weight
	}
	require.Equal(t, sum, n.Weight)
	checkWeights(t, n.Left)
	checkWeights(t, n.Right)
}

func sameShape(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.IsLeaf() != b.IsLeaf() {
		return false
	}
	if a.IsLeaf() {
		return a.Value == b.Value
	}
	return sameShape(a.Left, b.Left) && sameShape(a.Right, b.Right)
}

func TestBuildTreeWeightInvariant(t *testing.T) {
	tree := mustBuildTree(t, []byte("aaaabbbccd"))
	require.Equal(t, uint64(10), tree.Weight)
	checkWeights(t, tree)
}

func TestBuildTreeDepthOrdering(t *testing.T) {
	tree := mustBuildTree(t, []byte("aaaabbbccd"))
	depths := leafDepths(tree)

	require.LessOrEqual(t, depths['a'], depths['b'])
	require.LessOrEqual(t, depths['b'], depths['c'])
	require.LessOrEqual(t, depths['c'], depths['d'])
}

func TestBuildTreeDeterminism(t *testing.T) {
	data := []byte("mississippi river delta")

	freq1, err := CountFrequencies(data)
	require.NoError(t, err)
	freq2, err := CountFrequencies(data)
	require.NoError(t, err)

	tree1, err := BuildTree(freq1)
	require.NoError(t, err)
	tree2, err := BuildTree(freq2)
	require.NoError(t, err)

	require.True(t, sameShape(tree1, tree2))

	cb1, err := Codes(tree1)
	require.NoError(t, err)
	cb2, err := Codes(tree2)
	require.NoError(t, err)

	var dump1, dump2 bytes.Buffer
	_, _ = cb1.Dump(&dump1)
	_, _ = cb2.Dump(&dump2)
	require.Equal(t, dump1.String(), dump2.String())
}

func TestBuildTreeSingleValue(t *testing.T) {
	tree := mustBuildTree(t, []byte("xxxx"))

	require.False(t, tree.IsLeaf())
	require.Nil(t, tree.Right)
	require.NotNil(t, tree.Left)
	require.True(t, tree.Left.IsLeaf())
	require.Equal(t, byte('x'), tree.Left.Value)
	require.Equal(t, uint64(4), tree.Weight)
}

func TestBuildTreeEmpty(t *testing.T) {
	_, err := BuildTree(nil)
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = BuildTree(&FrequencyTable{})
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestMarshalTreeRoundTrip(t *testing.T) {
	allDistinct := make([]byte, 256)
	for i := range allDistinct {
		allDistinct[i] = byte(i)
	}

	inputs := map[string][]byte{
		"mixed":        []byte("aaaabbbccd"),
		"single value": []byte("x"),
		"all distinct": allDistinct,
		"text":         []byte("it was the best of times, it was the worst of times"),
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			tree := mustBuildTree(t, data)

			raw, err := MarshalTree(tree)
			require.NoError(t, err)

			parsed, err := ParseTree(raw)
			require.NoError(t, err)
			require.True(t, sameShape(tree, parsed))
		})
	}
}

func TestMarshalTreeSingleLeaf(t *testing.T) {
	tree := mustBuildTree(t, []byte("xx"))

	raw, err := MarshalTree(tree)
	require.NoError(t, err)
	require.Equal(t, []byte{tagLeaf, 'x'}, raw)
}

func TestMarshalTreeNil(t *testing.T) {
	_, err := MarshalTree(nil)
	require.ErrorIs(t, err, ErrEmptyTree)
}

func TestParseTreeMalformed(t *testing.T) {
	cases := map[string][]byte{
		"empty":            nil,
		"truncated root":   {tagInternal},
		"truncated leaf":   {tagLeaf},
		"unknown tag":      {0x7f},
		"missing right":    {tagInternal, tagLeaf, 'a'},
		"trailing bytes":   {tagLeaf, 'a', 0xff},
		"trailing subtree": {tagInternal, tagLeaf, 'a', tagLeaf, 'b', tagLeaf, 'c'},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTree(raw)
			require.ErrorIs(t, err, ErrMalformedTree)
		})
	}
}

func TestParseTreeBareLeafCanonicalShape(t *testing.T) {
	parsed, err := ParseTree([]byte{tagLeaf, 'q'})
	require.NoError(t, err)

	require.False(t, parsed.IsLeaf())
	require.Nil(t, parsed.Right)
	require.NotNil(t, parsed.Left)
	require.Equal(t, byte('q'), parsed.Left.Value)
}
