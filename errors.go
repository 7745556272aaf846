package huffpack

import (
	"errors"
)

var (
	// ErrEmptyInput indicates that a zero-length buffer was given to
	// Compress.  There is no meaningful prefix code over zero symbols.
	ErrEmptyInput = errors.New("huffpack: empty input")

	// ErrEmptyTree indicates an operation on an absent tree.
	ErrEmptyTree = errors.New("huffpack: empty tree")

	// ErrMalformedTree indicates a corrupt or truncated serialized tree.
	ErrMalformedTree = errors.New("huffpack: malformed tree")

	// ErrMissingCode indicates a byte value with no assigned code during
	// encoding.
	ErrMissingCode = errors.New("huffpack: missing code")

	// ErrDecodeTraversal indicates that the encoded bit stream ended
	// before the expected number of symbols was produced, or that a tree
	// walk stepped into a missing child.
	ErrDecodeTraversal = errors.New("huffpack: decode traversal failed")

	// ErrMalformedContainer indicates a corrupt or truncated container.
	ErrMalformedContainer = errors.New("huffpack: malformed container")
)
