package huffpack

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Container wire format (version 1):
//
//	magic[3]    = "HPK"
//	version     = 1 byte
//	treeLen     = uint32 little-endian
//	tree        = treeLen bytes (tagged pre-order, see MarshalTree)
//	padding     = 1 byte, 0-7
//	symbolCount = uint64 little-endian
//	payloadLen  = uint32 little-endian
//	payload     = payloadLen bytes
//
const (
	containerMagic   = "HPK"
	containerVersion = byte(1)

	containerOverhead = 3 + 1 + 4 + 1 + 8 + 4
)

// Container is the result of one compression run: the serialized code
// tree, the packed payload, the number of padding bits in the last
// payload byte, and the original input length in bytes.  The symbol
// count is the authoritative stop condition for decoding.
type Container struct {
	Tree        []byte
	Payload     []byte
	Padding     byte
	SymbolCount uint64
}

// Stats describes one compression run for reporting.  The package
// computes the numbers; formatting and printing them is the caller's
// concern.
type Stats struct {
	OriginalSize   uint64
	CompressedSize uint64
	Ratio          float64 // percent of the original size saved
	SpaceSaved     int64   // negative when compression expands the input
}

// Compress builds the frequency table, tree, and code book for data,
// encodes the payload, and returns the assembled container.  Either a
// complete container is produced or an error is returned; there is no
// partial result.  Compress performs no I/O.
func Compress(data []byte) (*Container, error) {
	freq, err := CountFrequencies(data)
	if err != nil {
		return nil, err
	}
	tree, err := BuildTree(freq)
	if err != nil {
		return nil, err
	}
	cb, err := Codes(tree)
	if err != nil {
		return nil, err
	}
	payload, padding, err := Encode(data, cb)
	if err != nil {
		return nil, err
	}
	treeBytes, err := MarshalTree(tree)
	if err != nil {
		return nil, err
	}
	return &Container{
		Tree:        treeBytes,
		Payload:     payload,
		Padding:     padding,
		SymbolCount: uint64(len(data)),
	}, nil
}

// Decompress rebuilds the tree stored in c and decodes the payload back
// into the original bytes.  For every non-empty input,
// Decompress(Compress(data)) returns data exactly.
func Decompress(c *Container) ([]byte, error) {
	tree, err := ParseTree(c.Tree)
	if err != nil {
		return nil, err
	}
	return Decode(c.Payload, c.Padding, c.SymbolCount, tree)
}

// MarshaledSize returns the byte length of MarshalBinary's output.
func (c *Container) MarshaledSize() int {
	return containerOverhead + len(c.Tree) + len(c.Payload)
}

// Stats reports the sizes and derived ratio for this container.  The
// original size is the symbol count; the compressed size is the
// marshaled container size.
func (c *Container) Stats() Stats {
	original := c.SymbolCount
	compressed := uint64(c.MarshaledSize())
	var ratio float64
	if original != 0 {
		ratio = (1 - float64(compressed)/float64(original)) * 100
	}
	return Stats{
		OriginalSize:   original,
		CompressedSize: compressed,
		Ratio:          ratio,
		SpaceSaved:     int64(original) - int64(compressed),
	}
}

// MarshalBinary flattens c into the version 1 wire format.
func (c *Container) MarshalBinary() ([]byte, error) {
	if len(c.Tree) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: tree too large", ErrMalformedContainer)
	}
	if len(c.Payload) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload too large", ErrMalformedContainer)
	}

	out := make([]byte, 0, c.MarshaledSize())
	out = append(out, containerMagic...)
	out = append(out, containerVersion)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(c.Tree)))
	out = append(out, c.Tree...)
	out = append(out, c.Padding)
	out = binary.LittleEndian.AppendUint64(out, c.SymbolCount)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(c.Payload)))
	out = append(out, c.Payload...)
	return out, nil
}

// UnmarshalContainer parses the version 1 wire format.  It validates the
// framing only; the tree bytes are parsed when Decompress runs.  The
// returned Container does not alias raw.
func UnmarshalContainer(raw []byte) (*Container, error) {
	if len(raw) < containerOverhead {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrMalformedContainer, len(raw))
	}
	if string(raw[:3]) != containerMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrMalformedContainer)
	}
	if raw[3] != containerVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedContainer, raw[3])
	}

	pos := 4
	treeLen := binary.LittleEndian.Uint32(raw[pos:])
	pos += 4
	if uint64(treeLen) > uint64(len(raw)-pos) {
		return nil, fmt.Errorf("%w: truncated tree", ErrMalformedContainer)
	}
	tree := raw[pos : pos+int(treeLen)]
	pos += int(treeLen)

	if len(raw)-pos < 1+8+4 {
		return nil, fmt.Errorf("%w: truncated header", ErrMalformedContainer)
	}
	padding := raw[pos]
	pos++
	if padding > 7 {
		return nil, fmt.Errorf("%w: padding %d out of range", ErrMalformedContainer, padding)
	}
	symbolCount := binary.LittleEndian.Uint64(raw[pos:])
	pos += 8
	if symbolCount == 0 {
		return nil, fmt.Errorf("%w: zero symbol count", ErrMalformedContainer)
	}
	payloadLen := binary.LittleEndian.Uint32(raw[pos:])
	pos += 4
	if uint64(payloadLen) != uint64(len(raw)-pos) {
		return nil, fmt.Errorf("%w: payload length %d does not match %d remaining bytes", ErrMalformedContainer, payloadLen, len(raw)-pos)
	}

	return &Container{
		Tree:        append([]byte(nil), tree...),
		Payload:     append([]byte(nil), raw[pos:]...),
		Padding:     padding,
		SymbolCount: symbolCount,
	}, nil
}
