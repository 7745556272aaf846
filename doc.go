// Package huffpack implements a lossless whole-buffer Huffman compressor
// and decompressor for arbitrary byte streams.
//
// Compression builds an optimal prefix code from the observed byte
// frequencies, packs the input into a bit stream, and stores the code
// tree together with the payload in a small binary container that
// round-trips exactly.  The package performs no I/O of its own; callers
// supply the input buffer and consume the resulting container.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
package huffpack
