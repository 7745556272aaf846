package huffpack

// packBits packs a slice of 0/1 bit values into bytes, first bit in the
// most significant position of the first byte.  Unused trailing bits of
// the last byte are zero.
func packBits(path []byte) []byte {
	out := make([]byte, (len(path)+7)/8)
	for i, bit := range path {
		if bit != 0 {
			out[i>>3] |= 0x80 >> uint(i&7)
		}
	}
	return out
}
