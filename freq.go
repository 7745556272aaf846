package huffpack

// FrequencyTable holds the number of occurrences of each byte value in an
// input buffer.  Byte values that never occur have a count of zero.
type FrequencyTable struct {
	counts   [256]uint64
	total    uint64
	distinct int
}

// CountFrequencies builds a FrequencyTable from data in one linear pass.
// Zero-length input is rejected with ErrEmptyInput.
func CountFrequencies(data []byte) (*FrequencyTable, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	var t FrequencyTable
	for _, b := range data {
		if t.counts[b] == 0 {
			t.distinct++
		}
		t.counts[b]++
	}
	t.total = uint64(len(data))
	return &t, nil
}

// Count returns the number of occurrences of b.
func (t *FrequencyTable) Count(b byte) uint64 {
	return t.counts[b]
}

// Total returns the sum of all counts, which equals the input length.
func (t *FrequencyTable) Total() uint64 {
	return t.total
}

// Distinct returns the number of byte values with a non-zero count.
func (t *FrequencyTable) Distinct() int {
	return t.distinct
}
