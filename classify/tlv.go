package classify

// findSubOption walks data as a TLV stream (1-byte type, 1-byte length,
// length value bytes) and returns the value of the first sub-option
// whose type equals code. A malformed stream, including a declared
// length running past the buffer, degrades to "not found" rather than
// an error.
func findSubOption(data []byte, code uint32) ([]byte, bool) {
	for i := 0; i < len(data); {
		if i+2 > len(data) {
			return nil, false
		}
		typ := uint32(data[i])
		length := int(data[i+1])
		i += 2
		if i+length > len(data) {
			return nil, false
		}
		if typ == code {
			return data[i : i+length], true
		}
		i += length
	}
	return nil, false
}
