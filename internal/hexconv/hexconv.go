package hexconv

// Halfbyte maps an ASCII hex digit to its value. Every other byte maps to 0xFF, so
// a|b > 0x0f is a cheap way to tell whether either of two digits is invalid.
var Halfbyte = func() (table [256]byte) {
	for i := range table {
		table[i] = 0xFF
	}

	for c := byte('0'); c <= '9'; c++ {
		table[c] = c - '0'
	}

	for c := byte('a'); c <= 'f'; c++ {
		table[c] = c - 'a' + 10
		table[c-'a'+'A'] = c - 'a' + 10
	}

	return table
}()

// Pair decodes two hex digits into a byte. ok is false if any of them is invalid.
func Pair(hi, lo byte) (b byte, ok bool) {
	a, c := Halfbyte[hi], Halfbyte[lo]
	if a|c > 0x0f {
		return 0, false
	}

	return a<<4 | c, true
}
