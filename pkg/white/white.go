// 12 March 2024
// Package white removes white space from sequences as they are read.

package white

var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

// IsWhite is true for ascii white space.
func IsWhite(c byte) bool { return asciiSpace[c] }

// Remove squeezes the white space out of a byte slice, in place. The
// length is adjusted, the capacity is unchanged.
func Remove(p *[]byte) {
	s := *p
	n := 0
	for _, c := range s {
		if !asciiSpace[c] {
			s[n] = c
			n++
		}
	}
	*p = s[:n]
}

// Count is the number of non-white characters.
func Count(s []byte) int {
	n := 0
	for _, c := range s {
		if !asciiSpace[c] {
			n++
		}
	}
	return n
}
