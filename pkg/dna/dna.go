// 4 March 2024
// Package dna converts oligo sequences to the small integer codes used
// by the thermodynamic tables, and has the few sequence helpers that
// go with them.
package dna

import (
	"errors"
	"fmt"
)

// Base codes. Anything that is not A, C, G or T becomes N.
const (
	A byte = iota
	C
	G
	T
	N
	NCode = 5 // number of codes, used to size tables
)

const (
	MaxAlign = 60    // at least one oligo of a pair must be this short
	MaxSeq   = 10000 // nothing may be longer than this
)

var (
	ErrEmpty   = errors.New("empty sequence")
	ErrTooLong = fmt.Errorf("sequence longer than maximum allowed (%d)", MaxSeq)
)

var codeOf = [256]byte{}

func init() {
	for i := range codeOf {
		codeOf[i] = N
	}
	for _, p := range []struct {
		c    byte
		code byte
	}{{'A', A}, {'C', C}, {'G', G}, {'T', T}} {
		codeOf[p.c] = p.code
		codeOf[p.c+('a'-'A')] = p.code
	}
}

// Code returns the code for one character. Case does not matter.
func Code(c byte) byte { return codeOf[c] }

// Seq is a sequence of codes
type Seq []byte

// Encode converts a sequence of characters to codes.
func Encode(raw []byte) (Seq, error) {
	if len(raw) == 0 {
		return nil, ErrEmpty
	}
	if len(raw) > MaxSeq {
		return nil, fmt.Errorf("%w, got %d", ErrTooLong, len(raw))
	}
	s := make(Seq, len(raw))
	for i, c := range raw {
		s[i] = codeOf[c]
	}
	return s, nil
}

// Padded returns the codes with an N on each side, so the bases sit at
// 1..len and index 0 and len+1 can be read without checking.
func Padded(raw []byte) []byte {
	s := make([]byte, len(raw)+2)
	s[0] = N
	for i, c := range raw {
		s[i+1] = codeOf[c]
	}
	s[len(raw)+1] = N
	return s
}

// BasePair is true for Watson-Crick pairs only.
func BasePair(a, b byte) bool {
	return a < N && b < N && a+b == 3
}

// Upper returns an upper case copy.
func Upper(raw []byte) []byte {
	u := make([]byte, len(raw))
	for i, c := range raw {
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		u[i] = c
	}
	return u
}

// Reverse returns a reversed copy.
func Reverse(raw []byte) []byte {
	r := make([]byte, len(raw))
	for i, c := range raw {
		r[len(raw)-1-i] = c
	}
	return r
}

var cmplmnt = map[byte]byte{
	'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C',
	'a': 't', 't': 'a', 'c': 'g', 'g': 'c',
}

// Complement returns a copy with A/T and C/G swapped. Other characters
// are left alone.
func Complement(raw []byte) []byte {
	r := make([]byte, len(raw))
	for i, c := range raw {
		if x, ok := cmplmnt[c]; ok {
			c = x
		}
		r[i] = c
	}
	return r
}

// ReverseComplement is what you think it is.
func ReverseComplement(raw []byte) []byte { return Complement(Reverse(raw)) }

// IsSelfComplementary says if a sequence reads the same as its
// reverse complement. Odd lengths never do. Anything other than A, C, G
// or T may only sit opposite another such character.
func IsSelfComplementary(raw []byte) bool {
	n := len(raw)
	if n%2 == 1 {
		return false
	}
	rc := ReverseComplement(raw)
	for i := 0; i < n/2; i++ {
		if codeOf[raw[i]] != codeOf[rc[i]] {
			return false
		}
	}
	return true
}
