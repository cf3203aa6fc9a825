package dna_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/andrew-torda/thal/pkg/dna"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	s, err := dna.Encode([]byte("ACGTacgtNx-"))
	require.NoError(t, err)
	assert.Equal(t, dna.Seq{0, 1, 2, 3, 0, 1, 2, 3, 4, 4, 4}, s)

	_, err = dna.Encode(nil)
	assert.True(t, errors.Is(err, dna.ErrEmpty))

	long := bytes.Repeat([]byte("A"), dna.MaxSeq)
	_, err = dna.Encode(long)
	assert.NoError(t, err, "exactly the maximum is allowed")
	_, err = dna.Encode(append(long, 'C'))
	assert.True(t, errors.Is(err, dna.ErrTooLong))
}

func TestPadded(t *testing.T) {
	p := dna.Padded([]byte("gat"))
	assert.Equal(t, []byte{dna.N, dna.G, dna.A, dna.T, dna.N}, p)
}

func TestBasePair(t *testing.T) {
	var n int
	for a := byte(0); a < dna.NCode; a++ {
		for b := byte(0); b < dna.NCode; b++ {
			if dna.BasePair(a, b) {
				n++
			}
		}
	}
	assert.Equal(t, 4, n)
	assert.True(t, dna.BasePair(dna.G, dna.C))
	assert.False(t, dna.BasePair(dna.G, dna.T), "wobble pairs are not pairs here")
	assert.False(t, dna.BasePair(dna.N, dna.N))
}

func TestSelfComplementary(t *testing.T) {
	for _, tt := range []struct {
		s    string
		want bool
	}{
		{"AATT", true},
		{"aatt", true},
		{"AACC", false},
		{"ACGTACGT", true},
		{"ACGTA", false},
		{"", true},
		{"GNNC", true},
		{"GNAC", false},
		{"CGCGCAAAAGCGCG", false},
		{"AaTt", true},
		{"GXNC", true},
		{"GGATCCA", false},
	} {
		assert.Equal(t, tt.want, dna.IsSelfComplementary([]byte(tt.s)), tt.s)
		if tt.want {
			nx := strings.NewReplacer("X", "N")
			rc := dna.Upper(dna.ReverseComplement([]byte(tt.s)))
			assert.Equal(t, nx.Replace(string(dna.Upper([]byte(tt.s)))), nx.Replace(string(rc)), tt.s)
		}
	}
}

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "CCGTAN", string(dna.ReverseComplement([]byte("NTACGG"))))
	assert.Equal(t, "tacg", string(dna.Reverse([]byte("gcat"))))
	assert.Equal(t, "ACGTN", string(dna.Upper([]byte("acgTn"))))
}

func ExampleReverseComplement() {
	fmt.Println(string(dna.ReverseComplement([]byte("GATTACA"))))
	// Output: TGTAATC
}
