package oligotm_test

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/andrew-torda/thal/pkg/dna"
	. "github.com/andrew-torda/thal/pkg/oligotm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noMg() *Conditions { return &Conditions{DNAConc: 50, Mv: 50} }

// CGTA worked out by hand
func TestByHand(t *testing.T) {
	dh := (0.2 - 10.6 - 8.4 - 7.2 + 2.2) * 1000
	ds := -5.7 - 27.2 - 22.4 - 21.3 + 6.9 + 0.368*3*math.Log(0.05)
	want := dh/(ds+1.9872*math.Log(50e-9/4)) - 273.15
	r, err := Tm([]byte("cgta"), noMg())
	require.NoError(t, err)
	assert.InDelta(t, want, r.Tm, 1e-9)
	assert.InDelta(t, dh, r.Dh, 1e-9)
	assert.InDelta(t, ds, r.Ds, 1e-9)
}

func TestMonotonic(t *testing.T) {
	for _, m := range []SaltMethod{SantaLucia, Schildkraut, Owczarzy} {
		c := noMg()
		c.Salt = m
		weak, err := Tm([]byte("ATATTTATAATTAAT"), c)
		require.NoError(t, err)
		strong, err := Tm([]byte("GCGGCCGCGCCGGCG"), c)
		require.NoError(t, err)
		assert.Greater(t, strong.Tm, weak.Tm, m.String())

		c.Mv = 500
		salty, err := Tm([]byte("ATATTTATAATTAAT"), c)
		require.NoError(t, err)
		assert.Greater(t, salty.Tm, weak.Tm, m.String())
	}
}

func TestMagnesium(t *testing.T) {
	s := []byte("ACGTTGCAAGCTTGCA")
	base, err := Tm(s, noMg())
	require.NoError(t, err)
	c := noMg()
	c.Dv, c.DNTP = 2, 0.8
	mg, err := Tm(s, c)
	require.NoError(t, err)
	assert.Greater(t, mg.Tm, base.Tm)
	c.DNTP = 3 // dNTPs take all the Mg
	mg, err = Tm(s, c)
	require.NoError(t, err)
	assert.Equal(t, base.Tm, mg.Tm)
	assert.InDelta(t, 120*math.Sqrt(1.2), DivalentToMonovalent(2, 0.8), 1e-12)
	assert.Zero(t, DivalentToMonovalent(1, 2))
}

// A self complementary oligo does not divide the concentration by four
func TestSelfComplementary(t *testing.T) {
	c := noMg()
	self := []byte("GGATCC")
	require.True(t, dna.IsSelfComplementary(self))
	r, err := Tm(self, c)
	require.NoError(t, err)
	dh := (0.2 - 8.0 - 8.2 - 7.2 - 8.2 - 8.0) * 1000
	ds := -5.7 - 19.9 - 22.2 - 20.4 - 22.2 - 19.9 - 1.4 + 0.368*5*math.Log(0.05)
	assert.InDelta(t, dh/(ds+1.9872*math.Log(50e-9))-273.15, r.Tm, 1e-9)
}

func TestLong(t *testing.T) {
	s := []byte(strings.Repeat("ACGT", 20))
	r, err := Tm(s, noMg())
	require.NoError(t, err)
	assert.InDelta(t, 81.5+16.6*math.Log10(0.05)+41*0.5-600.0/80, r.Tm, 1e-9)
	assert.Zero(t, r.Dh)
}

func TestErrors(t *testing.T) {
	_, err := Tm(nil, nil)
	assert.ErrorIs(t, err, dna.ErrEmpty)
	_, err = Tm([]byte("ACGNT"), nil)
	assert.ErrorIs(t, err, ErrBadBase)
	_, err = Tm([]byte("ACGT"), &Conditions{Mv: 50})
	assert.ErrorIs(t, err, ErrConc)
	_, err = Tm([]byte("ACGT"), &Conditions{DNAConc: 50, Mv: 50, Salt: 9})
	assert.ErrorIs(t, err, ErrSaltMethod)
	_, err = ParseSaltMethod("debye")
	assert.ErrorIs(t, err, ErrSaltMethod)
	m, err := ParseSaltMethod("owczarzy")
	require.NoError(t, err)
	assert.Equal(t, Owczarzy, m)
}

func ExampleTm() {
	r, _ := Tm([]byte("CGTA"), &Conditions{DNAConc: 50, Mv: 50})
	fmt.Printf("dH %.0f cal/mol dS %.1f cal/K/mol\n", r.Dh, r.Ds)
	// Output: dH -23800 cal/mol dS -73.0 cal/K/mol
}
