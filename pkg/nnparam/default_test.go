package nnparam_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/andrew-torda/thal/pkg/dna"
	. "github.com/andrew-torda/thal/pkg/nnparam"
	"github.com/stretchr/testify/assert"
)

func codes(s string) []byte {
	b := make([]byte, len(s))
	for i := range s {
		b[i] = dna.Code(s[i])
	}
	return b
}

// Every entry is either finite or exactly the forbidden marker
func TestFiniteCoupling(t *testing.T) {
	p := Default()
	check := func(what string, s, h float64) {
		if IsFinite(h) {
			assert.True(t, IsFinite(s), what)
			return
		}
		assert.Equal(t, ForbidS, s, what)
		assert.True(t, math.IsInf(h, 1), what)
	}
	for _, tb := range []struct {
		name string
		t    *Table4
	}{{"stack", &p.Stack}, {"stackmm", &p.StackMM}, {"tstack", &p.Tstack}, {"tstack2", &p.Tstack2}} {
		for i := range tb.t.S {
			for ii := range tb.t.S[i] {
				for j := range tb.t.S[i][ii] {
					for jj := range tb.t.S[i][ii][j] {
						check(tb.name, tb.t.S[i][ii][j][jj], tb.t.H[i][ii][j][jj])
					}
				}
			}
		}
	}
	for _, l := range []*LoopTable{&p.Hairpin, &p.Bulge, &p.Interior} {
		for k := range l.S {
			check("loop", l.S[k], l.H[k])
		}
	}
}

func TestDefaultStacks(t *testing.T) {
	p := Default()
	a, c, g, tt, n := dna.A, dna.C, dna.G, dna.T, dna.N
	assert.Equal(t, -7600.0, p.Stack.H[a][a][tt][tt])
	assert.Equal(t, -21.3, p.Stack.S[a][a][tt][tt])
	assert.Equal(t, -10600.0, p.Stack.H[c][g][g][c])
	assert.False(t, IsFinite(p.Stack.H[a][a][a][a]), "A.A is not a pair")
	assert.False(t, IsFinite(p.Stack.H[a][n][tt][tt]))
	assert.True(t, IsFinite(p.StackMM.H[a][g][tt][tt]), "mismatch next to a pair")
	assert.Equal(t, 0.0, p.Tstack2.H[c][n][g][a], "N next to the pair costs nothing")
	assert.False(t, IsFinite(p.Tstack2.H[n][a][g][a]))

	assert.Equal(t, ATPenaltyH, p.AtpH[a][tt])
	assert.Equal(t, ATPenaltyS, p.AtpS[tt][a])
	assert.Equal(t, 0.0, p.AtpH[g][c])
}

func TestDefaultLoops(t *testing.T) {
	p := Default()
	for _, k := range []int{0, 1} {
		assert.False(t, IsFinite(p.Hairpin.H[k]), "hairpin of %d", k+1)
		assert.False(t, IsFinite(p.Interior.H[k]), "interior of %d", k+1)
	}
	assert.True(t, IsFinite(p.Hairpin.H[2]))
	assert.True(t, IsFinite(p.Bulge.H[0]))
	// loops cost more the longer they get
	assert.Less(t, p.Interior.S[29], p.Interior.S[10])
	assert.Less(t, p.Hairpin.S[29], p.Hairpin.S[10])
}

func TestBonusLookup(t *testing.T) {
	p := Default()
	s, h := p.Tetraloop.Lookup(codes("CGAAAGTTT"), 6)
	assert.Less(t, h, 0.0)
	assert.NotZero(t, s)
	s, h = p.Tetraloop.Lookup(codes("CAAAAG"), 6)
	assert.Zero(t, s)
	assert.Zero(t, h)
	s, h = p.Triloop.Lookup(codes("GGA"), 5)
	assert.Zero(t, s+h, "key too short")
	_, h = p.Triloop.Lookup(codes("GGAAC"), 5)
	assert.Less(t, h, 0.0)
}

func TestDefaultShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func ExampleBonus_Lookup() {
	s, h := Default().Tetraloop.Lookup(codes("CTTCGG"), 6)
	fmt.Printf("dH %.0f cal/mol dS %.2f cal/K/mol\n", h, s)
	// Output: dH -3000 cal/mol dS -4.84 cal/K/mol
}

func TestBuiltInFill(t *testing.T) {
	assert.NotPanics(t, func() { BuildDefault() })
	assert.NotPanics(t, func() { MustFill(nil, nil) })
	assert.PanicsWithValue(t, "nnparam: built in tables: short table", func() {
		MustFill(nil, errors.New("short table"), nil)
	})
}
