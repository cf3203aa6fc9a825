// 6 March 2024
// Built-in parameters, so a program can run without a parameter
// directory. The Watson-Crick stacks and the loop anchors are the
// SantaLucia and Hicks (2004) unified values. Mismatch, dangling end and
// terminal mismatch terms are flat approximations, one value per class,
// which is good enough for screening oligos but not for publishing.
// Loop lengths between the published anchors are filled in with the
// Jacobson-Stockmayer extrapolation.

package nnparam

import (
	"math"
	"sync"

	"github.com/andrew-torda/thal/pkg/dna"
)

const (
	tRef    = 310.15    // K, temperature of the reference free energies
	rKcal   = 1.9872e-3 // kcal/K/mol
	jsConst = 2.44      // Jacobson-Stockmayer coefficient
)

const bases = "ACGT"

// wcStack is dH (kcal/mol) and dS (cal/K/mol) keyed by the top strand
// dinucleotide, 5' to 3'.
var wcStack = map[string][2]float64{
	"AA": {-7.6, -21.3}, "TT": {-7.6, -21.3},
	"AT": {-7.2, -20.4},
	"TA": {-7.2, -21.3},
	"CA": {-8.5, -22.7}, "TG": {-8.5, -22.7},
	"GT": {-8.4, -22.4}, "AC": {-8.4, -22.4},
	"CT": {-7.8, -21.0}, "AG": {-7.8, -21.0},
	"GA": {-8.2, -22.2}, "TC": {-8.2, -22.2},
	"CG": {-10.6, -27.2},
	"GC": {-9.8, -24.4},
	"GG": {-8.0, -19.9}, "CC": {-8.0, -19.9},
}

// loop free energies at 37 C, kcal/mol, by length
var (
	interiorAnchor = map[int]float64{3: 3.2, 4: 3.6, 5: 4.0, 6: 4.4, 7: 4.6, 8: 4.8, 9: 4.9,
		10: 4.9, 12: 5.2, 14: 5.4, 16: 5.6, 18: 5.8, 20: 5.9, 25: 6.3, 30: 6.6}
	bulgeAnchor = map[int]float64{1: 4.0, 2: 2.9, 3: 3.1, 4: 3.2, 5: 3.3, 6: 3.5, 7: 3.7,
		8: 3.9, 9: 4.1, 10: 4.3, 12: 4.5, 14: 4.8, 16: 5.0, 18: 5.2, 20: 5.3, 25: 5.6, 30: 5.9}
	hairpinAnchor = map[int]float64{3: 3.5, 4: 3.5, 5: 3.3, 6: 4.0, 7: 4.2, 8: 4.3, 9: 4.5,
		10: 4.6, 12: 5.0, 14: 5.1, 16: 5.3, 18: 5.5, 20: 5.7, 25: 6.1, 30: 6.3}
)

// flat terms, dH and dG in kcal/mol
var (
	mismatchStack = [2]float64{-3.0, 0.4}
	gtStack       = [2]float64{-4.0, 0.0}
	tstackMM      = [2]float64{-3.0, -0.5}
	tstackGA      = [2]float64{-4.0, -1.0}
	tstack2MM     = [2]float64{-5.0, -0.8}
	dangle3Term   = [2]float64{-3.0, -0.4}
	dangle5Term   = [2]float64{-1.0, -0.2}
)

// hairpin bonuses, dH and dG in kcal/mol, the key includes the
// closing pair
var (
	triloopBonus = map[string][2]float64{
		"CGAAG": {-1.5, -0.5},
		"GGAAC": {-1.5, -0.5},
	}
	tetraloopBonus = map[string][2]float64{
		"CGAAAG": {-3.0, -1.5},
		"GGAAAC": {-3.0, -1.5},
		"CGCAAG": {-2.5, -1.0},
		"CTTCGG": {-3.0, -1.5},
		"GGAGAC": {-2.5, -1.0},
		"CGAGAG": {-2.5, -1.0},
	}
)

// sh converts kcal dH and dG to cal/K/mol entropy and cal/mol enthalpy.
func sh(dHdG [2]float64) (s, h float64) {
	h = dHdG[0] * 1000
	s = (dHdG[0] - dHdG[1]) * 1000 / tRef
	return s, h
}

func pairs(a, b int) bool { return dna.BasePair(byte(a), byte(b)) }

var inf = math.Inf(1)

// loopDG fills a table of loop free energies from anchors. Below the
// first anchor is forbidden, between anchors is extrapolated from the
// anchor below.
func loopDG(anchor map[int]float64) (dg [MaxLoop]float64) {
	last := 0
	for n := 1; n <= MaxLoop; n++ {
		if g, ok := anchor[n]; ok {
			dg[n-1], last = g, n
			continue
		}
		if last == 0 {
			dg[n-1] = inf
			continue
		}
		dg[n-1] = anchor[last] + jsConst*rKcal*tRef*math.Log(float64(n)/float64(last))
	}
	return dg
}

func setLoop(t *LoopTable, anchor map[int]float64) {
	for k, g := range loopDG(anchor) {
		if !IsFinite(g) {
			t.S[k], t.H[k] = ForbidS, ForbidH
			continue
		}
		t.S[k], t.H[k] = -g*1000/tRef, 0
	}
}

func bonusList(m map[string][2]float64) Bonus {
	var b Bonus
	for k, v := range m {
		key := make([]byte, len(k))
		for i := range k {
			key[i] = dna.Code(k[i])
		}
		s, h := sh(v)
		b.S = append(b.S, TLoop{Loop: key, Value: s})
		b.H = append(b.H, TLoop{Loop: append([]byte(nil), key...), Value: h})
	}
	sortLoops(b.S)
	sortLoops(b.H)
	return b
}

func stackVal(i, ii, j, jj int) (float64, float64, error) {
	if !pairs(i, j) || !pairs(ii, jj) {
		return ForbidS, ForbidH, nil
	}
	v := wcStack[string([]byte{bases[i], bases[ii]})]
	return v[1], v[0] * 1000, nil
}

// stackMMVal has the pair i,j and its neighbour ii,jj which need not pair.
func stackMMVal(i, ii, j, jj int) (float64, float64, error) {
	switch {
	case !pairs(i, j):
		return ForbidS, ForbidH, nil
	case pairs(ii, jj):
		return stackVal(i, ii, j, jj)
	case ii+jj == 5: // G.T and T.G
		s, h := sh(gtStack)
		return s, h, nil
	}
	s, h := sh(mismatchStack)
	return s, h, nil
}

func tstackVal(i, ii, j, jj int) (float64, float64, error) {
	if !pairs(i, j) {
		return ForbidS, ForbidH, nil
	}
	v := tstackMM
	if (ii == int(dna.G) && jj == int(dna.A)) || (ii == int(dna.A) && jj == int(dna.G)) {
		v = tstackGA
	}
	s, h := sh(v)
	return s, h, nil
}

func tstack2Val(i, _, j, _ int) (float64, float64, error) {
	if !pairs(i, j) {
		return ForbidS, ForbidH, nil
	}
	s, h := sh(tstack2MM)
	return s, h, nil
}

func dangleVal(v [2]float64) func(pair, partner, dangle int) (float64, float64, error) {
	return func(pair, partner, _ int) (float64, float64, error) {
		if !pairs(pair, partner) {
			return ForbidS, ForbidH, nil
		}
		s, h := sh(v)
		return s, h, nil
	}
}

// mustFill panics on the first error. A built in table that cannot be
// filled is a bug.
func mustFill(errs ...error) {
	for _, err := range errs {
		if err != nil {
			panic("nnparam: built in tables: " + err.Error())
		}
	}
}

func buildDefault() *Params {
	p := new(Params)
	mustFill(
		fill4(&p.Stack, stackRule, stackVal),
		fill4(&p.StackMM, stackRule, stackMMVal),
		fill4(&p.Tstack, tstackRule, tstackVal),
		fill4(&p.Tstack2, tstackRule, tstack2Val),
		fill3(&p.Dangle3, true, dangleVal(dangle3Term)),
		fill3(&p.Dangle5, false, dangleVal(dangle5Term)),
	)
	setLoop(&p.Interior, interiorAnchor)
	setLoop(&p.Bulge, bulgeAnchor)
	setLoop(&p.Hairpin, hairpinAnchor)
	p.Triloop = bonusList(triloopBonus)
	p.Tetraloop = bonusList(tetraloopBonus)
	p.setATP()
	return p
}

var (
	dfltOnce sync.Once
	dflt     *Params
)

// Default returns the built-in parameter set. Every caller gets the
// same pointer, so do not change it.
//
// These are not primer3's shipped tables. Only the Watson-Crick stacks
// and the loop anchors are published values. Single mismatches,
// dangling ends and terminal mismatches (Tstack, Tstack2) are flat
// approximations, one number per class, and loop lengths between the
// anchors are extrapolated. Load a primer3 parameter directory for the
// real thing.
func Default() *Params {
	dfltOnce.Do(func() { dflt = buildDefault() })
	return dflt
}
