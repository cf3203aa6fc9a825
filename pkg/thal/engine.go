// 8 March 2024
// The per call workspace and the small numerical helpers.

package thal

import (
	"math"

	"github.com/andrew-torda/thal/matrix"
	"github.com/andrew-torda/thal/pkg/dna"
	"github.com/andrew-torda/thal/pkg/nnparam"
	"golang.org/x/exp/constraints"
)

const (
	rGas             = 1.9872 // cal/K/mol
	ilaS             = -300 / 310.15
	ilaH             = 0.0
	minEntropyCutoff = -2500.0
	minEntropy       = -3224.0
	g2               = 0.0 // structures with a higher dG are not stable
	absoluteZero     = 273.15
	tempKelvin       = 310.15
	minHrpnLoop      = 3
	smallNonZero     = 0.000001
)

var inf = math.Inf(1)

// energy is an entropy, enthalpy pair. It is what the dynamic
// programming works with.
type energy struct {
	s, h float64
}

var forbidden = energy{s: -1, h: inf}

// clamp replaces an unreasonably low entropy, so it cannot give a
// silly temperature.
func (e energy) clamp() energy {
	if e.s < minEntropyCutoff {
		return energy{s: minEntropy, h: 0}
	}
	return e
}

func isFinite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

// equal is the comparison used in traceback. Infinities are never equal.
func equal(a, b float64) bool {
	if !isFinite(a) || !isFinite(b) {
		return false
	}
	return math.Abs(a-b) < 1e-5
}

func abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// max5 gives the position, from 1, of the largest argument. Ties go
// to the later one.
func max5(a, b, c, d, e float64) int {
	switch {
	case a > b && a > c && a > d && a > e:
		return 1
	case b > c && b > d && b > e:
		return 2
	case c > d && c > e:
		return 3
	case d > e:
		return 4
	}
	return 5
}

// saltCorrectS is the entropy salt correction per phosphate.
func saltCorrectS(mv, dv, dntp float64) float64 {
	if dv <= 0 {
		dntp = dv
	}
	return 0.368 * math.Log((mv+120*math.Sqrt(math.Max(0, dv-dntp)))/1000)
}

// engine has everything one calculation needs. Sequences are padded
// codes, with the bases at 1..len and an N at each end. For a hairpin,
// s2 is the same slice as s1.
type engine struct {
	p          *nnparam.Params
	o1, o2     []byte // upper case letters, o2 reversed for a dimer
	s1, s2     []byte
	len1, len2 int
	mode       Mode
	maxLoop    int
	tempOnly   bool
	draw       bool
	initH      float64
	initS      float64
	rc         float64 // RT ln of the oligo concentration term
	salt       float64
	temp       float64
	dptS, dptH *matrix.DMatrix2d
	send5      []float64 // best exterior structure up to i
	hend5      []float64
}

func newEngine(p *nnparam.Params, oligo1, oligo2 []byte, a *Args) *engine {
	e := &engine{
		p:        p,
		mode:     a.Mode,
		maxLoop:  a.MaxLoop,
		tempOnly: a.TempOnly,
		draw:     a.Structure,
		salt:     saltCorrectS(a.Mv, a.Dv, a.DNTP),
		temp:     a.Temp,
	}
	e.o1 = dna.Upper(oligo1)
	if a.Mode == Hairpin {
		e.o2 = e.o1
		e.initH, e.initS, e.rc = 0, -0.00000000001, 0
	} else {
		e.initH, e.initS = 200, -5.7
		if dna.IsSelfComplementary(oligo1) && dna.IsSelfComplementary(oligo2) {
			e.rc = rGas * math.Log(a.DNAConc/1000000000.0)
		} else {
			e.rc = rGas * math.Log(a.DNAConc/4000000000.0)
		}
		e.o2 = dna.Reverse(dna.Upper(oligo2))
	}
	e.len1, e.len2 = len(e.o1), len(e.o2)
	e.s1 = dna.Padded(e.o1)
	if a.Mode == Hairpin {
		e.s2 = e.s1
	} else {
		e.s2 = dna.Padded(e.o2)
	}
	e.dptS = matrix.NewDMatrix2d(e.len1, e.len2)
	e.dptH = matrix.NewDMatrix2d(e.len1, e.len2)
	return e
}

// Table access is 1-based, so that i and j are sequence positions.
// Anything out of range is a bug and the slice bounds checks will say
// so.
func (e *engine) cell(i, j int) energy {
	return energy{s: e.dptS.Mat[i-1][j-1], h: e.dptH.Mat[i-1][j-1]}
}

func (e *engine) cellH(i, j int) float64 { return e.dptH.Mat[i-1][j-1] }

// fill sets every cell to x.
func (e *engine) fill(x energy) {
	e.dptS.Fill(x.s)
	e.dptH.Fill(x.h)
}

func (e *engine) set(i, j int, x energy) {
	e.dptS.Mat[i-1][j-1] = x.s
	e.dptH.Mat[i-1][j-1] = x.h
}

// tm is the melting temperature an energy would give, without salt
// correction.
func (e *engine) tm(x energy) float64 {
	return (x.h + e.initH) / (x.s + e.initS + e.rc)
}

func (e *engine) bp(a, b byte) bool { return dna.BasePair(a, b) }

func (e *engine) atp(a, b byte) energy {
	return energy{s: e.p.AtpS[a][b], h: e.p.AtpH[a][b]}
}

// dg37 is the free energy at the reference temperature used while
// filling tables.
func dg37(x energy) float64 { return x.h - tempKelvin*x.s }
