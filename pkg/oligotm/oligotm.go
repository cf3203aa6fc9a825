// 13 March 2024

// Package oligotm gives the melting temperature of an oligo against
// its perfect complement. This is the two state nearest neighbour
// model with the unified SantaLucia parameters, which is what one
// wants for a primer. Oligos longer than MaxNNLength get the GC
// formula instead.
//
// ΔH is in cal/mol, ΔS in cal/K/mol, Tm in °C. Concentrations follow
// the thal package: cations and dNTPs in mM, DNA in nM.
package oligotm

import (
	"errors"
	"fmt"
	"math"

	"github.com/andrew-torda/thal/pkg/dna"
	"golang.org/x/exp/constraints"
)

const (
	rGas         = 1.9872
	absoluteZero = 273.15
	MaxNNLength  = 60
)

// SaltMethod is the salt correction.
type SaltMethod byte

const (
	SantaLucia  SaltMethod = iota // entropy, 0.368 per phosphate
	Schildkraut                   // 16.6 log10 on the temperature
	Owczarzy                      // 2004 GC dependent correction of 1/Tm
)

func (m SaltMethod) String() string {
	switch m {
	case SantaLucia:
		return "santalucia"
	case Schildkraut:
		return "schildkraut"
	case Owczarzy:
		return "owczarzy"
	}
	return fmt.Sprintf("salt(%d)", byte(m))
}

// ParseSaltMethod is the inverse of String.
func ParseSaltMethod(s string) (SaltMethod, error) {
	for _, m := range []SaltMethod{SantaLucia, Schildkraut, Owczarzy} {
		if s == m.String() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrSaltMethod, s)
}

var (
	ErrBadBase    = errors.New("only A, C, G and T have nearest neighbour parameters")
	ErrConc       = errors.New("oligo and monovalent cation concentrations must be positive")
	ErrSaltMethod = errors.New("unknown salt correction")
)

// Conditions for a calculation.
type Conditions struct {
	DNAConc float64 // nM
	Mv      float64 // mM
	Dv      float64 // mM
	DNTP    float64 // mM
	Salt    SaltMethod
}

// DefaultConditions are primer3's.
func DefaultConditions() *Conditions {
	return &Conditions{DNAConc: 50, Mv: 50, Dv: 1.5, DNTP: 0.6, Salt: SantaLucia}
}

// Result of a calculation. For the GC formula, Dh and Ds are zero.
type Result struct {
	Tm float64
	Dh float64
	Ds float64
}

type nnParam struct {
	dh, ds float64 // kcal/mol, cal/K/mol
}

// Nearest neighbours 5'->3' on the top strand, 1 M Na+.
var dimerParams = map[string]nnParam{
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

var nnTable [4][4]nnParam

func init() {
	const acgt = "ACGT"
	for k, v := range dimerParams {
		nnTable[dna.Code(k[0])][dna.Code(k[1])] = v
	}
	for i := range acgt {
		for j := range acgt {
			if nnTable[i][j].dh == 0 {
				panic("oligotm: missing neighbour " + acgt[i:i+1] + acgt[j:j+1])
			}
		}
	}
}

var (
	initDH, initDS     = +0.2, -5.7
	termATDH, termATDS = +2.2, +6.9
	symDH, symDS       = 0.0, -1.4 // self complementary
)

func nonNeg[T constraints.Float](x T) T {
	if x < 0 {
		return 0
	}
	return x
}

// DivalentToMonovalent is the monovalent concentration with the same
// effect as dv mM of Mg2+, after dNTPs have taken their share.
func DivalentToMonovalent(dv, dntp float64) float64 {
	return 120 * math.Sqrt(nonNeg(dv-dntp))
}

// gcFrac is the fraction of G and C.
func gcFrac(codes []byte) float64 {
	n := 0
	for _, c := range codes {
		if c == dna.C || c == dna.G {
			n++
		}
	}
	return float64(n) / float64(len(codes))
}

// Tm is the melting temperature of seq against its complement.
func Tm(seq []byte, c *Conditions) (Result, error) {
	if c == nil {
		c = DefaultConditions()
	}
	codes, err := dna.Encode(seq)
	if err != nil {
		return Result{}, err
	}
	for i, b := range codes {
		if b == dna.N {
			return Result{}, fmt.Errorf("position %d %q: %w", i+1, seq[i], ErrBadBase)
		}
	}
	k := c.Mv + DivalentToMonovalent(c.Dv, c.DNTP) // mM
	if c.DNAConc <= 0 || k <= 0 {
		return Result{}, ErrConc
	}
	if len(codes) > MaxNNLength {
		return Result{Tm: LongSeqTm(codes, k)}, nil
	}
	return nnTm(seq, codes, k, c)
}

func isAT(b byte) bool { return b == dna.A || b == dna.T }

func nnTm(seq, codes []byte, k float64, c *Conditions) (Result, error) {
	n := len(codes)
	dh, ds := initDH, initDS
	for i := 0; i < n-1; i++ {
		p := nnTable[codes[i]][codes[i+1]]
		dh += p.dh
		ds += p.ds
	}
	if isAT(codes[0]) {
		dh, ds = dh+termATDH, ds+termATDS
	}
	if isAT(codes[n-1]) {
		dh, ds = dh+termATDH, ds+termATDS
	}
	x := 4.0
	if dna.IsSelfComplementary(seq) {
		dh, ds = dh+symDH, ds+symDS
		x = 1
	}
	dh *= 1000
	ct := c.DNAConc * 1e-9
	kM := k / 1000
	var tm float64
	switch c.Salt {
	case SantaLucia:
		ds += 0.368 * float64(n-1) * math.Log(kM)
		tm = dh/(ds+rGas*math.Log(ct/x)) - absoluteZero
	case Schildkraut:
		tm = dh/(ds+rGas*math.Log(ct/x)) - absoluteZero + 16.6*math.Log10(kM)
	case Owczarzy:
		tm1M := dh / (ds + rGas*math.Log(ct/x))
		lk := math.Log(kM)
		inv := 1/tm1M + (4.29*gcFrac(codes)-3.95)*1e-5*lk + 9.40e-6*lk*lk
		tm = 1/inv - absoluteZero
	default:
		return Result{}, fmt.Errorf("%w: %d", ErrSaltMethod, c.Salt)
	}
	return Result{Tm: tm, Dh: dh, Ds: ds}, nil
}

// LongSeqTm is the GC formula for longer sequences. codes are base
// codes and k the monovalent equivalent in mM.
func LongSeqTm(codes []byte, k float64) float64 {
	n := float64(len(codes))
	return 81.5 + 16.6*math.Log10(k/1000) + 41*gcFrac(codes) - 600/n
}
