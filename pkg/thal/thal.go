// 8 March 2024

// Package thal finds the most stable secondary structure between two
// DNA oligos (a dimer) or within one oligo (a hairpin) and derives a
// melting temperature and free energy from it. It is a nearest
// neighbour dynamic programming method. The dimer case fills a table
// over positions in both oligos, the hairpin case fills the upper
// triangle of a table over one oligo and then extends the best inner
// structure out to the 5' end.
//
// Thal does not keep any state between calls. A *nnparam.Params can be
// shared, everything else belongs to the call, so one can run as many
// calls in parallel as one likes.
package thal

import (
	"errors"
	"fmt"

	"github.com/andrew-torda/thal/pkg/dna"
	"github.com/andrew-torda/thal/pkg/nnparam"
)

// Mode says what kind of structure we look for.
type Mode byte

// Any is a duplex anywhere along the two oligos. End1 forces the 3' end
// of the first oligo into the duplex, End2 does the same for the
// second oligo. Hairpin folds the first oligo on itself.
const (
	Any Mode = iota + 1
	End1
	End2
	Hairpin
)

func (m Mode) String() string {
	switch m {
	case Any:
		return "any"
	case End1:
		return "end1"
	case End2:
		return "end2"
	case Hairpin:
		return "hairpin"
	}
	return fmt.Sprintf("mode(%d)", byte(m))
}

var (
	ErrBothTooLong = fmt.Errorf("At least one sequence must be equal to or shorter than %dbp for thermodynamic calculations", dna.MaxAlign)
	ErrTooLong     = fmt.Errorf("Target sequence length > maximum allowed (%d) in thermodynamic alignment", dna.MaxSeq)
	ErrBadMode     = errors.New("Illegal type")
	ErrBadMaxLoop  = fmt.Errorf("maximum loop length must be between 1 and %d", nnparam.MaxLoop)
	ErrNilParams   = errors.New("no thermodynamic parameters")
)

// Args are the conditions for a calculation. Concentrations of
// monovalent and divalent cations and dNTPs are mM, the oligo
// concentration is nM and Temp is in Kelvin.
type Args struct {
	Mode      Mode
	MaxLoop   int     // longest bulge or internal loop
	Mv        float64 // monovalent cations
	Dv        float64 // divalent cations
	DNTP      float64
	DNAConc   float64
	Temp      float64 // for dG
	TempOnly  bool    // only calculate Temp
	Structure bool    // fill in Result.Structure
}

// DefaultArgs gives the conditions primer3 uses for primer dimers.
func DefaultArgs() *Args {
	return &Args{
		Mode:    Any,
		MaxLoop: nnparam.MaxLoop,
		Mv:      50,
		Dv:      0,
		DNTP:    0.8,
		DNAConc: 50,
		Temp:    tempKelvin,
	}
}

// OligoDefaultArgs is DefaultArgs for a free oligo, without dNTPs.
func OligoDefaultArgs() *Args {
	a := DefaultArgs()
	a.DNTP = 0
	return a
}

// check is run before any work is done.
func (a *Args) check() error {
	switch a.Mode {
	case Any, End1, End2, Hairpin:
	default:
		return ErrBadMode
	}
	if a.MaxLoop < 1 || a.MaxLoop > nnparam.MaxLoop {
		return fmt.Errorf("%w, got %d", ErrBadMaxLoop, a.MaxLoop)
	}
	return nil
}

// Thal calculates the structure of oligo1 and oligo2 under the
// conditions in args. For a Hairpin only oligo1 is folded, but both
// sequences are checked, so callers normally pass the same one twice.
// An empty sequence is not an error. It gives a result with Temp 0
// and a message. Finding no structure is not an error either, the
// result has NoStructure set and Temp 0.
// If args is nil, DefaultArgs are used.
func Thal(p *nnparam.Params, oligo1, oligo2 []byte, args *Args) (*Result, error) {
	if p == nil {
		return nil, ErrNilParams
	}
	if args == nil {
		args = DefaultArgs()
	}
	len1, len2 := len(oligo1), len(oligo2)
	switch {
	case len1 > dna.MaxAlign && len2 > dna.MaxAlign:
		return nil, ErrBothTooLong
	case len1 > dna.MaxSeq:
		return nil, fmt.Errorf("%w (1)", ErrTooLong)
	case len2 > dna.MaxSeq:
		return nil, fmt.Errorf("%w (2)", ErrTooLong)
	}
	if err := args.check(); err != nil {
		return nil, err
	}
	r := &Result{AlignEnd1: -1, AlignEnd2: -1}
	if len1 == 0 {
		r.Msg = "Empty first sequence"
		return r, nil
	}
	if len2 == 0 {
		r.Msg = "Empty second sequence"
		return r, nil
	}
	if args.Mode == End2 {
		oligo1, oligo2 = oligo2, oligo1
	}
	e := newEngine(p, oligo1, oligo2, args)
	if args.Mode == Hairpin {
		e.hairpin(r)
	} else {
		e.dimer(r)
	}
	return r, nil
}
