// 13 March 2024

// Package analysis puts the conditions of an experiment together with
// a parameter set, so callers can ask about oligos without building
// thal.Args each time. An Analysis may be used from many goroutines.
package analysis

import (
	"fmt"

	"github.com/andrew-torda/thal/pkg/nnparam"
	"github.com/andrew-torda/thal/pkg/oligotm"
	"github.com/andrew-torda/thal/pkg/thal"
)

const absoluteZero = 273.15

// Conditions are in the units a bench scientist uses. Cations and
// dNTPs are mM, DNA is nM and Temp is °C.
type Conditions struct {
	Mv        float64
	Dv        float64
	DNTP      float64
	DNAConc   float64
	Temp      float64
	MaxLoop   int
	Salt      oligotm.SaltMethod
	TempOnly  bool
	Structure bool
}

// DefaultConditions are those of primer3's design defaults.
func DefaultConditions() Conditions {
	return Conditions{
		Mv:      50,
		Dv:      1.5,
		DNTP:    0.6,
		DNAConc: 50,
		Temp:    37,
		MaxLoop: nnparam.MaxLoop,
		Salt:    oligotm.SantaLucia,
	}
}

// Analysis answers questions about oligos. Make one with New.
type Analysis struct {
	p *nnparam.Params
	c Conditions
}

// New checks the conditions. A nil p means the built in parameters.
func New(p *nnparam.Params, c Conditions) (*Analysis, error) {
	if p == nil {
		p = nnparam.Default()
	}
	if c.MaxLoop < 1 || c.MaxLoop > nnparam.MaxLoop {
		return nil, fmt.Errorf("%w, got %d", thal.ErrBadMaxLoop, c.MaxLoop)
	}
	if c.DNAConc <= 0 || c.Mv < 0 || c.Dv < 0 || c.DNTP < 0 {
		return nil, fmt.Errorf("%w: dna %g nM mv %g dv %g dntp %g", ErrConditions, c.DNAConc, c.Mv, c.Dv, c.DNTP)
	}
	if c.Temp <= -absoluteZero {
		return nil, fmt.Errorf("%w: temperature %g °C", ErrConditions, c.Temp)
	}
	return &Analysis{p: p, c: c}, nil
}

// Conditions returns a copy of what the analysis was made with.
func (a *Analysis) Conditions() Conditions { return a.c }

// Params is the parameter set in use.
func (a *Analysis) Params() *nnparam.Params { return a.p }

func (a *Analysis) args(mode thal.Mode) *thal.Args {
	return &thal.Args{
		Mode:      mode,
		MaxLoop:   a.c.MaxLoop,
		Mv:        a.c.Mv,
		Dv:        a.c.Dv,
		DNTP:      a.c.DNTP,
		DNAConc:   a.c.DNAConc,
		Temp:      a.c.Temp + absoluteZero,
		TempOnly:  a.c.TempOnly,
		Structure: a.c.Structure,
	}
}

// Heterodimer is the most stable duplex between two oligos, anywhere
// along them.
func (a *Analysis) Heterodimer(s1, s2 []byte) (*thal.Result, error) {
	return thal.Thal(a.p, s1, s2, a.args(thal.Any))
}

// Homodimer is Heterodimer of an oligo with itself.
func (a *Analysis) Homodimer(s []byte) (*thal.Result, error) {
	return thal.Thal(a.p, s, s, a.args(thal.Any))
}

// Hairpin is the most stable fold of one oligo.
func (a *Analysis) Hairpin(s []byte) (*thal.Result, error) {
	return thal.Thal(a.p, s, s, a.args(thal.Hairpin))
}

// EndStability is the most stable duplex that includes the 3' end of
// s1. This is what decides whether a primer can be extended on a
// wrong template.
func (a *Analysis) EndStability(s1, s2 []byte) (*thal.Result, error) {
	return thal.Thal(a.p, s1, s2, a.args(thal.End1))
}

// Tm is the melting temperature of an oligo against its complement.
func (a *Analysis) Tm(s []byte) (float64, error) {
	r, err := oligotm.Tm(s, &oligotm.Conditions{
		DNAConc: a.c.DNAConc,
		Mv:      a.c.Mv,
		Dv:      a.c.Dv,
		DNTP:    a.c.DNTP,
		Salt:    a.c.Salt,
	})
	if err != nil {
		return 0, err
	}
	return r.Tm, nil
}
