// 10 March 2024

package thal

import (
	"fmt"
	"strings"
)

// Result is what one calculation gives. Temp is in Celsius, Dg and Dh
// are cal/mol and Ds is cal/K/mol. With Args.TempOnly, only Temp is
// filled in.
//
// For a dimer, AlignEnd1 and AlignEnd2 are the positions in oligo 1
// and reversed oligo 2 of the last pair of the duplex. For a hairpin
// they are the enthalpy and entropy of the best structure, truncated to
// integers. They are -1 if there is nothing to report.
type Result struct {
	Temp        float64
	Dg          float64
	Dh          float64
	Ds          float64
	AlignEnd1   int
	AlignEnd2   int
	NoStructure bool
	Msg         string
	Ps1, Ps2    []int  // dimer partners, from 1, zero for unpaired
	Bp          []int  // hairpin partners
	Oligo1      string // as aligned, so after any swap
	Oligo2      string // reversed for a dimer
	Structure   string // only with Args.Structure
}

// String gives the values in one line.
func (r *Result) String() string {
	return fmt.Sprintf("ThermoResult(structure_found=%t, tm=%.2f, dg=%.2f, dh=%.2f, ds=%.2f)",
		!r.NoStructure, r.Temp, r.Dg, r.Dh, r.Ds)
}

// AsciiStructureLines splits Structure into its lines, dropping empty
// ones.
func (r *Result) AsciiStructureLines() []string {
	var lines []string
	for _, l := range strings.Split(r.Structure, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// countPaired is the number of non-zero entries.
func countPaired(ps []int) int {
	n := 0
	for _, p := range ps {
		if p > 0 {
			n++
		}
	}
	return n
}

// dimerResult turns the duplex dh and ds into a melting temperature.
// The salt correction goes with the number of phosphates.
func (e *engine) dimerResult(r *Result, ps1, ps2 []int, dh, ds float64) {
	r.Ps1, r.Ps2 = ps1, ps2
	r.Oligo1, r.Oligo2 = string(e.o1), string(e.o2)
	n := countPaired(ps1) + countPaired(ps2)
	n = n/2 - 1
	corr := float64(n) * e.salt
	r.Temp = dh/(ds+corr+e.rc) - absoluteZero
	if e.tempOnly {
		return
	}
	r.Dg = dh - e.temp*(ds+corr)
	r.Ds = ds + corr
	r.Dh = dh
	if e.draw {
		r.Structure = e.drawDimer(ps1, ps2)
	}
}

// hairpinResult is dimerResult for a folded oligo. The last base is
// not counted.
func (e *engine) hairpinResult(r *Result, bp []int, m energy) {
	r.Bp = bp
	r.Oligo1, r.Oligo2 = string(e.o1), string(e.o1)
	n := 0
	for i := 1; i < e.len1; i++ {
		if bp[i-1] > 0 {
			n++
		}
	}
	corr := float64(n/2-1) * e.salt
	r.Temp = m.h/(m.s+corr) - absoluteZero
	if e.tempOnly {
		return
	}
	r.Dg = m.h - e.temp*(m.s+corr)
	r.Ds = m.s + corr
	r.Dh = m.h
	if e.draw {
		r.Structure = e.drawHairpin(bp)
	}
}
