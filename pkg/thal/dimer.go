// 8 March 2024
// Filling the table for two oligos. Oligo 2 is reversed, so both run
// along the table in the same direction and (i, j) is a base pair
// between position i of oligo 1 and position j of reversed oligo 2.

package thal

func (x energy) add(y energy) energy { return energy{s: x.s + y.s, h: x.h + y.h} }

// initDimer allows a cell if the two bases can pair.
func (e *engine) initDimer() {
	e.fill(forbidden)
	for i := 1; i <= e.len1; i++ {
		for j := 1; j <= e.len2; j++ {
			if e.bp(e.s1[i], e.s2[j]) {
				e.set(i, j, energy{s: minEntropy, h: 0})
			}
		}
	}
}

// unstable marks a terminal term that does not hold together at 37 C.
func unstable(x energy) (energy, float64) {
	g := dg37(x)
	if !isFinite(x.h) || g > 0 {
		return forbidden, 1
	}
	return x, g
}

// danglePick compares the terminal mismatch x1 with a dangling end
// term x2 and keeps the one with the higher melting temperature.
func (e *engine) danglePick(x1 energy, g1, t1 float64, x2 energy) (energy, float64) {
	x2, g2 := unstable(x2)
	t2 := e.tm(x2)
	if isFinite(x1.h) && g1 < 0 {
		t1 = e.tm(x1)
		if t1 < t2 && g2 < 0 {
			return x2, t2
		}
		return x1, t1
	} else if g2 < 0 {
		return x2, t2
	}
	return x1, t1
}

// terminal is the end of a duplex closed by a pair with AT penalty atp.
// tstk is the terminal mismatch term. If the neighbouring bases do not
// pair, dangling ends d3 and d5 are tried as well. The result is
// whichever gives the highest melting temperature, with the bare AT
// penalty as the fall back.
func (e *engine) terminal(atp, tstk energy, dangles bool, d3, d5 energy) energy {
	x1, g1 := unstable(atp.add(tstk))
	t1 := -inf
	if dangles {
		switch {
		case isFinite(d3.h) && isFinite(d5.h):
			x1, t1 = e.danglePick(x1, g1, t1, atp.add(d3).add(d5))
		case isFinite(d3.h):
			x1, t1 = e.danglePick(x1, g1, t1, atp.add(d3))
		case isFinite(d5.h):
			x1, t1 = e.danglePick(x1, g1, t1, atp.add(d5))
		}
	}
	if isFinite(x1.h) && !(t1 < e.tm(atp)) {
		return x1
	}
	return atp
}

// lsh is the left (5' of oligo 1) end of a duplex starting at (i, j).
func (e *engine) lsh(i, j int) energy {
	s1, s2, p := e.s1, e.s2, e.p
	if !e.bp(s1[i], s2[j]) {
		return forbidden
	}
	a, b, c, d := s2[j], s2[j-1], s1[i], s1[i-1]
	return e.terminal(
		e.atp(s1[i], s2[j]),
		energy{s: p.Tstack2.S[a][b][c][d], h: p.Tstack2.H[a][b][c][d]},
		!e.bp(d, b),
		energy{s: p.Dangle3.S[a][b][c], h: p.Dangle3.H[a][b][c]},
		energy{s: p.Dangle5.S[a][c][d], h: p.Dangle5.H[a][c][d]},
	)
}

// rsh is the right hand end of a duplex finishing at (i, j).
func (e *engine) rsh(i, j int) energy {
	s1, s2, p := e.s1, e.s2, e.p
	if !e.bp(s1[i], s2[j]) {
		return forbidden
	}
	a, b, c, d := s1[i], s1[i+1], s2[j], s2[j+1]
	return e.terminal(
		e.atp(a, c),
		energy{s: p.Tstack2.S[a][b][c][d], h: p.Tstack2.H[a][b][c][d]},
		!e.bp(b, d),
		energy{s: p.Dangle3.S[a][b][c], h: p.Dangle3.H[a][b][c]},
		energy{s: p.Dangle5.S[a][c][d], h: p.Dangle5.H[a][c][d]},
	)
}

// stackDimer is the stack of pair (i, j) on (i+1, j+1).
func (e *engine) stackDimer(i, j int) energy {
	a, b, c, d := e.s1[i], e.s1[i+1], e.s2[j], e.s2[j+1]
	return energy{s: e.p.Stack.S[a][b][c][d], h: e.p.Stack.H[a][b][c][d]}
}

// maxTM keeps either the current value of (i, j) or the extension of
// (i-1, j-1) by one stack, whichever melts higher.
func (e *engine) maxTM(i, j int) {
	x0 := e.cell(i, j)
	sh := e.rsh(i, j)
	t0 := (x0.h + e.initH + sh.h) / (x0.s + e.initS + sh.s + e.rc)
	var x1 energy
	var t1 float64
	prev, stk := e.cell(i-1, j-1), e.stackDimer(i-1, j-1)
	if isFinite(prev.h) && isFinite(stk.h) {
		x1 = prev.add(stk)
		t1 = (x1.h + e.initH + sh.h) / (x1.s + e.initS + sh.s + e.rc)
	} else {
		x1 = forbidden
		t1 = e.tm(x1)
	}
	x1, x0 = x1.clamp(), x0.clamp()
	if t1 > t0 {
		e.set(i, j, x1)
	} else if t0 >= t1 {
		e.set(i, j, x0)
	}
}

// loopOK throws out loop energies that are not finite or where both
// terms are positive.
func loopOK(x energy) energy {
	if !isFinite(x.h) {
		return forbidden
	}
	if x.h > 0 && x.s > 0 {
		return forbidden
	}
	return x
}

// calcBulgeInternal is the energy of (ii, jj) reached from the earlier
// pair (i, j) over a bulge or internal loop. The stored value of (i, j)
// is included. During the fill, the result is only returned if it
// beats what (ii, jj) already has, otherwise it is forbidden. When
// tracing back it is always returned.
func (e *engine) calcBulgeInternal(i, j, ii, jj int, trace bool) energy {
	p, s1, s2 := e.p, e.s1, e.s2
	ls1, ls2 := ii-i-1, jj-j-1
	loop := ls1 + ls2 - 1
	prev := e.cell(i, j)
	var x energy
	switch {
	case (ls1 == 0 && ls2 == 1) || (ls1 == 1 && ls2 == 0):
		// a one base bulge keeps the stack across it
		a, b, c, d := s1[i], s1[ii], s2[j], s2[jj]
		x = energy{
			s: p.Bulge.S[loop] + p.Stack.S[a][b][c][d],
			h: p.Bulge.H[loop] + p.Stack.H[a][b][c][d],
		}
		if x.h > 0 || x.s > 0 {
			x = forbidden
		}
		x = x.add(prev)
		if !isFinite(x.h) {
			x = forbidden
		}
	case ls1 == 0 || ls2 == 0:
		atp1, atp2 := e.atp(s1[i], s2[j]), e.atp(s1[ii], s2[jj])
		x = loopOK(energy{
			s: p.Bulge.S[loop] + atp1.s + atp2.s + prev.s,
			h: p.Bulge.H[loop] + atp1.h + atp2.h + prev.h,
		})
	case ls1 == 1 && ls2 == 1:
		mm := &p.StackMM
		x = loopOK(energy{
			s: mm.S[s1[i]][s1[i+1]][s2[j]][s2[j+1]] + mm.S[s2[jj]][s2[jj-1]][s1[ii]][s1[ii-1]] + prev.s,
			h: mm.H[s1[i]][s1[i+1]][s2[j]][s2[j+1]] + mm.H[s2[jj]][s2[jj-1]][s1[ii]][s1[ii-1]] + prev.h,
		})
	default:
		ts := &p.Tstack
		asym := float64(abs(ls1 - ls2))
		x = loopOK(energy{
			s: p.Interior.S[loop] + ts.S[s1[i]][s1[i+1]][s2[j]][s2[j+1]] +
				ts.S[s2[jj]][s2[jj-1]][s1[ii]][s1[ii-1]] + ilaS*asym + prev.s,
			h: p.Interior.H[loop] + ts.H[s1[i]][s1[i+1]][s2[j]][s2[j+1]] +
				ts.H[s2[jj]][s2[jj-1]][s1[ii]][s1[ii-1]] + ilaH*asym + prev.h,
		})
	}
	sh := e.rsh(ii, jj)
	cur := e.cell(ii, jj)
	g1 := x.h + sh.h - tempKelvin*(x.s+sh.s)
	g2 := cur.h + sh.h - tempKelvin*(cur.s+sh.s)
	if g1 < g2 || trace {
		return x
	}
	return forbidden
}

// window visits the earlier pairs (ii, jj) which could close a bulge or
// internal loop with (i, j), smallest loops first, until f says stop.
func (e *engine) window(i, j int, f func(ii, jj int) bool) {
	for d := 3; d <= e.maxLoop+2; d++ {
		ii := i - 1
		jj := -ii - d + (j + i)
		if jj < 1 {
			ii -= abs(jj - 1)
			jj = 1
		}
		for ; ii > 0 && jj < j; ii, jj = ii-1, jj+1 {
			if f(ii, jj) {
				return
			}
		}
	}
}

func (e *engine) fillDimer() {
	for i := 1; i <= e.len1; i++ {
		for j := 1; j <= e.len2; j++ {
			if !isFinite(e.cellH(i, j)) {
				continue
			}
			if x := e.lsh(i, j); isFinite(x.h) {
				e.set(i, j, x)
			}
			if i == 1 || j == 1 {
				continue
			}
			e.maxTM(i, j)
			e.window(i, j, func(ii, jj int) bool {
				if !isFinite(e.cellH(ii, jj)) {
					return false
				}
				x := e.calcBulgeInternal(ii, jj, i, j, false).clamp()
				if isFinite(x.h) {
					e.set(i, j, x)
				}
				return false
			})
		}
	}
}

// best finds the cell with the lowest dG once the right hand end is
// added. For End1 and End2 the duplex has to include the last base of
// oligo 1.
func (e *engine) best(mode Mode) (bi, bj int) {
	bestG := inf
	try := func(i, j int) {
		sh := e.rsh(i, j)
		sh.s += smallNonZero
		sh.h += smallNonZero
		c := e.cell(i, j)
		g := (c.h + sh.h + e.initH) - tempKelvin*(c.s+sh.s+e.initS)
		if g < bestG {
			bestG, bi, bj = g, i, j
		}
	}
	if mode == Any {
		for i := 1; i <= e.len1; i++ {
			for j := 1; j <= e.len2; j++ {
				try(i, j)
			}
		}
	} else {
		for j := 1; j <= e.len2; j++ {
			try(e.len1, j)
		}
	}
	if !isFinite(bestG) {
		return 1, 1
	}
	return bi, bj
}

// dimer runs the whole calculation for two oligos.
func (e *engine) dimer(r *Result) {
	e.initDimer()
	e.fillDimer()
	bi, bj := e.best(e.mode)
	c := e.cell(bi, bj)
	if !isFinite(c.h) {
		r.NoStructure = true
		r.Temp = 0
		return
	}
	sh := e.rsh(bi, bj)
	dh := c.h + sh.h + e.initH
	ds := c.s + sh.s + e.initS
	ps1, ps2 := e.traceDimer(bi, bj)
	e.dimerResult(r, ps1, ps2, dh, ds)
	r.AlignEnd1, r.AlignEnd2 = bi, bj
}
