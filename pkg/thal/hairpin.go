// 9 March 2024
// Folding one oligo. Only the upper triangle of the table is used,
// (i, j) with j at least minHrpnLoop+1 past i. After the fill, the
// exterior loop is built up from the 5' end in send5/hend5.

package thal

import "github.com/andrew-torda/thal/pkg/nnparam"

// Traceback passes through some of the fill functions. fillPass is
// the normal fill, tracePass returns the loop term without the inner
// cell, searchPass looks for the loop that could have made a cell.
type pass byte

const (
	fillPass pass = iota
	tracePass
	searchPass
)

func (e *engine) initHairpin() {
	e.fill(forbidden)
	for i := 1; i <= e.len1; i++ {
		for j := i + minHrpnLoop + 1; j <= e.len2; j++ {
			if e.bp(e.s1[i], e.s1[j]) {
				e.set(i, j, energy{s: minEntropy, h: 0})
			}
		}
	}
}

// stackHairpin is the stack of pair (i, j) on (i+1, j-1).
func (e *engine) stackHairpin(i, j int) energy {
	if i >= j || i == e.len1 || j == e.len2+1 {
		return forbidden
	}
	a, b, c, d := e.s1[i], e.s1[i+1], e.s2[j], e.s2[j-1]
	x := energy{s: e.p.Stack.S[a][b][c][d], h: e.p.Stack.H[a][b][c][d]}
	if !isFinite(x.h) {
		x.h = inf
	}
	return x
}

// maxTM2 is maxTM for a hairpin, stacking (i, j) on (i+1, j-1).
func (e *engine) maxTM2(i, j int) {
	x0 := e.cell(i, j)
	t0 := e.tm(x0)
	x1 := forbidden
	if isFinite(x0.h) {
		x1 = e.cell(i+1, j-1).add(e.stackHairpin(i, j))
	}
	t1 := e.tm(x1)
	x1, x0 = x1.clamp(), x0.clamp()
	if t1 > t0 {
		e.set(i, j, x1)
	} else {
		e.set(i, j, x0)
	}
}

// loopWindow visits the inner pairs (ii, jj) that can close a bulge or
// internal loop inside (i, j), until f says stop.
func (e *engine) loopWindow(i, j int, bound bool, f func(ii, jj int) bool) {
	for d := j - i - 3; d >= minHrpnLoop+1 && d >= j-i-2-e.maxLoop; d-- {
		for ii := i + 1; ii < j-d && (!bound || ii <= e.len1); ii++ {
			if f(ii, d+ii) {
				return
			}
		}
	}
}

// cbi tries every bulge and internal loop closed by (i, j). In the
// fill, each improvement is stored. In searchPass nothing is stored and
// the last loop that would have been taken is returned.
func (e *engine) cbi(i, j int, ps pass) energy {
	ee := forbidden
	e.loopWindow(i, j, true, func(ii, jj int) bool {
		if ps == fillPass {
			ee = forbidden
		}
		if !isFinite(e.cellH(ii, jj)) || !isFinite(e.cellH(i, j)) {
			return false
		}
		if x, ok := e.calcBulgeInternal2(i, j, ii, jj, ps); ok {
			ee = x
		}
		if isFinite(ee.h) {
			ee = ee.clamp()
			if ps == fillPass {
				e.set(i, j, ee)
			}
		}
		return false
	})
	return ee
}

// calcBulgeInternal2 is the energy of (i, j) closing a bulge or
// internal loop on the inner pair (ii, jj). Unlike the dimer version,
// the inner cell is added before comparing, and the comparison is by
// melting temperature. ok says whether the value should be taken.
func (e *engine) calcBulgeInternal2(i, j, ii, jj int, ps pass) (x energy, ok bool) {
	p, s1, s2 := e.p, e.s1, e.s2
	ls1, ls2 := ii-i-1, j-jj-1
	if ls1+ls2 > e.maxLoop {
		return forbidden, true
	}
	loop := ls1 + ls2 - 1
	is1x1 := false
	switch {
	case (ls1 == 0 && ls2 == 1) || (ls1 == 1 && ls2 == 0):
		a, b, c, d := s1[i], s1[ii], s2[j], s2[jj]
		x = energy{
			s: p.Bulge.S[loop] + p.Stack.S[a][b][c][d],
			h: p.Bulge.H[loop] + p.Stack.H[a][b][c][d],
		}
	case ls1 == 0 || ls2 == 0:
		atp1, atp2 := e.atp(s1[i], s2[j]), e.atp(s1[ii], s2[jj])
		x = energy{
			s: p.Bulge.S[loop] + atp1.s + atp2.s,
			h: p.Bulge.H[loop] + atp1.h + atp2.h,
		}
	case ls1 == 1 && ls2 == 1:
		is1x1 = true
		mm := &p.StackMM
		x = energy{
			s: mm.S[s1[i]][s1[i+1]][s2[j]][s2[j-1]] + mm.S[s2[jj]][s2[jj+1]][s1[ii]][s1[ii-1]],
			h: mm.H[s1[i]][s1[i+1]][s2[j]][s2[j-1]] + mm.H[s2[jj]][s2[jj+1]][s1[ii]][s1[ii-1]],
		}
	default:
		ts := &p.Tstack
		asym := float64(abs(ls1 - ls2))
		x = energy{
			s: p.Interior.S[loop] + ts.S[s1[i]][s1[i+1]][s2[j]][s2[j-1]] +
				ts.S[s2[jj]][s2[jj+1]][s1[ii]][s1[ii-1]] + ilaS*asym,
			h: p.Interior.H[loop] + ts.H[s1[i]][s1[i+1]][s2[j]][s2[j-1]] +
				ts.H[s2[jj]][s2[jj+1]][s1[ii]][s1[ii-1]] + ilaH*asym,
		}
	}
	if ps != tracePass {
		x = x.add(e.cell(ii, jj))
	}
	if !isFinite(x.h) {
		x = forbidden
	}
	t1, t2 := e.tm(x), e.tm(e.cell(i, j))
	if is1x1 && ps == fillPass && t1-t2 < smallNonZero {
		return x, false
	}
	return x, t1 > t2 || (ps != fillPass && t1 >= t2) || ps == tracePass
}

// calcHairpin is the energy of (i, j) closing a hairpin loop. In the
// fill, the stored value of (i, j) is returned instead if it is
// already better.
func (e *engine) calcHairpin(i, j int, trace bool) energy {
	p, s := e.p, e.s1
	n := j - i - 1
	if n < minHrpnLoop {
		return forbidden
	}
	k := min(n, nnparam.MaxLoop) - 1
	x := energy{s: p.Hairpin.S[k], h: p.Hairpin.H[k]}
	switch {
	case n > 3:
		a, b, c, d := s[i], s[i+1], s[j], s[j-1]
		x = x.add(energy{s: p.Tstack2.S[a][b][c][d], h: p.Tstack2.H[a][b][c][d]})
	case n == 3:
		x = x.add(e.atp(s[i], s[j]))
	}
	switch n {
	case 3:
		bs, bh := p.Triloop.Lookup(s[i:], 5)
		x = x.add(energy{s: bs, h: bh})
	case 4:
		bs, bh := p.Tetraloop.Lookup(s[i:], 6)
		x = x.add(energy{s: bs, h: bh})
	}
	if !isFinite(x.h) {
		x = forbidden
	}
	c := e.cell(i, j)
	if x.h > 0 && x.s > 0 && (!(c.h > 0) || !(c.s > 0)) {
		x = forbidden
	}
	sh := e.rsh(i, j)
	g1 := x.h + sh.h - tempKelvin*(x.s+sh.s)
	g2 := c.h + sh.h - tempKelvin*(c.s+sh.s)
	if g2 < g1 && !trace {
		return c
	}
	return x
}

func (e *engine) fillHairpin() {
	for j := 2; j <= e.len2; j++ {
		for i := j - minHrpnLoop - 1; i >= 1; i-- {
			if !isFinite(e.cellH(i, j)) {
				continue
			}
			e.maxTM2(i, j)
			e.cbi(i, j, fillPass)
			if x := e.calcHairpin(i, j, false); isFinite(x.h) {
				e.set(i, j, x.clamp())
			}
		}
	}
}

// end is the best exterior structure of bases 1..i.
func (e *engine) end(i int) energy { return energy{s: e.send5[i], h: e.hend5[i]} }

// The four ways of adding a pair (a, b) at the 3' end of the exterior
// loop, with the previous structure ending at k:
//
//	1: (k+1, i)     closing pair only
//	2: (k+2, i)     with base k+1 dangling at the 5' side
//	3: (k+1, i-1)   with base i dangling at the 3' side
//	4: (k+2, i-1)   both, as a terminal mismatch
func (e *engine) end5Pair(x, k, i int) (a, b int) {
	switch x {
	case 1:
		return k + 1, i
	case 2:
		return k + 2, i
	case 3:
		return k + 1, i - 1
	}
	return k + 2, i - 1
}

// end5Last is the last k for which variant x fits.
func end5Last(x, i int) int {
	switch x {
	case 1:
		return i - minHrpnLoop - 2
	case 2, 3:
		return i - minHrpnLoop - 3
	}
	return i - minHrpnLoop - 4
}

// end5Sum is pre plus variant x of the pair ending the exterior loop.
func (e *engine) end5Sum(x, k, i int, pre energy) energy {
	p, s := e.p, e.s1
	a, b := e.end5Pair(x, k, i)
	var extra energy
	switch x {
	case 2:
		extra = energy{s: p.Dangle5.S[s[i]][s[k+2]][s[k+1]], h: p.Dangle5.H[s[i]][s[k+2]][s[k+1]]}
	case 3:
		extra = energy{s: p.Dangle3.S[s[i-1]][s[i]][s[k+1]], h: p.Dangle3.H[s[i-1]][s[i]][s[k+1]]}
	case 4:
		extra = energy{s: p.Tstack2.S[s[i-1]][s[i]][s[k+2]][s[k+1]], h: p.Tstack2.H[s[i-1]][s[i]][s[k+2]][s[k+1]]}
	}
	atp, c := e.atp(s[a], s[b]), e.cell(a, b)
	return energy{s: pre.s + atp.s + extra.s + c.s, h: pre.h + atp.h + extra.h + c.h}
}

// end5 is the best way of finishing the exterior loop at i with
// variant x. A previous structure is only used if it is better than
// nothing at all.
func (e *engine) end5(x, i int) energy {
	best, maxTm := forbidden, -inf
	tNone := e.tm(energy{})
	for k := 0; k <= end5Last(x, i); k++ {
		var pre energy
		if e.tm(e.end(k)) >= tNone {
			pre = e.end(k)
		}
		c := e.end5Sum(x, k, i, pre)
		if !isFinite(c.h) || c.h > 0 || c.s > 0 {
			c = forbidden
		}
		if t := e.tm(c); maxTm < t && c.s > minEntropyCutoff {
			best, maxTm = c, t
		}
	}
	return best
}

// calcTerminalBP fills send5 and hend5. At each i the structure either
// stays as it was at i-1 or gets a new pair, if that melts higher and
// is stable at temp.
func (e *engine) calcTerminalBP() {
	n := e.len1
	e.send5, e.hend5 = make([]float64, n+1), make([]float64, n+1)
	e.send5[0], e.hend5[0] = forbidden.s, forbidden.h
	e.send5[1], e.hend5[1] = forbidden.s, forbidden.h
	for i := 2; i <= n; i++ {
		e.send5[i], e.hend5[i] = minEntropy, 0
	}
	for i := 2; i <= n; i++ {
		var cand [5]energy
		var t [5]float64
		cand[0] = e.end(i - 1)
		for x := 1; x <= 4; x++ {
			cand[x] = e.end5(x, i)
		}
		for m := range cand {
			t[m] = e.tm(cand[m])
		}
		next := cand[0]
		if m := max5(t[0], t[1], t[2], t[3], t[4]); m > 1 {
			if c := cand[m-1]; c.h-e.temp*c.s < g2 {
				next = c
			}
		}
		e.send5[i], e.hend5[i] = next.s, next.h
	}
}

// hairpin runs the whole calculation for one oligo.
func (e *engine) hairpin(r *Result) {
	e.initHairpin()
	e.fillHairpin()
	e.calcTerminalBP()
	m := e.end(e.len1)
	if !isFinite(m.h) {
		r.NoStructure = true
		r.Temp = 0
		return
	}
	r.AlignEnd1, r.AlignEnd2 = int(m.h), int(m.s)
	bp := e.traceHairpin()
	e.hairpinResult(r, bp, m)
}
