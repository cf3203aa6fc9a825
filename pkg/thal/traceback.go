// 10 March 2024
// Walking back through a filled table to find which bases pair. A
// step is accepted when recomputing it gives the stored value, within
// the tolerance of equal().

package thal

func (x energy) equal(y energy) bool { return equal(x.s, y.s) && equal(x.h, y.h) }

// traceDimer follows the duplex from its right hand end at (i, j)
// back to where it starts. ps1[i-1] is the partner of base i in oligo
// 1 and ps2 does the same for oligo 2. Zero means unpaired.
func (e *engine) traceDimer(i, j int) (ps1, ps2 []int) {
	ps1, ps2 = make([]int, e.len1), make([]int, e.len2)
	ps1[i-1], ps2[j-1] = j, i
	for {
		c := e.cell(i, j)
		if c.equal(e.lsh(i, j)) {
			break
		}
		moved := false
		if i > 1 && j > 1 && c.equal(e.stackDimer(i-1, j-1).add(e.cell(i-1, j-1))) {
			i, j, moved = i-1, j-1, true
		} else {
			e.window(i, j, func(ii, jj int) bool {
				if c.equal(e.calcBulgeInternal(ii, jj, i, j, true)) {
					i, j, moved = ii, jj, true
				}
				return moved
			})
		}
		if !moved {
			break
		}
		ps1[i-1], ps2[j-1] = j, i
	}
	return ps1, ps2
}

type traceKind byte

const (
	exterior traceKind = iota // send5/hend5 at i
	interior                  // the table at (i, j)
)

type tracer struct {
	i, j int
	kind traceKind
}

// traceHairpin gives bp, with bp[i-1] the partner of base i or zero.
func (e *engine) traceHairpin() []int {
	bp := make([]int, e.len1)
	stack := []tracer{{i: e.len1, kind: exterior}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.kind == exterior {
			stack = e.traceExterior(top.i, stack)
		} else {
			stack = e.traceInterior(top.i, top.j, bp, stack)
		}
	}
	return bp
}

// traceExterior finds the last pair in the exterior loop of bases 1..i
// and what comes before it.
func (e *engine) traceExterior(i int, stack []tracer) []tracer {
	for i > 0 && equal(e.send5[i], e.send5[i-1]) && equal(e.hend5[i], e.hend5[i-1]) {
		i--
	}
	if i == 0 {
		return stack
	}
	here := e.end(i)
	for x := 1; x <= 4; x++ {
		if !here.equal(e.end5(x, i)) {
			continue
		}
		for k := 0; k <= end5Last(x, i); k++ {
			a, b := e.end5Pair(x, k, i)
			if here.equal(e.end5Sum(x, k, i, energy{})) {
				return append(stack, tracer{i: a, j: b, kind: interior})
			}
			if here.equal(e.end5Sum(x, k, i, e.end(k))) {
				return append(stack, tracer{i: a, j: b, kind: interior}, tracer{i: k, kind: exterior})
			}
		}
		return stack
	}
	return stack
}

// traceInterior records the pair (i, j) and decides whether it stacks,
// closes a hairpin loop or closes a bulge or internal loop.
func (e *engine) traceInterior(i, j int, bp []int, stack []tracer) []tracer {
	bp[i-1], bp[j-1] = j, i
	c := e.cell(i, j)
	hp := e.calcHairpin(i, j, true)
	loop := e.cbi(i, j, searchPass)
	switch {
	case c.equal(e.stackHairpin(i, j).add(e.cell(i+1, j-1))):
		return append(stack, tracer{i: i + 1, j: j - 1, kind: interior})
	case c.equal(hp):
	case c.equal(loop):
		e.loopWindow(i, j, false, func(ii, jj int) bool {
			x, _ := e.calcBulgeInternal2(i, j, ii, jj, tracePass)
			if c.equal(x.add(e.cell(ii, jj))) {
				stack = append(stack, tracer{i: ii, j: jj, kind: interior})
				return true
			}
			return false
		})
	}
	return stack
}
