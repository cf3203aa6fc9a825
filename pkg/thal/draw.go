// 10 March 2024
// Text pictures of structures.

package thal

import (
	"strings"
)

// leadingZeros counts unpaired positions before the first pair.
func leadingZeros(ps []int) int {
	n := 0
	for n < len(ps) && ps[n] == 0 {
		n++
	}
	return n
}

// drawDimer gives four lines. The outer two have the unpaired bases
// of oligo 1 (top) and reversed oligo 2 (bottom), the inner two have
// the paired ones. A '-' fills out the shorter side of a loop.
func (e *engine) drawDimer(ps1, ps2 []int) string {
	o1, o2 := e.o1, e.o2
	var d [4]strings.Builder
	spaces := func(b *strings.Builder, n int) {
		for ; n > 0; n-- {
			b.WriteByte(' ')
		}
	}
	nss1, nss2 := leadingZeros(ps1), leadingZeros(ps2)
	if nss1 >= nss2 {
		d[0].Write(o1[:nss1])
		spaces(&d[1], nss1)
		spaces(&d[2], nss1)
		spaces(&d[3], nss1-nss2)
		d[3].Write(o2[:nss2])
	} else {
		d[3].Write(o2[:nss2])
		spaces(&d[1], nss2)
		spaces(&d[2], nss2)
		spaces(&d[0], nss2-nss1)
		d[0].Write(o1[:nss1])
	}
	i, j := nss1+1, nss2+1
	for i <= e.len1 {
		for i <= e.len1 && ps1[i-1] != 0 && j <= e.len2 && ps2[j-1] != 0 {
			d[0].WriteByte(' ')
			d[1].WriteByte(o1[i-1])
			d[2].WriteByte(o2[j-1])
			d[3].WriteByte(' ')
			i++
			j++
		}
		n1 := 0
		for ; i <= e.len1 && ps1[i-1] == 0; i++ {
			d[0].WriteByte(o1[i-1])
			d[1].WriteByte(' ')
			n1++
		}
		n2 := 0
		for ; j <= e.len2 && ps2[j-1] == 0; j++ {
			d[2].WriteByte(' ')
			d[3].WriteByte(o2[j-1])
			n2++
		}
		for ; n1 < n2; n1++ {
			d[0].WriteByte('-')
			d[1].WriteByte(' ')
		}
		for ; n2 < n1; n2++ {
			d[2].WriteByte(' ')
			d[3].WriteByte('-')
		}
	}
	var b strings.Builder
	for k, tag := range []string{"SEQ", "SEQ", "STR", "STR"} {
		b.WriteString(tag)
		b.WriteByte('\t')
		b.WriteString(strings.TrimRight(d[k].String(), " \t"))
		b.WriteByte('\n')
	}
	return b.String()
}

// drawHairpin marks the 5' base of each pair with '/', the 3' base
// with '\' and unpaired bases with '-', above the sequence.
func (e *engine) drawHairpin(bp []int) string {
	row := make([]byte, e.len1)
	for i := 1; i <= e.len1; i++ {
		switch p := bp[i-1]; {
		case p == 0:
			row[i-1] = '-'
		case p > i-1:
			row[p-1] = '\\'
		default:
			row[p-1] = '/'
		}
	}
	return "SEQ\t" + string(row) + "\nSTR\t" + string(e.o1) + "\n"
}
