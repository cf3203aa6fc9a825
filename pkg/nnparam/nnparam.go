// 5 March 2024
// Package nnparam holds the nearest-neighbour tables used for DNA
// secondary structure calculations. Entropies are in cal/K/mol and
// enthalpies in cal/mol. A table entry is either a finite pair or the
// forbidden marker, S = -1 and H = +Inf.
//
// The tables can be read from a directory of primer3 style parameter
// files (Load, LoadFS), built from the defaults compiled in here
// (Default), or written out again (WriteDir). Once built, a Params is
// never changed, so one can be shared by as many goroutines as you like.
package nnparam

import (
	"bytes"
	"math"
	"slices"

	"github.com/andrew-torda/thal/pkg/dna"
)

const (
	nc      = dna.NCode // table dimension, four bases plus N
	MaxLoop = 30        // length of the loop tables
)

// AT terminal penalty
const (
	ATPenaltyS = 6.9
	ATPenaltyH = 2200.0
)

// small entropy used where a table says "nothing here, but allowed"
const tinyS = 1e-11

// forbidden entry
const (
	ForbidS = -1.0
)

var ForbidH = math.Inf(1)

// Table4 is indexed by four base codes.
type Table4 struct {
	S, H [nc][nc][nc][nc]float64
}

// Table3 is indexed by three base codes.
type Table3 struct {
	S, H [nc][nc][nc]float64
}

// LoopTable is indexed by loop length - 1.
type LoopTable struct {
	S, H [MaxLoop]float64
}

// TLoop is a triloop (5 codes) or tetraloop (6 codes) bonus. The key
// includes the closing pair.
type TLoop struct {
	Loop  []byte
	Value float64
}

// Bonus holds separate entropy and enthalpy lists, each sorted by
// key so they can be searched.
type Bonus struct {
	S, H []TLoop
}

// Params is the complete parameter set.
type Params struct {
	Stack     Table4 // Watson-Crick stacks
	StackMM   Table4 // stacks with a single mismatch, 1x1 loops
	Tstack    Table4 // terminal mismatches in internal loops
	Tstack2   Table4 // terminal mismatches in hairpins and at ends
	Dangle3   Table3
	Dangle5   Table3
	Hairpin   LoopTable
	Bulge     LoopTable
	Interior  LoopTable
	AtpS      [nc][nc]float64
	AtpH      [nc][nc]float64
	Triloop   Bonus
	Tetraloop Bonus
}

// IsFinite is true for anything but an infinity or NaN.
func IsFinite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

// setATP fills the AT penalty tables.
func (p *Params) setATP() {
	for i := range p.AtpS {
		for j := range p.AtpS[i] {
			p.AtpS[i][j] = tinyS
			p.AtpH[i][j] = 0
		}
	}
	p.AtpS[dna.A][dna.T], p.AtpS[dna.T][dna.A] = ATPenaltyS, ATPenaltyS
	p.AtpH[dna.A][dna.T], p.AtpH[dna.T][dna.A] = ATPenaltyH, ATPenaltyH
}

// sortLoops puts a list in key order, which lookup depends on.
func sortLoops(l []TLoop) {
	slices.SortStableFunc(l, func(a, b TLoop) int { return bytes.Compare(a.Loop, b.Loop) })
}

func lookup(l []TLoop, key []byte) (float64, bool) {
	i, found := slices.BinarySearchFunc(l, key, func(e TLoop, k []byte) int {
		return bytes.Compare(e.Loop, k)
	})
	if !found {
		return 0, false
	}
	return l[i].Value, true
}

// Lookup returns the entropy and enthalpy bonus for the loop starting
// at key. key may be longer than the loop, only the first len(Loop)
// codes are compared. A missing bonus is zero.
func (b *Bonus) Lookup(key []byte, n int) (s, h float64) {
	if len(key) < n {
		return 0, 0
	}
	key = key[:n]
	s, _ = lookup(b.S, key)
	h, _ = lookup(b.H, key)
	return s, h
}

// stackRule and tstackRule are the two ways of treating N in a
// four index table.
type rule int

const (
	stackRule  rule = iota // any N forbids
	tstackRule             // N at the pair forbids, N next to it is harmless
)

// valFunc provides one table entry, given the table indices.
type valFunc func(i, ii, j, jj int) (s, h float64, err error)

// fill4 walks a four index table in file order, i, ii, j, jj, and
// sets entries following the rule, asking next only for entries that
// come from data.
func fill4(t *Table4, r rule, next valFunc) error {
	for i := 0; i < nc; i++ {
		for ii := 0; ii < nc; ii++ {
			for j := 0; j < nc; j++ {
				for jj := 0; jj < nc; jj++ {
					n := int(dna.N)
					switch {
					case r == stackRule && (i == n || ii == n || j == n || jj == n),
						r == tstackRule && (i == n || j == n):
						t.S[i][ii][j][jj], t.H[i][ii][j][jj] = ForbidS, ForbidH
						continue
					case r == tstackRule && (ii == n || jj == n):
						t.S[i][ii][j][jj], t.H[i][ii][j][jj] = tinyS, 0
						continue
					}
					s, h, err := next(i, ii, j, jj)
					if err != nil {
						return err
					}
					if !IsFinite(s) || !IsFinite(h) {
						s, h = ForbidS, ForbidH
					}
					t.S[i][ii][j][jj], t.H[i][ii][j][jj] = s, h
				}
			}
		}
	}
	return nil
}

// fill3 walks a dangle table. Both dangle files list entries as
// paired base, its partner, dangling base. The 3' table is stored
// [paired][dangling][partner], the 5' table [paired][partner][dangling].
func fill3(t *Table3, three bool, next func(pair, partner, dangle int) (s, h float64, err error)) error {
	n := int(dna.N)
	for i := 0; i < nc; i++ {
		for j := 0; j < nc; j++ {
			for k := 0; k < nc; k++ {
				a, b, c := i, j, k
				if three {
					b, c = k, j
				}
				if i == n || j == n || k == n {
					t.S[a][b][c], t.H[a][b][c] = ForbidS, ForbidH
					continue
				}
				s, h, err := next(i, j, k)
				if err != nil {
					return err
				}
				if !IsFinite(s) || !IsFinite(h) {
					s, h = ForbidS, ForbidH
				}
				t.S[a][b][c], t.H[a][b][c] = s, h
			}
		}
	}
	return nil
}
