// 6 March 2024
// Writing a parameter set as a directory of files that Load can read.

package nnparam

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/andrew-torda/thal/pkg/dna"
)

func fmtNum(x float64) string {
	if math.IsInf(x, 1) {
		return "inf"
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// wrtPair writes a pair of files in step, one line at a time.
type wrtPair struct {
	s, h *bufio.Writer
}

func (w wrtPair) put(s, h float64) error {
	if _, err := fmt.Fprintln(w.s, fmtNum(s)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w.h, fmtNum(h))
	return err
}

// Creator makes one output file.
type Creator func(name string) (io.WriteCloser, error)

type writer struct {
	create Creator
	files  []io.WriteCloser
	bufs   []*bufio.Writer
}

func (w *writer) open(name string) (*bufio.Writer, error) {
	f, err := w.create(name)
	if err != nil {
		return nil, err
	}
	b := bufio.NewWriter(f)
	w.files = append(w.files, f)
	w.bufs = append(w.bufs, b)
	return b, nil
}

func (w *writer) pair(ds, dh string) (wrtPair, error) {
	s, err := w.open(ds)
	if err != nil {
		return wrtPair{}, err
	}
	h, err := w.open(dh)
	if err != nil {
		return wrtPair{}, err
	}
	return wrtPair{s, h}, nil
}

// close flushes and closes everything, collecting errors.
func (w *writer) close() error {
	var err error
	for i, f := range w.files {
		err = errors.Join(err, w.bufs[i].Flush(), f.Close())
	}
	return err
}

// table4 writes the entries fill4 would read back, in the same order.
func (w *writer) table4(t *Table4, rl rule, ds, dh string) error {
	wp, err := w.pair(ds, dh)
	if err != nil {
		return err
	}
	var tmp Table4
	return fill4(&tmp, rl, func(i, ii, j, jj int) (float64, float64, error) {
		return 0, 0, wp.put(t.S[i][ii][j][jj], t.H[i][ii][j][jj])
	})
}

func (w *writer) dangles(p *Params) error {
	wp, err := w.pair(FDangleDS, FDangleDH)
	if err != nil {
		return err
	}
	var tmp Table3
	if err := fill3(&tmp, true, func(i, j, k int) (float64, float64, error) {
		return 0, 0, wp.put(p.Dangle3.S[i][k][j], p.Dangle3.H[i][k][j])
	}); err != nil {
		return err
	}
	return fill3(&tmp, false, func(i, j, k int) (float64, float64, error) {
		return 0, 0, wp.put(p.Dangle5.S[i][j][k], p.Dangle5.H[i][j][k])
	})
}

func (w *writer) loops(p *Params) error {
	wp, err := w.pair(FLoopsDS, FLoopsDH)
	if err != nil {
		return err
	}
	for k := 0; k < MaxLoop; k++ {
		if _, err := fmt.Fprintf(wp.s, "%d\t%s\t%s\t%s\n", k+1,
			fmtNum(p.Interior.S[k]), fmtNum(p.Bulge.S[k]), fmtNum(p.Hairpin.S[k])); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(wp.h, "%d\t%s\t%s\t%s\n", k+1,
			fmtNum(p.Interior.H[k]), fmtNum(p.Bulge.H[k]), fmtNum(p.Hairpin.H[k])); err != nil {
			return err
		}
	}
	return nil
}

func loopString(l []byte) string {
	const letters = "ACGTN"
	b := make([]byte, len(l))
	for i, c := range l {
		if c > dna.N {
			c = dna.N
		}
		b[i] = letters[c]
	}
	return string(b)
}

func (w *writer) bonus(b *Bonus, ds, dh string) error {
	wp, err := w.pair(ds, dh)
	if err != nil {
		return err
	}
	for _, x := range []struct {
		l   []TLoop
		out *bufio.Writer
	}{{b.S, wp.s}, {b.H, wp.h}} {
		for _, t := range x.l {
			if _, err := fmt.Fprintf(x.out, "%s\t%s\n", loopString(t.Loop), fmtNum(t.Value)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Write sends a parameter set to files made by create.
func Write(p *Params, create Creator) (err error) {
	w := writer{create: create}
	defer func() { err = errors.Join(err, w.close()) }()
	if err = w.table4(&p.Stack, stackRule, FStackDS, FStackDH); err != nil {
		return err
	}
	if err = w.table4(&p.StackMM, stackRule, FStackMMDS, FStackMMDH); err != nil {
		return err
	}
	if err = w.dangles(p); err != nil {
		return err
	}
	if err = w.loops(p); err != nil {
		return err
	}
	if err = w.table4(&p.Tstack, tstackRule, FTstackDS, FTstackDH); err != nil {
		return err
	}
	if err = w.table4(&p.Tstack2, tstackRule, FTstack2DS, FTstack2DH); err != nil {
		return err
	}
	if err = w.bonus(&p.Triloop, FTriloopDS, FTriloopDH); err != nil {
		return err
	}
	return w.bonus(&p.Tetraloop, FTetraloopDS, FTetraloopDH)
}

// WriteDir writes the sixteen parameter files into dir, creating it if
// need be.
func WriteDir(p *Params, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return Write(p, func(name string) (io.WriteCloser, error) {
		return os.Create(filepath.Join(dir, name))
	})
}
