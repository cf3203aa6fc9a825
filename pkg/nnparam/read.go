// 5 March 2024
// Reading parameter files. There are sixteen of them. Most have one
// number per line, the loop file has four fields per line and the
// triloop and tetraloop files have a sequence and a number.
// A number may be written as "inf". Blank lines and anything after a
// '#' are ignored.

package nnparam

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/andrew-torda/thal/pkg/dna"
	"github.com/andrew-torda/thal/pkg/zwrap"
	"github.com/edsrzf/mmap-go"
)

var (
	ErrMissingFile    = errors.New("Unable to open file")
	ErrMalformedValue = errors.New("malformed value")
)

// File names, in the order they are read
const (
	FStackDS     = "stack.ds"
	FStackDH     = "stack.dh"
	FStackMMDS   = "stackmm.ds"
	FStackMMDH   = "stackmm.dh"
	FDangleDS    = "dangle.ds"
	FDangleDH    = "dangle.dh"
	FLoopsDS     = "loops.ds"
	FLoopsDH     = "loops.dh"
	FTstackDS    = "tstack_tm_inf.ds"
	FTstackDH    = "tstack.dh"
	FTstack2DS   = "tstack2.ds"
	FTstack2DH   = "tstack2.dh"
	FTriloopDS   = "triloop.ds"
	FTriloopDH   = "triloop.dh"
	FTetraloopDS = "tetraloop.ds"
	FTetraloopDH = "tetraloop.dh"
)

// FileNames lists all the files a parameter directory must have.
var FileNames = []string{
	FStackDS, FStackDH, FStackMMDS, FStackMMDH, FDangleDS, FDangleDH,
	FLoopsDS, FLoopsDH, FTstackDS, FTstackDH, FTstack2DS, FTstack2DH,
	FTriloopDS, FTriloopDH, FTetraloopDS, FTetraloopDH,
}

const cmmtChar = '#'

// Opener returns a reader for one of the parameter files.
type Opener func(name string) (io.ReadCloser, error)

// cmmtScanner wraps bufio.Scanner, skips blank lines, removes
// comments and leading and trailing white space, and counts lines.
type cmmtScanner struct {
	*bufio.Scanner
	fname string
	nline int
}

// next returns the next line with something in it. Like Bytes(), the
// result points into the scanner's buffer.
func (s *cmmtScanner) next() ([]byte, error) {
	for s.Scan() {
		s.nline++
		b := s.Bytes()
		if i := bytes.IndexByte(b, cmmtChar); i >= 0 {
			b = b[:i]
		}
		if b = bytes.TrimSpace(b); len(b) > 0 {
			return b, nil
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.fname, err)
	}
	return nil, io.EOF
}

func (s *cmmtScanner) malformed(what string) error {
	return fmt.Errorf("%w in %s line %d: %s", ErrMalformedValue, s.fname, s.nline, what)
}

// number reads one field. "inf" at the start means +Inf.
func (s *cmmtScanner) number(field []byte) (float64, error) {
	if bytes.HasPrefix(field, []byte("inf")) {
		return math.Inf(1), nil
	}
	x, err := strconv.ParseFloat(string(field), 64)
	if err != nil {
		return 0, s.malformed(fmt.Sprintf("%q", field))
	}
	return x, nil
}

// float reads a line with one number on it.
func (s *cmmtScanner) float() (float64, error) {
	b, err := s.next()
	if err == io.EOF {
		return 0, s.malformed("too few values")
	} else if err != nil {
		return 0, err
	}
	return s.number(bytes.Fields(b)[0])
}

// loop reads "n interior bulge hairpin".
func (s *cmmtScanner) loop() (v [3]float64, err error) {
	b, err := s.next()
	if err == io.EOF {
		return v, s.malformed("too few loop lines")
	} else if err != nil {
		return v, err
	}
	f := bytes.Fields(b)
	if len(f) != 4 {
		return v, s.malformed(fmt.Sprintf("want 4 fields, got %d", len(f)))
	}
	for i := range v {
		if v[i], err = s.number(f[i+1]); err != nil {
			return v, err
		}
	}
	return v, nil
}

// tloop reads "SEQ value". At the end of the file, it returns io.EOF.
func (s *cmmtScanner) tloop(n int) (TLoop, error) {
	b, err := s.next()
	if err != nil {
		return TLoop{}, err
	}
	f := bytes.Fields(b)
	if len(f) != 2 || len(f[0]) != n {
		return TLoop{}, s.malformed(fmt.Sprintf("want a %d base loop and a value", n))
	}
	t := TLoop{Loop: make([]byte, n)}
	for i, c := range f[0] {
		t.Loop[i] = dna.Code(c)
	}
	if t.Value, err = s.number(f[1]); err != nil {
		return TLoop{}, err
	}
	return t, nil
}

// reader holds the open files while the tables are being filled.
type reader struct {
	open    Opener
	closers []io.Closer
}

func (r *reader) get(name string) (*cmmtScanner, error) {
	rc, err := r.open(name)
	if err != nil {
		return nil, err
	}
	r.closers = append(r.closers, rc)
	return &cmmtScanner{Scanner: bufio.NewScanner(rc), fname: name}, nil
}

func (r *reader) close() {
	for _, c := range r.closers {
		c.Close()
	}
	r.closers = nil
}

// pair opens an entropy and enthalpy file.
func (r *reader) pair(ds, dh string) (*cmmtScanner, *cmmtScanner, error) {
	sS, err := r.get(ds)
	if err != nil {
		return nil, nil, err
	}
	sH, err := r.get(dh)
	if err != nil {
		return nil, nil, err
	}
	return sS, sH, nil
}

func both(sS, sH *cmmtScanner) (s, h float64, err error) {
	if s, err = sS.float(); err != nil {
		return
	}
	h, err = sH.float()
	return
}

func (r *reader) table4(t *Table4, rl rule, ds, dh string) error {
	sS, sH, err := r.pair(ds, dh)
	if err != nil {
		return err
	}
	return fill4(t, rl, func(_, _, _, _ int) (float64, float64, error) { return both(sS, sH) })
}

func (r *reader) dangles(p *Params) error {
	sS, sH, err := r.pair(FDangleDS, FDangleDH)
	if err != nil {
		return err
	}
	next := func(_, _, _ int) (float64, float64, error) { return both(sS, sH) }
	if err := fill3(&p.Dangle3, true, next); err != nil {
		return err
	}
	return fill3(&p.Dangle5, false, next)
}

func (r *reader) loops(p *Params) error {
	sS, sH, err := r.pair(FLoopsDS, FLoopsDH)
	if err != nil {
		return err
	}
	for k := 0; k < MaxLoop; k++ {
		vs, err := sS.loop()
		if err != nil {
			return err
		}
		vh, err := sH.loop()
		if err != nil {
			return err
		}
		p.Interior.S[k], p.Bulge.S[k], p.Hairpin.S[k] = vs[0], vs[1], vs[2]
		p.Interior.H[k], p.Bulge.H[k], p.Hairpin.H[k] = vh[0], vh[1], vh[2]
	}
	return nil
}

func (r *reader) bonus(b *Bonus, n int, ds, dh string) error {
	for _, x := range []struct {
		l    *[]TLoop
		name string
	}{{&b.S, ds}, {&b.H, dh}} {
		s, err := r.get(x.name)
		if err != nil {
			return err
		}
		*x.l = nil
		for {
			t, err := s.tloop(n)
			if err == io.EOF {
				break
			} else if err != nil {
				return err
			}
			*x.l = append(*x.l, t)
		}
		sortLoops(*x.l)
	}
	return nil
}

// Parse builds a parameter set from the files given by open.
func Parse(open Opener) (*Params, error) {
	r := reader{open: open}
	defer r.close()
	p := new(Params)
	if err := r.table4(&p.Stack, stackRule, FStackDS, FStackDH); err != nil {
		return nil, err
	}
	if err := r.table4(&p.StackMM, stackRule, FStackMMDS, FStackMMDH); err != nil {
		return nil, err
	}
	if err := r.dangles(p); err != nil {
		return nil, err
	}
	if err := r.loops(p); err != nil {
		return nil, err
	}
	if err := r.table4(&p.Tstack, tstackRule, FTstackDS, FTstackDH); err != nil {
		return nil, err
	}
	if err := r.table4(&p.Tstack2, tstackRule, FTstack2DS, FTstack2DH); err != nil {
		return nil, err
	}
	if err := r.bonus(&p.Triloop, 5, FTriloopDS, FTriloopDH); err != nil {
		return nil, err
	}
	if err := r.bonus(&p.Tetraloop, 6, FTetraloopDS, FTetraloopDH); err != nil {
		return nil, err
	}
	p.setATP()
	return p, nil
}

// mapped is a memory mapped file seen as a ReadSeekCloser.
type mapped struct {
	*bytes.Reader
	mm mmap.MMap
	fp *os.File
}

func (m *mapped) Close() error {
	var err error
	if m.mm != nil {
		err = m.mm.Unmap()
	}
	if e := m.fp.Close(); err == nil {
		err = e
	}
	return err
}

// mapFile maps a file read-only. An empty file cannot be mapped, so it
// just gets an empty reader.
func mapFile(name string) (*mapped, error) {
	fp, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, err
	}
	if info.Size() == 0 {
		return &mapped{Reader: bytes.NewReader(nil), fp: fp}, nil
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		fp.Close()
		return nil, err
	}
	return &mapped{Reader: bytes.NewReader(mm), mm: mm, fp: fp}, nil
}

// DirOpener maps files from a directory. Gzipped files are
// decompressed on the fly.
func DirOpener(dir string) Opener {
	return func(name string) (io.ReadCloser, error) {
		fname := filepath.Join(dir, name)
		m, err := mapFile(fname)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", ErrMissingFile, fname, err)
		}
		rc, err := zwrap.WrapMaybe(m)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("%w %s: %v", ErrMissingFile, fname, err)
		}
		return rc, nil
	}
}

// FSOpener reads files from dir within fsys.
func FSOpener(fsys fs.FS, dir string) Opener {
	return func(name string) (io.ReadCloser, error) {
		fname := path.Join(dir, name)
		f, err := fsys.Open(fname)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", ErrMissingFile, fname, err)
		}
		return f, nil
	}
}

// Load reads a parameter directory.
func Load(dir string) (*Params, error) { return Parse(DirOpener(dir)) }

// LoadFS reads a parameter directory from a file system, for instance
// one built with embed.
func LoadFS(fsys fs.FS, dir string) (*Params, error) { return Parse(FSOpener(fsys, dir)) }
