// 12 March 2024

// Package seq reads oligos, which usually begin their lives in fasta
// format. Files may be gzipped.
package seq

import (
	"errors"
	"fmt"
	"io"

	"github.com/andrew-torda/thal/pkg/dna"
	"github.com/andrew-torda/thal/pkg/zwrap"
)

var (
	ErrNoSeqs   = errors.New("No sequences found")
	ErrZeroLen  = errors.New("Zero length sequence")
	ErrNotFasta = errors.New("input does not start with a '>' comment")
	ErrBadBase  = errors.New("not a nucleotide")
)

// Oligo is one sequence with the comment that came before it.
type Oligo struct {
	Name string
	Seq  []byte
}

// Len is the number of bases.
func (o Oligo) Len() int { return len(o.Seq) }

// String is the oligo in fasta format, on one line.
func (o Oligo) String() string { return fmt.Sprintf(">%s\n%s\n", o.Name, o.Seq) }

// Check says if an oligo can go into a thermodynamic calculation. It
// may contain A, C, G, T and N, in either case.
func (o Oligo) Check() error {
	if len(o.Seq) > dna.MaxSeq {
		return fmt.Errorf("%s: %w", o.Name, dna.ErrTooLong)
	}
	for i, c := range o.Seq {
		if dna.Code(c) == dna.N && c != 'N' && c != 'n' {
			return fmt.Errorf("%s position %d, %q: %w", o.Name, i+1, c, ErrBadBase)
		}
	}
	return nil
}

// ReadFile reads a fasta file, which may be compressed.
func ReadFile(name string) ([]Oligo, error) {
	r, err := zwrap.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	oligos, err := ReadFasta(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return oligos, nil
}

// WriteFasta writes oligos with sequence lines of at most width
// characters. A width of zero puts each sequence on one line.
func WriteFasta(w io.Writer, oligos []Oligo, width int) error {
	for _, o := range oligos {
		if _, err := fmt.Fprintf(w, ">%s\n", o.Name); err != nil {
			return err
		}
		s := o.Seq
		for len(s) > 0 {
			n := len(s)
			if width > 0 && n > width {
				n = width
			}
			if _, err := fmt.Fprintf(w, "%s\n", s[:n]); err != nil {
				return err
			}
			s = s[n:]
		}
	}
	return nil
}
