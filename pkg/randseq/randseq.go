// 31 July 2020
// 12 March 2024 DNA oligos instead of protein sequences

// Package randseq writes random oligos in fasta format. They are for
// tests and benchmarks, so the content is not so important. The white
// space is, since the readers have to cope with it.
package randseq

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
)

const (
	nPadWhite = 9 // For padding for adding whitespace to sequences
)

// RandSeqArgs is the set of arguments passed to the main function
type RandSeqArgs struct {
	Iseed   int64     // random number seed
	Wrtr    io.Writer // where we write to
	Cmmt    string    // Comment for the sequences
	Nseq    int       // number of sequences
	Len     int       // Length of sequences
	GC      float64   // fraction of G and C, 0 means 0.5
	NoSpace bool      // Do not add white space
	MkErr   bool      // Add an error, a base that is not a nucleotide

	// Keep, if set, says whether a sequence is wanted. Unwanted ones
	// are drawn again, up to maxTries times per sequence.
	Keep func(s []byte) bool
}

const maxTries = 1000

// ErrNoneKept means Keep rejected every try for one sequence.
var ErrNoneKept = errors.New("no acceptable random sequence found")

// Oligo returns one random sequence of n bases with a GC fraction gc.
func Oligo(rnd *rand.Rand, n int, gc float64) []byte {
	return getseq(n, 0, gc, rnd)
}

// getseq returns a byte slice with a random sequence in it, with
// room for extra white space.
func getseq(seqlen, extra int, gc float64, rnd *rand.Rand) []byte {
	if gc <= 0 || gc >= 1 {
		gc = 0.5
	}
	ret := make([]byte, seqlen, seqlen+extra)
	for i := 0; i < seqlen; i++ {
		if rnd.Float64() < gc {
			ret[i] = "cg"[rnd.Intn(2)]
		} else {
			ret[i] = "at"[rnd.Intn(2)]
		}
	}
	return ret
}

// addInner is used by addspace to add a space or newline
func addInner(s []byte, n int, c byte, spacernd *rand.Rand) []byte {
	for i := 0; i < n; i++ {
		s = append(s, 0)
		pos := spacernd.Intn(len(s))
		copy(s[pos+1:], s[pos:])
		s[pos] = c
	}
	return s
}

// addspace is given a byte array and adds white characters at random
// positions. We work out how much space is to be used. We flip a coin.
// Heads we don't add a newline. Tails we make about 1/10 (integer 1/9)
// of the spaces to be newlines.
func addspace(s []byte, spacernd *rand.Rand) []byte {
	toAdd := cap(s) - len(s)
	nNL := 0 // Number of new lines to add
	if spacernd.Intn(2) == 0 {
		nNL = toAdd / 9
	}
	nSpace := toAdd - nNL
	s = addInner(s, nSpace, ' ', spacernd)
	s = addInner(s, nNL, '\n', spacernd)
	return s
}

// writeseq takes a bytestring which is our sequence. It adds a comment
// and sends it out for writing. n is the number of the sequence, so the
// output has comment lines "> something 1, > something 2..."
func writeseq(sChan <-chan []byte, args *RandSeqArgs, wg *sync.WaitGroup, perr *error) {
	defer wg.Done()

	width := len(fmt.Sprintf("%d", args.Nseq))
	spacernd := rand.New(rand.NewSource(args.Iseed + 1))
	var i int
	for s := range sChan {
		i++
		if *perr != nil {
			continue
		}
		if !args.NoSpace {
			s = addspace(s, spacernd)
		}
		if _, err := fmt.Fprintf(args.Wrtr, "> %s %[2]*d\n%s\n", args.Cmmt, width, i, s); err != nil {
			*perr = err
		}
	}
}

// RandSeqMain writes random sequences to an io.Writer.
func RandSeqMain(args *RandSeqArgs) error {
	var wg sync.WaitGroup
	var err error
	rnd := rand.New(rand.NewSource(args.Iseed))
	sChan := make(chan []byte)
	wg.Add(1)
	go writeseq(sChan, args, &wg, &err)
	for i := 0; i < args.Nseq; i++ {
		extra := 0
		if !args.NoSpace {
			extra = args.Len / nPadWhite // about 10% rubbish white space
		}
		s := getseq(args.Len, extra, args.GC, rnd)
		for try := 1; args.Keep != nil && !args.Keep(s); try++ {
			if try == maxTries {
				close(sChan)
				wg.Wait()
				return fmt.Errorf("sequence %d after %d tries: %w", i+1, try, ErrNoneKept)
			}
			s = getseq(args.Len, extra, args.GC, rnd)
		}
		if args.MkErr && i == args.Nseq/2 && len(s) > 0 {
			s[rnd.Intn(len(s))] = 'x'
		}
		sChan <- s
	}
	close(sChan)
	wg.Wait()
	return err
}
