// Reader for fasta format files.

package seq

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andrew-torda/thal/pkg/white"
)

// An item is terminated by a newline if we are in a comment or a comment
// character ">" if we are in a sequence.
const (
	NL       = '\n'
	cmmtChar = '>'
)

type item struct {
	data     []byte
	complete bool
	err      error // read error, only on the last item
}

type lexer struct {
	ichan    chan *item
	rdr      io.Reader
	itempool sync.Pool
	oligos   []Oligo
	cmmt     string // partial comment
	seq      []byte // partial sequence
	first    bool
	err      error
}

const defaultReadSize = 512

var rdsize int = defaultReadSize

// setFastaRdSize is only used during testing
func setFastaRdSize(i int) {
	if i <= 2 {
		panic("setFastaRdSize given buffer length of 2 or less")
	}
	rdsize = i
}

func newItem() interface{} { return new(item) }

func (l *lexer) getItem() *item {
	it := l.itempool.Get().(*item)
	it.err = nil
	return it
}

// next reads from the input and sends items to ichan. An item is
// terminated by the current terminator, or the end of the buffer. At
// the end of input, an empty complete item is sent and the channel
// closed.
func (l *lexer) next() {
	defer close(l.ichan)
	var input []byte
	term := byte(NL)
	for {
		if len(input) == 0 {
			buf := make([]byte, rdsize)
			n, err := l.rdr.Read(buf)
			if err != nil && err != io.EOF {
				it := l.getItem()
				it.data, it.complete, it.err = nil, true, err
				l.ichan <- it
				return
			}
			if n == 0 {
				if err == nil {
					continue
				}
				it := l.getItem()
				it.data, it.complete = nil, true
				l.ichan <- it
				return
			}
			input = buf[:n]
		}
		it := l.getItem()
		if ndx := bytes.IndexByte(input, term); ndx == -1 {
			it.data, it.complete = input, false // no terminator, send
			input = nil //                         what we have
		} else {
			it.data, it.complete = input[:ndx], true
			input = input[ndx+1:]
			if term == NL {
				term = cmmtChar
			} else {
				term = NL
			}
		}
		l.ichan <- it
	}
}

type stateFn func(*lexer) stateFn

// receive gets the next item. nil means stop.
func (l *lexer) receive() *item {
	it, ok := <-l.ichan
	if !ok {
		return nil
	}
	if it.err != nil {
		l.err = it.err
		return nil
	}
	return it
}

// We are reading a sequence
func gseq(l *lexer) stateFn {
	it := l.receive()
	if it == nil {
		return nil
	}
	defer l.itempool.Put(it)

	white.Remove(&it.data)
	l.seq = append(l.seq, it.data...)
	if it.complete {
		if len(l.seq) == 0 {
			l.err = fmt.Errorf("%w after %q", ErrZeroLen, l.cmmt)
			return nil
		}
		l.oligos = append(l.oligos, Oligo{Name: strings.TrimSpace(l.cmmt), Seq: l.seq})
		l.cmmt = ""
		l.seq = nil
		return gcmmt
	}
	return gseq
}

// We are reading a comment
func gcmmt(l *lexer) stateFn {
	it := l.receive()
	if it == nil {
		return nil
	}
	defer l.itempool.Put(it)

	data := it.data
	if l.first {
		l.first = false
		trimmed := bytes.TrimLeft(data, " \t\r\n")
		if len(trimmed) > 0 && trimmed[0] != cmmtChar {
			l.err = ErrNotFasta
			return nil
		}
		data = bytes.TrimPrefix(trimmed, []byte{cmmtChar})
	}
	l.cmmt = l.cmmt + string(data)
	if it.complete {
		return gseq
	}
	return gcmmt
}

// ReadFasta reads fasta formatted oligos. White space in sequences is
// dropped, the characters are otherwise left as they are.
func ReadFasta(rdr io.Reader) ([]Oligo, error) {
	l := lexer{rdr: rdr, ichan: make(chan *item, 2), first: true}
	l.itempool.New = newItem

	go l.next()
	for state := gcmmt; state != nil; {
		state = state(&l)
	}
	for range l.ichan { // let the reader finish after an error
	}
	if l.err != nil {
		return nil, l.err
	}
	if len(l.oligos) == 0 {
		return nil, ErrNoSeqs
	}
	return l.oligos, nil
}
