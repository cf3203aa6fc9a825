// Package brokenio wraps an io.ReadCloser and makes reads fail now and
// then. It is for testing the parameter and sequence readers.
// Typical use: take a file or a strings.Reader, wrap it with
//
//	r := brokenio.NewReader(io.NopCloser(src), seed)
//
// and set the failure rates. Everything then works as before, but
// with artificial errors. A failed read zeroes the tail of the buffer
// and returns an error. A "zero file" returns io.EOF on the first read,
// which is what one sees with an empty file.
package brokenio

import (
	"fmt"
	"io"
	"math/rand"
)

// Reader is an io.ReadCloser with knobs for failure rates. The rates
// are probabilities, so 0.05 means a failure in 5% of reads.
type Reader struct {
	src          io.ReadCloser
	rnd          *rand.Rand
	probZeroFile float32 // return nothing on the first read
	probFail     float32 // a read fails
	fracFail     float32 // how much of a failed read is wiped
	nCalled      int
	nByte        int
}

// NewReader wraps src. The seed makes failures repeatable.
func NewReader(src io.ReadCloser, seed int64) *Reader {
	return &Reader{
		src:      src,
		rnd:      rand.New(rand.NewSource(seed)),
		fracFail: 0.5,
	}
}

// SetProbZeroFile sets the rate at which we return io.EOF on the first
// read. We do not check if the argument is between 0 and 1.
func (r *Reader) SetProbZeroFile(prob float32) { r.probZeroFile = prob }

// SetProbFail sets the probability of a read failing.
func (r *Reader) SetProbFail(prob float32) { r.probFail = prob }

// SetFracFail sets the fraction of a failed read which is wiped out.
func (r *Reader) SetFracFail(frac float32) { r.fracFail = frac }

// Stats says how often Read was called and how many bytes went through.
func (r *Reader) Stats() (nCalled, nByte int) { return r.nCalled, r.nByte }

// trash zeroes the last frac of p and says how much is left.
func trash(p []byte, frac float32) (int, error) {
	nkeep := int(float32(len(p)) * (1 - frac))
	if nkeep == len(p) {
		return nkeep, nil
	}
	clear(p[nkeep:])
	return nkeep, fmt.Errorf("brokenio: wiped out last %d of %d bytes", len(p)-nkeep, len(p))
}

// Read reads from the wrapped reader and may break the result.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.nCalled == 0 && r.probZeroFile > 0 && r.rnd.Float32() < r.probZeroFile {
		r.nCalled++
		return 0, io.EOF
	}
	n, err := r.src.Read(p)
	r.nCalled++
	r.nByte += n
	if n > 0 && r.fracFail > 0 && r.rnd.Float32() < r.probFail {
		return trash(p[:n], r.fracFail)
	}
	return n, err
}

// Close closes the wrapped reader.
func (r *Reader) Close() error { return r.src.Close() }
