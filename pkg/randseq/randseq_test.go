// 31 July 2020

package randseq_test

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/andrew-torda/thal/pkg/randseq"
	"github.com/andrew-torda/thal/pkg/seq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimple(t *testing.T) {
	var sb strings.Builder
	args := randseq.RandSeqArgs{
		Wrtr: &sb,
		Cmmt: "testing seq",
		Nseq: 500,
		Len:  40,
	}
	require.NoError(t, randseq.RandSeqMain(&args))
	if n := strings.Count(sb.String(), ">"); n != args.Nseq {
		t.Fatal("count >, got ", n, "expected", args.Nseq)
	}
	oligos, err := seq.ReadFasta(strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Len(t, oligos, args.Nseq)
	for _, o := range oligos {
		assert.Equal(t, args.Len, o.Len())
		assert.NoError(t, o.Check())
	}
}

func TestMkErr(t *testing.T) {
	var sb strings.Builder
	args := randseq.RandSeqArgs{Wrtr: &sb, Cmmt: "x", Nseq: 10, Len: 20, MkErr: true, NoSpace: true}
	require.NoError(t, randseq.RandSeqMain(&args))
	oligos, err := seq.ReadFasta(strings.NewReader(sb.String()))
	require.NoError(t, err)
	nbad := 0
	for _, o := range oligos {
		if errors.Is(o.Check(), seq.ErrBadBase) {
			nbad++
		}
	}
	assert.Equal(t, 1, nbad)
}

func TestGC(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	s := randseq.Oligo(rnd, 10000, 0.8)
	n := strings.Count(string(s), "c") + strings.Count(string(s), "g")
	assert.InDelta(t, 8000, n, 300)
	s = randseq.Oligo(rnd, 1000, 0)
	assert.Len(t, s, 1000)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteFail(t *testing.T) {
	args := randseq.RandSeqArgs{Wrtr: failWriter{}, Nseq: 3, Len: 5}
	assert.Error(t, randseq.RandSeqMain(&args))
}

func TestKeep(t *testing.T) {
	var sb strings.Builder
	noA := func(s []byte) bool { return s[0] != 'a' }
	args := randseq.RandSeqArgs{Wrtr: &sb, Cmmt: "k", Nseq: 50, Len: 12, NoSpace: true, Keep: noA}
	require.NoError(t, randseq.RandSeqMain(&args))
	oligos, err := seq.ReadFasta(strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Len(t, oligos, 50)
	for _, o := range oligos {
		assert.NotEqual(t, byte('a'), o.Seq[0])
	}

	sb.Reset()
	args.Keep = func([]byte) bool { return false }
	assert.ErrorIs(t, randseq.RandSeqMain(&args), randseq.ErrNoneKept)
}
