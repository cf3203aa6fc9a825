package batch_test

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/andrew-torda/thal/pkg/analysis"
	. "github.com/andrew-torda/thal/pkg/batch"
	"github.com/andrew-torda/thal/pkg/seq"
	"github.com/andrew-torda/thal/pkg/thal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var oligos = []seq.Oligo{
	{Name: "fwd", Seq: []byte("GGTCATCGAAGCCTTGACCA")},
	{Name: "rev", Seq: []byte("TGGTCAAGGCTTCGATGACC")},
	{Name: "stem", Seq: []byte("CGCGCAAAAGCGCG")},
	{Name: "at", Seq: []byte("AAAATTTTAAAATTTT")},
}

func newAnalysis(t *testing.T) *analysis.Analysis {
	an, err := analysis.New(nil, analysis.DefaultConditions())
	require.NoError(t, err)
	return an
}

func TestScreen(t *testing.T) {
	an := newAnalysis(t)
	var lbuf bytes.Buffer
	opts := Options{Workers: 3, MinTm: -1000, Logger: log.New(&lbuf, "", 0)}
	hits, err := Screen(context.Background(), an, oligos, opts)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Contains(t, lbuf.String(), "14 calculations")
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Result.Temp, hits[i].Result.Temp)
	}
	found := false
	for _, h := range hits {
		if h.Kind == Heterodimer && h.Name1 == "fwd" && h.Name2 == "rev" {
			found = true
			assert.Greater(t, h.Result.Temp, 40.0)
		}
		assert.False(t, h.Result.NoStructure)
		if h.Kind != Heterodimer {
			assert.Empty(t, h.Name2)
		}
	}
	assert.True(t, found, "fwd against rev")

	// One worker gives the same answer
	opts.Workers, opts.Logger = 1, nil
	again, err := Screen(context.Background(), an, oligos, opts)
	require.NoError(t, err)
	assert.Equal(t, hits, again)
}

func TestMinTm(t *testing.T) {
	hits, err := Screen(context.Background(), newAnalysis(t), oligos, Options{MinTm: 40})
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	for _, h := range hits {
		assert.GreaterOrEqual(t, h.Result.Temp, 40.0)
	}
}

func TestCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Screen(ctx, newAnalysis(t), oligos, Options{Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBadOligo(t *testing.T) {
	bad := append([]seq.Oligo{{Name: "u", Seq: []byte("ACGU")}}, oligos...)
	_, err := Screen(context.Background(), newAnalysis(t), bad, Options{})
	assert.ErrorIs(t, err, seq.ErrBadBase)
}

// Too long for a dimer of two long oligos, the error comes from a worker
func TestWorkerError(t *testing.T) {
	long := []seq.Oligo{
		{Name: "l1", Seq: bytes.Repeat([]byte("ACGT"), 20)},
		{Name: "l2", Seq: bytes.Repeat([]byte("TTGA"), 20)},
	}
	_, err := Screen(context.Background(), newAnalysis(t), long, Options{Workers: 2})
	assert.ErrorIs(t, err, thal.ErrBothTooLong)
}

func TestWriteTSV(t *testing.T) {
	hits, err := Screen(context.Background(), newAnalysis(t), oligos[:2], Options{MinTm: -1000})
	require.NoError(t, err)
	var sb strings.Builder
	require.NoError(t, WriteTSV(&sb, hits))
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, len(hits)+1)
	assert.Equal(t, "kind\toligo1\toligo2\ttm\tdg\tdh\tds", lines[0])
	n := 0
	for _, l := range lines {
		assert.Len(t, strings.Split(l, "\t"), 7)
		if strings.HasPrefix(l, "heterodimer\tfwd\trev\t") {
			n++
		}
	}
	assert.Equal(t, 1, n)
}
