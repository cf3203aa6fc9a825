package analysis_test

import (
	"fmt"
	"sync"
	"testing"

	. "github.com/andrew-torda/thal/pkg/analysis"
	"github.com/andrew-torda/thal/pkg/nnparam"
	"github.com/andrew-torda/thal/pkg/thal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	primer  = "GGTCATCGAAGCCTTGACCA"
	reverse = "TGGTCAAGGCTTCGATGACC" // reverse complement of primer
	stem    = "CGCGCAAAAGCGCG"
)

func newAnalysis(t *testing.T) *Analysis {
	a, err := New(nil, DefaultConditions())
	require.NoError(t, err)
	return a
}

func TestNew(t *testing.T) {
	c := DefaultConditions()
	c.MaxLoop = 40
	_, err := New(nil, c)
	assert.ErrorIs(t, err, thal.ErrBadMaxLoop)
	c = DefaultConditions()
	c.DNAConc = 0
	_, err = New(nil, c)
	assert.ErrorIs(t, err, ErrConditions)
	c = DefaultConditions()
	c.Temp = -300
	_, err = New(nil, c)
	assert.ErrorIs(t, err, ErrConditions)
	a := newAnalysis(t)
	assert.Same(t, nnparam.Default(), a.Params())
	assert.Equal(t, DefaultConditions(), a.Conditions())
}

func TestHomodimer(t *testing.T) {
	a := newAnalysis(t)
	homo, err := a.Homodimer([]byte(primer))
	require.NoError(t, err)
	het, err := a.Heterodimer([]byte(primer), []byte(primer))
	require.NoError(t, err)
	assert.Equal(t, het, homo)
}

// A primer against its full complement melts far higher than against
// itself.
func TestHeterodimer(t *testing.T) {
	a := newAnalysis(t)
	full, err := a.Heterodimer([]byte(primer), []byte(reverse))
	require.NoError(t, err)
	self, err := a.Homodimer([]byte(primer))
	require.NoError(t, err)
	require.False(t, full.NoStructure)
	assert.Greater(t, full.Temp, self.Temp)
	assert.Greater(t, full.Temp, 40.0)
	for i, p := range full.Ps1 {
		assert.Equal(t, i+1, p)
	}
}

func TestHairpin(t *testing.T) {
	a := newAnalysis(t)
	r, err := a.Hairpin([]byte(stem))
	require.NoError(t, err)
	assert.False(t, r.NoStructure)
	assert.Less(t, r.Dg, 0.0)
}

func TestEndStability(t *testing.T) {
	a := newAnalysis(t)
	r, err := a.EndStability([]byte(primer), []byte(reverse))
	require.NoError(t, err)
	assert.Equal(t, len(primer), r.AlignEnd1)
}

func TestTm(t *testing.T) {
	a := newAnalysis(t)
	tm, err := a.Tm([]byte(primer))
	require.NoError(t, err)
	assert.Greater(t, tm, 50.0)
	assert.Less(t, tm, 75.0)
	_, err = a.Tm([]byte("ACGTNN"))
	assert.Error(t, err)
}

// Many goroutines on one Analysis get what one goroutine gets.
func TestParallel(t *testing.T) {
	a := newAnalysis(t)
	oligos := []string{primer, reverse, stem, "AAAATTTTGGGGCCCC", "ACGTACGTACGTACGT"}
	want := make([]*thal.Result, len(oligos))
	for i, o := range oligos {
		var err error
		want[i], err = a.Hairpin([]byte(o))
		require.NoError(t, err)
	}
	const nrep = 10
	got := make([]*thal.Result, len(oligos)*nrep)
	var wg sync.WaitGroup
	for k := range got {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			got[k], _ = a.Hairpin([]byte(oligos[k%len(oligos)]))
		}(k)
	}
	wg.Wait()
	for k, r := range got {
		assert.Equal(t, want[k%len(oligos)], r)
	}
}

func ExampleAnalysis_Hairpin() {
	c := DefaultConditions()
	c.Structure = true
	a, err := New(nil, c)
	if err != nil {
		fmt.Println(err)
		return
	}
	r, err := a.Hairpin([]byte("CGCGCAAAAGCGCG"))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(r.AsciiStructureLines()[0])
	// Output: SEQ	/////----\\\\\
}
