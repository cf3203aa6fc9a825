package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/thal/pkg/analysis"
	. "github.com/andrew-torda/thal/pkg/common"
	"github.com/andrew-torda/thal/pkg/seq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	var out, errout bytes.Buffer
	require.Equal(t, ExitSuccess, run([]string{"-s", "-", "20", "18"}, &out, &errout), errout.String())
	oligos, err := seq.ReadFasta(strings.NewReader(out.String()))
	require.NoError(t, err)
	assert.Len(t, oligos, 20)

	fname := filepath.Join(t.TempDir(), "r.fa")
	require.Equal(t, ExitSuccess, run([]string{fname, "3", "10"}, &out, &errout))
	oligos, err = seq.ReadFile(fname)
	require.NoError(t, err)
	assert.Len(t, oligos, 3)
}

func TestUsage(t *testing.T) {
	var out, errout bytes.Buffer
	assert.Equal(t, ExitUsageError, run([]string{"-", "20"}, &out, &errout))
	assert.Equal(t, ExitUsageError, run([]string{"-", "twenty", "10"}, &out, &errout))
	assert.Equal(t, ExitUsageError, run([]string{"-nosuchflag", "-", "2", "10"}, &out, &errout))
	assert.Equal(t, ExitFailure, run([]string{filepath.Join(t.TempDir(), "no", "x.fa"), "2", "10"}, &out, &errout))
}

func TestFilter(t *testing.T) {
	var out, errout bytes.Buffer
	const maxTm = 20
	require.Equal(t, ExitSuccess, run([]string{"-s", "-hp", "20", "-", "10", "20"}, &out, &errout), errout.String())
	oligos, err := seq.ReadFasta(strings.NewReader(out.String()))
	require.NoError(t, err)
	require.Len(t, oligos, 10)
	c := analysis.DefaultConditions()
	c.TempOnly = true
	an, err := analysis.New(nil, c)
	require.NoError(t, err)
	for _, o := range oligos {
		r, err := an.Hairpin(o.Seq)
		require.NoError(t, err)
		assert.Less(t, r.Temp, float64(maxTm))
	}
}
