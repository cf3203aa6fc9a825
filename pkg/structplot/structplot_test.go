package structplot_test

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/andrew-torda/thal/pkg/nnparam"
	. "github.com/andrew-torda/thal/pkg/structplot"
	"github.com/andrew-torda/thal/pkg/thal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dimer(t *testing.T) *thal.Result {
	a := thal.DefaultArgs()
	a.Structure = true
	r, err := thal.Thal(nnparam.Default(), []byte("ACGTACGTTTGCA"), []byte("TGCAAACGTACGT"), a)
	require.NoError(t, err)
	require.False(t, r.NoStructure)
	return r
}

func TestRender(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, Render(&b, dimer(t), nil))
	img, err := png.Decode(&b)
	require.NoError(t, err)
	bnds := img.Bounds()
	assert.Greater(t, bnds.Dx(), bnds.Dy(), "text is wider than high")
}

// Bigger text needs a bigger picture
func TestSize(t *testing.T) {
	lines := []string{"SEQ\tAC  GT", "STR\tACGTACGT"}
	var small, big bytes.Buffer
	o := DefaultOptions()
	require.NoError(t, Lines(&small, lines, o))
	o.Size = 28
	require.NoError(t, Lines(&big, lines, o))
	is, err := png.Decode(&small)
	require.NoError(t, err)
	ib, err := png.Decode(&big)
	require.NoError(t, err)
	assert.Greater(t, ib.Bounds().Dx(), is.Bounds().Dx())
	assert.Greater(t, ib.Bounds().Dy(), is.Bounds().Dy())
	assert.Equal(t, "SEQ\tAC  GT", lines[0], "caller's lines left alone")
}

func TestNothing(t *testing.T) {
	var b bytes.Buffer
	assert.ErrorIs(t, Lines(&b, nil, nil), ErrNothingToDraw)
	assert.ErrorIs(t, Render(&b, &thal.Result{NoStructure: true}, nil), ErrNothingToDraw)
	r := dimer(t)
	r.Structure = ""
	assert.ErrorIs(t, Render(&b, r, nil), ErrNothingToDraw)
}

func TestWriteFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "dimer.png")
	require.NoError(t, WriteFile(name, dimer(t), nil))
	fp, err := os.Open(name)
	require.NoError(t, err)
	defer fp.Close()
	_, err = png.Decode(fp)
	assert.NoError(t, err)
	assert.Error(t, WriteFile(filepath.Join(t.TempDir(), "no", "such", "dir.png"), dimer(t), nil))
}
