package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andrew-torda/thal/pkg/analysis"
	. "github.com/andrew-torda/thal/pkg/config"
	"github.com/andrew-torda/thal/pkg/oligotm"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// empty is a directory with no config files in it
func empty(t *testing.T) Sources {
	d := t.TempDir()
	return Sources{Dirs: []string{d}, EnvFile: filepath.Join(d, ".env")}
}

func TestDefaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, Setup(v, empty(t)))
	c, err := New(v)
	require.NoError(t, err)
	cond, err := c.Conditions()
	require.NoError(t, err)
	assert.Equal(t, analysis.DefaultConditions(), cond)
	assert.Empty(t, c.ParamDir)
	assert.False(t, c.Verbose)
}

func TestFile(t *testing.T) {
	src := empty(t)
	yaml := "mv: 100\ndv: 0\nmaxloop: 20\nsalt: owczarzy\nworkers: 3\nmin-tm: 35.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(src.Dirs[0], "thal.yaml"), []byte(yaml), 0o644))
	v := viper.New()
	require.NoError(t, Setup(v, src))
	c, err := New(v)
	require.NoError(t, err)
	assert.Equal(t, 100.0, c.Mv)
	assert.Zero(t, c.Dv)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, 35.5, c.MinTm)
	cond, err := c.Conditions()
	require.NoError(t, err)
	assert.Equal(t, 20, cond.MaxLoop)
	assert.Equal(t, oligotm.Owczarzy, cond.Salt)
	assert.Equal(t, 37.0, cond.Temp, "not in file, so the default")
}

func TestBadFile(t *testing.T) {
	src := empty(t)
	require.NoError(t, os.WriteFile(filepath.Join(src.Dirs[0], "thal.yaml"), []byte("mv: [1,\n"), 0o644))
	assert.Error(t, Setup(viper.New(), src))
}

// Environment beats the file, flags beat the environment.
func TestPrecedence(t *testing.T) {
	src := empty(t)
	require.NoError(t, os.WriteFile(filepath.Join(src.Dirs[0], "thal.yaml"), []byte("temp: 50\ndna: 100\nmv: 20\n"), 0o644))
	require.NoError(t, os.WriteFile(src.EnvFile, []byte("THAL_DNA=200\nTHAL_MIN_TM=12\n"), 0o644))
	t.Setenv("THAL_TEMP", "60")
	t.Setenv("THAL_DNA", "")
	os.Unsetenv("THAL_DNA")
	t.Setenv("THAL_MIN_TM", "")
	os.Unsetenv("THAL_MIN_TM")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Float64(KeyMv, 0, "")
	require.NoError(t, fs.Parse([]string{"--mv", "75"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag(KeyMv, fs.Lookup(KeyMv)))
	require.NoError(t, Setup(v, src))
	c, err := New(v)
	require.NoError(t, err)
	assert.Equal(t, 60.0, c.Temp)
	assert.Equal(t, 200.0, c.DNAConc)
	assert.Equal(t, 12.0, c.MinTm)
	assert.Equal(t, 75.0, c.Mv)
}

func TestBadSalt(t *testing.T) {
	c := Config{Salt: "debye"}
	_, err := c.Conditions()
	assert.ErrorIs(t, err, oligotm.ErrSaltMethod)
	c.Salt = "SantaLucia"
	cond, err := c.Conditions()
	require.NoError(t, err)
	assert.Equal(t, oligotm.SantaLucia, cond.Salt)
}
