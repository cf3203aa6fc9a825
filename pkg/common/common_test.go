package common_test

import (
	"os"
	"testing"

	"github.com/andrew-torda/thal/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrtTemp(t *testing.T) {
	const s = "1 inf 3.5 -12.1\n"
	name, err := common.WrtTemp(s)
	require.NoError(t, err)
	defer os.Remove(name)
	b, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, s, string(b))
}
