package white_test

import (
	"strings"
	"testing"

	"github.com/andrew-torda/thal/pkg/white"
)

func BenchmarkRemove(b *testing.B) {
	s := strings.Repeat(strings.Repeat("acgtacgtac ", 6)+"\n", 10)
	for i := 0; i < b.N; i++ {
		tt := []byte(s)
		white.Remove(&tt)
	}
}
