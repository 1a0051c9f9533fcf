package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntHelpers(t *testing.T) {
	assert.Equal(t, 3, AbsInt(-3))
	assert.Equal(t, 3, AbsInt(3))
	assert.Equal(t, 5, MaxInt(2, 5))
	assert.Equal(t, 2, MinInt(2, 5))
}

func TestCheckKmer(t *testing.T) {
	assert.Empty(t, CheckKmer(31))
	assert.NotEmpty(t, CheckKmer(30))
	assert.NotEmpty(t, CheckKmer(1))
	assert.Empty(t, CheckLexKmer(31))
	assert.NotEmpty(t, CheckLexKmer(33))
	assert.Empty(t, CheckKmer(33))
}

func Benchmark_AbsInt(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = AbsInt(-i)
	}
}
