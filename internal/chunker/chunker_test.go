package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses runs", "a  b\t\tc", "a b c"},
		{"newlines become spaces", "riso\nintegrale\r\ncon verdure", "riso integrale con verdure"},
		{"trims edges", "  pasta  ", "pasta"},
		{"only whitespace", " \n\t ", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeWhitespace(tt.in))
		})
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("zuppa di farro con verdure di stagione e olio extravergine. ", 80)
	opt := Options{Size: 300, Overlap: 60, MinChars: 50}

	a := Split(text, opt)
	b := Split(text, opt)
	require.Equal(t, a, b)
	assert.NotEmpty(t, a)
}

func TestSplitOverlapWindow(t *testing.T) {
	text := strings.Repeat("abcdefghij", 100) // 1000 runes, no whitespace
	opt := Options{Size: 400, Overlap: 100, MinChars: 50}

	chunks := Split(text, opt)
	require.Len(t, chunks, 3)

	// each consecutive pair shares the overlap window
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		tail := string(prev[len(prev)-100:])
		assert.True(t, strings.HasPrefix(chunks[i], tail), "chunk %d does not start with previous tail", i)
	}
}

func TestSplitDropsShortChunks(t *testing.T) {
	assert.Nil(t, Split("troppo corto", DefaultOptions()))
	assert.Nil(t, Split("   \n\t  ", DefaultOptions()))
	assert.Nil(t, Split("", DefaultOptions()))

	// 60 non-space runes survive the 50-char minimum
	long := strings.Repeat("x", 60)
	assert.Len(t, Split(long, DefaultOptions()), 1)

	// mostly-whitespace text is measured after normalization
	sparse := strings.Repeat("x \n\t ", 30) // 30 x's -> "x x x ..." = 59 runes
	chunks := Split(sparse, DefaultOptions())
	require.Len(t, chunks, 1)
	assert.Equal(t, strings.TrimSpace(strings.Repeat("x ", 30)), chunks[0])
}

func TestSplitNormalizesInsideWindow(t *testing.T) {
	text := strings.Repeat("parola  ", 40)
	chunks := Split(text, Options{Size: 1200, Overlap: 200, MinChars: 50})
	require.Len(t, chunks, 1)
	assert.NotContains(t, chunks[0], "  ")
}

func TestSplitInvalidOptionsFallBack(t *testing.T) {
	text := strings.Repeat("minestrone con fagioli e cavolo nero di stagione. ", 60)

	// zero size falls back to defaults rather than looping
	assert.NotEmpty(t, Split(text, Options{}))

	// overlap >= size is discarded rather than stepping backwards
	chunks := Split(text, Options{Size: 100, Overlap: 100, MinChars: 50})
	assert.NotEmpty(t, chunks)
}
