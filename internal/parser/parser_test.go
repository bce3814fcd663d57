package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-rag/internal/chunker"
)

func TestLoadCorpusIgnoresNonPDF(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.txt"), []byte("not a pdf"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89, 0x50}, 0o644))

	chunks, err := LoadCorpus(dir, chunker.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestLoadCorpusSkipsCorruptPDF(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("%PDF-1.4 garbage"), 0o644))

	chunks, err := LoadCorpus(dir, chunker.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestLoadCorpusMissingDir(t *testing.T) {
	chunks, err := LoadCorpus(filepath.Join(t.TempDir(), "does-not-exist"), chunker.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
