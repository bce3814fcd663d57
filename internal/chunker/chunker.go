package chunker

import (
	"strings"
	"unicode"
)

// Options controls the character windowing. Sizes are in runes.
type Options struct {
	Size     int
	Overlap  int
	MinChars int
}

const (
	defaultChunkSize    = 1200
	defaultChunkOverlap = 200
	defaultMinChars     = 50
)

func DefaultOptions() Options {
	return Options{
		Size:     defaultChunkSize,
		Overlap:  defaultChunkOverlap,
		MinChars: defaultMinChars,
	}
}

// Split slices text into overlapping windows of opt.Size runes. Each window
// is whitespace-normalized before the MinChars filter so pages that are mostly
// layout whitespace are excluded. Consecutive windows share opt.Overlap runes,
// so a phrase crossing a boundary appears whole in at least one chunk.
// The output depends only on the input text and options.
func Split(text string, opt Options) []string {
	if opt.Size <= 0 {
		opt = DefaultOptions()
	}
	if opt.Overlap < 0 || opt.Overlap >= opt.Size {
		opt.Overlap = 0
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + opt.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := NormalizeWhitespace(string(runes[start:end]))
		if len([]rune(chunk)) > opt.MinChars {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
		start = end - opt.Overlap
	}
	return chunks
}

// NormalizeWhitespace collapses runs of whitespace to single spaces and trims.
func NormalizeWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
