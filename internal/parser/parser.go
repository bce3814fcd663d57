package parser

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"recipe-rag/internal/chunker"
	"recipe-rag/internal/models"
)

// LoadCorpus walks dir recursively, extracts per-page text from every PDF and
// chunks it. Non-PDF files are ignored. Unreadable files or pages are skipped
// so one bad document cannot abort the whole corpus build.
func LoadCorpus(dir string, opt chunker.Options) ([]models.Chunk, error) {
	if _, err := os.Stat(dir); err != nil {
		log.Warn().Str("dir", dir).Msg("Corpus directory not accessible, treating as empty")
		return nil, nil
	}

	var chunks []models.Chunk
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.ToLower(filepath.Ext(path)) != ".pdf" {
			return nil
		}
		fileChunks, err := parsePDF(path, opt)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping unreadable PDF")
			return nil
		}
		chunks = append(chunks, fileChunks...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking corpus dir: %w", err)
	}
	return chunks, nil
}

// parsePDF extracts each page's plain text and chunks it. The pdf package can
// panic on malformed files, so the recover keeps a corrupt document from
// taking down the build.
func parsePDF(path string, opt chunker.Options) (chunks []models.Chunk, err error) {
	defer func() {
		if r := recover(); r != nil {
			chunks = nil
			err = fmt.Errorf("parsing %s: %v", path, r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	source := filepath.Base(path)
	position := 0
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Int("page", i).Msg("Skipping unreadable page")
			continue
		}
		for _, text := range chunker.Split(pageText, opt) {
			chunks = append(chunks, models.Chunk{
				Source:   source,
				Page:     i,
				Text:     text,
				Position: position,
			})
			position++
		}
	}
	return chunks, nil
}
