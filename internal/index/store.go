package index

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// On-disk layout: vectors.bin holds the N x D float32 matrix, metadata.json
// the N metadata entries in matching row order, model.json a diagnostic note
// about the embedder that produced the index (never read back).
const (
	vectorsFile  = "vectors.bin"
	metadataFile = "metadata.json"
	modelFile    = "model.json"
)

type modelInfo struct {
	Embedder string `json:"embedder"`
	Dim      int    `json:"dim"`
}

func (ix *Indexer) save() error {
	if err := os.MkdirAll(ix.indexDir, 0o755); err != nil {
		return fmt.Errorf("creating index dir: %w", err)
	}

	vecData := encodeVectors(ix.vectors, ix.dim)
	metaData, err := json.Marshal(ix.metadata)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	info, err := json.Marshal(modelInfo{Embedder: ix.modelName, Dim: ix.dim})
	if err != nil {
		return fmt.Errorf("marshaling model info: %w", err)
	}

	// Temp-file-then-rename keeps the row/metadata join intact: a crash mid
	// write leaves the previous index pair untouched.
	if err := writeFileAtomic(filepath.Join(ix.indexDir, vectorsFile), vecData); err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(ix.indexDir, metadataFile), metaData); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(ix.indexDir, modelFile), info)
}

func (ix *Indexer) load() (vectors [][]float32, dim int, metadata []Metadata, ok bool) {
	vecPath := filepath.Join(ix.indexDir, vectorsFile)
	metaPath := filepath.Join(ix.indexDir, metadataFile)

	vecData, err := os.ReadFile(vecPath)
	if err != nil {
		return nil, 0, nil, false
	}
	metaData, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, 0, nil, false
	}

	vectors, dim, err = decodeVectors(vecData)
	if err != nil {
		log.Warn().Err(err).Str("file", vecPath).Msg("Corrupt vector file, treating index as not loaded")
		return nil, 0, nil, false
	}
	if err := json.Unmarshal(metaData, &metadata); err != nil {
		log.Warn().Err(err).Str("file", metaPath).Msg("Corrupt metadata file, treating index as not loaded")
		return nil, 0, nil, false
	}
	return vectors, dim, metadata, true
}

// encodeVectors lays the matrix out as two little-endian uint32 (rows, dim)
// followed by rows*dim little-endian float32 values.
func encodeVectors(vectors [][]float32, dim int) []byte {
	buf := make([]byte, 8+len(vectors)*dim*4)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(vectors)))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(dim))
	off := 8
	for _, vec := range vectors {
		for _, v := range vec {
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
			off += 4
		}
	}
	return buf
}

func decodeVectors(data []byte) ([][]float32, int, error) {
	if len(data) < 8 {
		return nil, 0, fmt.Errorf("vector file too short: %d bytes", len(data))
	}
	rows := int(binary.LittleEndian.Uint32(data[0:4]))
	dim := int(binary.LittleEndian.Uint32(data[4:8]))
	if len(data) != 8+rows*dim*4 {
		return nil, 0, fmt.Errorf("vector file size mismatch: %d rows x %d dim vs %d bytes", rows, dim, len(data))
	}

	vectors := make([][]float32, rows)
	off := 8
	for i := range vectors {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
			off += 4
		}
		vectors[i] = vec
	}
	return vectors, dim, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}
