// Package corpusrepo loads the fixed media corpus from its source
// (JSON file or Redis) into the immutable in-memory store. Whatever the
// source, loading happens exactly once at startup; the core never
// re-reads or refreshes the corpus during its lifetime.
package corpusrepo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/korthouse/mediadex/internal/corpus"
	"github.com/korthouse/mediadex/internal/domain/media"
)

// fileRecord is the JSON wire form of one corpus record.
type fileRecord struct {
	PostIndex  int       `json:"post_index"`
	MediaIndex int       `json:"media_index"`
	Title      string    `json:"title"`
	URI        string    `json:"uri"`
	IsVideo    bool      `json:"is_video"`
	CreatedAt  time.Time `json:"created_at"`
	Embedding  []float32 `json:"embedding"`
}

// LoadFile reads a JSON corpus file and builds the immutable store.
func LoadFile(path string) (*corpus.Store, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	var raw []fileRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse corpus file %s: %w", path, err)
	}

	records := make([]media.Record, len(raw))
	for i, r := range raw {
		records[i] = media.NewRecord(
			media.Key{PostIndex: r.PostIndex, MediaIndex: r.MediaIndex},
			r.Title, r.URI, r.IsVideo, r.CreatedAt, r.Embedding,
		)
	}

	store, err := corpus.NewStore(records)
	if err != nil {
		return nil, fmt.Errorf("build corpus store: %w", err)
	}
	return store, nil
}
