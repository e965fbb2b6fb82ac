package result

import (
	"time"

	"github.com/korthouse/mediadex/internal/domain/media"
)

// Ranked is one entry of a scorer's ranking: a document key with its
// 1-indexed rank and the scorer's raw score. Ord is the document's
// position in corpus load order and exists only for deterministic
// tie-breaking downstream; it carries no relevance meaning.
type Ranked struct {
	Key   media.Key
	Ord   int
	Rank  int
	Score float64
}

// Fused is one entry of a fused ranking produced by rank fusion.
// The score has no absolute meaning outside a single fusion run.
type Fused struct {
	Key   media.Key
	Ord   int
	Score float64
}

// SearchResult is a resolved search hit returned to callers.
// Similarity is the ranking score of the mode used (BM25, cosine or RRF);
// values are not comparable across modes.
type SearchResult struct {
	record     media.Record
	similarity float64
}

// New creates a search result from a resolved record and its mode score.
func New(record media.Record, similarity float64) SearchResult {
	return SearchResult{record: record, similarity: similarity}
}

// Key returns the document identifier.
func (r *SearchResult) Key() media.Key { return r.record.Key() }

// Title returns the document title.
func (r *SearchResult) Title() string { return r.record.Title() }

// URI returns the media location.
func (r *SearchResult) URI() string { return r.record.URI() }

// IsVideo reports whether the media item is a video.
func (r *SearchResult) IsVideo() bool { return r.record.IsVideo() }

// CreatedAt returns the item creation time.
func (r *SearchResult) CreatedAt() time.Time { return r.record.CreatedAt() }

// Similarity returns the mode-scoped ranking score.
func (r *SearchResult) Similarity() float64 { return r.similarity }
