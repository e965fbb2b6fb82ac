package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/korthouse/mediadex/internal/domain"
	"github.com/korthouse/mediadex/internal/domain/search/result"
)

// SemanticScorer ranks the corpus by cosine similarity between the
// query embedding and each record's precomputed embedding. One provider
// call per invocation; embedding failures propagate unchanged (the
// caller decides fallback policy, never this scorer).
type SemanticScorer struct {
	corpus   Corpus
	embedder domain.Embedder
}

// NewSemanticScorer creates a cosine similarity scorer over the corpus
// snapshot.
func NewSemanticScorer(corpus Corpus, embedder domain.Embedder) *SemanticScorer {
	return &SemanticScorer{corpus: corpus, embedder: embedder}
}

// Rank embeds the query once and orders the entire corpus by cosine
// similarity descending, ties broken by corpus order. Unlike the
// lexical scorer there is no score threshold: low-similarity documents
// are still ranked, just low.
func (s *SemanticScorer) Rank(ctx context.Context, query string) ([]result.Ranked, error) {
	records := s.corpus.Records()
	if len(records) == 0 {
		return nil, nil
	}

	embRes, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embRes.Embedding) != len(records[0].Embedding()) {
		return nil, fmt.Errorf(
			"query embedding has %d dimensions, corpus has %d: %w",
			len(embRes.Embedding), len(records[0].Embedding()), domain.ErrVectorDimMismatch,
		)
	}

	ranked := make([]result.Ranked, len(records))
	for ord, rec := range records {
		ranked[ord] = result.Ranked{
			Key:   rec.Key(),
			Ord:   ord,
			Score: cosineSimilarity(embRes.Embedding, rec.Embedding()),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// cosineSimilarity is the dot product over the product of magnitudes.
// A zero-magnitude vector yields 0 rather than a division by zero.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
