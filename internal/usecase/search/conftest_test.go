package search

import (
	"context"
	"testing"
	"time"

	"github.com/korthouse/mediadex/internal/corpus"
	"github.com/korthouse/mediadex/internal/domain"
	"github.com/korthouse/mediadex/internal/domain/media"
	"github.com/korthouse/mediadex/internal/domain/search/result"
)

// mockEmbedder implements domain.Embedder for tests.
type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{}, nil
}

// mockScorer implements Scorer for orchestrator tests.
type mockScorer struct {
	rankFn func(ctx context.Context, query string) ([]result.Ranked, error)
}

func (m *mockScorer) Rank(ctx context.Context, query string) ([]result.Ranked, error) {
	if m.rankFn != nil {
		return m.rankFn(ctx, query)
	}
	return nil, nil
}

// failScorer fails the test if invoked; used to prove short-circuits.
func failScorer(t *testing.T, name string) *mockScorer {
	t.Helper()
	return &mockScorer{rankFn: func(_ context.Context, _ string) ([]result.Ranked, error) {
		t.Errorf("%s scorer must not be invoked", name)
		return nil, nil
	}}
}

func testRecord(post, mediaIdx int, title string, embedding []float32) media.Record {
	return media.NewRecord(
		media.Key{PostIndex: post, MediaIndex: mediaIdx},
		title,
		"media/p.jpg",
		false,
		time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		embedding,
	)
}

func mustStore(t *testing.T, records ...media.Record) *corpus.Store {
	t.Helper()
	store, err := corpus.NewStore(records)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func key(post, mediaIdx int) media.Key {
	return media.Key{PostIndex: post, MediaIndex: mediaIdx}
}
