package search

import (
	"context"
	"math"
	"testing"
)

func TestLexicalRank_OnlyMatchingDocuments(t *testing.T) {
	store := mustStore(t,
		testRecord(1, 0, "Lilly digs the garden", []float32{1, 0}),
		testRecord(2, 0, "Lilly eats cheese", []float32{0, 1}),
	)
	scorer := NewLexicalScorer(store)

	ranked, err := scorer.Rank(context.Background(), "garden")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("expected 1 result, got %d", len(ranked))
	}
	if ranked[0].Key != key(1, 0) {
		t.Errorf("expected key 1:0, got %s", ranked[0].Key)
	}
	if ranked[0].Rank != 1 {
		t.Errorf("expected rank 1, got %d", ranked[0].Rank)
	}
	if ranked[0].Score <= 0 {
		t.Errorf("expected positive BM25 score, got %f", ranked[0].Score)
	}

	// Hand-derived: idf = ln(1 + (2-1+0.5)/(1+0.5)) = ln 2, tf = 1,
	// |d| = 4, avgdl = 3.5, norm = 1.3*(0.1 + 0.9*4/3.5).
	want := math.Log(2) * (bm25K1 + 1) / (1 + bm25K1*(1-bm25B+bm25B*4/3.5))
	if math.Abs(ranked[0].Score-want) > 1e-9 {
		t.Errorf("score: got %f, want %f", ranked[0].Score, want)
	}
}

func TestLexicalRank_EmptyQuery(t *testing.T) {
	store := mustStore(t,
		testRecord(1, 0, "garden", []float32{1}),
	)
	scorer := NewLexicalScorer(store)

	for _, query := range []string{"", "   ", "!!! ..."} {
		ranked, err := scorer.Rank(context.Background(), query)
		if err != nil {
			t.Fatalf("query %q: unexpected error: %v", query, err)
		}
		if len(ranked) != 0 {
			t.Errorf("query %q: expected empty ranking, got %d entries", query, len(ranked))
		}
	}
}

func TestLexicalRank_OrderingAndRanks(t *testing.T) {
	// Doc 2:0 mentions the term twice and is shorter, so it outranks 1:0.
	store := mustStore(t,
		testRecord(1, 0, "garden view from the old barn across the meadow", []float32{1}),
		testRecord(2, 0, "garden garden", []float32{1}),
		testRecord(3, 0, "cheese platter", []float32{1}),
	)
	scorer := NewLexicalScorer(store)

	ranked, err := scorer.Rank(context.Background(), "garden")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ranked))
	}
	if ranked[0].Key != key(2, 0) || ranked[1].Key != key(1, 0) {
		t.Errorf("unexpected order: %s, %s", ranked[0].Key, ranked[1].Key)
	}
	for i, r := range ranked {
		if r.Rank != i+1 {
			t.Errorf("entry %d: rank %d, want %d", i, r.Rank, i+1)
		}
		if r.Score <= 0 {
			t.Errorf("entry %d: non-positive score %f", i, r.Score)
		}
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Errorf("scores not descending: %f then %f", ranked[0].Score, ranked[1].Score)
	}
}

func TestLexicalRank_TieBrokenByCorpusOrder(t *testing.T) {
	store := mustStore(t,
		testRecord(7, 1, "sunny garden", []float32{1}),
		testRecord(3, 0, "sunny garden", []float32{1}),
	)
	scorer := NewLexicalScorer(store)

	ranked, err := scorer.Rank(context.Background(), "garden")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ranked))
	}
	// Identical titles score identically; load order decides.
	if ranked[0].Key != key(7, 1) || ranked[1].Key != key(3, 0) {
		t.Errorf("tie not broken by corpus order: %s, %s", ranked[0].Key, ranked[1].Key)
	}
}

func TestLexicalRank_DuplicateQueryTokensCollapse(t *testing.T) {
	store := mustStore(t,
		testRecord(1, 0, "garden path", []float32{1}),
	)
	scorer := NewLexicalScorer(store)

	once, err := scorer.Rank(context.Background(), "garden")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := scorer.Rank(context.Background(), "garden garden")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(once) != 1 || len(twice) != 1 {
		t.Fatalf("expected 1 result each, got %d and %d", len(once), len(twice))
	}
	if once[0].Score != twice[0].Score {
		t.Errorf("repeated query term changed score: %f vs %f", once[0].Score, twice[0].Score)
	}
}

func TestLexicalRank_Deterministic(t *testing.T) {
	store := mustStore(t,
		testRecord(1, 0, "lilly in the garden", []float32{1}),
		testRecord(1, 1, "lilly naps on the porch", []float32{1}),
		testRecord(2, 0, "garden after rain", []float32{1}),
		testRecord(3, 0, "lilly lilly lilly", []float32{1}),
	)
	scorer := NewLexicalScorer(store)

	first, err := scorer.Rank(context.Background(), "lilly garden")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := scorer.Rank(context.Background(), "lilly garden")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestLexicalRank_EmptyCorpus(t *testing.T) {
	store := mustStore(t)
	scorer := NewLexicalScorer(store)

	ranked, err := scorer.Rank(context.Background(), "garden")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 0 {
		t.Errorf("expected empty ranking, got %d entries", len(ranked))
	}
}
