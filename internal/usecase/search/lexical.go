package search

import (
	"context"
	"math"
	"sort"

	"github.com/korthouse/mediadex/internal/domain/search/result"
)

// BM25 parameters: term frequency saturation and document length
// normalization over title text.
const (
	bm25K1 = 1.3
	bm25B  = 0.9
)

// LexicalScorer ranks the corpus by BM25 relevance of titles to the
// query. It keeps no index: document frequencies and the average title
// length are recomputed from the corpus snapshot on every call, so the
// scorer is stateless apart from the shared immutable corpus.
type LexicalScorer struct {
	corpus Corpus
}

// NewLexicalScorer creates a BM25 scorer over the corpus snapshot.
func NewLexicalScorer(corpus Corpus) *LexicalScorer {
	return &LexicalScorer{corpus: corpus}
}

// Rank scores every title against the query and returns documents with
// strictly positive BM25 scores, ordered by score descending with ties
// broken by corpus order. An empty ranking is a valid result for a
// query with no usable terms, not an error.
func (s *LexicalScorer) Rank(_ context.Context, query string) ([]result.Ranked, error) {
	terms := uniqueTerms(Tokenize(query))
	if len(terms) == 0 {
		return nil, nil
	}

	records := s.corpus.Records()
	if len(records) == 0 {
		return nil, nil
	}

	docs := make([][]string, len(records))
	totalLen := 0
	for i, rec := range records {
		docs[i] = Tokenize(rec.Title())
		totalLen += len(docs[i])
	}
	if totalLen == 0 {
		return nil, nil
	}
	avgLen := float64(totalLen) / float64(len(docs))

	// Document frequency per query term, over the whole corpus.
	df := make(map[string]int, len(terms))
	for _, tokens := range docs {
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			seen[tok] = struct{}{}
		}
		for _, term := range terms {
			if _, ok := seen[term]; ok {
				df[term]++
			}
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(terms))
	for _, term := range terms {
		d := float64(df[term])
		// Non-negative IDF variant: ln(1 + (N-df+0.5)/(df+0.5)). Terms
		// present in every document still contribute slightly instead
		// of flipping negative, so only no-match documents land at
		// zero and get filtered.
		idf[term] = math.Log(1 + (n-d+0.5)/(d+0.5))
	}

	ranked := make([]result.Ranked, 0, len(docs))
	for ord, tokens := range docs {
		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}

		score := 0.0
		norm := bm25K1 * (1 - bm25B + bm25B*float64(len(tokens))/avgLen)
		for _, term := range terms {
			f := float64(tf[term])
			if f == 0 {
				continue
			}
			score += idf[term] * f * (bm25K1 + 1) / (f + norm)
		}
		if score <= 0 {
			continue
		}

		ranked = append(ranked, result.Ranked{
			Key:   records[ord].Key(),
			Ord:   ord,
			Score: score,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// uniqueTerms collapses duplicate query tokens so each distinct term
// contributes once per document.
func uniqueTerms(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}
	return terms
}
