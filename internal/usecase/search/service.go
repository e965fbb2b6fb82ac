package search

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/korthouse/mediadex/internal/domain"
	"github.com/korthouse/mediadex/internal/domain/search/mode"
	"github.com/korthouse/mediadex/internal/domain/search/request"
	"github.com/korthouse/mediadex/internal/domain/search/result"
)

// Service handles media search across semantic, keyword, and hybrid modes.
type Service struct {
	corpus   Corpus
	lexical  Scorer
	semantic Scorer
	rrfConst int
}

// New creates a search service over a corpus snapshot and its two scorers.
func New(corpus Corpus, lexical, semantic Scorer) *Service {
	return &Service{
		corpus:   corpus,
		lexical:  lexical,
		semantic: semantic,
		rrfConst: rrfK,
	}
}

// Search executes a query in the requested mode and resolves the ranked
// keys back to full records, truncated to topK. A blank query
// short-circuits to an empty result set without invoking any scorer.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.SearchResult, error) {
	if req.IsBlank() {
		return []result.SearchResult{}, nil
	}

	var (
		fused []result.Fused
		err   error
	)
	switch req.Mode() {
	case mode.Keyword:
		fused, err = s.searchKeyword(ctx, req.Query())
	case mode.Semantic:
		fused, err = s.searchSemantic(ctx, req.Query())
	case mode.Hybrid:
		fused, err = s.searchHybrid(ctx, req.Query())
	default:
		return nil, fmt.Errorf("unsupported search mode: %s", req.Mode())
	}
	if err != nil {
		return nil, err
	}

	return s.resolve(fused, req.TopK())
}

// searchKeyword runs BM25 only; result scores are raw BM25 scores.
func (s *Service) searchKeyword(ctx context.Context, query string) ([]result.Fused, error) {
	ranked, err := s.lexical.Rank(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("lexical rank: %w", err)
	}
	return asFused(ranked), nil
}

// searchSemantic runs cosine similarity only; result scores are cosine
// similarities.
func (s *Service) searchSemantic(ctx context.Context, query string) ([]result.Fused, error) {
	ranked, err := s.semantic.Rank(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("semantic rank: %w", err)
	}
	return asFused(ranked), nil
}

// searchHybrid runs both scorers concurrently (the semantic path is a
// network round trip, the lexical path is pure computation) and fuses
// the rankings via RRF. An empty lexical ranking is fine — fusion
// proceeds with whatever is non-empty — but a semantic failure
// propagates: silently substituting keyword results for a missing
// ranking signal would change fusion semantics mid-request.
func (s *Service) searchHybrid(ctx context.Context, query string) ([]result.Fused, error) {
	var lex, sem []result.Ranked

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ranked, err := s.lexical.Rank(gctx, query)
		if err != nil {
			return fmt.Errorf("lexical rank: %w", err)
		}
		lex = ranked
		return nil
	})
	g.Go(func() error {
		ranked, err := s.semantic.Rank(gctx, query)
		if err != nil {
			return fmt.Errorf("semantic rank: %w", err)
		}
		sem = ranked
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return fuseRRF(s.rrfConst, lex, sem), nil
}

// resolve looks up ranked keys in the corpus store and attaches the
// mode score. A key the scorers produced but the store cannot resolve
// is a programming error, not a user-facing miss: scorers only ever
// rank keys from the same snapshot, so this fails loudly.
func (s *Service) resolve(fused []result.Fused, topK int) ([]result.SearchResult, error) {
	if len(fused) > topK {
		fused = fused[:topK]
	}

	results := make([]result.SearchResult, 0, len(fused))
	for _, f := range fused {
		rec, ok := s.corpus.Get(f.Key)
		if !ok {
			return nil, fmt.Errorf("ranked key %s not in store: %w", f.Key, domain.ErrCorpusInconsistent)
		}
		results = append(results, result.New(rec, f.Score))
	}
	return results, nil
}

// asFused converts a single scorer's ranking to the resolved form,
// keeping the scorer's raw score as the result score.
func asFused(ranked []result.Ranked) []result.Fused {
	fused := make([]result.Fused, len(ranked))
	for i, r := range ranked {
		fused[i] = result.Fused{Key: r.Key, Ord: r.Ord, Score: r.Score}
	}
	return fused
}
