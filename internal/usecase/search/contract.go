package search

import (
	"context"

	"github.com/korthouse/mediadex/internal/domain/media"
	"github.com/korthouse/mediadex/internal/domain/search/result"
)

// Corpus is the read-only record snapshot that scorers rank against and
// the service resolves results from. Implementations must be immutable
// for the lifetime of the process.
type Corpus interface {
	Len() int
	Records() []media.Record
	Get(key media.Key) (media.Record, bool)
}

// Scorer ranks the corpus against a query. Implementations are pure
// functions of the query and the corpus snapshot they were constructed
// with: no local mutation, safe for concurrent use.
type Scorer interface {
	Rank(ctx context.Context, query string) ([]result.Ranked, error)
}
