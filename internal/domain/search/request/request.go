package request

import (
	"fmt"
	"strings"

	"github.com/korthouse/mediadex/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTopK    = 10
	MaxTopK        = 500
)

// Request is a validated search query.
type Request struct {
	query      string
	searchMode mode.Mode
	topK       int
}

// New validates and normalizes search parameters.
// Defaults: mode=hybrid, topK=10.
// An empty or whitespace-only query is valid; scorers contractually
// return empty rankings for it.
func New(query string, m mode.Mode, topK int) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if m == "" {
		m = mode.Hybrid
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("invalid search mode: %q", m)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	return Request{query: query, searchMode: m, topK: topK}, nil
}

// Query returns the raw query string.
func (r *Request) Query() string { return r.query }

// Mode returns the search mode.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// TopK returns the maximum number of results to return.
func (r *Request) TopK() int { return r.topK }

// IsBlank reports whether the query is empty or whitespace-only.
func (r *Request) IsBlank() bool { return strings.TrimSpace(r.query) == "" }
