package request

import (
	"strings"
	"testing"

	"github.com/korthouse/mediadex/internal/domain/search/mode"
)

func TestNew_Defaults(t *testing.T) {
	req, err := New("lilly garden", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Mode() != mode.Hybrid {
		t.Errorf("expected default mode hybrid, got %s", req.Mode())
	}
	if req.TopK() != DefaultTopK {
		t.Errorf("expected default topK %d, got %d", DefaultTopK, req.TopK())
	}
	if req.Query() != "lilly garden" {
		t.Errorf("unexpected query %q", req.Query())
	}
}

func TestNew_ExplicitParams(t *testing.T) {
	req, err := New("cheese", mode.Keyword, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Mode() != mode.Keyword {
		t.Errorf("expected keyword mode, got %s", req.Mode())
	}
	if req.TopK() != 25 {
		t.Errorf("expected topK 25, got %d", req.TopK())
	}
}

func TestNew_InvalidMode(t *testing.T) {
	if _, err := New("cheese", "fuzzy", 10); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestNew_TopKClamped(t *testing.T) {
	req, err := New("cheese", mode.Semantic, MaxTopK+1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TopK() != MaxTopK {
		t.Errorf("expected topK clamped to %d, got %d", MaxTopK, req.TopK())
	}

	req, err = New("cheese", mode.Semantic, -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TopK() != DefaultTopK {
		t.Errorf("expected negative topK to default to %d, got %d", DefaultTopK, req.TopK())
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	if _, err := New(strings.Repeat("a", MaxQueryLength+1), mode.Keyword, 10); err == nil {
		t.Fatal("expected error for oversized query")
	}
	// Exactly at the limit is fine.
	if _, err := New(strings.Repeat("a", MaxQueryLength), mode.Keyword, 10); err != nil {
		t.Fatalf("unexpected error at limit: %v", err)
	}
}

func TestIsBlank(t *testing.T) {
	cases := map[string]bool{
		"":           true,
		"   ":        true,
		"\t\n":       true,
		"garden":     false,
		"  garden  ": false,
	}
	for query, want := range cases {
		req, err := New(query, mode.Hybrid, 10)
		if err != nil {
			t.Fatalf("query %q: unexpected error: %v", query, err)
		}
		if req.IsBlank() != want {
			t.Errorf("IsBlank(%q): got %v, want %v", query, req.IsBlank(), want)
		}
	}
}
