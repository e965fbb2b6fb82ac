// Package corpus holds the process-wide immutable snapshot of indexed
// media records. The store is constructed once at startup and never
// mutated afterwards, so concurrent readers need no locking.
package corpus

import (
	"fmt"

	"github.com/korthouse/mediadex/internal/domain"
	"github.com/korthouse/mediadex/internal/domain/media"
)

// Store is the read-only corpus snapshot: every indexed record in load
// order, its precomputed embedding, and a key lookup table.
type Store struct {
	records    []media.Record
	ordinals   map[media.Key]int
	dimensions int
	skipped    int
}

// NewStore validates records and builds the immutable snapshot.
//
// Records with empty titles are not indexable and are skipped (their
// count is reported via Skipped). A duplicate composite key or a record
// whose embedding dimensionality differs from the rest of the corpus
// fails the load.
func NewStore(records []media.Record) (*Store, error) {
	s := &Store{
		records:  make([]media.Record, 0, len(records)),
		ordinals: make(map[media.Key]int, len(records)),
	}

	for _, rec := range records {
		if rec.Title() == "" {
			s.skipped++
			continue
		}
		key := rec.Key()
		if _, ok := s.ordinals[key]; ok {
			return nil, fmt.Errorf("duplicate record key %s", key)
		}
		dim := len(rec.Embedding())
		if s.dimensions == 0 {
			s.dimensions = dim
		} else if dim != s.dimensions {
			return nil, fmt.Errorf(
				"record %s has %d dimensions, corpus has %d: %w",
				key, dim, s.dimensions, domain.ErrVectorDimMismatch,
			)
		}
		s.ordinals[key] = len(s.records)
		s.records = append(s.records, rec)
	}

	return s, nil
}

// Len returns the number of indexed records.
func (s *Store) Len() int { return len(s.records) }

// Records returns all indexed records in load order. Callers must not
// mutate the returned slice.
func (s *Store) Records() []media.Record { return s.records }

// Get returns the record for a key, if indexed.
func (s *Store) Get(key media.Key) (media.Record, bool) {
	ord, ok := s.ordinals[key]
	if !ok {
		return media.Record{}, false
	}
	return s.records[ord], true
}

// Ordinal returns the record's position in load order, used as the
// deterministic tie-breaker across all rankings.
func (s *Store) Ordinal(key media.Key) (int, bool) {
	ord, ok := s.ordinals[key]
	return ord, ok
}

// Dimensions returns the embedding dimensionality shared by every
// record, or 0 for an empty corpus.
func (s *Store) Dimensions() int { return s.dimensions }

// Skipped returns how many input records were dropped for having an
// empty title.
func (s *Store) Skipped() int { return s.skipped }
