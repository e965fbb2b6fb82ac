package search

import (
	"sort"

	"github.com/korthouse/mediadex/internal/domain/media"
	"github.com/korthouse/mediadex/internal/domain/search/result"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fuseRRF merges any number of ranked lists via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) for each ranking where d appears.
// A document absent from a list simply contributes nothing for it, so
// fusion works unchanged when one signal found nothing. The result is
// ordered by fused score descending, ties broken by corpus order, which
// makes fusion commutative over its input lists.
func fuseRRF(k int, lists ...[]result.Ranked) []result.Fused {
	if k <= 0 {
		k = rrfK
	}

	merged := make(map[media.Key]*result.Fused)
	for _, list := range lists {
		for _, r := range list {
			s := 1.0 / float64(k+r.Rank)
			if existing, ok := merged[r.Key]; ok {
				existing.Score += s
			} else {
				merged[r.Key] = &result.Fused{Key: r.Key, Ord: r.Ord, Score: s}
			}
		}
	}

	fused := make([]result.Fused, 0, len(merged))
	for _, f := range merged {
		fused = append(fused, *f)
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return fused[i].Ord < fused[j].Ord
	})

	return fused
}
