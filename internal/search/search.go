package search

import (
	"sort"
	"strings"

	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"
)

// Match is one filename hit with the character positions that matched,
// for highlighting in the review list.
type Match struct {
	Index          int   // Index into the source names
	Score          int   // Higher = better
	MatchedIndexes []int // Character positions that matched
}

// FilterNames fuzzy-matches query against names and returns hits in
// best-first order. An empty query returns nil.
func FilterNames(query string, names []string) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	matches := sahilm.Find(query, names)
	results := make([]Match, len(matches))
	for i, m := range matches {
		results[i] = Match{
			Index:          m.Index,
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		}
	}
	return results
}

// BestMatch returns the index of the name closest to query, for
// jump-to-photo-by-name. The second return is false when nothing
// matches at all.
func BestMatch(query string, names []string) (int, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, false
	}

	ranks := fuzzysearch.RankFindFold(query, names)
	if len(ranks) == 0 {
		return 0, false
	}
	sort.Sort(ranks)
	return ranks[0].OriginalIndex, true
}
