package textutil

import (
	"cmp"
	"slices"
)

// Match is one ranked choice returned by Extract.
type Match struct {
	Index  int
	Choice string
	Score  float64
}

// Extract scores every choice against query and returns those scoring at
// least cutoff, best first. Equal scores keep the order of choices. A limit
// of zero or less returns every match. A nil scorer uses Default.
func Extract(query string, choices []string, scorer Scorer, cutoff float64, limit int) []Match {
	if scorer == nil {
		scorer = Default
	}
	matches := make([]Match, 0, len(choices))
	for i, choice := range choices {
		score := scorer.Score(query, choice)
		if score < cutoff {
			continue
		}
		matches = append(matches, Match{Index: i, Choice: choice, Score: score})
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
