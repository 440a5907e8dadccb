package ledger

import (
	"context"
	"strings"

	"hermes/internal/textutil"
)

// Hit is a search result. Score is nil for the unfiltered listing returned
// for an empty term.
type Hit struct {
	Record
	Score *float64 `json:"score"`
}

// Search ranks ledger rows against term. An empty term returns FetchAll
// unchanged. Otherwise rows scoring below SearchCutoff are dropped, equal
// scores keep recency order, and each code appears once.
func (l *Ledger) Search(ctx context.Context, term string) ([]Hit, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		records, err := l.FetchAll(ctx, 0)
		if err != nil {
			return nil, err
		}
		hits := make([]Hit, 0, len(records))
		for _, r := range records {
			hits = append(hits, Hit{Record: r})
		}
		return hits, nil
	}

	records, err := l.list(ctx, 0)
	if err != nil {
		return nil, err
	}
	haystack := make([]string, len(records))
	for i, r := range records {
		haystack[i] = searchText(r)
	}

	matches := textutil.Extract(term, haystack, l.scorer, SearchCutoff, 0)
	hits := make([]Hit, 0, min(len(matches), l.searchLimit))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		record := records[m.Index]
		if _, dup := seen[record.Code]; dup {
			continue
		}
		seen[record.Code] = struct{}{}
		score := m.Score
		hits = append(hits, Hit{Record: record, Score: &score})
		if len(hits) == l.searchLimit {
			break
		}
	}
	return hits, nil
}

// searchText joins code, name and zone, omitting empty parts.
func searchText(r Record) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{r.Code, r.Name(), r.Zone} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}
