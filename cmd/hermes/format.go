package main

import (
	"fmt"
	"strings"
	"time"

	"hermes/internal/ledger"
	"hermes/internal/resolver"
)

const timeDisplayLayout = "2006-01-02 15:04:05"

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *score)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeDisplayLayout)
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func matchRows(results []resolver.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Code,
			string(r.Confidence),
			formatScore(r.Score),
			orDash(r.Name()),
			orDash(strings.Join(r.MatchedCodes, ", ")),
		})
	}
	return rows
}

func renderMatches(results []resolver.Result) string {
	return renderTable(
		[]column{{title: "Code"}, {title: "Confidence"}, {title: "Score", numeric: true}, {title: "Name"}, {title: "Candidates"}},
		matchRows(results),
	)
}

func renderRecords(records []ledger.Record) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Code, r.Zone, formatTime(r.ReceivedAt), orDash(r.Name())})
	}
	return renderTable([]column{{title: "Code"}, {title: "Zone"}, {title: "Received"}, {title: "Name"}}, rows)
}

func renderHits(hits []ledger.Hit) string {
	rows := make([][]string, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, []string{formatScore(h.Score), h.Code, h.Zone, formatTime(h.ReceivedAt), orDash(h.Name())})
	}
	return renderTable(
		[]column{{title: "Score", numeric: true}, {title: "Code"}, {title: "Zone"}, {title: "Received"}, {title: "Name"}},
		rows,
	)
}
