package directory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"hermes/internal/services"
)

// Entry maps one package code to its recipient name. Name may be empty.
type Entry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Result is the outcome of parsing one export.
type Result struct {
	Entries []Entry
	// Skipped counts rows without a resolvable code.
	Skipped int
	// Duplicates counts rows whose code appeared earlier in the export.
	Duplicates int
}

// Column names per logical field in priority order. Matching is exact and
// case-sensitive.
var (
	codeColumns      = []string{"sendungsnr", "Sendungsnummer", "sendungsnummer", "Sendungsnr"}
	nameColumns      = []string{"name", "Name", "Empfänger"}
	lastNameColumns  = []string{"Nachname", "nachname", "lastname"}
	firstNameColumns = []string{"Vorname", "vorname", "firstname"}
)

// Parse reads an export and returns its entries in file order. The file
// name selects the delimiter for .tsv exports; compression is detected from
// the content. An export yielding no entries is a parse error.
func Parse(name string, data []byte) (Result, error) {
	raw, err := decompress(data)
	if err != nil {
		return Result{}, parseError("decompress export", err)
	}
	text, err := toText(raw)
	if err != nil {
		return Result{}, parseError("decode export", err)
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, parseError("export is empty", nil)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(name, text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return Result{}, parseError("read header", err)
	}
	cols := newColumnIndex(header)
	if len(cols.code) == 0 {
		return Result{}, parseError(fmt.Sprintf("no code column in header %q", strings.Join(header, string(reader.Comma))), nil)
	}

	var result Result
	positions := make(map[string]int)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, parseError("read row", err)
		}
		code := cols.first(record, cols.code)
		if code == "" {
			result.Skipped++
			continue
		}
		recipient := cols.name(record)
		if pos, seen := positions[code]; seen {
			result.Duplicates++
			if recipient != "" {
				result.Entries[pos].Name = recipient
			}
			continue
		}
		positions[code] = len(result.Entries)
		result.Entries = append(result.Entries, Entry{Code: code, Name: recipient})
	}

	if len(result.Entries) == 0 {
		return result, parseError(fmt.Sprintf("export has no usable rows (%d skipped)", result.Skipped), nil)
	}
	return result, nil
}

type columnIndex struct {
	code  []int
	names []int
	last  []int
	given []int
}

func newColumnIndex(header []string) columnIndex {
	positions := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		if _, exists := positions[col]; !exists {
			positions[col] = i
		}
	}
	lookup := func(names []string) []int {
		var out []int
		for _, name := range names {
			if idx, ok := positions[name]; ok {
				out = append(out, idx)
			}
		}
		return out
	}
	return columnIndex{
		code:  lookup(codeColumns),
		names: lookup(nameColumns),
		last:  lookup(lastNameColumns),
		given: lookup(firstNameColumns),
	}
}

func (c columnIndex) first(record []string, indexes []int) string {
	for _, idx := range indexes {
		if idx >= len(record) {
			continue
		}
		if value := strings.TrimSpace(record[idx]); value != "" {
			return value
		}
	}
	return ""
}

// name returns the first direct name column with a value, falling back to
// "last, first" with empty parts omitted.
func (c columnIndex) name(record []string) string {
	if direct := c.first(record, c.names); direct != "" {
		return direct
	}
	parts := make([]string, 0, 2)
	if last := c.first(record, c.last); last != "" {
		parts = append(parts, last)
	}
	if given := c.first(record, c.given); given != "" {
		parts = append(parts, given)
	}
	return strings.Join(parts, ", ")
}

func parseError(message string, err error) error {
	return services.Wrap(services.ErrParse, "directory", "parse", message, err)
}
