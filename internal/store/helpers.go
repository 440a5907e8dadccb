package store

import (
	"database/sql"
	"strings"
	"time"
)

// timeLayout is fixed width so lexical order matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

func parseTime(raw sql.NullString) time.Time {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return time.Time{}
	}
	for _, layout := range []string{timeLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw.String); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return trimmed
}

func stringPointer(raw sql.NullString) *string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	value := raw.String
	return &value
}
