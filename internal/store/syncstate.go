package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hermes/internal/directory"
)

// SyncState records the last applied snapshot.
type SyncState struct {
	Href        string    `json:"href"`
	ChangeTag   string    `json:"change_tag"`
	ContentHash string    `json:"content_hash"`
	ModifiedAt  time.Time `json:"modified_at,omitzero"`
	AppliedAt   time.Time `json:"applied_at,omitzero"`
	EntryCount  int       `json:"entry_count"`
}

// IsZero reports whether no snapshot has been applied yet.
func (s SyncState) IsZero() bool {
	return s.Href == "" && s.ChangeTag == "" && s.ContentHash == ""
}

// LoadSyncState returns the persisted state, or the zero state when no
// snapshot has been applied.
func (s *Store) LoadSyncState(ctx context.Context) (SyncState, error) {
	var (
		state    SyncState
		modified sql.NullString
		applied  sql.NullString
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT href, change_tag, content_hash, modified_at, applied_at, entry_count FROM sync_state WHERE id = 1`,
	).Scan(&state.Href, &state.ChangeTag, &state.ContentHash, &modified, &applied, &state.EntryCount)
	if errors.Is(err, sql.ErrNoRows) {
		return SyncState{}, nil
	}
	if err != nil {
		return SyncState{}, fmt.Errorf("load sync state: %w", err)
	}
	state.ModifiedAt = parseTime(modified)
	state.AppliedAt = parseTime(applied)
	return state, nil
}

// ApplySnapshot replaces the directory mirror with entries and records state
// in one transaction. Either both change or neither does.
func (s *Store) ApplySnapshot(ctx context.Context, state SyncState, entries []directory.Entry) error {
	if state.AppliedAt.IsZero() {
		state.AppliedAt = time.Now()
	}
	state.EntryCount = len(entries)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM directory`); err != nil {
			return fmt.Errorf("clear directory: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO directory (position, code, name) VALUES (?, ?, ?)
            ON CONFLICT(code) DO UPDATE SET name = CASE WHEN excluded.name != '' THEN excluded.name ELSE directory.name END`)
		if err != nil {
			return fmt.Errorf("prepare directory insert: %w", err)
		}
		defer stmt.Close()
		for i, entry := range entries {
			if _, err := stmt.ExecContext(ctx, i, entry.Code, entry.Name); err != nil {
				return fmt.Errorf("insert directory entry %q: %w", entry.Code, err)
			}
		}
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO sync_state (id, href, change_tag, content_hash, modified_at, applied_at, entry_count)
             VALUES (1, ?, ?, ?, ?, ?, ?)
             ON CONFLICT(id) DO UPDATE SET
                 href = excluded.href,
                 change_tag = excluded.change_tag,
                 content_hash = excluded.content_hash,
                 modified_at = excluded.modified_at,
                 applied_at = excluded.applied_at,
                 entry_count = excluded.entry_count`,
			state.Href,
			state.ChangeTag,
			state.ContentHash,
			nullableTime(state.ModifiedAt),
			nullableTime(state.AppliedAt),
			state.EntryCount,
		)
		if err != nil {
			return fmt.Errorf("save sync state: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply snapshot: %w", err)
	}
	return nil
}

// LoadDirectory returns the mirrored directory in snapshot order.
func (s *Store) LoadDirectory(ctx context.Context) ([]directory.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, name FROM directory ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	defer rows.Close()

	var entries []directory.Entry
	for rows.Next() {
		var entry directory.Entry
		if err := rows.Scan(&entry.Code, &entry.Name); err != nil {
			return nil, fmt.Errorf("scan directory entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
