package snapshot

import (
	"context"

	"hermes/internal/directory"
	"hermes/internal/store"
)

// State is the persisted record of the last applied snapshot.
type State = store.SyncState

// StateStore persists sync state together with the directory mirror.
type StateStore interface {
	LoadSyncState(ctx context.Context) (State, error)
	ApplySnapshot(ctx context.Context, state State, entries []directory.Entry) error
	LoadDirectory(ctx context.Context) ([]directory.Entry, error)
}
