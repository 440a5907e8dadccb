package station

import (
	"context"
	"time"

	"hermes/internal/snapshot"
)

// Status summarizes the station for the status command and console.
type Status struct {
	RemoteKind       string         `json:"remote_kind,omitempty"`
	RemoteConfigured bool           `json:"remote_configured"`
	DirectoryEntries int            `json:"directory_entries"`
	DirectoryLoaded  time.Time      `json:"directory_loaded,omitzero"`
	LastSnapshot     snapshot.State `json:"last_snapshot"`
	Packages         int            `json:"packages"`
	Session          Session        `json:"session"`
	DatabasePath     string         `json:"database_path"`
}

// Status collects the current station status.
func (s *Station) Status(ctx context.Context) (Status, error) {
	state, err := s.store.LoadSyncState(ctx)
	if err != nil {
		return Status{}, err
	}
	count, err := s.ledger.Count(ctx)
	if err != nil {
		return Status{}, err
	}
	status := Status{
		RemoteConfigured: s.sync != nil,
		DirectoryEntries: s.cache.Len(),
		DirectoryLoaded:  s.cache.ReplacedAt(),
		LastSnapshot:     state,
		Packages:         count,
		Session:          s.Session(),
		DatabasePath:     s.store.Path(),
	}
	if status.RemoteConfigured {
		status.RemoteKind = s.cfg.Remote.Kind
	}
	return status, nil
}
