package station

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"hermes/internal/ledger"
	"hermes/internal/logging"
	"hermes/internal/resolver"
	"hermes/internal/services"
)

// zoneScanPrefix marks a scanned zone label.
const zoneScanPrefix = "ZONE:"

// Session is the operator's intake state.
type Session struct {
	Active    bool      `json:"active"`
	ID        string    `json:"id,omitempty"`
	Zone      string    `json:"zone,omitempty"`
	StartedAt time.Time `json:"started_at,omitzero"`
	Count     int       `json:"count"`
}

// ScanResult reports what a scan did. Record is nil for zone scans.
type ScanResult struct {
	ZoneSelected bool            `json:"zone_selected"`
	Zone         string          `json:"zone"`
	Record       *ledger.Record  `json:"record,omitempty"`
	Match        resolver.Result `json:"match"`
	Count        int             `json:"count"`
}

// Session returns the current intake session.
func (s *Station) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.session
	session.Count = s.ledger.SessionCount()
	return session
}

// StartIntake enters intake mode with a fresh session, a zeroed counter and
// no zone. The first scan must be a zone label.
func (s *Station) StartIntake() Session {
	s.mu.Lock()
	s.session.Active = true
	s.session.Zone = ""
	s.session.ID = uuid.NewString()
	s.session.StartedAt = s.now().UTC()
	s.ledger.ResetSession()
	session := s.session
	s.mu.Unlock()

	s.logger.Info("intake started",
		logging.String(logging.FieldSessionID, session.ID),
		logging.String(logging.FieldZone, session.Zone),
	)
	return session
}

// StopIntake leaves intake mode and zeroes the counter. It returns the
// finished session with its final count.
func (s *Station) StopIntake() Session {
	s.mu.Lock()
	finished := s.session
	finished.Count = s.ledger.SessionCount()
	s.session.Active = false
	s.session.ID = ""
	s.session.Zone = ""
	s.session.StartedAt = time.Time{}
	s.ledger.ResetSession()
	s.mu.Unlock()

	if finished.Active {
		s.logger.Info("intake stopped",
			logging.String(logging.FieldSessionID, finished.ID),
			logging.Int("packages", finished.Count),
		)
	}
	return finished
}

// SelectZone makes zone the active zone of the running intake session and
// returns its configured spelling.
func (s *Station) SelectZone(zone string) (string, error) {
	zone = strings.TrimSpace(zone)
	if !s.cfg.ZoneAllowed(zone) {
		return "", services.Wrap(services.ErrValidation, "station", "select zone", "unknown zone "+zoneLabel(zone), nil)
	}
	zone = s.cfg.CanonicalZone(zone)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.session.Active {
		return "", services.Wrap(services.ErrValidation, "station", "select zone", "intake is not running; start intake first", nil)
	}
	s.session.Zone = zone
	return zone, nil
}

// Scan handles one scanner line. A "ZONE:<name>" label selects the zone;
// anything else is recorded in the active zone.
func (s *Station) Scan(ctx context.Context, raw string) (ScanResult, error) {
	value := resolver.NormalizeCode(raw)
	if value == "" {
		return ScanResult{}, services.Wrap(services.ErrValidation, "station", "scan", "empty scan", nil)
	}
	if len(value) >= len(zoneScanPrefix) && strings.EqualFold(value[:len(zoneScanPrefix)], zoneScanPrefix) {
		zone, err := s.SelectZone(value[len(zoneScanPrefix):])
		if err != nil {
			return ScanResult{}, err
		}
		return ScanResult{ZoneSelected: true, Zone: zone, Count: s.ledger.SessionCount()}, nil
	}

	s.mu.Lock()
	session := s.session
	s.mu.Unlock()
	if session.Zone == "" {
		return ScanResult{}, services.Wrap(services.ErrValidation, "station", "scan", "no active zone; scan a zone label first", nil)
	}

	ctx = services.WithSessionID(ctx, session.ID)
	record, match, err := s.UpsertPackage(ctx, value, session.Zone)
	if err != nil {
		return ScanResult{Zone: session.Zone, Match: match}, err
	}
	return ScanResult{
		Zone:   record.Zone,
		Record: &record,
		Match:  match,
		Count:  s.ledger.SessionCount(),
	}, nil
}

func zoneLabel(zone string) string {
	if zone == "" {
		return "(empty)"
	}
	return zone
}
