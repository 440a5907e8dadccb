package station_test

import (
	"context"
	"errors"
	"testing"

	"hermes/internal/resolver"
	"hermes/internal/services"
)

func TestScanFlow(t *testing.T) {
	s := syncedStation(t, "A", "B")
	ctx := context.Background()

	if _, err := s.Scan(ctx, "A1"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected scan without zone to fail validation, got %v", err)
	}

	session := s.StartIntake()
	if !session.Active || session.ID == "" || session.Count != 0 {
		t.Fatalf("unexpected session %+v", session)
	}

	res, err := s.Scan(ctx, "zone:b")
	if err != nil {
		t.Fatalf("zone scan: %v", err)
	}
	if !res.ZoneSelected || res.Zone != "B" || res.Record != nil {
		t.Fatalf("unexpected zone scan result %+v", res)
	}
	if _, err := s.Scan(ctx, "ZONE:Q"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected unknown zone label to fail, got %v", err)
	}
	if got := s.Session().Zone; got != "B" {
		t.Fatalf("unknown zone label must keep the active zone, got %q", got)
	}

	res, err = s.Scan(ctx, " H7OO 1234567 ")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.Record == nil || res.Record.Code != "H7OO1234567" || res.Record.Zone != "B" {
		t.Fatalf("unexpected record %+v", res.Record)
	}
	if res.Match.Confidence != resolver.ConfidenceConfident || res.Record.Name() != "Maria Schmidt" {
		t.Fatalf("unexpected match %+v", res.Match)
	}
	if res.Count != 1 {
		t.Fatalf("expected session count 1, got %d", res.Count)
	}

	res, err = s.Scan(ctx, "A1")
	if err != nil || res.Count != 2 {
		t.Fatalf("second scan = %+v, %v", res, err)
	}

	finished := s.StopIntake()
	if finished.Count != 2 || finished.ID != session.ID {
		t.Fatalf("unexpected finished session %+v", finished)
	}
	if finished.Zone != "B" {
		t.Fatalf("finished session must report its zone, got %q", finished.Zone)
	}
	if current := s.Session(); current.Active || current.Count != 0 || current.Zone != "" {
		t.Fatalf("stop must reset counter and zone, got %+v", current)
	}

	next := s.StartIntake()
	if next.ID == session.ID {
		t.Fatal("new intake must get a fresh session id")
	}
	if next.Zone != "" {
		t.Fatalf("new intake must start without a zone, got %q", next.Zone)
	}
	if _, err := s.Scan(ctx, "A1"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("scan before a zone label in the new session must fail, got %v", err)
	}
}

func TestZoneDoesNotCarryIntoNextSession(t *testing.T) {
	s := syncedStation(t, "A", "B")
	ctx := context.Background()

	s.StartIntake()
	if _, err := s.SelectZone("A"); err != nil {
		t.Fatalf("SelectZone: %v", err)
	}
	s.StopIntake()
	s.StartIntake()

	if got := s.Session().Zone; got != "" {
		t.Fatalf("expected no zone after restarting intake, got %q", got)
	}
	if _, err := s.Scan(ctx, "A1"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected scan without zone to fail, got %v", err)
	}
	rows, err := s.Packages(ctx, 0)
	if err != nil || len(rows) != 0 {
		t.Fatalf("expected no recorded packages, got %+v (%v)", rows, err)
	}
}

func TestSelectZone(t *testing.T) {
	s := syncedStation(t, "E-1", "F")
	if _, err := s.SelectZone("F"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected zone selection outside intake to fail, got %v", err)
	}

	s.StartIntake()
	zone, err := s.SelectZone(" e-1 ")
	if err != nil || zone != "E-1" {
		t.Fatalf("SelectZone = %q, %v", zone, err)
	}
	if _, err := s.SelectZone(""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected empty zone to fail, got %v", err)
	}
}

func TestEmptyScan(t *testing.T) {
	s := syncedStation(t)
	if _, err := s.Scan(context.Background(), "  \t"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected empty scan to fail validation, got %v", err)
	}
}
