package database

import (
	"testing"
)

func testServiceDB(t *testing.T) *ServiceDB {
	t.Helper()
	db, err := NewServiceDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create ServiceDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndListBallots(t *testing.T) {
	db := testServiceDB(t)

	ballot, err := db.RecordBallot("petition_2026_03.pdf")
	if err != nil {
		t.Fatalf("Failed to record ballot: %v", err)
	}
	if ballot.ID == 0 || ballot.Name != "petition_2026_03.pdf" {
		t.Errorf("Unexpected ballot: %+v", ballot)
	}

	ballots, err := db.ListBallots()
	if err != nil {
		t.Fatalf("Failed to list ballots: %v", err)
	}
	if len(ballots) != 1 {
		t.Fatalf("Listed %d ballots, want 1", len(ballots))
	}

	count, err := db.CountBallots()
	if err != nil {
		t.Fatalf("Failed to count ballots: %v", err)
	}
	if count != 1 {
		t.Errorf("Ballot count = %d, want 1", count)
	}
}

func TestMatchRunLifecycle(t *testing.T) {
	db := testServiceDB(t)

	last, err := db.GetLastMatchRun()
	if err != nil {
		t.Fatalf("Failed to query last run: %v", err)
	}
	if last != nil {
		t.Fatal("Expected no runs in a fresh database")
	}

	id, err := db.StartMatchRun("petition.pdf")
	if err != nil {
		t.Fatalf("Failed to start run: %v", err)
	}

	last, err = db.GetLastMatchRun()
	if err != nil {
		t.Fatalf("Failed to query last run: %v", err)
	}
	if last == nil || last.ID != id || last.Status != RunStatusRunning {
		t.Fatalf("Unexpected last run: %+v", last)
	}
	if last.FinishedAt != nil {
		t.Error("Running run has a finish time")
	}

	if err := db.FinishMatchRun(id, RunStatusDone, `{"total":10}`); err != nil {
		t.Fatalf("Failed to finish run: %v", err)
	}

	last, err = db.GetLastMatchRun()
	if err != nil {
		t.Fatalf("Failed to query last run: %v", err)
	}
	if last.Status != RunStatusDone || last.StatsJSON != `{"total":10}` {
		t.Errorf("Unexpected finished run: %+v", last)
	}
	if last.FinishedAt == nil {
		t.Error("Finished run has no finish time")
	}

	if err := db.FinishMatchRun("missing-id", RunStatusFailed, ""); err != ErrRunNotFound {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
}

func TestAppConfigVersioning(t *testing.T) {
	db := testServiceDB(t)

	current, err := db.GetAppConfig()
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	if current != "" {
		t.Fatalf("Fresh database has config %q", current)
	}

	if err := db.SaveAppConfig(`{"threshold":0.8}`, "admin", "initial"); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	if err := db.SaveAppConfig(`{"threshold":0.85}`, "admin", "tightened threshold"); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	current, err = db.GetAppConfig()
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	if current != `{"threshold":0.85}` {
		t.Errorf("Config = %q, want latest version", current)
	}

	history, err := db.GetAppConfigHistory(10)
	if err != nil {
		t.Fatalf("Failed to read config history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("History has %d entries, want 1", len(history))
	}
	if history[0]["config_json"] != `{"threshold":0.8}` {
		t.Errorf("Archived config = %v, want the superseded version", history[0]["config_json"])
	}
}
