package database

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"petitionserver/matching"
)

func testVotersDB(t *testing.T) *VotersDB {
	t.Helper()
	db, err := NewVotersDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create VotersDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateAndGetVoterRecord(t *testing.T) {
	db := testVotersDB(t)

	rec := matching.IdentityRecord{
		FirstName: "John", LastName: "Smith", StreetNumber: "100",
		StreetName: "Main", StreetType: "St",
	}

	created, err := db.CreateVoterRecord(rec, "")
	if err != nil {
		t.Fatalf("Failed to create voter record: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Created record has no id")
	}

	loaded, err := db.GetVoterRecord(created.ID)
	if err != nil {
		t.Fatalf("Failed to load voter record: %v", err)
	}
	if loaded.FirstName != "John" || loaded.LastName != "Smith" {
		t.Errorf("Loaded wrong record: %+v", loaded.IdentityRecord)
	}
}

func TestCreateVoterRecordDuplicateIdentity(t *testing.T) {
	db := testVotersDB(t)

	rec := matching.IdentityRecord{
		FirstName: "John", LastName: "Smith", StreetNumber: "100",
		StreetName: "Main Street",
	}
	if _, err := db.CreateVoterRecord(rec, ""); err != nil {
		t.Fatalf("Failed to create voter record: %v", err)
	}

	// A different raw spelling of the same normalized identity is a
	// duplicate
	variant := matching.IdentityRecord{
		FirstName: "JOHN", LastName: "smith", StreetNumber: "100",
		StreetName: "Main St",
	}
	_, err := db.CreateVoterRecord(variant, "")
	if err != ErrDuplicateVoter {
		t.Fatalf("Expected ErrDuplicateVoter, got %v", err)
	}
}

func TestImportVoterRecordsCounts(t *testing.T) {
	db := testVotersDB(t)

	records := []matching.IdentityRecord{
		{FirstName: "John", LastName: "Smith", StreetNumber: "100", StreetName: "Main"},
		{FirstName: "Jane", LastName: "Doe", StreetNumber: "42", StreetName: "Oak"},
		{FirstName: "john", LastName: "SMITH", StreetNumber: "100", StreetName: "Main"}, // duplicate
		{}, // malformed
	}

	stats, err := db.ImportVoterRecords(records)
	if err != nil {
		t.Fatalf("Failed to import: %v", err)
	}
	if stats.Inserted != 2 || stats.Duplicates != 1 || stats.Errors != 1 {
		t.Errorf("Import stats = %+v, want inserted=2 duplicates=1 errors=1", stats)
	}

	count, err := db.CountVoterRecords()
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}

func TestUpdateVoterRecord(t *testing.T) {
	db := testVotersDB(t)

	created, err := db.CreateVoterRecord(matching.IdentityRecord{
		FirstName: "John", LastName: "Smith", StreetNumber: "100", StreetName: "Main",
	}, "")
	if err != nil {
		t.Fatalf("Failed to create voter record: %v", err)
	}

	updated, err := db.UpdateVoterRecord(created.ID, matching.IdentityRecord{
		FirstName: "John", LastName: "Smith", StreetNumber: "102", StreetName: "Main",
	})
	if err != nil {
		t.Fatalf("Failed to update voter record: %v", err)
	}
	if updated.StreetNumber != "102" {
		t.Errorf("StreetNumber = %s, want 102", updated.StreetNumber)
	}

	if _, err := db.UpdateVoterRecord("missing-id", matching.IdentityRecord{LastName: "X"}); err != ErrVoterNotFound {
		t.Errorf("Expected ErrVoterNotFound, got %v", err)
	}
}

func TestDeleteVoterRecord(t *testing.T) {
	db := testVotersDB(t)

	created, err := db.CreateVoterRecord(matching.IdentityRecord{
		FirstName: "John", LastName: "Smith", StreetNumber: "100", StreetName: "Main",
	}, "")
	if err != nil {
		t.Fatalf("Failed to create voter record: %v", err)
	}

	if err := db.DeleteVoterRecord(created.ID); err != nil {
		t.Fatalf("Failed to delete voter record: %v", err)
	}
	if _, err := db.GetVoterRecord(created.ID); err != ErrVoterNotFound {
		t.Errorf("Expected ErrVoterNotFound after delete, got %v", err)
	}
	if err := db.DeleteVoterRecord(created.ID); err != ErrVoterNotFound {
		t.Errorf("Expected ErrVoterNotFound on second delete, got %v", err)
	}
}

func TestListVoterRecordsSnapshot(t *testing.T) {
	db := testVotersDB(t)
	gofakeit.Seed(42)

	const rollSize = 200
	for i := 0; i < rollSize; i++ {
		rec := matching.IdentityRecord{
			FirstName:    gofakeit.FirstName(),
			LastName:     gofakeit.LastName(),
			StreetNumber: fmt.Sprintf("%d", gofakeit.Number(1, 9999)),
			StreetName:   gofakeit.StreetName(),
			StreetType:   gofakeit.RandomString([]string{"St", "Ave", "Blvd", "Dr"}),
		}
		// Synthetic names collide occasionally; duplicates are expected
		// and skipped
		if _, err := db.CreateVoterRecord(rec, ""); err != nil && err != ErrDuplicateVoter {
			t.Fatalf("Failed to create voter record: %v", err)
		}
	}

	roll, err := db.ListVoterRecords()
	if err != nil {
		t.Fatalf("Failed to list voter records: %v", err)
	}
	count, err := db.CountVoterRecords()
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if len(roll) != count {
		t.Errorf("Snapshot has %d records, count reports %d", len(roll), count)
	}
	for _, rec := range roll {
		if rec.ID == "" {
			t.Fatal("Snapshot record without id")
		}
	}
}

func TestClearVoterRecords(t *testing.T) {
	db := testVotersDB(t)

	if _, err := db.CreateVoterRecord(matching.IdentityRecord{
		FirstName: "John", LastName: "Smith", StreetNumber: "100", StreetName: "Main",
	}, ""); err != nil {
		t.Fatalf("Failed to create voter record: %v", err)
	}

	if err := db.ClearVoterRecords(); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	count, err := db.CountVoterRecords()
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 0 {
		t.Errorf("Count after clear = %d, want 0", count)
	}
}
