package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	"unimoddb/internal/logging"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(MemoryLocation, logging.NewDiscard())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close database: %v", err)
		}
	})

	return db
}

func insertFixtureRows(t *testing.T, db *DB) *ModificationRepository {
	t.Helper()

	repo := NewModificationRepository(db)
	mods := []Modification{
		{ModID: 275, Name: "Nitrosyl", FullName: "s-nitrosylation", MonoMass: 28.990164, AvgMass: 28.9982, Composition: "H(-1) N O"},
		{ModID: 354, Name: "Nitro", FullName: "oxidation to nitro", MonoMass: 44.985078, AvgMass: 44.9976, Composition: "H(-1) N O(2)"},
	}
	sites := []ModificationSite{
		{ModID: 275, Site: "C", Classification: "Post-translational"},
		{ModID: 354, Site: "W", Classification: "Chemical derivative"},
		{ModID: 354, Site: "Y", Classification: "Chemical derivative"},
	}

	err := db.WithTx(func(tx *sql.Tx) error {
		for i := range mods {
			if err := repo.InsertTx(tx, &mods[i]); err != nil {
				return err
			}
		}
		for i := range sites {
			if err := repo.InsertSiteTx(tx, &sites[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to insert fixture rows: %v", err)
	}

	return repo
}

func TestInitializedProbe(t *testing.T) {
	db := setupTestDB(t)

	initialized, err := db.Initialized()
	if err != nil {
		t.Fatalf("Failed to probe fresh store: %v", err)
	}
	if initialized {
		t.Error("Fresh store reported initialized")
	}

	if err := db.CreateSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	initialized, err = db.Initialized()
	if err != nil {
		t.Fatalf("Failed to probe store after schema creation: %v", err)
	}
	if !initialized {
		t.Error("Store with schema reported uninitialized")
	}
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	location := filepath.Join(t.TempDir(), "nested", "cache", "unimod.db")

	db, err := Open(location, logging.NewDiscard())
	if err != nil {
		t.Fatalf("Failed to open store at nested path: %v", err)
	}
	defer db.Close()

	if db.Location() != location {
		t.Errorf("Expected location %q, got %q", location, db.Location())
	}
}

func TestPointLookups(t *testing.T) {
	db := setupTestDB(t)
	if err := db.CreateSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	repo := insertFixtureRows(t, db)

	mod, err := repo.GetByName("Nitro")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if mod == nil || mod.ModID != 354 {
		t.Fatalf("Expected Nitro (354), got %+v", mod)
	}

	mod, err = repo.GetByFullName("s-nitrosylation")
	if err != nil {
		t.Fatalf("GetByFullName failed: %v", err)
	}
	if mod == nil || mod.Name != "Nitrosyl" {
		t.Fatalf("Expected Nitrosyl, got %+v", mod)
	}

	mod, err = repo.GetByID(275)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if mod == nil || mod.Name != "Nitrosyl" {
		t.Fatalf("Expected Nitrosyl, got %+v", mod)
	}

	mod, err = repo.GetByName("Unknown")
	if err != nil {
		t.Fatalf("GetByName for missing row failed: %v", err)
	}
	if mod != nil {
		t.Errorf("Expected nil for missing row, got %+v", mod)
	}
}

func TestFirstInMassRange(t *testing.T) {
	db := setupTestDB(t)
	if err := db.CreateSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	repo := insertFixtureRows(t, db)

	mod, err := repo.FirstInMassRange(MassMono, 44.984, 44.986)
	if err != nil {
		t.Fatalf("FirstInMassRange failed: %v", err)
	}
	if mod == nil || mod.Name != "Nitro" {
		t.Fatalf("Expected Nitro, got %+v", mod)
	}

	// Inclusive bounds
	mod, err = repo.FirstInMassRange(MassAvg, 28.9982, 28.9982)
	if err != nil {
		t.Fatalf("FirstInMassRange at exact bound failed: %v", err)
	}
	if mod == nil || mod.Name != "Nitrosyl" {
		t.Fatalf("Expected Nitrosyl at exact bound, got %+v", mod)
	}

	mod, err = repo.FirstInMassRange(MassMono, 1000, 1001)
	if err != nil {
		t.Fatalf("FirstInMassRange for empty window failed: %v", err)
	}
	if mod != nil {
		t.Errorf("Expected nil for empty window, got %+v", mod)
	}

	if _, err := repo.FirstInMassRange(MassType("other"), 0, 1); err == nil {
		t.Error("Expected an error for an unknown mass type")
	}
}

func TestListSites(t *testing.T) {
	db := setupTestDB(t)
	if err := db.CreateSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	repo := insertFixtureRows(t, db)

	rows, err := repo.ListSites(MassMono, "")
	if err != nil {
		t.Fatalf("ListSites failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 join rows, got %d", len(rows))
	}

	// Storage order: Nitrosyl/C first, then Nitro W before Y
	if rows[0].Name != "Nitrosyl" || rows[0].Site != "C" {
		t.Errorf("Unexpected first row %+v", rows[0])
	}
	if rows[1].Site != "W" || rows[2].Site != "Y" {
		t.Errorf("Expected site encounter order W then Y, got %q then %q", rows[1].Site, rows[2].Site)
	}

	rows, err = repo.ListSites(MassMono, "Post-translational")
	if err != nil {
		t.Fatalf("Filtered ListSites failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Nitrosyl" {
		t.Fatalf("Expected only the Nitrosyl site, got %+v", rows)
	}

	// Exact, case-sensitive match only
	rows, err = repo.ListSites(MassMono, "post-translational")
	if err != nil {
		t.Fatalf("Filtered ListSites failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected case-sensitive filter to match nothing, got %+v", rows)
	}
}

func TestMassTypeColumn(t *testing.T) {
	if col, ok := MassMono.Column(); !ok || col != "mono_mass" {
		t.Errorf("Expected mono_mass, got %q (ok=%v)", col, ok)
	}
	if col, ok := MassAvg.Column(); !ok || col != "avg_mass" {
		t.Errorf("Expected avg_mass, got %q (ok=%v)", col, ok)
	}
	if _, ok := MassType("other").Column(); ok {
		t.Error("Expected unknown mass type to be rejected")
	}
}
