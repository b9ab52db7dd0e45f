package loader

import (
	"path/filepath"
	"strings"
	"testing"

	uerrors "unimoddb/internal/errors"
	"unimoddb/internal/feed"
	"unimoddb/internal/logging"
	"unimoddb/internal/storage"
)

func setupStore(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.Open(storage.MemoryLocation, logging.NewDiscard())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPopulateFromFixture(t *testing.T) {
	db := setupStore(t)

	r, err := feed.Open(filepath.Join("..", "..", "testdata", "unimod.xml"))
	if err != nil {
		t.Fatalf("Failed to open feed: %v", err)
	}
	defer r.Close()

	if err := New(db, logging.NewDiscard()).Populate(r); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}

	initialized, err := db.Initialized()
	if err != nil {
		t.Fatalf("Failed to probe store: %v", err)
	}
	if !initialized {
		t.Fatal("Store not initialized after Populate")
	}

	repo := storage.NewModificationRepository(db)

	mod, err := repo.GetByID(354)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if mod == nil {
		t.Fatal("Nitro row missing after load")
	}
	if mod.Name != "Nitro" || mod.MonoMass != 44.985078 {
		t.Errorf("Unexpected Nitro row %+v", mod)
	}

	// Full names are lower-cased at insert for case-insensitive fallback
	if mod.FullName != "oxidation to nitro" {
		t.Errorf("Expected lower-cased full name, got %q", mod.FullName)
	}

	sites, err := repo.ListSites(storage.MassMono, "")
	if err != nil {
		t.Fatalf("ListSites failed: %v", err)
	}
	if len(sites) != 15 {
		t.Errorf("Expected 15 site rows, got %d", len(sites))
	}
}

const malformedFeed = `<?xml version="1.0"?>
<umod:unimod xmlns:umod="http://www.unimod.org/xmlns/schema/unimod_2">
  <umod:modifications>
    <umod:mod title="Acetyl" full_name="Acetylation" record_id="1">
      <umod:delta mono_mass="42.010565" avge_mass="42.0367" composition="H(2) C(2) O"/>
    </umod:mod>
    <umod:mod title="Broken" record_id="2">
      <umod:delta mono_mass="1.0" avge_mass="1.0"/>
    </umod:mod>
  </umod:modifications>
</umod:unimod>`

func TestPopulateAbortsOnMalformedRecord(t *testing.T) {
	db := setupStore(t)

	err := New(db, logging.NewDiscard()).Populate(feed.NewReader(strings.NewReader(malformedFeed)))
	if err == nil {
		t.Fatal("Expected Populate to fail on the malformed record")
	}
	if !uerrors.IsCode(err, uerrors.MalformedFeed) {
		t.Fatalf("Expected MALFORMED_FEED, got %v", err)
	}

	// The partial load is flushed, not rolled back: the schema and the
	// records preceding the malformed one survive.
	initialized, probeErr := db.Initialized()
	if probeErr != nil {
		t.Fatalf("Failed to probe store: %v", probeErr)
	}
	if !initialized {
		t.Error("Expected schema to survive an aborted load")
	}

	mod, lookupErr := storage.NewModificationRepository(db).GetByID(1)
	if lookupErr != nil {
		t.Fatalf("GetByID failed: %v", lookupErr)
	}
	if mod == nil {
		t.Error("Expected the record before the malformed one to be flushed")
	}
}
