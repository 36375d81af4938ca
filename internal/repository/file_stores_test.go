package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"NavPull/internal/domain/models"
)

func TestFileHoldingsStoreOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holdings.json")
	doc := `{
		"Zeta Fund": [{"symbol": "AAA", "weight": 50.0}],
		"Alpha Fund": [{"symbol": "BBB", "weight": 30.0}, {"symbol": "CCC_PVT", "weight": 10.0}]
	}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs, err := NewFileHoldingsStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fs.Len() != 2 {
		t.Fatalf("funds = %d, want 2", fs.Len())
	}
	if fs.Names[0] != "Zeta Fund" || fs.Names[1] != "Alpha Fund" {
		t.Fatalf("document order lost: %v", fs.Names)
	}
	if len(fs.Holdings["Alpha Fund"]) != 2 {
		t.Fatalf("holdings = %d, want 2", len(fs.Holdings["Alpha Fund"]))
	}
	if fs.Holdings["Zeta Fund"][0].Weight != 50.0 {
		t.Fatalf("weight = %v, want 50.0", fs.Holdings["Zeta Fund"][0].Weight)
	}
}

func TestFileHoldingsStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	fs, err := NewFileHoldingsStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if fs.Len() != 0 {
		t.Fatalf("missing file should yield empty set")
	}
}

func TestFileHoldingsStoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holdings.json")
	if err := os.WriteFile(path, []byte(`{"Fund": [{`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFileHoldingsStore(path).Load(context.Background()); err == nil {
		t.Fatalf("malformed document should error")
	}
}

func TestFileSnapshotStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := NewFileSnapshotStore(path)
	ctx := context.Background()

	snap := &models.Snapshot{
		LastUpdated: "12:30:00",
		CEFs: []models.FundResult{{
			Name:          "Fund",
			ImpliedMove:   0.25,
			TrackedWeight: 80.0,
			Status:        models.StatusUp,
			Holdings: []models.HoldingDetail{
				{Symbol: "AAA", Weight: 40, Change: models.Float(0.5), Source: "FINNHUB"},
				{Symbol: "BBB", Weight: 40, Change: nil},
			},
		}},
	}
	if err := store.Write(ctx, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.LastUpdated != "12:30:00" || len(got.CEFs) != 1 {
		t.Fatalf("unexpected snapshot %+v", got)
	}
	if got.CEFs[0].Holdings[0].Change == nil || *got.CEFs[0].Holdings[0].Change != 0.5 {
		t.Fatalf("change lost in round trip")
	}
	if got.CEFs[0].Holdings[1].Change != nil {
		t.Fatalf("nil change must stay nil, not become zero")
	}

	// The staging file must not survive a committed write.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("staging file left behind")
	}
}

func TestFileSnapshotStoreIgnoresStaleStaging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := NewFileSnapshotStore(path)
	ctx := context.Background()

	snap := &models.Snapshot{
		LastUpdated: "09:00:00",
		CEFs:        []models.FundResult{{Name: "Fund", ImpliedMove: 0.1}},
	}
	if err := store.Write(ctx, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Simulate a crash mid-write: garbage staging file next to a good
	// committed snapshot.
	if err := os.WriteFile(path+".tmp", []byte("{half a snap"), 0o644); err != nil {
		t.Fatalf("plant staging file: %v", err)
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got == nil || got.LastUpdated != "09:00:00" || len(got.CEFs) != 1 {
		t.Fatalf("committed snapshot lost: %+v", got)
	}

	// The next write must replace the stale staging file cleanly.
	snap.LastUpdated = "09:01:00"
	if err := store.Write(ctx, snap); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	got, err = store.Read(ctx)
	if err != nil || got.LastUpdated != "09:01:00" {
		t.Fatalf("rewrite not committed: %+v %v", got, err)
	}
}

func TestFileSnapshotStoreColdStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	got, err := NewFileSnapshotStore(path).Read(context.Background())
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if got != nil {
		t.Fatalf("cold start should return nil snapshot")
	}
}

func TestFileReferenceStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.json")
	store := NewFileReferenceStore(path)
	ctx := context.Background()

	ref := &models.Reference{Date: "2024-10-10", Prices: map[string]float64{"AAA": 101.5}}
	if err := store.Write(ctx, ref); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Date != "2024-10-10" || got.Prices["AAA"] != 101.5 {
		t.Fatalf("unexpected reference %+v", got)
	}
}

func TestFileReferenceStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.json")
	got, err := NewFileReferenceStore(path).Read(context.Background())
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if got == nil || got.Prices == nil {
		t.Fatalf("missing file should yield an empty usable reference")
	}
}
