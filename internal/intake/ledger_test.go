package intake

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmercer/camdeck/internal/domain"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger, err := OpenLedger(filepath.Join(t.TempDir(), "data", "intakes.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ledger.Close() })
	return ledger
}

func TestLedgerRoundTrip(t *testing.T) {
	ledger := openTestLedger(t)

	want := domain.IntakeRecord{
		Tag:         "ABC123",
		DestDir:     "/home/user/camdeck/captures/ABC123",
		PulledCount: 4,
		CompletedAt: time.Date(2026, 8, 31, 10, 15, 0, 0, time.UTC),
	}
	if err := ledger.Record(want); err != nil {
		t.Fatal(err)
	}

	records, err := ledger.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.Tag != want.Tag || got.DestDir != want.DestDir || got.PulledCount != want.PulledCount {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.CompletedAt.Equal(want.CompletedAt) {
		t.Errorf("timestamp mismatch: %v", got.CompletedAt)
	}
}

func TestLedgerRecentIsNewestFirst(t *testing.T) {
	ledger := openTestLedger(t)

	for i := 1; i <= 5; i++ {
		rec := domain.IntakeRecord{Tag: fmt.Sprintf("TAG%02d", i), PulledCount: i}
		if err := ledger.Record(rec); err != nil {
			t.Fatal(err)
		}
	}

	records, err := ledger.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, want := range []string{"TAG05", "TAG04", "TAG03"} {
		if records[i].Tag != want {
			t.Errorf("record %d: expected %s, got %s", i, want, records[i].Tag)
		}
	}
}

func TestLedgerSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intakes.db")

	ledger, err := OpenLedger(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.Record(domain.IntakeRecord{Tag: "KEEP01", PulledCount: 2}); err != nil {
		t.Fatal(err)
	}
	if err := ledger.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenLedger(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	records, err := reopened.Recent(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Tag != "KEEP01" {
		t.Fatalf("expected KEEP01 after reopen, got %+v", records)
	}
}
