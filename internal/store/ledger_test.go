package store

import (
	"testing"
)

func TestLedgerMarksAndSurvivesReload(t *testing.T) {
	path := t.TempDir() + "/seen.db"

	ledger, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}

	seen, err := ledger.IsSeen("https://stan.kz/news/1")
	if err != nil || seen {
		t.Fatalf("expected unseen url, seen=%v err=%v", seen, err)
	}

	if err := ledger.MarkSeen("https://stan.kz/news/1"); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	// Idempotent re-mark.
	if err := ledger.MarkSeen("https://stan.kz/news/1"); err != nil {
		t.Fatalf("MarkSeen twice: %v", err)
	}

	seen, err = ledger.IsSeen("https://stan.kz/news/1")
	if err != nil || !seen {
		t.Fatalf("expected url marked seen, seen=%v err=%v", seen, err)
	}
	if err := ledger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("reopen ledger: %v", err)
	}
	defer reopened.Close()

	seen, err = reopened.IsSeen("https://stan.kz/news/1")
	if err != nil || !seen {
		t.Fatalf("expected url seen after reload, seen=%v err=%v", seen, err)
	}

	n, err := reopened.Size()
	if err != nil || n != 1 {
		t.Fatalf("expected ledger size 1, got %d err=%v", n, err)
	}
}

func TestLedgerMissingFileIsEmpty(t *testing.T) {
	ledger, err := OpenLedger(t.TempDir() + "/nested/dir/seen.db")
	if err != nil {
		t.Fatalf("OpenLedger with missing file: %v", err)
	}
	defer ledger.Close()

	seen, err := ledger.IsSeen("https://example.kz/anything")
	if err != nil || seen {
		t.Fatalf("expected empty ledger, seen=%v err=%v", seen, err)
	}
}
