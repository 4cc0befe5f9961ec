package ledger

import (
	"encoding/json"
	"testing"

	"agoradb/pkg/models"
	"agoradb/pkg/store"
)

func TestJournalRefund(t *testing.T) {
	if err := store.Open(t.TempDir()); err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	j := NewJournal()
	if err := j.Refund("alice", models.MustAmount("99")); err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if err := j.Refund("bob", models.MustAmount("10000000000000000000000")); err != nil {
		t.Fatalf("Refund: %v", err)
	}

	var recs []refundRecord
	err := store.ScanPrefix("refund:", func(_ string, v []byte) error {
		var r refundRecord
		if err := json.Unmarshal(v, &r); err != nil {
			return err
		}
		recs = append(recs, r)
		return nil
	})
	if err != nil {
		t.Fatalf("ScanPrefix: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 refund records, got %d", len(recs))
	}
	if recs[0].Account != "alice" || recs[0].Amount.String() != "99" {
		t.Fatalf("first record: %+v", recs[0])
	}
	if recs[1].Amount.String() != "10000000000000000000000" {
		t.Fatalf("second record keeps full precision: %+v", recs[1])
	}
}
