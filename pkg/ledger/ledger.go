// Package ledger models the payment capability the runtime supplies:
// attached deposits enter with each call, and underpaid calls are
// refunded in full. The actual value transfer belongs to the external
// runtime; this package keeps the service-side refund journal.
package ledger

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"agoradb/pkg/logger"
	"agoradb/pkg/models"
	"agoradb/pkg/store"
)

// Ledger issues refunds of attached deposits back to their payer.
type Ledger interface {
	Refund(account string, amount models.Amount) error
}

var refundsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "agoradb_refunds_total",
	Help: "Count of refunds issued for underpaid operations.",
})

// Journal is the production Ledger: each refund is appended to the store
// under a sequenced key so operators can reconcile against the runtime.
type Journal struct {
	seq uint64
}

// NewJournal returns a Journal ready for use; the store must be open.
func NewJournal() *Journal { return &Journal{} }

type refundRecord struct {
	Account string        `json:"account"`
	Amount  models.Amount `json:"amount"`
	TS      int64         `json:"ts"`
}

// Refund records a full refund of amount to account.
func (j *Journal) Refund(account string, amount models.Amount) error {
	s := atomic.AddUint64(&j.seq, 1)
	rec := refundRecord{Account: account, Amount: amount, TS: time.Now().UTC().UnixNano()}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal refund record: %w", err)
	}
	key := fmt.Sprintf("refund:%020d-%06d", rec.TS, s)
	if err := store.Set(key, b); err != nil {
		return err
	}
	refundsTotal.Inc()
	logger.Info("refund_issued", zap.String("account", account), zap.String("amount", amount.String()))
	return nil
}
