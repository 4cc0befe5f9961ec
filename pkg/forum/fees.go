package forum

import (
	"fmt"

	"go.uber.org/zap"

	"agoradb/pkg/logger"
	"agoradb/pkg/models"
)

// applyFee enforces the fee gate for one operation. A deposit at or
// above the required amount is retained in full, excess included; no
// change is given. An underpayment is refunded in full to the payer and
// the operation fails with InsufficientFeeError before touching any
// state.
func (s *Service) applyFee(required, deposit models.Amount, payer string) error {
	if deposit.Cmp(required) >= 0 {
		return nil
	}
	if err := s.ledger.Refund(payer, deposit); err != nil {
		return fmt.Errorf("refund of underpaid deposit failed: %w", err)
	}
	logger.Info("fee_refunded",
		zap.String("payer", payer),
		zap.String("attached", deposit.String()),
		zap.String("required", required.String()),
	)
	return &InsufficientFeeError{Required: required}
}

// refundDeposit returns the full attached deposit to the payer when a
// mutation fails after its fee gate has already passed. Failed mutations
// never keep the payment.
func (s *Service) refundDeposit(payer string, deposit models.Amount) {
	if deposit.IsZero() {
		return
	}
	if err := s.ledger.Refund(payer, deposit); err != nil {
		logger.Error("refund_failed",
			zap.String("payer", payer),
			zap.String("attached", deposit.String()),
			zap.Error(err),
		)
		return
	}
	logger.Info("deposit_refunded",
		zap.String("payer", payer),
		zap.String("attached", deposit.String()),
	)
}

// SetFees replaces all four fee amounts in one step. Operator only.
func (s *Service) SetFees(caller string, fees models.Fees) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if caller != s.operator {
		return ErrUnauthorized
	}
	s.fees = fees
	if err := s.saveFees(); err != nil {
		return err
	}
	logger.Info("fees_updated", zap.String("caller", caller))
	return nil
}

// GetFees returns the current fee schedule; its JSON form carries each
// amount as a decimal string.
func (s *Service) GetFees() models.Fees {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fees
}
