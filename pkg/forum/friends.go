package forum

import (
	"fmt"

	"go.uber.org/zap"

	"agoradb/pkg/logger"
	"agoradb/pkg/models"
)

// SendFriendRequest places (or replaces) a pending entry in the target's
// inbox. Gated by the friend fee; fails ErrNotFound when the target has
// no profile. A re-request overwrites the stored message in place and
// keeps the entry's inbox position.
func (s *Service) SendFriendRequest(caller string, deposit models.Amount, target string, message *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyFee(s.fees.FriendFee, deposit, caller); err != nil {
		return err
	}
	to, ok := s.people[target]
	if !ok {
		s.refundDeposit(caller, deposit)
		return fmt.Errorf("person %q: %w", target, ErrNotFound)
	}
	if i := to.RequestIndex(caller); i >= 0 {
		to.Requests[i].Message = message
	} else {
		to.Requests = append(to.Requests, models.FriendRequest{Account: caller, Message: message})
	}
	if err := s.savePerson(to); err != nil {
		s.refundDeposit(caller, deposit)
		return err
	}
	logger.Info("friend_request_sent", zap.String("from", caller), zap.String("to", target))
	return nil
}

// AcceptFriendRequest confirms a friendship: the pending entry is
// removed from the caller's inbox (tolerated if already absent) and both
// friend sets gain the counterpart account, keeping the friendship
// symmetric. Gated by the friend fee, charged again here in addition to
// the one paid on send. Fails ErrNotFound when either person record is
// absent.
func (s *Service) AcceptFriendRequest(caller string, deposit models.Amount, from string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyFee(s.fees.FriendFee, deposit, caller); err != nil {
		return err
	}
	to, ok := s.people[caller]
	if !ok {
		s.refundDeposit(caller, deposit)
		return fmt.Errorf("person %q: %w", caller, ErrNotFound)
	}
	fp, ok := s.people[from]
	if !ok {
		s.refundDeposit(caller, deposit)
		return fmt.Errorf("person %q: %w", from, ErrNotFound)
	}
	if i := to.RequestIndex(from); i >= 0 {
		to.Requests = append(to.Requests[:i], to.Requests[i+1:]...)
	}
	if !to.HasFriend(from) {
		to.Friends = append(to.Friends, from)
	}
	if !fp.HasFriend(caller) {
		fp.Friends = append(fp.Friends, caller)
	}
	// both sides persisted so the symmetry invariant survives a reload
	if err := s.savePerson(to); err != nil {
		s.refundDeposit(caller, deposit)
		return err
	}
	if err := s.savePerson(fp); err != nil {
		s.refundDeposit(caller, deposit)
		return err
	}
	logger.Info("friend_request_accepted", zap.String("account", caller), zap.String("from", from))
	return nil
}

// RejectFriendRequest drops the pending entry from the caller's inbox if
// present; rejecting an absent request is a silent no-op. No fee, and
// friend sets are never touched.
func (s *Service) RejectFriendRequest(caller, from string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.people[caller]
	if !ok {
		return fmt.Errorf("person %q: %w", caller, ErrNotFound)
	}
	i := p.RequestIndex(from)
	if i < 0 {
		return nil
	}
	p.Requests = append(p.Requests[:i], p.Requests[i+1:]...)
	if err := s.savePerson(p); err != nil {
		return err
	}
	logger.Info("friend_request_rejected", zap.String("account", caller), zap.String("from", from))
	return nil
}

// Unfriend removes a confirmed friendship from both sides, mirroring the
// mutual update of AcceptFriendRequest. Unfriending an account that is
// not a friend is a silent no-op. No fee. Fails ErrNotFound when either
// person record is absent.
func (s *Service) Unfriend(caller, other string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.people[caller]
	if !ok {
		return fmt.Errorf("person %q: %w", caller, ErrNotFound)
	}
	op, ok := s.people[other]
	if !ok {
		return fmt.Errorf("person %q: %w", other, ErrNotFound)
	}
	removed := removeFriend(p, other)
	removed = removeFriend(op, caller) || removed
	if !removed {
		return nil
	}
	if err := s.savePerson(p); err != nil {
		return err
	}
	if err := s.savePerson(op); err != nil {
		return err
	}
	logger.Info("unfriended", zap.String("account", caller), zap.String("other", other))
	return nil
}

func removeFriend(p *models.Person, account string) bool {
	for i, f := range p.Friends {
		if f == account {
			p.Friends = append(p.Friends[:i], p.Friends[i+1:]...)
			return true
		}
	}
	return false
}

// GetFriendRequests lists the pending inbox of an account for the
// window, in arrival order (forward, unlike every other listing). Fails
// ErrNotFound when the person is absent.
func (s *Service) GetFriendRequests(account string, from, limit uint64) ([]models.FriendRequestView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.people[account]
	if !ok {
		return nil, fmt.Errorf("person %q: %w", account, ErrNotFound)
	}
	out := []models.FriendRequestView{}
	forwardWindow(from, limit, uint64(len(p.Requests)), func(i uint64) {
		r := p.Requests[i]
		out = append(out, models.FriendRequestView{Account: r.Account, Message: r.Message})
	})
	return out, nil
}
