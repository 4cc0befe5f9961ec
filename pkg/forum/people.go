package forum

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"agoradb/pkg/logger"
	"agoradb/pkg/models"
)

func checkAccount(account string) error {
	if account == "" {
		return fmt.Errorf("%w: account required", ErrInvalid)
	}
	if len(account) > 128 {
		return fmt.Errorf("%w: account too long", ErrInvalid)
	}
	if strings.ContainsAny(account, ":\n") {
		return fmt.Errorf("%w: account contains reserved characters", ErrInvalid)
	}
	return nil
}

// PutPerson creates or updates the caller's profile. A first write
// lazily creates the Person record (there is no separate register step);
// later writes overwrite text and content id in place, last write wins,
// with the created timestamp untouched. Profile writes carry no fee: the
// profile fee exists in the schedule but is deliberately not applied
// here.
func (s *Service) PutPerson(caller string, text, contentID *string) (models.PersonView, error) {
	if err := checkAccount(caller); err != nil {
		return models.PersonView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.people[caller]
	if ok {
		p.Text = text
		p.ContentID = contentID
		if err := s.savePerson(p); err != nil {
			return models.PersonView{}, err
		}
		return p.View(), nil
	}
	p = &models.Person{
		Account:   caller,
		Text:      text,
		ContentID: contentID,
		CreatedTS: s.now(),
		Seq:       s.nextSeq(),
	}
	if err := s.savePerson(p); err != nil {
		return models.PersonView{}, err
	}
	s.people[caller] = p
	s.peopleOrder = append(s.peopleOrder, caller)
	logger.Info("person_created", zap.String("account", caller))
	return p.View(), nil
}

// GetPerson returns the profile projection for an account, or nil when
// the account has no profile. Absence is a valid query result, not an
// error.
func (s *Service) GetPerson(account string) *models.PersonView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.people[account]
	if !ok {
		return nil
	}
	v := p.View()
	return &v
}

// GetPeople lists profile projections for the window, most recently
// created first.
func (s *Service) GetPeople(from, limit uint64) []models.PersonView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.PersonView{}
	reverseWindow(from, limit, uint64(len(s.peopleOrder)), func(i uint64) {
		out = append(out, s.people[s.peopleOrder[i]].View())
	})
	return out
}
