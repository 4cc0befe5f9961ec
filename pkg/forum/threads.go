package forum

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"agoradb/pkg/logger"
	"agoradb/pkg/models"
	"agoradb/pkg/store"
)

// checkThreadName rejects names the key namespace cannot carry. Checked
// before the fee gate so a malformed call never consumes a deposit.
func checkThreadName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: thread name required", ErrInvalid)
	}
	if len(name) > 128 {
		return fmt.Errorf("%w: thread name too long", ErrInvalid)
	}
	if strings.Contains(name, ":") {
		return fmt.Errorf("%w: thread name must not contain ':'", ErrInvalid)
	}
	return nil
}

// CreateThread creates an empty thread under a unique name. Gated by the
// thread fee; a name collision fails with ErrAlreadyExists and the
// attached deposit is returned in full.
func (s *Service) CreateThread(caller string, deposit models.Amount, name string) (string, error) {
	if err := checkThreadName(name); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyFee(s.fees.ThreadFee, deposit, caller); err != nil {
		return "", err
	}
	if _, ok := s.threads[name]; ok {
		s.refundDeposit(caller, deposit)
		return "", fmt.Errorf("thread %q: %w", name, ErrAlreadyExists)
	}
	rec := models.ThreadRecord{Name: name, CreatedTS: s.now(), Seq: s.nextSeq()}
	if err := s.saveThreadMeta(rec); err != nil {
		s.refundDeposit(caller, deposit)
		return "", err
	}
	s.threads[name] = &thread{
		meta:  rec,
		posts: map[string]*models.Post{},
		key:   map[string]string{},
	}
	s.threadOrder = append(s.threadOrder, name)
	logger.Info("thread_created", zap.String("thread", name), zap.String("account", caller))
	return name, nil
}

// DeleteThread removes a thread and every post in it. Operator only;
// deleting an absent thread is a silent no-op.
func (s *Service) DeleteThread(caller, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if caller != s.operator {
		return ErrUnauthorized
	}
	if _, ok := s.threads[name]; !ok {
		return nil
	}
	if err := store.DeletePrefix(threadPrefix + name + ":"); err != nil {
		return err
	}
	delete(s.threads, name)
	for i, n := range s.threadOrder {
		if n == name {
			s.threadOrder = append(s.threadOrder[:i], s.threadOrder[i+1:]...)
			break
		}
	}
	logger.Info("thread_deleted", zap.String("thread", name))
	return nil
}

// AddPost appends a post to a thread. Gated by the post fee; fails
// ErrNotFound when the thread is absent. The post id carries the author
// account and creation timestamp plus a sequence component so two posts
// in the same nanosecond cannot collide.
func (s *Service) AddPost(caller string, deposit models.Amount, threadName, text string, contentID *string) (models.PostView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyFee(s.fees.PostFee, deposit, caller); err != nil {
		return models.PostView{}, err
	}
	th, ok := s.threads[threadName]
	if !ok {
		s.refundDeposit(caller, deposit)
		return models.PostView{}, fmt.Errorf("thread %q: %w", threadName, ErrNotFound)
	}
	ts := s.now()
	seq := s.nextSeq()
	p := &models.Post{
		ID:        fmt.Sprintf("%s-%d-%d", caller, ts, seq),
		Text:      text,
		Tags:      []string{},
		Account:   caller,
		ContentID: contentID,
		CreatedTS: ts,
		Reactions: map[string]models.AccountReaction{},
	}
	key := fmt.Sprintf("%s%s:post:%020d", threadPrefix, threadName, seq)
	if err := s.savePost(key, p); err != nil {
		s.refundDeposit(caller, deposit)
		return models.PostView{}, err
	}
	th.posts[p.ID] = p
	th.order = append(th.order, p.ID)
	th.key[p.ID] = key
	logger.Info("post_added", zap.String("thread", threadName), zap.String("post", p.ID))
	return p.View(), nil
}

// DeletePost removes a post from a thread. Operator only; fails
// ErrNotFound when the thread is absent, while an absent post is
// tolerated silently, mirroring thread deletion.
func (s *Service) DeletePost(caller, threadName, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if caller != s.operator {
		return ErrUnauthorized
	}
	th, ok := s.threads[threadName]
	if !ok {
		return fmt.Errorf("thread %q: %w", threadName, ErrNotFound)
	}
	if _, ok := th.posts[postID]; !ok {
		return nil
	}
	if err := store.Delete(th.key[postID]); err != nil {
		return err
	}
	delete(th.posts, postID)
	delete(th.key, postID)
	for i, id := range th.order {
		if id == postID {
			th.order = append(th.order[:i], th.order[i+1:]...)
			break
		}
	}
	logger.Info("post_deleted", zap.String("thread", threadName), zap.String("post", postID))
	return nil
}

// React sets the caller's reaction slot on a post, overwriting any
// previous reaction with a freshly timestamped one. Not fee-gated.
func (s *Service) React(caller, threadName, postID string, reaction models.Reaction) error {
	if !reaction.Valid() {
		return fmt.Errorf("%w: unknown reaction %q", ErrInvalid, string(reaction))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	th, p, err := s.lookupPost(threadName, postID)
	if err != nil {
		return err
	}
	p.Reactions[caller] = models.AccountReaction{
		Account:   caller,
		Reaction:  reaction,
		CreatedTS: s.now(),
	}
	return s.savePost(th.key[postID], p)
}

// Unreact removes the caller's reaction slot on a post. Fails
// ErrNoReaction when no slot exists.
func (s *Service) Unreact(caller, threadName, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	th, p, err := s.lookupPost(threadName, postID)
	if err != nil {
		return err
	}
	if _, ok := p.Reactions[caller]; !ok {
		return fmt.Errorf("account %q on post %q: %w", caller, postID, ErrNoReaction)
	}
	delete(p.Reactions, caller)
	return s.savePost(th.key[postID], p)
}

func (s *Service) lookupPost(threadName, postID string) (*thread, *models.Post, error) {
	th, ok := s.threads[threadName]
	if !ok {
		return nil, nil, fmt.Errorf("thread %q: %w", threadName, ErrNotFound)
	}
	p, ok := th.posts[postID]
	if !ok {
		return nil, nil, fmt.Errorf("post %q: %w", postID, ErrNotFound)
	}
	return th, p, nil
}

// GetThreads lists thread metadata for the window, most recently created
// first.
func (s *Service) GetThreads(from, limit uint64) []models.ThreadMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.ThreadMeta{}
	reverseWindow(from, limit, uint64(len(s.threadOrder)), func(i uint64) {
		th := s.threads[s.threadOrder[i]]
		out = append(out, models.ThreadMeta{Name: th.meta.Name, Size: uint64(len(th.posts))})
	})
	return out
}

// GetThread lists posts in a thread for the window, most recently added
// first, each with its denormalized reaction list. Fails ErrNotFound
// when the thread is absent.
func (s *Service) GetThread(name string, from, limit uint64) ([]models.PostView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	th, ok := s.threads[name]
	if !ok {
		return nil, fmt.Errorf("thread %q: %w", name, ErrNotFound)
	}
	out := []models.PostView{}
	reverseWindow(from, limit, uint64(len(th.order)), func(i uint64) {
		out = append(out, th.posts[th.order[i]].View())
	})
	return out, nil
}
