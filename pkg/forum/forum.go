// Package forum is the state-management core: named threads of posts
// with per-post reactions, plus the people graph of pending friend
// requests and confirmed friendships. Every mutating operation is gated
// by the caller's attached deposit where a fee applies, and all state is
// written through to the store so a restart reloads it in insertion
// order.
package forum

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"agoradb/pkg/ledger"
	"agoradb/pkg/models"
	"agoradb/pkg/store"
)

const (
	personPrefix = "person:"
	threadPrefix = "thread:"
	feesKey      = "state:fees"
)

// thread is the in-memory shape of one named thread: metadata plus its
// posts in insertion order.
type thread struct {
	meta  models.ThreadRecord
	posts map[string]*models.Post
	order []string
	// key maps post id -> store key so reaction writes hit the same slot
	key map[string]string
}

// Options configures a Service.
type Options struct {
	// Operator is the single privileged account allowed to change fees
	// and delete threads/posts.
	Operator string
	// DefaultFees seeds the fee schedule when the store holds none.
	DefaultFees models.Fees
	// Ledger issues refunds for underpaid operations.
	Ledger ledger.Ledger
	// Now returns the current timestamp in unix nanoseconds. Defaults to
	// the wall clock; tests inject a fixed clock.
	Now func() int64
}

// Service owns the operator identity, the fee schedule and the forum
// state, and exposes every operation of the protocol. A single lock
// serializes mutations; friendship symmetry, the one-reaction-slot rule
// and fee-then-mutate atomicity all assume operations run one at a time.
type Service struct {
	mu sync.RWMutex

	operator string
	fees     models.Fees
	ledger   ledger.Ledger
	now      func() int64

	seq uint64

	people      map[string]*models.Person
	peopleOrder []string

	threads     map[string]*thread
	threadOrder []string
}

// New builds a Service over the opened store, loading any persisted
// state. The store must be open before calling New.
func New(opts Options) (*Service, error) {
	if opts.Operator == "" {
		return nil, fmt.Errorf("operator account is required")
	}
	if opts.Ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	now := opts.Now
	if now == nil {
		now = func() int64 { return time.Now().UTC().UnixNano() }
	}
	s := &Service{
		operator: opts.Operator,
		ledger:   opts.Ledger,
		now:      now,
		people:   map[string]*models.Person{},
		threads:  map[string]*thread{},
	}
	if err := s.load(opts.DefaultFees); err != nil {
		return nil, err
	}
	return s, nil
}

// Operator returns the privileged account.
func (s *Service) Operator() string { return s.operator }

// Stats reports entity counts for the stats sweeper.
func (s *Service) Stats() (people, threads, posts uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	people = uint64(len(s.people))
	threads = uint64(len(s.threads))
	for _, th := range s.threads {
		posts += uint64(len(th.posts))
	}
	return people, threads, posts
}

// load rebuilds the in-memory state from the store.
func (s *Service) load(defaults models.Fees) error {
	// fee schedule
	if b, err := store.Get(feesKey); err == nil {
		if err := json.Unmarshal(b, &s.fees); err != nil {
			return fmt.Errorf("invalid stored fees: %w", err)
		}
	} else if err == store.ErrKeyNotFound {
		s.fees = defaults
		if err := s.saveFees(); err != nil {
			return err
		}
	} else {
		return err
	}

	// people
	err := store.ScanPrefix(personPrefix, func(key string, val []byte) error {
		var p models.Person
		if err := json.Unmarshal(val, &p); err != nil {
			return fmt.Errorf("invalid person record at %s: %w", key, err)
		}
		s.people[p.Account] = &p
		s.peopleOrder = append(s.peopleOrder, p.Account)
		if p.Seq >= s.seq {
			s.seq = p.Seq + 1
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Slice(s.peopleOrder, func(i, j int) bool {
		return s.people[s.peopleOrder[i]].Seq < s.people[s.peopleOrder[j]].Seq
	})

	// threads and posts; post keys sort after the thread's meta key so a
	// single prefix scan sees each thread's metadata before its posts
	err = store.ScanPrefix(threadPrefix, func(key string, val []byte) error {
		rest := strings.TrimPrefix(key, threadPrefix)
		switch {
		case strings.HasSuffix(rest, ":meta"):
			var rec models.ThreadRecord
			if err := json.Unmarshal(val, &rec); err != nil {
				return fmt.Errorf("invalid thread record at %s: %w", key, err)
			}
			s.threads[rec.Name] = &thread{
				meta:  rec,
				posts: map[string]*models.Post{},
				key:   map[string]string{},
			}
			if rec.Seq >= s.seq {
				s.seq = rec.Seq + 1
			}
		case strings.Contains(rest, ":post:"):
			idx := strings.Index(rest, ":post:")
			name := rest[:idx]
			th := s.threads[name]
			if th == nil {
				// orphaned post key; tolerate and skip
				return nil
			}
			var p models.Post
			if err := json.Unmarshal(val, &p); err != nil {
				return fmt.Errorf("invalid post record at %s: %w", key, err)
			}
			th.posts[p.ID] = &p
			th.order = append(th.order, p.ID)
			th.key[p.ID] = key
			// fold the key's sequence component back into the counter so
			// new post keys never collide with persisted ones
			if n, err := strconv.ParseUint(rest[idx+len(":post:"):], 10, 64); err == nil && n >= s.seq {
				s.seq = n + 1
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for name := range s.threads {
		s.threadOrder = append(s.threadOrder, name)
	}
	sort.Slice(s.threadOrder, func(i, j int) bool {
		return s.threads[s.threadOrder[i]].meta.Seq < s.threads[s.threadOrder[j]].meta.Seq
	})
	return nil
}

// nextSeq returns the next insertion sequence number. Callers hold the
// write lock.
func (s *Service) nextSeq() uint64 {
	v := s.seq
	s.seq++
	return v
}

func (s *Service) saveFees() error {
	b, err := json.Marshal(s.fees)
	if err != nil {
		return fmt.Errorf("failed to marshal fees: %w", err)
	}
	return store.Set(feesKey, b)
}

func (s *Service) savePerson(p *models.Person) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal person: %w", err)
	}
	return store.Set(personPrefix+p.Account, b)
}

func (s *Service) saveThreadMeta(rec models.ThreadRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal thread: %w", err)
	}
	return store.Set(threadPrefix+rec.Name+":meta", b)
}

func (s *Service) savePost(key string, p *models.Post) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}
	return store.Set(key, b)
}
