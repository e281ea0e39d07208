// Package store provides the persisted reason collections and their backends.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rcliao/nah-machine/internal/logger"
	"github.com/rcliao/nah-machine/internal/model"
)

// DefaultKey is the storage key the whole state is checkpointed under.
const DefaultKey = "nah-machine-storage"

// Store owns the session state and the liked, saved and recent collections.
// Every mutation is applied atomically and followed by a checkpoint of the
// full state. Mutations never fail; checkpoint errors are logged.
type Store struct {
	mu        sync.Mutex
	state     model.State
	lastStamp int64

	backend     Backend
	key         string
	log         *logger.Logger
	now         func() time.Time
	saveTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for checkpoint failures.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open loads the checkpoint under the store key from backend, or starts empty.
// Only a failing backend is an error; a missing or unreadable checkpoint is not.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend:     backend,
		key:         DefaultKey,
		log:         logger.Nop(),
		now:         time.Now,
		saveTimeout: 5 * time.Second,
		state:       emptyState(),
	}
	for _, opt := range opts {
		opt(s)
	}

	blob, err := backend.Load(ctx, s.key)
	switch {
	case errors.Is(err, ErrNotFound):
		return s, nil
	case err != nil:
		return nil, err
	}

	st, err := Unmarshal(blob)
	if err != nil {
		s.log.Warn("discarding unreadable checkpoint", "key", s.key, "error", err)
		return s, nil
	}
	// A request in flight when the process stopped will never finish.
	st.IsLoading = false
	s.state = normalize(st)
	s.trackStamps()
	return s, nil
}

// Key returns the storage key.
func (s *Store) Key() string { return s.key }

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.state)
}

// SetCurrentReason replaces the displayed reason.
func (s *Store) SetCurrentReason(text string) model.State {
	return s.update(func(st *model.State) {
		st.CurrentReason = text
	})
}

// SetLoading replaces the loading flag.
func (s *Store) SetLoading(loading bool) model.State {
	return s.update(func(st *model.State) {
		st.IsLoading = loading
	})
}

// AddToLiked prepends text to the liked collection unless empty or already present.
func (s *Store) AddToLiked(text string) model.State {
	return s.update(func(st *model.State) {
		st.Liked = s.addUnique(st.Liked, text)
	})
}

// RemoveFromLiked drops text from the liked collection. Absent text is a no-op.
func (s *Store) RemoveFromLiked(text string) model.State {
	return s.update(func(st *model.State) {
		st.Liked = without(st.Liked, text)
	})
}

// AddToSaved prepends text to the saved collection unless empty or already present.
func (s *Store) AddToSaved(text string) model.State {
	return s.update(func(st *model.State) {
		st.Saved = s.addUnique(st.Saved, text)
	})
}

// RemoveFromSaved drops text from the saved collection. Absent text is a no-op.
func (s *Store) RemoveFromSaved(text string) model.State {
	return s.update(func(st *model.State) {
		st.Saved = without(st.Saved, text)
	})
}

// AddToRecent moves text to the front of the recent collection, keeping at
// most model.MaxRecent records.
func (s *Store) AddToRecent(text string) model.State {
	return s.update(func(st *model.State) {
		if text == "" {
			return
		}
		next := make([]model.Reason, 0, model.MaxRecent)
		next = append(next, s.record(text))
		for _, r := range st.Recent {
			if len(next) == model.MaxRecent {
				break
			}
			if r.Text != text {
				next = append(next, r)
			}
		}
		st.Recent = next
	})
}

// ClearRecent empties the recent collection.
func (s *Store) ClearRecent() model.State {
	return s.update(func(st *model.State) {
		st.Recent = []model.Reason{}
	})
}

// Restore replaces the whole state, dropping duplicate texts and trimming
// recent to its cap.
func (s *Store) Restore(st model.State) model.State {
	return s.update(func(cur *model.State) {
		*cur = normalize(clone(st))
		s.trackStamps()
	})
}

// IsLiked reports whether text is in the liked collection.
func (s *Store) IsLiked(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Contains(s.state.Liked, text)
}

// IsSaved reports whether text is in the saved collection.
func (s *Store) IsSaved(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Contains(s.state.Saved, text)
}

// FavoriteTexts returns the liked texts followed by saved texts not already liked.
func (s *Store) FavoriteTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(s.state.Liked)+len(s.state.Saved))
	out := make([]string, 0, len(s.state.Liked)+len(s.state.Saved))
	for _, list := range [][]model.Reason{s.state.Liked, s.state.Saved} {
		for _, r := range list {
			if !seen[r.Text] {
				seen[r.Text] = true
				out = append(out, r.Text)
			}
		}
	}
	return out
}

func (s *Store) update(fn func(st *model.State)) model.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
	s.checkpoint()
	return clone(s.state)
}

// checkpoint writes the full state. Called with s.mu held so writes land in
// mutation order.
func (s *Store) checkpoint() {
	blob, err := Marshal(s.state)
	if err != nil {
		s.log.Error("encode checkpoint", "key", s.key, "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()
	if err := s.backend.Save(ctx, s.key, blob); err != nil {
		s.log.Error("save checkpoint", "key", s.key, "error", err)
	}
}

// trackStamps raises lastStamp to the newest timestamp held in state.
func (s *Store) trackStamps() {
	for _, list := range [][]model.Reason{s.state.Liked, s.state.Saved, s.state.Recent} {
		for _, r := range list {
			if r.Timestamp > s.lastStamp {
				s.lastStamp = r.Timestamp
			}
		}
	}
}

func (s *Store) record(text string) model.Reason {
	ts := s.now().UnixMilli()
	if ts < s.lastStamp {
		ts = s.lastStamp
	}
	s.lastStamp = ts
	return model.Reason{Text: text, Timestamp: ts}
}

// addUnique prepends a record for text. Empty and already present texts are ignored.
func (s *Store) addUnique(list []model.Reason, text string) []model.Reason {
	if text == "" || model.Contains(list, text) {
		return list
	}
	next := make([]model.Reason, 0, len(list)+1)
	next = append(next, s.record(text))
	return append(next, list...)
}

func without(list []model.Reason, text string) []model.Reason {
	next := make([]model.Reason, 0, len(list))
	for _, r := range list {
		if r.Text != text {
			next = append(next, r)
		}
	}
	return next
}

func emptyState() model.State {
	return model.State{
		Liked:  []model.Reason{},
		Saved:  []model.Reason{},
		Recent: []model.Reason{},
	}
}

func clone(st model.State) model.State {
	st.Liked = append([]model.Reason{}, st.Liked...)
	st.Saved = append([]model.Reason{}, st.Saved...)
	st.Recent = append([]model.Reason{}, st.Recent...)
	return st
}

func normalize(st model.State) model.State {
	st.Liked = dedupe(st.Liked, 0)
	st.Saved = dedupe(st.Saved, 0)
	st.Recent = dedupe(st.Recent, model.MaxRecent)
	return st
}

// dedupe keeps the first record per text, stopping at limit when limit > 0.
func dedupe(list []model.Reason, limit int) []model.Reason {
	seen := make(map[string]bool, len(list))
	out := make([]model.Reason, 0, len(list))
	for _, r := range list {
		if r.Text == "" || seen[r.Text] {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		seen[r.Text] = true
		out = append(out, r)
	}
	return out
}
