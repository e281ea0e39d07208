package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/nah-machine/internal/model"
)

// Stats holds collection counts for the store.
type Stats struct {
	Key           string         `json:"key"`
	Collections   map[string]int `json:"collections"`
	HasCurrent    bool           `json:"has_current"`
	CheckpointAt  *time.Time     `json:"checkpoint_at,omitempty"`
	CheckpointLen int            `json:"checkpoint_bytes"`
}

// Stats returns collection counts and, where the backend can tell, when the
// last checkpoint was written.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	snap := s.Snapshot()
	st := &Stats{
		Key:         s.key,
		HasCurrent:  snap.CurrentReason != "",
		Collections: make(map[string]int, len(model.Collections)),
	}
	for _, c := range model.Collections {
		st.Collections[string(c)] = len(snap.Items(c))
	}

	blob, err := s.backend.Load(ctx, s.key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return st, err
	}
	st.CheckpointLen = len(blob)

	if b, ok := s.backend.(*SQLiteBackend); ok {
		if t, err := b.UpdatedAt(ctx, s.key); err == nil {
			st.CheckpointAt = &t
		}
	}
	return st, nil
}
