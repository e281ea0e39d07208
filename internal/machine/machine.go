// Package machine wires the reason gateway to the collection store: it runs
// the refresh/generate/toggle flows a front end triggers.
package machine

import (
	"context"
	"sync"

	"github.com/rcliao/nah-machine/internal/gateway"
	"github.com/rcliao/nah-machine/internal/logger"
	"github.com/rcliao/nah-machine/internal/model"
	"github.com/rcliao/nah-machine/internal/store"
)

// Outcome is the result of a refresh or generate request.
type Outcome struct {
	Text    string      `json:"text"`
	Applied bool        `json:"applied"`
	State   model.State `json:"state"`
}

// Machine serialises reason acquisition against a store. Overlapping
// requests are allowed; only the newest one may change the current reason.
type Machine struct {
	store *store.Store
	gw    *gateway.Gateway
	log   *logger.Logger

	mu     sync.Mutex
	latest uint64
}

// New creates a machine over s and gw.
func New(s *store.Store, gw *gateway.Gateway, log *logger.Logger) *Machine {
	if log == nil {
		log = logger.Nop()
	}
	return &Machine{store: s, gw: gw, log: log.With("service", "machine")}
}

// Store returns the underlying store.
func (m *Machine) Store() *store.Store { return m.store }

// Gateway returns the underlying gateway.
func (m *Machine) Gateway() *gateway.Gateway { return m.gw }

// Refresh fetches a new reason, makes it current and records it in recent.
func (m *Machine) Refresh(ctx context.Context) Outcome {
	return m.acquire(ctx, m.gw.FetchReason)
}

// Generate asks for a reason in the style of the liked and saved reasons.
// With no favorites it returns the instructive message and leaves state alone.
func (m *Machine) Generate(ctx context.Context) Outcome {
	favorites := m.store.FavoriteTexts()
	if len(favorites) == 0 {
		return Outcome{Text: gateway.MsgNeedFavorites, State: m.store.Snapshot()}
	}
	return m.acquire(ctx, func(ctx context.Context) string {
		return m.gw.GenerateSimilarReason(ctx, favorites)
	})
}

func (m *Machine) acquire(ctx context.Context, fetch func(context.Context) string) Outcome {
	m.mu.Lock()
	m.latest++
	id := m.latest
	m.store.SetLoading(true)
	m.mu.Unlock()

	text := fetch(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if id != m.latest {
		m.log.Debug("dropping stale reason", "request", id, "latest", m.latest)
		return Outcome{Text: text, State: m.store.Snapshot()}
	}
	if ctx.Err() != nil {
		m.log.Debug("request cancelled", "request", id, "error", ctx.Err())
		return Outcome{Text: text, State: m.store.SetLoading(false)}
	}

	m.store.SetCurrentReason(text)
	m.store.AddToRecent(text)
	return Outcome{Text: text, Applied: true, State: m.store.SetLoading(false)}
}

// ToggleLike likes the current reason, or unlikes it if already liked.
// liked reports the resulting membership; it is false when nothing is current.
func (m *Machine) ToggleLike() (st model.State, liked bool) {
	cur := m.store.Snapshot().CurrentReason
	if cur == "" {
		return m.store.Snapshot(), false
	}
	if m.store.IsLiked(cur) {
		return m.store.RemoveFromLiked(cur), false
	}
	return m.store.AddToLiked(cur), true
}

// ToggleSave saves the current reason, or unsaves it if already saved.
func (m *Machine) ToggleSave() (st model.State, saved bool) {
	cur := m.store.Snapshot().CurrentReason
	if cur == "" {
		return m.store.Snapshot(), false
	}
	if m.store.IsSaved(cur) {
		return m.store.RemoveFromSaved(cur), false
	}
	return m.store.AddToSaved(cur), true
}

// CanGenerate reports whether Generate would reach the generator.
func (m *Machine) CanGenerate() bool {
	return m.gw.CanGenerate() && len(m.store.FavoriteTexts()) > 0
}
