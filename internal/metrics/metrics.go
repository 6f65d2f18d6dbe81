// Package metrics records page views for the analytics collaborator.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UnknownTitle is reported when a navigation has no route name.
const UnknownTitle = "unknown"

// PageView is the payload of one tracking call.
type PageView struct {
	Page  string `json:"page"`
	Title string `json:"title"`
}

// Tracker receives page views after the page has rendered.
type Tracker interface {
	TrackPage(ctx context.Context, pv PageView) error
}

// LogTracker emits each page view as a structured log event.
type LogTracker struct {
	log zerolog.Logger
	now func() time.Time
}

func NewLogTracker(log zerolog.Logger) *LogTracker {
	return &LogTracker{log: log.With().Str("component", "metrics").Logger(), now: time.Now}
}

func (t *LogTracker) TrackPage(_ context.Context, pv PageView) error {
	t.log.Info().
		Str("event_id", uuid.NewString()).
		Str("page", pv.Page).
		Str("title", pv.Title).
		Time("at", t.now()).
		Msg("page view")
	return nil
}

// MemoryTracker keeps page views in memory.
type MemoryTracker struct {
	mu    sync.Mutex
	views []PageView
}

func (t *MemoryTracker) TrackPage(_ context.Context, pv PageView) error {
	t.mu.Lock()
	t.views = append(t.views, pv)
	t.mu.Unlock()
	return nil
}

// Views returns a copy of the recorded page views.
func (t *MemoryTracker) Views() []PageView {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]PageView, len(t.views))
	copy(out, t.views)
	return out
}
