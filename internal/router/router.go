package router

import (
	"context"

	"github.com/KaramelBytes/preprints/internal/metrics"
	"github.com/KaramelBytes/preprints/internal/runloop"
	"github.com/rs/zerolog"
)

const trackPageKey = "router.trackPage"

// Transition describes a completed navigation.
type Transition struct {
	Pathname  string
	RouteName string
}

// Router pairs the installed table with page-view tracking.
type Router struct {
	table   *Table
	tracker metrics.Tracker
	log     zerolog.Logger
}

func New(table *Table, tracker metrics.Tracker, log zerolog.Logger) *Router {
	return &Router{table: table, tracker: tracker, log: log}
}

func (r *Router) Table() *Table { return r.table }

// DidTransition schedules the tracking call on the render pass's after-render
// queue. Repeated transitions within one pass collapse into a single call
// carrying the latest transition.
func (r *Router) DidTransition(ctx context.Context, q *runloop.Queue, t Transition) {
	q.ScheduleOnce(trackPageKey, func() {
		r.trackPage(ctx, t)
	})
}

func (r *Router) trackPage(ctx context.Context, t Transition) {
	if r.tracker == nil {
		return
	}
	title := t.RouteName
	if title == "" {
		title = metrics.UnknownTitle
	}
	pv := metrics.PageView{Page: t.Pathname, Title: title}
	if err := r.tracker.TrackPage(ctx, pv); err != nil {
		r.log.Warn().Err(err).Str("page", pv.Page).Msg("track page failed")
	}
}
