package scheduler

import (
	"log/slog"
	"time"

	"github.com/dwizi/presence/internal/health"
	"github.com/dwizi/presence/internal/presence"
	"github.com/dwizi/presence/internal/widget"
)

const (
	componentName = "scheduler"

	// Interval is the fixed tick period.
	Interval = 1000 * time.Millisecond

	defaultRefreshDelay = 2000 * time.Millisecond
)

// RefreshRequest asks the owner to call RefreshFired with End once Delay
// has passed.
type RefreshRequest struct {
	End   int64
	Delay time.Duration
}

type Result struct {
	Refresh *RefreshRequest
}

// Scheduler recomputes time-derived fields from the cache on every tick and
// schedules one refresh after a timed media item ends.
type Scheduler struct {
	cache        *presence.Cache
	renderer     *widget.Renderer
	refreshDelay time.Duration
	logger       *slog.Logger
	reporter     health.Reporter
}

func New(cache *presence.Cache, renderer *widget.Renderer, refreshDelay time.Duration, logger *slog.Logger) *Scheduler {
	if refreshDelay <= 0 {
		refreshDelay = defaultRefreshDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cache:        cache,
		renderer:     renderer,
		refreshDelay: refreshDelay,
		logger:       logger.With("component", componentName),
	}
}

func (s *Scheduler) SetHealthReporter(reporter health.Reporter) {
	s.reporter = reporter
	if reporter != nil {
		reporter.Starting(componentName, "waiting for first tick")
	}
}

func (s *Scheduler) Tick(now time.Time) Result {
	if s.reporter != nil {
		s.reporter.Beat(componentName, "tick")
	}
	primary, ok := s.cache.Snapshot().Primary()
	if !ok {
		return Result{}
	}
	s.renderer.RepaintPrimary(primary, now)

	var result Result
	if presence.IsMedia(primary) && now.UnixMilli() >= primary.End() {
		if s.cache.MarkScheduled(primary.End()) {
			s.logger.Debug("activity ended, refresh scheduled", "end", primary.End(), "delay", s.refreshDelay.String())
			result.Refresh = &RefreshRequest{End: primary.End(), Delay: s.refreshDelay}
		}
	}

	if s.renderer.ExtrasOpen() {
		s.renderer.RepaintExtras(now)
	}
	return result
}

// RefreshFired reports whether a refresh scheduled for end should still run
// and clears the marker when it does. A snapshot replacement in the
// meantime cancels it.
func (s *Scheduler) RefreshFired(end int64) bool {
	scheduled, ok := s.cache.ScheduledEnd()
	if !ok || scheduled != end {
		return false
	}
	s.cache.ClearScheduled()
	return true
}
