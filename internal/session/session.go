package session

import (
	"log/slog"
	"time"

	"github.com/dwizi/presence/internal/health"
	"github.com/dwizi/presence/internal/lanyard"
	"github.com/dwizi/presence/internal/presence"
	"github.com/dwizi/presence/internal/scheduler"
	"github.com/dwizi/presence/internal/widget"
)

const defaultBlankDelay = 2000 * time.Millisecond

type Options struct {
	TickInterval time.Duration
	RefreshDelay time.Duration
	BlankDelay   time.Duration
}

// BlankRequest asks the owner to call BlankDue with Generation after Delay.
type BlankRequest struct {
	Generation uint64
	Delay      time.Duration
}

// Effect is the follow-up work an event asks the owning loop to schedule.
type Effect struct {
	Blank *BlankRequest
}

// Session is the presence state for one widget: the cached snapshot, the
// rendered frame and the tick scheduler. Exactly one goroutine drives it.
type Session struct {
	cache        *presence.Cache
	renderer     *widget.Renderer
	scheduler    *scheduler.Scheduler
	tickInterval time.Duration
	blankDelay   time.Duration
	logger       *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = scheduler.Interval
	}
	if opts.BlankDelay <= 0 {
		opts.BlankDelay = defaultBlankDelay
	}
	cache := presence.NewCache()
	renderer := widget.NewRenderer()
	return &Session{
		cache:        cache,
		renderer:     renderer,
		scheduler:    scheduler.New(cache, renderer, opts.RefreshDelay, logger),
		tickInterval: opts.TickInterval,
		blankDelay:   opts.BlankDelay,
		logger:       logger.With("component", "session"),
	}
}

func (s *Session) SetHealthReporter(reporter health.Reporter) {
	s.scheduler.SetHealthReporter(reporter)
}

func (s *Session) TickInterval() time.Duration {
	return s.tickInterval
}

// Handle applies one transport event. A presence replacement is fully
// rendered before Handle returns, so the next tick always reads a cache
// that matches the frame.
func (s *Session) Handle(event lanyard.Event, now time.Time) Effect {
	switch typed := event.(type) {
	case lanyard.PresenceEvent:
		s.cache.Replace(typed.Snapshot)
		s.renderer.HideLoading()
		s.renderer.Render(s.cache.Snapshot(), now)
		s.logger.Debug("presence replaced", "source", string(typed.Source), "activities", len(typed.Snapshot.Activities))
	case lanyard.StatusEvent:
		if typed.Show {
			s.renderer.ShowLoading(typed.Text)
		} else {
			s.renderer.SetLoadingText(typed.Text)
		}
	case lanyard.FailureEvent:
		s.logger.Warn("presence unavailable", "error", typed.Err)
		s.renderer.ShowLoading(lanyard.TextPollFailed)
		return Effect{Blank: &BlankRequest{Generation: s.cache.Generation(), Delay: s.blankDelay}}
	}
	return Effect{}
}

func (s *Session) Tick(now time.Time) scheduler.Result {
	return s.scheduler.Tick(now)
}

// RefreshDue reports whether the refresh scheduled for end should run now.
func (s *Session) RefreshDue(end int64) bool {
	return s.scheduler.RefreshFired(end)
}

// BlankDue blanks the widget after a failed poll unless fresh presence
// arrived since the failure.
func (s *Session) BlankDue(generation uint64) bool {
	if s.cache.Generation() != generation {
		return false
	}
	s.renderer.Blank()
	return true
}

func (s *Session) Toggle() bool {
	return s.renderer.Toggle()
}

func (s *Session) Frame() widget.Frame {
	return s.renderer.Frame()
}

func (s *Session) Snapshot() presence.Snapshot {
	return s.cache.Snapshot()
}
