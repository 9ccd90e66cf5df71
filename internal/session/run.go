package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dwizi/presence/internal/lanyard"
	"github.com/dwizi/presence/internal/widget"
)

// Transport is the presence source a session runs against.
type Transport interface {
	Start(ctx context.Context) error
	Refresh(ctx context.Context)
}

// Inbox is a lanyard.Sink that hands events to the session loop. Emit
// never blocks once the inbox is closed.
type Inbox struct {
	events chan lanyard.Event
	done   chan struct{}
	once   sync.Once
}

func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = 64
	}
	return &Inbox{
		events: make(chan lanyard.Event, size),
		done:   make(chan struct{}),
	}
}

func (i *Inbox) Emit(event lanyard.Event) {
	select {
	case i.events <- event:
	case <-i.done:
	}
}

func (i *Inbox) Events() <-chan lanyard.Event {
	return i.events
}

func (i *Inbox) Close() {
	i.once.Do(func() { close(i.done) })
}

type timerKind int

const (
	timerRefresh timerKind = iota
	timerBlank
)

type timerFired struct {
	kind       timerKind
	end        int64
	generation uint64
}

// Run drives the session headlessly until ctx is done: the transport runs
// on its own goroutines and everything else happens on this loop. onFrame
// is called with the frame after every change.
func (s *Session) Run(ctx context.Context, transport Transport, inbox *Inbox, onFrame func(widget.Frame)) error {
	if onFrame == nil {
		onFrame = func(widget.Frame) {}
	}
	group, groupCtx := errgroup.WithContext(ctx)
	defer inbox.Close()

	group.Go(func() error {
		return transport.Start(groupCtx)
	})
	group.Go(func() error {
		return s.loop(groupCtx, transport, inbox, onFrame)
	})
	return group.Wait()
}

func (s *Session) loop(ctx context.Context, transport Transport, inbox *Inbox, onFrame func(widget.Frame)) error {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	timers := make(chan timerFired, 8)
	var refreshes sync.WaitGroup
	defer func() {
		inbox.Close()
		refreshes.Wait()
	}()

	after := func(delay time.Duration, fired timerFired) {
		time.AfterFunc(delay, func() {
			select {
			case timers <- fired:
			case <-ctx.Done():
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-inbox.Events():
			effect := s.Handle(event, time.Now())
			if effect.Blank != nil {
				after(effect.Blank.Delay, timerFired{kind: timerBlank, generation: effect.Blank.Generation})
			}
			onFrame(s.Frame())
		case now := <-ticker.C:
			result := s.Tick(now)
			if result.Refresh != nil {
				after(result.Refresh.Delay, timerFired{kind: timerRefresh, end: result.Refresh.End})
			}
			onFrame(s.Frame())
		case fired := <-timers:
			switch fired.kind {
			case timerRefresh:
				if s.RefreshDue(fired.end) {
					s.logger.Info("activity ended, refreshing presence", "end", fired.end)
					refreshes.Add(1)
					go func() {
						defer refreshes.Done()
						transport.Refresh(ctx)
					}()
				}
			case timerBlank:
				if s.BlankDue(fired.generation) {
					onFrame(s.Frame())
				}
			}
		}
	}
}
