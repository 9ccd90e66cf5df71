package health

import (
	"context"
	"log/slog"
	"time"
)

type Transition struct {
	Component string
	From      string
	To        string
	Message   string
	Error     string
}

// Monitor polls a registry and logs every state change it observes, so
// reconnect storms and stalled ticks are visible in the log.
type Monitor struct {
	registry   *Registry
	interval   time.Duration
	staleAfter time.Duration
	logger     *slog.Logger
	onChange   func(Transition)
}

func NewMonitor(registry *Registry, interval, staleAfter time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		registry:   registry,
		interval:   interval,
		staleAfter: staleAfter,
		logger:     logger,
	}
}

// OnTransition registers a callback invoked for every observed change.
func (m *Monitor) OnTransition(fn func(Transition)) {
	m.onChange = fn
}

func (m *Monitor) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	m.logger.Info("health monitor started", "interval", m.interval.String(), "stale_after", m.staleAfter.String())

	previous := map[string]string{}
	for {
		m.evaluate(m.registry.Snapshot(m.staleAfter), previous)
		select {
		case <-ctx.Done():
			m.logger.Info("health monitor stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (m *Monitor) evaluate(snapshot Snapshot, previous map[string]string) {
	for _, item := range snapshot.Components {
		before, seen := previous[item.Name]
		previous[item.Name] = item.State
		if !seen || before == item.State {
			continue
		}
		transition := Transition{
			Component: item.Name,
			From:      before,
			To:        item.State,
			Message:   item.Message,
			Error:     item.Error,
		}
		level := slog.LevelInfo
		if item.State == StateDegraded || item.State == StateStale {
			level = slog.LevelWarn
		}
		m.logger.Log(context.Background(), level, "component state changed",
			"component", transition.Component,
			"from", transition.From,
			"to", transition.To,
			"message", transition.Message,
			"error", transition.Error,
		)
		if m.onChange != nil {
			m.onChange(transition)
		}
	}
}
