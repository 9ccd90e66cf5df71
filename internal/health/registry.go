package health

import (
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	StateStarting = "starting"
	StateHealthy  = "healthy"
	StateDegraded = "degraded"
	StateStopped  = "stopped"
	StateStale    = "stale"
)

// Reporter is what long-running components use to publish their state.
type Reporter interface {
	Starting(component, message string)
	Beat(component, message string)
	Degrade(component, message string, err error)
	Stopped(component, message string)
}

type ComponentStatus struct {
	Name       string
	State      string
	Message    string
	Error      string
	LastBeatAt time.Time
	Stale      bool
}

type Snapshot struct {
	GeneratedAt time.Time
	Overall     string
	Components  []ComponentStatus
}

type record struct {
	state      string
	message    string
	lastError  string
	lastBeatAt time.Time
}

// Registry tracks the last reported state of each component. The transport
// reports from its own goroutines, so access is locked.
type Registry struct {
	mu         sync.RWMutex
	now        func() time.Time
	components map[string]record
}

func NewRegistry() *Registry {
	return &Registry{
		now:        time.Now,
		components: map[string]record{},
	}
}

func (r *Registry) Starting(component, message string) {
	r.set(component, StateStarting, message, nil, false)
}

func (r *Registry) Beat(component, message string) {
	r.set(component, StateHealthy, message, nil, true)
}

func (r *Registry) Degrade(component, message string, err error) {
	r.set(component, StateDegraded, message, err, false)
}

func (r *Registry) Stopped(component, message string) {
	r.set(component, StateStopped, message, nil, false)
}

func (r *Registry) set(component, state, message string, err error, beat bool) {
	name := strings.ToLower(strings.TrimSpace(component))
	if name == "" {
		return
	}
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.components[name]
	current.state = state
	current.message = strings.TrimSpace(message)
	current.lastError = ""
	if err != nil {
		current.lastError = err.Error()
	}
	if beat || current.lastBeatAt.IsZero() {
		current.lastBeatAt = now
	}
	r.components[name] = current
}

// Snapshot reports every component. Healthy or starting components that
// have not beaten within staleAfter are reported as stale.
func (r *Registry) Snapshot(staleAfter time.Duration) Snapshot {
	now := r.now()
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]ComponentStatus, 0, len(r.components))
	for name, current := range r.components {
		status := ComponentStatus{
			Name:       name,
			State:      current.state,
			Message:    current.message,
			Error:      current.lastError,
			LastBeatAt: current.lastBeatAt,
		}
		canGoStale := current.state == StateHealthy || current.state == StateStarting
		if staleAfter > 0 && canGoStale && now.Sub(current.lastBeatAt) > staleAfter {
			status.State = StateStale
			status.Stale = true
		}
		items = append(items, status)
	}
	sort.Slice(items, func(left, right int) bool {
		return items[left].Name < items[right].Name
	})
	return Snapshot{
		GeneratedAt: now,
		Overall:     overall(items),
		Components:  items,
	}
}

func overall(items []ComponentStatus) string {
	if len(items) == 0 {
		return "unknown"
	}
	starting := false
	active := false
	for _, item := range items {
		switch item.State {
		case StateDegraded, StateStale:
			return StateDegraded
		case StateStarting:
			starting = true
			active = true
		case StateHealthy:
			active = true
		}
	}
	if starting {
		return StateStarting
	}
	if active {
		return StateHealthy
	}
	return "idle"
}
