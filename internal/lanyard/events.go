package lanyard

import (
	"time"

	"github.com/dwizi/presence/internal/presence"
)

type Source string

const (
	SourceStream Source = "stream"
	SourcePoll   Source = "poll"
)

// Event is everything the transport tells the rest of the widget.
type Event interface {
	isEvent()
}

// PresenceEvent carries a full snapshot replacement from either transport.
type PresenceEvent struct {
	Source     Source
	Snapshot   presence.Snapshot
	ReceivedAt time.Time
}

// StatusEvent updates the loading indicator. Show also brings the indicator
// up (hiding the activity); otherwise only its text changes.
type StatusEvent struct {
	Show bool
	Text string
}

// FailureEvent reports a failed poll.
type FailureEvent struct {
	Err error
}

func (PresenceEvent) isEvent() {}
func (StatusEvent) isEvent()   {}
func (FailureEvent) isEvent()  {}

type Sink interface {
	Emit(Event)
}

type SinkFunc func(Event)

func (f SinkFunc) Emit(event Event) {
	f(event)
}

const (
	TextConnecting = "connecting..."
	TextRetrieving = "retrieving activity data..."
	TextReconnect  = "reconnecting..."
	TextPolling    = "loading activity data..."
	TextPollFailed = "failed to load activity data"
)
