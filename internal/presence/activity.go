package presence

import "strings"

const mediaMarker = "spotify"

// Timestamps holds Unix epoch milliseconds. Zero means the upstream record
// did not carry the field.
type Timestamps struct {
	Start int64 `json:"start,omitempty"`
	End   int64 `json:"end,omitempty"`
}

// Activity is one action reported for the tracked subject. Records are
// replaced wholesale on every update and never edited in place.
type Activity struct {
	Name       string      `json:"name,omitempty"`
	Details    string      `json:"details,omitempty"`
	State      string      `json:"state,omitempty"`
	Timestamps *Timestamps `json:"timestamps,omitempty"`
}

// Snapshot is the ordered activity list for the subject. Position 0 is the
// primary activity; the upstream order is kept as-is.
type Snapshot struct {
	Activities []Activity `json:"activities"`
}

func (s Snapshot) Empty() bool {
	return len(s.Activities) == 0
}

// Primary returns the first activity, if any.
func (s Snapshot) Primary() (Activity, bool) {
	if len(s.Activities) == 0 {
		return Activity{}, false
	}
	return s.Activities[0], true
}

// Secondary returns every activity after the primary one.
func (s Snapshot) Secondary() []Activity {
	if len(s.Activities) < 2 {
		return nil
	}
	return s.Activities[1:]
}

func (a Activity) Start() int64 {
	if a.Timestamps == nil {
		return 0
	}
	return a.Timestamps.Start
}

func (a Activity) End() int64 {
	if a.Timestamps == nil {
		return 0
	}
	return a.Timestamps.End
}

func (a Activity) HasStart() bool {
	return a.Start() > 0
}

// IsMedia reports whether the activity is a timed media item: a "spotify"
// activity with both ends of its time window known. Media items show a
// progress bar instead of an elapsed label.
func IsMedia(a Activity) bool {
	if !strings.Contains(strings.ToLower(a.Name), mediaMarker) {
		return false
	}
	return a.Start() > 0 && a.End() > 0
}

// Describe joins details and state with a bullet, skipping empty parts.
func Describe(a Activity) string {
	parts := make([]string, 0, 2)
	if a.Details != "" {
		parts = append(parts, a.Details)
	}
	if a.State != "" {
		parts = append(parts, a.State)
	}
	return strings.Join(parts, " • ")
}
