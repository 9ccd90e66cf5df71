package presence

import (
	"math"
	"time"

	"github.com/dwizi/presence/internal/timefmt"
)

const unknownActivityName = "Unknown"

// Progress is the time-derived state of a media item's progress bar.
type Progress struct {
	Percent int
	Current string
	Total   string
}

// View is the render-ready form of one activity.
type View struct {
	Name        string
	Description string
	Media       bool
	// Elapsed is "for <duration>" for non-media activities with a start
	// timestamp, empty otherwise.
	Elapsed  string
	Progress *Progress
	Start    int64
	End      int64
}

// Model is a normalized snapshot: the primary view and one view per
// secondary activity.
type Model struct {
	Empty   bool
	Primary View
	Extras  []View
}

// Normalize derives the render model for a snapshot at the given instant.
func Normalize(snapshot Snapshot, now time.Time) Model {
	primary, ok := snapshot.Primary()
	if !ok {
		return Model{Empty: true}
	}
	model := Model{Primary: viewOf(primary, now)}
	for _, activity := range snapshot.Secondary() {
		view := viewOf(activity, now)
		if view.Name == "" {
			view.Name = unknownActivityName
		}
		model.Extras = append(model.Extras, view)
	}
	return model
}

func viewOf(activity Activity, now time.Time) View {
	view := View{
		Name:        activity.Name,
		Description: Describe(activity),
		Media:       IsMedia(activity),
		Start:       activity.Start(),
		End:         activity.End(),
	}
	view.Elapsed = ElapsedLabel(activity, now)
	if view.Media {
		progress := ProgressOf(view.Start, view.End, now)
		view.Progress = &progress
	}
	return view
}

// ElapsedLabel is the plain elapsed-time text for an activity. Media items
// and activities without a start get an empty label.
func ElapsedLabel(activity Activity, now time.Time) string {
	if IsMedia(activity) || !activity.HasStart() {
		return ""
	}
	return ElapsedSince(activity.Start(), now)
}

// ElapsedSince formats the time since an epoch-ms start as "for <duration>".
func ElapsedSince(start int64, now time.Time) string {
	return "for " + timefmt.Elapsed(timefmt.EpochMillis(now)-start)
}

// ProgressOf computes the bar fill and labels for a [start, end] window.
// The percentage is always within [0, 100], also before start and after
// end. A window with no length counts as finished once now reaches end.
func ProgressOf(start, end int64, now time.Time) Progress {
	nowMS := timefmt.EpochMillis(now)
	total := end - start
	var percent int
	if total <= 0 {
		if nowMS >= end {
			percent = 100
		}
	} else {
		ratio := float64(nowMS-start) / float64(total)
		percent = clampPercent(int(math.Round(ratio * 100)))
	}
	return Progress{
		Percent: percent,
		Current: timefmt.Clock(nowMS - start),
		Total:   timefmt.Clock(total),
	}
}

func clampPercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
