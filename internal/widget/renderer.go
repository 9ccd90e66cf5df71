package widget

import (
	"fmt"
	"time"

	"github.com/dwizi/presence/internal/presence"
)

const labelHide = "- hide activities"

func labelMore(count int) string {
	return fmt.Sprintf("+ more activities (%d)", count)
}

// Renderer paints presence snapshots into a Frame. It is not safe for
// concurrent use; the session loop owns it.
type Renderer struct {
	frame Frame
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render paints a full snapshot. The extras panel is rebuilt from scratch
// and keeps whatever open state it had before.
func (r *Renderer) Render(snapshot presence.Snapshot, now time.Time) {
	model := presence.Normalize(snapshot, now)
	if model.Empty {
		r.frame.Visible = false
		r.frame.Details.Visible = false
		r.frame.Extras.Visible = false
		r.frame.Extras.Items = nil
		return
	}

	primary := model.Primary
	r.frame.Details = Details{
		Visible:     true,
		Name:        primary.Name,
		Description: primary.Description,
		Time:        primary.Elapsed,
		Progress:    progressRegion(primary.Progress),
	}

	open := r.frame.Extras.Open
	items := make([]Item, 0, len(model.Extras))
	for _, view := range model.Extras {
		items = append(items, Item{
			Name:        view.Name,
			Description: view.Description,
			Time:        view.Elapsed,
			Media:       view.Media,
			Start:       view.Start,
			End:         view.End,
			Progress:    progressRegion(view.Progress),
		})
	}
	r.frame.Extras = Extras{
		Visible: len(items) > 0,
		Open:    open,
		Items:   items,
	}
	r.frame.Extras.Toggle = r.toggleLabel()
	r.frame.Visible = true
}

// Toggle flips the extras panel. It does nothing while the panel is hidden.
func (r *Renderer) Toggle() bool {
	if !r.frame.Extras.Visible {
		return false
	}
	r.frame.Extras.Open = !r.frame.Extras.Open
	r.frame.Extras.Toggle = r.toggleLabel()
	return true
}

func (r *Renderer) ExtrasOpen() bool {
	return r.frame.Extras.Visible && r.frame.Extras.Open
}

func (r *Renderer) toggleLabel() string {
	if r.frame.Extras.Open {
		return labelHide
	}
	return labelMore(len(r.frame.Extras.Items))
}

// RepaintPrimary refreshes the time-derived fields of the primary region
// from the activity's timestamps. Name and description are left alone.
func (r *Renderer) RepaintPrimary(activity presence.Activity, now time.Time) {
	if presence.IsMedia(activity) {
		progress := presence.ProgressOf(activity.Start(), activity.End(), now)
		r.frame.Details.Time = ""
		r.frame.Details.Progress = progressRegion(&progress)
		return
	}
	r.frame.Details.Time = presence.ElapsedLabel(activity, now)
	r.frame.Details.Progress = Progress{}
}

// RepaintExtras refreshes every secondary item from its tags.
func (r *Renderer) RepaintExtras(now time.Time) {
	for i := range r.frame.Extras.Items {
		item := &r.frame.Extras.Items[i]
		if item.Media {
			progress := presence.ProgressOf(item.Start, item.End, now)
			item.Progress = progressRegion(&progress)
			continue
		}
		if item.Start > 0 {
			item.Time = presence.ElapsedSince(item.Start, now)
		}
	}
}

// ShowLoading brings the loading indicator up and hides the activity.
func (r *Renderer) ShowLoading(text string) {
	r.frame.Visible = true
	r.frame.Loading = Loading{Visible: true, Text: text}
	r.frame.Details.Visible = false
	r.frame.Extras.Visible = false
}

func (r *Renderer) SetLoadingText(text string) {
	r.frame.Loading.Text = text
}

func (r *Renderer) HideLoading() {
	r.frame.Loading.Visible = false
}

// Blank hides the activity and the loading indicator, leaving nothing.
func (r *Renderer) Blank() {
	r.frame.Details.Visible = false
	r.frame.Extras.Visible = false
	r.frame.Loading.Visible = false
}

// Frame returns a copy of the current surface.
func (r *Renderer) Frame() Frame {
	return r.frame.clone()
}

func progressRegion(progress *presence.Progress) Progress {
	if progress == nil {
		return Progress{}
	}
	return Progress{
		Visible: true,
		Percent: progress.Percent,
		Current: progress.Current,
		Total:   progress.Total,
	}
}
