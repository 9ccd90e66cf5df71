package widget

import (
	"fmt"
	"strings"
)

// Frame is the full state of the widget surface. Every region is a plain
// value so a frame can be compared, copied and painted by any front end.
type Frame struct {
	Visible bool
	Loading Loading
	Details Details
	Extras  Extras
}

type Loading struct {
	Visible bool
	Text    string
}

// Details is the primary activity region.
type Details struct {
	Visible     bool
	Name        string
	Description string
	Time        string
	Progress    Progress
}

type Progress struct {
	Visible bool
	Percent int
	Current string
	Total   string
}

// Extras is the collapsible secondary activity panel.
type Extras struct {
	Visible bool
	Open    bool
	Toggle  string
	Items   []Item
}

// Item is one secondary activity. Start and End are the tags the tick
// repaint reads; they are epoch milliseconds, zero when absent.
type Item struct {
	Name        string
	Description string
	Time        string
	Media       bool
	Start       int64
	End         int64
	Progress    Progress
}

func (f Frame) clone() Frame {
	out := f
	if f.Extras.Items != nil {
		out.Extras.Items = make([]Item, len(f.Extras.Items))
		copy(out.Extras.Items, f.Extras.Items)
	}
	return out
}

const plainBarWidth = 20

// PlainText renders the visible regions without styling, one line each.
func (f Frame) PlainText() string {
	if !f.Visible {
		return ""
	}
	lines := []string{}
	if f.Loading.Visible {
		lines = append(lines, "… "+f.Loading.Text)
	}
	if f.Details.Visible {
		lines = append(lines, f.Details.Name)
		if f.Details.Description != "" {
			lines = append(lines, f.Details.Description)
		}
		if f.Details.Time != "" {
			lines = append(lines, f.Details.Time)
		}
		if f.Details.Progress.Visible {
			lines = append(lines, plainProgress(f.Details.Progress))
		}
	}
	if f.Extras.Visible {
		lines = append(lines, f.Extras.Toggle)
		if f.Extras.Open {
			for _, item := range f.Extras.Items {
				line := "  " + item.Name
				if item.Description != "" {
					line += " · " + item.Description
				}
				if item.Time != "" {
					line += " · " + item.Time
				}
				lines = append(lines, line)
				if item.Progress.Visible {
					lines = append(lines, "  "+plainProgress(item.Progress))
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}

func plainProgress(p Progress) string {
	filled := p.Percent * plainBarWidth / 100
	bar := strings.Repeat("#", filled) + strings.Repeat("-", plainBarWidth-filled)
	return fmt.Sprintf("[%s] %s / %s", bar, p.Current, p.Total)
}
