package tui

import (
	"strings"

	"charm.land/bubbles/v2/progress"

	"github.com/dwizi/presence/internal/lanyard"
	"github.com/dwizi/presence/internal/widget"
)

func (m model) renderPresencePage(t theme, layout uiLayout) string {
	frame := m.session.Frame()
	if !frame.Visible {
		return ""
	}
	width := innerWidth(t.panelBox, layout.Width)
	lines := []string{}

	if frame.Loading.Visible {
		if frame.Loading.Text == lanyard.TextPollFailed {
			lines = append(lines, t.panelError.Render(frame.Loading.Text))
		} else {
			lines = append(lines, m.spinner.View()+" "+t.panelWarn.Render(frame.Loading.Text))
		}
	}

	if frame.Details.Visible {
		details := frame.Details
		lines = append(lines, t.activityName.Render(trimToWidth(details.Name, width)))
		if details.Description != "" {
			lines = append(lines, t.panelSubtle.Render(trimToWidth(details.Description, width)))
		}
		if details.Time != "" {
			lines = append(lines, t.panelAccent.Render(details.Time))
		}
		if details.Progress.Visible {
			lines = append(lines, renderProgress(t, details.Progress, layout.BarWidth))
		}
	}

	if frame.Extras.Visible {
		lines = append(lines, "", t.toggle.Render(frame.Extras.Toggle))
		if frame.Extras.Open {
			for _, item := range frame.Extras.Items {
				lines = append(lines, renderItem(t, item, width))
				if item.Progress.Visible {
					lines = append(lines, "  "+renderProgress(t, item.Progress, maxInt(10, layout.BarWidth-2)))
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}

func renderItem(t theme, item widget.Item, width int) string {
	parts := []string{t.activityName.Render(item.Name)}
	if item.Description != "" {
		parts = append(parts, t.panelSubtle.Render(item.Description))
	}
	if item.Time != "" {
		parts = append(parts, t.panelAccent.Render(item.Time))
	}
	return trimToWidth("  "+strings.Join(parts, t.panelSubtle.Render(" · ")), width)
}

func renderProgress(t theme, p widget.Progress, width int) string {
	bar := progress.New(
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return bar.ViewAs(float64(p.Percent)/100) + " " + t.panelSubtle.Render(p.Current+" / "+p.Total)
}
