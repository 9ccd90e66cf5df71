package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/dwizi/presence/internal/health"
)

func (m model) renderView() string {
	if m.quitting {
		return "presence closed\n"
	}

	t := newTheme()
	layout := computeLayout(m.width, m.height)

	header := m.renderHeader(t, layout)
	nav := m.renderNav(t, layout)
	body := m.renderBody(t, layout)
	footer := m.renderFooter(t, layout)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, nav, body, footer)
	return t.appBG.Width(layout.Width).Height(layout.Height).Render(ui)
}

func (m model) renderHeader(t theme, layout uiLayout) string {
	style := sizedStyle(t.headerBox, layout.Width, layout.HeaderHeight)
	contentWidth := innerWidth(t.headerBox, layout.Width)

	title := t.brand.Render(m.banner.titleText())
	tagline := t.tagline.Render(m.banner.taglineText())
	if !m.banner.done() {
		if m.banner.cursorOnTitle() {
			title += t.cursor.Render("▌")
		} else {
			tagline += t.cursor.Render("▌")
		}
	}

	lines := []string{fillLine(title, m.healthChip(t), contentWidth)}
	if !layout.Compact {
		lines = append(lines, tagline)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m model) healthChip(t theme) string {
	if m.health == nil {
		return ""
	}
	snapshot := m.health.Snapshot(healthStaleAfter)
	switch snapshot.Overall {
	case health.StateHealthy:
		return t.chipSuccess.Render("● LIVE")
	case health.StateStarting:
		return t.chipWarn.Render(m.spinner.View() + " CONNECTING")
	case health.StateDegraded:
		return t.chipError.Render("▲ DEGRADED")
	default:
		return t.chipInfo.Render(strings.ToUpper(snapshot.Overall))
	}
}

func (m model) renderNav(t theme, layout uiLayout) string {
	items := make([]string, 0, 2)
	for i, page := range []pageID{pagePresence, pageLinks} {
		label := string(rune('1'+i)) + ":" + string(page)
		if page == m.page {
			items = append(items, t.navActive.Render(label))
		} else {
			items = append(items, t.navItem.Render(label))
		}
	}
	return trimToWidth(strings.Join(items, " "), layout.Width)
}

func (m model) renderBody(t theme, layout uiLayout) string {
	var content string
	switch m.page {
	case pageLinks:
		content = m.renderLinksPage(t, layout)
	default:
		content = m.renderPresencePage(t, layout)
	}
	return sizedStyle(t.panelBox, layout.Width, layout.BodyHeight).Render(content)
}

func (m model) renderFooter(t theme, layout uiLayout) string {
	style := t.footerBox
	width := innerWidth(style, layout.Width)

	status := t.footerOK.Render(trimToWidth("status: "+fallbackText(m.statusText, "idle"), width))
	if strings.TrimSpace(m.errorText) != "" {
		status = t.footerErr.Render(trimToWidth("error: "+m.errorText, width))
	}
	if layout.Compact {
		return sizedStyle(style, layout.Width, layout.FooterHeight).Render(status)
	}
	helpLine := t.footerInfo.Render(m.help.View(m.keys))
	return sizedStyle(style, layout.Width, layout.FooterHeight).Render(helpLine + "\n" + status)
}

func fillLine(left, right string, width int) string {
	if width <= 0 {
		return strings.TrimSpace(left + " " + right)
	}
	lw := lipgloss.Width(left)
	rw := lipgloss.Width(right)
	if lw+rw+1 > width {
		return left
	}
	return left + strings.Repeat(" ", width-lw-rw) + right
}

func trimToWidth(value string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(value, width, "...")
}

func sizedStyle(style lipgloss.Style, width, height int) lipgloss.Style {
	contentWidth := maxInt(1, width-style.GetHorizontalFrameSize())
	contentHeight := maxInt(1, height-style.GetVerticalFrameSize())
	return style.Width(contentWidth).Height(contentHeight)
}

func innerWidth(style lipgloss.Style, width int) int {
	return maxInt(1, width-style.GetHorizontalFrameSize())
}

func fallbackText(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
