package tui

import "strings"

func (m model) renderLinksPage(t theme, layout uiLayout) string {
	if len(m.links.links) == 0 {
		return t.panelSubtle.Render("no links configured (set PRESENCE_LINKS)")
	}
	width := innerWidth(t.panelBox, layout.Width)
	lines := make([]string, 0, len(m.links.links))
	for index, link := range m.links.links {
		style := t.linkItem
		marker := "  "
		if m.links.highlighted(index) {
			style = t.linkSelected
			marker = "> "
		}
		line := style.Render(marker+link.Label) + " " + t.linkURL.Render(link.URL)
		lines = append(lines, trimToWidth(line, width))
	}
	return strings.Join(lines, "\n")
}
