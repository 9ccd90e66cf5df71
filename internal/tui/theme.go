package tui

import "charm.land/lipgloss/v2"

type theme struct {
	appBG lipgloss.Style

	brand   lipgloss.Style
	tagline lipgloss.Style
	cursor  lipgloss.Style

	headerBox lipgloss.Style
	headerSub lipgloss.Style

	navItem   lipgloss.Style
	navActive lipgloss.Style

	panelBox     lipgloss.Style
	panelTitle   lipgloss.Style
	panelSubtle  lipgloss.Style
	panelAccent  lipgloss.Style
	panelWarn    lipgloss.Style
	panelError   lipgloss.Style
	activityName lipgloss.Style
	toggle       lipgloss.Style

	linkItem     lipgloss.Style
	linkSelected lipgloss.Style
	linkURL      lipgloss.Style

	footerBox  lipgloss.Style
	footerInfo lipgloss.Style
	footerErr  lipgloss.Style
	footerOK   lipgloss.Style

	chipInfo    lipgloss.Style
	chipWarn    lipgloss.Style
	chipError   lipgloss.Style
	chipSuccess lipgloss.Style

	spinner lipgloss.Style
}

func newTheme() theme {
	border := lipgloss.Color("238")
	text := lipgloss.Color("252")
	muted := lipgloss.Color("246")
	subtle := lipgloss.Color("243")
	accent := lipgloss.Color("111")
	success := lipgloss.Color("78")
	warn := lipgloss.Color("214")
	danger := lipgloss.Color("203")

	return theme{
		appBG: lipgloss.NewStyle().Foreground(text),
		brand: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(accent),
		tagline: lipgloss.NewStyle().Foreground(muted),
		cursor:  lipgloss.NewStyle().Foreground(accent),

		headerBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(border).
			Padding(0, 1),
		headerSub: lipgloss.NewStyle().Foreground(muted),

		navItem: lipgloss.NewStyle().
			Foreground(subtle).
			Padding(0, 1),
		navActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Underline(true).
			Padding(0, 1),

		panelBox: lipgloss.NewStyle().
			Padding(0, 1),
		panelTitle:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		panelSubtle:  lipgloss.NewStyle().Foreground(muted),
		panelAccent:  lipgloss.NewStyle().Foreground(lipgloss.Color("151")),
		panelWarn:    lipgloss.NewStyle().Foreground(warn),
		panelError:   lipgloss.NewStyle().Foreground(danger),
		activityName: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		toggle:       lipgloss.NewStyle().Foreground(accent),

		linkItem: lipgloss.NewStyle().
			Foreground(text).
			Padding(0, 1),
		linkSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Padding(0, 1),
		linkURL: lipgloss.NewStyle().Foreground(subtle),

		footerBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(border).
			Padding(0, 1),
		footerInfo: lipgloss.NewStyle().Foreground(text),
		footerErr:  lipgloss.NewStyle().Bold(true).Foreground(danger),
		footerOK:   lipgloss.NewStyle().Foreground(success),

		chipInfo: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		chipWarn: lipgloss.NewStyle().
			Bold(true).
			Foreground(warn),
		chipError: lipgloss.NewStyle().
			Bold(true).
			Foreground(danger),
		chipSuccess: lipgloss.NewStyle().
			Bold(true).
			Foreground(success),

		spinner: lipgloss.NewStyle().Bold(true).Foreground(warn),
	}
}
