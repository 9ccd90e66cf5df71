package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

const (
	typingStartDelay  = 500 * time.Millisecond
	typingTitleStep   = 100 * time.Millisecond
	typingPause       = 500 * time.Millisecond
	typingTaglineStep = 50 * time.Millisecond
)

type bannerPhase int

const (
	bannerWaiting bannerPhase = iota
	bannerTitle
	bannerTagline
	bannerDone
)

type typingMsg struct{}

// banner types the title and then the tagline, once.
type banner struct {
	title   []rune
	tagline []rune
	phase   bannerPhase
	typed   int
}

func newBanner(title, tagline string, enabled bool) banner {
	b := banner{title: []rune(title), tagline: []rune(tagline)}
	if !enabled {
		b.phase = bannerDone
	}
	return b
}

func (b banner) start() tea.Cmd {
	if b.phase == bannerDone {
		return nil
	}
	return typingAfter(typingStartDelay)
}

func (b banner) advance() (banner, tea.Cmd) {
	switch b.phase {
	case bannerWaiting:
		b.phase = bannerTitle
		b.typed = 0
		return b.advance()
	case bannerTitle:
		if b.typed < len(b.title) {
			b.typed++
			return b, typingAfter(typingTitleStep)
		}
		b.phase = bannerTagline
		b.typed = 0
		return b, typingAfter(typingPause)
	case bannerTagline:
		if b.typed < len(b.tagline) {
			b.typed++
			return b, typingAfter(typingTaglineStep)
		}
		b.phase = bannerDone
		return b, nil
	default:
		return b, nil
	}
}

func (b banner) done() bool {
	return b.phase == bannerDone
}

func (b banner) titleText() string {
	switch b.phase {
	case bannerWaiting:
		return ""
	case bannerTitle:
		return string(b.title[:b.typed])
	default:
		return string(b.title)
	}
}

func (b banner) taglineText() string {
	switch b.phase {
	case bannerTagline:
		return string(b.tagline[:b.typed])
	case bannerDone:
		return string(b.tagline)
	default:
		return ""
	}
}

// cursorOnTitle reports which line carries the typing cursor.
func (b banner) cursorOnTitle() bool {
	return b.phase == bannerWaiting || b.phase == bannerTitle
}

func typingAfter(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return typingMsg{}
	})
}
