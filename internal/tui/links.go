package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/dwizi/presence/internal/config"
)

const linkOpenDelay = 100 * time.Millisecond

type openLinkMsg struct {
	index int
}

type linkOpenedMsg struct {
	label string
	err   error
}

// linkCursor tracks the keyboard cursor and the last chosen link. Both
// are highlighted; -1 means none.
type linkCursor struct {
	links    []config.Link
	current  int
	selected int
}

func newLinkCursor(links []config.Link) linkCursor {
	return linkCursor{links: links, current: -1, selected: -1}
}

func (c linkCursor) next() linkCursor {
	if len(c.links) == 0 {
		return c
	}
	c.current = (c.current + 1) % len(c.links)
	return c
}

func (c linkCursor) prev() linkCursor {
	if len(c.links) == 0 {
		return c
	}
	if c.current <= 0 {
		c.current = len(c.links) - 1
	} else {
		c.current--
	}
	return c
}

// choose marks the current link as selected. It reports false when the
// cursor is not on a link.
func (c linkCursor) choose() (linkCursor, bool) {
	if c.current < 0 || c.current >= len(c.links) {
		return c, false
	}
	c.selected = c.current
	return c, true
}

func (c linkCursor) highlighted(index int) bool {
	return index == c.current || index == c.selected
}

func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
