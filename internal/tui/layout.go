package tui

const (
	compactWidthBreakpoint  = 60
	compactHeightBreakpoint = 18

	maxBarWidth = 48
)

type uiLayout struct {
	Width  int
	Height int

	Compact bool

	HeaderHeight int
	NavHeight    int
	FooterHeight int
	BodyHeight   int

	BarWidth int
}

func computeLayout(width, height int) uiLayout {
	if width < 30 {
		width = 30
	}
	if height < 12 {
		height = 12
	}

	layout := uiLayout{
		Width:        width,
		Height:       height,
		HeaderHeight: 4,
		NavHeight:    1,
		FooterHeight: 3,
	}
	layout.Compact = width < compactWidthBreakpoint || height < compactHeightBreakpoint
	if layout.Compact {
		layout.HeaderHeight = 3
		layout.FooterHeight = 2
	}
	layout.BodyHeight = maxInt(4, height-layout.HeaderHeight-layout.NavHeight-layout.FooterHeight)
	layout.BarWidth = clampInt(width-24, 10, maxBarWidth)
	return layout
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
