package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░]  45% for a percentage in
// 0..100. Colors follow completion: red below 33, yellow below 66, green
// otherwise.
func RenderProgress(percent int, width int) string {
	return fmt.Sprintf("[%s] %3d%%", RenderCompactBar(percent, width, false), clampPercent(percent))
}

// RenderCompactBar renders the bar alone, without brackets or label. A dim
// bar ignores the completion colors.
func RenderCompactBar(percent int, width int, dim bool) string {
	p := clampPercent(percent)
	if width < 2 {
		width = 2
	}
	filled := p * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	switch {
	case dim:
		return StyleDim.Render(bar)
	case p < 33:
		return StyleRed.Render(bar)
	case p < 66:
		return StyleYellow.Render(bar)
	default:
		return StyleGreen.Render(bar)
	}
}

func clampPercent(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
