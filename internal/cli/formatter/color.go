package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle returns the style for a task status. Unknown statuses render
// in the warning color so they stand out next to valid ones.
func StatusStyle(status domain.TaskStatus) lipgloss.Style {
	switch status {
	case domain.StatusPlanned:
		return StyleBlue
	case domain.StatusInProgress:
		return StyleYellow
	case domain.StatusDone:
		return StyleGreen
	case domain.StatusDelayed:
		return StyleRed
	default:
		return StylePurple
	}
}

// StatusPill renders a task status with a leading marker, e.g. "● 진행중".
func StatusPill(status domain.TaskStatus) string {
	marker := "●"
	switch status {
	case domain.StatusPlanned:
		marker = "○"
	case domain.StatusDone:
		marker = "✔"
	case domain.StatusDelayed:
		marker = "▲"
	case domain.StatusInProgress:
	default:
		if status == "" {
			return StyleDim.Render("-")
		}
		marker = "?"
	}
	return StatusStyle(status).Render(marker + " " + string(status))
}

// Header renders a section header with the orange header style and an
// underline. Text is shown as given; project titles are never re-cased.
func Header(text string) string {
	line := strings.Repeat("─", lipgloss.Width(text))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(text), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Warn renders text in the warning color.
func Warn(text string) string {
	return StyleYellow.Render(text)
}
