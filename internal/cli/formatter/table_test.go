package formatter

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_AlignsWideText(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"구분", "진행률"},
		[][]string{{"기초공사", "40%"}, {"a", "5%"}},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	// The second column starts at the same cell offset on every row.
	col := lipgloss.Width("기초공사") + colGap
	for _, l := range []string{lines[2], lines[3]} {
		runes := []rune(l)
		prefix := ""
		for _, r := range runes {
			if lipgloss.Width(prefix) == col {
				break
			}
			prefix += string(r)
		}
		assert.Equal(t, col, lipgloss.Width(prefix), "line %q", l)
	}
	assert.Contains(t, lines[1], "─")
}

func TestRenderTable_ShortRowsPadded(t *testing.T) {
	out := stripANSI(RenderTable([]string{"a", "b", "c"}, [][]string{{"1"}}))
	assert.Contains(t, out, "1")
	assert.Equal(t, "", RenderTable(nil, nil))
}
