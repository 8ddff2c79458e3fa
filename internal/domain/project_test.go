package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByKey_LowestRowWins(t *testing.T) {
	p := &ProjectView{Tasks: []Task{
		ParseTask(0, row("기초", "2024-04-01", "2024-04-30", "완료", "", "100")),
		ParseTask(1, row("점검", "2024-05-01", "2024-05-02", "예정", "", "0")),
		ParseTask(2, row("점검", "2024-05-01", "2024-05-03", "진행중", "", "20")),
	}}

	task, ok := p.FindByKey("점검 (2024-05-01)")
	require.True(t, ok)
	assert.Equal(t, 1, task.Row)

	_, ok = p.FindByKey("없음 (2024-01-01)")
	assert.False(t, ok)
}

func TestTaskAt(t *testing.T) {
	p := &ProjectView{Tasks: []Task{ParseTask(0, row("a", "2024-01-01", "2024-01-01", "예정"))}}

	_, ok := p.TaskAt(0)
	assert.True(t, ok)
	_, ok = p.TaskAt(1)
	assert.False(t, ok)
	_, ok = p.TaskAt(-1)
	assert.False(t, ok)
}

func TestSummary(t *testing.T) {
	p := &ProjectView{Tasks: []Task{
		ParseTask(0, row("a", "2024-01-01", "2024-01-02", "완료", "", "100")),
		ParseTask(1, row("b", "2024-01-01", "2024-01-02", "진행중", "", "50")),
		ParseTask(2, row("c", "2024-01-01", "2024-01-02", "보류", "", "0")),
	}}

	s := p.Summary()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.ByStatus[StatusDone])
	assert.Equal(t, 1, s.ByStatus[StatusInProgress])
	assert.Equal(t, 1, s.Other)
	assert.Equal(t, 1, s.Degraded)
	assert.InDelta(t, 50.0, s.MeanProgress, 0.001)
}

func TestSummary_Empty(t *testing.T) {
	s := (&ProjectView{}).Summary()
	assert.Zero(t, s.Total)
	assert.Zero(t, s.MeanProgress)
}

func TestHeaderMatches(t *testing.T) {
	assert.True(t, HeaderMatches(TemplateHeader))
	assert.True(t, HeaderMatches([]string{"", "구분", "시작일", "종료일", "진행상태", "비고", "진행률", "extra"}))
	assert.False(t, HeaderMatches([]string{"구분", "시작일", "종료일", "진행상태", "비고", "진행률"}))
	assert.False(t, HeaderMatches(nil))
}

func TestNormalizeTitle(t *testing.T) {
	got, err := NormalizeTitle("  신축공사 A동 ")
	require.NoError(t, err)
	assert.Equal(t, "신축공사 A동", got)

	for _, bad := range []string{"", "   ", "a/b", "a[1]", "이름이아주아주아주아주아주아주아주아주아주아주아주길다아주아주길다"} {
		_, err := NormalizeTitle(bad)
		assert.ErrorIs(t, err, ErrValidation, "title %q", bad)
	}
}

func TestNormalizeWeeklyNote(t *testing.T) {
	assert.Equal(t, "새 이슈", NormalizeWeeklyNote("새 이슈\n"))
	assert.Equal(t, "a\nb", NormalizeWeeklyNote("a\nb\r\n\n"))
	assert.Equal(t, "", NormalizeWeeklyNote(""))
}

func TestBlankRowsAreSkipped(t *testing.T) {
	p := &ProjectView{Tasks: []Task{
		ParseTask(0, row("", "", "", "", "주간 메모")),
		ParseTask(1, row("a", "2024-01-01", "2024-01-02", "예정", "", "0")),
	}}

	_, ok := p.TaskAt(0)
	assert.False(t, ok)
	task, ok := p.TaskAt(1)
	require.True(t, ok)
	assert.Equal(t, "a", task.Name)

	assert.Len(t, p.VisibleTasks(), 1)
	assert.Equal(t, 1, p.Summary().Total)
}
