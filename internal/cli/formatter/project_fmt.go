package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/gateway"
)

// FormatProjectList renders project worksheets in document order.
func FormatProjectList(projects []gateway.Worksheet) string {
	if len(projects) == 0 {
		return Dim("프로젝트가 없습니다. 'sitetrack project create NAME'으로 만드세요.") + "\n"
	}
	rows := make([][]string, 0, len(projects))
	for i, ws := range projects {
		rows = append(rows, []string{strconv.Itoa(i + 1), Bold(ws.Title)})
	}
	return RenderTable([]string{"#", "프로젝트"}, rows)
}

// FormatSummary renders per-status counts and mean progress on one line.
func FormatSummary(s domain.ProjectSummary) string {
	if s.Total == 0 {
		return Dim("작업 없음")
	}
	parts := make([]string, 0, len(domain.TaskStatuses)+2)
	for _, st := range domain.TaskStatuses {
		parts = append(parts, StatusStyle(st).Render(fmt.Sprintf("%s %d", st, s.ByStatus[st])))
	}
	if s.Other > 0 {
		parts = append(parts, StylePurple.Render(fmt.Sprintf("기타 %d", s.Other)))
	}
	line := fmt.Sprintf("%s  %s  %s",
		Dim(fmt.Sprintf("작업 %d", s.Total)),
		strings.Join(parts, "  "),
		RenderProgress(int(s.MeanProgress+0.5), 10),
	)
	if s.Degraded > 0 {
		line += "  " + Warn(fmt.Sprintf("확인 필요 %d", s.Degraded))
	}
	return line
}

// TaskCells returns the display cells of a task row: sheet row, name, start,
// end, status, progress and note. Degraded rows are marked with "!".
func TaskCells(t domain.Task) []string {
	rowLabel := strconv.Itoa(t.SheetRow())
	if t.Degraded {
		rowLabel = Warn("!" + rowLabel)
	}
	name := t.Name
	if name == "" {
		name = Dim("(이름 없음)")
	}
	return []string{
		rowLabel,
		name,
		t.StartLabel(),
		t.EndLabel(),
		StatusPill(t.Status),
		RenderProgress(t.Progress, 8),
		Truncate(t.Note, 30),
	}
}

// TaskHeaders are the column titles matching TaskCells.
var TaskHeaders = []string{"행", "구분", "시작일", "종료일", "진행상태", "진행률", "비고"}

// FormatProjectView renders a project for the show command: weekly note,
// summary, task table and the reasons behind degraded rows.
func FormatProjectView(v *domain.ProjectView) string {
	var b strings.Builder

	b.WriteString(Header(v.Title) + "\n\n")
	if v.HeaderMismatch {
		b.WriteString(Warn("1행 머리글이 예상과 다릅니다: "+strings.Join(domain.HeaderNames, ", ")) + "\n\n")
	}

	note := v.WeeklyNote
	if strings.TrimSpace(note) == "" {
		note = Dim("(비어 있음)")
	}
	b.WriteString(RenderBox("주간 특이사항", note) + "\n\n")
	b.WriteString(FormatSummary(v.Summary()) + "\n\n")

	tasks := v.VisibleTasks()
	if len(tasks) == 0 {
		b.WriteString(Dim("등록된 작업이 없습니다.") + "\n")
		return b.String()
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, TaskCells(t))
	}
	b.WriteString(RenderTable(TaskHeaders, rows))

	var issues []string
	for _, t := range tasks {
		for _, issue := range t.Issues {
			issues = append(issues, fmt.Sprintf("  %d행: %s", t.SheetRow(), issue))
		}
	}
	if len(issues) > 0 {
		b.WriteString("\n" + Warn("확인이 필요한 행") + "\n")
		b.WriteString(strings.Join(issues, "\n") + "\n")
	}
	return b.String()
}
