package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Task is one parsed task row. Raw cell strings are kept next to the parsed
// values so a degraded row can still be shown as the sheet has it.
type Task struct {
	// Row is the zero-based data row index; the sheet row is Row+2.
	Row int

	Name     string
	StartRaw string
	EndRaw   string
	Start    *time.Time
	End      *time.Time
	Status   TaskStatus
	Note     string
	Progress int

	ProgressRaw string

	// Degraded rows violate an invariant but remain editable.
	Degraded bool
	Issues   []string

	// Blank rows have no name, dates, status or progress. They keep their
	// index so later rows stay aligned but are not shown as tasks. A note
	// alone does not count: F2 doubles as the weekly note.
	Blank bool
}

// SheetRow returns the spreadsheet row number of the task.
func (t Task) SheetRow() int {
	return TaskSheetRow(t.Row)
}

// StartLabel returns the canonical start date, or the raw cell if it could
// not be parsed.
func (t Task) StartLabel() string {
	if t.Start != nil {
		return FormatDate(*t.Start)
	}
	return t.StartRaw
}

// EndLabel returns the canonical end date, or the raw cell.
func (t Task) EndLabel() string {
	if t.End != nil {
		return FormatDate(*t.End)
	}
	return t.EndRaw
}

// Key is the display key used to select a task, "{name} ({start_date})".
// Keys are not unique; see ProjectView.FindByKey.
func (t Task) Key() string {
	return TaskKey(t.Name, t.StartLabel())
}

// TaskKey builds a selection key from a name and start date label.
func TaskKey(name, start string) string {
	return fmt.Sprintf("%s (%s)", name, start)
}

func (t *Task) flag(issue string) {
	t.Degraded = true
	t.Issues = append(t.Issues, issue)
}

// ParseTask interprets the cells of data row rowIndex. Missing trailing
// cells read as empty strings.
func ParseTask(rowIndex int, cells []string) Task {
	cell := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}

	t := Task{
		Row:         rowIndex,
		Name:        strings.TrimSpace(cell(colName)),
		StartRaw:    strings.TrimSpace(cell(colStart)),
		EndRaw:      strings.TrimSpace(cell(colEnd)),
		Status:      TaskStatus(strings.TrimSpace(cell(colStatus))),
		Note:        cell(colNote),
		ProgressRaw: strings.TrimSpace(cell(colProgress)),
	}

	if t.Name == "" && t.StartRaw == "" && t.EndRaw == "" && t.Status == "" && t.ProgressRaw == "" {
		t.Blank = true
		return t
	}

	if t.Name == "" {
		t.flag("구분이 비어 있음")
	}

	if d, err := ParseSheetDate(t.StartRaw); err == nil {
		t.Start = &d
	} else {
		t.flag("시작일을 읽을 수 없음: " + t.StartRaw)
	}
	if d, err := ParseSheetDate(t.EndRaw); err == nil {
		t.End = &d
	} else {
		t.flag("종료일을 읽을 수 없음: " + t.EndRaw)
	}
	if t.Start != nil && t.End != nil && t.End.Before(*t.Start) {
		t.flag("종료일이 시작일보다 빠름")
	}

	if !t.Status.Valid() {
		t.flag(fmt.Sprintf("알 수 없는 진행상태 %q", string(t.Status)))
	}

	progress, issue := ParseProgress(t.ProgressRaw)
	t.Progress = progress
	if issue != "" {
		t.flag(issue)
	}

	return t
}

// ParseProgress coerces a 진행률 cell to an integer percentage. Values such
// as "40", "40%" and "40.0" are accepted; an empty cell reads as 0. Values
// outside [0,100] are clamped and reported through issue.
func ParseProgress(raw string) (value int, issue string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ""
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Sprintf("진행률을 읽을 수 없음: %s", raw)
	}
	v := int(math.Round(f))
	switch {
	case v < 0:
		return 0, fmt.Sprintf("진행률 범위 밖: %s", raw)
	case v > 100:
		return 100, fmt.Sprintf("진행률 범위 밖: %s", raw)
	}
	return v, ""
}

// ValidateProgress checks that p is a percentage in [0,100].
func ValidateProgress(p int) error {
	if p < 0 || p > 100 {
		return &ValidationError{Field: "progress", Message: fmt.Sprintf("%d is outside 0..100", p)}
	}
	return nil
}

// StatusAdvice returns a non-blocking hint when status and progress look
// inconsistent. Saving is never refused because of it.
func StatusAdvice(status TaskStatus, progress int) string {
	switch {
	case status == StatusDone && progress < 100:
		return "완료 상태이지만 진행률이 100%가 아닙니다"
	case status == StatusPlanned && progress > 0:
		return "예정 상태이지만 진행률이 0%가 아닙니다"
	}
	return ""
}
