package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTitleLen is the longest worksheet title accepted. It is the xlsx limit,
// which is the strictest of the supported backends.
const MaxTitleLen = 31

// ProjectView is a worksheet interpreted as a project.
type ProjectView struct {
	Title      string
	WeeklyNote string
	Header     []string
	Tasks      []Task

	// HeaderMismatch is set when B1:G1 differ from HeaderNames.
	HeaderMismatch bool
}

// FindByKey returns the first task whose Key equals key. When two tasks share
// a name and start date the lowest row index wins.
func (p *ProjectView) FindByKey(key string) (Task, bool) {
	for _, t := range p.Tasks {
		if !t.Blank && t.Key() == key {
			return t, true
		}
	}
	return Task{}, false
}

// TaskAt returns the task at data row index row. Blank rows are not tasks.
func (p *ProjectView) TaskAt(row int) (Task, bool) {
	if row < 0 || row >= len(p.Tasks) || p.Tasks[row].Blank {
		return Task{}, false
	}
	return p.Tasks[row], true
}

// VisibleTasks returns the non-blank tasks in row order.
func (p *ProjectView) VisibleTasks() []Task {
	out := make([]Task, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		if !t.Blank {
			out = append(out, t)
		}
	}
	return out
}

// ProjectSummary aggregates task rows for the dashboard.
type ProjectSummary struct {
	Total        int
	ByStatus     map[TaskStatus]int
	Other        int
	Degraded     int
	MeanProgress float64
}

// Summary counts tasks per status and averages progress over all rows.
func (p *ProjectView) Summary() ProjectSummary {
	s := ProjectSummary{ByStatus: make(map[TaskStatus]int, len(TaskStatuses))}
	var sum int
	for _, t := range p.Tasks {
		if t.Blank {
			continue
		}
		s.Total++
		sum += t.Progress
		if t.Status.Valid() {
			s.ByStatus[t.Status]++
		} else {
			s.Other++
		}
		if t.Degraded {
			s.Degraded++
		}
	}
	if s.Total > 0 {
		s.MeanProgress = float64(sum) / float64(s.Total)
	}
	return s
}

// NormalizeTitle trims a proposed worksheet title and validates it.
func NormalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if n := utf8.RuneCountInString(t); n > MaxTitleLen {
		return "", &ValidationError{Field: "title", Message: fmt.Sprintf("must be at most %d characters", MaxTitleLen)}
	}
	if i := strings.IndexAny(t, `[]:*?/\`); i >= 0 {
		return "", &ValidationError{Field: "title", Message: fmt.Sprintf("must not contain %q", t[i])}
	}
	return t, nil
}

// NormalizeWeeklyNote drops trailing newlines from a weekly note. An empty
// note is allowed.
func NormalizeWeeklyNote(text string) string {
	return strings.TrimRight(text, "\r\n")
}
