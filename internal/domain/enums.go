package domain

import "strings"

// TaskStatus is the 진행상태 value of a task row.
type TaskStatus string

const (
	StatusPlanned    TaskStatus = "예정"
	StatusInProgress TaskStatus = "진행중"
	StatusDone       TaskStatus = "완료"
	StatusDelayed    TaskStatus = "지연"
)

// TaskStatuses lists the accepted statuses in display order.
var TaskStatuses = []TaskStatus{StatusPlanned, StatusInProgress, StatusDone, StatusDelayed}

var validTaskStatuses = map[TaskStatus]bool{
	StatusPlanned:    true,
	StatusInProgress: true,
	StatusDone:       true,
	StatusDelayed:    true,
}

// Valid reports whether s is one of the four accepted statuses.
// Any status may move to any other; there are no transition rules.
func (s TaskStatus) Valid() bool {
	return validTaskStatuses[s]
}

// ParseTaskStatus trims s and checks it against the accepted statuses.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.TrimSpace(s))
	if !status.Valid() {
		return status, &ValidationError{
			Field:   "status",
			Message: "must be one of " + joinStatuses(),
		}
	}
	return status, nil
}

func joinStatuses() string {
	parts := make([]string, len(TaskStatuses))
	for i, s := range TaskStatuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
