package domain

import "fmt"

// Worksheet layout, format version 1. Cell addresses are fixed; columns are
// never located by header name, so reordering columns in the sheet is a
// format change, not something to adapt to.
//
//	A     B     C       D       E         F     G
//	No    구분  시작일  종료일  진행상태  비고  진행률
const (
	colName     = 1
	colStart    = 2
	colEnd      = 3
	colStatus   = 4
	colNote     = 5
	colProgress = 6

	// TaskColumns is the number of physical columns a task row spans.
	TaskColumns = colProgress + 1

	// WeeklyNoteCell holds the project-level weekly highlight.
	WeeklyNoteCell = "F2"

	// FirstTaskRow is the sheet row of data row 0.
	FirstTaskRow = 2
)

// HeaderNames are the expected titles of columns B..G in row 1.
var HeaderNames = []string{"구분", "시작일", "종료일", "진행상태", "비고", "진행률"}

// TemplateHeader is row 1 as written when a document is seeded.
var TemplateHeader = append([]string{"No"}, HeaderNames...)

// TaskSheetRow returns the spreadsheet row number of data row rowIndex.
func TaskSheetRow(rowIndex int) int {
	return rowIndex + FirstTaskRow
}

// TaskEditRange returns the A1 range covering status, note and progress of
// data row rowIndex, e.g. "E2:G2" for row 0.
func TaskEditRange(rowIndex int) string {
	r := TaskSheetRow(rowIndex)
	return fmt.Sprintf("E%d:G%d", r, r)
}

// HeaderMatches reports whether row 1 carries the expected titles in B..G.
// A mismatch is only a warning; reads and writes keep using fixed columns.
func HeaderMatches(header []string) bool {
	if len(header) < TaskColumns {
		return false
	}
	for i, name := range HeaderNames {
		if header[colName+i] != name {
			return false
		}
	}
	return true
}
