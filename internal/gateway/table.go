package gateway

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// buildTable turns a grid of row-major strings, row 1 first, into a Table.
// Trailing blank rows are dropped; interior blank rows are kept.
func buildTable(grid [][]string) (*Table, error) {
	if len(grid) == 0 || blank(grid[0]) {
		return nil, ErrMalformedSheet
	}
	last := len(grid) - 1
	for last > 0 && blank(grid[last]) {
		last--
	}
	t := &Table{Header: grid[0], Rows: make([]Row, 0, last)}
	for i := 1; i <= last; i++ {
		t.Rows = append(t.Rows, Row{Number: i + 1, Cells: grid[i]})
	}
	return t, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// trimRow drops trailing empty cells so every backend returns rows shaped
// the way excelize's GetRows does.
func trimRow(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}

// CellString renders a written value the way a spreadsheet displays it.
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return x.Format("2006-01-02")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
