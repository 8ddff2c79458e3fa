package gateway

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellRange is an inclusive rectangle of 1-based column and row numbers.
type CellRange struct {
	FromCol, FromRow int
	ToCol, ToRow     int
}

// Cols returns the width of the range.
func (r CellRange) Cols() int { return r.ToCol - r.FromCol + 1 }

// Rows returns the height of the range.
func (r CellRange) Rows() int { return r.ToRow - r.FromRow + 1 }

func (r CellRange) String() string {
	return RangeName(r)
}

// CellName converts 1-based coordinates to an A1 reference.
func CellName(col, row int) (string, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return name, nil
}

// ParseCell converts an A1 reference to 1-based coordinates.
func ParseCell(cell string) (col, row int, err error) {
	col, row, err = excelize.CellNameToCoordinates(strings.TrimSpace(cell))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrInvalidRange, cell, err)
	}
	return col, row, nil
}

// ParseRange parses "E2:G2" or a single cell "F2". Corners are normalized so
// From is the top-left.
func ParseRange(rng string) (CellRange, error) {
	parts := strings.Split(rng, ":")
	if len(parts) > 2 {
		return CellRange{}, fmt.Errorf("%w: %q", ErrInvalidRange, rng)
	}
	c1, r1, err := ParseCell(parts[0])
	if err != nil {
		return CellRange{}, err
	}
	c2, r2 := c1, r1
	if len(parts) == 2 {
		if c2, r2, err = ParseCell(parts[1]); err != nil {
			return CellRange{}, err
		}
	}
	return CellRange{
		FromCol: min(c1, c2), FromRow: min(r1, r2),
		ToCol: max(c1, c2), ToRow: max(r1, r2),
	}, nil
}

// RangeName renders r in A1 notation; a single cell renders without a colon.
func RangeName(r CellRange) string {
	from, _ := excelize.CoordinatesToCellName(r.FromCol, r.FromRow)
	if r.FromCol == r.ToCol && r.FromRow == r.ToRow {
		return from
	}
	to, _ := excelize.CoordinatesToCellName(r.ToCol, r.ToRow)
	return from + ":" + to
}

// checkShape verifies values exactly fill r.
func checkShape(r CellRange, values [][]any) error {
	if len(values) != r.Rows() {
		return fmt.Errorf("%w: %s expects %d rows, got %d", ErrInvalidRange, r, r.Rows(), len(values))
	}
	for i, row := range values {
		if len(row) != r.Cols() {
			return fmt.Errorf("%w: %s expects %d columns, row %d has %d", ErrInvalidRange, r, r.Cols(), i, len(row))
		}
	}
	return nil
}

// qualify prefixes an A1 reference with a quoted worksheet title, as the
// Sheets API expects: 'Title'!E2:G2.
func qualify(title, a1 string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'!" + a1
}
