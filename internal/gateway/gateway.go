// Package gateway exposes the backing spreadsheet document as a small set of
// worksheet and cell operations. Three backends implement Gateway: Google
// Sheets, a local xlsx workbook and a local SQLite document.
package gateway

import "context"

// Worksheet is an opaque handle to one tab of the document. ID is stable for
// the lifetime of the worksheet on backends that have one; Title is the
// project name.
type Worksheet struct {
	ID    string
	Title string
	Index int
}

// Row is one spreadsheet row. Number is the 1-based sheet row.
type Row struct {
	Number int
	Cells  []string
}

// Table is a worksheet read as a header row plus data rows. Rows[i] is sheet
// row i+2; blank rows between data rows are kept so indices stay aligned.
type Table struct {
	Header []string
	Rows   []Row
}

// Gateway is the only component that talks to the spreadsheet backend.
// Writes are last-writer-wins. Cell values are normalized to strings on read.
type Gateway interface {
	ListWorksheets(ctx context.Context) ([]Worksheet, error)
	ReadTable(ctx context.Context, ws Worksheet) (*Table, error)
	GetCell(ctx context.Context, ws Worksheet, cell string) (string, error)
	SetCell(ctx context.Context, ws Worksheet, cell string, value any) error
	// SetRange writes a rectangular block in a single backend call.
	SetRange(ctx context.Context, ws Worksheet, rng string, values [][]any) error
	Rename(ctx context.Context, ws Worksheet, newTitle string) error
	Delete(ctx context.Context, ws Worksheet) error
	// Duplicate copies src, cells included, into a new worksheet placed
	// directly after it.
	Duplicate(ctx context.Context, src Worksheet, newTitle string) (Worksheet, error)
}

// FindByTitle returns the worksheet with the given title.
func FindByTitle(sheets []Worksheet, title string) (Worksheet, bool) {
	for _, ws := range sheets {
		if ws.Title == title {
			return ws, true
		}
	}
	return Worksheet{}, false
}
