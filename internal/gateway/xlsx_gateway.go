package gateway

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXGateway works on a local .xlsx workbook. The file is opened on every
// call so edits made in a spreadsheet program show up on the next refresh.
// Worksheet IDs are titles.
type XLSXGateway struct {
	path string
	mu   sync.Mutex
}

func NewXLSXGateway(path string) *XLSXGateway {
	return &XLSXGateway{path: path}
}

// Init creates the workbook with a single worksheet titled title and header
// in row 1 when the file does not exist yet.
func (g *XLSXGateway) Init(title string, header []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := os.Stat(g.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if err := os.MkdirAll(filepath.Dir(g.path), 0755); err != nil {
		return fmt.Errorf("creating workbook directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), title); err != nil {
		return fmt.Errorf("naming first worksheet: %w", err)
	}
	if err := f.SetSheetRow(title, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := f.SaveAs(g.path); err != nil {
		return fmt.Errorf("%w: saving %s: %v", ErrBackendUnavailable, g.path, err)
	}
	return nil
}

// withFile opens the workbook, runs fn and saves when save is set.
func (g *XLSXGateway) withFile(ctx context.Context, save bool, fn func(f *excelize.File) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	f, err := excelize.OpenFile(g.path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrBackendUnavailable, g.path, err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("%w: saving %s: %v", ErrBackendUnavailable, g.path, err)
	}
	return nil
}

func (g *XLSXGateway) ListWorksheets(ctx context.Context) ([]Worksheet, error) {
	var out []Worksheet
	err := g.withFile(ctx, false, func(f *excelize.File) error {
		out = sheetList(f)
		return nil
	})
	return out, err
}

func sheetList(f *excelize.File) []Worksheet {
	names := f.GetSheetList()
	out := make([]Worksheet, 0, len(names))
	for i, name := range names {
		out = append(out, Worksheet{ID: name, Title: name, Index: i})
	}
	return out
}

// resolve finds ws in the workbook. excelize matches sheet names without
// regard to case, so titles are compared the same way.
func resolve(f *excelize.File, ws Worksheet) (string, error) {
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, ws.ID) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrWorksheetNotFound, ws.Title)
}

func titleTaken(f *excelize.File, title string) bool {
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, title) {
			return true
		}
	}
	return false
}

func (g *XLSXGateway) ReadTable(ctx context.Context, ws Worksheet) (*Table, error) {
	var t *Table
	err := g.withFile(ctx, false, func(f *excelize.File) error {
		name, err := resolve(f, ws)
		if err != nil {
			return err
		}
		grid, err := f.GetRows(name)
		if err != nil {
			return fmt.Errorf("reading rows of %q: %w", name, err)
		}
		t, err = buildTable(grid)
		return err
	})
	return t, err
}

func (g *XLSXGateway) GetCell(ctx context.Context, ws Worksheet, cell string) (string, error) {
	if _, _, err := ParseCell(cell); err != nil {
		return "", err
	}
	var v string
	err := g.withFile(ctx, false, func(f *excelize.File) error {
		name, err := resolve(f, ws)
		if err != nil {
			return err
		}
		v, err = f.GetCellValue(name, cell)
		if err != nil {
			return fmt.Errorf("reading %s of %q: %w", cell, name, err)
		}
		return nil
	})
	return v, err
}

func (g *XLSXGateway) SetCell(ctx context.Context, ws Worksheet, cell string, value any) error {
	return g.SetRange(ctx, ws, cell, [][]any{{value}})
}

// SetRange writes every cell in memory and saves the workbook once.
func (g *XLSXGateway) SetRange(ctx context.Context, ws Worksheet, rng string, values [][]any) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}
	if err := checkShape(r, values); err != nil {
		return err
	}
	return g.withFile(ctx, true, func(f *excelize.File) error {
		name, err := resolve(f, ws)
		if err != nil {
			return err
		}
		for i, line := range values {
			for j, v := range line {
				cell, err := CellName(r.FromCol+j, r.FromRow+i)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(name, cell, v); err != nil {
					return fmt.Errorf("writing %s of %q: %w", cell, name, err)
				}
			}
		}
		return nil
	})
}

func (g *XLSXGateway) Rename(ctx context.Context, ws Worksheet, newTitle string) error {
	return g.withFile(ctx, true, func(f *excelize.File) error {
		name, err := resolve(f, ws)
		if err != nil {
			return err
		}
		if name == newTitle {
			return nil
		}
		if !strings.EqualFold(name, newTitle) && titleTaken(f, newTitle) {
			return fmt.Errorf("%w: %q", ErrDuplicateTitle, newTitle)
		}
		if err := f.SetSheetName(name, newTitle); err != nil {
			return fmt.Errorf("renaming %q: %w", name, err)
		}
		return nil
	})
}

func (g *XLSXGateway) Delete(ctx context.Context, ws Worksheet) error {
	return g.withFile(ctx, true, func(f *excelize.File) error {
		name, err := resolve(f, ws)
		if err != nil {
			return err
		}
		if len(f.GetSheetList()) <= 1 {
			return ErrLastWorksheet
		}
		if err := f.DeleteSheet(name); err != nil {
			return fmt.Errorf("deleting %q: %w", name, err)
		}
		return nil
	})
}

// Duplicate copies src into a new worksheet. excelize appends new sheets at
// the end of the workbook, so the copy lands last rather than after src.
func (g *XLSXGateway) Duplicate(ctx context.Context, src Worksheet, newTitle string) (Worksheet, error) {
	var out Worksheet
	err := g.withFile(ctx, true, func(f *excelize.File) error {
		name, err := resolve(f, src)
		if err != nil {
			return err
		}
		if titleTaken(f, newTitle) {
			return fmt.Errorf("%w: %q", ErrDuplicateTitle, newTitle)
		}
		from, err := f.GetSheetIndex(name)
		if err != nil {
			return fmt.Errorf("locating %q: %w", name, err)
		}
		to, err := f.NewSheet(newTitle)
		if err != nil {
			return fmt.Errorf("creating %q: %w", newTitle, err)
		}
		if err := f.CopySheet(from, to); err != nil {
			return fmt.Errorf("copying %q: %w", name, err)
		}
		out = Worksheet{ID: newTitle, Title: newTitle, Index: len(f.GetSheetList()) - 1}
		return nil
	})
	return out, err
}
