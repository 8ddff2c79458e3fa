package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsOptions configures a SheetsGateway.
type SheetsOptions struct {
	SpreadsheetID string
	// MaxRetries bounds retries of idempotent calls on 429, 5xx and
	// network errors. Zero disables retries.
	MaxRetries int
	// Timeout applies to each backend call, retries included.
	Timeout time.Duration
	// NewBackOff overrides the retry schedule; tests use a zero backoff.
	NewBackOff func() backoff.BackOff
}

// SheetsGateway talks to one Google Sheets spreadsheet through the v4 API.
// Worksheet IDs are the numeric sheetId.
type SheetsGateway struct {
	svc  *sheets.Service
	opts SheetsOptions
}

func NewSheetsGateway(svc *sheets.Service, opts SheetsOptions) *SheetsGateway {
	if opts.NewBackOff == nil {
		opts.NewBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 300 * time.Millisecond
			b.MaxInterval = 3 * time.Second
			return b
		}
	}
	return &SheetsGateway{svc: svc, opts: opts}
}

// NewSheetsService builds an authenticated client from a service-account key.
func NewSheetsService(ctx context.Context, credentialsFile string, extra ...option.ClientOption) (*sheets.Service, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	opts := append([]option.ClientOption{option.WithCredentials(creds)}, extra...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return svc, nil
}

// call runs op under the per-call timeout. Idempotent calls are retried on
// transient failures; the error that escapes is classified.
func (g *SheetsGateway) call(ctx context.Context, idempotent bool, op func(ctx context.Context) error) error {
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}
	if !idempotent || g.opts.MaxRetries <= 0 {
		return classify(op(ctx))
	}
	b := backoff.WithContext(backoff.WithMaxRetries(g.opts.NewBackOff(), uint64(g.opts.MaxRetries)), ctx)
	err := backoff.Retry(func() error {
		err := op(ctx)
		if err != nil && !transient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
	return classify(err)
}

func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500
	}
	return true
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	msg := strings.ToLower(gerr.Message)
	switch {
	case gerr.Code == http.StatusBadRequest && strings.Contains(msg, "already exists"):
		return fmt.Errorf("%w: %s", ErrDuplicateTitle, gerr.Message)
	case gerr.Code == http.StatusBadRequest && strings.Contains(msg, "unable to parse range"):
		return fmt.Errorf("%w: %s", ErrWorksheetNotFound, gerr.Message)
	case gerr.Code == http.StatusBadRequest && strings.Contains(msg, "no grid with id"):
		return fmt.Errorf("%w: %s", ErrWorksheetNotFound, gerr.Message)
	case gerr.Code == http.StatusBadRequest:
		return fmt.Errorf("sheets request rejected: %w", err)
	default:
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
}

func (g *SheetsGateway) ListWorksheets(ctx context.Context) ([]Worksheet, error) {
	var out []Worksheet
	err := g.call(ctx, true, func(ctx context.Context) error {
		ss, err := g.svc.Spreadsheets.Get(g.opts.SpreadsheetID).Fields("sheets.properties").Context(ctx).Do()
		if err != nil {
			return err
		}
		out = out[:0]
		for _, sh := range ss.Sheets {
			if sh.Properties == nil {
				continue
			}
			out = append(out, Worksheet{
				ID:    strconv.FormatInt(sh.Properties.SheetId, 10),
				Title: sh.Properties.Title,
				Index: int(sh.Properties.Index),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing worksheets: %w", err)
	}
	return out, nil
}

func (g *SheetsGateway) getValues(ctx context.Context, rng string) ([][]string, error) {
	var grid [][]string
	err := g.call(ctx, true, func(ctx context.Context) error {
		vr, err := g.svc.Spreadsheets.Values.Get(g.opts.SpreadsheetID, rng).
			ValueRenderOption("FORMATTED_VALUE").Context(ctx).Do()
		if err != nil {
			return err
		}
		grid = make([][]string, len(vr.Values))
		for i, line := range vr.Values {
			cells := make([]string, len(line))
			for j, v := range line {
				cells[j] = CellString(v)
			}
			grid[i] = trimRow(cells)
		}
		return nil
	})
	return grid, err
}

func (g *SheetsGateway) ReadTable(ctx context.Context, ws Worksheet) (*Table, error) {
	grid, err := g.getValues(ctx, qualify(ws.Title, "A1:ZZ"))
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", ws.Title, err)
	}
	return buildTable(grid)
}

func (g *SheetsGateway) GetCell(ctx context.Context, ws Worksheet, cell string) (string, error) {
	if _, _, err := ParseCell(cell); err != nil {
		return "", err
	}
	grid, err := g.getValues(ctx, qualify(ws.Title, cell))
	if err != nil {
		return "", fmt.Errorf("reading %s of %q: %w", cell, ws.Title, err)
	}
	if len(grid) == 0 || len(grid[0]) == 0 {
		return "", nil
	}
	return grid[0][0], nil
}

func (g *SheetsGateway) SetCell(ctx context.Context, ws Worksheet, cell string, value any) error {
	return g.SetRange(ctx, ws, cell, [][]any{{value}})
}

// SetRange issues one values.update. Values are stored RAW so user text such
// as "0012", "1/2" or "=..." is kept verbatim instead of being parsed into a
// number, date or formula; numbers still arrive as JSON numbers.
func (g *SheetsGateway) SetRange(ctx context.Context, ws Worksheet, rng string, values [][]any) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}
	if err := checkShape(r, values); err != nil {
		return err
	}
	body := &sheets.ValueRange{Values: values}
	err = g.call(ctx, true, func(ctx context.Context) error {
		_, err := g.svc.Spreadsheets.Values.Update(g.opts.SpreadsheetID, qualify(ws.Title, RangeName(r)), body).
			ValueInputOption("RAW").Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("writing %s of %q: %w", rng, ws.Title, err)
	}
	return nil
}

func (g *SheetsGateway) batch(ctx context.Context, idempotent bool, reqs ...*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	var resp *sheets.BatchUpdateSpreadsheetResponse
	err := g.call(ctx, idempotent, func(ctx context.Context) error {
		var err error
		resp, err = g.svc.Spreadsheets.BatchUpdate(g.opts.SpreadsheetID,
			&sheets.BatchUpdateSpreadsheetRequest{Requests: reqs}).Context(ctx).Do()
		return err
	})
	return resp, err
}

// current re-lists worksheets and finds ws by sheetId.
func (g *SheetsGateway) current(ctx context.Context, ws Worksheet) (Worksheet, []Worksheet, error) {
	all, err := g.ListWorksheets(ctx)
	if err != nil {
		return Worksheet{}, nil, err
	}
	for _, w := range all {
		if w.ID == ws.ID {
			return w, all, nil
		}
	}
	return Worksheet{}, nil, fmt.Errorf("%w: %q", ErrWorksheetNotFound, ws.Title)
}

func sheetID(ws Worksheet) (int64, error) {
	id, err := strconv.ParseInt(ws.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad sheet id %q", ErrWorksheetNotFound, ws.ID)
	}
	return id, nil
}

func (g *SheetsGateway) Rename(ctx context.Context, ws Worksheet, newTitle string) error {
	id, err := sheetID(ws)
	if err != nil {
		return err
	}
	cur, all, err := g.current(ctx, ws)
	if err != nil {
		return err
	}
	if cur.Title == newTitle {
		return nil
	}
	if _, taken := FindByTitle(all, newTitle); taken {
		return fmt.Errorf("%w: %q", ErrDuplicateTitle, newTitle)
	}
	_, err = g.batch(ctx, true, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{SheetId: id, Title: newTitle, ForceSendFields: []string{"SheetId"}},
			Fields:     "title",
		},
	})
	if err != nil {
		return fmt.Errorf("renaming %q: %w", cur.Title, err)
	}
	return nil
}

func (g *SheetsGateway) Delete(ctx context.Context, ws Worksheet) error {
	id, err := sheetID(ws)
	if err != nil {
		return err
	}
	cur, all, err := g.current(ctx, ws)
	if err != nil {
		return err
	}
	if len(all) <= 1 {
		return ErrLastWorksheet
	}
	_, err = g.batch(ctx, false, &sheets.Request{
		DeleteSheet: &sheets.DeleteSheetRequest{SheetId: id, ForceSendFields: []string{"SheetId"}},
	})
	if err != nil {
		return fmt.Errorf("deleting %q: %w", cur.Title, err)
	}
	return nil
}

func (g *SheetsGateway) Duplicate(ctx context.Context, src Worksheet, newTitle string) (Worksheet, error) {
	id, err := sheetID(src)
	if err != nil {
		return Worksheet{}, err
	}
	cur, all, err := g.current(ctx, src)
	if err != nil {
		return Worksheet{}, err
	}
	if _, taken := FindByTitle(all, newTitle); taken {
		return Worksheet{}, fmt.Errorf("%w: %q", ErrDuplicateTitle, newTitle)
	}
	resp, err := g.batch(ctx, false, &sheets.Request{
		DuplicateSheet: &sheets.DuplicateSheetRequest{
			SourceSheetId:    id,
			InsertSheetIndex: int64(len(all)),
			NewSheetName:     newTitle,
			ForceSendFields:  []string{"SourceSheetId", "InsertSheetIndex"},
		},
	})
	if err != nil {
		return Worksheet{}, fmt.Errorf("duplicating %q: %w", cur.Title, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].DuplicateSheet == nil || resp.Replies[0].DuplicateSheet.Properties == nil {
		return Worksheet{}, fmt.Errorf("%w: empty duplicate reply", ErrBackendUnavailable)
	}
	p := resp.Replies[0].DuplicateSheet.Properties
	return Worksheet{ID: strconv.FormatInt(p.SheetId, 10), Title: p.Title, Index: int(p.Index)}, nil
}
