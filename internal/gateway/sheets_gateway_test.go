package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const fakeSpreadsheet = "sheet-doc"

type fakeTab struct {
	id    int64
	title string
	grid  [][]string
}

// fakeSheetsAPI serves the subset of the Sheets v4 REST API the gateway uses.
type fakeSheetsAPI struct {
	mu     sync.Mutex
	tabs   []*fakeTab
	nextID int64

	// fail holds status codes returned, in order, before normal handling.
	fail []int
	// failMessage overrides the error message of injected failures.
	failMessage string
	// failBatch fails that many batchUpdate calls with 503.
	failBatch int

	hits    map[string]int
	lastPut struct {
		rng    string
		option string
		values [][]any
	}
	batches []*sheets.BatchUpdateSpreadsheetRequest
}

func newFakeSheetsAPI(titles ...string) *fakeSheetsAPI {
	f := &fakeSheetsAPI{hits: map[string]int{}, nextID: 100}
	for i, title := range titles {
		f.tabs = append(f.tabs, &fakeTab{id: int64(i), title: title, grid: [][]string{append([]string(nil), testHeader...)}})
	}
	return f
}

func (f *fakeSheetsAPI) tab(title string) *fakeTab {
	for _, t := range f.tabs {
		if t.title == title {
			return t
		}
	}
	return nil
}

func (f *fakeSheetsAPI) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": msg},
	})
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	base := "/v4/spreadsheets/" + fakeSpreadsheet
	var kind string
	switch {
	case r.URL.Path == base && r.Method == http.MethodGet:
		kind = "get"
	case r.URL.Path == base+":batchUpdate":
		kind = "batch"
	case strings.HasPrefix(r.URL.Path, base+"/values/") && r.Method == http.MethodGet:
		kind = "values.get"
	case strings.HasPrefix(r.URL.Path, base+"/values/") && r.Method == http.MethodPut:
		kind = "values.update"
	default:
		f.writeError(w, http.StatusNotFound, "no route "+r.URL.Path)
		return
	}
	f.hits[kind]++

	if len(f.fail) > 0 {
		code := f.fail[0]
		f.fail = f.fail[1:]
		msg := f.failMessage
		if msg == "" {
			msg = http.StatusText(code)
		}
		f.writeError(w, code, msg)
		return
	}

	if kind == "batch" && f.failBatch > 0 {
		f.failBatch--
		f.writeError(w, http.StatusServiceUnavailable, "backend error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch kind {
	case "get":
		var out sheets.Spreadsheet
		for i, t := range f.tabs {
			out.Sheets = append(out.Sheets, &sheets.Sheet{Properties: &sheets.SheetProperties{
				SheetId: t.id, Title: t.title, Index: int64(i), ForceSendFields: []string{"SheetId", "Index"},
			}})
		}
		_ = json.NewEncoder(w).Encode(out)

	case "values.get":
		title, a1 := splitQualified(strings.TrimPrefix(r.URL.Path, base+"/values/"))
		t := f.tab(title)
		if t == nil {
			f.writeError(w, http.StatusBadRequest, "Unable to parse range: "+title)
			return
		}
		values := [][]string{}
		if a1 == "A1:ZZ" {
			values = t.grid
		} else {
			col, row, err := ParseCell(a1)
			if err != nil {
				f.writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			if row <= len(t.grid) && col <= len(t.grid[row-1]) && t.grid[row-1][col-1] != "" {
				values = [][]string{{t.grid[row-1][col-1]}}
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"values": values})

	case "values.update":
		rng := strings.TrimPrefix(r.URL.Path, base+"/values/")
		title, a1 := splitQualified(rng)
		t := f.tab(title)
		if t == nil {
			f.writeError(w, http.StatusBadRequest, "Unable to parse range: "+title)
			return
		}
		var body struct {
			Values [][]any `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastPut.rng = rng
		f.lastPut.option = r.URL.Query().Get("valueInputOption")
		f.lastPut.values = body.Values

		cr, _ := ParseRange(a1)
		for i, line := range body.Values {
			for j, v := range line {
				setGrid(t, cr.FromRow+i, cr.FromCol+j, CellString(v))
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"updatedRange": rng})

	case "batch":
		var req sheets.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.batches = append(f.batches, &req)
		var resp sheets.BatchUpdateSpreadsheetResponse
		for _, q := range req.Requests {
			reply := &sheets.Response{}
			switch {
			case q.UpdateSheetProperties != nil:
				for _, t := range f.tabs {
					if t.id == q.UpdateSheetProperties.Properties.SheetId {
						t.title = q.UpdateSheetProperties.Properties.Title
					}
				}
			case q.DeleteSheet != nil:
				for i, t := range f.tabs {
					if t.id == q.DeleteSheet.SheetId {
						f.tabs = append(f.tabs[:i], f.tabs[i+1:]...)
						break
					}
				}
			case q.DuplicateSheet != nil:
				var src *fakeTab
				for _, t := range f.tabs {
					if t.id == q.DuplicateSheet.SourceSheetId {
						src = t
					}
				}
				nt := &fakeTab{id: f.nextID, title: q.DuplicateSheet.NewSheetName}
				f.nextID++
				for _, line := range src.grid {
					nt.grid = append(nt.grid, append([]string(nil), line...))
				}
				at := int(q.DuplicateSheet.InsertSheetIndex)
				f.tabs = append(f.tabs[:at], append([]*fakeTab{nt}, f.tabs[at:]...)...)
				reply.DuplicateSheet = &sheets.DuplicateSheetResponse{Properties: &sheets.SheetProperties{
					SheetId: nt.id, Title: nt.title, Index: int64(at),
				}}
			}
			resp.Replies = append(resp.Replies, reply)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func splitQualified(rng string) (title, a1 string) {
	i := strings.LastIndex(rng, "!")
	title = strings.Trim(rng[:i], "'")
	return strings.ReplaceAll(title, "''", "'"), rng[i+1:]
}

func setGrid(t *fakeTab, row, col int, v string) {
	for len(t.grid) < row {
		t.grid = append(t.grid, []string{})
	}
	for len(t.grid[row-1]) < col {
		t.grid[row-1] = append(t.grid[row-1], "")
	}
	t.grid[row-1][col-1] = v
}

func newTestSheetsGateway(t *testing.T, api *fakeSheetsAPI, retries int) *SheetsGateway {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	return NewSheetsGateway(svc, SheetsOptions{
		SpreadsheetID: fakeSpreadsheet,
		MaxRetries:    retries,
		NewBackOff:    func() backoff.BackOff { return &backoff.ZeroBackOff{} },
	})
}

func TestSheetsGateway_Conformance(t *testing.T) {
	runConformance(t, func(t *testing.T) Gateway {
		return newTestSheetsGateway(t, newFakeSheetsAPI(templateTitle), 0)
	})
}

func TestSheetsGateway_ListWorksheets(t *testing.T) {
	gw := newTestSheetsGateway(t, newFakeSheetsAPI("템플릿", "A동", "B동"), 0)

	all, err := gw.ListWorksheets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Worksheet{
		{ID: "0", Title: "템플릿", Index: 0},
		{ID: "1", Title: "A동", Index: 1},
		{ID: "2", Title: "B동", Index: 2},
	}, all)
}

func TestSheetsGateway_SetRangeSendsOneQualifiedUpdate(t *testing.T) {
	api := newFakeSheetsAPI("템플릿", "A'동")
	gw := newTestSheetsGateway(t, api, 0)
	ws := Worksheet{ID: "1", Title: "A'동"}

	err := gw.SetRange(context.Background(), ws, "E2:G2", [][]any{{"완료", "마무리됨", 100}})
	require.NoError(t, err)

	assert.Equal(t, 1, api.hits["values.update"])
	assert.Equal(t, "'A''동'!E2:G2", api.lastPut.rng)
	assert.Equal(t, "RAW", api.lastPut.option)
	assert.Equal(t, [][]any{{"완료", "마무리됨", float64(100)}}, api.lastPut.values)
}

func TestSheetsGateway_TextIsWrittenVerbatim(t *testing.T) {
	api := newFakeSheetsAPI("템플릿", "A동")
	gw := newTestSheetsGateway(t, api, 0)
	ctx := context.Background()
	ws := Worksheet{ID: "1", Title: "A동"}

	for _, text := range []string{"0012", "1/2", "2024-05-01", `=IMPORTXML("http://x","//a")`} {
		require.NoError(t, gw.SetCell(ctx, ws, "F2", text))
		assert.Equal(t, "RAW", api.lastPut.option, "writing %q", text)

		got, err := gw.GetCell(ctx, ws, "F2")
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}

func TestSheetsGateway_RetriesTransientReads(t *testing.T) {
	api := newFakeSheetsAPI("템플릿")
	api.fail = []int{http.StatusServiceUnavailable, http.StatusTooManyRequests}
	gw := newTestSheetsGateway(t, api, 2)

	all, err := gw.ListWorksheets(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 3, api.hits["get"])
}

func TestSheetsGateway_RetriesExhausted(t *testing.T) {
	api := newFakeSheetsAPI("템플릿")
	api.fail = []int{503, 503, 503}
	gw := newTestSheetsGateway(t, api, 1)

	_, err := gw.GetCell(context.Background(), Worksheet{ID: "0", Title: "템플릿"}, "F2")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Equal(t, 2, api.hits["values.get"])
}

func TestSheetsGateway_AuthFailureNotRetried(t *testing.T) {
	api := newFakeSheetsAPI("템플릿")
	api.fail = []int{http.StatusForbidden}
	gw := newTestSheetsGateway(t, api, 3)

	_, err := gw.ListWorksheets(context.Background())
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Equal(t, 1, api.hits["get"])
}

func TestSheetsGateway_DeleteNotRetried(t *testing.T) {
	api := newFakeSheetsAPI("템플릿", "A동")
	api.failBatch = 1
	gw := newTestSheetsGateway(t, api, 3)

	err := gw.Delete(context.Background(), Worksheet{ID: "1", Title: "A동"})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Equal(t, 1, api.hits["batch"])
	assert.Len(t, api.tabs, 2)
}

func TestSheetsGateway_RenameChecksTitlesFirst(t *testing.T) {
	api := newFakeSheetsAPI("A", "B")
	gw := newTestSheetsGateway(t, api, 0)
	ctx := context.Background()

	err := gw.Rename(ctx, Worksheet{ID: "0", Title: "A"}, "B")
	assert.ErrorIs(t, err, ErrDuplicateTitle)
	assert.Zero(t, api.hits["batch"])

	require.NoError(t, gw.Rename(ctx, Worksheet{ID: "0", Title: "A"}, "A"))
	assert.Zero(t, api.hits["batch"])

	require.NoError(t, gw.Rename(ctx, Worksheet{ID: "0", Title: "A"}, "C"))
	require.Len(t, api.batches, 1)
	props := api.batches[0].Requests[0].UpdateSheetProperties
	assert.Equal(t, "title", props.Fields)
	assert.Equal(t, "C", props.Properties.Title)
}

func TestSheetsGateway_DuplicateAppendsLast(t *testing.T) {
	api := newFakeSheetsAPI("템플릿", "Z")
	gw := newTestSheetsGateway(t, api, 0)

	ws, err := gw.Duplicate(context.Background(), Worksheet{ID: "0", Title: "템플릿"}, "A동")
	require.NoError(t, err)
	assert.Equal(t, Worksheet{ID: "100", Title: "A동", Index: 2}, ws)

	req := api.batches[0].Requests[0].DuplicateSheet
	assert.Equal(t, int64(0), req.SourceSheetId)
	assert.Equal(t, int64(2), req.InsertSheetIndex)
}

func TestSheetsGateway_StaleTitleIsNotFound(t *testing.T) {
	gw := newTestSheetsGateway(t, newFakeSheetsAPI("템플릿"), 0)

	_, err := gw.ReadTable(context.Background(), Worksheet{ID: "0", Title: "옛이름"})
	assert.ErrorIs(t, err, ErrWorksheetNotFound)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.ErrorIs(t, classify(fmt.Errorf("dial tcp: connection refused")), ErrBackendUnavailable)
	assert.ErrorIs(t, classify(context.Canceled), context.Canceled)
}
