package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeader = []string{"No", "구분", "시작일", "종료일", "진행상태", "비고", "진행률"}

const templateTitle = "템플릿"

// runConformance exercises the Gateway contract. open must return a
// document holding exactly one worksheet, templateTitle, with testHeader in
// row 1.
func runConformance(t *testing.T, open func(t *testing.T) Gateway) {
	ctx := context.Background()

	mustFind := func(t *testing.T, gw Gateway, title string) Worksheet {
		t.Helper()
		all, err := gw.ListWorksheets(ctx)
		require.NoError(t, err)
		ws, ok := FindByTitle(all, title)
		require.True(t, ok, "worksheet %q", title)
		return ws
	}

	t.Run("seeded template has header only", func(t *testing.T) {
		gw := open(t)
		all, err := gw.ListWorksheets(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, templateTitle, all[0].Title)

		table, err := gw.ReadTable(ctx, all[0])
		require.NoError(t, err)
		assert.Equal(t, testHeader, table.Header)
		assert.Empty(t, table.Rows)
	})

	t.Run("set range then read", func(t *testing.T) {
		gw := open(t)
		ws := mustFind(t, gw, templateTitle)

		require.NoError(t, gw.SetRange(ctx, ws, "B2:D2", [][]any{{"기초공사", "2024-01-01", "2024-02-01"}}))
		require.NoError(t, gw.SetRange(ctx, ws, "E2:G2", [][]any{{"완료", "마무리됨", 100}}))
		require.NoError(t, gw.SetCell(ctx, ws, "B4", "골조"))

		v, err := gw.GetCell(ctx, ws, "G2")
		require.NoError(t, err)
		assert.Equal(t, "100", v)

		v, err = gw.GetCell(ctx, ws, "F2")
		require.NoError(t, err)
		assert.Equal(t, "마무리됨", v)

		table, err := gw.ReadTable(ctx, ws)
		require.NoError(t, err)
		require.Len(t, table.Rows, 3, "blank row 3 is kept")
		assert.Equal(t, 2, table.Rows[0].Number)
		assert.Equal(t, []string{"", "기초공사", "2024-01-01", "2024-02-01", "완료", "마무리됨", "100"}, table.Rows[0].Cells)
		assert.Empty(t, table.Rows[1].Cells)
		assert.Equal(t, 4, table.Rows[2].Number)
		assert.Equal(t, "골조", table.Rows[2].Cells[1])
	})

	t.Run("empty cell reads as empty string", func(t *testing.T) {
		gw := open(t)
		ws := mustFind(t, gw, templateTitle)
		v, err := gw.GetCell(ctx, ws, "F2")
		require.NoError(t, err)
		assert.Equal(t, "", v)
	})

	t.Run("range shape must match", func(t *testing.T) {
		gw := open(t)
		ws := mustFind(t, gw, templateTitle)
		err := gw.SetRange(ctx, ws, "E2:G2", [][]any{{"완료", 100}})
		assert.ErrorIs(t, err, ErrInvalidRange)

		v, err := gw.GetCell(ctx, ws, "E2")
		require.NoError(t, err)
		assert.Equal(t, "", v)
	})

	t.Run("duplicate copies cells", func(t *testing.T) {
		gw := open(t)
		tpl := mustFind(t, gw, templateTitle)

		ws, err := gw.Duplicate(ctx, tpl, "A동")
		require.NoError(t, err)
		assert.Equal(t, "A동", ws.Title)

		table, err := gw.ReadTable(ctx, ws)
		require.NoError(t, err)
		assert.Equal(t, testHeader, table.Header)

		_, err = gw.Duplicate(ctx, tpl, "A동")
		assert.ErrorIs(t, err, ErrDuplicateTitle)

		all, err := gw.ListWorksheets(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("duplicates are appended in creation order", func(t *testing.T) {
		gw := open(t)
		tpl := mustFind(t, gw, templateTitle)
		for _, title := range []string{"강남 현장", "판교 현장", "A"} {
			_, err := gw.Duplicate(ctx, tpl, title)
			require.NoError(t, err)
		}

		all, err := gw.ListWorksheets(ctx)
		require.NoError(t, err)
		var titles []string
		for _, ws := range all {
			titles = append(titles, ws.Title)
		}
		assert.Equal(t, []string{templateTitle, "강남 현장", "판교 현장", "A"}, titles)
	})

	t.Run("rename onto existing title fails", func(t *testing.T) {
		gw := open(t)
		tpl := mustFind(t, gw, templateTitle)
		_, err := gw.Duplicate(ctx, tpl, "A")
		require.NoError(t, err)
		_, err = gw.Duplicate(ctx, tpl, "B")
		require.NoError(t, err)

		a := mustFind(t, gw, "A")
		err = gw.Rename(ctx, a, "B")
		assert.ErrorIs(t, err, ErrDuplicateTitle)

		mustFind(t, gw, "A")
	})

	t.Run("rename", func(t *testing.T) {
		gw := open(t)
		tpl := mustFind(t, gw, templateTitle)
		_, err := gw.Duplicate(ctx, tpl, "A")
		require.NoError(t, err)

		require.NoError(t, gw.Rename(ctx, mustFind(t, gw, "A"), "A"))
		require.NoError(t, gw.Rename(ctx, mustFind(t, gw, "A"), "신축 A동"))

		all, err := gw.ListWorksheets(ctx)
		require.NoError(t, err)
		_, ok := FindByTitle(all, "A")
		assert.False(t, ok)
		mustFind(t, gw, "신축 A동")
	})

	t.Run("last worksheet cannot be deleted", func(t *testing.T) {
		gw := open(t)
		ws := mustFind(t, gw, templateTitle)

		err := gw.Delete(ctx, ws)
		assert.ErrorIs(t, err, ErrLastWorksheet)

		all, err := gw.ListWorksheets(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("delete", func(t *testing.T) {
		gw := open(t)
		tpl := mustFind(t, gw, templateTitle)
		ws, err := gw.Duplicate(ctx, tpl, "A")
		require.NoError(t, err)

		require.NoError(t, gw.Delete(ctx, ws))

		all, err := gw.ListWorksheets(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, templateTitle, all[0].Title)
	})

	t.Run("unknown worksheet", func(t *testing.T) {
		gw := open(t)
		ghost := Worksheet{ID: "999999", Title: "없음"}

		_, err := gw.ReadTable(ctx, ghost)
		assert.ErrorIs(t, err, ErrWorksheetNotFound)
		_, err = gw.GetCell(ctx, ghost, "F2")
		assert.ErrorIs(t, err, ErrWorksheetNotFound)
		assert.ErrorIs(t, gw.SetCell(ctx, ghost, "F2", "x"), ErrWorksheetNotFound)
		assert.ErrorIs(t, gw.Rename(ctx, ghost, "x"), ErrWorksheetNotFound)
	})

	t.Run("blank header is malformed", func(t *testing.T) {
		gw := open(t)
		tpl := mustFind(t, gw, templateTitle)
		blankRow := make([]any, len(testHeader))
		for i := range blankRow {
			blankRow[i] = ""
		}
		require.NoError(t, gw.SetRange(ctx, tpl, "A1:G1", [][]any{blankRow}))

		_, err := gw.ReadTable(ctx, tpl)
		assert.ErrorIs(t, err, ErrMalformedSheet)
	})
}
