package gateway

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openXLSX(t *testing.T) *XLSXGateway {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site", "sitetrack.xlsx")
	gw := NewXLSXGateway(path)
	require.NoError(t, gw.Init(templateTitle, testHeader))
	return gw
}

func TestXLSXGateway_Conformance(t *testing.T) {
	runConformance(t, func(t *testing.T) Gateway {
		return openXLSX(t)
	})
}

func TestXLSXGateway_InitKeepsExistingFile(t *testing.T) {
	gw := openXLSX(t)
	ctx := context.Background()
	all, err := gw.ListWorksheets(ctx)
	require.NoError(t, err)
	require.NoError(t, gw.SetCell(ctx, all[0], "F2", "유지"))

	require.NoError(t, gw.Init("다른이름", testHeader))

	v, err := gw.GetCell(ctx, all[0], "F2")
	require.NoError(t, err)
	assert.Equal(t, "유지", v)
}

func TestXLSXGateway_SeesExternalEdits(t *testing.T) {
	gw := openXLSX(t)
	ctx := context.Background()

	f, err := excelize.OpenFile(gw.path)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue(templateTitle, "F2", "외부 수정"))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	v, err := gw.GetCell(ctx, Worksheet{ID: templateTitle, Title: templateTitle}, "F2")
	require.NoError(t, err)
	assert.Equal(t, "외부 수정", v)
}

func TestXLSXGateway_MissingFileIsUnavailable(t *testing.T) {
	gw := NewXLSXGateway(filepath.Join(t.TempDir(), "nope.xlsx"))
	_, err := gw.ListWorksheets(context.Background())
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestXLSXGateway_CorruptFileIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := NewXLSXGateway(path).ListWorksheets(context.Background())
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}
