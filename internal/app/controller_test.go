package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/gateway"
	"github.com/alexanderramin/sitetrack/internal/service"
	"github.com/alexanderramin/sitetrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T, gw gateway.Gateway, obs ...IntentObserver) *DashboardController {
	t.Helper()
	return NewDashboardController(service.NewProjectService(gw, testutil.TemplateTitle), gw, obs...)
}

func setupController(t *testing.T) (*testutil.RecordingGateway, *DashboardController) {
	t.Helper()
	rec := testutil.NewRecordingGateway(testutil.NewTestGateway(t))
	return rec, newController(t, rec)
}

func TestSaveWeeklyNote(t *testing.T) {
	rec, c := setupController(t)
	ctx := context.Background()
	ws := testutil.SeedProject(t, rec, "A동", testutil.WithWeeklyNote("old"))

	out := c.SaveWeeklyNote(ctx, ws, "새 이슈")
	require.True(t, out.OK, out.Message)
	assert.True(t, out.Refresh)

	view, err := c.Open(ctx, ws)
	require.NoError(t, err)
	assert.Equal(t, "새 이슈", view.WeeklyNote)
}

func TestSaveTaskEdit_Success(t *testing.T) {
	rec, c := setupController(t)
	ctx := context.Background()
	ws := testutil.SeedProject(t, rec, "A동",
		testutil.WithTask("기초공사", "2024-01-01", "2024-02-01", "진행중", "", 40))
	rec.Reset()

	out := c.SaveTaskEdit(ctx, ws, TaskEdit{Row: 0, Status: domain.StatusDone, Note: "마무리됨", Progress: 100})
	require.True(t, out.OK, out.Message)
	assert.True(t, out.Refresh)
	assert.Empty(t, out.Hint)

	muts := rec.Mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, "E2:G2", muts[0].Target)
}

func TestSaveTaskEdit_AdvisoryHint(t *testing.T) {
	rec, c := setupController(t)
	ws := testutil.SeedProject(t, rec, "A동",
		testutil.WithTask("기초공사", "2024-01-01", "2024-02-01", "진행중", "", 40))

	out := c.SaveTaskEdit(context.Background(), ws, TaskEdit{Row: 0, Status: domain.StatusDone, Progress: 80})
	require.True(t, out.OK)
	assert.NotEmpty(t, out.Hint)
}

func TestSaveTaskEdit_ValidationStaysInForm(t *testing.T) {
	rec, c := setupController(t)
	ws := testutil.SeedProject(t, rec, "A동",
		testutil.WithTask("기초공사", "2024-01-01", "2024-02-01", "진행중", "", 40))
	rec.Reset()

	out := c.SaveTaskEdit(context.Background(), ws, TaskEdit{Row: 0, Status: domain.StatusInProgress, Progress: 150})

	assert.False(t, out.OK)
	assert.False(t, out.Refresh)
	assert.Equal(t, PlaceInline, out.Placement)
	assert.Contains(t, out.Message, "진행률")
	assert.ErrorIs(t, out.Err, domain.ErrValidation)
	assert.Empty(t, rec.Calls())
}

func TestSaveTaskEdit_FailedWriteRefreshes(t *testing.T) {
	rec, c := setupController(t)
	ws := testutil.SeedProject(t, rec, "A동",
		testutil.WithTask("기초공사", "2024-01-01", "2024-02-01", "진행중", "", 40))
	rec.Fail["SetRange"] = fmt.Errorf("%w: timeout", gateway.ErrBackendUnavailable)

	out := c.SaveTaskEdit(context.Background(), ws, TaskEdit{Row: 0, Status: domain.StatusDone, Progress: 100})

	assert.False(t, out.OK)
	assert.True(t, out.Refresh)
	assert.Equal(t, PlaceBanner, out.Placement)
}

func TestSaveTaskEdit_PartialWriteRolledBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	base := testutil.NewTestGatewayWithUoW(t, database, nil)
	ws := testutil.SeedProject(t, base, "A동",
		testutil.WithTask("기초공사", "2024-01-01", "2024-02-01", "진행중", "", 40))

	failing := testutil.NewTestGatewayWithUoW(t, database, &testutil.FailOnNthExecUoW{
		DB: database, FailOn: 2, Err: errors.New("disk I/O error"),
	})
	c := newController(t, failing)

	out := c.SaveTaskEdit(context.Background(), ws, TaskEdit{Row: 0, Status: domain.StatusDone, Note: "x", Progress: 100})
	assert.False(t, out.OK)
	assert.True(t, out.Refresh)

	view, err := newController(t, base).Open(context.Background(), ws)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, view.Tasks[0].Status)
	assert.Equal(t, 40, view.Tasks[0].Progress)
}

func TestDeleteProject_LastWorksheetGuard(t *testing.T) {
	rec, c := setupController(t)
	ctx := context.Background()
	all, err := rec.ListWorksheets(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	rec.Reset()

	out := c.DeleteProject(ctx, all[0])

	assert.False(t, out.OK)
	assert.ErrorIs(t, out.Err, gateway.ErrLastWorksheet)
	assert.Equal(t, PlaceDeleteControl, out.Placement)
	assert.Empty(t, rec.Mutations())

	after, err := rec.ListWorksheets(ctx)
	require.NoError(t, err)
	assert.Len(t, after, 1)
}

func TestDeleteProject(t *testing.T) {
	rec, c := setupController(t)
	ctx := context.Background()
	ws := testutil.SeedProject(t, rec, "A동")

	out := c.DeleteProject(ctx, ws)
	require.True(t, out.OK, out.Message)
	assert.True(t, out.Refresh)

	projects, err := c.Projects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestRenameProject_DuplicateTitle(t *testing.T) {
	rec, c := setupController(t)
	ctx := context.Background()
	a := testutil.SeedProject(t, rec, "A")
	testutil.SeedProject(t, rec, "B")

	out := c.RenameProject(ctx, a, "B")

	assert.False(t, out.OK)
	assert.ErrorIs(t, out.Err, gateway.ErrDuplicateTitle)
	assert.Equal(t, PlaceRenameForm, out.Placement)
	assert.Contains(t, out.Message, "B")

	projects, err := c.Projects(ctx)
	require.NoError(t, err)
	_, ok := gateway.FindByTitle(projects, "A")
	assert.True(t, ok, "A keeps its title")
}

func TestRenameProject_UnchangedTitleMakesNoCall(t *testing.T) {
	rec, c := setupController(t)
	a := testutil.SeedProject(t, rec, "A")
	rec.Reset()

	out := c.RenameProject(context.Background(), a, " A ")

	assert.True(t, out.OK)
	assert.False(t, out.Refresh)
	assert.Empty(t, rec.Calls())
}

func TestRenameProject_UnchangedTitleSkipsTitleRules(t *testing.T) {
	rec, c := setupController(t)
	// Sheets accepts '/' in titles; renaming to the same title is still a no-op.
	ws := testutil.SeedProject(t, rec, "1/2 공구")
	rec.Reset()

	out := c.RenameProject(context.Background(), ws, ws.Title)

	assert.True(t, out.OK, out.Message)
	assert.NoError(t, out.Err)
	assert.Empty(t, rec.Calls())
}

func TestRenameProject_EmptyTitle(t *testing.T) {
	rec, c := setupController(t)
	a := testutil.SeedProject(t, rec, "A")
	rec.Reset()

	out := c.RenameProject(context.Background(), a, "  ")

	assert.False(t, out.OK)
	assert.ErrorIs(t, out.Err, domain.ErrValidation)
	assert.Equal(t, PlaceRenameForm, out.Placement)
	assert.Empty(t, rec.Calls())
}

func TestRenameProject(t *testing.T) {
	rec, c := setupController(t)
	ctx := context.Background()
	a := testutil.SeedProject(t, rec, "A")

	out := c.RenameProject(ctx, a, "신축 A동")
	require.True(t, out.OK, out.Message)
	assert.True(t, out.Refresh)
	assert.Equal(t, "신축 A동", out.Worksheet.Title)

	projects, err := c.Projects(ctx)
	require.NoError(t, err)
	_, ok := gateway.FindByTitle(projects, "신축 A동")
	assert.True(t, ok)
}

func TestCreateProject(t *testing.T) {
	_, c := setupController(t)
	ctx := context.Background()

	out := c.CreateProject(ctx, "C동")
	require.True(t, out.OK, out.Message)
	assert.Equal(t, "C동", out.Worksheet.Title)

	view, err := c.Open(ctx, out.Worksheet)
	require.NoError(t, err)
	assert.False(t, view.HeaderMismatch)
	assert.Empty(t, view.VisibleTasks())

	out = c.CreateProject(ctx, "C동")
	assert.ErrorIs(t, out.Err, gateway.ErrDuplicateTitle)
}

func TestCreateProject_NoTemplate(t *testing.T) {
	rec := testutil.NewRecordingGateway(testutil.NewTestGateway(t))
	c := NewDashboardController(service.NewProjectService(rec, ""), rec)

	out := c.CreateProject(context.Background(), "C동")
	assert.False(t, out.OK)
	assert.Equal(t, PlaceBanner, out.Placement)
	assert.Empty(t, rec.Mutations())
}

func TestControllerLogsIntents(t *testing.T) {
	var buf bytes.Buffer
	rec := testutil.NewRecordingGateway(testutil.NewTestGateway(t))
	c := newController(t, rec, NewTextLogIntentObserver(&buf))
	ws := testutil.SeedProject(t, rec, "A동")

	c.SaveTaskEdit(context.Background(), ws, TaskEdit{Row: 0, Status: "보류", Progress: 10})

	out := buf.String()
	assert.Contains(t, out, "dashboard_intent")
	assert.Contains(t, out, "intent=save_task_edit")
	assert.Contains(t, out, "success=false")
	assert.Contains(t, out, "level=ERROR")
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		err   error
		place Placement
	}{
		{fmt.Errorf("x: %w", gateway.ErrBackendUnavailable), PlaceBanner},
		{gateway.ErrDuplicateTitle, PlaceRenameForm},
		{gateway.ErrLastWorksheet, PlaceDeleteControl},
		{gateway.ErrMalformedSheet, PlaceBlocking},
		{gateway.ErrWorksheetNotFound, PlaceBanner},
		{&domain.ValidationError{Field: "status", Message: "bad"}, PlaceInline},
		{errors.New("mystery"), PlaceBanner},
	}
	for _, tc := range cases {
		msg, place := Describe(tc.err)
		assert.NotEmpty(t, msg, "%v", tc.err)
		assert.Equal(t, tc.place, place, "%v", tc.err)
	}

	msg, place := Describe(nil)
	assert.Empty(t, msg)
	assert.Equal(t, PlaceNone, place)
}
