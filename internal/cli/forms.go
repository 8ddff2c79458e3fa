package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/app"
	"github.com/alexanderramin/sitetrack/internal/cli/formatter"
	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/gateway"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// sitetrackHuhTheme returns a huh theme using the formatter palette.
func sitetrackHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func themedForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(sitetrackHuhTheme()).WithShowHelp(false)
}

// ── validators ───────────────────────────────────────────────────────────────

// validateProgress accepts an integer percentage in 0..100.
func validateProgress(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || domain.ValidateProgress(n) != nil {
		msg, _ := app.Describe(&domain.ValidationError{Field: "progress", Message: "out of range"})
		return errors.New(msg)
	}
	return nil
}

// validateTitle applies the worksheet title rules.
func validateTitle(s string) error {
	if _, err := domain.NormalizeTitle(s); err != nil {
		msg, _ := app.Describe(err)
		return errors.New(msg)
	}
	return nil
}

// ── forms ────────────────────────────────────────────────────────────────────

// newWeeklyNoteForm edits F2 of ws, starting from the current note.
func newWeeklyNoteForm(state *SharedState, ws gateway.Worksheet, current string) *wizardView {
	text := current
	form := themedForm(huh.NewGroup(
		huh.NewText().
			Title("주간 특이사항").
			Description("enter: 저장  alt+enter: 줄바꿈").
			Lines(6).
			CharLimit(0).
			Value(&text),
	))
	return newWizardView(state, "주간 특이사항", form, func() tea.Cmd {
		return saveWeeklyNoteCmd(state.App, ws, text)
	})
}

// newTaskEditForm edits the status, note and progress of one task row.
// Name and dates are not editable.
func newTaskEditForm(state *SharedState, ws gateway.Worksheet, task domain.Task) *wizardView {
	status := task.Status
	if !status.Valid() {
		status = domain.StatusPlanned
	}
	note := task.Note
	progress := strconv.Itoa(task.Progress)

	options := make([]huh.Option[domain.TaskStatus], 0, len(domain.TaskStatuses))
	for _, s := range domain.TaskStatuses {
		options = append(options, huh.NewOption(string(s), s))
	}

	desc := fmt.Sprintf("%d행 · %s ~ %s", task.SheetRow(), task.StartLabel(), task.EndLabel())
	if task.Degraded {
		desc += " · " + strings.Join(task.Issues, ", ")
	}

	form := themedForm(huh.NewGroup(
		huh.NewSelect[domain.TaskStatus]().
			Title(task.Name).
			Description(desc).
			Options(options...).
			Value(&status),
		huh.NewInput().
			Title("비고").
			Value(&note),
		huh.NewInput().
			Title("진행률 (0-100)").
			Placeholder("0").
			Value(&progress).
			Validate(validateProgress),
	))
	return newWizardView(state, "작업 수정", form, func() tea.Cmd {
		p, _ := strconv.Atoi(strings.TrimSpace(progress))
		return saveTaskEditCmd(state.App, ws, app.TaskEdit{
			Row:      task.Row,
			Status:   status,
			Note:     note,
			Progress: p,
		})
	})
}

// newRenameForm asks for a new title. problem is shown when the previous
// attempt was rejected, e.g. for a duplicate title.
func newRenameForm(state *SharedState, ws gateway.Worksheet, initial, problem string) *wizardView {
	title := initial
	desc := fmt.Sprintf("현재 이름: %s · 최대 %d자", ws.Title, domain.MaxTitleLen)
	if problem != "" {
		desc = "⚠ " + problem
	}
	form := themedForm(huh.NewGroup(
		huh.NewInput().
			Title("새 이름").
			Description(desc).
			Value(&title).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == ws.Title {
					return nil
				}
				return validateTitle(s)
			}),
	))
	return newWizardView(state, "이름 변경", form, func() tea.Cmd {
		return renameProjectCmd(state, ws, title)
	})
}

// newDeleteConfirmForm asks before deleting ws.
func newDeleteConfirmForm(state *SharedState, ws gateway.Worksheet) *wizardView {
	var confirmed bool
	form := themedForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("%q 프로젝트를 삭제할까요?", ws.Title)).
			Description("시트와 모든 작업이 삭제됩니다.").
			Affirmative("삭제").
			Negative("취소").
			Value(&confirmed),
	))
	return newWizardView(state, "삭제", form, func() tea.Cmd {
		if !confirmed {
			return showNotice("삭제를 취소했습니다.")
		}
		return deleteProjectCmd(state.App, ws)
	})
}

// newCreateProjectForm asks for the title of a project created from the
// template worksheet.
func newCreateProjectForm(state *SharedState) *wizardView {
	var title string
	form := themedForm(huh.NewGroup(
		huh.NewInput().
			Title("프로젝트 이름").
			Description(fmt.Sprintf("템플릿 시트를 복사해 만듭니다 · 최대 %d자", domain.MaxTitleLen)).
			CharLimit(domain.MaxTitleLen).
			Value(&title).
			Validate(validateTitle),
	))
	return newWizardView(state, "새 프로젝트", form, func() tea.Cmd {
		return createProjectCmd(state.App, title)
	})
}
