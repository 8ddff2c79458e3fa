package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/app"
	"github.com/alexanderramin/sitetrack/internal/gateway"
)

// resolveProject finds a project worksheet by title. The input can be:
//   - the exact title
//   - the title in a different case
//   - an unambiguous title prefix
func resolveProject(ctx context.Context, a *App, input string) (gateway.Worksheet, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return gateway.Worksheet{}, fmt.Errorf("project name is required")
	}

	projects, err := a.Projects.Projects(ctx)
	if err != nil {
		return gateway.Worksheet{}, err
	}

	if ws, ok := gateway.FindByTitle(projects, input); ok {
		return ws, nil
	}

	var folded []gateway.Worksheet
	for _, ws := range projects {
		if strings.EqualFold(ws.Title, input) {
			folded = append(folded, ws)
		}
	}
	if len(folded) == 1 {
		return folded[0], nil
	}

	var matches []gateway.Worksheet
	lower := strings.ToLower(input)
	for _, ws := range projects {
		if strings.HasPrefix(strings.ToLower(ws.Title), lower) {
			matches = append(matches, ws)
		}
	}

	switch len(matches) {
	case 0:
		return gateway.Worksheet{}, fmt.Errorf("%w: %q", gateway.ErrWorksheetNotFound, input)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, ws := range matches {
			names[i] = ws.Title
		}
		return gateway.Worksheet{}, fmt.Errorf("project %q is ambiguous: %s", input, strings.Join(names, ", "))
	}
}

// resolveProjectExact finds a project by its exact title only. Destructive
// commands use it so a typo or prefix never selects another worksheet.
func resolveProjectExact(ctx context.Context, a *App, input string) (gateway.Worksheet, error) {
	title := strings.TrimSpace(input)
	if title == "" {
		return gateway.Worksheet{}, fmt.Errorf("project name is required")
	}
	projects, err := a.Projects.Projects(ctx)
	if err != nil {
		return gateway.Worksheet{}, err
	}
	if ws, ok := gateway.FindByTitle(projects, title); ok {
		return ws, nil
	}
	if ws, err := resolveProject(ctx, a, title); err == nil {
		return gateway.Worksheet{}, fmt.Errorf("%w: %q (did you mean %q? delete needs the exact title)",
			gateway.ErrWorksheetNotFound, title, ws.Title)
	}
	return gateway.Worksheet{}, fmt.Errorf("%w: %q", gateway.ErrWorksheetNotFound, title)
}

// outcomeError reports a failed intent from a CLI command. The message is
// the user-facing one; the cause stays reachable through errors.Is.
type outcomeError struct {
	out app.Outcome
}

func (e *outcomeError) Error() string {
	if e.out.Err != nil && e.out.Message == "" {
		return e.out.Err.Error()
	}
	return e.out.Message
}

func (e *outcomeError) Unwrap() error { return e.out.Err }

// outcomeResult turns an outcome into command output: the message (and any
// advisory hint) on success, an error otherwise.
func outcomeResult(out app.Outcome) (string, error) {
	if !out.OK {
		return "", &outcomeError{out: out}
	}
	msg := out.Message
	if out.Hint != "" {
		msg += "\n" + out.Hint
	}
	return msg, nil
}
