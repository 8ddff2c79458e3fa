package cli

import (
	"errors"

	"github.com/alexanderramin/sitetrack/internal/app"
	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/gateway"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Active project context, set when a project is opened from the
	// dashboard. View is the last loaded copy of it.
	Active  gateway.Worksheet
	View    *domain.ProjectView
	LoadErr error

	// Terminal dimensions
	Width  int
	Height int

	// Notice is the message of the last intent, shown under the content
	// until the next key press.
	Notice app.Outcome
	// Banner persists across views until a later intent succeeds. It is
	// set for backend outages and other banner-placed failures.
	Banner string
}

// SetActive selects ws as the project the admin views work on.
func (s *SharedState) SetActive(ws gateway.Worksheet) {
	if s.Active.ID != ws.ID {
		s.View = nil
		s.LoadErr = nil
	}
	s.Active = ws
}

// SetLoaded stores the result of loading ws. Results for a project that is
// no longer active are dropped and SetLoaded reports false.
func (s *SharedState) SetLoaded(ws gateway.Worksheet, view *domain.ProjectView, err error) bool {
	if ws.ID != s.Active.ID {
		return false
	}
	if err != nil {
		if msg, place := app.Describe(err); place == app.PlaceBanner {
			s.Banner = msg
		}
		// An outage keeps the last good view on screen under the banner.
		if errors.Is(err, gateway.ErrBackendUnavailable) && s.View != nil {
			return true
		}
	}
	s.View, s.LoadErr = view, err
	return true
}

// Blocked reports whether the active project failed to load because its
// sheet is malformed. Editing is disabled for it; rename and delete are not.
func (s *SharedState) Blocked() bool {
	return errors.Is(s.LoadErr, gateway.ErrMalformedSheet)
}

// ClearActive forgets the active project, e.g. after it was deleted.
func (s *SharedState) ClearActive() {
	s.Active = gateway.Worksheet{}
	s.View = nil
	s.LoadErr = nil
}

// HasActive reports whether a project is selected.
func (s *SharedState) HasActive() bool {
	return s.Active.ID != ""
}

// Record applies an outcome to the notice and banner.
func (s *SharedState) Record(out app.Outcome) {
	s.Notice = out
	switch {
	case out.OK:
		s.Banner = ""
	case out.Placement == app.PlaceBanner:
		s.Banner = out.Message
	}
	if out.OK && out.Worksheet.ID != "" && out.Worksheet.ID == s.Active.ID {
		s.Active = out.Worksheet
	}
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator),
// status bar (2 lines: separator + hints) and the notice line.
func (s *SharedState) ContentHeight() int {
	h := s.Height - 5
	if s.Banner != "" {
		h--
	}
	if h < 1 {
		return 1
	}
	return h
}
