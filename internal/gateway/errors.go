package gateway

import "errors"

var (
	// ErrBackendUnavailable covers network, auth and file access failures.
	ErrBackendUnavailable = errors.New("spreadsheet backend unavailable")
	ErrDuplicateTitle     = errors.New("worksheet title already exists")
	ErrLastWorksheet      = errors.New("cannot delete the last worksheet")
	ErrMalformedSheet     = errors.New("worksheet has no header row")
	ErrWorksheetNotFound  = errors.New("worksheet not found")
	ErrInvalidRange       = errors.New("invalid cell range")
)
