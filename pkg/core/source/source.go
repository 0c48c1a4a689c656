// Package source fetches raw spreadsheet grids for the element extractor.
// Two channels exist: the Sheets API (primary, credentialed) and the
// published-HTML export (fallback when API access is denied).
package source

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidSource indicates an unparseable spreadsheet reference. Not retried.
var ErrInvalidSource = errors.New("invalid spreadsheet reference")

// ErrSourceAccess indicates the source is unreachable or forbidden. The
// orchestrator retries the alternate channel before surfacing this.
var ErrSourceAccess = errors.New("spreadsheet source unreachable or access denied")

// GridSource returns raw cell data for a spreadsheet-like reference.
type GridSource interface {
	Fetch(ctx context.Context, ref string) ([][]string, error)
}

var sheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9\-_]+)`)
var sheetIDPattern = regexp.MustCompile(`^[a-zA-Z0-9\-_]{20,}$`)

// ParseSpreadsheetRef extracts the spreadsheet ID from a full Google Sheets
// URL or accepts a bare ID. Anything else fails with ErrInvalidSource.
func ParseSpreadsheetRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrInvalidSource
	}

	if m := sheetURLPattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	if strings.Contains(ref, "/") || strings.Contains(ref, " ") {
		return "", ErrInvalidSource
	}
	if !sheetIDPattern.MatchString(ref) {
		return "", ErrInvalidSource
	}
	return ref, nil
}
