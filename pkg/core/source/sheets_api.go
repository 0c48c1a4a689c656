package source

import (
	"context"
	"fmt"
	"log"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// defaultReadRange covers any sane campaign plan; sparse trailing cells cost
// nothing in the API response.
const defaultReadRange = "A1:ZZ1000"

// SheetsAPISource reads grids through the Google Sheets API. The client is
// built once at construction and reused across calls; callers hold the
// configured instance rather than a hidden package-level singleton.
type SheetsAPISource struct {
	service   *sheets.Service
	readRange string
}

// NewSheetsAPISource builds the credentialed client. Credentials resolve in
// order: explicit API key argument, GOOGLE_SHEETS_API_KEY env var, then a
// service-account file named by GOOGLE_APPLICATION_CREDENTIALS.
func NewSheetsAPISource(ctx context.Context, apiKey string) (*SheetsAPISource, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_SHEETS_API_KEY")
	}

	var opts []option.ClientOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	} else {
		return nil, fmt.Errorf("no sheets credentials: set GOOGLE_SHEETS_API_KEY or GOOGLE_APPLICATION_CREDENTIALS")
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsReadonlyScope))

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsAPISource{service: service, readRange: defaultReadRange}, nil
}

var _ GridSource = (*SheetsAPISource)(nil)

// Fetch reads the grid for a spreadsheet URL or ID.
func (s *SheetsAPISource) Fetch(ctx context.Context, ref string) ([][]string, error) {
	id, err := ParseSpreadsheetRef(ref)
	if err != nil {
		return nil, err
	}

	resp, err := s.service.Spreadsheets.Values.Get(id, s.readRange).Context(ctx).Do()
	if err != nil {
		log.Printf("[SheetsAPI] fetch failed for %s: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrSourceAccess, err)
	}

	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		grid = append(grid, cells)
	}
	log.Printf("[SheetsAPI] fetched %d rows from %s", len(grid), id)
	return grid, nil
}
