package sheet

import (
	"errors"
	"testing"
)

func TestParseCampaignGrid_Columnar(t *testing.T) {
	grid := [][]string{
		{"Budget", "Start Date"},
		{"$1,200", "2024-01-01"},
	}

	elements, err := ParseCampaignGrid(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}

	// Values must be preserved verbatim as strings, never coerced.
	if elements[0].Label != "Budget" || elements[0].ExpectedValue != "$1,200" {
		t.Errorf("element 0 = %q/%q, want Budget/$1,200", elements[0].Label, elements[0].ExpectedValue)
	}
	if elements[1].Label != "Start Date" || elements[1].ExpectedValue != "2024-01-01" {
		t.Errorf("element 1 = %q/%q, want Start Date/2024-01-01", elements[1].Label, elements[1].ExpectedValue)
	}
	if elements[0].ID != "element-1" || elements[1].ID != "element-2" {
		t.Errorf("IDs = %s,%s, want element-1,element-2", elements[0].ID, elements[1].ID)
	}
}

func TestParseCampaignGrid_KeyValue(t *testing.T) {
	grid := [][]string{
		{"Key", "Value"},
		{"Line Name", "Campaign A"},
		{"Budget", "5000"},
	}

	elements, err := ParseCampaignGrid(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}
	if elements[0].Label != "Line Name" || elements[0].ExpectedValue != "Campaign A" {
		t.Errorf("element 0 = %q/%q", elements[0].Label, elements[0].ExpectedValue)
	}
	if elements[1].Label != "Budget" || elements[1].ExpectedValue != "5000" {
		t.Errorf("element 1 = %q/%q", elements[1].Label, elements[1].ExpectedValue)
	}
}

func TestParseCampaignGrid_NoiseFiltering(t *testing.T) {
	grid := [][]string{
		{"Key", "Value"},
		{"Budget", "5000"},
		{"Landing Page", "  "},
		{"Frequency Cap", "N/A"},
		{"Dayparting", "none"},
		{"Notes", "-"},
	}

	elements, err := ParseCampaignGrid(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elements) != 1 {
		t.Fatalf("expected only Budget to survive, got %d elements", len(elements))
	}
	if elements[0].Label != "Budget" {
		t.Errorf("survivor = %q, want Budget", elements[0].Label)
	}
}

func TestParseCampaignGrid_TooFewRows(t *testing.T) {
	if _, err := ParseCampaignGrid([][]string{{"Budget"}}); !errors.Is(err, ErrMalformedGrid) {
		t.Errorf("expected ErrMalformedGrid, got %v", err)
	}
	if _, err := ParseCampaignGrid(nil); !errors.Is(err, ErrMalformedGrid) {
		t.Errorf("expected ErrMalformedGrid on nil grid, got %v", err)
	}
}

func TestParseCampaignGrid_DuplicateLabelsFirstWins(t *testing.T) {
	grid := [][]string{
		{"Key", "Value"},
		{"Budget", "5000"},
		{"Budget", "9999"},
	}

	elements, err := ParseCampaignGrid(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elements) != 1 {
		t.Fatalf("expected dedup to 1 element, got %d", len(elements))
	}
	if elements[0].ExpectedValue != "5000" {
		t.Errorf("value = %q, want first occurrence 5000", elements[0].ExpectedValue)
	}
}

func TestParseCampaignGrid_BlankHeadersSkipped(t *testing.T) {
	grid := [][]string{
		{"Budget", "", "Geo Target"},
		{"1000", "orphan", "US,CA"},
	}

	elements, err := ParseCampaignGrid(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements (blank header skipped), got %d", len(elements))
	}
	for _, el := range elements {
		if el.ExpectedValue == "orphan" {
			t.Errorf("anonymous field leaked through blank header: %+v", el)
		}
	}
}

func TestParseCampaignGrid_ColumnarFirstRowSample(t *testing.T) {
	grid := [][]string{
		{"Line Name", "Budget"},
		{"Line 1", "1000"},
		{"Line 2", "2000"},
	}

	elements, err := ParseCampaignGrid(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only the first data row feeds the catalog.
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}
	if elements[1].ExpectedValue != "1000" {
		t.Errorf("Budget = %q, want first row value 1000", elements[1].ExpectedValue)
	}
}

func TestParseCampaignGrid_ShortDataRow(t *testing.T) {
	grid := [][]string{
		{"Budget", "Start Date", "End Date"},
		{"1000", "2024-01-01"},
	}

	elements, err := ParseCampaignGrid(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The missing End Date cell reads as empty and is filtered as noise.
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}
}

func TestParseCampaignGrid_AllNoiseIsEmptyNotError(t *testing.T) {
	grid := [][]string{
		{"Key", "Value"},
		{"Budget", "n/a"},
	}
	elements, err := ParseCampaignGrid(grid)
	if err != nil {
		t.Fatalf("empty result should not be an error, got %v", err)
	}
	if len(elements) != 0 {
		t.Errorf("expected empty catalog, got %d", len(elements))
	}
}

func TestDetectLayout(t *testing.T) {
	kv := [][]string{
		{"Campaign Plan", ""},
		{" KEY ", " value "},
		{"Budget", "5000"},
	}
	layout, headerRow := DetectLayout(kv)
	if layout != LayoutKeyValue || headerRow != 1 {
		t.Errorf("got %s at row %d, want key-value at row 1", layout, headerRow)
	}

	columnar := [][]string{
		{"Budget", "Start Date"},
		{"1000", "2024-01-01"},
	}
	if layout, _ := DetectLayout(columnar); layout != LayoutColumnar {
		t.Errorf("got %s, want columnar", layout)
	}

	// A key/value row past the scan window must not flip the layout.
	deep := [][]string{
		{"a", "b"}, {"c", "d"}, {"e", "f"}, {"g", "h"}, {"i", "j"},
		{"Key", "Value"},
	}
	if layout, _ := DetectLayout(deep); layout != LayoutColumnar {
		t.Errorf("row 5 header detected beyond scan limit; want columnar")
	}
}

func TestParseRecords_Columnar(t *testing.T) {
	grid := [][]string{
		{"Line Name", "Budget", "Geo Target"},
		{"Line 1", "$1,200", "US, CA"},
		{"Line 2", "bad", "UK"},
	}

	records, err := ParseRecords(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if got := records[0]["Budget"]; got != 1200.0 {
		t.Errorf("Budget = %v, want 1200", got)
	}
	if got := records[1]["Budget"]; got != 0.0 {
		t.Errorf("unparseable Budget = %v, want 0", got)
	}
	geo, ok := records[0]["Geo Target"].([]string)
	if !ok || len(geo) != 2 || geo[0] != "US" || geo[1] != "CA" {
		t.Errorf("Geo Target = %v, want [US CA]", records[0]["Geo Target"])
	}
	if got := records[0]["Line Name"]; got != "Line 1" {
		t.Errorf("Line Name = %v, want Line 1", got)
	}
}
