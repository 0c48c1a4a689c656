package sheet

import (
	"fmt"
	"log"
	"strings"
)

// noiseValues are placeholder cell values that never become elements.
var noiseValues = map[string]bool{
	"":     true,
	"n/a":  true,
	"none": true,
	"-":    true,
}

func isNoise(value string) bool {
	return noiseValues[strings.ToLower(strings.TrimSpace(value))]
}

type labelValue struct {
	label string
	value string
}

// ParseCampaignGrid walks a raw spreadsheet grid and emits the element
// catalog. Layout is auto-detected; values are stored verbatim as strings,
// trimmed but never coerced. Noise values (empty, "n/a", "none", "-") are
// dropped, duplicate labels keep the first occurrence, and IDs are assigned
// sequentially in emission order.
//
// A grid with fewer than 2 rows has no header/data split and fails with
// ErrMalformedGrid. A grid where nothing survives filtering yields an empty
// slice, not an error.
func ParseCampaignGrid(grid [][]string) ([]CampaignElement, error) {
	if len(grid) < 2 {
		return nil, ErrMalformedGrid
	}

	layout, headerRow := DetectLayout(grid)
	log.Printf("[ElementExtractor] layout=%s rows=%d", layout, len(grid))

	var pairs []labelValue
	if layout == LayoutKeyValue {
		pairs = extractKeyValue(grid, headerRow)
	} else {
		pairs = extractColumnar(grid)
	}

	elements := make([]CampaignElement, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		if isNoise(p.value) {
			continue
		}
		// First occurrence wins on duplicate labels.
		key := strings.ToLower(strings.TrimSpace(p.label))
		if seen[key] {
			continue
		}
		seen[key] = true
		elements = append(elements, CampaignElement{
			ID:            fmt.Sprintf("element-%d", len(elements)+1),
			Label:         p.label,
			ExpectedValue: strings.TrimSpace(p.value),
		})
	}

	log.Printf("[ElementExtractor] extracted=%d (from %d candidate fields)", len(elements), len(pairs))
	return elements, nil
}

// extractColumnar reads row 0 as headers and samples values from the first
// data row only. Multi-row sheets are treated as "first row is the
// authoritative sample"; later line items do not enter the catalog.
func extractColumnar(grid [][]string) []labelValue {
	headers := grid[0]
	dataRow := grid[1]

	var pairs []labelValue
	for col, header := range headers {
		label := strings.TrimSpace(header)
		if label == "" {
			continue // sparse header rows must not produce anonymous fields
		}
		value := ""
		if col < len(dataRow) {
			value = dataRow[col]
		}
		pairs = append(pairs, labelValue{label: label, value: value})
	}
	return pairs
}

// extractKeyValue emits one field per row after the detected header row,
// named by column 0 with the value from column 1. Repeated header rows
// (a literal "key" cell) are skipped.
func extractKeyValue(grid [][]string, headerRow int) []labelValue {
	var pairs []labelValue
	for i := headerRow + 1; i < len(grid); i++ {
		row := grid[i]
		if len(row) == 0 {
			continue
		}
		label := strings.TrimSpace(row[0])
		if label == "" || strings.ToLower(label) == "key" {
			continue
		}
		value := ""
		if len(row) > 1 {
			value = row[1]
		}
		pairs = append(pairs, labelValue{label: label, value: value})
	}
	return pairs
}

// ParseRecords enumerates every data row of a columnar sheet as a typed
// record, coercing cells per the inferred field type. This is the richer
// line-item view used for inspection endpoints; the element catalog itself
// stays string-only. Key-value sheets yield a single record.
func ParseRecords(grid [][]string) ([]map[string]interface{}, error) {
	if len(grid) < 2 {
		return nil, ErrMalformedGrid
	}

	layout, headerRow := DetectLayout(grid)
	if layout == LayoutKeyValue {
		record := make(map[string]interface{})
		for _, p := range extractKeyValue(grid, headerRow) {
			if isNoise(p.value) {
				continue
			}
			if _, ok := record[p.label]; !ok {
				record[p.label] = strings.TrimSpace(p.value)
			}
		}
		return []map[string]interface{}{record}, nil
	}

	headerIndex := make(map[string]int)
	var order []string
	for col, header := range grid[0] {
		label := strings.TrimSpace(header)
		if label == "" {
			continue
		}
		if _, ok := headerIndex[label]; ok {
			continue
		}
		headerIndex[label] = col
		order = append(order, label)
	}

	var records []map[string]interface{}
	for _, row := range grid[1:] {
		record := make(map[string]interface{}, len(order))
		for _, label := range order {
			col := headerIndex[label]
			cell := ""
			if col < len(row) {
				cell = row[col]
			}
			record[label] = CoerceValue(cell, InferFieldType(label))
		}
		records = append(records, record)
	}
	return records, nil
}
