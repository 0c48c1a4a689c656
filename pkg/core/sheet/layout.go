package sheet

import "strings"

// layoutScanLimit caps how many leading rows are sniffed for a key/value header.
const layoutScanLimit = 5

// DetectLayout decides whether a grid is key-value (paired rows) or columnar
// (header row + record rows). It scans at most the first 5 rows: a row whose
// first two cells are exactly "key"/"value", or contain those words, marks a
// key-value sheet. Anything else is treated as columnar.
//
// Returns the layout and, for key-value sheets, the index of the header row.
func DetectLayout(grid [][]string) (Layout, int) {
	limit := layoutScanLimit
	if len(grid) < limit {
		limit = len(grid)
	}

	for i := 0; i < limit; i++ {
		row := grid[i]
		if len(row) < 2 {
			continue
		}
		c0 := strings.ToLower(strings.TrimSpace(row[0]))
		c1 := strings.ToLower(strings.TrimSpace(row[1]))
		if c0 == "key" && c1 == "value" {
			return LayoutKeyValue, i
		}
		if strings.Contains(c0, "key") && strings.Contains(c1, "value") {
			return LayoutKeyValue, i
		}
	}

	return LayoutColumnar, 0
}
