// Package sheet parses campaign-planning spreadsheets into structured elements.
package sheet

import "errors"

// ErrMalformedGrid indicates the grid has no usable header/data rows.
var ErrMalformedGrid = errors.New("malformed grid: need at least a header row and one data row")

// Layout describes the detected orientation of a campaign sheet.
type Layout int

const (
	// LayoutColumnar: row 0 is field headers, subsequent rows are records.
	LayoutColumnar Layout = iota
	// LayoutKeyValue: each row is one field (key column, value column).
	LayoutKeyValue
)

func (l Layout) String() string {
	if l == LayoutKeyValue {
		return "key-value"
	}
	return "columnar"
}

// Category is a coarse grouping of campaign fields.
type Category string

const (
	CategoryBudget    Category = "budget"
	CategoryTargeting Category = "targeting"
	CategoryCreative  Category = "creative"
	CategoryDates     Category = "dates"
	CategoryPlacement Category = "placement"
	CategoryOther     Category = "other"
)

// CampaignElement is one labeled fact discovered in a planning sheet.
// ExpectedValue keeps the original string form of the cell; no coercion
// survives extraction even for number-like fields.
type CampaignElement struct {
	ID            string   `json:"id"`
	Category      Category `json:"category,omitempty"`
	Label         string   `json:"label"`
	ExpectedValue string   `json:"expectedValue"`
	Selected      bool     `json:"selected"`
	XPath         string   `json:"xpath,omitempty"`
}

// FieldType drives the value-parsing strategy on the columnar path.
type FieldType int

const (
	FieldString FieldType = iota
	FieldNumber
	FieldDate
	FieldArray
)

func (t FieldType) String() string {
	switch t {
	case FieldNumber:
		return "number"
	case FieldDate:
		return "date"
	case FieldArray:
		return "array"
	default:
		return "string"
	}
}
