package sheet

import (
	"strconv"
	"strings"
)

// typeRule maps field-name keywords to a semantic type. Ordered; first match wins.
type typeRule struct {
	keywords  []string
	fieldType FieldType
}

var typeRules = []typeRule{
	{[]string{"budget", "cost", "price", "bid"}, FieldNumber},
	{[]string{"date", "start", "end", "schedule"}, FieldDate},
	{[]string{"zip", "target", "audience"}, FieldArray},
}

// InferFieldType guesses a semantic type from a field name. Pure; matching is
// case-insensitive substring against an ordered rule table.
func InferFieldType(fieldName string) FieldType {
	lower := strings.ToLower(fieldName)
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.fieldType
			}
		}
	}
	return FieldString
}

// CoerceValue applies the type-specific parsing used by the columnar path.
// Numbers strip currency punctuation and default to 0 on parse failure;
// arrays split on comma dropping empties; dates and strings pass through.
// The key-value path never calls this: it stores every value as-is.
func CoerceValue(raw string, t FieldType) interface{} {
	switch t {
	case FieldNumber:
		cleaned := strings.NewReplacer(",", "", "$", "").Replace(strings.TrimSpace(raw))
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0.0
		}
		return f
	case FieldArray:
		var out []string
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return raw
	}
}
