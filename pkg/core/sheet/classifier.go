package sheet

import "strings"

// categoryRule maps label keywords to a category. Ordered; first match wins.
type categoryRule struct {
	keywords []string
	category Category
}

var categoryRules = []categoryRule{
	{[]string{"budget", "cost", "price", "bid"}, CategoryBudget},
	{[]string{"target", "audience", "demo", "geo"}, CategoryTargeting},
	{[]string{"creative", "ad", "banner", "image"}, CategoryCreative},
	{[]string{"date", "start", "end", "schedule"}, CategoryDates},
	{[]string{"placement", "site", "inventory"}, CategoryPlacement},
}

// ClassifyLabel maps a field label to a coarse category by keyword matching.
func ClassifyLabel(label string) Category {
	lower := strings.ToLower(label)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

// ClassifyElements is an optional enrichment pass that fills in the Category
// of each element. Extraction itself never categorizes; callers that want
// uncategorized output simply skip this.
func ClassifyElements(elements []CampaignElement) []CampaignElement {
	out := make([]CampaignElement, len(elements))
	for i, el := range elements {
		el.Category = ClassifyLabel(el.Label)
		out[i] = el
	}
	return out
}
