package sheet

import "testing"

func TestInferFieldType(t *testing.T) {
	cases := []struct {
		name string
		want FieldType
	}{
		{"Total Budget", FieldNumber},
		{"CPM Bid", FieldNumber},
		{"Media Cost", FieldNumber},
		{"Start Date", FieldDate},
		{"Flight End", FieldDate},
		{"Zip Codes", FieldArray},
		{"Geo Target", FieldArray},
		{"Audience Segments", FieldArray},
		{"Line Name", FieldString},
	}
	for _, c := range cases {
		if got := InferFieldType(c.name); got != c.want {
			t.Errorf("InferFieldType(%q) = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestInferFieldType_RuleOrder(t *testing.T) {
	// "Budget Start" hits the number rule before the date rule.
	if got := InferFieldType("Budget Start"); got != FieldNumber {
		t.Errorf("first matching rule should win, got %s", got)
	}
}

func TestCoerceValue(t *testing.T) {
	if got := CoerceValue("$12,500.50", FieldNumber); got != 12500.50 {
		t.Errorf("number = %v, want 12500.50", got)
	}
	if got := CoerceValue("not a number", FieldNumber); got != 0.0 {
		t.Errorf("bad number = %v, want 0", got)
	}
	arr, ok := CoerceValue("90210, 10001, ,94105", FieldArray).([]string)
	if !ok || len(arr) != 3 {
		t.Fatalf("array = %v, want 3 entries", arr)
	}
	if got := CoerceValue("2024-01-01", FieldDate); got != "2024-01-01" {
		t.Errorf("date should pass through, got %v", got)
	}
}

func TestClassifyLabel(t *testing.T) {
	cases := []struct {
		label string
		want  Category
	}{
		{"Total Budget", CategoryBudget},
		{"Max Bid", CategoryBudget},
		{"Geo Target", CategoryTargeting},
		{"Audience", CategoryTargeting},
		{"Creative Size", CategoryCreative},
		{"Banner URL", CategoryCreative},
		{"Start Date", CategoryDates},
		{"Placement Name", CategoryPlacement},
		{"Site List", CategoryPlacement},
		{"Line Name", CategoryOther},
	}
	for _, c := range cases {
		if got := ClassifyLabel(c.label); got != c.want {
			t.Errorf("ClassifyLabel(%q) = %s, want %s", c.label, got, c.want)
		}
	}
}

func TestClassifyElements(t *testing.T) {
	elements := []CampaignElement{
		{ID: "element-1", Label: "Budget", ExpectedValue: "5000"},
		{ID: "element-2", Label: "Line Name", ExpectedValue: "Campaign A"},
	}
	classified := ClassifyElements(elements)

	if classified[0].Category != CategoryBudget {
		t.Errorf("Budget category = %s", classified[0].Category)
	}
	if classified[1].Category != CategoryOther {
		t.Errorf("Line Name category = %s", classified[1].Category)
	}
	// The input slice must stay untouched; classification is an enrichment copy.
	if elements[0].Category != "" {
		t.Errorf("input mutated: %s", elements[0].Category)
	}
}
