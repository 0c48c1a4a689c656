package reconcile

import (
	"testing"

	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/sheet"
)

func resultWith(id string, status Status, cat sheet.Category) QAResult {
	return QAResult{
		Element: sheet.CampaignElement{ID: id, Label: id, Category: cat},
		Status:  status,
	}
}

func TestAggregate_Counts(t *testing.T) {
	// 16 elements: 15 PASS, 1 WARNING, none FAIL.
	var results []QAResult
	for i := 0; i < 15; i++ {
		results = append(results, resultWith("e", StatusPass, sheet.CategoryOther))
	}
	results = append(results, resultWith("w", StatusWarning, sheet.CategoryOther))

	report := Aggregate(results)
	want := Summary{Total: 16, Passed: 15, Failed: 0, Warnings: 1}
	if report.Summary != want {
		t.Errorf("summary = %+v, want %+v", report.Summary, want)
	}
	if report.OverallStatus != StatusPass {
		t.Errorf("overall = %s, want PASS", report.OverallStatus)
	}
}

func TestAggregate_FailureRateThreshold(t *testing.T) {
	// 10 elements, 3 non-critical FAIL: 30% > 20% threshold.
	var results []QAResult
	for i := 0; i < 7; i++ {
		results = append(results, resultWith("p", StatusPass, sheet.CategoryOther))
	}
	for i := 0; i < 3; i++ {
		results = append(results, resultWith("f", StatusFail, sheet.CategoryTargeting))
	}

	report := Aggregate(results)
	if report.Summary.Failed != 3 || report.Summary.Total != 10 {
		t.Fatalf("summary = %+v", report.Summary)
	}
	if report.OverallStatus != StatusFail {
		t.Errorf("30%% failure rate should FAIL, got %s", report.OverallStatus)
	}
}

func TestAggregate_CriticalCategoryOverride(t *testing.T) {
	// One budget FAIL among many passes: rate is far under 20% but the
	// critical category forces FAIL.
	var results []QAResult
	for i := 0; i < 19; i++ {
		results = append(results, resultWith("p", StatusPass, sheet.CategoryOther))
	}
	results = append(results, resultWith("b", StatusFail, sheet.CategoryBudget))

	report := Aggregate(results)
	if report.OverallStatus != StatusFail {
		t.Errorf("critical budget failure should force FAIL, got %s", report.OverallStatus)
	}

	// Same shape but a non-critical category stays under the rate threshold.
	results[19] = resultWith("c", StatusFail, sheet.CategoryCreative)
	if report := Aggregate(results); report.OverallStatus != StatusPass {
		t.Errorf("5%% non-critical failure should PASS, got %s", report.OverallStatus)
	}

	// Dates is the other critical category.
	results[19] = resultWith("d", StatusFail, sheet.CategoryDates)
	if report := Aggregate(results); report.OverallStatus != StatusFail {
		t.Errorf("critical dates failure should force FAIL")
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	results := []QAResult{
		resultWith("a", StatusPass, sheet.CategoryOther),
		resultWith("b", StatusFail, sheet.CategoryBudget),
		resultWith("c", StatusWarning, sheet.CategoryDates),
	}
	forward := Aggregate(results)

	reversed := []QAResult{results[2], results[1], results[0]}
	backward := Aggregate(reversed)

	if forward.Summary != backward.Summary || forward.OverallStatus != backward.OverallStatus {
		t.Errorf("aggregation is order-dependent: %+v vs %+v", forward, backward)
	}
}

func TestAggregate_Empty(t *testing.T) {
	report := Aggregate(nil)
	if report.Summary.Total != 0 {
		t.Errorf("total = %d", report.Summary.Total)
	}
	if report.OverallStatus != StatusPass {
		t.Errorf("empty run should PASS (failure rate 0), got %s", report.OverallStatus)
	}
}
