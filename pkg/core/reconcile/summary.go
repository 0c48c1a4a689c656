package reconcile

import "github.com/digitalremedeytj/AdOps-Agent/pkg/core/sheet"

// failureRateThreshold is the share of failing elements above which a run
// fails even without a critical-category failure.
const failureRateThreshold = 0.2

// criticalCategories are the categories where a single FAIL forces the whole
// run to FAIL regardless of failure rate.
var criticalCategories = map[sheet.Category]bool{
	sheet.CategoryBudget: true,
	sheet.CategoryDates:  true,
}

// Aggregate reduces per-element verdicts to counts and an overall status.
// Pure and order-independent: permuting the input never changes the output.
func Aggregate(results []QAResult) Report {
	summary := Summary{Total: len(results)}
	criticalFailures := 0

	for _, r := range results {
		switch r.Status {
		case StatusPass:
			summary.Passed++
		case StatusFail:
			summary.Failed++
			if criticalCategories[r.Element.Category] {
				criticalFailures++
			}
		default:
			summary.Warnings++
		}
	}

	failureRate := 0.0
	if summary.Total > 0 {
		failureRate = float64(summary.Failed) / float64(summary.Total)
	}

	overall := StatusPass
	if criticalFailures > 0 || failureRate > failureRateThreshold {
		overall = StatusFail
	}

	return Report{
		Summary:       summary,
		OverallStatus: overall,
		Results:       results,
	}
}
