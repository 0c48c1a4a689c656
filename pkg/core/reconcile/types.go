// Package reconcile turns free-form automation-agent output into structured
// per-element QA verdicts and aggregates them into an overall judgment.
package reconcile

import (
	"time"

	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/sheet"
)

// Status is the verdict for one campaign element.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusWarning Status = "WARNING"
)

// Sentinel actual values used when extraction cannot determine what the
// platform showed.
const (
	ActualNotFound        = "Not found"
	ActualUndetermined    = "Unable to determine"
	ActualProcessingError = "Processing error"
)

// QAResult is one verdict for one campaign element. Exactly one exists per
// requested element per QA run; extraction failure produces a low-confidence
// WARNING, never a missing entry.
type QAResult struct {
	Element     sheet.CampaignElement `json:"element"`
	ActualValue string                `json:"actualValue"`
	Status      Status                `json:"status"`
	Confidence  int                   `json:"confidence"` // 0-100
	Notes       string                `json:"notes,omitempty"`
	Screenshot  string                `json:"screenshot,omitempty"`
	Timestamp   time.Time             `json:"timestamp"`
}

// Summary holds the per-status counts of a QA run.
// Total = Passed + Failed + Warnings always holds.
type Summary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Warnings int `json:"warnings"`
}

// Report is the aggregate output of a QA run.
type Report struct {
	Summary       Summary  `json:"summary"`
	OverallStatus Status   `json:"overallStatus"`
	Results       []QAResult `json:"results,omitempty"`
}
