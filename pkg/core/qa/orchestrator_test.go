package qa

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/automation"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/reconcile"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/sheet"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/source"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/store"
)

type stubSource struct {
	grid [][]string
	err  error
}

func (s *stubSource) Fetch(ctx context.Context, ref string) ([][]string, error) {
	return s.grid, s.err
}

type stubRunner struct {
	output string
	err    error
}

func (s *stubRunner) Run(ctx context.Context, instruction string) (string, []automation.StepEvent, error) {
	return s.output, []automation.StepEvent{{Step: "agent", Status: "done"}}, s.err
}

func TestParseElements_PrimaryChannel(t *testing.T) {
	primary := &stubSource{grid: [][]string{
		{"Key", "Value"},
		{"Budget", "5000"},
	}}
	o := NewOrchestrator(primary, nil, &stubRunner{})

	elements, err := o.ParseElements(context.Background(), "ref")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elements) != 1 || elements[0].Label != "Budget" {
		t.Errorf("elements = %+v", elements)
	}
}

func TestParseElements_FallsBackOnAccessDenied(t *testing.T) {
	primary := &stubSource{err: fmt.Errorf("%w: 403", source.ErrSourceAccess)}
	fallback := &stubSource{grid: [][]string{
		{"Key", "Value"},
		{"Budget", "5000"},
	}}
	o := NewOrchestrator(primary, fallback, &stubRunner{})

	elements, err := o.ParseElements(context.Background(), "ref")
	if err != nil {
		t.Fatalf("fallback channel not used: %v", err)
	}
	if len(elements) != 1 {
		t.Errorf("elements = %+v", elements)
	}
}

func TestParseElements_InvalidRefDoesNotFallBack(t *testing.T) {
	primary := &stubSource{err: source.ErrInvalidSource}
	fallback := &stubSource{grid: [][]string{{"Key", "Value"}, {"Budget", "5000"}}}
	o := NewOrchestrator(primary, fallback, &stubRunner{})

	if _, err := o.ParseElements(context.Background(), "bad"); err == nil {
		t.Errorf("invalid reference should not be retried on the alternate channel")
	}
}

func runTestOrchestrator(t *testing.T, runner automation.Runner) *Orchestrator {
	t.Helper()
	o := NewOrchestrator(&stubSource{}, nil, runner)
	o.cache = store.NewSessionCache(t.TempDir())
	o.SetTimeout(time.Second)
	o.SetProviderName("stub")
	return o
}

func selectedElements() []sheet.CampaignElement {
	return []sheet.CampaignElement{
		{ID: "element-1", Label: "Budget", ExpectedValue: "$5,000", Selected: true},
		{ID: "element-2", Label: "Start Date", ExpectedValue: "2024-01-01", Selected: true},
		{ID: "element-3", Label: "Line Name", ExpectedValue: "Campaign A", Selected: false},
	}
}

func TestRunQA_HappyPath(t *testing.T) {
	runner := &stubRunner{output: `{"validationResults": [
		{"elementId": "element-1", "actualValue": "$5,000", "status": "PASS", "confidence": 100},
		{"elementId": "element-2", "actualValue": "2024-01-01", "status": "PASS", "confidence": 95}
	]}`}

	o := runTestOrchestrator(t, runner)
	session, err := o.RunQA(context.Background(), "sheet-ref", "https://dsp.example.com", selectedElements(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Unselected elements stay out of the run.
	if len(session.Elements) != 2 {
		t.Fatalf("selected = %d, want 2", len(session.Elements))
	}
	// Categories are applied before aggregation.
	if session.Elements[0].Category != sheet.CategoryBudget {
		t.Errorf("category = %s", session.Elements[0].Category)
	}
	if session.Report.OverallStatus != reconcile.StatusPass {
		t.Errorf("overall = %s", session.Report.OverallStatus)
	}
	if session.Report.Summary.Total != 2 || session.Report.Summary.Passed != 2 {
		t.Errorf("summary = %+v", session.Report.Summary)
	}
	if session.ID == "" {
		t.Errorf("session ID not assigned")
	}
}

func TestRunQA_CriticalBudgetFailure(t *testing.T) {
	runner := &stubRunner{output: `{"validationResults": [
		{"elementId": "element-1", "actualValue": "$4,000", "status": "FAIL", "confidence": 90},
		{"elementId": "element-2", "actualValue": "2024-01-01", "status": "PASS", "confidence": 95}
	]}`}

	o := runTestOrchestrator(t, runner)
	session, err := o.RunQA(context.Background(), "sheet-ref", "https://dsp.example.com", selectedElements(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Report.OverallStatus != reconcile.StatusFail {
		t.Errorf("budget failure should force FAIL, got %s", session.Report.OverallStatus)
	}
}

func TestRunQA_AgentFailureStillReports(t *testing.T) {
	runner := &stubRunner{err: fmt.Errorf("browser session crashed")}

	o := runTestOrchestrator(t, runner)
	session, err := o.RunQA(context.Background(), "sheet-ref", "https://dsp.example.com", selectedElements(), nil)
	if err != nil {
		t.Fatalf("agent failure must not abort the run: %v", err)
	}
	if session.Report.Summary.Total != 2 {
		t.Fatalf("summary = %+v", session.Report.Summary)
	}
	for _, r := range session.Report.Results {
		if r.Status != reconcile.StatusWarning {
			t.Errorf("degraded run should yield warnings, got %s", r.Status)
		}
		if r.Confidence > 50 {
			t.Errorf("degraded confidence = %d, want <= 50", r.Confidence)
		}
	}
}

func TestRunQA_NoSelection(t *testing.T) {
	o := runTestOrchestrator(t, &stubRunner{})
	elements := selectedElements()
	for i := range elements {
		elements[i].Selected = false
	}
	if _, err := o.RunQA(context.Background(), "ref", "url", elements, nil); err == nil {
		t.Errorf("expected error when nothing is selected")
	}
}

func TestRenderMarkdownAndHTML(t *testing.T) {
	runner := &stubRunner{output: `{"validationResults": [
		{"elementId": "element-1", "actualValue": "$5,000", "status": "PASS", "confidence": 100},
		{"elementId": "element-2", "actualValue": "2024-01-02", "status": "FAIL", "confidence": 90, "notes": "Date is off by one day"}
	]}`}

	o := runTestOrchestrator(t, runner)
	session, err := o.RunQA(context.Background(), "sheet-ref", "https://dsp.example.com", selectedElements(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	md := RenderMarkdown(session)
	for _, want := range []string{"Budget", "$5,000", "FAIL", "Date is off by one day"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	html, err := RenderHTML(session)
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "Campaign QA Report") {
		t.Errorf("html looks wrong: %.120q", html)
	}
}
