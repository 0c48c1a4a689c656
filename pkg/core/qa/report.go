package qa

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/reconcile"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/store"
)

// RenderMarkdown formats a session report as Markdown for the CLI and for
// HTML conversion in the API layer.
func RenderMarkdown(session *store.QASession) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Campaign QA Report\n\n")
	fmt.Fprintf(&sb, "- Session: `%s`\n", session.ID)
	if session.Spreadsheet != "" {
		fmt.Fprintf(&sb, "- Source: `%s`\n", session.Spreadsheet)
	}
	if session.Provider != "" {
		fmt.Fprintf(&sb, "- Agent provider: %s\n", session.Provider)
	}

	if session.Report == nil {
		sb.WriteString("\nNo report available.\n")
		return sb.String()
	}

	report := session.Report
	fmt.Fprintf(&sb, "\n## Overall: %s\n\n", report.OverallStatus)
	fmt.Fprintf(&sb, "%d checked — %d passed, %d failed, %d warnings\n\n",
		report.Summary.Total, report.Summary.Passed, report.Summary.Failed, report.Summary.Warnings)

	sb.WriteString("| Element | Expected | Actual | Status | Confidence |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, r := range report.Results {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %d%% |\n",
			escapeCell(r.Element.Label), escapeCell(r.Element.ExpectedValue),
			escapeCell(r.ActualValue), r.Status, r.Confidence)
	}

	for _, r := range report.Results {
		if r.Notes != "" && r.Status != reconcile.StatusPass {
			fmt.Fprintf(&sb, "\n- **%s**: %s\n", escapeCell(r.Element.Label), r.Notes)
		}
	}

	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// RenderHTML converts the Markdown report to HTML for the web UI.
func RenderHTML(session *store.QASession) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(RenderMarkdown(session)), &buf); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
