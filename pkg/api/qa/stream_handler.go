package qa

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/automation"
)

// ProgressEvent represents a single SSE progress update
type ProgressEvent struct {
	Step     string `json:"step"`   // "parse", "agent", "reconcile", "complete", "error"
	Status   string `json:"status"` // "started", "done", "error"
	Detail   string `json:"detail"`
	TimingMs int64  `json:"timing_ms"`
	Data     any    `json:"data,omitempty"` // Final session on "complete"
}

// HandleRunStream executes a QA run with real-time SSE progress. GET because
// EventSource cannot POST; the element catalog is re-parsed from the
// spreadsheet reference and every surviving element is selected.
func (h *Handler) HandleRunStream(w http.ResponseWriter, r *http.Request) {
	// SSE headers - must be set before any write
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	sendEvent := func(event ProgressEvent) {
		data, _ := json.Marshal(event)
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	sendEvent(ProgressEvent{Step: "init", Status: "started", Detail: "Connection established"})

	spreadsheet := r.URL.Query().Get("spreadsheet")
	platformURL := r.URL.Query().Get("platform_url")
	if spreadsheet == "" || platformURL == "" {
		sendEvent(ProgressEvent{Step: "error", Status: "error", Detail: "Missing spreadsheet or platform_url parameter"})
		return
	}

	parseStart := time.Now()
	sendEvent(ProgressEvent{Step: "parse", Status: "started", Detail: "Fetching and parsing spreadsheet"})
	elements, err := h.Orchestrator.ParseElements(r.Context(), spreadsheet)
	if err != nil {
		sendEvent(ProgressEvent{Step: "parse", Status: "error", Detail: err.Error(), TimingMs: time.Since(parseStart).Milliseconds()})
		return
	}
	for i := range elements {
		elements[i].Selected = true
	}
	sendEvent(ProgressEvent{
		Step: "parse", Status: "done",
		Detail:   fmt.Sprintf("Extracted %d elements", len(elements)),
		TimingMs: time.Since(parseStart).Milliseconds(),
	})

	progress := func(ev automation.StepEvent) {
		sendEvent(ProgressEvent{Step: ev.Step, Status: ev.Status, Detail: ev.Detail, TimingMs: ev.TimingMs})
	}

	session, err := h.Orchestrator.RunQA(r.Context(), spreadsheet, platformURL, elements, progress)
	if err != nil {
		sendEvent(ProgressEvent{Step: "error", Status: "error", Detail: err.Error()})
		return
	}

	sendEvent(ProgressEvent{
		Step: "complete", Status: "done",
		Detail: fmt.Sprintf("Overall: %s", session.Report.OverallStatus),
		Data:   session,
	})
}
