// Package qa provides the HTTP surface for running QA sessions.
package qa

import (
	"encoding/json"
	"fmt"
	"net/http"

	coreqa "github.com/digitalremedeytj/AdOps-Agent/pkg/core/qa"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/sheet"
)

type RunRequest struct {
	Spreadsheet string                  `json:"spreadsheet"`
	PlatformURL string                  `json:"platformUrl"`
	Elements    []sheet.CampaignElement `json:"elements"`
}

// Handler holds dependencies for QA endpoints.
type Handler struct {
	Orchestrator *coreqa.Orchestrator
}

func NewHandler(o *coreqa.Orchestrator) *Handler {
	return &Handler{Orchestrator: o}
}

// HandleRun executes a blocking QA run and returns the full session.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Elements) == 0 {
		http.Error(w, "No elements provided", http.StatusBadRequest)
		return
	}

	session, err := h.Orchestrator.RunQA(r.Context(), req.Spreadsheet, req.PlatformURL, req.Elements, nil)
	if err != nil {
		http.Error(w, fmt.Sprintf("QA run failed: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

// HandleSession returns a stored session by id.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	session, err := h.Orchestrator.LoadSession(r.Context(), id)
	if err != nil {
		http.Error(w, fmt.Sprintf("Session not found: %v", err), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

// HandleReport renders a stored session's report as Markdown or HTML.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	session, err := h.Orchestrator.LoadSession(r.Context(), id)
	if err != nil {
		http.Error(w, fmt.Sprintf("Session not found: %v", err), http.StatusNotFound)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		html, err := coreqa.RenderHTML(session)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, coreqa.RenderMarkdown(session))
}
