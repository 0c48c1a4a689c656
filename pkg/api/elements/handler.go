// Package elements exposes spreadsheet parsing over HTTP.
package elements

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/qa"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/sheet"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/source"
)

type ParseRequest struct {
	Spreadsheet string `json:"spreadsheet"`
	Classify    bool   `json:"classify"`
}

type ParseResponse struct {
	Elements []sheet.CampaignElement `json:"elements"`
	Count    int                     `json:"count"`
}

// Handler holds dependencies for element endpoints.
type Handler struct {
	Orchestrator *qa.Orchestrator
}

func NewHandler(o *qa.Orchestrator) *Handler {
	return &Handler{Orchestrator: o}
}

// HandleParse parses a spreadsheet into its element catalog.
func (h *Handler) HandleParse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	elements, err := h.Orchestrator.ParseElements(r.Context(), req.Spreadsheet)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, sheet.ErrMalformedGrid), errors.Is(err, source.ErrInvalidSource):
			status = http.StatusBadRequest
		case errors.Is(err, source.ErrSourceAccess):
			status = http.StatusBadGateway
		}
		http.Error(w, fmt.Sprintf("Parse failed: %v", err), status)
		return
	}

	if req.Classify {
		elements = sheet.ClassifyElements(elements)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ParseResponse{Elements: elements, Count: len(elements)})
}
