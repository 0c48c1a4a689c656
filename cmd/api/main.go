package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	apiconfig "github.com/digitalremedeytj/AdOps-Agent/pkg/api/config"
	apielements "github.com/digitalremedeytj/AdOps-Agent/pkg/api/elements"
	apiqa "github.com/digitalremedeytj/AdOps-Agent/pkg/api/qa"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/agent"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/automation"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/qa"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/source"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()
	ctx := context.Background()

	// Initialize manager from config
	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	if agentCfg.ActiveProvider == "" {
		agentCfg.ActiveProvider = "gemini"
	}
	agentMgr := agent.NewManager(agentCfg)

	// Database is optional; without it sessions land in the file cache only.
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[WARNING] Database not available (%v). Sessions will use the file cache.\n", err)
	}

	// Grid channels: Sheets API primary, HTML export fallback. Without API
	// credentials the HTML channel serves alone.
	htmlSource := source.NewHTMLExportSource(nil)
	var primary source.GridSource = htmlSource
	var fallback source.GridSource
	if apiSource, err := source.NewSheetsAPISource(ctx, ""); err != nil {
		fmt.Printf("[WARNING] Sheets API channel disabled: %v\n", err)
	} else {
		primary = apiSource
		fallback = htmlSource
	}

	runner := automation.NewLLMRunner(agentMgr)
	orchestrator := qa.NewOrchestrator(primary, fallback, runner)
	orchestrator.SetProviderName(agentMgr.GetActiveProvider())
	if store.GetPool() != nil {
		orchestrator.SetRepository(store.NewSessionRepo())
	}

	// Config endpoints
	configHandler := apiconfig.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Element endpoints
	elementsHandler := apielements.NewHandler(orchestrator)
	http.HandleFunc("/api/elements/parse", elementsHandler.HandleParse)

	// QA endpoints
	qaHandler := apiqa.NewHandler(orchestrator)
	http.HandleFunc("/api/qa/run", qaHandler.HandleRun)
	http.HandleFunc("/api/qa/run-stream", qaHandler.HandleRunStream)
	http.HandleFunc("/api/qa/session", qaHandler.HandleSession)
	http.HandleFunc("/api/qa/report", qaHandler.HandleReport)

	fmt.Println("API server starting on :8080...")
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")
	fmt.Println("  - POST /api/elements/parse")
	fmt.Println("  - POST /api/qa/run")
	fmt.Println("  - GET  /api/qa/run-stream  (SSE streaming)")
	fmt.Println("  - GET  /api/qa/session")
	fmt.Println("  - GET  /api/qa/report")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
