package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/agent"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/automation"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/qa"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/source"
)

func main() {
	sheetRef := flag.String("sheet", "", "Spreadsheet URL or ID holding the campaign plan")
	platformURL := flag.String("platform", "", "Ad platform URL to verify against")
	provider := flag.String("provider", "", "Override the active LLM provider (gemini, deepseek, qwen)")
	direct := flag.Bool("direct", false, "Drive Gemini through a persistent direct client, bypassing the provider manager")
	model := flag.String("model", "", "Model name for the direct Gemini client")
	timeout := flag.Duration("timeout", 5*time.Minute, "Agent wall-clock budget")
	parseOnly := flag.Bool("parse-only", false, "Print the extracted element catalog and exit")
	flag.Parse()

	if *sheetRef == "" {
		fmt.Println("Usage: qa -sheet <url-or-id> -platform <url> [-provider gemini] [-direct] [-timeout 5m] [-parse-only]")
		os.Exit(1)
	}

	godotenv.Load()
	ctx := context.Background()

	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	if agentCfg.ActiveProvider == "" {
		agentCfg.ActiveProvider = "gemini"
	}
	agentMgr := agent.NewManager(agentCfg)
	if *provider != "" {
		if err := agentMgr.SetGlobalProvider(*provider); err != nil {
			fmt.Printf("[FATAL] %v\n", err)
			os.Exit(1)
		}
	}

	htmlSource := source.NewHTMLExportSource(nil)
	var primary source.GridSource = htmlSource
	var fallback source.GridSource
	if apiSource, err := source.NewSheetsAPISource(ctx, ""); err == nil {
		primary = apiSource
		fallback = htmlSource
	}

	var runner automation.Runner = automation.NewLLMRunner(agentMgr)
	providerName := agentMgr.GetActiveProvider()
	if *direct {
		geminiRunner, err := automation.NewGeminiRunner(ctx, *model)
		if err != nil {
			fmt.Printf("[FATAL] Direct Gemini runner unavailable: %v\n", err)
			os.Exit(1)
		}
		defer geminiRunner.Close()
		runner = geminiRunner
		providerName = "gemini-direct"
	}

	orchestrator := qa.NewOrchestrator(primary, fallback, runner)
	orchestrator.SetTimeout(*timeout)
	orchestrator.SetProviderName(providerName)

	elements, err := orchestrator.ParseElements(ctx, *sheetRef)
	if err != nil {
		fmt.Printf("[FATAL] Failed to parse spreadsheet: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Extracted %d elements from the campaign plan\n", len(elements))

	if *parseOnly {
		for _, el := range elements {
			fmt.Printf("  %-12s %-30s = %s\n", el.ID, el.Label, el.ExpectedValue)
		}
		return
	}

	if *platformURL == "" {
		fmt.Println("[FATAL] -platform is required for a QA run")
		os.Exit(1)
	}

	for i := range elements {
		elements[i].Selected = true
	}

	session, err := orchestrator.RunQA(ctx, *sheetRef, *platformURL, elements, func(ev automation.StepEvent) {
		fmt.Printf("  [%s] %s: %s\n", ev.Step, ev.Status, ev.Detail)
	})
	if err != nil {
		fmt.Printf("[FATAL] QA run failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Print(qa.RenderMarkdown(session))
	fmt.Printf("\nSession saved: %s\n", session.ID)
}
