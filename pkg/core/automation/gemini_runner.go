package automation

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiRunner holds a persistent Gemini client for repeated QA runs,
// bypassing the provider manager. Useful for long sessions where rebuilding
// a client per call is wasteful.
type GeminiRunner struct {
	client    *genai.Client
	modelName string
}

// NewGeminiRunner builds a runner with a long-lived client.
func NewGeminiRunner(ctx context.Context, modelName string) (*GeminiRunner, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	if modelName == "" {
		modelName = "gemini-2.0-flash-exp"
	}
	return &GeminiRunner{client: client, modelName: modelName}, nil
}

var _ Runner = (*GeminiRunner)(nil)

func (g *GeminiRunner) Run(ctx context.Context, instruction string) (string, []StepEvent, error) {
	start := time.Now()
	events := []StepEvent{{Step: "agent", Status: "started", Detail: "Executing QA instruction (direct gemini)"}}

	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(qaSystemPrompt)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(instruction))
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		events = append(events, StepEvent{Step: "agent", Status: "error", Detail: err.Error(), TimingMs: elapsed})
		return "", events, fmt.Errorf("gemini run failed: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}

	output := sb.String()
	events = append(events, StepEvent{Step: "agent", Status: "done", Detail: fmt.Sprintf("Captured %d bytes", len(output)), TimingMs: elapsed})
	return output, events, nil
}

// Close releases the underlying client.
func (g *GeminiRunner) Close() error {
	return g.client.Close()
}
