// Package automation is the boundary to the browser-driving QA agent. The
// agent is an opaque capability: it accepts an instruction string and returns
// free-form text plus step events. Everything downstream treats that text as
// untrusted, non-deterministic input.
package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/agent"
)

// StepEvent is a single progress update from an agent run.
type StepEvent struct {
	Step     string `json:"step"`
	Status   string `json:"status"` // "started", "done", "error"
	Detail   string `json:"detail"`
	TimingMs int64  `json:"timing_ms"`
}

// Runner executes one QA instruction and returns the complete captured
// output. Implementations must return whatever text they have even when the
// run ends abnormally; the reconciliation layer downgrades rather than drops.
type Runner interface {
	Run(ctx context.Context, instruction string) (string, []StepEvent, error)
}

// AgentType is the manager routing key for QA verification runs.
const AgentType = "qa_runner"

// LLMRunner drives a manager-routed LLM provider. This is the configurable
// path: the active provider (or a qa_runner override) decides which model
// executes the instruction.
type LLMRunner struct {
	manager *agent.Manager
}

func NewLLMRunner(mgr *agent.Manager) *LLMRunner {
	return &LLMRunner{manager: mgr}
}

func (r *LLMRunner) Run(ctx context.Context, instruction string) (string, []StepEvent, error) {
	start := time.Now()
	events := []StepEvent{{Step: "agent", Status: "started", Detail: "Executing QA instruction"}}

	output, err := r.manager.ExecutePrompt(ctx, AgentType, instruction, qaSystemPrompt, map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	})

	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		events = append(events, StepEvent{Step: "agent", Status: "error", Detail: err.Error(), TimingMs: elapsed})
		return output, events, fmt.Errorf("agent run failed: %w", err)
	}
	events = append(events, StepEvent{Step: "agent", Status: "done", Detail: fmt.Sprintf("Captured %d bytes", len(output)), TimingMs: elapsed})
	return output, events, nil
}

// RunWithTimeout enforces a wall-clock budget on an agent run. The run is
// long (minutes); on timeout the partial output captured so far is returned
// alongside the error so the caller can still reconcile on complete text.
func RunWithTimeout(ctx context.Context, r Runner, instruction string, timeout time.Duration) (string, []StepEvent, error) {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type runResult struct {
		output string
		events []StepEvent
		err    error
	}
	done := make(chan runResult, 1)
	go func() {
		output, events, err := r.Run(ctx, instruction)
		done <- runResult{output, events, err}
	}()

	select {
	case res := <-done:
		return res.output, res.events, res.err
	case <-ctx.Done():
		return "", []StepEvent{{Step: "agent", Status: "error", Detail: "Wall-clock timeout exceeded"}},
			fmt.Errorf("agent run timed out after %s: %w", timeout, ctx.Err())
	}
}
