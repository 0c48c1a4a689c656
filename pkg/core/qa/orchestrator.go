// Package qa orchestrates the end-to-end campaign QA flow:
// fetch grid -> parse elements -> run automation agent -> reconcile -> aggregate.
package qa

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/automation"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/reconcile"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/sheet"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/source"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/store"
)

// ProgressFunc receives step events as a run advances. Optional.
type ProgressFunc func(automation.StepEvent)

// Orchestrator wires the QA pipeline. All dependencies are injected; nothing
// here keeps hidden global state between runs.
type Orchestrator struct {
	primary  source.GridSource
	fallback source.GridSource
	runner   automation.Runner
	repo     *store.SessionRepo
	cache    *store.SessionCache
	timeout  time.Duration
	provider string
}

// NewOrchestrator builds an orchestrator. fallback may be nil when only one
// grid channel is configured; repo may be nil to run cache-only.
func NewOrchestrator(primary, fallback source.GridSource, runner automation.Runner) *Orchestrator {
	return &Orchestrator{
		primary:  primary,
		fallback: fallback,
		runner:   runner,
		cache:    store.NewSessionCache(""),
		timeout:  5 * time.Minute,
	}
}

// SetRepository enables database persistence.
func (o *Orchestrator) SetRepository(repo *store.SessionRepo) {
	o.repo = repo
}

// SetTimeout overrides the agent wall-clock budget.
func (o *Orchestrator) SetTimeout(d time.Duration) {
	o.timeout = d
}

// SetProviderName records which model executed the run, for the session log.
func (o *Orchestrator) SetProviderName(name string) {
	o.provider = name
}

// ParseElements fetches the grid and extracts the element catalog. When the
// primary channel is denied access it retries the alternate channel before
// surfacing the failure.
func (o *Orchestrator) ParseElements(ctx context.Context, ref string) ([]sheet.CampaignElement, error) {
	grid, err := o.primary.Fetch(ctx, ref)
	if err != nil {
		if !errors.Is(err, source.ErrSourceAccess) || o.fallback == nil {
			return nil, err
		}
		log.Printf("[QA] primary channel denied for %s, trying HTML export: %v", ref, err)
		grid, err = o.fallback.Fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
	}

	return sheet.ParseCampaignGrid(grid)
}

// RunQA executes one QA run over the selected elements. The agent is invoked
// once and the reconciliation engine runs exactly once on the complete
// captured output, never on partial fragments. Agent failure or timeout does
// not abort the run: reconciliation degrades to low-confidence warnings and
// the session still records a complete report.
func (o *Orchestrator) RunQA(ctx context.Context, spreadsheet, platformURL string, elements []sheet.CampaignElement, progress ProgressFunc) (*store.QASession, error) {
	selected := make([]sheet.CampaignElement, 0, len(elements))
	for _, el := range elements {
		if el.Selected {
			selected = append(selected, el)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no elements selected for QA")
	}

	// Categories feed the critical-failure rule in aggregation.
	selected = sheet.ClassifyElements(selected)

	instruction, err := automation.BuildInstruction(platformURL, selected)
	if err != nil {
		return nil, fmt.Errorf("failed to build instruction: %w", err)
	}

	log.Printf("[QA] starting run: %d elements, timeout %s", len(selected), o.timeout)
	start := time.Now()

	rawOutput, events, runErr := automation.RunWithTimeout(ctx, o.runner, instruction, o.timeout)
	if runErr != nil {
		log.Printf("[QA] agent run degraded: %v", runErr)
	}
	for _, ev := range events {
		if progress != nil {
			progress(ev)
		}
	}

	results := reconcile.ReconcileVerdicts(rawOutput, selected)
	report := reconcile.Aggregate(results)

	session := &store.QASession{
		ID:          uuid.NewString(),
		Spreadsheet: spreadsheet,
		Provider:    o.provider,
		Elements:    selected,
		RawOutput:   rawOutput,
		Report:      &report,
		CreatedAt:   start.UTC(),
	}

	o.persist(ctx, session)

	log.Printf("[QA] run %s complete: %s (%d/%d passed) in %s",
		session.ID, report.OverallStatus, report.Summary.Passed, report.Summary.Total, time.Since(start))
	return session, nil
}

// persist saves to the database when configured, always to the file cache.
// Persistence failure never fails the run; the report already exists in memory.
func (o *Orchestrator) persist(ctx context.Context, session *store.QASession) {
	if o.repo != nil {
		if err := o.repo.Save(ctx, session); err != nil {
			log.Printf("[QA] WARNING: db save failed for %s: %v", session.ID, err)
		}
	}
	if err := o.cache.Save(session); err != nil {
		log.Printf("[QA] WARNING: cache save failed for %s: %v", session.ID, err)
	}
}

// LoadSession reads a stored session, preferring the database.
func (o *Orchestrator) LoadSession(ctx context.Context, id string) (*store.QASession, error) {
	if o.repo != nil {
		if session, err := o.repo.Load(ctx, id); err == nil {
			return session, nil
		}
	}
	session, err := o.cache.Load(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("no session found for id %s", id)
	}
	return session, nil
}
