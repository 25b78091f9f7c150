package core

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/newsinsight/newsinsight/internal/agent/config"
	"github.com/newsinsight/newsinsight/internal/agent/telemetry"
	"github.com/newsinsight/newsinsight/models"
	"github.com/newsinsight/newsinsight/provider"
	"github.com/newsinsight/newsinsight/tools/web_search"
)

// Agent runs the five-stage verification pipeline: corpus fetch, primary
// reasoning, external evidence, cross-verification, trace persistence.
// Run degrades stage by stage instead of failing: every stage failure is
// recorded in the trace and replaced with that stage's defaults.
type Agent struct {
	cfg    *config.Config
	logger *log.Logger
	telem  *telemetry.Telemetry

	corpus CorpusStore
	model  provider.ModelAdapter
	search web_search.WebSearcher
	traces TraceStore

	// searchErr remembers why no searcher could be built, so the
	// external_evidence step can report it per run.
	searchErr error

	retry RetryPolicy
	httpc *http.Client
}

// Deps carries the pipeline's pluggable backends.
type Deps struct {
	Corpus CorpusStore
	Model  provider.ModelAdapter
	Search web_search.WebSearcher
	Traces TraceStore

	// SearchErr explains a nil Search; surfaced in the trace.
	SearchErr error
}

// New wires an agent from explicit dependencies. Corpus and Model are
// required; a nil Search or Traces degrades the matching stage.
func New(cfg *config.Config, logger *log.Logger, telem *telemetry.Telemetry, deps Deps) (*Agent, error) {
	if deps.Corpus == nil {
		return nil, errors.New("corpus store is required")
	}
	if deps.Model == nil {
		return nil, errors.New("model adapter is required")
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[AGENT] ", log.LstdFlags)
	}
	searchErr := deps.SearchErr
	if deps.Search == nil && searchErr == nil {
		searchErr = errors.New("no search provider configured")
	}
	return &Agent{
		cfg:       cfg,
		logger:    logger,
		telem:     telem,
		corpus:    deps.Corpus,
		model:     deps.Model,
		search:    deps.Search,
		traces:    deps.Traces,
		searchErr: searchErr,
		retry: RetryPolicy{
			Attempts: cfg.Retry.Attempts,
			Delay:    cfg.Retry.Delay,
			Backoff:  cfg.Retry.Backoff,
		},
		httpc: newPipelineHTTPClient(cfg),
	}, nil
}

// Run executes the pipeline for one topic. It never returns an error:
// the worst case is an output assembled entirely from stage defaults.
func (a *Agent) Run(ctx context.Context, topic string) models.AgentOutput {
	started := time.Now()
	runID := uuid.New().String()
	trace := models.RunTrace{
		RunID:      runID,
		Topic:      topic,
		Timestamps: models.Timestamps{StartedAt: started.Unix()},
		Steps:      []models.TraceStep{},
	}
	a.logger.Printf("run %s started (topic=%q, model=%s)", runID, topic, a.model.Model())

	internal := a.queryNewsMetadata(ctx, topic, &trace)
	prim := a.primaryReasoning(ctx, topic, internal, &trace)
	evidence := a.externalEvidence(ctx, topic, &trace)
	cv := a.crossVerify(ctx, topic, internal, evidence, prim.Verdict, &trace)

	out := models.AgentOutput{
		Topic:            topic,
		Summary:          prim.Summary,
		Confidence:       cv.Confidence,
		Bias:             firstNonEmpty(cv.Bias, prim.Bias, "unknown"),
		Verdict:          firstNonEmpty(cv.Verdict, prim.Verdict, "Insufficient evidence"),
		TopArticles:      internal,
		ExternalEvidence: evidence,
		RunID:            runID,
	}
	if out.Summary == "" {
		out.Summary = "(no internal summary available)"
	}
	if out.TopArticles == nil {
		out.TopArticles = []models.InternalRecord{}
	}
	if out.ExternalEvidence == nil {
		out.ExternalEvidence = []models.EvidenceItem{}
	}

	trace.Timestamps.EndedAt = time.Now().Unix()
	trace.Output = &out
	a.persistTrace(ctx, trace)

	if a.telem != nil {
		a.telem.RecordRun(topic, time.Since(started))
	}
	a.logger.Printf("run %s finished (verdict=%q, confidence=%.2f)", runID, out.Verdict, out.Confidence)
	return out
}

func (a *Agent) primaryReasoning(ctx context.Context, topic string, recs []models.InternalRecord, trace *models.RunTrace) primaryResult {
	step := models.TraceStep{
		Name:    "primary_reasoning",
		Context: map[string]interface{}{"model": a.model.Model()},
	}
	started := time.Now()

	prompt := primaryPrompt(topic, recs)
	var text string
	err := a.retry.Do(ctx, a.logger, "primary model invoke", func() error {
		var ierr error
		text, ierr = a.model.Invoke(ctx, prompt)
		return ierr
	})
	if a.telem != nil {
		a.telem.RecordStage("primary_reasoning", time.Since(started), err)
	}
	if err != nil {
		step.Error = err.Error()
		trace.Steps = append(trace.Steps, step)
		a.logger.Printf("primary reasoning failed: %v", err)
		return primaryResult{Verdict: "Insufficient evidence", Bias: "unknown", Confidence: 0.45}
	}

	res := parsePrimary(text)
	step.Response = map[string]interface{}{
		"verdict":     res.Verdict,
		"confidence":  res.Confidence,
		"bias":        res.Bias,
		"summary_len": len(res.Summary),
	}
	trace.Steps = append(trace.Steps, step)
	return res
}

func (a *Agent) externalEvidence(ctx context.Context, topic string, trace *models.RunTrace) []models.EvidenceItem {
	step := models.TraceStep{
		Name:    "external_evidence",
		Context: map[string]interface{}{"provider": a.cfg.Search.Provider, "q": topic},
	}
	started := time.Now()

	if a.search == nil {
		step.Error = a.searchErr.Error()
		trace.Steps = append(trace.Steps, step)
		a.logger.Printf("external evidence skipped: %v", a.searchErr)
		return []models.EvidenceItem{}
	}

	var items []models.EvidenceItem
	err := a.retry.Do(ctx, a.logger, "evidence search", func() error {
		var serr error
		items, serr = a.search.Search(ctx, topic, a.cfg.Search.MaxResults)
		return serr
	})
	if a.telem != nil {
		a.telem.RecordStage("external_evidence", time.Since(started), err)
	}
	if err != nil {
		step.Error = err.Error()
		trace.Steps = append(trace.Steps, step)
		a.logger.Printf("external evidence failed: %v", err)
		return []models.EvidenceItem{}
	}

	enriched := 0
	if a.cfg.Search.EnrichSnippets {
		items, enriched = a.enrichSnippets(ctx, items)
	}
	step.Response = map[string]interface{}{"count": len(items), "enriched": enriched}
	trace.Steps = append(trace.Steps, step)
	return items
}

func (a *Agent) crossVerify(ctx context.Context, topic string, recs []models.InternalRecord, ev []models.EvidenceItem, primaryVerdict string, trace *models.RunTrace) crossVerifyResult {
	step := models.TraceStep{
		Name:    "cross_verify",
		Context: map[string]interface{}{"model": a.model.Model()},
	}
	started := time.Now()

	prompt := crossVerifyPrompt(topic, recs, ev, primaryVerdict)
	var text string
	err := a.retry.Do(ctx, a.logger, "cross-verify model invoke", func() error {
		var ierr error
		text, ierr = a.model.Invoke(ctx, prompt)
		return ierr
	})
	if a.telem != nil {
		a.telem.RecordStage("cross_verify", time.Since(started), err)
	}
	if err != nil {
		step.Error = err.Error()
		trace.Steps = append(trace.Steps, step)
		a.logger.Printf("cross-verify failed: %v", err)
		return crossVerifyResult{Verdict: primaryVerdict, Bias: "unknown", Confidence: 0.5}
	}

	res := parseCrossVerify(text, primaryVerdict)
	step.Response = map[string]interface{}{
		"support":    string(res.Support),
		"verdict":    res.Verdict,
		"confidence": res.Confidence,
		"bias":       res.Bias,
	}
	trace.Steps = append(trace.Steps, step)
	return res
}

// persistTrace writes the completed trace. Persistence failures are
// logged and dropped so they can never poison the run's output.
func (a *Agent) persistTrace(ctx context.Context, trace models.RunTrace) {
	if a.traces == nil {
		a.logger.Printf("trace store not configured, dropping trace %s", trace.RunID)
		return
	}
	err := a.retry.Do(ctx, a.logger, "trace persist", func() error {
		return a.traces.SaveTrace(ctx, trace)
	})
	if err != nil {
		a.logger.Printf("trace persist failed for run %s: %v", trace.RunID, err)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
