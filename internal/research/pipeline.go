package research

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/macrochain/macrochain/pkg/logger"
)

// ProgressFunc observes per-phase completion during a pipeline run.
// Callbacks fire after the join barrier, in canonical phase order, so
// streaming consumers see a deterministic event sequence. The observer
// cannot influence the result.
type ProgressFunc func(phase Phase, finding PhaseFinding)

// Pipeline orchestrates a full research run: interpret the query, dispatch
// the four phase analyzers concurrently, correlate their findings, and
// synthesize the final result. Stateless and safe for concurrent use.
type Pipeline struct {
	analyzers []Analyzer
	log       *logger.Logger
}

// NewPipeline builds a pipeline with the default analyzer set.
func NewPipeline(log *logger.Logger) *Pipeline {
	return &Pipeline{
		analyzers: DefaultAnalyzers(),
		log:       log,
	}
}

// Execute runs the full pipeline for one query. The only failure is
// ErrInvalidQuery; everything past interpretation is total.
func (p *Pipeline) Execute(ctx context.Context, query string, assets []string) (*ResearchResult, error) {
	return p.ExecuteWithProgress(ctx, query, assets, nil)
}

// ExecuteWithProgress runs the pipeline and reports per-phase completion to
// observe, when non-nil.
func (p *Pipeline) ExecuteWithProgress(ctx context.Context, query string, assets []string, observe ProgressFunc) (*ResearchResult, error) {
	start := time.Now()

	qc, err := InterpretQuery(query, assets)
	if err != nil {
		return nil, err
	}

	p.log.WithFields(map[string]interface{}{
		"category": qc.Category,
		"assets":   qc.Assets,
	}).Debug("query interpreted")

	// Each analyzer writes its own slot; the WaitGroup is the only
	// synchronization the findings need.
	slots := make([]PhaseFinding, len(p.analyzers))
	var wg sync.WaitGroup
	for i, a := range p.analyzers {
		wg.Add(1)
		go func(i int, a Analyzer) {
			defer wg.Done()
			slots[i] = a.Analyze(qc)
		}(i, a)
	}
	wg.Wait()

	findings := make(map[Phase]PhaseFinding, len(slots))
	for _, f := range slots {
		findings[f.Phase] = f
	}

	if observe != nil {
		for _, phase := range Phases() {
			observe(phase, findings[phase])
		}
	}

	correlations := Correlate(findings)
	insights, confidence, riskNotes := Synthesize(findings, correlations)

	result := &ResearchResult{
		ID:                uuid.NewString(),
		Query:             qc,
		Findings:          findings,
		Correlations:      correlations,
		Synthesis:         insights,
		OverallConfidence: confidence,
		RiskNotes:         riskNotes,
		GeneratedAt:       time.Now().UTC(),
		PipelineVersion:   PipelineVersion,
	}

	p.log.WithFields(map[string]interface{}{
		"research_id": result.ID,
		"category":    qc.Category,
		"confidence":  result.OverallConfidence,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("research pipeline completed")

	return result, nil
}
