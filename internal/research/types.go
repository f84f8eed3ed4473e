package research

import (
	"time"
)

// Phase identifies one of the four analytical dimensions of a research run.
type Phase string

const (
	PhaseMacro     Phase = "macro"
	PhaseSentiment Phase = "sentiment"
	PhaseOnChain   Phase = "onchain"
	PhaseStructure Phase = "structure"
)

// Phases returns the four phases in canonical reporting order.
func Phases() []Phase {
	return []Phase{PhaseMacro, PhaseSentiment, PhaseOnChain, PhaseStructure}
}

// Category classifies the research intent inferred from a query.
type Category string

const (
	CategoryOverview    Category = "overview"
	CategoryComparative Category = "comparative"
	CategoryThematic    Category = "thematic"
	CategoryRegulatory  Category = "regulatory"
	CategorySentiment   Category = "sentiment"
	CategoryOnChain     Category = "onchain"
	CategoryStructure   Category = "structure"
	CategoryRisk        Category = "risk"
	CategoryEducational Category = "educational"
)

// Categories returns every query category in a fixed order.
func Categories() []Category {
	return []Category{
		CategoryOverview,
		CategoryComparative,
		CategoryThematic,
		CategoryRegulatory,
		CategorySentiment,
		CategoryOnChain,
		CategoryStructure,
		CategoryRisk,
		CategoryEducational,
	}
}

// Classification is the categorical label a phase analyzer assigns.
// Each phase draws from its own subset of values; ClassInsufficient is the
// shared fallback when a decision table has no entry for a category.
type Classification string

const (
	// Macro conditions
	ClassSupportive  Classification = "supportive"
	ClassMixed       Classification = "mixed"
	ClassChallenging Classification = "challenging"

	// Sentiment regimes
	ClassExtremeFear  Classification = "extreme_fear"
	ClassFear         Classification = "fear"
	ClassNeutral      Classification = "neutral"
	ClassGreed        Classification = "greed"
	ClassExtremeGreed Classification = "extreme_greed"

	// On-chain network activity
	ClassExpanding   Classification = "expanding"
	ClassStable      Classification = "stable"
	ClassContracting Classification = "contracting"

	// Market structure phases
	ClassTrend      Classification = "trend"
	ClassRange      Classification = "range"
	ClassTransition Classification = "transition"

	// Shared
	ClassUncertain    Classification = "uncertain"
	ClassInsufficient Classification = "insufficient"
)

// QueryContext is the interpreted form of a research query.
// Immutable once built by the interpreter.
type QueryContext struct {
	RawQuery string   `json:"raw_query"`
	Assets   []string `json:"detected_assets"`
	Category Category `json:"inferred_category"`
	Terms    []string `json:"normalized_terms"`
}

// PhaseFinding is the output of a single phase analyzer.
// Produced once per phase per run and never mutated afterwards.
type PhaseFinding struct {
	Phase          Phase          `json:"phase"`
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence"`
	Observations   []string       `json:"key_observations"`
	Assumptions    []string       `json:"assumptions"`
	Limitations    []string       `json:"limitations"`
}

// Relationship labels how two phase findings relate.
type Relationship string

const (
	RelConfirming  Relationship = "confirming"
	RelConflicting Relationship = "conflicting"
	RelIndependent Relationship = "independent"
)

// CorrelationEdge is a labeled relationship between two phases' findings.
// PhaseA sorts lexicographically before PhaseB.
type CorrelationEdge struct {
	PhaseA       Phase        `json:"phase_a"`
	PhaseB       Phase        `json:"phase_b"`
	Relationship Relationship `json:"relationship"`
	Rationale    string       `json:"rationale"`
}

// CorrelationSet holds the full collection of pairwise edges in fixed
// lexicographic order. Built once by the correlation engine, read-only.
type CorrelationSet struct {
	Edges []CorrelationEdge `json:"edges"`
}

// Count returns the number of edges with the given relationship.
func (s CorrelationSet) Count(rel Relationship) int {
	n := 0
	for _, e := range s.Edges {
		if e.Relationship == rel {
			n++
		}
	}
	return n
}

// ResearchResult is the sole artifact a pipeline run hands to callers.
// It owns all nested data by value; nothing is shared with the pipeline
// after Execute returns.
type ResearchResult struct {
	ID                string                 `json:"research_id"`
	Query             QueryContext           `json:"query_context"`
	Findings          map[Phase]PhaseFinding `json:"phase_findings"`
	Correlations      CorrelationSet         `json:"correlations"`
	Synthesis         []string               `json:"synthesis"`
	OverallConfidence float64                `json:"overall_confidence"`
	RiskNotes         []string               `json:"risk_notes"`
	GeneratedAt       time.Time              `json:"generated_at"`
	PipelineVersion   string                 `json:"pipeline_version"`
}
