package research

// Analyzer examines one analytical dimension of a query. Implementations
// are pure functions over the static knowledge tables: same context in,
// same finding out, no shared state and no visibility into other phases.
type Analyzer interface {
	Phase() Phase
	Analyze(qc QueryContext) PhaseFinding
}

// DefaultAnalyzers returns the four phase analyzers in canonical order.
func DefaultAnalyzers() []Analyzer {
	return []Analyzer{
		MacroAnalyzer{},
		SentimentAnalyzer{},
		OnChainAnalyzer{},
		StructureAnalyzer{},
	}
}

// analyzeFromTable resolves a finding from a phase's decision table.
// A category with no table entry degrades to ClassInsufficient at zero
// confidence rather than failing; the assumption and limitation lists are
// always populated so downstream risk assessment never sees an empty set.
func analyzeFromTable(phase Phase, qc QueryContext) PhaseFinding {
	rule, ok := phaseTables[phase][qc.Category]
	if !ok {
		return PhaseFinding{
			Phase:          phase,
			Classification: ClassInsufficient,
			Confidence:     0,
			Observations: []string{
				"No analytical framework covers this query category",
			},
			Assumptions: cloneStrings(phaseAssumptions[phase]),
			Limitations: cloneStrings(phaseLimitations[phase]),
		}
	}
	return PhaseFinding{
		Phase:          phase,
		Classification: rule.class,
		Confidence:     rule.confidence,
		Observations:   cloneStrings(rule.observations),
		Assumptions:    cloneStrings(phaseAssumptions[phase]),
		Limitations:    cloneStrings(phaseLimitations[phase]),
	}
}

// cloneStrings copies a knowledge-table slice so findings never alias the
// static tables.
func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
