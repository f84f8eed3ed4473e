package research

import "fmt"

// Correlate builds the pairwise relationship graph over the four phase
// findings. Every C(4,2)=6 unordered pair gets exactly one edge, emitted in
// fixed lexicographic phase order. Pairs without a specific compatibility
// rule resolve to RelIndependent, so the engine is total over every
// classification combination the analyzers can produce.
func Correlate(findings map[Phase]PhaseFinding) CorrelationSet {
	edges := make([]CorrelationEdge, 0, len(phasePairs))
	for _, pair := range phasePairs {
		fa := findings[pair.a]
		fb := findings[pair.b]

		rule, ok := correlationRules[pair][classPair{fa.Classification, fb.Classification}]
		if !ok {
			rule = edgeRule{
				rel: RelIndependent,
				rationale: fmt.Sprintf("No established relationship between %s %s and %s %s conditions",
					pair.a, fa.Classification, pair.b, fb.Classification),
			}
		}

		edges = append(edges, CorrelationEdge{
			PhaseA:       pair.a,
			PhaseB:       pair.b,
			Relationship: rule.rel,
			Rationale:    rule.rationale,
		})
	}
	return CorrelationSet{Edges: edges}
}
