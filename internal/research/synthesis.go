package research

import "fmt"

// Synthesize distills the four findings and their correlation graph into
// key insights, an overall confidence score, and risk notes.
//
// Overall confidence is the weighted sum of phase confidences, adjusted by
// a fixed bonus per confirming edge and penalty per conflicting edge, then
// clamped to [0,1]. Insights walk the canonical phase order followed by the
// fixed edge order with duplicate suppression. Risk notes combine the
// standing caveats with every phase's limitations and are never empty.
func Synthesize(findings map[Phase]PhaseFinding, correlations CorrelationSet) (insights []string, confidence float64, riskNotes []string) {
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			insights = append(insights, s)
		}
	}

	for _, phase := range Phases() {
		f := findings[phase]
		add(fmt.Sprintf("%s: %s conditions (confidence %.0f%%)",
			phaseDisplayNames[phase], f.Classification, f.Confidence*100))
		if len(f.Observations) > 0 {
			add(f.Observations[0])
		}
	}
	for _, edge := range correlations.Edges {
		if edge.Relationship != RelIndependent {
			add(edge.Rationale)
		}
	}

	for _, phase := range Phases() {
		confidence += confidenceWeights[phase] * findings[phase].Confidence
	}
	confidence += confirmingBonus * float64(correlations.Count(RelConfirming))
	confidence -= conflictingPenalty * float64(correlations.Count(RelConflicting))
	confidence = clamp01(confidence)

	riskNotes = append(riskNotes, standingCaveats...)
	noted := make(map[string]bool, len(riskNotes))
	for _, n := range riskNotes {
		noted[n] = true
	}
	for _, phase := range Phases() {
		for _, lim := range findings[phase].Limitations {
			if !noted[lim] {
				noted[lim] = true
				riskNotes = append(riskNotes, lim)
			}
		}
	}

	return insights, confidence, riskNotes
}

// phaseDisplayNames renders phases in reader-facing English.
var phaseDisplayNames = map[Phase]string{
	PhaseMacro:     "Macro environment",
	PhaseSentiment: "Market sentiment",
	PhaseOnChain:   "On-chain activity",
	PhaseStructure: "Market structure",
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
