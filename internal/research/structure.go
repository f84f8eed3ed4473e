package research

// StructureAnalyzer assesses market structure: whether conditions look
// trending, range-bound, or in transition, and what that implies for
// liquidity and volatility.
type StructureAnalyzer struct{}

func (StructureAnalyzer) Phase() Phase { return PhaseStructure }

func (StructureAnalyzer) Analyze(qc QueryContext) PhaseFinding {
	return analyzeFromTable(PhaseStructure, qc)
}
