package research

// MacroAnalyzer assesses how the macroeconomic environment conceptually
// relates to crypto markets: liquidity conditions, rate expectations, and
// cross-asset risk appetite.
type MacroAnalyzer struct{}

func (MacroAnalyzer) Phase() Phase { return PhaseMacro }

func (MacroAnalyzer) Analyze(qc QueryContext) PhaseFinding {
	return analyzeFromTable(PhaseMacro, qc)
}
