package research

// OnChainAnalyzer assesses network fundamentals: address activity, holder
// behavior, and utilization as proxies for adoption.
type OnChainAnalyzer struct{}

func (OnChainAnalyzer) Phase() Phase { return PhaseOnChain }

func (OnChainAnalyzer) Analyze(qc QueryContext) PhaseFinding {
	return analyzeFromTable(PhaseOnChain, qc)
}
