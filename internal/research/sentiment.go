package research

// SentimentAnalyzer assesses market psychology through the fear/greed
// framework: crowd positioning, social tone, and contrarian extremes.
type SentimentAnalyzer struct{}

func (SentimentAnalyzer) Phase() Phase { return PhaseSentiment }

func (SentimentAnalyzer) Analyze(qc QueryContext) PhaseFinding {
	return analyzeFromTable(PhaseSentiment, qc)
}
