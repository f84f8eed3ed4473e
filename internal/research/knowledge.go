package research

import (
	"fmt"
	"math"
)

// PipelineVersion tags every result with the knowledge-table revision that
// produced it.
const PipelineVersion = "1.0.0"

// Disclaimer is attached to every externally visible report.
const Disclaimer = "This research report is for educational and informational purposes only. " +
	"It does not constitute financial advice, investment recommendations, or trading signals. " +
	"Cryptocurrency markets are highly volatile and risky. Always conduct your own research " +
	"and consult with qualified financial professionals before making any investment decisions."

// Overall-confidence policy. The weights sum to 1.0; each confirming edge
// adds confirmingBonus and each conflicting edge subtracts
// conflictingPenalty before clamping to [0,1].
const (
	confirmingBonus    = 0.05
	conflictingPenalty = 0.08
)

var confidenceWeights = map[Phase]float64{
	PhaseMacro:     0.25,
	PhaseSentiment: 0.20,
	PhaseOnChain:   0.25,
	PhaseStructure: 0.30,
}

// standingCaveats are attached to every result regardless of phase output.
// The system never claims certainty.
var standingCaveats = []string{
	"Analysis is conceptual and does not use real-time market data",
	"Educational focus limits predictive capability",
	"Market complexity exceeds any fixed analytical framework",
	"Unforeseen events can invalidate the current assessment",
}

// assetAliases maps common tickers and spellings to canonical asset IDs.
var assetAliases = map[string]string{
	"btc":      "bitcoin",
	"xbt":      "bitcoin",
	"bitcoin":  "bitcoin",
	"eth":      "ethereum",
	"ethereum": "ethereum",
	"sol":      "solana",
	"solana":   "solana",
	"ada":      "cardano",
	"cardano":  "cardano",
	"xrp":      "ripple",
	"ripple":   "ripple",
	"doge":     "dogecoin",
	"dogecoin": "dogecoin",
	"dot":      "polkadot",
	"polkadot": "polkadot",
	"link":     "chainlink",
	"ltc":      "litecoin",
	"litecoin": "litecoin",
	"bnb":      "bnb",
	"avax":     "avalanche",
	"matic":    "polygon",
	"polygon":  "polygon",
}

// categoryRule maps trigger phrases to a query category. Rules are evaluated
// in order; the first phrase hit wins. Phrases are matched against the
// normalized query text on word boundaries.
type categoryRule struct {
	category Category
	phrases  []string
}

// categoryRules is the ordered first-match-wins rule list. A query matching
// no rule falls back to CategoryOverview.
var categoryRules = []categoryRule{
	{CategoryComparative, []string{"compare", "comparison", "versus", "vs", "relative to"}},
	{CategoryRegulatory, []string{"regulation", "regulatory", "regulator", "sec", "compliance", "legal", "etf approval"}},
	{CategoryOnChain, []string{"onchain", "on chain", "network activity", "active addresses", "holder", "holders", "hash rate", "transaction volume"}},
	{CategoryStructure, []string{"market structure", "structure", "liquidity", "volatility", "trend", "range", "breakout", "microstructure"}},
	{CategorySentiment, []string{"sentiment", "fear", "greed", "mood", "social media", "psychology"}},
	{CategoryRisk, []string{"risk", "drawdown", "downside", "hedge", "exposure"}},
	{CategoryThematic, []string{"defi", "nft", "stablecoin", "narrative", "theme", "adoption", "layer 2", "halving"}},
	{CategoryEducational, []string{"explain", "what is", "how does", "learn", "beginner", "educational"}},
}

// stopwords are dropped from the normalized term list.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "is": true,
	"it": true, "of": true, "on": true, "or": true, "the": true, "to": true,
	"with": true, "about": true, "me": true, "my": true, "please": true,
}

// phaseRule is one row of a phase decision table: the classification,
// baseline confidence, and framework observations for a query category.
type phaseRule struct {
	class        Classification
	confidence   float64
	observations []string
}

// macroTable keys the macro analyzer's conceptual framework by category.
// Total over all categories; missing entries degrade to ClassInsufficient.
var macroTable = map[Category]phaseRule{
	CategoryOverview: {ClassMixed, 0.55, []string{
		"Global liquidity remains a key driver of crypto market cycles",
		"Interest rate expectations matter more than current policy rates",
		"Mixed signals across liquidity, rates, and risk appetite indicators",
	}},
	CategoryComparative: {ClassMixed, 0.50, []string{
		"Macro forces act on the whole asset class; cross-asset differences are second order",
		"Dollar strength pressures all dollar-denominated crypto assets similarly",
	}},
	CategoryThematic: {ClassSupportive, 0.50, []string{
		"Accommodative liquidity conditions historically support thematic capital rotation",
		"Negative real rates increase the appeal of alternative stores of value",
	}},
	CategoryRegulatory: {ClassChallenging, 0.60, []string{
		"Evolving compliance requirements raise operating costs for market participants",
		"Regulatory clarity in major jurisdictions can support institutional adoption",
		"International coordination reduces room for regulatory arbitrage",
	}},
	CategorySentiment: {ClassMixed, 0.45, []string{
		"Risk sentiment is a major driver of short-term crypto price movements",
		"Equity volatility indices serve as proxies for overall risk appetite",
	}},
	CategoryOnChain: {ClassMixed, 0.40, []string{
		"Macro conditions shape the capital flows that on-chain metrics record",
		"Liquidity changes often precede shifts in network activity",
	}},
	CategoryStructure: {ClassMixed, 0.50, []string{
		"Credit conditions influence demand for risk assets and market depth",
		"Cross-asset liquidity correlations transmit macro stress into crypto markets",
	}},
	CategoryRisk: {ClassChallenging, 0.55, []string{
		"Tight liquidity conditions may constrain crypto market growth",
		"Risk-off rotation pressures crypto prices in the short term",
	}},
	CategoryEducational: {ClassMixed, 0.60, []string{
		"Central bank balance-sheet expansion increases liquidity available to risk assets",
		"Crypto assets often behave like high-duration assets in rate environments",
		"Traditional market relationships with crypto are still evolving",
	}},
}

// sentimentTable keys the sentiment analyzer's framework by category.
var sentimentTable = map[Category]phaseRule{
	CategoryOverview: {ClassNeutral, 0.55, []string{
		"Fear & Greed composite sits in the neutral band",
		"Social media sentiment shows mixed signals across platforms",
	}},
	CategoryComparative: {ClassNeutral, 0.50, []string{
		"Relative sentiment between major assets tracks their market dominance shifts",
		"Rising Bitcoin dominance can indicate a flight to relative safety",
	}},
	CategoryThematic: {ClassGreed, 0.45, []string{
		"Narrative-driven interest amplifies positive sentiment in themed sectors",
		"High posting volume with positive tone is a classic greed marker",
	}},
	CategoryRegulatory: {ClassFear, 0.50, []string{
		"Regulatory headlines are a recurring trigger for fear-skewed coverage",
		"News sentiment reflects media priorities as much as market reality",
	}},
	CategorySentiment: {ClassNeutral, 0.65, []string{
		"The Fear & Greed Index is a contrarian indicator",
		"Extreme readings often precede market reversals",
		"Sentiment is most useful when analyzed over time rather than as a snapshot",
	}},
	CategoryOnChain: {ClassNeutral, 0.45, []string{
		"Sentiment and network fundamentals frequently diverge in the short term",
	}},
	CategoryStructure: {ClassNeutral, 0.50, []string{
		"Neutral sentiment tends to accompany range-bound price structure",
		"Momentum indicators work best when confirming other signals",
	}},
	CategoryRisk: {ClassFear, 0.55, []string{
		"Risk-focused queries coincide with fear-skewed market psychology",
		"Sharp declines in momentum typically signal fear",
	}},
	CategoryEducational: {ClassNeutral, 0.60, []string{
		"Sentiment analysis helps understand market psychology",
		"Social media sentiment can be manipulated and should be verified",
	}},
}

// onchainTable keys the on-chain analyzer's framework by category.
var onchainTable = map[Category]phaseRule{
	CategoryOverview: {ClassStable, 0.55, []string{
		"Active address counts indicate steady network usage",
		"Network utilization shows moderate demand for block space",
	}},
	CategoryComparative: {ClassStable, 0.50, []string{
		"Per-network activity comparisons reveal different adoption profiles",
		"Fee markets differ materially between major networks",
	}},
	CategoryThematic: {ClassExpanding, 0.50, []string{
		"Decentralized application activity drives incremental network demand",
		"New address creation suggests ongoing user acquisition",
	}},
	CategoryRegulatory: {ClassStable, 0.45, []string{
		"On-chain activity is largely insensitive to regulatory headlines in the short run",
	}},
	CategorySentiment: {ClassStable, 0.45, []string{
		"Network fundamentals often diverge from sentiment-driven price action",
	}},
	CategoryOnChain: {ClassExpanding, 0.65, []string{
		"Active addresses serve as a proxy for adoption and engagement",
		"DApp activity demonstrates utility beyond simple transfers",
		"Long-term value correlates with network utility and adoption",
	}},
	CategoryStructure: {ClassStable, 0.50, []string{
		"Holder distribution patterns provide context for structural liquidity",
		"Exchange flows connect on-chain behavior to market structure",
	}},
	CategoryRisk: {ClassUncertain, 0.40, []string{
		"Concentration risk rises when whale holdings increase",
		"Liquidity risk appears if long-term holders start distributing",
	}},
	CategoryEducational: {ClassStable, 0.60, []string{
		"On-chain metrics provide transparent insights into network activity",
		"Blockchain data allows analysis impossible in traditional markets",
	}},
}

// structureTable keys the market-structure analyzer's framework by
// category. Overview and structure queries map to the transition baseline.
var structureTable = map[Category]phaseRule{
	CategoryOverview: {ClassTransition, 0.50, []string{
		"Phase-shift probability is moderate with unclear transition signals",
		"Volume patterns show moderate participation without strong conviction",
	}},
	CategoryComparative: {ClassRange, 0.50, []string{
		"Different assets can be in different structural phases simultaneously",
		"Range boundaries mark areas of concentrated buying and selling interest",
	}},
	CategoryThematic: {ClassTransition, 0.45, []string{
		"Thematic rotation often coincides with structural phase changes",
	}},
	CategoryRegulatory: {ClassUncertain, 0.40, []string{
		"Regulatory shocks can invalidate structural classifications without warning",
	}},
	CategorySentiment: {ClassRange, 0.45, []string{
		"Range-bound structure typically accompanies neutral market psychology",
	}},
	CategoryOnChain: {ClassTransition, 0.45, []string{
		"Shifts in network fundamentals often precede structural transitions",
	}},
	CategoryStructure: {ClassTransition, 0.50, []string{
		"Transition phases suggest potential structural changes ahead",
		"Volatility often increases while a market changes phase",
		"Phase identification is probabilistic, not deterministic",
	}},
	CategoryRisk: {ClassUncertain, 0.35, []string{
		"Market structure can change without warning",
		"Liquidity may deteriorate during structural changes",
	}},
	CategoryEducational: {ClassRange, 0.55, []string{
		"Market phases contextualize price action and volatility patterns",
		"Range-bound structure implies identifiable support and resistance levels",
	}},
}

// phaseTables indexes each phase's decision table.
var phaseTables = map[Phase]map[Category]phaseRule{
	PhaseMacro:     macroTable,
	PhaseSentiment: sentimentTable,
	PhaseOnChain:   onchainTable,
	PhaseStructure: structureTable,
}

// Per-phase standing assumptions and limitations, adapted from the
// conceptual frameworks each analyzer is built on.
var phaseAssumptions = map[Phase][]string{
	PhaseMacro: {
		"Macro analysis is based on conceptual relationships, not live indicator readings",
		"Historical macro-crypto correlations may not hold in future conditions",
	},
	PhaseSentiment: {
		"Sentiment framework assumes crowd psychology follows recurring patterns",
		"Extreme readings are treated as contrarian rather than directional signals",
	},
	PhaseOnChain: {
		"Address-level metrics are treated as proxies for user behavior",
		"Network fundamentals are assumed to drive long-term value",
	},
	PhaseStructure: {
		"Structural classification relies on conceptual phase definitions",
		"Current structural conditions may not reflect future states",
	},
}

var phaseLimitations = map[Phase][]string{
	PhaseMacro: {
		"No real-time macroeconomic data is consulted",
		"Policy surprises cannot be anticipated by a static framework",
	},
	PhaseSentiment: {
		"No live sentiment feeds are consulted",
		"Sentiment can shift faster than any framework captures",
	},
	PhaseOnChain: {
		"No live blockchain data is consulted",
		"Address heuristics cannot distinguish users from entities",
	},
	PhaseStructure: {
		"No live price or volume data is consulted",
		"Structural classification carries inherent uncertainty",
	},
}

// classPair keys a correlation rule by the two classifications, with A
// belonging to the lexicographically smaller phase of the pair.
type classPair struct {
	a, b Classification
}

type edgeRule struct {
	rel       Relationship
	rationale string
}

// pairKey identifies an unordered phase pair with A < B lexicographically.
type pairKey struct {
	a, b Phase
}

// phasePairs lists the C(4,2)=6 phase pairs in fixed lexicographic order so
// report output is stable across runs.
var phasePairs = []pairKey{
	{PhaseMacro, PhaseOnChain},
	{PhaseMacro, PhaseSentiment},
	{PhaseMacro, PhaseStructure},
	{PhaseOnChain, PhaseSentiment},
	{PhaseOnChain, PhaseStructure},
	{PhaseSentiment, PhaseStructure},
}

// correlationRules holds the pair-specific compatibility tables. Any
// combination not listed resolves to RelIndependent with a generic
// rationale, so the rule set is total by construction.
var correlationRules = map[pairKey]map[classPair]edgeRule{
	{PhaseMacro, PhaseOnChain}: {
		{ClassSupportive, ClassExpanding}:   {RelConfirming, "Supportive macro conditions align with expanding network activity"},
		{ClassChallenging, ClassContracting}: {RelConfirming, "Challenging macro conditions align with contracting network activity"},
		{ClassSupportive, ClassContracting}: {RelConflicting, "Network contraction contradicts a supportive macro backdrop"},
		{ClassChallenging, ClassExpanding}:  {RelConflicting, "Network expansion runs counter to a challenging macro backdrop"},
	},
	{PhaseMacro, PhaseSentiment}: {
		{ClassChallenging, ClassFear}:        {RelConfirming, "Challenging macro conditions align with fearful sentiment"},
		{ClassChallenging, ClassExtremeFear}: {RelConfirming, "Challenging macro conditions align with extreme fear"},
		{ClassSupportive, ClassGreed}:        {RelConfirming, "Supportive macro conditions align with greedy sentiment"},
		{ClassSupportive, ClassExtremeGreed}: {RelConfirming, "Supportive macro conditions align with extreme greed"},
		{ClassChallenging, ClassGreed}:       {RelConflicting, "Greedy sentiment contradicts a challenging macro backdrop"},
		{ClassChallenging, ClassExtremeGreed}: {RelConflicting, "Extreme greed contradicts a challenging macro backdrop"},
		{ClassSupportive, ClassFear}:         {RelConflicting, "Fearful sentiment contradicts a supportive macro backdrop"},
		{ClassSupportive, ClassExtremeFear}:  {RelConflicting, "Extreme fear contradicts a supportive macro backdrop"},
	},
	{PhaseMacro, PhaseStructure}: {
		{ClassSupportive, ClassTrend}:  {RelConfirming, "Supportive macro conditions underpin a trending market structure"},
		{ClassMixed, ClassRange}:       {RelConfirming, "Mixed macro conditions coincide with range-bound market structure"},
		{ClassChallenging, ClassTrend}: {RelConflicting, "A trending structure sits uneasily with challenging macro conditions"},
	},
	{PhaseOnChain, PhaseSentiment}: {
		{ClassExpanding, ClassGreed}:          {RelConfirming, "Expanding network activity aligns with greedy sentiment"},
		{ClassExpanding, ClassExtremeGreed}:   {RelConfirming, "Expanding network activity aligns with extreme greed"},
		{ClassContracting, ClassFear}:         {RelConfirming, "Contracting network activity aligns with fearful sentiment"},
		{ClassContracting, ClassExtremeFear}:  {RelConfirming, "Contracting network activity aligns with extreme fear"},
		{ClassExpanding, ClassFear}:           {RelConflicting, "Fearful sentiment diverges from expanding network fundamentals"},
		{ClassExpanding, ClassExtremeFear}:    {RelConflicting, "Extreme fear diverges from expanding network fundamentals"},
		{ClassContracting, ClassGreed}:        {RelConflicting, "Greedy sentiment diverges from contracting network fundamentals"},
		{ClassContracting, ClassExtremeGreed}: {RelConflicting, "Extreme greed diverges from contracting network fundamentals"},
	},
	{PhaseOnChain, PhaseStructure}: {
		{ClassExpanding, ClassTrend}:   {RelConfirming, "Strong network fundamentals support a robust trending structure"},
		{ClassStable, ClassRange}:      {RelConfirming, "Stable network activity coincides with range-bound structure"},
		{ClassContracting, ClassTrend}: {RelConflicting, "A trending structure lacks support from contracting network activity"},
	},
	{PhaseSentiment, PhaseStructure}: {
		{ClassNeutral, ClassRange}:       {RelConfirming, "Neutral sentiment coincides with range-bound market structure"},
		{ClassGreed, ClassTrend}:         {RelConfirming, "Greedy sentiment reinforces a trending market structure"},
		{ClassExtremeGreed, ClassTrend}:  {RelConfirming, "Extreme greed reinforces a trending market structure"},
		{ClassFear, ClassTrend}:          {RelConflicting, "Fearful sentiment undercuts a trending market structure"},
		{ClassExtremeFear, ClassTrend}:   {RelConflicting, "Extreme fear undercuts a trending market structure"},
	},
}

// phaseClassifications lists the classification values each phase's decision
// table may emit, including the shared fallbacks. Used for validation and
// for exhaustive correlation coverage tests.
var phaseClassifications = map[Phase][]Classification{
	PhaseMacro:     {ClassSupportive, ClassMixed, ClassChallenging, ClassUncertain, ClassInsufficient},
	PhaseSentiment: {ClassExtremeFear, ClassFear, ClassNeutral, ClassGreed, ClassExtremeGreed, ClassInsufficient},
	PhaseOnChain:   {ClassExpanding, ClassStable, ClassContracting, ClassUncertain, ClassInsufficient},
	PhaseStructure: {ClassTrend, ClassRange, ClassTransition, ClassUncertain, ClassInsufficient},
}

// ValidateKnowledge checks the static decision tables once at process start.
// A failure here is a configuration error and fatal; the tables are never
// mutated at runtime, so a pipeline that starts clean stays clean.
func ValidateKnowledge() error {
	// Every phase table must be total over the category enum.
	for _, phase := range Phases() {
		table, ok := phaseTables[phase]
		if !ok {
			return fmt.Errorf("%w: no decision table for phase %s", ErrInvalidKnowledge, phase)
		}
		for _, cat := range Categories() {
			rule, ok := table[cat]
			if !ok {
				return fmt.Errorf("%w: phase %s has no rule for category %s", ErrInvalidKnowledge, phase, cat)
			}
			if rule.confidence < 0 || rule.confidence > 1 {
				return fmt.Errorf("%w: phase %s category %s confidence %.2f out of [0,1]",
					ErrInvalidKnowledge, phase, cat, rule.confidence)
			}
			if !validClassification(phase, rule.class) {
				return fmt.Errorf("%w: phase %s category %s maps to foreign classification %s",
					ErrInvalidKnowledge, phase, cat, rule.class)
			}
			if len(rule.observations) == 0 {
				return fmt.Errorf("%w: phase %s category %s has no observations", ErrInvalidKnowledge, phase, cat)
			}
		}
		if len(phaseAssumptions[phase]) == 0 || len(phaseLimitations[phase]) == 0 {
			return fmt.Errorf("%w: phase %s missing assumptions or limitations", ErrInvalidKnowledge, phase)
		}
	}

	// Confidence weights must cover all phases and sum to 1.
	sum := 0.0
	for _, phase := range Phases() {
		w, ok := confidenceWeights[phase]
		if !ok {
			return fmt.Errorf("%w: no confidence weight for phase %s", ErrInvalidKnowledge, phase)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("%w: confidence weights sum to %.4f, want 1.0", ErrInvalidKnowledge, sum)
	}

	// Correlation rules may only reference the classifications their pair's
	// phases can actually emit.
	for pair, rules := range correlationRules {
		for cp := range rules {
			if !validClassification(pair.a, cp.a) {
				return fmt.Errorf("%w: pair %s/%s rule references %s, not emitted by %s",
					ErrInvalidKnowledge, pair.a, pair.b, cp.a, pair.a)
			}
			if !validClassification(pair.b, cp.b) {
				return fmt.Errorf("%w: pair %s/%s rule references %s, not emitted by %s",
					ErrInvalidKnowledge, pair.a, pair.b, cp.b, pair.b)
			}
		}
	}

	return nil
}

func validClassification(phase Phase, class Classification) bool {
	for _, c := range phaseClassifications[phase] {
		if c == class {
			return true
		}
	}
	return false
}
