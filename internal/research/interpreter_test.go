package research

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretQuery_EmptyQuery(t *testing.T) {
	_, err := InterpretQuery("", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidQuery))

	_, err = InterpretQuery("   \t\n  ", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidQuery))
}

func TestInterpretQuery_AssetDetection(t *testing.T) {
	qc, err := InterpretQuery("Analyze Bitcoin market structure", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"bitcoin"}, qc.Assets)
	assert.Equal(t, CategoryStructure, qc.Category)
	assert.Equal(t, "Analyze Bitcoin market structure", qc.RawQuery)
}

func TestInterpretQuery_AliasResolution(t *testing.T) {
	qc, err := InterpretQuery("what is happening with BTC and ETH right now?", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"bitcoin", "ethereum"}, qc.Assets)
}

func TestInterpretQuery_ExplicitAssetsTakePrecedence(t *testing.T) {
	qc, err := InterpretQuery("Tell me about Bitcoin", []string{"SOL", "ada"})
	require.NoError(t, err)

	// Detection is skipped entirely when assets are supplied.
	assert.Equal(t, []string{"cardano", "solana"}, qc.Assets)
}

func TestInterpretQuery_CategoryRules(t *testing.T) {
	cases := []struct {
		query string
		want  Category
	}{
		{"Compare Bitcoin versus Ethereum", CategoryComparative},
		{"What does SEC regulation mean for crypto?", CategoryRegulatory},
		{"How are active addresses trending?", CategoryOnChain},
		{"Is the market in a trend or a range?", CategoryStructure},
		{"Current fear and greed readings", CategorySentiment},
		{"What are the downside risk factors?", CategoryRisk},
		{"The DeFi narrative this cycle", CategoryThematic},
		{"Explain how crypto markets work", CategoryEducational},
		{"Tell me about the crypto market", CategoryOverview},
	}

	for _, tc := range cases {
		qc, err := InterpretQuery(tc.query, nil)
		require.NoError(t, err, tc.query)
		assert.Equal(t, tc.want, qc.Category, "query: %s", tc.query)
	}
}

func TestInterpretQuery_FirstMatchWins(t *testing.T) {
	// Mentions both comparison and sentiment; the comparative rule is
	// evaluated first.
	qc, err := InterpretQuery("Compare sentiment for BTC vs ETH", nil)
	require.NoError(t, err)
	assert.Equal(t, CategoryComparative, qc.Category)
}

func TestInterpretQuery_TermNormalization(t *testing.T) {
	qc, err := InterpretQuery("Tell me about the Bitcoin network, the network health", nil)
	require.NoError(t, err)

	// Stopwords and duplicates are removed, first-seen order kept.
	assert.Equal(t, []string{"tell", "bitcoin", "network", "health"}, qc.Terms)
}

func TestInterpretQuery_Deterministic(t *testing.T) {
	first, err := InterpretQuery("Ethereum on chain activity and risk", nil)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := InterpretQuery("Ethereum on chain activity and risk", nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
