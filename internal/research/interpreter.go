package research

import (
	"sort"
	"strings"
)

// InterpretQuery parses a free-text research query into a QueryContext.
// explicitAssets, when non-empty, takes precedence over assets detected in
// the query text. The only failure is ErrInvalidQuery for an empty or
// whitespace-only query.
func InterpretQuery(rawQuery string, explicitAssets []string) (QueryContext, error) {
	trimmed := strings.TrimSpace(rawQuery)
	if trimmed == "" {
		return QueryContext{}, ErrInvalidQuery
	}

	normalized := normalizeText(trimmed)
	tokens := strings.Fields(normalized)

	var assets []string
	if len(explicitAssets) > 0 {
		assets = canonicalizeAssets(explicitAssets)
	} else {
		assets = detectAssets(tokens)
	}

	category := inferCategory(normalized)
	terms := normalizeTerms(tokens)

	return QueryContext{
		RawQuery: rawQuery,
		Assets:   assets,
		Category: category,
		Terms:    terms,
	}, nil
}

// normalizeText lowercases the query and strips punctuation so phrase and
// token matching work on clean word boundaries.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// canonicalizeAssets maps caller-supplied asset names through the alias
// table, keeping unknown names as lowercase pass-through. Output is
// deduplicated and sorted for stable downstream behavior.
func canonicalizeAssets(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	var out []string
	for _, a := range raw {
		name := strings.ToLower(strings.TrimSpace(a))
		if name == "" {
			continue
		}
		if canonical, ok := assetAliases[name]; ok {
			name = canonical
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// detectAssets scans query tokens against the alias table.
func detectAssets(tokens []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range tokens {
		if canonical, ok := assetAliases[tok]; ok && !seen[canonical] {
			seen[canonical] = true
			out = append(out, canonical)
		}
	}
	sort.Strings(out)
	return out
}

// inferCategory runs the ordered rule list against the normalized query.
// First phrase hit wins; no hit falls back to the overview category.
func inferCategory(normalized string) Category {
	padded := " " + normalized + " "
	for _, rule := range categoryRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(padded, " "+phrase+" ") {
				return rule.category
			}
		}
	}
	return CategoryOverview
}

// normalizeTerms drops stopwords and duplicates while preserving first-seen
// order, giving analyzers a compact view of the query's content words.
func normalizeTerms(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	var out []string
	for _, tok := range tokens {
		if stopwords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}
