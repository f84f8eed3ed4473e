// Package report renders completed research runs into reader-facing
// documents.
package report

import (
	"fmt"
	"strings"

	"github.com/macrochain/macrochain/internal/research"
)

// Section is one titled block of a research document.
type Section struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// Document is the fully formatted research report: an ordered list of
// sections plus the metadata clients key on.
type Document struct {
	ResearchID        string    `json:"research_id"`
	Title             string    `json:"title"`
	Sections          []Section `json:"sections"`
	OverallConfidence float64   `json:"overall_confidence"`
	GeneratedAt       string    `json:"generated_at"`
	PipelineVersion   string    `json:"pipeline_version"`
}

var phaseSectionTitles = map[research.Phase]string{
	research.PhaseMacro:     "Macro Context",
	research.PhaseSentiment: "Market Sentiment",
	research.PhaseOnChain:   "On-Chain Overview",
	research.PhaseStructure: "Market Structure",
}

// Format renders a pipeline result into a sectioned document. Section order
// is fixed: research focus, the four phases in canonical order, key
// insights, risks, disclaimer, metadata.
func Format(result *research.ResearchResult) Document {
	doc := Document{
		ResearchID:        result.ID,
		Title:             "Crypto Market Research Report",
		OverallConfidence: result.OverallConfidence,
		GeneratedAt:       result.GeneratedAt.Format("2006-01-02 15:04:05 UTC"),
		PipelineVersion:   result.PipelineVersion,
	}

	doc.Sections = append(doc.Sections, focusSection(result.Query))

	for _, phase := range research.Phases() {
		doc.Sections = append(doc.Sections, phaseSection(result.Findings[phase]))
	}

	doc.Sections = append(doc.Sections,
		Section{Title: "Key Insights", Lines: append([]string(nil), result.Synthesis...)},
		Section{Title: "Risks & Uncertainty", Lines: append([]string(nil), result.RiskNotes...)},
		Section{Title: "Disclaimer", Lines: []string{research.Disclaimer}},
		metadataSection(result),
	)

	return doc
}

func focusSection(qc research.QueryContext) Section {
	lines := []string{
		fmt.Sprintf("Query: %s", qc.RawQuery),
		fmt.Sprintf("Research category: %s", qc.Category),
	}
	if len(qc.Assets) > 0 {
		lines = append(lines, fmt.Sprintf("Assets in focus: %s", strings.Join(qc.Assets, ", ")))
	} else {
		lines = append(lines, "Assets in focus: broad market")
	}
	return Section{Title: "Research Focus", Lines: lines}
}

func phaseSection(f research.PhaseFinding) Section {
	lines := []string{
		fmt.Sprintf("Assessment: %s (confidence %.0f%%)", f.Classification, f.Confidence*100),
	}
	lines = append(lines, f.Observations...)
	for _, a := range f.Assumptions {
		lines = append(lines, "Assumption: "+a)
	}
	return Section{Title: phaseSectionTitles[f.Phase], Lines: lines}
}

func metadataSection(result *research.ResearchResult) Section {
	confirming := result.Correlations.Count(research.RelConfirming)
	conflicting := result.Correlations.Count(research.RelConflicting)
	return Section{Title: "Metadata", Lines: []string{
		fmt.Sprintf("Research ID: %s", result.ID),
		fmt.Sprintf("Generated at: %s", result.GeneratedAt.Format("2006-01-02 15:04:05 UTC")),
		fmt.Sprintf("Pipeline version: %s", result.PipelineVersion),
		fmt.Sprintf("Overall confidence: %.0f%%", result.OverallConfidence*100),
		fmt.Sprintf("Cross-phase signals: %d confirming, %d conflicting", confirming, conflicting),
	}}
}

// Markdown renders the document as a markdown string for CLI output.
func (d Document) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", d.Title)
	for _, s := range d.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n", s.Title)
		for _, line := range s.Lines {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}
	return b.String()
}
