package memory

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/recall/pkg/model"
)

// lowValuePhrases are throwaway acknowledgments that carry no memory
// value. Matching is exact against the whole trimmed, lowercased
// content, never substring. Closed set, not configuration.
var lowValuePhrases = map[string]struct{}{
	"ok":         {},
	"okay":       {},
	"got it":     {},
	"understood": {},
	"sure":       {},
	"thanks":     {},
	"thank you":  {},
	"yes":        {},
	"no":         {},
	"maybe":      {},
	"i see":      {},
	"alright":    {},
	"cool":       {},
	"nice":       {},
}

// contextIndicators are substrings that suggest the content carries
// durable context worth remembering (preferences, projects, identity).
var contextIndicators = []string{
	"prefer", "like", "love", "hate", "dislike", "always", "never",
	"project", "work", "use", "technology", "tool", "language",
	"name is", "location", "timezone", "schedule", "routine",
	"goal", "objective", "plan", "want to", "need to",
}

// AssessQuality scores content against the save-worthiness heuristics.
// Every check runs unconditionally so Issues can accumulate multiple
// entries; once a check sets ShouldSave=false no later check reverses
// it. The score is diagnostic only and is not clamped.
func AssessQuality(content string) *model.QualityAssessment {
	assessment := &model.QualityAssessment{
		ShouldSave: true,
		Score:      100,
	}

	if len(content) < minContentLength {
		assessment.ShouldSave = false
		assessment.Score -= 50
		assessment.Issues = append(assessment.Issues, fmt.Sprintf("Too short (min %d chars)", minContentLength))
	}

	if len(strings.Fields(content)) < minWordCount {
		assessment.ShouldSave = false
		assessment.Score -= 30
		assessment.Issues = append(assessment.Issues, fmt.Sprintf("Too few words (min %d words)", minWordCount))
	}

	normalized := strings.ToLower(strings.TrimSpace(content))
	if _, ok := lowValuePhrases[normalized]; ok {
		assessment.ShouldSave = false
		assessment.Score -= 40
		assessment.Issues = append(assessment.Issues, "Low-value acknowledgment")
	}

	for _, indicator := range contextIndicators {
		if strings.Contains(normalized, indicator) {
			assessment.Score += 20
			break
		}
	}

	// Advisory only: long content is probably a transcript dump that
	// needs summarization, but it is still allowed through.
	if len(content) > longContentSize {
		assessment.Score -= 10
		assessment.Issues = append(assessment.Issues, "Very long (may need summarization)")
	}

	return assessment
}
