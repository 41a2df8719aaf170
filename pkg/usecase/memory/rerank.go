package memory

import (
	"sort"
	"strings"

	"github.com/m-mizutani/recall/pkg/model"
)

const defaultRelevance = 0.5

// Rerank re-orders search candidates by blending the store's relevance
// score with exact keyword overlap against the querying text. Each
// keyword from the lowercased query word set that appears (as a
// substring) in the candidate's content multiplies the base score by
// (1 + boost). The sort is stable: ties keep input order. Nil entries
// are skipped rather than errored.
func Rerank(candidates []*model.Memory, query string, boost float64) []*model.Memory {
	keywords := wordSet(query)

	type scored struct {
		memory *model.Memory
		score  float64
	}

	ranked := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}

		base := defaultRelevance
		if candidate.Score != nil {
			base = *candidate.Score
		}

		content := strings.ToLower(candidate.Content)
		matches := 0
		for keyword := range keywords {
			if strings.Contains(content, keyword) {
				matches++
			}
		}

		ranked = append(ranked, scored{
			memory: candidate,
			score:  base * (1 + float64(matches)*boost),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	result := make([]*model.Memory, len(ranked))
	for i, r := range ranked {
		result[i] = r.memory
	}
	return result
}
