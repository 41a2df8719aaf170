package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/recall/pkg/model"
)

// ConsolidationReport is the outcome of one consolidation scan.
type ConsolidationReport struct {
	TotalMemories int
	Candidates    []model.ConsolidationCandidate
}

// ScanConsolidation compares every unordered pair of memories and
// reports those whose lexical similarity exceeds the consolidation
// threshold, in pair-visit order (ascending i, then ascending j).
// O(n²) by design; this is a batch review operation. The scan never
// mutates anything.
func ScanConsolidation(memories []*model.Memory) []model.ConsolidationCandidate {
	var candidates []model.ConsolidationCandidate

	for i := 0; i < len(memories); i++ {
		for j := i + 1; j < len(memories); j++ {
			score := Similarity(memories[i].Content, memories[j].Content)
			if score > consolidationThreshold {
				candidates = append(candidates, model.ConsolidationCandidate{
					Memory1ID:      memories[i].ID,
					Memory1Content: memories[i].Content,
					Memory2ID:      memories[j].ID,
					Memory2Content: memories[j].Content,
					Similarity:     score,
				})
			}
		}
	}

	return candidates
}

// Consolidate fetches a user's full memory set and scans it for merge
// candidates. It reports only; acting on candidates is left to the
// caller via Update and Delete.
func (u *UseCase) Consolidate(ctx context.Context, userID string) (*ConsolidationReport, error) {
	if userID == "" {
		userID = u.defaultUser
	}

	memories, err := u.store.GetAll(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch memories for consolidation", goerr.V("user_id", userID))
	}

	return &ConsolidationReport{
		TotalMemories: len(memories),
		Candidates:    ScanConsolidation(memories),
	}, nil
}
