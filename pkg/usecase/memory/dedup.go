package memory

import (
	"context"
	"strings"

	"github.com/m-mizutani/recall/pkg/model"
	"github.com/m-mizutani/recall/pkg/utils/logging"
)

// stopWords are removed before building the dedup search phrase.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {},
	"were": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {},
}

// dedupQuery builds the store search phrase: lowercased content words
// minus stop words, first dedupQueryTerms terms joined by spaces.
// Returns "" when nothing usable remains.
func dedupQuery(content string) string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(content)) {
		if _, ok := stopWords[w]; ok {
			continue
		}
		terms = append(terms, w)
		if len(terms) == dedupQueryTerms {
			break
		}
	}
	return strings.Join(terms, " ")
}

// CheckDuplicate looks for an existing memory lexically close enough to
// the new content to block the save. The gate fails open: a store
// failure or an empty candidate list reports no duplicate, and the
// failure is logged rather than surfaced. Returns the blocking record
// and its similarity, or nil when the save may proceed.
func (u *UseCase) CheckDuplicate(ctx context.Context, content, userID string) (*model.Memory, float64) {
	query := dedupQuery(content)
	if query == "" {
		return nil, 0
	}

	candidates, err := u.store.Search(ctx, query, userID, dedupCandidates, nil)
	if err != nil {
		logging.From(ctx).Warn("duplicate check failed, allowing save",
			"error", err, "user_id", userID)
		return nil, 0
	}

	for _, candidate := range candidates {
		if candidate == nil || candidate.Content == "" {
			continue
		}

		score := Similarity(content, candidate.Content)
		if score > dedupThreshold {
			return candidate, score
		}
	}

	return nil, 0
}
