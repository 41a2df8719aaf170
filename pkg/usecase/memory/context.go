package memory

import (
	"context"
	"strings"

	"github.com/m-mizutani/recall/pkg/model"
	"github.com/m-mizutani/recall/pkg/utils/logging"
)

const (
	defaultContextMemories = 10
	maxContextMemories     = 20
	maxContextFetch        = 60
	recentWindow           = 3
	recentTruncate         = 100
)

// ContextInput describes one get-context request for a new
// conversational turn.
type ContextInput struct {
	CurrentMessage string
	RecentMessages []string
	UserID         string
	MaxMemories    int
}

// ContextResult carries both the rendered block and the raw ranked
// list so the caller can use either.
type ContextResult struct {
	Formatted string
	Memories  []*model.Memory
}

// contextQuery builds the retrieval phrase: the current message plus
// the last few prior messages, each truncated so one long turn cannot
// drown out the rest.
func contextQuery(current string, recent []string) string {
	parts := []string{current}

	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	for _, msg := range recent {
		if len(msg) > recentTruncate {
			msg = msg[:recentTruncate]
		}
		parts = append(parts, msg)
	}

	return strings.Join(parts, " ")
}

// GetContext retrieves memories relevant to the current turn: search
// wide, rerank by keyword overlap, cut to the requested size, render.
// A store failure degrades to an empty result rather than an error.
func (u *UseCase) GetContext(ctx context.Context, input ContextInput) (*ContextResult, error) {
	if input.UserID == "" {
		input.UserID = u.defaultUser
	}

	limit := input.MaxMemories
	if limit <= 0 {
		limit = defaultContextMemories
	}
	if limit > maxContextMemories {
		limit = maxContextMemories
	}

	fetch := limit * 3
	if fetch > maxContextFetch {
		fetch = maxContextFetch
	}

	query := contextQuery(input.CurrentMessage, input.RecentMessages)

	candidates, err := u.store.Search(ctx, query, input.UserID, fetch, nil)
	if err != nil {
		logging.From(ctx).Warn("context retrieval failed, returning empty context",
			"error", err, "user_id", input.UserID)
		return &ContextResult{}, nil
	}

	ranked := Rerank(candidates, query, RerankBoost)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return &ContextResult{
		Formatted: FormatContext(ranked),
		Memories:  ranked,
	}, nil
}
