package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/recall/pkg/model"
	"github.com/m-mizutani/recall/pkg/utils/logging"
)

// SearchInput describes one direct search request.
type SearchInput struct {
	Query      string
	UserID     string
	Limit      int
	Categories []string
}

// Search is a pass-through relevance search against the remote store.
// A store failure degrades to an empty result set; losing one search
// is preferable to failing the caller's whole turn.
func (u *UseCase) Search(ctx context.Context, input SearchInput) ([]*model.Memory, error) {
	if input.Query == "" {
		return nil, goerr.New("query is required")
	}
	if input.UserID == "" {
		input.UserID = u.defaultUser
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results, err := u.store.Search(ctx, input.Query, input.UserID, limit, input.Categories)
	if err != nil {
		logging.From(ctx).Warn("memory search failed, returning empty results",
			"error", err, "user_id", input.UserID)
		return nil, nil
	}

	return results, nil
}

// GetAll retrieves every memory for a user.
func (u *UseCase) GetAll(ctx context.Context, userID string) ([]*model.Memory, error) {
	if userID == "" {
		userID = u.defaultUser
	}

	memories, err := u.store.GetAll(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get all memories", goerr.V("user_id", userID))
	}
	return memories, nil
}

// Update replaces the content of an existing memory.
func (u *UseCase) Update(ctx context.Context, id model.MemoryID, content string) error {
	if id == "" {
		return goerr.New("memoryId is required")
	}
	if content == "" {
		return goerr.New("content is required")
	}

	if err := u.store.Update(ctx, id, content); err != nil {
		return goerr.Wrap(err, "failed to update memory", goerr.V("memory_id", id))
	}
	return nil
}

// Delete permanently removes a memory.
func (u *UseCase) Delete(ctx context.Context, id model.MemoryID) error {
	if id == "" {
		return goerr.New("memoryId is required")
	}

	if err := u.store.Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete memory", goerr.V("memory_id", id))
	}
	return nil
}
