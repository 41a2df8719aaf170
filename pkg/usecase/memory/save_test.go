package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/recall/pkg/model"
	"github.com/m-mizutani/recall/pkg/usecase/memory"
)

func TestSaveRawContent(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects low-quality content before touching the store", func(t *testing.T) {
		searched := false
		store := &mockStore{
			searchFunc: func(ctx context.Context, query, userID string, limit int, categories []string) ([]*model.Memory, error) {
				searched = true
				return nil, nil
			},
		}
		uc := memory.New(store)

		result, err := uc.Save(ctx, memory.SaveInput{
			Source: model.RawContent{Content: "ok"},
		})
		gt.NoError(t, err)
		gt.True(t, result.Rejected)
		gt.False(t, result.Saved)
		gt.A(t, result.Assessment.Issues).Longer(0)
		gt.False(t, searched)
	})

	t.Run("force bypasses the gate but still reports the assessment", func(t *testing.T) {
		added := false
		store := &mockStore{
			searchFunc: func(ctx context.Context, query, userID string, limit int, categories []string) ([]*model.Memory, error) {
				return nil, nil
			},
			addFunc: func(ctx context.Context, userID string, messages []model.Message, metadata map[string]any, categories []string) ([]*model.Memory, error) {
				added = true
				return []*model.Memory{{ID: "new-id"}}, nil
			},
		}
		uc := memory.New(store)

		result, err := uc.Save(ctx, memory.SaveInput{
			Source: model.RawContent{Content: "hi there"},
			Force:  true,
		})
		gt.NoError(t, err)
		gt.True(t, result.Saved)
		gt.True(t, added)
		gt.V(t, result.Assessment).NotNil()
		gt.False(t, result.Assessment.ShouldSave)
	})

	t.Run("blocks near-duplicate content", func(t *testing.T) {
		content := "user prefers dark mode in all editors always"
		store := &mockStore{
			searchFunc: func(ctx context.Context, query, userID string, limit int, categories []string) ([]*model.Memory, error) {
				return []*model.Memory{{ID: "existing", Content: content}}, nil
			},
		}
		uc := memory.New(store)

		result, err := uc.Save(ctx, memory.SaveInput{
			Source: model.RawContent{Content: content},
		})
		gt.NoError(t, err)
		gt.False(t, result.Saved)
		gt.V(t, result.Duplicate).NotNil()
		gt.V(t, result.Duplicate.ID).Equal(model.MemoryID("existing"))
		gt.Number(t, result.Similarity).Greater(0.85)
	})

	t.Run("saves enriched content as a user message", func(t *testing.T) {
		var gotMessages []model.Message
		var gotUser string
		store := &mockStore{
			searchFunc: func(ctx context.Context, query, userID string, limit int, categories []string) ([]*model.Memory, error) {
				return nil, nil
			},
			addFunc: func(ctx context.Context, userID string, messages []model.Message, metadata map[string]any, categories []string) ([]*model.Memory, error) {
				gotUser = userID
				gotMessages = messages
				return []*model.Memory{{ID: "saved-1"}}, nil
			},
		}
		uc := memory.New(store, memory.WithClock(fixedClock()))

		result, err := uc.Save(ctx, memory.SaveInput{
			Source: model.RawContent{Content: "I prefer small focused pull requests"},
			UserID: "user-9",
		})
		gt.NoError(t, err)
		gt.True(t, result.Saved)
		gt.V(t, result.MemoryID).Equal(model.MemoryID("saved-1"))
		gt.V(t, gotUser).Equal("user-9")
		gt.A(t, gotMessages).Length(1)
		gt.V(t, gotMessages[0].Role).Equal(model.RoleUser)
		gt.S(t, gotMessages[0].Content).Contains("User preference: I prefer small focused pull requests")
		gt.S(t, gotMessages[0].Content).Contains("[Captured:")
	})

	t.Run("store write failure is an error", func(t *testing.T) {
		store := &mockStore{
			searchFunc: func(ctx context.Context, query, userID string, limit int, categories []string) ([]*model.Memory, error) {
				return nil, nil
			},
			addFunc: func(ctx context.Context, userID string, messages []model.Message, metadata map[string]any, categories []string) ([]*model.Memory, error) {
				return nil, errors.New("store down")
			},
		}
		uc := memory.New(store)

		_, err := uc.Save(ctx, memory.SaveInput{
			Source: model.RawContent{Content: "user keeps notes in plain markdown files"},
		})
		gt.Error(t, err)
	})

	t.Run("empty user falls back to default", func(t *testing.T) {
		store := &mockStore{
			searchFunc: func(ctx context.Context, query, userID string, limit int, categories []string) ([]*model.Memory, error) {
				gt.V(t, userID).Equal(memory.DefaultUserID)
				return nil, nil
			},
			addFunc: func(ctx context.Context, userID string, messages []model.Message, metadata map[string]any, categories []string) ([]*model.Memory, error) {
				gt.V(t, userID).Equal(memory.DefaultUserID)
				return nil, nil
			},
		}
		uc := memory.New(store)

		result, err := uc.Save(ctx, memory.SaveInput{
			Source: model.RawContent{Content: "user keeps notes in plain markdown files"},
		})
		gt.NoError(t, err)
		gt.True(t, result.Saved)
	})

	t.Run("missing content is a validation error", func(t *testing.T) {
		uc := memory.New(&mockStore{})

		_, err := uc.Save(ctx, memory.SaveInput{Source: model.RawContent{}})
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("content is required")
	})
}

func TestSaveTranscript(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards messages untouched and skips local gates", func(t *testing.T) {
		searched := false
		var gotMessages []model.Message
		store := &mockStore{
			searchFunc: func(ctx context.Context, query, userID string, limit int, categories []string) ([]*model.Memory, error) {
				searched = true
				return nil, nil
			},
			addFunc: func(ctx context.Context, userID string, messages []model.Message, metadata map[string]any, categories []string) ([]*model.Memory, error) {
				gotMessages = messages
				return []*model.Memory{{ID: "extracted-1"}}, nil
			},
		}
		uc := memory.New(store)

		// "ok" would fail every quality check on the raw path
		transcript := model.Transcript{Messages: []model.Message{
			{Role: model.RoleUser, Content: "ok"},
			{Role: model.RoleAssistant, Content: "noted"},
		}}

		result, err := uc.Save(ctx, memory.SaveInput{Source: transcript})
		gt.NoError(t, err)
		gt.True(t, result.Saved)
		gt.V(t, result.Assessment).Nil()
		gt.False(t, searched)
		gt.A(t, gotMessages).Length(2)
		gt.V(t, gotMessages[0].Content).Equal("ok")
	})

	t.Run("empty transcript is a validation error", func(t *testing.T) {
		uc := memory.New(&mockStore{})

		_, err := uc.Save(ctx, memory.SaveInput{Source: model.Transcript{}})
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("messages is required")
	})

	t.Run("missing source is a validation error", func(t *testing.T) {
		uc := memory.New(&mockStore{})

		_, err := uc.Save(ctx, memory.SaveInput{})
		gt.Error(t, err)
	})
}
