package memory_test

import (
	"context"
	"errors"

	"github.com/m-mizutani/recall/pkg/model"
)

// mockStore is a hand-rolled adapter.Mem0 for pipeline tests
type mockStore struct {
	addFunc    func(ctx context.Context, userID string, messages []model.Message, metadata map[string]any, categories []string) ([]*model.Memory, error)
	searchFunc func(ctx context.Context, query, userID string, limit int, categories []string) ([]*model.Memory, error)
	getAllFunc func(ctx context.Context, userID string) ([]*model.Memory, error)
	updateFunc func(ctx context.Context, id model.MemoryID, content string) error
	deleteFunc func(ctx context.Context, id model.MemoryID) error
}

func (m *mockStore) Add(ctx context.Context, userID string, messages []model.Message, metadata map[string]any, categories []string) ([]*model.Memory, error) {
	if m.addFunc != nil {
		return m.addFunc(ctx, userID, messages, metadata, categories)
	}
	return nil, errors.New("not implemented")
}

func (m *mockStore) Search(ctx context.Context, query, userID string, limit int, categories []string) ([]*model.Memory, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, userID, limit, categories)
	}
	return nil, errors.New("not implemented")
}

func (m *mockStore) GetAll(ctx context.Context, userID string) ([]*model.Memory, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockStore) Update(ctx context.Context, id model.MemoryID, content string) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, content)
	}
	return errors.New("not implemented")
}

func (m *mockStore) Delete(ctx context.Context, id model.MemoryID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func ptr(v float64) *float64 {
	return &v
}
