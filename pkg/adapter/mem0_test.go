package adapter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/recall/pkg/adapter"
	"github.com/m-mizutani/recall/pkg/model"
)

func TestMem0Search(t *testing.T) {
	ctx := context.Background()

	t.Run("sends query and parses wrapped results", func(t *testing.T) {
		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.V(t, r.Method).Equal(http.MethodPost)
			gt.V(t, r.URL.Path).Equal("/v1/memories/search/")
			gt.V(t, r.Header.Get("Authorization")).Equal("Token test-key")
			gt.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"results": [
				{"id": "m1", "memory": "user prefers Go", "score": 0.9, "categories": ["preferences"], "created_at": "2026-08-01T10:00:00Z"},
				{"id": "m2", "memory": "works on infra"}
			]}`))
		}))
		defer server.Close()

		client := adapter.NewMem0("test-key", adapter.WithBaseURL(server.URL))

		results, err := client.Search(ctx, "preferences", "user-1", 5, nil)
		gt.NoError(t, err)
		gt.A(t, results).Length(2)
		gt.V(t, results[0].ID).Equal(model.MemoryID("m1"))
		gt.V(t, results[0].Content).Equal("user prefers Go")
		gt.V(t, *results[0].Score).Equal(0.9)
		gt.A(t, results[0].Categories).Length(1)
		gt.False(t, results[0].CreatedAt.IsZero())
		gt.V(t, results[1].Score).Nil()

		gt.V(t, gotBody["query"]).Equal("preferences")
		gt.V(t, gotBody["user_id"]).Equal("user-1")
		gt.V(t, gotBody["limit"]).Equal(float64(5))
	})

	t.Run("parses bare array responses", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id": "m1", "memory": "a fact"}]`))
		}))
		defer server.Close()

		client := adapter.NewMem0("test-key", adapter.WithBaseURL(server.URL))

		results, err := client.Search(ctx, "q", "user-1", 5, nil)
		gt.NoError(t, err)
		gt.A(t, results).Length(1)
	})

	t.Run("skips malformed list elements", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id": "m1", "memory": "kept"}, "not a record", 42]`))
		}))
		defer server.Close()

		client := adapter.NewMem0("test-key", adapter.WithBaseURL(server.URL))

		results, err := client.Search(ctx, "q", "user-1", 5, nil)
		gt.NoError(t, err)
		gt.A(t, results).Length(1)
		gt.V(t, results[0].Content).Equal("kept")
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := adapter.NewMem0("test-key", adapter.WithBaseURL(server.URL))

		_, err := client.Search(ctx, "q", "user-1", 5, nil)
		gt.Error(t, err)
	})
}

func TestMem0Add(t *testing.T) {
	ctx := context.Background()

	t.Run("posts messages with metadata and categories", func(t *testing.T) {
		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.V(t, r.URL.Path).Equal("/v1/memories/")
			gt.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Write([]byte(`{"results": [{"id": "new-1", "memory": "extracted fact"}]}`))
		}))
		defer server.Close()

		client := adapter.NewMem0("test-key", adapter.WithBaseURL(server.URL))

		messages := []model.Message{{Role: model.RoleUser, Content: "user prefers Go"}}
		stored, err := client.Add(ctx, "user-1", messages, map[string]any{"source": "chat"}, []string{"preferences"})
		gt.NoError(t, err)
		gt.A(t, stored).Length(1)
		gt.V(t, stored[0].ID).Equal(model.MemoryID("new-1"))

		gt.V(t, gotBody["user_id"]).Equal("user-1")
		gt.V(t, gotBody["metadata"]).NotNil()
		gt.V(t, gotBody["categories"]).NotNil()
	})

	t.Run("omits empty metadata and categories", func(t *testing.T) {
		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := adapter.NewMem0("test-key", adapter.WithBaseURL(server.URL))

		_, err := client.Add(ctx, "user-1", []model.Message{{Role: model.RoleUser, Content: "x"}}, nil, nil)
		gt.NoError(t, err)

		_, hasMetadata := gotBody["metadata"]
		_, hasCategories := gotBody["categories"]
		gt.False(t, hasMetadata)
		gt.False(t, hasCategories)
	})
}

func TestMem0GetAll(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.V(t, r.Method).Equal(http.MethodGet)
		gt.V(t, r.URL.Path).Equal("/v1/memories/")
		gt.V(t, r.URL.Query().Get("user_id")).Equal("user 1")
		w.Write([]byte(`[{"id": "m1", "memory": "a"}, {"id": "m2", "memory": "b"}]`))
	}))
	defer server.Close()

	client := adapter.NewMem0("test-key", adapter.WithBaseURL(server.URL))

	memories, err := client.GetAll(ctx, "user 1")
	gt.NoError(t, err)
	gt.A(t, memories).Length(2)
}

func TestMem0UpdateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("update puts new text", func(t *testing.T) {
		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.V(t, r.Method).Equal(http.MethodPut)
			gt.V(t, r.URL.Path).Equal("/v1/memories/m1/")
			gt.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := adapter.NewMem0("test-key", adapter.WithBaseURL(server.URL))

		gt.NoError(t, client.Update(ctx, "m1", "corrected"))
		gt.V(t, gotBody["text"]).Equal("corrected")
	})

	t.Run("delete issues delete", func(t *testing.T) {
		var gotMethod, gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := adapter.NewMem0("test-key", adapter.WithBaseURL(server.URL))

		gt.NoError(t, client.Delete(ctx, "m2"))
		gt.V(t, gotMethod).Equal(http.MethodDelete)
		gt.V(t, gotPath).Equal("/v1/memories/m2/")
	})
}
