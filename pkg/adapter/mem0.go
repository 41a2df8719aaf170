package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/recall/pkg/model"
	"github.com/m-mizutani/recall/pkg/utils/logging"
)

const mem0BaseURL = "https://api.mem0.ai"

// Mem0 is the remote long-term-memory store. All memory data lives
// behind this interface; the pipeline only holds transient copies.
type Mem0 interface {
	// Add stores a set of messages for extraction by the remote store.
	// The store decides what (if anything) becomes a memory record.
	Add(ctx context.Context, userID string, messages []model.Message, metadata map[string]any, categories []string) ([]*model.Memory, error)

	// Search performs the store's relevance search for the given query.
	Search(ctx context.Context, query, userID string, limit int, categories []string) ([]*model.Memory, error)

	// GetAll retrieves every memory record for a user.
	GetAll(ctx context.Context, userID string) ([]*model.Memory, error)

	// Update replaces the content of an existing memory record.
	Update(ctx context.Context, id model.MemoryID, content string) error

	// Delete permanently removes a memory record.
	Delete(ctx context.Context, id model.MemoryID) error
}

type mem0Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Mem0Option is a functional option for the Mem0 client
type Mem0Option func(*mem0Client)

// WithBaseURL overrides the API endpoint (used for testing)
func WithBaseURL(url string) Mem0Option {
	return func(c *mem0Client) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(client *http.Client) Mem0Option {
	return func(c *mem0Client) {
		c.httpClient = client
	}
}

// NewMem0 creates a Mem0 API client
func NewMem0(apiKey string, opts ...Mem0Option) Mem0 {
	c := &mem0Client{
		apiKey:  apiKey,
		baseURL: mem0BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *mem0Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return goerr.Wrap(err, "failed to marshal request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return goerr.Wrap(err, "failed to create request")
	}

	req.Header.Set("Authorization", "Token "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send request", goerr.V("path", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return goerr.New("memory store returned error",
			goerr.V("status", resp.StatusCode),
			goerr.V("path", path),
			goerr.V("body", string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode response", goerr.V("path", path))
	}
	return nil
}

// memoryWire is the store's record shape on the wire
type memoryWire struct {
	ID         string   `json:"id"`
	Memory     string   `json:"memory"`
	Categories []string `json:"categories"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
	Score      *float64 `json:"score"`
}

func parseWireTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (w *memoryWire) toModel() *model.Memory {
	return &model.Memory{
		ID:         model.MemoryID(w.ID),
		Content:    w.Memory,
		Categories: w.Categories,
		CreatedAt:  parseWireTime(w.CreatedAt),
		UpdatedAt:  parseWireTime(w.UpdatedAt),
		Score:      w.Score,
	}
}

// decodeRecords converts a raw JSON list into memory records, skipping
// elements that do not match the expected shape. The store occasionally
// mixes plain strings or partial objects into result lists; those are
// logged and dropped, never fatal.
func decodeRecords(ctx context.Context, raw []json.RawMessage) []*model.Memory {
	records := make([]*model.Memory, 0, len(raw))
	for _, item := range raw {
		var w memoryWire
		if err := json.Unmarshal(item, &w); err != nil {
			logging.From(ctx).Warn("skipping malformed memory record", "error", err)
			continue
		}
		records = append(records, w.toModel())
	}
	return records
}

// resultList handles both response envelopes the API uses:
// a bare JSON array and an object with a "results" field.
type resultList struct {
	items []json.RawMessage
}

func (r *resultList) UnmarshalJSON(data []byte) error {
	var direct []json.RawMessage
	if err := json.Unmarshal(data, &direct); err == nil {
		r.items = direct
		return nil
	}

	var wrapped struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	r.items = wrapped.Results
	return nil
}

func (c *mem0Client) Add(ctx context.Context, userID string, messages []model.Message, metadata map[string]any, categories []string) ([]*model.Memory, error) {
	body := map[string]any{
		"messages": messages,
		"user_id":  userID,
	}
	if len(metadata) > 0 {
		body["metadata"] = metadata
	}
	if len(categories) > 0 {
		body["categories"] = categories
	}

	var resp resultList
	if err := c.do(ctx, http.MethodPost, "/v1/memories/", body, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to add memory", goerr.V("user_id", userID))
	}

	return decodeRecords(ctx, resp.items), nil
}

func (c *mem0Client) Search(ctx context.Context, query, userID string, limit int, categories []string) ([]*model.Memory, error) {
	body := map[string]any{
		"query":   query,
		"user_id": userID,
		"limit":   limit,
	}
	if len(categories) > 0 {
		body["categories"] = categories
	}

	var resp resultList
	if err := c.do(ctx, http.MethodPost, "/v1/memories/search/", body, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to search memories", goerr.V("user_id", userID))
	}

	return decodeRecords(ctx, resp.items), nil
}

func (c *mem0Client) GetAll(ctx context.Context, userID string) ([]*model.Memory, error) {
	var resp resultList
	path := "/v1/memories/?user_id=" + url.QueryEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to get memories", goerr.V("user_id", userID))
	}

	return decodeRecords(ctx, resp.items), nil
}

func (c *mem0Client) Update(ctx context.Context, id model.MemoryID, content string) error {
	body := map[string]any{
		"text": content,
	}
	path := fmt.Sprintf("/v1/memories/%s/", id)
	if err := c.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return goerr.Wrap(err, "failed to update memory", goerr.V("memory_id", id))
	}
	return nil
}

func (c *mem0Client) Delete(ctx context.Context, id model.MemoryID) error {
	path := fmt.Sprintf("/v1/memories/%s/", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return goerr.Wrap(err, "failed to delete memory", goerr.V("memory_id", id))
	}
	return nil
}
