package mcp

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/m-mizutani/recall/pkg/model"
	"github.com/m-mizutani/recall/pkg/usecase/memory"
	"github.com/m-mizutani/recall/pkg/utils/logging"
)

// Verbosity selects the result shape for negative outcomes. Verbose
// results carry rejection reasons, issue lists and suggestions; silent
// results are a bare ok flag. One pipeline serves both shapes.
type Verbosity string

const (
	VerbosityVerbose Verbosity = "verbose"
	VerbositySilent  Verbosity = "silent"
)

// Server exposes the memory curation pipeline as MCP tools over stdio.
type Server struct {
	uc        *memory.UseCase
	verbosity Verbosity
}

// Option is a functional option for Server
type Option func(*Server)

// WithVerbosity sets the result shape for negative outcomes
func WithVerbosity(v Verbosity) Option {
	return func(s *Server) {
		s.verbosity = v
	}
}

// New creates a new MCP server around the given pipeline
func New(uc *memory.UseCase, opts ...Option) *Server {
	s := &Server{
		uc:        uc,
		verbosity: VerbosityVerbose,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run serves MCP requests over stdio until the context is cancelled or
// the transport closes.
func (s *Server) Run(ctx context.Context) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "recall",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name: "add-memory",
		Description: "Save important, contextualized information to long-term memory. " +
			"Only call this for HIGH-VALUE information: user preferences, project details, " +
			"technical decisions, personal facts, goals, or workflow patterns. " +
			"DO NOT save: greetings, acknowledgments, casual chat, or repetitive info. " +
			"Quality over quantity - each memory should be self-contained and useful.",
		InputSchema: addMemorySchema(),
	}, s.handleAddMemory)

	mcp.AddTool(server, &mcp.Tool{
		Name: "get-context",
		Description: "Retrieve memories relevant to the current conversational turn. " +
			"Call this at the start of a turn to load prior context; returns a formatted " +
			"block ready for prompt injection plus the raw ranked list.",
	}, s.handleGetContext)

	mcp.AddTool(server, &mcp.Tool{
		Name: "search-memories",
		Description: "Search memories with semantic understanding. Call this EARLY in conversations " +
			"when the user mentions past discussions or topics they've raised before. " +
			"Use broad, natural queries like 'coding preferences' rather than exact matches.",
	}, s.handleSearchMemories)

	mcp.AddTool(server, &mcp.Tool{
		Name: "get-all-memories",
		Description: "Retrieve ALL memories for a user. Use at conversation start to load context, " +
			"or when the user asks 'what do you know about me?'.",
	}, s.handleGetAllMemories)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update-memory",
		Description: "Update an existing memory when information changes or needs correction.",
	}, s.handleUpdateMemory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete-memory",
		Description: "Permanently delete a specific memory. Use when the user explicitly asks to forget something.",
	}, s.handleDeleteMemory)

	mcp.AddTool(server, &mcp.Tool{
		Name: "consolidate-memories",
		Description: "Find similar or redundant memories that could be merged. Reports candidate " +
			"pairs only; act on them with update-memory and delete-memory.",
	}, s.handleConsolidateMemories)

	return server.Run(ctx, &mcp.StdioTransport{})
}

// withTrace attaches a per-invocation trace ID to the context logger.
func withTrace(ctx context.Context, tool string) context.Context {
	logger := logging.From(ctx).With("trace_id", uuid.NewString(), "tool", tool)
	return logging.With(ctx, logger)
}

func textResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal result")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type memoryPayload struct {
	ID         model.MemoryID `json:"id"`
	Content    string         `json:"content"`
	Categories []string       `json:"categories,omitempty"`
	CreatedAt  string         `json:"created_at,omitempty"`
	UpdatedAt  string         `json:"updated_at,omitempty"`
	Score      *float64       `json:"score,omitempty"`
}

func toPayload(memories []*model.Memory) []memoryPayload {
	out := make([]memoryPayload, 0, len(memories))
	for _, m := range memories {
		p := memoryPayload{
			ID:         m.ID,
			Content:    m.Content,
			Categories: m.Categories,
			Score:      m.Score,
		}
		if !m.CreatedAt.IsZero() {
			p.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)
		}
		if !m.UpdatedAt.IsZero() {
			p.UpdatedAt = m.UpdatedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, p)
	}
	return out
}
