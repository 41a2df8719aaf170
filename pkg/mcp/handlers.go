package mcp

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/m-mizutani/recall/pkg/model"
	"github.com/m-mizutani/recall/pkg/usecase/memory"
	"github.com/m-mizutani/recall/pkg/utils/logging"
)

type addMemoryArgs struct {
	Content    string          `json:"content,omitempty"`
	Messages   []model.Message `json:"messages,omitempty"`
	UserID     string          `json:"userId,omitempty"`
	Force      bool            `json:"force,omitempty"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
	Categories []string        `json:"categories,omitempty"`
}

func (s *Server) handleAddMemory(ctx context.Context, req *mcp.CallToolRequest, args *addMemoryArgs) (*mcp.CallToolResult, any, error) {
	ctx = withTrace(ctx, "add-memory")

	var source model.SaveSource
	switch {
	case len(args.Messages) > 0:
		source = model.Transcript{Messages: args.Messages}
	case args.Content != "":
		source = model.RawContent{Content: args.Content}
	default:
		return nil, nil, goerr.New("either content or messages is required")
	}

	result, err := s.uc.Save(ctx, memory.SaveInput{
		Source:     source,
		UserID:     args.UserID,
		Force:      args.Force,
		Metadata:   args.Metadata,
		Categories: args.Categories,
	})
	if err != nil {
		logging.From(ctx).Error("save failed", "error", err)
		res, rerr := textResult(s.failure("Failed to save memory"))
		return res, nil, rerr
	}

	res, err := textResult(s.saveResultPayload(result))
	return res, nil, err
}

func (s *Server) failure(reason string) map[string]any {
	if s.verbosity == VerbositySilent {
		return map[string]any{"ok": false}
	}
	return map[string]any{"ok": false, "error": reason}
}

func (s *Server) saveResultPayload(result *memory.SaveResult) map[string]any {
	if s.verbosity == VerbositySilent {
		return map[string]any{"ok": result.Saved}
	}

	switch {
	case result.Rejected:
		return map[string]any{
			"ok":         false,
			"rejected":   true,
			"reason":     "Quality threshold not met",
			"issues":     result.Assessment.Issues,
			"suggestion": "Provide more context or use 'force: true' to override",
		}
	case result.Duplicate != nil:
		return map[string]any{
			"ok":                 false,
			"duplicate":          true,
			"existing_memory_id": result.Duplicate.ID,
			"existing_content":   result.Duplicate.Content,
			"similarity":         round2(result.Similarity),
			"suggestion":         "Use update-memory to modify existing memory instead",
		}
	default:
		payload := map[string]any{
			"ok":        true,
			"memory_id": result.MemoryID,
			"message":   "Memory saved successfully",
		}
		if result.Assessment != nil {
			payload["quality_score"] = result.Assessment.Score
		}
		return payload
	}
}

type getContextArgs struct {
	CurrentMessage string   `json:"currentMessage" jsonschema:"The message the user just sent"`
	RecentMessages []string `json:"recentMessages,omitempty" jsonschema:"Prior messages of the conversation, oldest first"`
	UserID         string   `json:"userId,omitempty" jsonschema:"User ID (defaults to the configured user)"`
	MaxMemories    int      `json:"maxMemories,omitempty" jsonschema:"Maximum memories to return (default 10, max 20)"`
}

func (s *Server) handleGetContext(ctx context.Context, req *mcp.CallToolRequest, args *getContextArgs) (*mcp.CallToolResult, any, error) {
	ctx = withTrace(ctx, "get-context")

	if args.CurrentMessage == "" {
		return nil, nil, goerr.New("currentMessage is required")
	}

	result, err := s.uc.GetContext(ctx, memory.ContextInput{
		CurrentMessage: args.CurrentMessage,
		RecentMessages: args.RecentMessages,
		UserID:         args.UserID,
		MaxMemories:    args.MaxMemories,
	})
	if err != nil {
		return nil, nil, err
	}

	res, err := textResult(map[string]any{
		"context":  result.Formatted,
		"memories": toPayload(result.Memories),
		"count":    len(result.Memories),
	})
	return res, nil, err
}

type searchMemoriesArgs struct {
	Query      string   `json:"query" jsonschema:"Natural language search query, e.g. 'coding preferences'"`
	UserID     string   `json:"userId,omitempty" jsonschema:"User ID (defaults to the configured user)"`
	Limit      int      `json:"limit,omitempty" jsonschema:"Max results (default 10, max 50)"`
	Categories []string `json:"categories,omitempty" jsonschema:"Restrict results to these categories"`
}

func (s *Server) handleSearchMemories(ctx context.Context, req *mcp.CallToolRequest, args *searchMemoriesArgs) (*mcp.CallToolResult, any, error) {
	ctx = withTrace(ctx, "search-memories")

	if args.Query == "" {
		return nil, nil, goerr.New("query is required")
	}

	results, err := s.uc.Search(ctx, memory.SearchInput{
		Query:      args.Query,
		UserID:     args.UserID,
		Limit:      args.Limit,
		Categories: args.Categories,
	})
	if err != nil {
		return nil, nil, err
	}

	res, err := textResult(map[string]any{
		"results": toPayload(results),
		"count":   len(results),
		"query":   args.Query,
	})
	return res, nil, err
}

type getAllMemoriesArgs struct {
	UserID string `json:"userId,omitempty" jsonschema:"User ID (defaults to the configured user)"`
}

func (s *Server) handleGetAllMemories(ctx context.Context, req *mcp.CallToolRequest, args *getAllMemoriesArgs) (*mcp.CallToolResult, any, error) {
	ctx = withTrace(ctx, "get-all-memories")

	memories, err := s.uc.GetAll(ctx, args.UserID)
	if err != nil {
		logging.From(ctx).Error("get all memories failed", "error", err)
		res, rerr := textResult(s.failure("Failed to fetch memories"))
		return res, nil, rerr
	}

	res, err := textResult(map[string]any{
		"memories": toPayload(memories),
		"total":    len(memories),
	})
	return res, nil, err
}

type updateMemoryArgs struct {
	MemoryID string `json:"memoryId" jsonschema:"ID of the memory to update"`
	Content  string `json:"content" jsonschema:"New memory content"`
}

func (s *Server) handleUpdateMemory(ctx context.Context, req *mcp.CallToolRequest, args *updateMemoryArgs) (*mcp.CallToolResult, any, error) {
	ctx = withTrace(ctx, "update-memory")

	if args.MemoryID == "" {
		return nil, nil, goerr.New("memoryId is required")
	}
	if args.Content == "" {
		return nil, nil, goerr.New("content is required")
	}

	if err := s.uc.Update(ctx, model.MemoryID(args.MemoryID), args.Content); err != nil {
		logging.From(ctx).Error("update failed", "error", err)
		res, rerr := textResult(s.failure("Failed to update memory"))
		return res, nil, rerr
	}

	res, err := textResult(map[string]any{
		"ok":        true,
		"memory_id": args.MemoryID,
		"message":   "Memory updated successfully",
	})
	return res, nil, err
}

type deleteMemoryArgs struct {
	MemoryID string `json:"memoryId" jsonschema:"ID of the memory to delete"`
}

func (s *Server) handleDeleteMemory(ctx context.Context, req *mcp.CallToolRequest, args *deleteMemoryArgs) (*mcp.CallToolResult, any, error) {
	ctx = withTrace(ctx, "delete-memory")

	if args.MemoryID == "" {
		return nil, nil, goerr.New("memoryId is required")
	}

	if err := s.uc.Delete(ctx, model.MemoryID(args.MemoryID)); err != nil {
		logging.From(ctx).Error("delete failed", "error", err)
		res, rerr := textResult(s.failure("Failed to delete memory"))
		return res, nil, rerr
	}

	res, err := textResult(map[string]any{
		"ok":        true,
		"memory_id": args.MemoryID,
		"message":   "Memory deleted successfully",
	})
	return res, nil, err
}

type consolidateMemoriesArgs struct {
	UserID string `json:"userId,omitempty" jsonschema:"User ID (defaults to the configured user)"`
	DryRun bool   `json:"dryRun,omitempty" jsonschema:"Informational flag only; the scan never mutates memories"`
}

func (s *Server) handleConsolidateMemories(ctx context.Context, req *mcp.CallToolRequest, args *consolidateMemoriesArgs) (*mcp.CallToolResult, any, error) {
	ctx = withTrace(ctx, "consolidate-memories")

	report, err := s.uc.Consolidate(ctx, args.UserID)
	if err != nil {
		logging.From(ctx).Error("consolidation scan failed", "error", err)
		res, rerr := textResult(s.failure("Failed to scan memories"))
		return res, nil, rerr
	}

	if report.TotalMemories == 0 {
		res, err := textResult(map[string]any{
			"ok":      true,
			"message": "No memories to consolidate",
		})
		return res, nil, err
	}

	if len(report.Candidates) == 0 {
		res, err := textResult(map[string]any{
			"ok":             true,
			"message":        "No similar memories found to consolidate",
			"total_memories": report.TotalMemories,
		})
		return res, nil, err
	}

	candidates := make([]model.ConsolidationCandidate, len(report.Candidates))
	for i, c := range report.Candidates {
		c.Similarity = round2(c.Similarity)
		candidates[i] = c
	}

	res, err := textResult(map[string]any{
		"ok":         true,
		"dry_run":    args.DryRun,
		"candidates": candidates,
		"count":      len(candidates),
		"message":    "Review these candidates. Use update-memory and delete-memory to consolidate manually.",
	})
	return res, nil, err
}
