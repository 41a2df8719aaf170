package model

import (
	"time"
)

type MemoryID string

// Memory is a transient copy of one record held by the remote store.
// The pipeline never persists these itself; each invocation fetches
// what it needs and discards it.
type Memory struct {
	ID         MemoryID
	Content    string
	Categories []string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Score is the relevance score assigned by the remote search.
	// Nil when the record did not come from a search call.
	Score *float64
}

// QualityAssessment is the verdict of the pre-save quality gate.
// Score is diagnostic only, has no floor, and may go negative.
type QualityAssessment struct {
	ShouldSave bool
	Issues     []string
	Score      int
}

// ConsolidationCandidate is a pair of stored memories whose lexical
// overlap suggests they should be merged. The scanner only reports;
// acting on a candidate is the caller's job via update and delete.
type ConsolidationCandidate struct {
	Memory1ID      MemoryID `json:"memory1_id"`
	Memory1Content string   `json:"memory1_content"`
	Memory2ID      MemoryID `json:"memory2_id"`
	Memory2Content string   `json:"memory2_content"`
	Similarity     float64  `json:"similarity"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation transcript forwarded to the
// remote store's own extraction path.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
