package memory

import (
	"time"

	"github.com/m-mizutani/recall/pkg/adapter"
)

// DefaultUserID is used when a caller does not supply a user identifier
const DefaultUserID = "el-jefe-principal"

// Curation thresholds. These are product constants, fixed at startup
// and never configurable per call.
const (
	minContentLength = 20  // characters
	minWordCount     = 4   // whitespace-split words
	longContentSize  = 500 // advisory ceiling, not a gate

	// dedupThreshold blocks a save; consolidationThreshold only
	// suggests a merge. They are intentionally separate constants
	// with different strictness.
	dedupThreshold         = 0.85
	consolidationThreshold = 0.7

	// RerankBoost is the multiplicative per-keyword-match adjustment
	// applied to a store-provided relevance score.
	RerankBoost = 0.15

	dedupQueryTerms    = 5 // key terms joined into the dedup search phrase
	dedupCandidates    = 5 // candidate records fetched per dedup check
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// UseCase provides the memory curation pipeline: quality gating,
// enrichment, deduplication, reranking and consolidation scanning.
// It holds no memory data itself; everything lives in the remote store.
type UseCase struct {
	store       adapter.Mem0
	now         func() time.Time
	defaultUser string
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithClock sets the wall-clock source (used for testing enrichment)
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}

// WithDefaultUser sets the user ID applied when a caller omits one
func WithDefaultUser(userID string) Option {
	return func(uc *UseCase) {
		if userID != "" {
			uc.defaultUser = userID
		}
	}
}

// New creates a new memory UseCase instance
func New(store adapter.Mem0, opts ...Option) *UseCase {
	uc := &UseCase{
		store:       store,
		now:         time.Now,
		defaultUser: DefaultUserID,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
