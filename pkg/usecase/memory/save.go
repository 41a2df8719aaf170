package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/recall/pkg/model"
)

// SaveInput describes one add-memory request. Source selects the save
// mode: RawContent runs the full curation pipeline, Transcript is
// forwarded to the store's own extraction untouched.
type SaveInput struct {
	Source     model.SaveSource
	UserID     string
	Force      bool
	Metadata   map[string]any
	Categories []string
}

// SaveResult is the outcome of one save attempt. Exactly one of Saved,
// Rejected, or Duplicate-set is the headline; Assessment is reported
// whenever the raw-content path computed one, including under Force.
type SaveResult struct {
	Saved      bool
	MemoryID   model.MemoryID
	Assessment *model.QualityAssessment
	Rejected   bool
	Duplicate  *model.Memory
	Similarity float64
}

// Save persists a memory through the curation pipeline. Quality and
// duplicate rejections are normal negative outcomes, not errors; an
// error is returned only when input is invalid or the store write
// fails.
func (u *UseCase) Save(ctx context.Context, input SaveInput) (*SaveResult, error) {
	if input.UserID == "" {
		input.UserID = u.defaultUser
	}

	switch source := input.Source.(type) {
	case model.RawContent:
		return u.saveRaw(ctx, source, input)
	case model.Transcript:
		return u.saveTranscript(ctx, source, input)
	default:
		return nil, goerr.New("save source must be raw content or a transcript")
	}
}

func (u *UseCase) saveRaw(ctx context.Context, source model.RawContent, input SaveInput) (*SaveResult, error) {
	if source.Content == "" {
		return nil, goerr.New("content is required")
	}

	// Force bypasses the gate but the assessment is still computed and
	// reported so the caller can see what it overrode.
	assessment := AssessQuality(source.Content)
	if !input.Force && !assessment.ShouldSave {
		return &SaveResult{
			Rejected:   true,
			Assessment: assessment,
		}, nil
	}

	if duplicate, score := u.CheckDuplicate(ctx, source.Content, input.UserID); duplicate != nil {
		return &SaveResult{
			Duplicate:  duplicate,
			Similarity: score,
			Assessment: assessment,
		}, nil
	}

	enriched := u.Enrich(source.Content)
	messages := []model.Message{{Role: model.RoleUser, Content: enriched}}

	stored, err := u.store.Add(ctx, input.UserID, messages, input.Metadata, input.Categories)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save memory", goerr.V("user_id", input.UserID))
	}

	result := &SaveResult{
		Saved:      true,
		Assessment: assessment,
	}
	if len(stored) > 0 {
		result.MemoryID = stored[0].ID
	}
	return result, nil
}

// saveTranscript hands a conversation to the remote store's extraction,
// bypassing local quality and dedup gates entirely.
func (u *UseCase) saveTranscript(ctx context.Context, source model.Transcript, input SaveInput) (*SaveResult, error) {
	if len(source.Messages) == 0 {
		return nil, goerr.New("messages is required")
	}

	stored, err := u.store.Add(ctx, input.UserID, source.Messages, input.Metadata, input.Categories)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save transcript", goerr.V("user_id", input.UserID))
	}

	result := &SaveResult{Saved: true}
	if len(stored) > 0 {
		result.MemoryID = stored[0].ID
	}
	return result, nil
}
