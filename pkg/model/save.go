package model

// SaveSource is the tagged union of the two add-memory input modes.
// RawContent goes through the local quality and dedup gates before
// storage; Transcript is handed to the remote store's own extraction
// and bypasses local gating entirely.
type SaveSource interface {
	saveSource()
}

// RawContent is free text proposed as a single memory.
type RawContent struct {
	Content string
}

func (RawContent) saveSource() {}

// Transcript is a pre-structured conversation.
type Transcript struct {
	Messages []Message
}

func (Transcript) saveSource() {}
