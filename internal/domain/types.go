package domain

import "time"

type TweetID string
type MessageID string
type UserID string

// Tweet is the boundary representation of a tweet, mention or search hit.
// Batches returned by the platform clients are ordered newest-first.
type Tweet struct {
	ID       TweetID
	Text     string
	AuthorID UserID
}

// DMSource tags which wire representation a direct message was decoded from.
type DMSource string

const (
	DMSourceLegacy DMSource = "legacy"
	DMSourceEvent  DMSource = "event"
)

// DirectMessage is the single in-process shape for a DM. Both v1.1 wire
// representations (legacy message and message-create event) are decoded into
// this struct at the client boundary, so nothing downstream probes for fields.
type DirectMessage struct {
	ID       MessageID
	SenderID UserID
	Text     string
	Source   DMSource
}

// Character is the agent's personality configuration, loaded from a file.
type Character struct {
	Name         string `yaml:"name" json:"name"`
	Description  string `yaml:"description" json:"description"`
	Instructions string `yaml:"instructions" json:"instructions"`
}

// Checkpoint is the durable slice of agent state: feed cursors plus the
// rolling daily post counter. The zero value means "fresh agent, no history".
type Checkpoint struct {
	MentionCursor  TweetID
	DMCursor       MessageID
	DailyPostCount int
	WindowStart    time.Time
}
