package domain

import "context"

// PlatformClient is the capability set one generation of the platform API
// offers. A client that cannot perform an operation returns an *APIError
// with KindUnsupported instead of panicking.
type PlatformClient interface {
	// Name identifies the client in logs ("v1", "v2").
	Name() string

	PostTweet(ctx context.Context, text string) (TweetID, error)
	Reply(ctx context.Context, text string, parentID TweetID) (TweetID, error)
	Retweet(ctx context.Context, id TweetID) (TweetID, error)
	Like(ctx context.Context, id TweetID) error

	// Mentions and Search return batches ordered newest-first.
	Mentions(ctx context.Context, sinceID TweetID, limit int) ([]Tweet, error)
	Search(ctx context.Context, query string, limit int) ([]Tweet, error)
	Timeline(ctx context.Context, username string, limit int) ([]Tweet, error)

	FetchDMs(ctx context.Context, limit int) ([]DirectMessage, error)
	SendDM(ctx context.Context, recipientID UserID, text string) (MessageID, error)

	// Me returns the authenticated user's id.
	Me(ctx context.Context) (UserID, error)
}

// ActionGateway is what the agent core calls to touch the platform. The
// implementation applies the dual-client fallback policy; every method
// reports failure inside the ActionResult.
type ActionGateway interface {
	PostTweet(ctx context.Context, text string) ActionResult
	Reply(ctx context.Context, text string, parentID TweetID) ActionResult
	Retweet(ctx context.Context, id TweetID) ActionResult
	Like(ctx context.Context, id TweetID) ActionResult
	Mentions(ctx context.Context, sinceID TweetID, limit int) ActionResult
	DirectMessages(ctx context.Context, sinceID MessageID, limit int) ActionResult
	SendDirectMessage(ctx context.Context, recipientID UserID, text string) ActionResult
	Search(ctx context.Context, query string, limit int) ActionResult
	Timeline(ctx context.Context, username string, limit int) ActionResult
	Me(ctx context.Context) (UserID, error)
}

// Generator produces text for a prompt. Implementations bound the output by
// maxTokens and trim surrounding whitespace; they do not enforce the platform
// length limit, that is the caller's job.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ComputeClient is the slice of the GPU marketplace API the agent needs for
// metrics and shutdown.
type ComputeClient interface {
	GPUStatus(ctx context.Context) (map[string]any, error)
	BillingHistory(ctx context.Context) (map[string]any, error)
	Release(ctx context.Context) error
}

// CheckpointStore persists cursors and the daily quota between runs, keyed by
// agent name. Load returns the zero Checkpoint for an unknown agent.
type CheckpointStore interface {
	Load(ctx context.Context, agent string) (Checkpoint, error)
	Save(ctx context.Context, agent string, cp Checkpoint) error
}
