package domain

// ActionResult is the outcome of a single gateway call. A failure is carried
// as Success=false, never as a panic; Error holds the human-readable cause.
type ActionResult struct {
	Success bool
	Error   string

	// Payload fields; only the ones relevant to the action are set.
	TweetID        TweetID
	MessageID      MessageID
	Tweets         []Tweet
	Mentions       []Tweet
	DirectMessages []DirectMessage
}

// Failure builds a failed result from an error.
func Failure(err error) ActionResult {
	return ActionResult{Success: false, Error: err.Error()}
}

// EngageAction selects what to do with each tweet found by a search.
type EngageAction string

const (
	EngageReply   EngageAction = "reply"
	EngageRetweet EngageAction = "retweet"
	EngageLike    EngageAction = "like"
	EngageAll     EngageAction = "all"
)

// ValidEngageAction reports whether s names a known engagement action.
func ValidEngageAction(s string) bool {
	switch EngageAction(s) {
	case EngageReply, EngageRetweet, EngageLike, EngageAll:
		return true
	}
	return false
}

// EngagementOutcome records what happened to one action on one tweet.
type EngagementOutcome struct {
	Type    EngageAction
	Success bool
	Content string // reply text, when Type is EngageReply and it succeeded
	Error   string
}

// EngagementResult groups the outcomes for a single tweet.
type EngagementResult struct {
	TweetID TweetID
	Actions []EngagementOutcome
}
