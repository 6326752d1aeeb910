package agent

// TweetMaxRunes is the platform length limit for a single post.
const TweetMaxRunes = 280

const truncationMark = "..."

// Truncate cuts text to the platform limit, marking the cut with an
// ellipsis. Applied uniformly to scheduled posts, replies and one-shot
// posts right before dispatch.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= TweetMaxRunes {
		return text
	}
	return string(runes[:TweetMaxRunes-len(truncationMark)]) + truncationMark
}
