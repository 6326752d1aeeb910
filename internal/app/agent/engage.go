package agent

import (
	"context"
	"fmt"

	"github.com/example/chirp/internal/domain"
	"github.com/example/chirp/internal/observability"
)

const engageReplyPrompt = "Someone tweeted: '%s'. Generate a helpful, concise response about cryptocurrency or blockchain technology that addresses their tweet."

// SearchAndEngage finds tweets matching query and applies the selected
// engagement actions to each, in the order the search returned them. For
// EngageAll the actions run as reply, retweet, like. Items are spaced by the
// inter-item delay; actions within one item are not. An empty search result
// is an empty slice, not an error.
func (a *Agent) SearchAndEngage(ctx context.Context, query string, action domain.EngageAction, maxResults int) []domain.EngagementResult {
	log := observability.LoggerFromContext(ctx).With("query", query, "action", string(action))

	search := a.gateway.Search(ctx, query, maxResults)
	if !search.Success {
		log.Error("failed to search tweets", "error", search.Error)
		return []domain.EngagementResult{}
	}

	tweets := search.Tweets
	if len(tweets) == 0 {
		log.Info("no tweets found for query")
		return []domain.EngagementResult{}
	}

	results := make([]domain.EngagementResult, 0, len(tweets))

	for i, tweet := range tweets {
		result := domain.EngagementResult{TweetID: tweet.ID}

		if action == domain.EngageReply || action == domain.EngageAll {
			content := Truncate(a.generate(ctx, fmt.Sprintf(engageReplyPrompt, tweet.Text), 200))

			reply := a.gateway.Reply(ctx, content, tweet.ID)
			outcome := domain.EngagementOutcome{
				Type:    domain.EngageReply,
				Success: reply.Success,
				Error:   reply.Error,
			}
			if reply.Success {
				outcome.Content = content
			}
			result.Actions = append(result.Actions, outcome)
		}

		if action == domain.EngageRetweet || action == domain.EngageAll {
			rt := a.gateway.Retweet(ctx, tweet.ID)
			result.Actions = append(result.Actions, domain.EngagementOutcome{
				Type:    domain.EngageRetweet,
				Success: rt.Success,
				Error:   rt.Error,
			})
		}

		if action == domain.EngageLike || action == domain.EngageAll {
			like := a.gateway.Like(ctx, tweet.ID)
			result.Actions = append(result.Actions, domain.EngagementOutcome{
				Type:    domain.EngageLike,
				Success: like.Success,
				Error:   like.Error,
			})
		}

		results = append(results, result)

		// Spacing between items only; the last item needs no trailing pause.
		if i < len(tweets)-1 {
			a.pause(ctx)
		}
	}

	return results
}
