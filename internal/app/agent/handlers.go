package agent

import (
	"context"
	"fmt"

	"github.com/example/chirp/internal/domain"
	"github.com/example/chirp/internal/observability"
)

const scheduledTweetPrompt = `Generate an insightful tweet about cryptocurrency that would rile up investors and enthusiasts.

Choose ONE of these topics:
1. Recent price movements of major cryptocurrencies (BTC, ETH, etc.)
2. A notable blockchain technology advancement or update
3. A regulatory development affecting the crypto market
4. An institutional adoption trend or news
5. A DeFi protocol insight or opportunity

Make the tweet truthful, funny, and a little controversial. Include relevant data points or statistics if applicable.
Add 2-3 relevant hashtags. Keep the entire tweet under 280 characters.

DO NOT use generic statements like "Crypto markets are volatile" - provide specific, timely insights.`

const mentionReplyPrompt = `Someone tweeted at you: '%s'

Respond with a helpful, informative reply about cryptocurrency or blockchain technology that directly addresses their query or comment.

Your response should:
1. Be knowledgeable and accurate
2. Provide specific information, not generic advice
3. Include relevant facts or data points when appropriate
4. Be controversial but helpful
5. Stay under 280 characters

If they're asking a question, answer it directly. If they're sharing an opinion, engage thoughtfully with their perspective.`

const dmReplyPrompt = `Someone sent you a direct message: '%s'

Respond with a personalized, helpful reply about cryptocurrency or blockchain technology that directly addresses their message.

Your response should:
1. Be knowledgeable and accurate
2. Provide specific, actionable information
3. Include relevant facts, data points, or resources when appropriate
4. Be friendly, conversational, and engaging
5. Offer to help further if they have more questions

Since this is a private message, you can provide more detailed information than in a public tweet.
If they're asking a question, answer it thoroughly. If they're sharing thoughts, engage thoughtfully with their perspective.`

// PostScheduledTweet is the post loop's unit of work: generate a tweet in
// character and publish it, unless the daily quota is exhausted.
func (a *Agent) PostScheduledTweet(ctx context.Context) {
	log := observability.LoggerFromContext(ctx)

	if !a.tracker.ShouldPostNow(ctx) {
		log.Info("daily tweet limit reached, skipping scheduled tweet",
			"max_daily_posts", a.tracker.MaxDailyPosts())
		return
	}

	content := Truncate(a.generate(ctx, scheduledTweetPrompt, 100))

	res := a.gateway.PostTweet(ctx, content)
	if !res.Success {
		log.Error("failed to post scheduled tweet", "error", res.Error)
		return
	}

	a.tracker.RecordPost(ctx)
	log.Info("posted scheduled tweet", "tweet_id", res.TweetID, "text", content)
}

// HandleMentions is the mention loop's unit of work: fetch everything newer
// than the cursor and reply, oldest first. The cursor moves to the newest id
// before any reply goes out, so a crash mid-batch never re-triggers on the
// same head item.
func (a *Agent) HandleMentions(ctx context.Context) {
	log := observability.LoggerFromContext(ctx)

	res := a.gateway.Mentions(ctx, a.tracker.MentionCursor(), 100)
	if !res.Success {
		log.Error("failed to retrieve mentions", "error", res.Error)
		return
	}

	mentions := res.Mentions
	if len(mentions) == 0 {
		log.Info("no new mentions found")
		return
	}

	a.tracker.AdvanceMentionCursor(ctx, mentions)

	for i := len(mentions) - 1; i >= 0; i-- {
		mention := mentions[i]

		content := Truncate(a.generate(ctx, fmt.Sprintf(mentionReplyPrompt, mention.Text), 200))

		reply := a.gateway.Reply(ctx, content, mention.ID)
		if reply.Success {
			log.Info("replied to mention", "mention_id", mention.ID, "text", content)
		} else {
			log.Error("failed to reply to mention", "mention_id", mention.ID, "error", reply.Error)
		}

		a.pause(ctx)
	}
}

// HandleDirectMessages is the DM loop's unit of work. Messages from the
// agent itself are skipped, as are messages whose sender could not be
// decoded (logged and skipped, never fatal to the batch).
func (a *Agent) HandleDirectMessages(ctx context.Context) {
	log := observability.LoggerFromContext(ctx)

	res := a.gateway.DirectMessages(ctx, a.tracker.DMCursor(), 50)
	if !res.Success {
		log.Error("failed to retrieve direct messages", "error", res.Error)
		return
	}

	dms := res.DirectMessages
	if len(dms) == 0 {
		log.Info("no new direct messages found")
		return
	}

	a.tracker.AdvanceDMCursor(ctx, dms)

	selfID, err := a.gateway.Me(ctx)
	if err != nil {
		log.Warn("could not resolve own user id, self-sent DMs will be answered", "error", err)
	}

	for i := len(dms) - 1; i >= 0; i-- {
		dm := dms[i]

		if dm.SenderID == "" {
			log.Warn("could not determine sender for DM, skipping", "dm_id", dm.ID, "source", dm.Source)
			continue
		}
		if selfID != "" && dm.SenderID == selfID {
			continue
		}

		content := a.generate(ctx, fmt.Sprintf(dmReplyPrompt, dm.Text), 500)

		send := a.gateway.SendDirectMessage(ctx, dm.SenderID, content)
		if send.Success {
			log.Info("replied to DM", "sender_id", dm.SenderID, "message_id", send.MessageID)
		} else {
			log.Error("failed to reply to DM", "sender_id", dm.SenderID, "error", send.Error)
		}

		a.pause(ctx)
	}
}

// PostTweet publishes a single tweet, applying the platform length limit.
func (a *Agent) PostTweet(ctx context.Context, text string) domain.ActionResult {
	log := observability.LoggerFromContext(ctx)

	res := a.gateway.PostTweet(ctx, Truncate(text))
	if res.Success {
		a.tracker.RecordPost(ctx)
		log.Info("posted tweet", "tweet_id", res.TweetID)
	} else {
		log.Error("failed to post tweet", "error", res.Error)
	}
	return res
}

// ReplyTo replies to a single tweet.
func (a *Agent) ReplyTo(ctx context.Context, parentID domain.TweetID, text string) domain.ActionResult {
	return a.gateway.Reply(ctx, Truncate(text), parentID)
}

// SendDM sends a single direct message.
func (a *Agent) SendDM(ctx context.Context, recipientID domain.UserID, text string) domain.ActionResult {
	return a.gateway.SendDirectMessage(ctx, recipientID, text)
}
