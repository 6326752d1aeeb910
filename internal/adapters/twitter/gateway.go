package twitter

import (
	"context"
	"fmt"
	"strconv"

	"github.com/example/chirp/internal/domain"
	"github.com/example/chirp/internal/observability"
)

const errNoSuitableClient = "no suitable client"

// Gateway applies the dual-client fallback policy on top of two
// PlatformClients. Writes prefer v1 (more reliable for posting), reads and
// replies prefer v2, DMs are v1-only. A primary failure is logged at warning
// level and retried on the secondary; only a double failure surfaces as a
// failed ActionResult. Gateway methods never panic.
type Gateway struct {
	v1 domain.PlatformClient
	v2 domain.PlatformClient
}

// NewGateway wires the two clients. Either may be nil; operations with no
// capable client report "no suitable client" instead of failing construction,
// the CLI rejects the fully-unauthenticated case up front.
func NewGateway(v1, v2 domain.PlatformClient) *Gateway {
	return &Gateway{v1: v1, v2: v2}
}

func noClient() domain.ActionResult {
	return domain.ActionResult{Success: false, Error: errNoSuitableClient}
}

func combined(primaryErr, secondaryErr error) string {
	return fmt.Sprintf("primary: %v; secondary: %v", primaryErr, secondaryErr)
}

func (g *Gateway) PostTweet(ctx context.Context, text string) domain.ActionResult {
	log := observability.LoggerFromContext(ctx)

	// v1.1 first: historically the more reliable write path.
	if g.v1 != nil {
		id, err := g.v1.PostTweet(ctx, text)
		if err == nil {
			return domain.ActionResult{Success: true, TweetID: id}
		}
		log.Warn("post tweet failed on primary", "client", g.v1.Name(), "error", err)

		if g.v2 != nil {
			id, err2 := g.v2.PostTweet(ctx, text)
			if err2 == nil {
				return domain.ActionResult{Success: true, TweetID: id}
			}
			return domain.ActionResult{Success: false, Error: combined(err, err2)}
		}
		return domain.Failure(err)
	}

	if g.v2 != nil {
		id, err := g.v2.PostTweet(ctx, text)
		if err != nil {
			return domain.Failure(err)
		}
		return domain.ActionResult{Success: true, TweetID: id}
	}

	return noClient()
}

func (g *Gateway) Reply(ctx context.Context, text string, parentID domain.TweetID) domain.ActionResult {
	return g.tweetWrite(ctx, "reply", func(c domain.PlatformClient) (domain.TweetID, error) {
		return c.Reply(ctx, text, parentID)
	})
}

func (g *Gateway) Retweet(ctx context.Context, id domain.TweetID) domain.ActionResult {
	return g.tweetWrite(ctx, "retweet", func(c domain.PlatformClient) (domain.TweetID, error) {
		return c.Retweet(ctx, id)
	})
}

func (g *Gateway) Like(ctx context.Context, id domain.TweetID) domain.ActionResult {
	return g.tweetWrite(ctx, "like", func(c domain.PlatformClient) (domain.TweetID, error) {
		return id, c.Like(ctx, id)
	})
}

// tweetWrite runs a v2-primary, v1-secondary write operation.
func (g *Gateway) tweetWrite(ctx context.Context, op string, call func(domain.PlatformClient) (domain.TweetID, error)) domain.ActionResult {
	log := observability.LoggerFromContext(ctx)

	if g.v2 != nil {
		id, err := call(g.v2)
		if err == nil {
			return domain.ActionResult{Success: true, TweetID: id}
		}
		log.Warn(op+" failed on primary", "client", g.v2.Name(), "error", err)

		if g.v1 != nil {
			id, err2 := call(g.v1)
			if err2 == nil {
				return domain.ActionResult{Success: true, TweetID: id}
			}
			return domain.ActionResult{Success: false, Error: combined(err, err2)}
		}
		return domain.Failure(err)
	}

	if g.v1 != nil {
		id, err := call(g.v1)
		if err != nil {
			return domain.Failure(err)
		}
		return domain.ActionResult{Success: true, TweetID: id}
	}

	return noClient()
}

// tweetRead runs a v2-primary, v1-secondary batch read.
func (g *Gateway) tweetRead(ctx context.Context, op string, call func(domain.PlatformClient) ([]domain.Tweet, error)) ([]domain.Tweet, error) {
	log := observability.LoggerFromContext(ctx)

	if g.v2 != nil {
		tweets, err := call(g.v2)
		if err == nil {
			return tweets, nil
		}
		log.Warn(op+" failed on primary", "client", g.v2.Name(), "error", err)

		if g.v1 != nil {
			tweets, err2 := call(g.v1)
			if err2 == nil {
				return tweets, nil
			}
			return nil, fmt.Errorf("%s", combined(err, err2))
		}
		return nil, err
	}

	if g.v1 != nil {
		return call(g.v1)
	}

	return nil, fmt.Errorf("%s", errNoSuitableClient)
}

func (g *Gateway) Mentions(ctx context.Context, sinceID domain.TweetID, limit int) domain.ActionResult {
	tweets, err := g.tweetRead(ctx, "fetch mentions", func(c domain.PlatformClient) ([]domain.Tweet, error) {
		return c.Mentions(ctx, sinceID, limit)
	})
	if err != nil {
		return domain.Failure(err)
	}
	return domain.ActionResult{Success: true, Mentions: tweets}
}

func (g *Gateway) Search(ctx context.Context, query string, limit int) domain.ActionResult {
	tweets, err := g.tweetRead(ctx, "search", func(c domain.PlatformClient) ([]domain.Tweet, error) {
		return c.Search(ctx, query, limit)
	})
	if err != nil {
		return domain.Failure(err)
	}
	return domain.ActionResult{Success: true, Tweets: tweets}
}

func (g *Gateway) Timeline(ctx context.Context, username string, limit int) domain.ActionResult {
	tweets, err := g.tweetRead(ctx, "fetch timeline", func(c domain.PlatformClient) ([]domain.Tweet, error) {
		return c.Timeline(ctx, username, limit)
	})
	if err != nil {
		return domain.Failure(err)
	}
	return domain.ActionResult{Success: true, Tweets: tweets}
}

// DirectMessages fetches DMs newer than sinceID. Only the v1 client has DM
// capability. An access-tier restriction reads as an empty inbox: the account
// simply cannot see DMs, which is not an error worth waking anyone for.
func (g *Gateway) DirectMessages(ctx context.Context, sinceID domain.MessageID, limit int) domain.ActionResult {
	log := observability.LoggerFromContext(ctx)

	if g.v1 == nil {
		return noClient()
	}

	dms, err := g.v1.FetchDMs(ctx, limit)
	if err != nil {
		if domain.KindOf(err) == domain.KindForbidden {
			log.Warn("DM access not included in API tier, treating as empty inbox", "error", err)
			return domain.ActionResult{Success: true, DirectMessages: []domain.DirectMessage{}}
		}
		return domain.Failure(err)
	}

	if sinceID != "" {
		dms = filterDMsSince(dms, sinceID)
	}
	return domain.ActionResult{Success: true, DirectMessages: dms}
}

// SendDirectMessage sends a DM via the v1 client. Unlike the fetch path, a
// Forbidden here is a hard failure: silently dropping an outbound message is
// not acceptable.
func (g *Gateway) SendDirectMessage(ctx context.Context, recipientID domain.UserID, text string) domain.ActionResult {
	if g.v1 == nil {
		return noClient()
	}

	id, err := g.v1.SendDM(ctx, recipientID, text)
	if err != nil {
		return domain.Failure(err)
	}
	return domain.ActionResult{Success: true, MessageID: id}
}

func (g *Gateway) Me(ctx context.Context) (domain.UserID, error) {
	log := observability.LoggerFromContext(ctx)

	if g.v2 != nil {
		id, err := g.v2.Me(ctx)
		if err == nil {
			return id, nil
		}
		log.Warn("me lookup failed on primary", "client", g.v2.Name(), "error", err)

		if g.v1 != nil {
			return g.v1.Me(ctx)
		}
		return "", err
	}

	if g.v1 != nil {
		return g.v1.Me(ctx)
	}

	return "", fmt.Errorf("%s", errNoSuitableClient)
}

// filterDMsSince keeps messages with ids strictly greater than sinceID.
// Snowflake ids are numeric and time-ordered.
func filterDMsSince(dms []domain.DirectMessage, sinceID domain.MessageID) []domain.DirectMessage {
	since, err := strconv.ParseUint(string(sinceID), 10, 64)
	if err != nil {
		return dms
	}

	out := make([]domain.DirectMessage, 0, len(dms))
	for _, dm := range dms {
		id, err := strconv.ParseUint(string(dm.ID), 10, 64)
		if err != nil || id > since {
			out = append(out, dm)
		}
	}
	return out
}
