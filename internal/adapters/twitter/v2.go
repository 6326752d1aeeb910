package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"golang.org/x/oauth2"

	"github.com/example/chirp/internal/domain"
)

// V2Client talks to the Twitter API v2 with a bearer token. It has no DM
// capability at this access tier; those operations return KindUnsupported so
// the gateway can route them to the v1 client.
type V2Client struct {
	httpClient *http.Client
	baseURL    string

	mu     sync.Mutex
	userID domain.UserID // cached result of Me
}

// NewV2Client builds a v2 client from a bearer token.
func NewV2Client(bearerToken string) *V2Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: bearerToken,
		TokenType:   "Bearer",
	})

	return &V2Client{
		httpClient: oauth2.NewClient(context.Background(), src),
		baseURL:    v2BaseURL,
	}
}

func (c *V2Client) Name() string { return "v2" }

type v2Tweet struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	AuthorID string `json:"author_id"`
}

type v2TweetList struct {
	Data []v2Tweet `json:"data"`
}

func (c *V2Client) postJSON(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return transportErr(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return transportErr(op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportErr(op, err)
	}
	return decodeResponse(resp, op, out)
}

func (c *V2Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return transportErr(op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportErr(op, err)
	}
	return decodeResponse(resp, op, out)
}

func (c *V2Client) PostTweet(ctx context.Context, text string) (domain.TweetID, error) {
	var out struct {
		Data v2Tweet `json:"data"`
	}
	if err := c.postJSON(ctx, "v2.post_tweet", "/tweets", map[string]any{"text": text}, &out); err != nil {
		return "", err
	}
	return domain.TweetID(out.Data.ID), nil
}

func (c *V2Client) Reply(ctx context.Context, text string, parentID domain.TweetID) (domain.TweetID, error) {
	payload := map[string]any{
		"text": text,
		"reply": map[string]any{
			"in_reply_to_tweet_id": string(parentID),
		},
	}

	var out struct {
		Data v2Tweet `json:"data"`
	}
	if err := c.postJSON(ctx, "v2.reply", "/tweets", payload, &out); err != nil {
		return "", err
	}
	return domain.TweetID(out.Data.ID), nil
}

func (c *V2Client) Retweet(ctx context.Context, id domain.TweetID) (domain.TweetID, error) {
	userID, err := c.Me(ctx)
	if err != nil {
		return "", err
	}

	payload := map[string]any{"tweet_id": string(id)}
	if err := c.postJSON(ctx, "v2.retweet", "/users/"+string(userID)+"/retweets", payload, nil); err != nil {
		return "", err
	}
	// v2 does not mint a new status for a retweet; report the original id.
	return id, nil
}

func (c *V2Client) Like(ctx context.Context, id domain.TweetID) error {
	userID, err := c.Me(ctx)
	if err != nil {
		return err
	}

	payload := map[string]any{"tweet_id": string(id)}
	return c.postJSON(ctx, "v2.like", "/users/"+string(userID)+"/likes", payload, nil)
}

func (c *V2Client) Mentions(ctx context.Context, sinceID domain.TweetID, limit int) ([]domain.Tweet, error) {
	userID, err := c.Me(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{
		"max_results":  {strconv.Itoa(limit)},
		"tweet.fields": {"author_id"},
	}
	if sinceID != "" {
		query.Set("since_id", string(sinceID))
	}

	var out v2TweetList
	if err := c.get(ctx, "v2.mentions", "/users/"+string(userID)+"/mentions", query, &out); err != nil {
		return nil, err
	}
	return v2TweetsToDomain(out.Data), nil
}

func (c *V2Client) Search(ctx context.Context, query string, limit int) ([]domain.Tweet, error) {
	q := url.Values{
		"query":        {query},
		"max_results":  {strconv.Itoa(limit)},
		"tweet.fields": {"author_id"},
	}

	var out v2TweetList
	if err := c.get(ctx, "v2.search", "/tweets/search/recent", q, &out); err != nil {
		return nil, err
	}
	return v2TweetsToDomain(out.Data), nil
}

func (c *V2Client) Timeline(ctx context.Context, username string, limit int) ([]domain.Tweet, error) {
	const op = "v2.timeline"

	var user struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.get(ctx, op, "/users/by/username/"+username, url.Values{}, &user); err != nil {
		return nil, err
	}
	if user.Data.ID == "" {
		return nil, &domain.APIError{Kind: domain.KindNotFound, Op: op, Message: "user " + username + " not found"}
	}

	query := url.Values{
		"max_results":  {strconv.Itoa(limit)},
		"tweet.fields": {"author_id"},
	}

	var out v2TweetList
	if err := c.get(ctx, op, "/users/"+user.Data.ID+"/tweets", query, &out); err != nil {
		return nil, err
	}
	return v2TweetsToDomain(out.Data), nil
}

func (c *V2Client) FetchDMs(ctx context.Context, limit int) ([]domain.DirectMessage, error) {
	return nil, &domain.APIError{
		Kind: domain.KindUnsupported, Op: "v2.fetch_dms",
		Message: "v2 client has no DM access at this tier",
	}
}

func (c *V2Client) SendDM(ctx context.Context, recipientID domain.UserID, text string) (domain.MessageID, error) {
	return "", &domain.APIError{
		Kind: domain.KindUnsupported, Op: "v2.send_dm",
		Message: "v2 client has no DM access at this tier",
	}
}

func (c *V2Client) Me(ctx context.Context) (domain.UserID, error) {
	c.mu.Lock()
	if c.userID != "" {
		id := c.userID
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.get(ctx, "v2.me", "/users/me", url.Values{}, &out); err != nil {
		return "", err
	}

	c.mu.Lock()
	c.userID = domain.UserID(out.Data.ID)
	c.mu.Unlock()

	return domain.UserID(out.Data.ID), nil
}

func v2TweetsToDomain(raw []v2Tweet) []domain.Tweet {
	out := make([]domain.Tweet, 0, len(raw))
	for _, t := range raw {
		out = append(out, domain.Tweet{
			ID:       domain.TweetID(t.ID),
			Text:     t.Text,
			AuthorID: domain.UserID(t.AuthorID),
		})
	}
	return out
}
