package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dghubble/oauth1"

	"github.com/example/chirp/internal/domain"
)

// V1Client talks to the Twitter API v1.1 with OAuth 1.0a user credentials.
// It is the only client with DM capability at this access tier.
type V1Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewV1Client builds a v1.1 client. The http.Client it uses signs every
// request with OAuth 1.0a.
func NewV1Client(consumerKey, consumerSecret, accessToken, accessSecret string) *V1Client {
	cfg := oauth1.NewConfig(consumerKey, consumerSecret)
	token := oauth1.NewToken(accessToken, accessSecret)

	return &V1Client{
		httpClient: cfg.Client(oauth1.NoContext, token),
		baseURL:    v1BaseURL,
	}
}

func (c *V1Client) Name() string { return "v1" }

// v1Tweet is the subset of the v1.1 status payload the agent consumes.
type v1Tweet struct {
	IDStr string `json:"id_str"`
	Text  string `json:"text"`
	User  struct {
		IDStr string `json:"id_str"`
	} `json:"user"`
}

func (t v1Tweet) toDomain() domain.Tweet {
	return domain.Tweet{
		ID:       domain.TweetID(t.IDStr),
		Text:     t.Text,
		AuthorID: domain.UserID(t.User.IDStr),
	}
}

func (c *V1Client) postForm(ctx context.Context, op, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return transportErr(op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportErr(op, err)
	}
	return decodeResponse(resp, op, out)
}

func (c *V1Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
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

func (c *V1Client) PostTweet(ctx context.Context, text string) (domain.TweetID, error) {
	form := url.Values{"status": {text}}

	var tw v1Tweet
	if err := c.postForm(ctx, "v1.post_tweet", "/statuses/update.json", form, &tw); err != nil {
		return "", err
	}
	return domain.TweetID(tw.IDStr), nil
}

func (c *V1Client) Reply(ctx context.Context, text string, parentID domain.TweetID) (domain.TweetID, error) {
	form := url.Values{
		"status":                       {text},
		"in_reply_to_status_id":        {string(parentID)},
		"auto_populate_reply_metadata": {"true"},
	}

	var tw v1Tweet
	if err := c.postForm(ctx, "v1.reply", "/statuses/update.json", form, &tw); err != nil {
		return "", err
	}
	return domain.TweetID(tw.IDStr), nil
}

func (c *V1Client) Retweet(ctx context.Context, id domain.TweetID) (domain.TweetID, error) {
	var tw v1Tweet
	path := "/statuses/retweet/" + string(id) + ".json"
	if err := c.postForm(ctx, "v1.retweet", path, url.Values{}, &tw); err != nil {
		return "", err
	}
	return domain.TweetID(tw.IDStr), nil
}

func (c *V1Client) Like(ctx context.Context, id domain.TweetID) error {
	form := url.Values{"id": {string(id)}}
	return c.postForm(ctx, "v1.like", "/favorites/create.json", form, nil)
}

func (c *V1Client) Mentions(ctx context.Context, sinceID domain.TweetID, limit int) ([]domain.Tweet, error) {
	query := url.Values{"count": {strconv.Itoa(limit)}}
	if sinceID != "" {
		query.Set("since_id", string(sinceID))
	}

	var raw []v1Tweet
	if err := c.get(ctx, "v1.mentions", "/statuses/mentions_timeline.json", query, &raw); err != nil {
		return nil, err
	}
	return v1TweetsToDomain(raw), nil
}

func (c *V1Client) Search(ctx context.Context, query string, limit int) ([]domain.Tweet, error) {
	q := url.Values{
		"q":     {query},
		"count": {strconv.Itoa(limit)},
	}

	var raw struct {
		Statuses []v1Tweet `json:"statuses"`
	}
	if err := c.get(ctx, "v1.search", "/search/tweets.json", q, &raw); err != nil {
		return nil, err
	}
	return v1TweetsToDomain(raw.Statuses), nil
}

func (c *V1Client) Timeline(ctx context.Context, username string, limit int) ([]domain.Tweet, error) {
	query := url.Values{
		"screen_name": {username},
		"count":       {strconv.Itoa(limit)},
	}

	var raw []v1Tweet
	if err := c.get(ctx, "v1.timeline", "/statuses/user_timeline.json", query, &raw); err != nil {
		return nil, err
	}
	return v1TweetsToDomain(raw), nil
}

// v1DMEvent carries both wire shapes a direct message can arrive in: the
// message-create event and the legacy flat message. decode() picks the one
// that is present and tags the result, so downstream code never probes.
type v1DMEvent struct {
	ID            string `json:"id"`
	MessageCreate *struct {
		SenderID    string `json:"sender_id"`
		MessageData struct {
			Text string `json:"text"`
		} `json:"message_data"`
	} `json:"message_create"`

	// legacy shape
	SenderIDStr string `json:"sender_id_str"`
	Text        string `json:"text"`
}

func (e v1DMEvent) decode() domain.DirectMessage {
	if e.MessageCreate != nil {
		return domain.DirectMessage{
			ID:       domain.MessageID(e.ID),
			SenderID: domain.UserID(e.MessageCreate.SenderID),
			Text:     e.MessageCreate.MessageData.Text,
			Source:   domain.DMSourceEvent,
		}
	}
	// SenderID may come out empty here; the agent skips such messages with
	// a warning instead of failing the batch.
	return domain.DirectMessage{
		ID:       domain.MessageID(e.ID),
		SenderID: domain.UserID(e.SenderIDStr),
		Text:     e.Text,
		Source:   domain.DMSourceLegacy,
	}
}

func (c *V1Client) FetchDMs(ctx context.Context, limit int) ([]domain.DirectMessage, error) {
	query := url.Values{"count": {strconv.Itoa(limit)}}

	var raw struct {
		Events []v1DMEvent `json:"events"`
	}
	if err := c.get(ctx, "v1.fetch_dms", "/direct_messages/events/list.json", query, &raw); err != nil {
		return nil, err
	}

	out := make([]domain.DirectMessage, 0, len(raw.Events))
	for _, e := range raw.Events {
		out = append(out, e.decode())
	}
	return out, nil
}

func (c *V1Client) SendDM(ctx context.Context, recipientID domain.UserID, text string) (domain.MessageID, error) {
	const op = "v1.send_dm"

	payload := map[string]any{
		"event": map[string]any{
			"type": "message_create",
			"message_create": map[string]any{
				"target":       map[string]any{"recipient_id": string(recipientID)},
				"message_data": map[string]any{"text": text},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", transportErr(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/direct_messages/events/new.json", bytes.NewReader(body))
	if err != nil {
		return "", transportErr(op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportErr(op, err)
	}

	var out struct {
		Event v1DMEvent `json:"event"`
	}
	if err := decodeResponse(resp, op, &out); err != nil {
		return "", err
	}
	return domain.MessageID(out.Event.ID), nil
}

func (c *V1Client) Me(ctx context.Context) (domain.UserID, error) {
	var raw struct {
		IDStr string `json:"id_str"`
	}
	if err := c.get(ctx, "v1.me", "/account/verify_credentials.json", url.Values{}, &raw); err != nil {
		return "", err
	}
	return domain.UserID(raw.IDStr), nil
}

func v1TweetsToDomain(raw []v1Tweet) []domain.Tweet {
	out := make([]domain.Tweet, 0, len(raw))
	for _, t := range raw {
		out = append(out, t.toDomain())
	}
	return out
}
