package twitter

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/example/chirp/internal/domain"
)

// fakeClient is a scriptable PlatformClient. Each operation fails when its
// name appears in failOps; calls records the invocation order across clients.
type fakeClient struct {
	name    string
	failOps map[string]error
	calls   *[]string

	dms    []domain.DirectMessage
	tweets []domain.Tweet
	selfID domain.UserID
}

func (f *fakeClient) record(op string) error {
	if f.calls != nil {
		*f.calls = append(*f.calls, f.name+"."+op)
	}
	return f.failOps[op]
}

func (f *fakeClient) Name() string { return f.name }

func (f *fakeClient) PostTweet(ctx context.Context, text string) (domain.TweetID, error) {
	if err := f.record("post"); err != nil {
		return "", err
	}
	return domain.TweetID(f.name + "-post-id"), nil
}

func (f *fakeClient) Reply(ctx context.Context, text string, parentID domain.TweetID) (domain.TweetID, error) {
	if err := f.record("reply"); err != nil {
		return "", err
	}
	return domain.TweetID(f.name + "-reply-id"), nil
}

func (f *fakeClient) Retweet(ctx context.Context, id domain.TweetID) (domain.TweetID, error) {
	if err := f.record("retweet"); err != nil {
		return "", err
	}
	return id, nil
}

func (f *fakeClient) Like(ctx context.Context, id domain.TweetID) error {
	return f.record("like")
}

func (f *fakeClient) Mentions(ctx context.Context, sinceID domain.TweetID, limit int) ([]domain.Tweet, error) {
	if err := f.record("mentions"); err != nil {
		return nil, err
	}
	return f.tweets, nil
}

func (f *fakeClient) Search(ctx context.Context, query string, limit int) ([]domain.Tweet, error) {
	if err := f.record("search"); err != nil {
		return nil, err
	}
	return f.tweets, nil
}

func (f *fakeClient) Timeline(ctx context.Context, username string, limit int) ([]domain.Tweet, error) {
	if err := f.record("timeline"); err != nil {
		return nil, err
	}
	return f.tweets, nil
}

func (f *fakeClient) FetchDMs(ctx context.Context, limit int) ([]domain.DirectMessage, error) {
	if err := f.record("fetch_dms"); err != nil {
		return nil, err
	}
	return f.dms, nil
}

func (f *fakeClient) SendDM(ctx context.Context, recipientID domain.UserID, text string) (domain.MessageID, error) {
	if err := f.record("send_dm"); err != nil {
		return "", err
	}
	return "sent-dm-id", nil
}

func (f *fakeClient) Me(ctx context.Context) (domain.UserID, error) {
	if err := f.record("me"); err != nil {
		return "", err
	}
	return f.selfID, nil
}

func TestPostTweetPrefersV1(t *testing.T) {
	var calls []string
	v1 := &fakeClient{name: "v1", calls: &calls}
	v2 := &fakeClient{name: "v2", calls: &calls}
	g := NewGateway(v1, v2)

	res := g.PostTweet(context.Background(), "hello")
	if !res.Success {
		t.Fatalf("PostTweet failed: %s", res.Error)
	}
	if res.TweetID != "v1-post-id" {
		t.Fatalf("TweetID = %q, want the v1 id", res.TweetID)
	}
	if len(calls) != 1 || calls[0] != "v1.post" {
		t.Fatalf("calls = %v, want only v1.post", calls)
	}
}

func TestPostTweetFallsBackToV2(t *testing.T) {
	var calls []string
	v1 := &fakeClient{name: "v1", calls: &calls, failOps: map[string]error{"post": fmt.Errorf("v1 down")}}
	v2 := &fakeClient{name: "v2", calls: &calls}
	g := NewGateway(v1, v2)

	res := g.PostTweet(context.Background(), "hello")
	if !res.Success {
		t.Fatalf("PostTweet failed: %s", res.Error)
	}
	if res.TweetID != "v2-post-id" {
		t.Fatalf("TweetID = %q, want the v2 id", res.TweetID)
	}

	want := []string{"v1.post", "v2.post"}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
}

func TestReplyPrefersV2FallsBackToV1(t *testing.T) {
	var calls []string
	v1 := &fakeClient{name: "v1", calls: &calls}
	v2 := &fakeClient{name: "v2", calls: &calls, failOps: map[string]error{"reply": fmt.Errorf("v2 down")}}
	g := NewGateway(v1, v2)

	res := g.Reply(context.Background(), "hi", "123")
	if !res.Success {
		t.Fatalf("Reply failed: %s", res.Error)
	}
	if res.TweetID != "v1-reply-id" {
		t.Fatalf("TweetID = %q, want the v1 id", res.TweetID)
	}

	want := []string{"v2.reply", "v1.reply"}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
}

func TestDoubleFailureReportsBothErrors(t *testing.T) {
	v1 := &fakeClient{name: "v1", failOps: map[string]error{"like": fmt.Errorf("v1 broke")}}
	v2 := &fakeClient{name: "v2", failOps: map[string]error{"like": fmt.Errorf("v2 broke")}}
	g := NewGateway(v1, v2)

	res := g.Like(context.Background(), "123")
	if res.Success {
		t.Fatal("Like succeeded with both clients failing")
	}
	if !strings.Contains(res.Error, "v2 broke") || !strings.Contains(res.Error, "v1 broke") {
		t.Fatalf("error %q does not carry both failures", res.Error)
	}
}

func TestNoClientsAvailable(t *testing.T) {
	g := NewGateway(nil, nil)
	ctx := context.Background()

	for op, res := range map[string]domain.ActionResult{
		"post":    g.PostTweet(ctx, "x"),
		"reply":   g.Reply(ctx, "x", "1"),
		"retweet": g.Retweet(ctx, "1"),
		"like":    g.Like(ctx, "1"),
		"dms":     g.DirectMessages(ctx, "", 50),
		"send_dm": g.SendDirectMessage(ctx, "u", "x"),
	} {
		if res.Success {
			t.Fatalf("%s succeeded with no clients", op)
		}
		if res.Error != "no suitable client" {
			t.Fatalf("%s error = %q, want %q", op, res.Error, "no suitable client")
		}
	}

	if res := g.Mentions(ctx, "", 100); res.Success || res.Error != "no suitable client" {
		t.Fatalf("mentions = %+v, want no-suitable-client failure", res)
	}
	if _, err := g.Me(ctx); err == nil || err.Error() != "no suitable client" {
		t.Fatalf("Me error = %v, want no suitable client", err)
	}
}

func TestDirectMessagesForbiddenReadsAsEmptyInbox(t *testing.T) {
	v1 := &fakeClient{name: "v1", failOps: map[string]error{
		"fetch_dms": &domain.APIError{Kind: domain.KindForbidden, Op: "v1.fetch_dms", Message: "access to a subset of X API"},
	}}
	g := NewGateway(v1, nil)

	res := g.DirectMessages(context.Background(), "", 50)
	if !res.Success {
		t.Fatalf("Forbidden DM fetch should be a soft success, got error %s", res.Error)
	}
	if res.DirectMessages == nil || len(res.DirectMessages) != 0 {
		t.Fatalf("want empty DM list, got %v", res.DirectMessages)
	}
}

func TestDirectMessagesOtherErrorsFail(t *testing.T) {
	v1 := &fakeClient{name: "v1", failOps: map[string]error{
		"fetch_dms": &domain.APIError{Kind: domain.KindUnauthorized, Op: "v1.fetch_dms", Message: "bad token"},
	}}
	g := NewGateway(v1, nil)

	res := g.DirectMessages(context.Background(), "", 50)
	if res.Success {
		t.Fatal("Unauthorized DM fetch must fail, only Forbidden is soft")
	}
}

func TestSendDirectMessageForbiddenIsHardFailure(t *testing.T) {
	v1 := &fakeClient{name: "v1", failOps: map[string]error{
		"send_dm": &domain.APIError{Kind: domain.KindForbidden, Op: "v1.send_dm", Message: "not in tier"},
	}}
	g := NewGateway(v1, nil)

	res := g.SendDirectMessage(context.Background(), "u1", "hello")
	if res.Success {
		t.Fatal("Forbidden DM send must be a hard failure")
	}
}

func TestDirectMessagesFilteredBySince(t *testing.T) {
	v1 := &fakeClient{name: "v1", dms: []domain.DirectMessage{
		{ID: "300", SenderID: "a"},
		{ID: "200", SenderID: "b"},
		{ID: "100", SenderID: "c"},
	}}
	g := NewGateway(v1, nil)

	res := g.DirectMessages(context.Background(), "200", 50)
	if !res.Success {
		t.Fatalf("DirectMessages failed: %s", res.Error)
	}
	if len(res.DirectMessages) != 1 || res.DirectMessages[0].ID != "300" {
		t.Fatalf("filtered DMs = %v, want only id 300", res.DirectMessages)
	}
}

func TestMeFallsBackToV1(t *testing.T) {
	v1 := &fakeClient{name: "v1", selfID: "v1-self"}
	v2 := &fakeClient{name: "v2", failOps: map[string]error{"me": fmt.Errorf("v2 down")}}
	g := NewGateway(v1, v2)

	id, err := g.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if id != "v1-self" {
		t.Fatalf("Me = %q, want the v1 identity", id)
	}
}

func TestFilterDMsSinceKeepsUnparsableIDs(t *testing.T) {
	dms := []domain.DirectMessage{
		{ID: "300"},
		{ID: "not-a-number"},
		{ID: "100"},
	}

	out := filterDMsSince(dms, "200")
	if len(out) != 2 {
		t.Fatalf("got %d DMs, want 2", len(out))
	}
	if out[0].ID != "300" || out[1].ID != "not-a-number" {
		t.Fatalf("filtered DMs = %v", out)
	}
}
