package checkpoint

import (
	"context"
	"testing"
	"time"

	"github.com/example/chirp/internal/domain"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	want := domain.Checkpoint{
		MentionCursor:  "100",
		DMCursor:       "200",
		DailyPostCount: 3,
		WindowStart:    time.Now().Truncate(time.Second),
	}
	if err := s.Save(ctx, "sage", want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "sage")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestMemoryStoreUnknownAgentIsZero(t *testing.T) {
	s := NewMemoryStore()

	got, err := s.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != (domain.Checkpoint{}) {
		t.Fatalf("unknown agent = %+v, want zero checkpoint", got)
	}
}

func TestMemoryStoreIsolatesAgents(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Save(ctx, "a", domain.Checkpoint{MentionCursor: "1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, "b", domain.Checkpoint{MentionCursor: "2"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	a, _ := s.Load(ctx, "a")
	b, _ := s.Load(ctx, "b")
	if a.MentionCursor != "1" || b.MentionCursor != "2" {
		t.Fatalf("cursors = %q, %q", a.MentionCursor, b.MentionCursor)
	}
}
