package agent

import (
	"context"
	"testing"
	"time"

	"github.com/example/chirp/internal/adapters/checkpoint"
	"github.com/example/chirp/internal/domain"
)

func TestTrackerQuotaLimit(t *testing.T) {
	tr := NewTracker("test", nil, 2)
	ctx := context.Background()

	if !tr.ShouldPostNow(ctx) {
		t.Fatal("fresh tracker should allow posting")
	}

	tr.RecordPost(ctx)
	if !tr.ShouldPostNow(ctx) {
		t.Fatal("one post below the limit should still allow posting")
	}

	tr.RecordPost(ctx)
	if tr.ShouldPostNow(ctx) {
		t.Fatal("tracker at the limit should deny posting")
	}
	if got := tr.DailyPostCount(); got != 2 {
		t.Fatalf("DailyPostCount = %d, want 2", got)
	}
}

func TestTrackerWindowReset(t *testing.T) {
	tr := NewTracker("test", nil, 1)
	ctx := context.Background()

	clock := time.Now()
	tr.now = func() time.Time { return clock }
	tr.cp.WindowStart = clock

	tr.RecordPost(ctx)
	if tr.ShouldPostNow(ctx) {
		t.Fatal("limit reached, posting should be denied")
	}

	// Just under a day: still the same window, no reset.
	clock = clock.Add(24*time.Hour - time.Second)
	if tr.ShouldPostNow(ctx) {
		t.Fatal("window has not elapsed, posting should still be denied")
	}

	// Past the window: counter resets and the window restarts at now.
	clock = clock.Add(2 * time.Second)
	if !tr.ShouldPostNow(ctx) {
		t.Fatal("elapsed window should reset the quota")
	}
	if got := tr.DailyPostCount(); got != 0 {
		t.Fatalf("DailyPostCount after reset = %d, want 0", got)
	}
	if !tr.WindowStart().Equal(clock) {
		t.Fatalf("WindowStart = %v, want %v", tr.WindowStart(), clock)
	}

	// Within the new window the reset must not fire again.
	tr.RecordPost(ctx)
	clock = clock.Add(12 * time.Hour)
	if tr.ShouldPostNow(ctx) {
		t.Fatal("reset fired twice within one window")
	}
}

func TestTrackerCursorFollowsBatchHead(t *testing.T) {
	tr := NewTracker("test", nil, 12)
	ctx := context.Background()

	// Batches arrive newest-first; the cursor takes the head.
	tr.AdvanceMentionCursor(ctx, []domain.Tweet{
		{ID: "300"}, {ID: "200"}, {ID: "100"},
	})
	if got := tr.MentionCursor(); got != "300" {
		t.Fatalf("MentionCursor = %q, want %q", got, "300")
	}

	tr.AdvanceMentionCursor(ctx, []domain.Tweet{
		{ID: "500"}, {ID: "400"},
	})
	if got := tr.MentionCursor(); got != "500" {
		t.Fatalf("MentionCursor = %q, want %q", got, "500")
	}

	// An empty batch never moves the cursor.
	tr.AdvanceMentionCursor(ctx, nil)
	if got := tr.MentionCursor(); got != "500" {
		t.Fatalf("MentionCursor moved on empty batch: %q", got)
	}

	tr.AdvanceDMCursor(ctx, []domain.DirectMessage{
		{ID: "dm-9"}, {ID: "dm-8"},
	})
	if got := tr.DMCursor(); got != "dm-9" {
		t.Fatalf("DMCursor = %q, want %q", got, "dm-9")
	}
}

func TestTrackerRestoreFromStore(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	ctx := context.Background()

	first := NewTracker("sage", store, 12)
	first.AdvanceMentionCursor(ctx, []domain.Tweet{{ID: "42"}})
	first.RecordPost(ctx)

	second := NewTracker("sage", store, 12)
	if err := second.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := second.MentionCursor(); got != "42" {
		t.Fatalf("restored MentionCursor = %q, want %q", got, "42")
	}
	if got := second.DailyPostCount(); got != 1 {
		t.Fatalf("restored DailyPostCount = %d, want 1", got)
	}
	if second.WindowStart().IsZero() {
		t.Fatal("restored WindowStart is zero")
	}
}

func TestTrackerRestoreUnknownAgent(t *testing.T) {
	tr := NewTracker("nobody", checkpoint.NewMemoryStore(), 12)
	if err := tr.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := tr.MentionCursor(); got != "" {
		t.Fatalf("unknown agent got cursor %q", got)
	}
	if tr.WindowStart().IsZero() {
		t.Fatal("unknown agent should get a fresh window, not a zero time")
	}
}
