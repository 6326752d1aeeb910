package agent

import (
	"context"
	"sync"
	"time"

	"github.com/example/chirp/internal/domain"
	"github.com/example/chirp/internal/observability"
)

// quotaWindow is the rolling window for the daily post counter, measured
// from the last reset.
const quotaWindow = 24 * time.Hour

// Tracker owns the agent's quota counter and feed cursors. Cursors only move
// forward and are advanced to the newest id of a batch before the batch is
// processed. Every mutation is mirrored to the checkpoint store best-effort;
// a failed save is logged and the in-memory state stays authoritative.
type Tracker struct {
	mu            sync.Mutex
	agent         string
	store         domain.CheckpointStore
	cp            domain.Checkpoint
	maxDailyPosts int
	now           func() time.Time
}

func NewTracker(agentName string, store domain.CheckpointStore, maxDailyPosts int) *Tracker {
	t := &Tracker{
		agent:         agentName,
		store:         store,
		maxDailyPosts: maxDailyPosts,
		now:           time.Now,
	}
	t.cp.WindowStart = t.now()
	return t
}

// Restore hydrates the tracker from the checkpoint store. Unknown agents get
// a fresh checkpoint with the window starting now.
func (t *Tracker) Restore(ctx context.Context) error {
	cp, err := t.store.Load(ctx, t.agent)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if cp.WindowStart.IsZero() {
		cp.WindowStart = t.now()
	}
	t.cp = cp
	return nil
}

// ShouldPostNow applies the rolling-window reset and reports whether the
// daily quota still has room. The reset happens at most once per window.
func (t *Tracker) ShouldPostNow(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.now().Sub(t.cp.WindowStart) >= quotaWindow {
		t.cp.DailyPostCount = 0
		t.cp.WindowStart = t.now()
		t.saveLocked(ctx)
	}

	return t.cp.DailyPostCount < t.maxDailyPosts
}

// RecordPost counts one published post against the quota.
func (t *Tracker) RecordPost(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cp.DailyPostCount++
	t.saveLocked(ctx)
}

// AdvanceMentionCursor moves the mention cursor to the newest id of the
// batch (element 0, batches are newest-first). Called before the batch is
// processed, so a crash mid-batch never reprocesses the triggering item.
func (t *Tracker) AdvanceMentionCursor(ctx context.Context, batch []domain.Tweet) {
	if len(batch) == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.cp.MentionCursor = batch[0].ID
	t.saveLocked(ctx)
}

// AdvanceDMCursor is AdvanceMentionCursor for the DM feed.
func (t *Tracker) AdvanceDMCursor(ctx context.Context, batch []domain.DirectMessage) {
	if len(batch) == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.cp.DMCursor = batch[0].ID
	t.saveLocked(ctx)
}

func (t *Tracker) MentionCursor() domain.TweetID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cp.MentionCursor
}

func (t *Tracker) DMCursor() domain.MessageID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cp.DMCursor
}

func (t *Tracker) DailyPostCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cp.DailyPostCount
}

func (t *Tracker) MaxDailyPosts() int {
	return t.maxDailyPosts
}

func (t *Tracker) WindowStart() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cp.WindowStart
}

func (t *Tracker) saveLocked(ctx context.Context) {
	if t.store == nil {
		return
	}
	if err := t.store.Save(ctx, t.agent, t.cp); err != nil {
		observability.LoggerFromContext(ctx).Warn("failed to save checkpoint", "agent", t.agent, "error", err)
	}
}
