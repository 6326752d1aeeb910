// Package agent is the bot's core: the quota/cursor tracker, the three
// polling loops, the mention/DM handlers and the search-and-engage
// orchestrator, all speaking to the platform through the action gateway.
package agent

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/chirp/internal/domain"
	"github.com/example/chirp/internal/observability"
)

// Default intervals, matching the original deployment: a post every two
// hours, feed checks every five minutes.
const (
	DefaultPostInterval    = 2 * time.Hour
	DefaultMentionInterval = 5 * time.Minute
	DefaultDMInterval      = 5 * time.Minute
	DefaultMaxDailyPosts   = 12
)

// joinTimeout bounds how long Stop waits for the loops. A loop deep in a
// long sleep only notices cancellation when it wakes, so stop is
// best-effort, not immediate-cancel.
const joinTimeout = 5 * time.Second

// interItemDelay spaces out consecutive remote writes to stay under the
// platform rate limits.
const interItemDelay = 2 * time.Second

type Options struct {
	PostInterval    time.Duration
	MentionInterval time.Duration
	DMInterval      time.Duration
}

func (o *Options) applyDefaults() {
	if o.PostInterval <= 0 {
		o.PostInterval = DefaultPostInterval
	}
	if o.MentionInterval <= 0 {
		o.MentionInterval = DefaultMentionInterval
	}
	if o.DMInterval <= 0 {
		o.DMInterval = DefaultDMInterval
	}
}

// Agent ties the gateway, the generator and the tracker together and runs
// the polling loops.
type Agent struct {
	character domain.Character
	gateway   domain.ActionGateway
	generator domain.Generator
	tracker   *Tracker
	compute   domain.ComputeClient // nil in mock mode

	itemDelay time.Duration
	startedAt time.Time

	running atomic.Bool
	cancel  context.CancelFunc
	group   *errgroup.Group
}

func New(character domain.Character, gateway domain.ActionGateway, generator domain.Generator, tracker *Tracker, compute domain.ComputeClient) *Agent {
	return &Agent{
		character: character,
		gateway:   gateway,
		generator: generator,
		tracker:   tracker,
		compute:   compute,
		itemDelay: interItemDelay,
	}
}

// Running reports whether the loops are active.
func (a *Agent) Running() bool {
	return a.running.Load()
}

// Start spawns the three polling loops. Idempotent: a second Start while
// running only logs a warning.
func (a *Agent) Start(ctx context.Context, opts Options) {
	log := observability.LoggerFromContext(ctx).With("agent", a.character.Name)

	if !a.running.CompareAndSwap(false, true) {
		log.Warn("agent is already running")
		return
	}

	opts.applyDefaults()
	a.startedAt = time.Now()

	loopCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.group, loopCtx = errgroup.WithContext(loopCtx)

	log.Info("starting agent",
		"post_interval", opts.PostInterval.String(),
		"mention_interval", opts.MentionInterval.String(),
		"dm_interval", opts.DMInterval.String(),
		"max_daily_posts", a.tracker.MaxDailyPosts(),
	)

	a.group.Go(func() error {
		return a.runLoop(loopCtx, "post", opts.PostInterval, a.PostScheduledTweet)
	})
	a.group.Go(func() error {
		return a.runLoop(loopCtx, "mentions", opts.MentionInterval, a.HandleMentions)
	})
	a.group.Go(func() error {
		return a.runLoop(loopCtx, "dms", opts.DMInterval, a.HandleDirectMessages)
	})

	log.Info("agent started")
}

// Stop cancels the loops and joins them with a bounded wait.
func (a *Agent) Stop() {
	log := observability.WithFields("agent", a.character.Name)

	if !a.running.CompareAndSwap(true, false) {
		log.Warn("agent is not running")
		return
	}

	log.Info("stopping agent")
	a.cancel()

	done := make(chan struct{})
	go func() {
		_ = a.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("agent stopped")
	case <-time.After(joinTimeout):
		log.Warn("loops did not exit in time, leaving them to finish their sleep")
	}

	a.cancel = nil
	a.group = nil
}

// runLoop performs one unit of work, sleeps one interval, and repeats until
// the context is cancelled. A failing or panicking cycle is logged and never
// terminates the loop.
func (a *Agent) runLoop(ctx context.Context, name string, interval time.Duration, unit func(context.Context)) error {
	log := observability.LoggerFromContext(ctx).With("loop", name)
	log.Info("loop started")

	for {
		a.safeCycle(ctx, name, unit)

		select {
		case <-ctx.Done():
			log.Info("loop stopped")
			return nil
		case <-time.After(interval):
		}
	}
}

func (a *Agent) safeCycle(ctx context.Context, name string, unit func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			observability.LoggerFromContext(ctx).Error("panic in loop cycle", "loop", name, "panic", r)
		}
	}()
	unit(ctx)
}

// generate produces in-character text for a task prompt. The generator stack
// is fail-soft, so errors come back as the apology line, not as failures.
func (a *Agent) generate(ctx context.Context, task string, maxTokens int) string {
	text, err := a.generator.Generate(ctx, task, maxTokens)
	if err != nil {
		// Only reachable with a non-fail-soft generator wired in tests.
		observability.LoggerFromContext(ctx).Error("generator error", "error", err)
		return ""
	}
	return text
}

func (a *Agent) pause(ctx context.Context) {
	select {
	case <-time.After(a.itemDelay):
	case <-ctx.Done():
	}
}
