package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/chirp/internal/adapters/checkpoint"
	"github.com/example/chirp/internal/adapters/hyperbolic"
	"github.com/example/chirp/internal/adapters/llm"
	"github.com/example/chirp/internal/adapters/twitter"
	"github.com/example/chirp/internal/app/agent"
	"github.com/example/chirp/internal/config"
	"github.com/example/chirp/internal/domain"
	"github.com/example/chirp/internal/observability"
)

type flags struct {
	character string
	testMode  bool

	postTweet    string
	replyTo      string
	replyContent string
	sendDM       string
	dmContent    string
	search       string
	engage       string

	tweetInterval   int
	mentionInterval int
	dmInterval      int
	maxDailyTweets  int

	checkpointBackend string
}

func rootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "chirp",
		Short: "Autonomous X agent running on rented GPU compute",
		Long: `chirp posts, replies to mentions and answers DMs as a configured
character. Without a one-shot action flag it runs autonomously until
interrupted.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVar(&f.character, "character", "character.json", "path to the character configuration file (json or yaml)")
	cmd.Flags().BoolVar(&f.testMode, "test-mode", false, "use the offline mock generator instead of rented compute")

	cmd.Flags().StringVar(&f.postTweet, "post-tweet", "", "post a single tweet with the given content and exit")
	cmd.Flags().StringVar(&f.replyTo, "reply-to", "", "id of a tweet to reply to (requires --reply-content)")
	cmd.Flags().StringVar(&f.replyContent, "reply-content", "", "content for the reply")
	cmd.Flags().StringVar(&f.sendDM, "send-dm", "", "user id to send a direct message to (requires --dm-content)")
	cmd.Flags().StringVar(&f.dmContent, "dm-content", "", "content for the direct message")
	cmd.Flags().StringVar(&f.search, "search", "", "search query to engage with (requires --engage)")
	cmd.Flags().StringVar(&f.engage, "engage", "", "engagement action for search results: reply, retweet, like or all")

	cmd.Flags().IntVar(&f.tweetInterval, "tweet-interval", 7200, "seconds between scheduled tweets")
	cmd.Flags().IntVar(&f.mentionInterval, "mention-interval", 300, "seconds between mention checks")
	cmd.Flags().IntVar(&f.dmInterval, "dm-interval", 300, "seconds between DM checks")
	cmd.Flags().IntVar(&f.maxDailyTweets, "max-daily-tweets", agent.DefaultMaxDailyPosts, "maximum tweets per rolling day")

	cmd.Flags().StringVar(&f.checkpointBackend, "checkpoint", "", "checkpoint backend: memory, sqlite or firestore (default from env)")

	return cmd
}

func run(ctx context.Context, f *flags) error {
	ctx = observability.WithRunID(ctx)
	log := observability.LoggerFromContext(ctx)

	cfg := config.Load()
	if f.checkpointBackend != "" {
		cfg.Checkpoint = config.CheckpointBackend(f.checkpointBackend)
	}
	if f.testMode {
		cfg.Generator = config.GeneratorMock
	}

	character, err := config.LoadCharacter(f.character)
	if err != nil {
		return err
	}
	log.Info("loaded character configuration", "name", character.Name)

	gateway, err := buildGateway(cfg)
	if err != nil {
		return err
	}

	store, closeStore, err := buildCheckpointStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	generator, compute, err := buildGenerator(ctx, cfg, character)
	if err != nil {
		return err
	}

	tracker := agent.NewTracker(character.Name, store, f.maxDailyTweets)
	if err := tracker.Restore(ctx); err != nil {
		log.Warn("failed to restore checkpoint, starting fresh", "error", err)
	}

	ag := agent.New(character, gateway, generator, tracker, compute)
	defer ag.ReleaseCompute(context.WithoutCancel(ctx))

	switch {
	case f.postTweet != "":
		return reportResult("tweet posted", ag.PostTweet(ctx, f.postTweet))

	case f.replyTo != "" && f.replyContent != "":
		return reportResult("reply posted", ag.ReplyTo(ctx, domain.TweetID(f.replyTo), f.replyContent))

	case f.sendDM != "" && f.dmContent != "":
		return reportResult("direct message sent", ag.SendDM(ctx, domain.UserID(f.sendDM), f.dmContent))

	case f.search != "" && f.engage != "":
		if !domain.ValidEngageAction(f.engage) {
			return fmt.Errorf("invalid engage action %q: want reply, retweet, like or all", f.engage)
		}
		results := ag.SearchAndEngage(ctx, f.search, domain.EngageAction(f.engage), 10)
		color.Green("engaged with %d tweets", len(results))
		return nil

	default:
		return runAutonomous(ctx, ag, f)
	}
}

func runAutonomous(ctx context.Context, ag *agent.Agent, f *flags) error {
	log := observability.LoggerFromContext(ctx)
	log.Info("starting agent in autonomous mode")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ag.Start(ctx, agent.Options{
		PostInterval:    time.Duration(f.tweetInterval) * time.Second,
		MentionInterval: time.Duration(f.mentionInterval) * time.Second,
		DMInterval:      time.Duration(f.dmInterval) * time.Second,
	})

	<-ctx.Done()
	log.Info("interrupt received, stopping agent")
	ag.Stop()
	return nil
}

func buildGateway(cfg *config.Config) (domain.ActionGateway, error) {
	var v1, v2 domain.PlatformClient

	if cfg.HasOAuth1() {
		v1 = twitter.NewV1Client(cfg.TwitterAPIKey, cfg.TwitterAPISecret,
			cfg.TwitterAccessToken, cfg.TwitterAccessSecret)
	}
	if cfg.TwitterBearerToken != "" {
		v2 = twitter.NewV2Client(cfg.TwitterBearerToken)
	}

	if v1 == nil && v2 == nil {
		return nil, fmt.Errorf("no Twitter credentials: set the OAuth 1.0a keys, a bearer token, or both")
	}

	return twitter.NewGateway(v1, v2), nil
}

func buildCheckpointStore(ctx context.Context, cfg *config.Config) (domain.CheckpointStore, func(), error) {
	switch cfg.Checkpoint {
	case config.CheckpointSQLite:
		store, err := checkpoint.NewSQLiteStore(cfg.CheckpointPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil

	case config.CheckpointFirestore:
		store, err := checkpoint.NewFirestoreStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil

	default:
		return checkpoint.NewMemoryStore(), func() {}, nil
	}
}

func buildGenerator(ctx context.Context, cfg *config.Config, character domain.Character) (domain.Generator, domain.ComputeClient, error) {
	log := observability.LoggerFromContext(ctx)

	switch cfg.Generator {
	case config.GeneratorMock:
		log.Info("using mock generator, no compute will be rented")
		return llm.NewFailSoft(llm.NewMockGenerator(character.Name)), nil, nil

	case config.GeneratorVertex:
		gen, err := llm.NewVertexGenerator(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.VertexModel)
		if err != nil {
			return nil, nil, err
		}
		return llm.NewFailSoft(llm.WithCharacter(gen, character)), nil, nil

	default:
		if cfg.HyperbolicAPIKey == "" || cfg.HyperbolicModel == "" {
			return nil, nil, fmt.Errorf("HYPERBOLIC_API_KEY and HYPERBOLIC_MODEL must be set (or use --test-mode)")
		}
		client := hyperbolic.NewClient(cfg.HyperbolicAPIKey, cfg.HyperbolicBaseURL)
		gen := llm.NewHyperbolicGenerator(client, cfg.HyperbolicModel, cfg.HyperbolicMaxPrice)
		return llm.NewFailSoft(llm.WithCharacter(gen, character)), client, nil
	}
}

func reportResult(what string, res domain.ActionResult) error {
	if !res.Success {
		color.Red("failed: %s", res.Error)
		return fmt.Errorf("%s", res.Error)
	}

	switch {
	case res.MessageID != "":
		color.Green("%s: %s", what, res.MessageID)
	case res.TweetID != "":
		color.Green("%s: %s", what, res.TweetID)
	default:
		color.Green("%s", what)
	}
	return nil
}
