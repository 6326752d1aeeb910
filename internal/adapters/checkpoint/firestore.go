package checkpoint

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/example/chirp/internal/domain"
)

// FirestoreStore keeps one checkpoint document per agent.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a Firestore-backed checkpoint store.
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore checkpoint store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &FirestoreStore{client: client}, nil
}

type checkpointDoc struct {
	MentionCursor  string    `firestore:"mention_cursor"`
	DMCursor       string    `firestore:"dm_cursor"`
	DailyPostCount int       `firestore:"daily_post_count"`
	WindowStart    time.Time `firestore:"window_start"`
}

func (s *FirestoreStore) doc(agent string) *firestore.DocumentRef {
	return s.client.Collection("checkpoints").Doc(agent)
}

func (s *FirestoreStore) Load(ctx context.Context, agent string) (domain.Checkpoint, error) {
	snap, err := s.doc(agent).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.Checkpoint{}, nil
	}
	if err != nil {
		return domain.Checkpoint{}, fmt.Errorf("firestore load checkpoint: %w", err)
	}

	var doc checkpointDoc
	if err := snap.DataTo(&doc); err != nil {
		return domain.Checkpoint{}, fmt.Errorf("firestore decode checkpoint: %w", err)
	}

	return domain.Checkpoint{
		MentionCursor:  domain.TweetID(doc.MentionCursor),
		DMCursor:       domain.MessageID(doc.DMCursor),
		DailyPostCount: doc.DailyPostCount,
		WindowStart:    doc.WindowStart,
	}, nil
}

func (s *FirestoreStore) Save(ctx context.Context, agent string, cp domain.Checkpoint) error {
	doc := checkpointDoc{
		MentionCursor:  string(cp.MentionCursor),
		DMCursor:       string(cp.DMCursor),
		DailyPostCount: cp.DailyPostCount,
		WindowStart:    cp.WindowStart,
	}

	if _, err := s.doc(agent).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore save checkpoint: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
