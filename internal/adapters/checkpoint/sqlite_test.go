package checkpoint

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/chirp/internal/domain"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "chirp.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	want := domain.Checkpoint{
		MentionCursor:  "300",
		DMCursor:       "400",
		DailyPostCount: 7,
		WindowStart:    time.Now().UTC().Truncate(time.Second),
	}
	if err := s.Save(ctx, "sage", want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "sage")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.MentionCursor != want.MentionCursor || got.DMCursor != want.DMCursor ||
		got.DailyPostCount != want.DailyPostCount {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
	if !got.WindowStart.Equal(want.WindowStart) {
		t.Fatalf("WindowStart = %v, want %v", got.WindowStart, want.WindowStart)
	}
}

func TestSQLiteStoreUpsert(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	start := time.Now().UTC()

	if err := s.Save(ctx, "sage", domain.Checkpoint{MentionCursor: "1", WindowStart: start}); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := s.Save(ctx, "sage", domain.Checkpoint{MentionCursor: "2", DailyPostCount: 1, WindowStart: start}); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := s.Load(ctx, "sage")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.MentionCursor != "2" || got.DailyPostCount != 1 {
		t.Fatalf("Load = %+v, want the updated row", got)
	}
}

func TestSQLiteStoreUnknownAgentIsZero(t *testing.T) {
	s := newTestSQLiteStore(t)

	got, err := s.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.MentionCursor != "" || got.DailyPostCount != 0 || !got.WindowStart.IsZero() {
		t.Fatalf("unknown agent = %+v, want zero checkpoint", got)
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chirp.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := first.Save(ctx, "sage", domain.Checkpoint{MentionCursor: "99", WindowStart: time.Now().UTC()}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first.Close()

	second, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	got, err := second.Load(ctx, "sage")
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if got.MentionCursor != "99" {
		t.Fatalf("cursor after reopen = %q, want 99", got.MentionCursor)
	}
}
