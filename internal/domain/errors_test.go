package domain

import (
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	forbidden := &APIError{Kind: KindForbidden, Op: "v1.fetch_dms", Message: "nope"}

	if got := KindOf(forbidden); got != KindForbidden {
		t.Fatalf("KindOf = %s, want forbidden", got)
	}
	if got := KindOf(fmt.Errorf("wrapped: %w", forbidden)); got != KindForbidden {
		t.Fatalf("KindOf through wrapping = %s, want forbidden", got)
	}
	if got := KindOf(fmt.Errorf("plain error")); got != KindTransport {
		t.Fatalf("KindOf of a plain error = %s, want transport", got)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Kind: KindUnauthorized, Op: "v2.me", Message: "bad token"}
	want := "v2.me: bad token (unauthorized)"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestValidEngageAction(t *testing.T) {
	for _, ok := range []string{"reply", "retweet", "like", "all"} {
		if !ValidEngageAction(ok) {
			t.Fatalf("ValidEngageAction(%q) = false", ok)
		}
	}
	for _, bad := range []string{"", "follow", "REPLY", "everything"} {
		if ValidEngageAction(bad) {
			t.Fatalf("ValidEngageAction(%q) = true", bad)
		}
	}
}
