package llm

import (
	"context"
	"strings"

	"github.com/example/chirp/internal/domain"
	"github.com/example/chirp/internal/observability"
)

// Apology is what callers see when live generation fails. A single failed
// generation must never take a loop cycle down with it.
const Apology = "I apologize, but I'm having trouble generating content right now. Please try again later."

// FailSoft wraps a Generator so that errors come back as the fixed apology
// string instead of propagating.
type FailSoft struct {
	inner domain.Generator
}

func NewFailSoft(inner domain.Generator) *FailSoft {
	return &FailSoft{inner: inner}
}

func (f *FailSoft) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	text, err := f.inner.Generate(ctx, prompt, maxTokens)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("content generation failed", "error", err)
		return Apology, nil
	}
	return strings.TrimSpace(text), nil
}
