package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/chirp/internal/domain"
)

// BuildPrompt wraps the character's identity around a task prompt. Every
// generation request goes through this so the model always speaks in
// character.
func BuildPrompt(ch domain.Character, task string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, %s\n\n", ch.Name, ch.Description)
	if ch.Instructions != "" {
		fmt.Fprintf(&b, "Instructions: %s\n\n", ch.Instructions)
	}
	b.WriteString("Please respond to the following prompt:\n")
	b.WriteString(task)

	return b.String()
}

// CharacterGenerator prepends the character context to every task prompt
// before handing it to the live backend. The mock backend is not wrapped;
// its keyword matching works on the bare task prompt.
type CharacterGenerator struct {
	inner     domain.Generator
	character domain.Character
}

func WithCharacter(inner domain.Generator, character domain.Character) *CharacterGenerator {
	return &CharacterGenerator{inner: inner, character: character}
}

func (c *CharacterGenerator) Generate(ctx context.Context, task string, maxTokens int) (string, error) {
	return c.inner.Generate(ctx, BuildPrompt(c.character, task), maxTokens)
}
