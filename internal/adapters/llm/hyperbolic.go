package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/example/chirp/internal/adapters/hyperbolic"
	"github.com/example/chirp/internal/observability"
)

// HyperbolicGenerator runs prompts on a GPU rented from the Hyperbolic
// marketplace. The GPU is reserved lazily on first use and polled until
// ready; if it never reports ready within the attempt budget, generation
// proceeds anyway with a warning.
type HyperbolicGenerator struct {
	client   *hyperbolic.Client
	modelID  string
	maxPrice float64

	readyAttempts int
	readyInterval time.Duration

	mu       sync.Mutex
	reserved bool
}

func NewHyperbolicGenerator(client *hyperbolic.Client, modelID string, maxPrice float64) *HyperbolicGenerator {
	return &HyperbolicGenerator{
		client:        client,
		modelID:       modelID,
		maxPrice:      maxPrice,
		readyAttempts: 10,
		readyInterval: 5 * time.Second,
	}
}

func (g *HyperbolicGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := g.ensureGPU(ctx); err != nil {
		return "", err
	}

	text, err := g.client.GenerateText(ctx, hyperbolic.GenerateRequest{
		Prompt:      prompt,
		ModelID:     g.modelID,
		MaxTokens:   maxTokens,
		Temperature: 0.7,
		TopP:        0.9,
		TopK:        40,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ensureGPU rents a GPU once and waits for it to come up.
func (g *HyperbolicGenerator) ensureGPU(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.reserved {
		return nil
	}

	log := observability.LoggerFromContext(ctx)

	if _, err := g.client.Rent(ctx, g.modelID, g.maxPrice); err != nil {
		return fmt.Errorf("reserving compute: %w", err)
	}

	status := hyperbolic.StatusPending
	for attempt := 0; attempt < g.readyAttempts; attempt++ {
		st, err := g.client.Status(ctx)
		if err == nil {
			status = st.Status
		}
		if status == hyperbolic.StatusReady {
			log.Info("GPU ready for inference", "gpu_id", g.client.GPUID())
			break
		}

		log.Info("waiting for GPU", "status", status, "attempt", attempt+1)
		select {
		case <-time.After(g.readyInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if status != hyperbolic.StatusReady {
		log.Warn("GPU not ready after polling budget, proceeding anyway",
			"attempts", g.readyAttempts, "status", status)
	}

	g.reserved = true
	return nil
}
