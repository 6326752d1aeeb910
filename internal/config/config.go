package config

import (
	"os"
	"strconv"
)

// GeneratorBackend selects how content is produced.
type GeneratorBackend string

const (
	GeneratorHyperbolic GeneratorBackend = "hyperbolic"
	GeneratorVertex     GeneratorBackend = "vertex"
	GeneratorMock       GeneratorBackend = "mock"
)

// CheckpointBackend selects where cursors and the daily quota live.
type CheckpointBackend string

const (
	CheckpointMemory    CheckpointBackend = "memory"
	CheckpointSQLite    CheckpointBackend = "sqlite"
	CheckpointFirestore CheckpointBackend = "firestore"
)

type Config struct {
	// Twitter credentials. OAuth 1.0a keys drive the v1.1 client, the bearer
	// token drives the v2 client. At least one full set must be present.
	TwitterAPIKey       string
	TwitterAPISecret    string
	TwitterAccessToken  string
	TwitterAccessSecret string
	TwitterBearerToken  string

	// Hyperbolic GPU marketplace.
	HyperbolicAPIKey   string
	HyperbolicModel    string
	HyperbolicBaseURL  string
	HyperbolicMaxPrice float64

	// Vertex backend (optional alternative to Hyperbolic).
	GCPProjectID string
	GCPLocation  string
	VertexModel  string

	Generator  GeneratorBackend
	Checkpoint CheckpointBackend

	// SQLite checkpoint database path.
	CheckpointPath string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Load reads all env vars and builds the config. Flag values may override
// Generator and Checkpoint afterwards.
func Load() *Config {
	return &Config{
		TwitterAPIKey:       getEnv("TWITTER_API_KEY", ""),
		TwitterAPISecret:    getEnv("TWITTER_API_SECRET", ""),
		TwitterAccessToken:  getEnv("TWITTER_ACCESS_TOKEN", ""),
		TwitterAccessSecret: getEnv("TWITTER_ACCESS_SECRET", ""),
		TwitterBearerToken:  getEnv("TWITTER_BEARER_TOKEN", ""),

		HyperbolicAPIKey:   getEnv("HYPERBOLIC_API_KEY", ""),
		HyperbolicModel:    getEnv("HYPERBOLIC_MODEL", ""),
		HyperbolicBaseURL:  getEnv("HYPERBOLIC_BASE_URL", "https://api.hyperbolic.xyz"),
		HyperbolicMaxPrice: getEnvFloat("HYPERBOLIC_MAX_PRICE", 10),

		GCPProjectID: getEnv("CHIRP_GCP_PROJECT", ""),
		GCPLocation:  getEnv("CHIRP_GCP_LOCATION", "us-central1"),
		VertexModel:  getEnv("CHIRP_VERTEX_MODEL", "gemini-2.5-flash"),

		Generator:  GeneratorBackend(getEnv("CHIRP_GENERATOR_BACKEND", string(GeneratorHyperbolic))),
		Checkpoint: CheckpointBackend(getEnv("CHIRP_CHECKPOINT_BACKEND", string(CheckpointMemory))),

		CheckpointPath: getEnv("CHIRP_CHECKPOINT_PATH", "chirp.db"),
	}
}

// HasOAuth1 reports whether the full OAuth 1.0a credential set is present.
func (c *Config) HasOAuth1() bool {
	return c.TwitterAPIKey != "" && c.TwitterAPISecret != "" &&
		c.TwitterAccessToken != "" && c.TwitterAccessSecret != ""
}
