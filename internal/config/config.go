// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port string

	// Corpus locations
	DataDir  string // raw sources under <DataDir>/raw, chunks under <DataDir>/chunks
	AudioDir string // generated answer audio

	// Qdrant connection
	QdrantHost      string
	QdrantPort      int
	CollectionAlias string

	// Models
	EmbeddingModel string
	ChatModel      string
	TTSVoice       string

	// Ingestion
	GroupSize    int // page units per grouped document; 1 suits slide decks
	ChunkSize    int // window size in bytes; Arabic text runs ~2 bytes per letter
	ChunkOverlap int // bytes shared between consecutive windows

	// Retrieval
	TopK     int
	MinScore float64
}

func Load() Config {
	return Config{
		Port: envOr("PORT", "8080"),

		DataDir:  envOr("DATA_DIR", "data"),
		AudioDir: envOr("AUDIO_DIR", "data/audio"),

		QdrantHost:      envOr("QDRANT_HOST", "localhost"),
		QdrantPort:      envInt("QDRANT_PORT", 6334),
		CollectionAlias: envOr("QDRANT_COLLECTION", "lecture_chunks"),

		EmbeddingModel: envOr("EMBEDDING_MODEL", "text-embedding-3-small"),
		ChatModel:      envOr("CHAT_MODEL", "gpt-4o-mini"),
		TTSVoice:       envOr("TTS_VOICE", "alloy"),

		GroupSize:    envInt("GROUP_SIZE", 1),
		ChunkSize:    envInt("CHUNK_SIZE", 600),
		ChunkOverlap: envInt("CHUNK_OVERLAP", 120),

		TopK:     envInt("TOP_K", 3),
		MinScore: envFloat("MIN_SCORE", 0.3),
	}
}

// Validate fails fast on configuration that would only surface mid-build.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.GroupSize < 1 {
		return fmt.Errorf("GROUP_SIZE must be at least 1, got %d", c.GroupSize)
	}
	if c.TopK < 1 {
		return fmt.Errorf("TOP_K must be at least 1, got %d", c.TopK)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("MIN_SCORE must be within [0, 1], got %g", c.MinScore)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
