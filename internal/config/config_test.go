package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.ChunkSize != 600 || cfg.ChunkOverlap != 120 {
		t.Errorf("chunking defaults = %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.TopK != 3 || cfg.MinScore != 0.3 {
		t.Errorf("retrieval defaults = %d/%g", cfg.TopK, cfg.MinScore)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "1000")
	t.Setenv("MIN_SCORE", "0.55")
	t.Setenv("QDRANT_PORT", "not a number")

	cfg := Load()
	if cfg.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d", cfg.ChunkSize)
	}
	if cfg.MinScore != 0.55 {
		t.Errorf("MinScore = %g", cfg.MinScore)
	}
	if cfg.QdrantPort != 6334 {
		t.Errorf("unparsable env must keep the default, got %d", cfg.QdrantPort)
	}
}

func TestValidate(t *testing.T) {
	base := Load()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }},
		{"overlap equals chunk size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }},
		{"overlap exceeds chunk size", func(c *Config) { c.ChunkOverlap = c.ChunkSize + 1 }},
		{"zero group size", func(c *Config) { c.GroupSize = 0 }},
		{"zero top k", func(c *Config) { c.TopK = 0 }},
		{"negative min score", func(c *Config) { c.MinScore = -0.1 }},
		{"min score above one", func(c *Config) { c.MinScore = 1.1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if cfg.Validate() == nil {
				t.Error("expected validation error")
			}
		})
	}
}
