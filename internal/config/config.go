// Package config provides configuration loading and structs for the InsightDocs server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Documents DocumentsConfig `yaml:"documents"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Auth      AuthConfig      `yaml:"auth"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DocumentsConfig holds the documents directory settings.
type DocumentsConfig struct {
	// Dir is scanned non-recursively at startup; only direct children with
	// a recognized extension are loaded.
	Dir string `yaml:"dir"`
}

// ChunkingConfig holds the character-window splitter settings.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// RetrievalConfig holds retrieval settings for the answer pipeline.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// OpenAIConfig holds settings for the embeddings and chat completion calls.
// The API key itself is never stored in the config file; it is read from
// the environment variable named by APIKeyEnv.
type OpenAIConfig struct {
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	// TimeoutSecs bounds each external call so a stalled request cannot
	// hold a session forever.
	TimeoutSecs int `yaml:"timeout_secs"`
	CacheSize   int `yaml:"cache_size"`
}

// AuthConfig holds the credential store settings.
type AuthConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Documents.Dir = expandPath(cfg.Documents.Dir, configDir)
	cfg.Auth.DatabasePath = expandPath(cfg.Auth.DatabasePath, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
