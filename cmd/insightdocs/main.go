// Package main is the InsightDocs server entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/renovalabs/insightdocs/internal/answer"
	"github.com/renovalabs/insightdocs/internal/auth"
	"github.com/renovalabs/insightdocs/internal/chunker"
	"github.com/renovalabs/insightdocs/internal/config"
	"github.com/renovalabs/insightdocs/internal/embedding"
	"github.com/renovalabs/insightdocs/internal/index"
	"github.com/renovalabs/insightdocs/internal/ingest"
	"github.com/renovalabs/insightdocs/internal/server"
	"github.com/renovalabs/insightdocs/internal/session"
	"github.com/renovalabs/insightdocs/internal/vector"
	"github.com/renovalabs/insightdocs/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/insightdocs/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used instead. Returns the config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	configPath := flag.String("config", defaultConfigPath, "config file path")
	debug := flag.Bool("debug", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("insightdocs version %s\n", version)
		return
	}

	// A .env file in the working directory is optional; the API key can
	// come from the process environment directly.
	_ = godotenv.Load()

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	apiKey := os.Getenv(cfg.OpenAI.APIKeyEnv)
	if apiKey == "" {
		logger.Fatal("OpenAI API key not set", zap.String("env", cfg.OpenAI.APIKeyEnv))
	}

	store, err := auth.NewStore(cfg.Auth.DatabasePath, logger)
	if err != nil {
		logger.Fatal("Failed to open credential store", zap.Error(err))
	}
	defer store.Close()
	if err := store.Initialize(context.Background()); err != nil {
		logger.Fatal("Failed to initialize credential store", zap.Error(err))
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.HTTPClient = &http.Client{
		Timeout: time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
	}
	client := openai.NewClientWithConfig(clientCfg)

	embedder := embedding.NewOpenAIEmbedder(client, cfg.OpenAI.EmbeddingModel, cfg.OpenAI.CacheSize, logger)
	vecIdx, err := vector.NewMemoryIndex(embedder.Dimensions())
	if err != nil {
		logger.Fatal("Failed to create vector index", zap.Error(err))
	}
	defer vecIdx.Close()

	builder := index.NewBuilder(
		ingest.NewLoader(logger),
		chunker.NewChunker(cfg.Chunking.Size, cfg.Chunking.Overlap),
		embedder,
		vecIdx,
		logger,
	)
	provider := index.NewProvider(builder, cfg.Documents.Dir)

	// Build the index up front so a broken documents directory fails the
	// process instead of the first question.
	logger.Info("building document index", zap.String("dir", cfg.Documents.Dir))
	if err := provider.Ready(context.Background()); err != nil {
		logger.Fatal("Failed to build document index", zap.Error(err))
	}
	logger.Info("document index ready", zap.Int("chunks", builder.Size()))

	pipeline := answer.NewPipeline(provider, client, cfg.OpenAI.ChatModel, cfg.Retrieval.TopK, logger)
	sessions := session.NewManager()

	srv := server.NewServer(store, pipeline, sessions, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}
