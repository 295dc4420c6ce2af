package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/octank-fsi/dialog-agent/internal/accounts"
	"github.com/octank-fsi/dialog-agent/internal/api"
	"github.com/octank-fsi/dialog-agent/internal/conversation"
	"github.com/octank-fsi/dialog-agent/internal/core"
	"github.com/octank-fsi/dialog-agent/internal/dialog/engine"
	"github.com/octank-fsi/dialog-agent/internal/documents"
	"github.com/octank-fsi/dialog-agent/internal/rag"
	"github.com/octank-fsi/dialog-agent/internal/rag/generate"
	"github.com/octank-fsi/dialog-agent/internal/rag/retrieve"
	logx "github.com/octank-fsi/dialog-agent/pkg/logger"
	pkgmongo "github.com/octank-fsi/dialog-agent/pkg/mongo"
	pkgredis "github.com/octank-fsi/dialog-agent/pkg/redis"
)

// AppConfig defines all configurable parameters for the dialog agent,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	// Infrastructure
	Redis pkgredis.Config
	Mongo pkgmongo.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`
	Model   generate.ModelConfig

	// Dialog agent
	RAG             rag.Config
	Search          retrieve.Config
	Accounts        accounts.Config
	ObjectStore     documents.StoreConfig
	Documents       documents.PipelineConfig
	ConversationTTL string `envconfig:"CONVERSATION_TTL" default:"24h"`
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	env := core.ParseEnvironment(cfg.Environment)
	logx.Init(logx.LoggerOpts{Environment: env})

	ttl, err := time.ParseDuration(cfg.ConversationTTL)
	if err != nil {
		logx.Fatal().Err(err).Str("value", cfg.ConversationTTL).Msg("invalid CONVERSATION_TTL")
	}

	rdb := cfg.Redis.MustNew()
	defer rdb.Close()

	db, err := cfg.Mongo.New(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer db.Client().Disconnect(ctx)

	objectStore, err := documents.NewMinioStore(cfg.ObjectStore)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise object store")
	}

	generator, err := generate.NewClient(ctx, generate.ClientConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise generation client")
	}

	memory := conversation.NewRedisStore(rdb, ttl)
	retriever := retrieve.NewMongoRetriever(db, cfg.Search)
	orchestrator := rag.New(retriever, generator, memory, cfg.RAG)

	accountStore := accounts.NewMongoStore(db, cfg.Accounts)
	pipeline := documents.NewPipeline(objectStore, cfg.Documents)

	dialogEngine := engine.New(accountStore, orchestrator, pipeline)
	router := api.NewRouter(dialogEngine, memory)

	logx.Info().Str("addr", cfg.HTTPAddr).Str("environment", string(env)).Msg("dialog agent listening")
	if err := router.Run(cfg.HTTPAddr); err != nil {
		logx.Fatal().Err(err).Msg("http server stopped")
	}
}
