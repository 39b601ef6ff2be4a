package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/insightloop/bizquery/internal/auth"
	"github.com/insightloop/bizquery/internal/config"
	"github.com/insightloop/bizquery/internal/history"
	"github.com/insightloop/bizquery/internal/intent"
	"github.com/insightloop/bizquery/internal/llm"
	"github.com/insightloop/bizquery/internal/observability"
	"github.com/insightloop/bizquery/internal/processor"
	"github.com/insightloop/bizquery/internal/query"
	"github.com/insightloop/bizquery/internal/store"
)

func main() {
	// Local development convenience; missing .env is fine
	_ = godotenv.Load()

	ctx := context.Background()

	cfg := config.NewDefaultLoader().MustLoad(ctx)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	logger := observability.NewLogger("main")

	completions := llm.NewCircuitBreakerClient(
		llm.NewGroqClient(llm.Config{
			APIKey:  cfg.Groq.APIKey,
			Model:   cfg.Groq.Model,
			BaseURL: cfg.Groq.BaseURL,
			Timeout: cfg.Groq.Timeout,
		}),
		"groq-completions",
		llm.DefaultCircuitBreakerConfig,
	)

	resolver := intent.NewValidator(intent.NewLLMExtractor(completions))

	storeClient := store.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Supabase.Timeout)
	executor := query.NewExecutor(storeClient)

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn(ctx, "Redis unreachable, question history disabled", map[string]interface{}{
				"addr":  cfg.Redis.Addr,
				"error": err.Error(),
			})
			rdb = nil
		}
	}
	journal := history.NewJournal(rdb, cfg.Query.HistorySize)

	qp := processor.NewQueryProcessor(resolver, executor, journal, cfg.Query.DemoMode)

	healthChecker := observability.NewHealthChecker()
	healthChecker.Register("store", observability.StoreHealthCheck(storeClient.Ping))
	healthChecker.Register("completion_service", observability.CompletionHealthCheck(func(context.Context) error {
		if cfg.Groq.APIKey == "" {
			return fmt.Errorf("GROQ_API_KEY not configured")
		}
		return nil
	}))
	if rdb != nil {
		healthChecker.Register("redis", observability.RedisHealthCheck(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}))
	}
	qp.SetHealthChecker(healthChecker)

	var authMW processor.AuthMiddleware
	if mw := auth.NewMiddleware(cfg.Auth.JWTSecret); mw.Enabled() {
		authMW = mw
		logger.Info(ctx, "JWT authentication enabled", nil)
	}

	router := qp.SetupRoutes(authMW)

	logger.Info(ctx, "Starting bizquery service", map[string]interface{}{
		"port":      cfg.Server.Port,
		"demo_mode": cfg.Query.DemoMode,
		"model":     cfg.Groq.Model,
	})

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
