package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/resumecast/resume-chat-service/config"
	"github.com/resumecast/resume-chat-service/endpoints"
	"github.com/resumecast/resume-chat-service/internal/analytics"
	"github.com/resumecast/resume-chat-service/internal/grounding"
	"github.com/resumecast/resume-chat-service/internal/llm"
	"github.com/resumecast/resume-chat-service/internal/store"
	"github.com/resumecast/resume-chat-service/middleware"
	"github.com/resumecast/resume-chat-service/utils"
)

const ServiceName = "resume-chat-service"

var (
	version   string
	commit    string
	buildDate string
)

func main() {
	// Handle version/help commands first
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			fmt.Println(utils.VersionString(ServiceName, version, commit, buildDate))
			os.Exit(0)
		case "help", "--help", "-h":
			fmt.Println("Resume Chat Service")
			fmt.Println()
			fmt.Println("Usage:")
			fmt.Println("  resume-chat-service            Start the service")
			fmt.Println("  resume-chat-service version    Display version information")
			fmt.Println()
			fmt.Println("Configuration is read from the environment:")
			fmt.Println("  PORT, LLAMA_SERVER_URL, LLAMA_API_TYPE, MODEL_NAME, OLLAMA_MODEL,")
			fmt.Println("  EMBED_MODEL, OPENAI_API_KEY, DATABASE_URL, REDIS_URL, ADMIN_TOKEN,")
			fmt.Println("  RESUME_SLUG, ALLOWED_ORIGINS, CHAT_RATE_LIMIT")
			os.Exit(0)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to Postgres before starting the HTTP surface.
	log.Println("Connecting to database...")
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected successfully")

	// Redis is optional: without it the chat endpoints run unthrottled.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("FATAL: Invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("WARN: Redis unreachable, rate limiting disabled: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("Redis connected successfully")
		}
	}

	client, err := llm.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	log.Printf("Using %s backend at %s (model %s)", cfg.BackendType, cfg.BackendURL, cfg.Model)

	deps := &endpoints.Dependencies{
		Config:   cfg,
		Loader:   grounding.NewLoader(db),
		History:  db,
		Interest: db,
		Recorder: analytics.NewRecorder(db),
		LLM:      client,
		Embedder: llm.NewEmbedder(cfg.BackendURL, cfg.EmbedModel),
		DB:       db,
		Snapshot: &endpoints.ContextSnapshot{},
	}

	// Preload the diagnostic snapshot; a failure here is not fatal because
	// every chat request resolves its grounding fresh.
	if cfg.DefaultSlug != "" {
		if g, err := deps.Loader.Load(ctx, cfg.DefaultSlug); err != nil {
			log.Printf("WARN: Could not preload resume context for %q: %v", cfg.DefaultSlug, err)
		} else {
			deps.Snapshot.Set(g.PublicText)
			log.Printf("Preloaded resume context for %q (%d chars)", cfg.DefaultSlug, len(g.PublicText))
		}
	}

	limiter := middleware.NewRateLimiter(redisClient, cfg.ChatRateLimit)

	r := mux.NewRouter()
	r.HandleFunc("/health", endpoints.HealthHandler(deps)).Methods(http.MethodGet)
	r.HandleFunc("/api/chat", limiter.Middleware(endpoints.ChatHandler(deps))).Methods(http.MethodPost)
	r.HandleFunc("/api/improve-text", limiter.Middleware(endpoints.ImproveTextHandler(deps))).Methods(http.MethodPost)
	r.HandleFunc("/api/embed", endpoints.EmbedHandler(deps)).Methods(http.MethodPost)
	r.HandleFunc("/api/embed/batch", endpoints.EmbedBatchHandler(deps)).Methods(http.MethodPost)
	r.HandleFunc("/api/interest", endpoints.InterestHandler(deps)).Methods(http.MethodPost)
	r.HandleFunc("/api/resume", endpoints.ResumeHandler(deps)).Methods(http.MethodGet)
	r.HandleFunc("/api/reload-resume", middleware.AdminAuthMiddleware(cfg.AdminToken, endpoints.ReloadResumeHandler(deps))).Methods(http.MethodPost)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: middleware.CORSMiddleware(cfg.AllowedOrigins, r),
		// WriteTimeout exceeds the 60s backend client timeout so slow
		// generations surface as 504s, not severed connections.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		fmt.Printf("Starting %s on :%d\n", ServiceName, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server crashed: %v", err)
		}
	}()

	// Wait for shutdown signal (SIGTERM from systemd or SIGINT from Ctrl+C)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("Shutting down service...")
	cancel()

	// Give the HTTP server 5 seconds to finish current requests
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	log.Println("Service exited cleanly")
}
