package main

import (
	"context"
	"fmt"
	"judge_web/internal/api"
	"judge_web/internal/api/handler"
	"judge_web/internal/api/view"
	"judge_web/internal/app/service"
	"judge_web/internal/app/worker"
	"judge_web/internal/common/security"
	"judge_web/internal/domain/repository"
	"judge_web/internal/platform/backend"
	"judge_web/internal/platform/cache"
	"judge_web/internal/platform/config"
	"judge_web/internal/platform/database"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// 1. Load Configuration
	config.Load()
	cfg := config.AppConfig
	fmt.Println("Configuration loaded.")

	// 2. Initialize session tokens
	tokens := security.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL, cfg.SessionCookieName, cfg.CookieSecure)
	fmt.Println("Session tokens initialized.")

	// 3. Initialize session store and in-flight locks
	var sessionRepo repository.SessionRepository
	var lockRepo repository.LockRepository
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		rdb, err := cache.Open(context.Background(), cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			log.Fatalf("Could not connect to Redis: %v", err)
		}
		defer rdb.Close()
		sessionRepo = repository.NewRedisSessionRepository(rdb)
		lockRepo = repository.NewRedisLockRepository(rdb)
	case config.SessionStorePostgres:
		db, err := database.Open(context.Background(), cfg.DBConnStr)
		if err != nil {
			log.Fatalf("Could not connect to PostgreSQL: %v", err)
		}
		defer db.Close()
		sessionRepo = repository.NewPgSessionRepository(db)
		lockRepo = repository.NewMemoryLockRepository()
	case config.SessionStoreMemory:
		log.Println("WARN: Sessions are kept in memory and lost on restart")
		sessionRepo = repository.NewMemorySessionRepository()
		lockRepo = repository.NewMemoryLockRepository()
	default:
		log.Fatalf("Unknown SESSION_STORE %q", cfg.SessionStore)
	}
	fmt.Println("Session store ready:", cfg.SessionStore)

	// 4. Initialize backend client
	client, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	if err != nil {
		log.Fatalf("Invalid BACKEND_URL %q: %v", cfg.BackendURL, err)
	}
	fmt.Println("Backend client ready:", client.BaseURL())

	// 5. Initialize Services
	guard := service.NewInFlightGuard(lockRepo, cfg.InFlightLockTTL)
	sessionService := service.NewSessionService(sessionRepo, client, tokens)
	services := api.Services{
		Sessions:   sessionService,
		Tasks:      service.NewTaskService(client, service.TaskLimits{MemoryMin: cfg.MemoryRestrictionMin, MemoryMax: cfg.MemoryRestrictionMax}),
		Submission: service.NewSubmissionService(client, guard),
		Files:      service.NewFileService(client),
		Statistics: service.NewStatisticsService(client),
		Admin:      service.NewAdminService(client),
		Relay:      worker.NewStatusRelay(client),
	}

	// 6. Initialize Views
	views, err := view.NewRenderer(cfg.AlertDismissMs)
	if err != nil {
		log.Fatalf("Could not parse templates: %v", err)
	}

	// 7. Initialize Session Janitor (as a goroutine)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if cfg.SessionStore == config.SessionStorePostgres || cfg.SessionStore == config.SessionStoreMemory {
		janitor := worker.NewSessionJanitor(sessionService, cfg.SessionPurgeEvery)
		go janitor.Start(workerCtx)
		fmt.Println("Session janitor started.")
	}

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(services, api.Options{
		Tokens:         tokens,
		Backend:        client,
		Pages:          handler.NewPages(sessionService, tokens, views),
		UploadMaxBytes: cfg.UploadMaxBytes,
		RequestTimeout: 60 * time.Second,
	})

	// No WriteTimeout: live status streams stay open for the whole grading run.
	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	server.RegisterOnShutdown(services.Relay.Close)

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.AppPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.AppPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and workers stopped gracefully.")
}
