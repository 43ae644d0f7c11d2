package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realvsai/internal/cache"
	"realvsai/internal/config"
	"realvsai/internal/database"
	"realvsai/internal/handlers"
	"realvsai/internal/repository"
	"realvsai/internal/security"
	"realvsai/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Optional redis-backed leaderboard cache
	var leaderboardCache service.LeaderboardCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewLeaderboard(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Printf("Warning: leaderboard cache disabled: %v", err)
		} else {
			defer redisCache.Close()
			leaderboardCache = redisCache
			log.Printf("Leaderboard cache connected (%s)", cfg.RedisAddr)
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	imageRepo := repository.NewImageRepository(db)
	multiplayerRepo := repository.NewMultiplayerRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)

	// Initialize security primitives
	signer := security.NewScoreSigner(cfg.ScoreHashSecret, cfg.ScoreHashWindow)
	tokens := security.NewTokenManager(cfg.TokenSecret, cfg.TokenDuration)
	limiter := security.NewRateLimiter(20, time.Minute)

	// Initialize services
	locks := service.NewSessionLocks()
	achievementSink := service.NewAsyncSink(achievementRepo)
	defer achievementSink.Close()

	imageService := service.NewImageService(imageRepo)
	gameService := service.NewGameService(sessionRepo, imageService, signer, achievementSink, locks)
	bonusService := service.NewBonusService(sessionRepo, imageService, locks)
	multiplayerService := service.NewMultiplayerService(multiplayerRepo, imageService, achievementSink, locks, cfg.MultiplayerWaitLimit, cfg.MultiplayerFinishWait)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo, leaderboardCache, signer)

	// Initialize handlers
	middleware := handlers.NewMiddleware(tokens, limiter)
	authHandler := handlers.NewAuthHandler(userRepo, tokens)
	gameHandler := handlers.NewGameHandler(gameService, bonusService)
	multiplayerHandler := handlers.NewMultiplayerHandler(multiplayerService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))

	// Single-player game routes
	mux.HandleFunc("POST /api/game/start", middleware.CurrentUser(gameHandler.StartGame))
	mux.HandleFunc("GET /api/game/current", middleware.RequireUser(gameHandler.Current))
	mux.HandleFunc("POST /api/game/next-turn", middleware.CurrentUser(gameHandler.NextTurn))
	mux.HandleFunc("POST /api/game/answer", middleware.CurrentUser(gameHandler.Answer))
	mux.HandleFunc("POST /api/game/advance", middleware.CurrentUser(gameHandler.AdvanceTurn))
	mux.HandleFunc("POST /api/game/bonus/images", middleware.CurrentUser(gameHandler.BonusImages))
	mux.HandleFunc("POST /api/game/bonus/result", middleware.CurrentUser(gameHandler.BonusResult))

	// Multiplayer routes
	mux.HandleFunc("POST /api/multiplayer/create", middleware.CurrentUser(multiplayerHandler.Create))
	mux.HandleFunc("POST /api/multiplayer/join", middleware.CurrentUser(multiplayerHandler.Join))
	mux.HandleFunc("POST /api/multiplayer/images", middleware.CurrentUser(multiplayerHandler.TurnImages))
	mux.HandleFunc("POST /api/multiplayer/answer", middleware.CurrentUser(multiplayerHandler.Answer))
	mux.HandleFunc("POST /api/multiplayer/next-turn", middleware.CurrentUser(multiplayerHandler.NextTurn))
	mux.HandleFunc("POST /api/multiplayer/bonus/images", middleware.CurrentUser(multiplayerHandler.BonusImages))
	mux.HandleFunc("POST /api/multiplayer/bonus/result", middleware.CurrentUser(multiplayerHandler.BonusResult))
	mux.HandleFunc("POST /api/multiplayer/chest", middleware.CurrentUser(multiplayerHandler.Chest))
	mux.HandleFunc("POST /api/multiplayer/finish", middleware.CurrentUser(multiplayerHandler.Finish))
	mux.HandleFunc("POST /api/multiplayer/result", middleware.CurrentUser(multiplayerHandler.Result))

	// Leaderboard routes
	mux.HandleFunc("POST /api/scores", middleware.CurrentUser(middleware.RateLimit(leaderboardHandler.SubmitScore)))
	mux.HandleFunc("GET /api/leaderboard", leaderboardHandler.Top)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the bot-fill sweep for stale waiting multiplayer sessions
	sweepDone := make(chan struct{})
	go sweepWaitingSessions(multiplayerService, sweepDone)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	close(sweepDone)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// sweepWaitingSessions periodically bot-fills multiplayer sessions stuck in
// WAITING past the configured timeout
func sweepWaitingSessions(multiplayer *service.MultiplayerService, done <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			started, err := multiplayer.SweepWaiting(time.Now())
			if err != nil {
				log.Printf("Error sweeping waiting sessions: %v", err)
				continue
			}
			if started > 0 {
				log.Printf("Bot-filled %d waiting multiplayer sessions", started)
			}
		}
	}
}
