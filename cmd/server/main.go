package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rakau/internal/audio"
	"rakau/internal/config"
	"rakau/internal/content"
	"rakau/internal/database"
	"rakau/internal/handlers"
	"rakau/internal/repository"
	"rakau/internal/security"
	"rakau/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Load lesson content; refuse to start with defective content
	registry, err := content.Load()
	if err != nil {
		log.Fatalf("Failed to load lesson content: %v", err)
	}
	log.Printf("Loaded %d whiti", len(registry.AllWhiti()))

	// Initialize database (supports sqlite, postgres, mysql)
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

	// Initialize repositories
	learnerRepo := repository.NewLearnerRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// Initialize services
	authService := service.NewAuthService(learnerRepo, cfg.SessionDuration)
	emailService, err := service.NewEmailService(cfg.SESRegion, cfg.SESFromEmail, "Rākau", cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	progressService := service.NewProgressService(progressRepo, registry, emailService)

	// Audio cache
	if err := os.MkdirAll(cfg.AudioDir, 0o755); err != nil {
		log.Fatalf("Failed to create audio directory: %v", err)
	}
	ttsService := audio.NewTTSService(cfg.AudioDir)
	warmAudioCache(ttsService, registry)

	// Security
	if cfg.SessionSecret == "" {
		log.Println("Warning: SESSION_SECRET not set, using a random secret (CSRF tokens reset on restart)")
		cfg.SessionSecret = security.GenerateSessionID()
	}
	csrf := security.NewCSRFGenerator(cfg.SessionSecret)
	authLimiter := security.NewRateLimiter(10, 1*time.Minute)

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, authLimiter, csrf)
	authHandler := handlers.NewAuthHandler(authService, emailService, csrf)
	oauthHandler := handlers.NewOAuthHandler(authService, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.AppBaseURL)
	whitiHandler := handlers.NewWhitiHandler(registry, progressService)
	sessionHandler := handlers.NewSessionHandler(registry, progressService)
	audioHandler := handlers.NewAudioHandler(ttsService)

	// Setup routes
	mux := http.NewServeMux()

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireLearner(authHandler.Me))
	mux.HandleFunc("GET /auth/google/start", middleware.RateLimit(oauthHandler.Start))
	mux.HandleFunc("GET /auth/google/callback", oauthHandler.Callback)

	// Whiti catalogue
	mux.HandleFunc("GET /api/whiti", middleware.RequireLearner(whitiHandler.List))
	mux.HandleFunc("GET /api/whiti/{id}", middleware.RequireLearner(whitiHandler.Detail))

	// Lesson session
	mux.HandleFunc("POST /api/whiti/{id}/session", middleware.RequireLearner(middleware.RequireCSRF(sessionHandler.Start)))
	mux.HandleFunc("GET /api/session", middleware.RequireLearner(sessionHandler.View))
	mux.HandleFunc("POST /api/session/submit", middleware.RequireLearner(middleware.RequireCSRF(sessionHandler.Submit)))
	mux.HandleFunc("POST /api/session/pick", middleware.RequireLearner(middleware.RequireCSRF(sessionHandler.Pick)))
	mux.HandleFunc("POST /api/session/continue", middleware.RequireLearner(middleware.RequireCSRF(sessionHandler.Continue)))
	mux.HandleFunc("POST /api/session/quit", middleware.RequireLearner(middleware.RequireCSRF(sessionHandler.Quit)))

	// Audio clips
	mux.HandleFunc("GET /api/audio/{file}", middleware.RequireLearner(audioHandler.Serve))

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

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// warmAudioCache pre-generates clips for every audio-bearing exercise so
// first playback never waits on the TTS fetch. Failures are non-fatal; the
// clip is retried on demand.
func warmAudioCache(ttsService *audio.TTSService, registry *content.Registry) {
	var phrases []string
	for _, whiti := range registry.AllWhiti() {
		for _, exercise := range whiti.Exercises {
			if exercise.CorrectAnswer != "" {
				phrases = append(phrases, exercise.CorrectAnswer)
			}
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := ttsService.BatchGenerateAudio(ctx, phrases); err != nil {
			log.Printf("Warning: audio cache warmup incomplete: %v", err)
		}
	}()
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
	}
}
