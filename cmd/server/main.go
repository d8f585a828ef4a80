package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cogassess/internal/config"
	"cogassess/internal/database"
	"cogassess/internal/handlers"
	"cogassess/internal/repository"
	"cogassess/internal/security"
	"cogassess/internal/service"
	"cogassess/migrations"

	"github.com/robfig/cron/v3"
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
	if err := db.RunMigrations(migrationsFS(cfg.MigrationsPath)); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	// Initialize services
	tokens := security.NewTokenIssuer(cfg.SecretKey)
	authService := service.NewAuthService(userRepo, sessionRepo, assessmentRepo, tokens, cfg.SessionDuration)
	assessmentService := service.NewAssessmentService(sessionRepo, assessmentRepo)

	emailService, err := service.NewEmailService(context.Background(), cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.Debug)
	if err != nil {
		log.Printf("Warning: email notifications disabled: %v", err)
		emailService = nil
	}
	feedbackService := newFeedbackService(feedbackRepo, emailService, cfg.FeedbackNotifyEmail)

	// Seed the question bank
	if cfg.QuestionsSeedPath != "" {
		n, err := assessmentService.SeedQuestionsFile(cfg.QuestionsSeedPath)
		if err != nil {
			log.Printf("Warning: Failed to seed questions: %v", err)
		} else {
			log.Printf("Seeded %d questions from %s", n, cfg.QuestionsSeedPath)
		}
	}

	// Initialize handlers
	rateLimiter := security.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	middleware := handlers.NewMiddleware(rateLimiter, cfg.TrustProxy)
	authHandler := handlers.NewAuthHandler(authService)
	assessmentHandler := handlers.NewAssessmentHandler(assessmentService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	handler := handlers.NewRouter(authHandler, assessmentHandler, feedbackHandler, middleware)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background cleanup jobs
	scheduler := startCleanupJobs(authService, rateLimiter)
	defer scheduler.Stop()

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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

// migrationsFS prefers an on-disk migrations directory and falls back to
// the schema compiled into the binary
func migrationsFS(path string) fs.FS {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return os.DirFS(path)
	}
	return migrations.FS
}

// newFeedbackService keeps a nil *EmailService out of the notifier interface
func newFeedbackService(repo *repository.FeedbackRepository, email *service.EmailService, notifyEmail string) *service.FeedbackService {
	if email == nil {
		return service.NewFeedbackService(repo, nil, notifyEmail)
	}
	return service.NewFeedbackService(repo, email, notifyEmail)
}

// startCleanupJobs schedules hourly removal of expired sessions and idle
// rate limiter entries
func startCleanupJobs(authService *service.AuthService, rateLimiter *security.RateLimiter) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		n, err := authService.CleanupExpiredSessions()
		if err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
			return
		}
		log.Printf("Expired sessions cleaned up: %d", n)
	})
	if err != nil {
		log.Fatalf("Failed to schedule session cleanup: %v", err)
	}

	_, err = c.AddFunc("@every 10m", func() {
		if n := rateLimiter.Cleanup(); n > 0 {
			log.Printf("Rate limiter dropped %d idle clients", n)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule rate limiter cleanup: %v", err)
	}

	c.Start()
	return c
}
