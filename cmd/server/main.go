package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vocabquest/internal/config"
	"vocabquest/internal/database"
	"vocabquest/internal/handlers"
	"vocabquest/internal/repository"
	"vocabquest/internal/security"
	"vocabquest/internal/service"
	"vocabquest/internal/vocab"
)

const sessionIdleTimeout = 2 * time.Hour

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

	// Initialize repositories
	recordRepo := repository.NewRecordRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	resultRepo := repository.NewResultRepository(db)

	// Initialize services
	vocabService := service.NewVocabService(vocab.NewSource(cfg.VocabSource))
	if err := vocabService.Reload(); err != nil {
		// The widget still serves; sessions show the load error until a
		// reload succeeds
		log.Printf("Warning: initial vocabulary load failed: %v", err)
	} else {
		log.Printf("Vocabulary loaded from %s", cfg.VocabSource)
	}

	recordService := service.NewRecordService(recordRepo)
	sessionService := service.NewSessionService(vocabService, recordService, resultRepo, nil)

	tokens := security.NewTokenManager(cfg.SessionSecret, cfg.SessionDuration)

	// Initialize handlers
	middleware := handlers.NewMiddleware(tokens, cfg.SessionDuration)
	sessionHandler := handlers.NewSessionHandler(sessionService, vocabService)
	quizHandler := handlers.NewQuizHandler(sessionService)
	recordsHandler := handlers.NewRecordsHandler(recordService, resultRepo)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo)

	// Setup routes
	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Widget state and navigation
	mux.HandleFunc("GET /api/state", middleware.WithSession(sessionHandler.State))
	mux.HandleFunc("POST /api/tab", middleware.WithSession(sessionHandler.SwitchTab))
	mux.HandleFunc("POST /api/study/next", middleware.WithSession(sessionHandler.StudyNext))
	mux.HandleFunc("POST /api/study/prev", middleware.WithSession(sessionHandler.StudyPrev))
	mux.HandleFunc("POST /api/restart", middleware.WithSession(sessionHandler.Restart))
	mux.HandleFunc("POST /api/reload", middleware.WithSession(sessionHandler.Reload))

	// Quiz lifecycle
	mux.HandleFunc("POST /api/quiz/start", middleware.WithSession(quizHandler.Start))
	mux.HandleFunc("POST /api/quiz/answer", middleware.WithSession(quizHandler.Answer))
	mux.HandleFunc("POST /api/quiz/hint", middleware.WithSession(quizHandler.Hint))
	mux.HandleFunc("POST /api/quiz/giveup", middleware.WithSession(quizHandler.GiveUp))

	// Records and history
	mux.HandleFunc("GET /api/records", recordsHandler.BestTimes)
	mux.HandleFunc("GET /api/results/recent", recordsHandler.RecentResults)

	// Preferences
	mux.HandleFunc("GET /api/preferences/dark-mode", settingsHandler.GetDarkMode)
	mux.HandleFunc("PUT /api/preferences/dark-mode", settingsHandler.SetDarkMode)

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
	go cleanupIdleSessions(sessionService)

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
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupIdleSessions periodically evicts widget sessions with no recent
// activity
func cleanupIdleSessions(sessions *service.SessionService) {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if removed := sessions.CleanupIdle(sessionIdleTimeout); removed > 0 {
			log.Printf("Evicted %d idle sessions", removed)
		}
	}
}
