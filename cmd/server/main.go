package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantum-quiz/backend/internal/adaptive"
	"github.com/quantum-quiz/backend/internal/api"
	"github.com/quantum-quiz/backend/internal/config"
	"github.com/quantum-quiz/backend/internal/db"
	"github.com/quantum-quiz/backend/internal/leitner"
	"github.com/quantum-quiz/backend/internal/logger"
	"github.com/quantum-quiz/backend/internal/questionbank"
	"github.com/quantum-quiz/backend/internal/repository"
	"github.com/quantum-quiz/backend/internal/repository/sqlite"
	"github.com/quantum-quiz/backend/internal/services"
	"github.com/quantum-quiz/backend/internal/storage"
	"github.com/quantum-quiz/backend/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Quantum Quiz Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("questions_path=%s", cfg.QuestionsPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("cors_origins=%v", cfg.CORSOrigins)
	log.Debug("persist_worker_count=%d", cfg.PersistWorkers)
	log.Debug("persist_queue_size=%d", cfg.PersistQueue)
	log.Debug("leaderboard_size=%d", cfg.LeaderboardSize)

	bank, err := questionbank.Load(cfg.QuestionsPath)
	if err != nil {
		log.Error("failed to load question bank: %v", err)
		os.Exit(1)
	}
	log.Info("question bank loaded: %d chapters, %d questions", len(bank.Chapters()), len(bank.Questions("")))

	// On database failure the server still starts with in-memory storage so
	// quizzes keep working; state is lost on restart.
	var (
		stateStore storage.Store
		resultRepo repository.ResultRepository
	)
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database, falling back to in-memory storage: %v", err)
		stateStore = storage.NewMemStore()
		resultRepo = repository.NewMemResultRepository()
	} else {
		defer func() {
			log.Debug("closing database connection")
			database.Close()
		}()
		stateStore = sqlite.NewStateStore(database.DB)
		resultRepo = sqlite.NewResultRepository(database.DB)
	}

	ctx, cancel := context.WithCancel(context.Background())

	engine := adaptive.New(ctx, stateStore)
	scheduler := leitner.New(ctx, stateStore)

	persistPool := worker.NewPool(cfg.PersistWorkers, cfg.PersistQueue)
	persistPool.Start(ctx)

	quizService := services.NewQuizService(bank, engine)
	flashcardService := services.NewFlashcardService(bank, scheduler)
	leaderboardService := services.NewLeaderboardService(resultRepo, persistPool)
	statsService := services.NewStatsService(quizService, flashcardService, leaderboardService, cfg.LeaderboardSize)

	srv := &api.Server{
		QuizService:        quizService,
		FlashcardService:   flashcardService,
		LeaderboardService: leaderboardService,
		StatsService:       statsService,
		Bank:               bank,
		CORSOrigins:        cfg.CORSOrigins,
		LeaderboardSize:    cfg.LeaderboardSize,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping persistence pool")
	cancel()
	persistPool.Stop()

	log.Info("===========================================")
	log.Info("Quantum Quiz Server Stopped")
	log.Info("===========================================")
}
