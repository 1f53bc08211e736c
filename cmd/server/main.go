package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/merolabs/meroview-backend/internal/auth"
	"github.com/merolabs/meroview-backend/internal/config"
	"github.com/merolabs/meroview-backend/internal/handler"
	"github.com/merolabs/meroview-backend/internal/logger"
	"github.com/merolabs/meroview-backend/internal/router"
	"github.com/merolabs/meroview-backend/internal/service"
	"github.com/merolabs/meroview-backend/internal/simulation"
	"github.com/merolabs/meroview-backend/internal/store"
	"github.com/merolabs/meroview-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting MeroView Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Simulation RNG ────────────────────────────────────────────────
	// One seed pins the whole deployment's randomness for reproduction.
	// Each consumer gets its own source; a shared *rand.Rand across
	// services would race despite their per-service locks.
	simRng := func(offset int64) *rand.Rand {
		if cfg.SimSeed == 0 {
			return nil // services fall back to time-seeded sources
		}
		return rand.New(rand.NewSource(cfg.SimSeed + offset))
	}
	if cfg.SimSeed != 0 {
		log.Info().Int64("seed", cfg.SimSeed).Msg("Simulation RNG pinned")
	}

	// ─── Initialize Stores ─────────────────────────────────────────────
	examStore := store.NewExamStore()
	studentStore := store.NewStudentStore()
	profileStore := store.NewProfileStore()

	// ─── Initialize Services ───────────────────────────────────────────
	engine := simulation.NewEngine(simRng(0))
	liveService := service.NewLiveService(engine, log)
	examService := service.NewExamService(examStore, simRng(1), log)
	studentService := service.NewStudentService(studentStore, simRng(2), log)
	profileService := service.NewProfileService(profileStore, log)
	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)

	// ─── Initialize Handlers ───────────────────────────────────────────
	handlers := &router.Handlers{
		Live:    handler.NewLiveHandler(liveService),
		Exam:    handler.NewExamHandler(examService),
		Student: handler.NewStudentHandler(studentService),
		Profile: handler.NewProfileHandler(profileService),
		Auth:    handler.NewAuthHandler(authService),
		WS:      handler.NewWSHandler(liveService, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
