package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mindful-chat/internal/api"
	"mindful-chat/internal/api/handlers"
	"mindful-chat/internal/auth"
	"mindful-chat/internal/config"
	"mindful-chat/internal/logger"
	"mindful-chat/internal/repository/postgres"
	chatService "mindful-chat/internal/service/chat"
	"mindful-chat/internal/service/llm"
	moodService "mindful-chat/internal/service/mood"
	"mindful-chat/internal/service/safety"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}

	database, err := postgres.NewPostgresDB(cfg.Database)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close()

	completions := llm.NewOpenAIClient(cfg.LLM)
	filter := safety.NewRegexFilter()
	verifier := auth.NewVerifier(cfg.Identity)

	chat := chatService.NewService(database, completions, filter, cfg.Safety.CrisisMessage)
	moods := moodService.NewService(database)

	router := api.NewRouter(cfg, handlers.New(chat, moods), verifier)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Log.WithField("port", cfg.Server.Port).Info("Mindful Chat API listening")
	if err := runServer(ctx, srv); err != nil {
		logger.Log.WithError(err).Fatal("Server error")
	}
	logger.Log.Info("Server stopped")
}

// runServer serves until the context is cancelled, then drains
// in-flight requests before returning.
func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
