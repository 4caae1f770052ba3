package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"todo-ai-backend/internal/ai"
	"todo-ai-backend/internal/analysis"
	"todo-ai-backend/internal/analytics"
	"todo-ai-backend/internal/auth"
	"todo-ai-backend/internal/clock"
	"todo-ai-backend/internal/parse"
	"todo-ai-backend/internal/server"
	"todo-ai-backend/internal/todos"
)

const authTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, l, database, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		if cfg.OpenAIKey == "" {
			l.Warn().Msg("OPENAI_API_KEY is not set; /parse and /analyze will fail")
		}

		clk := clock.New(cfg.TZOffsetHours)
		completer := ai.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.OpenAITimeout)
		events := analytics.NewRecorder(database)
		store := todos.NewPGStore(database)

		handler := server.New(server.Deps{
			Logger:      l,
			DB:          database,
			Auth:        auth.New([]byte(cfg.AuthJWTSecret)),
			Session:     auth.NewHandler(auth.NewGoTrueClient(cfg.AuthURL, cfg.AuthPublicKey, authTimeout), events, cfg.CookieSecure),
			Parse:       parse.NewHandler(parse.NewService(completer, clk), events),
			Analyze:     analysis.NewHandler(analysis.NewService(completer, clk), store, events),
			Todos:       todos.NewHandler(store, clk, events),
			Events:      events,
			CORSOrigins: cfg.CORSOrigins,
			WebDir:      cfg.WebDir,
		})

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			l.Info().Str("addr", cfg.HTTPAddr).Str("model", completer.Model).Msg("API server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		l.Info().Msg("API server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
