package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/college-chatbot/internal/chat"
	"github.com/msomdec/college-chatbot/internal/config"
	"github.com/msomdec/college-chatbot/internal/handler"
	"github.com/msomdec/college-chatbot/internal/repository/sqlite"
	"github.com/msomdec/college-chatbot/internal/service"
	"golang.org/x/sync/errgroup"
)

const (
	studyGreeting  = "Hello! I'm your student assistant. How can I help you with your studies today?"
	demoGreeting   = "👋 Hello! I'm EchoBot. I can communicate in any language. Try asking me something in English, Spanish, French, Hindi, or any other language!"
	remoteGreeting = "Hello! Ask me anything about your college."

	sweepInterval = time.Minute
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	cfg, err := config.Load("")
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	flows := service.NewFlowStore()
	authService := service.NewAuthService(db.Users(), db.Sessions(), cfg.JWTSecret).
		WithSessionLimits(cfg.SessionTTL, cfg.IdleTimeout).
		WithDelay(cfg.SimulatedDelay)
	signupService := service.NewSignupService(db.Users(), flows, service.LogNotifier{Logger: logger}, cfg.BcryptCost).
		WithOTPTTL(cfg.OTPTTL).
		WithDelay(cfg.SimulatedDelay)

	backend := chat.NewRemoteReplier(cfg.ChatBackendURL, cfg.ChatTimeout)
	limiter := service.NewTokenBucket(0.5, 10)

	app := &handler.App{
		Auth:       authService,
		Signup:     signupService,
		Dashboards: service.NewDashboardCache(db.KV()),
		RemoteChat: service.NewChatService(db.ChatMessages(), backend, remoteGreeting),
		StudyChat: service.NewChatService(db.ChatMessages(), chat.NewCannedReplier(chat.StudyResponses), studyGreeting).
			WithDelay(cfg.SimulatedDelay),
		DemoChat: service.NewChatService(db.ChatMessages(), chat.NewCannedReplier(chat.MultilingualResponses), demoGreeting).
			WithDelay(cfg.SimulatedDelay),
		Backend:      chat.KeywordReplier{},
		DB:           db,
		Limiter:      limiter,
		CookieSecure: cfg.CookieSecure,
		ShowOTP:      cfg.ShowOTP,
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.NewHandler(app),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return flows.Run(ctx, sweepInterval) })
	g.Go(func() error { return authService.Run(ctx, sweepInterval) })
	g.Go(func() error { return limiter.Run(ctx, sweepInterval) })
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
