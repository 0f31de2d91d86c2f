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
	"tutor-agent-backend/config"
	"tutor-agent-backend/dao"
	"tutor-agent-backend/router"
	"tutor-agent-backend/service/mq"
	"tutor-agent-backend/service/profile"
	"tutor-agent-backend/service/stream"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	if err := dao.Init(); err != nil {
		slog.Error("Failed to init database", "err", err)
		os.Exit(1)
	}

	if err := profile.Init(); err != nil {
		slog.Error("Failed to init profile builder", "err", err)
		os.Exit(1)
	}
	profile.BuilderInstance.Run()

	if err := stream.Init(); err != nil {
		slog.Error("Failed to init stream orchestrator", "err", err)
		os.Exit(1)
	}

	if err := mq.Init(); err != nil {
		slog.Error("Failed to init mq", "err", err)
		os.Exit(1)
	}
	if err := mq.Run(); err != nil {
		slog.Error("Failed to start mq", "err", err)
		os.Exit(1)
	}
	defer mq.Shutdown()

	srv := &http.Server{
		Addr:    ":" + config.Cfg.Server.Port,
		Handler: router.Register(),
	}

	go func() {
		slog.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "err", err)
	}
}
