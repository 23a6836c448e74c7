package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/emilythestrangee/askseniors/backend/internal/config"
	"github.com/emilythestrangee/askseniors/backend/internal/database"
	"github.com/emilythestrangee/askseniors/backend/internal/logging"
	"github.com/emilythestrangee/askseniors/backend/internal/mail"
	"github.com/emilythestrangee/askseniors/backend/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupMailer(cfg *config.Config) mail.Mailer {
	if !cfg.MailEnabled() {
		slog.Warn("SMTP not configured, activation and reset mails will only be logged")
		return mail.LogMailer{}
	}
	return mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.EmailUsername,
		Password: cfg.EmailPassword,
		From:     cfg.MailFrom,
	})
}

func runGracefulShutdown(srv *http.Server, db database.Service) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := db.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
		close(done)
	}()
	return done
}

func main() {
	cfg := setupConfig()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "db_driver", cfg.DBDriver)

	db, err := database.New(cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(cfg, db, setupMailer(cfg), clockwork.NewRealClock(), logger)
	done := runGracefulShutdown(srv, db)

	slog.Info("Server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Server stopped")
}
