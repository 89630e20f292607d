package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/mmynk/warikan/internal/auth"
	"github.com/mmynk/warikan/internal/config"
	"github.com/mmynk/warikan/internal/server"
	"github.com/mmynk/warikan/internal/service"
	"github.com/mmynk/warikan/internal/storage"
	"github.com/mmynk/warikan/internal/storage/sqlite"
	"github.com/mmynk/warikan/pkg/logging"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	pflag.Parse()

	// Log at the environment's level until the config says otherwise.
	logging.Setup()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.Log.Level))

	secret := cfg.Auth.Secret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			slog.Error("Failed to generate token secret", "error", err)
			os.Exit(1)
		}
		slog.Warn("auth.secret not set; using a random secret, tokens will not survive a restart")
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go storage.RunJanitor(ctx, store, cfg.Auth.TokenTTL, cfg.Database.CleanupInterval)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := server.New(server.Deps{
		Store:    store,
		Tokens:   auth.NewTokenManager(secret, cfg.Auth.TokenTTL),
		Registry: registry,
		Options: service.Options{
			CurrencyUnit: cfg.Currency.Unit,
			Seed:         cfg.Random.Seed,
		},
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
