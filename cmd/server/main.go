package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/rentmate/internal/api"
	"github.com/mmynk/rentmate/internal/config"
	"github.com/mmynk/rentmate/internal/middleware"
	"github.com/mmynk/rentmate/internal/service"
	"github.com/mmynk/rentmate/internal/session"
	"github.com/mmynk/rentmate/internal/storage"
	"github.com/mmynk/rentmate/internal/storage/memory"
	"github.com/mmynk/rentmate/internal/storage/sqlite"
	"github.com/mmynk/rentmate/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := newStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.Database.Backend, "path", cfg.Database.Path)

	ctx := context.Background()
	tokens := session.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	gate := session.NewGate(ctx, store, tokens)
	svc := service.NewRentService(ctx, store, service.Options{
		HistoryLimit:       cfg.Rent.HistoryLimit,
		AllowNegativeBills: cfg.Rent.AllowNegativeBills,
	})

	mux := http.NewServeMux()
	mux.Handle("/", api.NewServer(svc, gate, tokens).Handler())
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.Logging(middleware.Metrics(corsMiddleware(mux)))

	// h2c allows HTTP/2 without TLS for local and reverse-proxied setups.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Database.Backend {
	case "memory":
		return memory.New(), nil
	default:
		return sqlite.New(cfg.Database.Path)
	}
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
