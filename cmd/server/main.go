package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JosueZ99/treasure-hunt-app/internal/auth"
	"github.com/JosueZ99/treasure-hunt-app/internal/config"
	"github.com/JosueZ99/treasure-hunt-app/internal/database"
	"github.com/JosueZ99/treasure-hunt-app/internal/handlers"
	"github.com/JosueZ99/treasure-hunt-app/internal/hunt"
	"github.com/JosueZ99/treasure-hunt-app/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	issuer := hunt.NewIssuer(cfg, db, db, db)
	engine := hunt.NewEngine(db, db, db, db)
	dispenser := hunt.NewDispenser(db, db, db)
	aggregator := hunt.NewAggregator(db, db)
	recorder := hunt.NewRecorder(db)

	handler := handlers.NewHandler(cfg, issuer, engine, dispenser, aggregator, recorder)

	router := mux.NewRouter()
	router.Use(middleware.WithLogging)

	router.HandleFunc("/health", handler.HealthHandler).Methods("GET")

	api := router.PathPrefix("/").Subrouter()
	api.Use(auth.Middleware(cfg.JWTSecret))
	api.HandleFunc("/scan-qr/", handler.ScanQRHandler).Methods("POST")
	api.HandleFunc("/get_challenge/{token}/", handler.GetChallengeHandler).Methods("GET")
	api.HandleFunc("/validate_answer/{token}/", handler.ValidateAnswerHandler).Methods("POST")
	api.HandleFunc("/update_user_progress/{token}/", handler.UpdateProgressHandler).Methods("POST")
	api.HandleFunc("/get_next_hint/{token}/", handler.GetNextHintHandler).Methods("GET")
	api.HandleFunc("/leaderboard/", handler.LeaderboardHandler).Methods("GET")
	api.HandleFunc("/user-data/", handler.UserDataHandler).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.APICORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	rateLimiter := rate.NewLimiter(
		rate.Every(time.Duration(cfg.APIRateLimitWindowMins)*time.Minute/time.Duration(cfg.APIRateLimitRequests)),
		cfg.APIRateLimitRequests,
	)

	finalHandler := rateLimitMiddleware(rateLimiter)(c.Handler(router))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      finalHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go startCleanupRoutine(db, cfg)

	slog.Info("treasure hunt server starting",
		"host", cfg.ServerHost,
		"port", cfg.ServerPort,
		"database", fmt.Sprintf("%s:%d/%s", cfg.DBHost, cfg.DBPort, cfg.DBName),
		"token_ttl_minutes", cfg.TokenTTLMinutes,
	)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("server exited")
}

func rateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// startCleanupRoutine periodically deletes access tokens whose TTL elapsed
// long ago. Storage hygiene only: expiry itself is enforced at read time.
func startCleanupRoutine(db *database.DB, cfg *config.Config) {
	ticker := time.NewTicker(time.Duration(cfg.TokenCleanupIntervalMins) * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if err := db.CleanupExpiredTokens(24 * time.Hour); err != nil {
			slog.Error("failed to cleanup expired tokens", "error", err)
		}
	}
}
