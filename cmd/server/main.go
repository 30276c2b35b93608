package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/rosterbid/auction-engine/internal/auction"
	"github.com/rosterbid/auction-engine/internal/auth"
	"github.com/rosterbid/auction-engine/internal/floor"
	"github.com/rosterbid/auction-engine/internal/metrics"
	"github.com/rosterbid/auction-engine/internal/profile"
	"github.com/rosterbid/auction-engine/internal/seed"
	"github.com/rosterbid/auction-engine/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cleanup []func()
	defer func() {
		for _, fn := range cleanup {
			fn()
		}
	}()

	// --- Snapshot store ---
	var snapshots store.SnapshotStore
	var notifier store.Notifier

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "err", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opt)
		cleanup = append(cleanup, func() { rdb.Close() })

		rs := store.NewRedisSnapshotStore(rdb)
		snapshots = rs
		notifier = rs
		slog.Info("connected to Redis snapshot store")
	} else {
		slog.Warn("REDIS_URL not set, using in-memory snapshot store (no cross-replica sync)")
		snapshots = store.NewMemorySnapshotStore()
	}

	// --- Seed factory ---
	var seedValue uint64
	if s := os.Getenv("SEED"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			slog.Error("invalid SEED", "err", err)
			os.Exit(1)
		}
		seedValue = v
	}
	factory := seed.NewFactory(seedValue)

	// --- Auction engine ---
	engine := auction.NewEngine(ctx, factory, snapshots)

	// DISABLE_TICKER=1 turns this replica into a pure read/write node; some
	// other replica must drive the clock.
	if os.Getenv("DISABLE_TICKER") == "1" {
		slog.Info("floor ticker disabled on this replica")
	} else {
		go engine.RunTicker(ctx)
	}

	if notifier != nil {
		watcher := auction.NewWatcher(engine, notifier)
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				slog.Error("snapshot watcher stopped", "err", err)
			}
		}()
	}

	// --- WebSocket hub + floor service ---
	wsHub := floor.NewWSHub()
	go wsHub.Run()
	floorSvc := floor.NewService(engine, wsHub)

	// --- Profile store ---
	var profiles profile.Store
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			slog.Error("database connection failed", "err", err)
			os.Exit(1)
		}
		cleanup = append(cleanup, pool.Close)
		profiles = profile.NewPostgresStore(pool)
		slog.Info("connected to PostgreSQL profile store")
	} else {
		slog.Warn("DATABASE_URL not set, using in-memory profile store (profiles will not persist)")
		profiles = profile.NewMemoryStore()
	}
	profileSvc := profile.NewService(profiles)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret"
		slog.Warn("JWT_SECRET not set, using insecure dev secret")
	}
	verifier := auth.NewVerifier(jwtSecret)

	// --- HTTP router ---
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metrics.Middleware)

	// CORS middleware for console cross-origin requests.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"auction-engine"}`))
	})

	// Prometheus metrics endpoint.
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		floorSvc.Routes(r)

		// Profile endpoints require a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(verifier.Middleware)
			profileSvc.Routes(r)
		})
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("auction-engine listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down auction-engine...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
	fmt.Println("auction-engine stopped")
}
