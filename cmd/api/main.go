package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"wardops.org/internal/audit"
	"wardops.org/internal/auth"
	"wardops.org/internal/config"
	"wardops.org/internal/httpapi"
	"wardops.org/internal/obs"
)

var version = "0.3.1"

func main() {
	obs.Init()
	obs.InitBuildInfo("wardops-auth", version)

	cfg := config.Load()
	if cfg.AuthSecret == "" {
		log.Fatal("WARDOPS_AUTH_SECRET is required")
	}

	var db *sql.DB
	if cfg.DatabaseDSN != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// Token revocation backs /logout. Redis when configured, otherwise a
	// process-local list good enough for a single instance.
	var revocations auth.RevocationList
	if cfg.RedisAddr != "" {
		revocations = auth.NewRedisRevocationList(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		revocations = auth.NewMemoryRevocationList()
	}

	tokens, err := auth.NewTokenService(cfg.AuthSecret,
		auth.WithIssuer(cfg.Issuer),
		auth.WithAccessTTL(cfg.AccessTokenTTL),
		auth.WithRefreshTTL(cfg.RefreshTokenTTL),
		auth.WithRevocationList(revocations),
	)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	var users auth.UserStore
	var auditStore audit.Store
	if db != nil {
		users = auth.NewPGUserStore(db)
		auditStore = audit.NewPGStore(db)
	} else {
		log.Println("no WARDOPS_PG_DSN set, using in-memory stores")
		users = auth.NewMemoryStore()
		auditStore = audit.NewMemoryStore()
	}

	recorder := audit.NewRecorder(auditStore)
	svc := auth.NewService(users, tokens, recorder)
	gate := auth.NewLocalGate(svc.Resolver())

	api := httpapi.New(svc, gate, recorder, httpapi.ReadyProbe{DB: db}, version,
		httpapi.WithRateLimit(cfg.RateBurst, cfg.RatePerSec),
		httpapi.WithServiceKey(cfg.ServiceKey))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting wardops-auth %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
