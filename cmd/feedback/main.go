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

	"wardops.org/internal/auth"
	"wardops.org/internal/config"
	"wardops.org/internal/feedback"
	"wardops.org/internal/feedbackapi"
	"wardops.org/internal/obs"
)

var version = "0.3.1"

func main() {
	obs.Init()
	obs.InitBuildInfo("wardops-feedback", version)

	cfg := config.Load()

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

	var store feedback.Store
	if db != nil {
		store = feedback.NewPGStore(db)
	} else {
		log.Println("no WARDOPS_PG_DSN set, using in-memory store")
		store = feedback.NewMemoryStore()
	}
	svc := feedback.NewService(store)

	// This service never reads the user table. Every authorization decision
	// is delegated to the central auth service.
	gate, err := auth.NewRemoteGate(cfg.AuthServiceURL, &http.Client{Timeout: cfg.AuthTimeout})
	if err != nil {
		log.Fatalf("remote gate: %v", err)
	}

	api := feedbackapi.New(svc, gate, feedbackapi.ReadyProbe{DB: db}, version)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting wardops-feedback %s on %s", version, srv.Addr)

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
