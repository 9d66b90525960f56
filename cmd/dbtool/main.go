package main

import (
	"context"
	"flag"
	"log/slog"
	"map-distance-service/internal/adapters/repositories"
	"map-distance-service/internal/platform/db"
	"map-distance-service/internal/platform/logging"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dbtool prepares the Postgres cache tables and optionally purges old rows.
//
//	dbtool                       create tables and indexes
//	dbtool -purge-older-than 72h also delete cache rows older than 72h
func main() {
	purgeOlderThan := flag.Duration("purge-older-than", 0, "delete cache rows older than this (0 keeps everything)")
	flag.Parse()

	logging.Setup("info", "text")

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		slog.Error("open database", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	slog.Info("initializing cache schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		slog.Error("schema initialization failed", "err", err)
		os.Exit(1)
	}
	slog.Info("schema ready")

	if *purgeOlderThan > 0 {
		cutoff := time.Now().UTC().Add(-*purgeOlderThan)
		n, err := repositories.PurgeExpired(ctx, conn, cutoff)
		if err != nil {
			slog.Error("purge failed", "err", err)
			os.Exit(1)
		}
		slog.Info("purge complete", "rows", n, "cutoff", cutoff)
	}
}
