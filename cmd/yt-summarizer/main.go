package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/AstaRoggers/yt-summarizer/internal/digest"
	"github.com/AstaRoggers/yt-summarizer/internal/failures"
	"github.com/AstaRoggers/yt-summarizer/internal/ratelimit"
	"github.com/AstaRoggers/yt-summarizer/internal/search"
	"github.com/AstaRoggers/yt-summarizer/internal/server"
	"github.com/AstaRoggers/yt-summarizer/internal/store"
	"github.com/AstaRoggers/yt-summarizer/internal/summarize"
	"github.com/AstaRoggers/yt-summarizer/internal/tube"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO]: no .env file loaded: %v", err)
	}

	if os.Getenv("GEMINI_API_KEY") == "" {
		log.Println("[WARN]: GEMINI_API_KEY is not set, summarize requests will fail")
	}

	db, err := sql.Open("sqlite", envOr("DB_PATH", "yt-summarizer.db"))
	if err != nil {
		log.Fatalf("[ERROR]: opening database: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		log.Fatalf("[ERROR]: migrating database: %v", err)
	}

	queries := store.New(db)

	digest.Queries = queries
	digest.Tube = tube.NewClient()
	digest.Gemini = summarize.NewFromEnv()

	search.Queries = queries
	failures.Queries = queries

	server.Limiter = ratelimit.NewMemory(
		intEnv("RATE_LIMIT", ratelimit.DefaultLimit),
		durEnv("RATE_WINDOW", ratelimit.DefaultWindow),
	)

	if len(os.Args) > 1 && os.Args[1] == "failures" {
		if err := failures.Process(context.Background()); err != nil {
			log.Fatalf("[ERROR]: processing failures: %v", err)
		}

		log.Println("[INFO]: finished failures processing")
		return
	}

	server.Start(envOr("PORT", server.DefaultPort))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("[ERROR]: %s must be an integer, got %q", key, v)
	}
	return n
}

func durEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("[ERROR]: %s must be a duration like 24h, got %q", key, v)
	}
	return d
}
