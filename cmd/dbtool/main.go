package main

import (
	"database/sql"
	"log"
	"os"
	"strings"
	"time"

	"departure-window-service/internal/adapters/cache"
	"departure-window-service/internal/config"
	"departure-window-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// dbtool prepares the shared Postgres cache: it creates the cache tables and
// prunes rows whose TTL has lapsed. Run it before pointing servers at a fresh
// database, or on a schedule to keep the estimate cache small.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := initAndPrune(db); err != nil {
		log.Fatal(err)
	}
}

func initAndPrune(db *sql.DB) error {
	log.Println("Initializing cache schema...")
	if err := cache.InitSchema(db); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if config.Get("SKIP_PRUNE", "") != "" {
		return nil
	}

	log.Println("Pruning expired estimates...")
	pruned, err := cache.PruneExpired(db, time.Now())
	if err != nil {
		log.Fatalf("prune failed: %v", err)
	}
	log.Printf("Pruned %d expired rows.", pruned)

	return nil
}
