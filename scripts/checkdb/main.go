package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"orderdesk/internal/config"
	"orderdesk/internal/database"
)

// checkdb connects with the server's database settings and prints how
// many snapshot rows each kind holds.
func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file to load")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var dbName string
	err = pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to database: %s\n", dbName)

	rows, err := pool.Query(ctx, "SELECT kind, count(*), max(saved_at) FROM snapshot_entities GROUP BY kind ORDER BY kind")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed (has the server saved a snapshot yet?): %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	fmt.Println("\nSnapshot contents:")
	for rows.Next() {
		var (
			kind    string
			count   int64
			savedAt any
		)
		if err := rows.Scan(&kind, &count, &savedAt); err != nil {
			fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  - %-16s %6d  (saved %v)\n", kind, count, savedAt)
	}
	if err := rows.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Rows failed: %v\n", err)
		os.Exit(1)
	}
}
