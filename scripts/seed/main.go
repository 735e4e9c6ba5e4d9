// Seeds the database with sample puppies and three weeks of care events.
// Usage: go run scripts/seed/main.go
package main

import (
	"fmt"
	"log"

	"github.com/blaisecz/puppy-tracker/internal/config"
	"github.com/blaisecz/puppy-tracker/internal/logging"
	"github.com/blaisecz/puppy-tracker/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := config.NewDatabase(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, logger); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	fmt.Println("\nSample puppy IDs for testing:")
	for _, p := range seed.Puppies {
		fmt.Printf("  %s (%s, %s)\n", p.ID, p.Name, p.Timezone)
	}
}
