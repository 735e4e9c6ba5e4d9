// Script to test Langfuse connectivity by sending a digest rating score.
// Usage: go run scripts/langfuse-test/main.go [trace-id]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/langfuse"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	cfg := langfuse.Config{
		BaseURL:     getEnv("LANGFUSE_BASE_URL", "http://localhost:3001"),
		PublicKey:   os.Getenv("LANGFUSE_PUBLIC_KEY"),
		SecretKey:   os.Getenv("LANGFUSE_SECRET_KEY"),
		Environment: getEnv("LANGFUSE_ENV", "development"),
	}

	fmt.Println("=== Langfuse Connection Test ===")
	fmt.Printf("Base URL:    %s\n", cfg.BaseURL)
	fmt.Printf("Public Key:  %s\n", maskKey(cfg.PublicKey))
	fmt.Printf("Secret Key:  %s\n", maskKey(cfg.SecretKey))
	fmt.Printf("Environment: %s\n", cfg.Environment)
	fmt.Println()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	client := langfuse.NewClient(cfg, logger)
	if !client.IsEnabled() {
		log.Fatal("Langfuse client is disabled. Check your env vars.")
	}

	traceID := uuid.NewString()
	if len(os.Args) > 1 {
		traceID = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = client.CreateScore(ctx, langfuse.ScoreInput{
		TraceID: traceID,
		Name:    langfuse.DigestRatingScore,
		Value:   5,
		Comment: "langfuse-test script",
	})
	if err != nil {
		log.Fatalf("Failed to queue score: %v", err)
	}

	// Delivery is asynchronous; give it a moment before exiting.
	time.Sleep(3 * time.Second)

	fmt.Println("Test score queued.")
	fmt.Printf("  Trace ID: %s\n", traceID)
	fmt.Printf("  View at:  %s/trace/%s\n", cfg.BaseURL, traceID)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func maskKey(key string) string {
	if len(key) < 8 {
		if key == "" {
			return "(empty)"
		}
		return "***"
	}
	return key[:8] + "..."
}
