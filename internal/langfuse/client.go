// Package langfuse records caregiver ratings of care digests as Langfuse scores.
// Scores are sent with the HTTP ingestion API and attach to the OpenTelemetry
// trace id returned with each digest. Without credentials the client is a no-op.
package langfuse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const asyncTimeout = 5 * time.Second

// DigestRatingScore is the score name used for caregiver ratings.
const DigestRatingScore = "digest_rating"

// Client attaches scores to traces.
type Client interface {
	IsEnabled() bool
	// CreateScore queues a score; delivery happens in the background.
	CreateScore(ctx context.Context, in ScoreInput) error
}

// ScoreInput contains the data for creating a score.
type ScoreInput struct {
	TraceID string
	Name    string
	Value   float64
	Comment string
}

// Config holds Langfuse client configuration.
type Config struct {
	BaseURL     string
	PublicKey   string
	SecretKey   string
	Environment string
}

type client struct {
	cfg        Config
	enabled    bool
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient returns a disabled client when any of the base URL or keys is empty.
func NewClient(cfg Config, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	enabled := cfg.BaseURL != "" && cfg.PublicKey != "" && cfg.SecretKey != ""
	if enabled {
		logger.Info("langfuse feedback enabled", zap.String("base_url", cfg.BaseURL), zap.String("env", cfg.Environment))
	} else {
		logger.Info("langfuse feedback disabled")
	}

	return &client{
		cfg:        cfg,
		enabled:    enabled,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (c *client) IsEnabled() bool {
	return c.enabled
}

func (c *client) CreateScore(ctx context.Context, in ScoreInput) error {
	if !c.enabled {
		return nil
	}
	if in.TraceID == "" {
		return fmt.Errorf("langfuse: trace id is required")
	}

	event := ingestionEvent{
		ID:        uuid.New().String(),
		Type:      "score-create",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Body: scoreBody{
			ID:          uuid.New().String(),
			TraceID:     in.TraceID,
			Name:        in.Name,
			Value:       in.Value,
			Comment:     in.Comment,
			Environment: c.cfg.Environment,
		},
	}

	go c.sendAsync(event)
	return nil
}

func (c *client) sendAsync(event ingestionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
	defer cancel()

	if err := c.send(ctx, event); err != nil {
		c.logger.Warn("langfuse score send failed", zap.Error(err))
	}
}

func (c *client) send(ctx context.Context, event ingestionEvent) error {
	body, err := json.Marshal(batchPayload{Batch: []ingestionEvent{event}})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/public/ingestion", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.PublicKey, c.cfg.SecretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("ingestion failed with status %d", resp.StatusCode)
	}
	return nil
}

type batchPayload struct {
	Batch []ingestionEvent `json:"batch"`
}

type ingestionEvent struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Body      any    `json:"body"`
}

type scoreBody struct {
	ID          string  `json:"id"`
	TraceID     string  `json:"traceId"`
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Comment     string  `json:"comment,omitempty"`
	Environment string  `json:"environment,omitempty"`
}
