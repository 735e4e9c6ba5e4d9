package service

import (
	"context"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/internal/llm"
	"github.com/blaisecz/puppy-tracker/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DigestWindowDays is the history the care digest looks at.
const DigestWindowDays = 7

// InsightsService generates an LLM care digest.
type InsightsService interface {
	Generate(ctx context.Context, puppyID uuid.UUID) (*domain.InsightsResponse, error)
}

type insightsService struct {
	care      CareService
	puppyRepo repository.PuppyRepository
	llmClient llm.DigestLLM
	logger    *zap.Logger
}

func NewInsightsService(care CareService, puppyRepo repository.PuppyRepository, llmClient llm.DigestLLM, logger *zap.Logger) InsightsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &insightsService{
		care:      care,
		puppyRepo: puppyRepo,
		llmClient: llmClient,
		logger:    logger,
	}
}

func (s *insightsService) Generate(ctx context.Context, puppyID uuid.UUID) (*domain.InsightsResponse, error) {
	tracer := otel.Tracer("puppy-tracker-api/insights")
	ctx, span := tracer.Start(ctx, "InsightsService.Generate",
		trace.WithAttributes(attribute.String("puppy.id", puppyID.String())),
	)
	defer span.End()

	puppy, err := s.puppyRepo.GetByID(ctx, puppyID)
	if err != nil {
		return nil, err
	}
	status, err := s.care.Status(ctx, puppyID)
	if err != nil {
		return nil, err
	}
	stats, err := s.care.Stats(ctx, puppyID, DigestWindowDays)
	if err != nil {
		return nil, err
	}

	digestCtx := buildDigestContext(puppy, status, stats)

	output, err := s.llmClient.GenerateDigest(ctx, digestCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("care digest failed", zap.String("puppy_id", puppyID.String()), zap.Error(err))
		return nil, err
	}

	resp := &domain.InsightsResponse{
		Context: *digestCtx,
		Digest:  *output,
	}
	if sc := span.SpanContext(); sc.HasTraceID() {
		resp.TraceID = sc.TraceID().String()
	}
	return resp, nil
}

func buildDigestContext(puppy *domain.Puppy, status *StatusView, stats *StatsView) *domain.DigestContext {
	digestCtx := &domain.DigestContext{
		PuppyName:           puppy.Name,
		DaysHome:            status.DaysHome,
		AsOf:                status.AsOf,
		WindowDays:          stats.WindowDays,
		CurrentState:        string(status.Combined.Kind),
		PottyUrgency:        string(status.Potty.Urgency.Level),
		MinutesSinceGo:      status.Potty.MinutesSinceLast,
		CurrentStreak:       stats.Streaks.Current,
		BestStreak:          stats.Streaks.Best,
		AverageSleepMinutes: stats.AverageSleepMinutes,
		SleepTodayMinutes:   status.SleepTodayMinutes,
		TargetWalks:         puppy.Walks.TargetWalks(),
		TriggerSuccess:      map[string]int{},
	}
	if status.NextWalk != nil {
		digestCtx.WalksToday = status.NextWalk.WalksCompletedToday
	}

	if g := stats.DaytimeGaps; g != nil {
		digestCtx.GapCount = g.Count
		digestCtx.MedianGapMinutes = g.MedianMinutes
	}
	if g := stats.Gaps; g != nil && g.Count > 0 {
		digestCtx.OutdoorRatePercent = g.OutdoorCount * 100 / g.Count
	}

	for _, p := range stats.Patterns {
		if p.OutdoorCount+p.IndoorCount > 0 {
			digestCtx.TriggerSuccess[string(p.Category)] = p.SuccessRate
		}
	}
	return digestCtx
}
