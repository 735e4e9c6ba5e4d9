package service

import (
	"context"
	"fmt"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/calc"
	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultStatsWindowDays is the default window for gap, streak and pattern statistics.
	DefaultStatsWindowDays = 14
	// MaxStatsWindowDays caps how much history a stats request may load.
	MaxStatsWindowDays = 90

	dateLayout = "2006-01-02"
)

// StatusView is the "right now" view of a puppy.
type StatusView struct {
	PuppyID  uuid.UUID `json:"puppy_id"`
	AsOf     time.Time `json:"as_of"`
	DaysHome int       `json:"days_home"`
	calc.LiveStatus
	NextWalk           *calc.WalkSuggestion `json:"next_walk,omitempty"`
	ActiveCoverageGap  *domain.Event        `json:"active_coverage_gap,omitempty"`
	SleepTodayMinutes  int                  `json:"sleep_today_minutes"`
	NapDurationMinutes int                  `json:"nap_duration_minutes"`
}

// TimelineView is the activity timeline of one calendar day.
type TimelineView struct {
	Date    string               `json:"date"`
	Blocks  []calc.ActivityBlock `json:"blocks"`
	Summary calc.ActivitySummary `json:"summary"`
	Bounds  calc.TimelineBounds  `json:"bounds"`
}

// WalksView lists the walk plan of one calendar day.
type WalksView struct {
	Date      string                `json:"date"`
	Mode      domain.WalkMode       `json:"mode"`
	Next      *calc.WalkSuggestion  `json:"next,omitempty"`
	Remaining []calc.WalkSuggestion `json:"remaining"`
}

// StatsView holds the potty statistics of a window of days.
type StatsView struct {
	WindowDays int       `json:"window_days"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	// Gaps covers every pair of eliminations; DaytimeGaps drops overnight pairs.
	Gaps                *calc.GapStats     `json:"gaps"`
	DaytimeGaps         *calc.GapStats     `json:"daytime_gaps"`
	Streaks             calc.StreakInfo    `json:"streaks"`
	Patterns            []calc.PatternStat `json:"patterns"`
	CoverageGapCount    int                `json:"coverage_gap_count"`
	AverageSleepMinutes int                `json:"average_sleep_minutes"`
}

// CareService runs the care engine over a puppy's stored history.
type CareService interface {
	Status(ctx context.Context, puppyID uuid.UUID) (*StatusView, error)
	// Timeline builds the blocks of date (YYYY-MM-DD, empty for today).
	Timeline(ctx context.Context, puppyID uuid.UUID, date string) (*TimelineView, error)
	// Walks plans the walks of date (YYYY-MM-DD, empty for today).
	Walks(ctx context.Context, puppyID uuid.UUID, date string) (*WalksView, error)
	Stats(ctx context.Context, puppyID uuid.UUID, windowDays int) (*StatsView, error)
}

type careService struct {
	loader snapshotLoader
}

func NewCareService(puppyRepo repository.PuppyRepository, eventRepo repository.EventRepository, clock Clock) CareService {
	return &careService{loader: newSnapshotLoader(puppyRepo, eventRepo, clock)}
}

func (s *careService) Status(ctx context.Context, puppyID uuid.UUID) (*StatusView, error) {
	tracer := otel.Tracer("puppy-tracker-api/care")
	ctx, span := tracer.Start(ctx, "CareService.Status",
		trace.WithAttributes(attribute.String("puppy.id", puppyID.String())),
	)
	defer span.End()

	// Yesterday is needed for overnight sessions and the assumed-sleep check.
	snap, err := s.loader.loadDays(ctx, puppyID, 2)
	if err != nil {
		return nil, err
	}
	view := BuildStatus(snap.puppy, snap.events, snap.gaps, snap.now)
	span.SetAttributes(
		attribute.Int("events.count", len(snap.events)),
		attribute.String("status.combined", string(view.Combined.Kind)),
		attribute.String("status.urgency", string(view.Potty.Urgency.Level)),
	)
	return view, nil
}

func (s *careService) Timeline(ctx context.Context, puppyID uuid.UUID, date string) (*TimelineView, error) {
	tracer := otel.Tracer("puppy-tracker-api/care")
	ctx, span := tracer.Start(ctx, "CareService.Timeline",
		trace.WithAttributes(
			attribute.String("puppy.id", puppyID.String()),
			attribute.String("timeline.date", date),
		),
	)
	defer span.End()

	snap, day, err := s.loadDay(ctx, puppyID, date)
	if err != nil {
		return nil, err
	}

	view := BuildTimeline(snap.events, day, snap.now)
	span.SetAttributes(attribute.Int("timeline.blocks", len(view.Blocks)))
	return view, nil
}

func (s *careService) Walks(ctx context.Context, puppyID uuid.UUID, date string) (*WalksView, error) {
	tracer := otel.Tracer("puppy-tracker-api/care")
	ctx, span := tracer.Start(ctx, "CareService.Walks",
		trace.WithAttributes(
			attribute.String("puppy.id", puppyID.String()),
			attribute.String("walks.date", date),
		),
	)
	defer span.End()

	snap, day, err := s.loadDay(ctx, puppyID, date)
	if err != nil {
		return nil, err
	}
	view := BuildWalks(snap.events, snap.puppy.Walks, day, snap.now)
	span.SetAttributes(
		attribute.String("walks.mode", string(view.Mode)),
		attribute.Int("walks.remaining", len(view.Remaining)),
	)
	return view, nil
}

func (s *careService) Stats(ctx context.Context, puppyID uuid.UUID, windowDays int) (*StatsView, error) {
	if windowDays <= 0 {
		windowDays = DefaultStatsWindowDays
	}
	if windowDays > MaxStatsWindowDays {
		windowDays = MaxStatsWindowDays
	}

	tracer := otel.Tracer("puppy-tracker-api/care")
	ctx, span := tracer.Start(ctx, "CareService.Stats",
		trace.WithAttributes(
			attribute.String("puppy.id", puppyID.String()),
			attribute.Int("window.days", windowDays),
		),
	)
	defer span.End()

	snap, err := s.loader.loadDays(ctx, puppyID, windowDays)
	if err != nil {
		return nil, err
	}

	view := BuildStats(snap.events, snap.gaps, windowDays, snap.now)
	span.SetAttributes(
		attribute.Int("events.count", len(snap.events)),
		attribute.Int("streak.current", view.Streaks.Current),
	)
	return view, nil
}

// loadDay loads date and the day before it. An empty date means today.
func (s *careService) loadDay(ctx context.Context, puppyID uuid.UUID, date string) (*snapshot, time.Time, error) {
	puppy, now, err := s.loader.localNow(ctx, puppyID)
	if err != nil {
		return nil, time.Time{}, err
	}

	day, err := ParseDay(date, now)
	if err != nil {
		return nil, time.Time{}, err
	}

	snap, err := s.loader.load(ctx, puppy, now, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	if err != nil {
		return nil, time.Time{}, err
	}
	return snap, day, nil
}

// ParseDay parses a YYYY-MM-DD date in now's location. An empty date is now's day.
func ParseDay(date string, now time.Time) (time.Time, error) {
	if date == "" {
		return startOfDay(now), nil
	}
	day, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return day, nil
}

// BuildStatus evaluates the live status of puppy at now. events must not
// contain coverage gaps; gaps carries them separately.
func BuildStatus(puppy *domain.Puppy, events, gaps []domain.Event, now time.Time) *StatusView {
	events, gaps = local(events, now), local(gaps, now)
	return &StatusView{
		PuppyID:            puppy.ID,
		AsOf:               now,
		DaysHome:           puppy.DaysHome(now),
		LiveStatus:         calc.EvaluateStatus(events, puppy.Prediction.WithDefaults(), puppy.AssumedSleepDismissedAt, now),
		NextWalk:           calc.CalculateNextSuggestion(events, puppy.Walks, now, now),
		ActiveCoverageGap:  calc.ActiveGap(gaps),
		SleepTodayMinutes:  calc.TotalSleepToday(events, now),
		NapDurationMinutes: calc.DefaultNapDuration(events, now),
	}
}

// BuildTimeline builds the blocks of day. Events before day only feed the
// session that carries over midnight.
func BuildTimeline(events []domain.Event, day, now time.Time) *TimelineView {
	events = local(events, now)
	var previous, current []domain.Event
	for _, e := range events {
		if e.Time.Before(day) {
			previous = append(previous, e)
		} else {
			current = append(current, e)
		}
	}

	blocks := calc.GenerateBlocks(current, day, previous, now)
	if blocks == nil {
		blocks = []calc.ActivityBlock{}
	}
	return &TimelineView{
		Date:    day.Format(dateLayout),
		Blocks:  blocks,
		Summary: calc.GenerateSummary(blocks),
		Bounds:  calc.CalculateTimelineBounds(blocks),
	}
}

func BuildWalks(events []domain.Event, schedule domain.WalkSchedule, day, now time.Time) *WalksView {
	events = local(events, now)
	remaining := calc.CalculateRemainingSuggestions(events, schedule, day, now)
	if remaining == nil {
		remaining = []calc.WalkSuggestion{}
	}
	return &WalksView{
		Date:      day.Format(dateLayout),
		Mode:      schedule.Mode,
		Next:      calc.CalculateNextSuggestion(events, schedule, day, now),
		Remaining: remaining,
	}
}

// BuildStats computes the statistics of the windowDays calendar days ending at now.
func BuildStats(events, gaps []domain.Event, windowDays int, now time.Time) *StatsView {
	events, gaps = local(events, now), local(gaps, now)
	patterns := calc.AnalyzePatterns(events, gaps)
	if patterns == nil {
		patterns = []calc.PatternStat{}
	}
	return &StatsView{
		WindowDays:          windowDays,
		From:                startOfDay(now).AddDate(0, 0, -(windowDays - 1)),
		To:                  now,
		Gaps:                calc.CalculateGapStats(calc.CalculateGaps(events, false, gaps)),
		DaytimeGaps:         calc.CalculateGapStats(calc.CalculateGaps(events, true, gaps)),
		Streaks:             calc.CalculateStreaks(events, gaps),
		Patterns:            patterns,
		CoverageGapCount:    len(gaps),
		AverageSleepMinutes: calc.AverageSleepMinutes(events, now),
	}
}

// local expresses events in now's timezone; the engine reads wall-clock hours
// straight off event times.
func local(events []domain.Event, now time.Time) []domain.Event {
	return domain.InLocation(events, now.Location())
}
