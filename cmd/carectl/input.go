package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/api/validation"
	"github.com/blaisecz/puppy-tracker/internal/calc"
	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/internal/service"
	"github.com/blaisecz/puppy-tracker/pkg/problem"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// eventsFile is the on-disk format read by --events.
type eventsFile struct {
	Name                    string                   `yaml:"name"`
	Timezone                string                   `yaml:"timezone"`
	HomeDate                time.Time                `yaml:"home_date"`
	Prediction              *domain.PredictionConfig `yaml:"prediction"`
	Walks                   *domain.WalkSchedule     `yaml:"walk_schedule"`
	AssumedSleepDismissedAt *time.Time               `yaml:"assumed_sleep_dismissed_at"`
	Events                  []fileEvent              `yaml:"events"`
}

type fileEvent struct {
	Time            time.Time        `yaml:"time"`
	Type            domain.EventType `yaml:"type"`
	Location        *domain.Location `yaml:"location"`
	DurationMinutes *int             `yaml:"duration_minutes"`
	WeightKg        *float64         `yaml:"weight_kg"`
	EndTime         *time.Time       `yaml:"end_time"`
	Note            string           `yaml:"note"`
}

// input is a loaded profile plus its history, split the way the engine wants it.
type input struct {
	puppy  domain.Puppy
	events []domain.Event
	gaps   []domain.Event
	now    time.Time
}

func loadInput(eventsPath, schedulePath, nowFlag string) (*input, error) {
	if eventsPath == "" {
		return nil, fmt.Errorf("--events is required")
	}

	var file eventsFile
	if err := readYAML(eventsPath, &file); err != nil {
		return nil, err
	}

	puppy := domain.Puppy{
		ID:                      uuid.New(),
		Name:                    file.Name,
		Timezone:                file.Timezone,
		HomeDate:                file.HomeDate,
		Prediction:              domain.DefaultPredictionConfig(),
		Walks:                   domain.DefaultWalkSchedule(),
		AssumedSleepDismissedAt: file.AssumedSleepDismissedAt,
	}
	if puppy.Timezone != "" {
		if _, err := time.LoadLocation(puppy.Timezone); err != nil {
			return nil, fmt.Errorf("%s: unknown timezone %q", eventsPath, puppy.Timezone)
		}
	}
	if file.Prediction != nil {
		puppy.Prediction = file.Prediction.WithDefaults()
	}
	if file.Walks != nil {
		puppy.Walks = *file.Walks
	}

	if schedulePath != "" {
		var schedule domain.WalkSchedule
		if err := readYAML(schedulePath, &schedule); err != nil {
			return nil, err
		}
		puppy.Walks = schedule
	}
	if errs := validation.Validate(&puppy.Walks); errs != nil {
		return nil, fmt.Errorf("walk schedule: %s", joinFieldErrors("", errs))
	}
	if err := service.ValidateSchedule(puppy.Walks); err != nil {
		return nil, fmt.Errorf("walk schedule: %w", err)
	}

	events := make([]domain.Event, 0, len(file.Events))
	for i, fe := range file.Events {
		req := domain.CreateEventRequest{
			Time:            fe.Time,
			Type:            fe.Type,
			Location:        fe.Location,
			DurationMinutes: fe.DurationMinutes,
			WeightKg:        fe.WeightKg,
			EndTime:         fe.EndTime,
			Note:            fe.Note,
		}
		if errs := validation.Validate(&req); errs != nil {
			return nil, fmt.Errorf("%s: %s", eventsPath, joinFieldErrors(fmt.Sprintf("events[%d].", i), errs))
		}
		events = append(events, domain.Event{
			ID:              uuid.New(),
			PuppyID:         puppy.ID,
			Time:            fe.Time,
			Type:            fe.Type,
			Location:        fe.Location,
			DurationMinutes: fe.DurationMinutes,
			WeightKg:        fe.WeightKg,
			EndTime:         fe.EndTime,
			Note:            fe.Note,
		})
	}

	now := time.Now()
	if nowFlag != "" {
		parsed, err := time.Parse(time.RFC3339, nowFlag)
		if err != nil {
			return nil, fmt.Errorf("--now must be RFC3339: %w", err)
		}
		now = parsed
	}

	gaps, rest := calc.ExtractCoverageGaps(domain.InLocation(events, puppy.Location()))
	return &input{
		puppy:  puppy,
		events: domain.SortedByTime(rest),
		gaps:   gaps,
		now:    now.In(puppy.Location()),
	}, nil
}

// between returns the events in [from, to).
func (in *input) between(from, to time.Time) []domain.Event {
	var out []domain.Event
	for _, e := range in.events {
		if !e.Time.Before(from) && e.Time.Before(to) {
			out = append(out, e)
		}
	}
	return out
}

// gapsBetween returns the coverage gaps overlapping [from, to); open gaps never end.
func (in *input) gapsBetween(from, to time.Time) []domain.Event {
	var out []domain.Event
	for _, g := range in.gaps {
		if !g.Time.Before(to) {
			continue
		}
		if g.EndTime != nil && g.EndTime.Before(from) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func joinFieldErrors(prefix string, errs []problem.FieldError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = prefix + e.Field + " " + e.Message
	}
	return strings.Join(parts, "; ")
}
