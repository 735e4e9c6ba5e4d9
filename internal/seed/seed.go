package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const seededDays = 21

// Puppies are the sample profiles created by Run.
var Puppies = []domain.Puppy{
	{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Name: "Biscuit", Timezone: "Europe/Amsterdam"},
	{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Name: "Pepper", Timezone: "America/New_York"},
}

// Run seeds the database with sample puppies and their care history. Safe to call multiple times.
func Run(db *gorm.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&domain.Puppy{}, &domain.Event{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	now := time.Now()
	rng := rand.New(rand.NewSource(now.UnixNano()))

	for _, p := range Puppies {
		puppy := p
		puppy.HomeDate = now.AddDate(0, 0, -seededDays).Truncate(24 * time.Hour)
		puppy.Prediction = domain.DefaultPredictionConfig()
		puppy.Walks = domain.DefaultWalkSchedule()
		if err := db.Where("id = ?", puppy.ID).FirstOrCreate(&puppy).Error; err != nil {
			return fmt.Errorf("failed to create puppy %s: %w", puppy.ID, err)
		}

		events := Events(puppy, seededDays, now, rng)
		for i := range events {
			e := events[i]
			if err := db.Where("client_request_id = ?", *e.ClientRequestID).FirstOrCreate(&e).Error; err != nil {
				return fmt.Errorf("failed to create event: %w", err)
			}
		}
		logger.Info("seeded puppy",
			zap.String("puppy_id", puppy.ID.String()),
			zap.String("name", puppy.Name),
			zap.Int("events", len(events)),
		)
	}

	logger.Info("seed completed")
	return nil
}

// Events generates a plausible care history for the last days up to now,
// oldest first. Keys are the day plus a per-day sequence, so reseeding on the
// same day does not duplicate events.
func Events(puppy domain.Puppy, days int, now time.Time, rng *rand.Rand) []domain.Event {
	loc := puppy.Location()
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	var events []domain.Event
	var date time.Time
	seq := 0
	add := func(t time.Time, typ domain.EventType, where *domain.Location, duration *int) {
		seq++
		if t.After(now) {
			return
		}
		key := fmt.Sprintf("seed-%s-%s-%02d", puppy.ID, date.Format("20060102"), seq)
		events = append(events, domain.Event{
			ID:              uuid.New(),
			PuppyID:         puppy.ID,
			Time:            t,
			Type:            typ,
			Location:        where,
			DurationMinutes: duration,
			ClientRequestID: &key,
		})
	}
	at := func(date time.Time, hour, minute int) time.Time {
		return date.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}
	jitter := func(n int) int { return rng.Intn(n) }
	outdoor := domain.LocationPtr(domain.LocationOutdoor)
	indoor := domain.LocationPtr(domain.LocationIndoor)
	// Accidents get rarer the longer the puppy has been home.
	pottyLocation := func(day int) *domain.Location {
		if rng.Float64() < 0.3*float64(days-day)/float64(days) {
			return indoor
		}
		return outdoor
	}

	for d := days - 1; d >= 0; d-- {
		date = today.AddDate(0, 0, -d)
		day := days - d
		seq = 0

		wake := at(date, 6, jitter(45))
		add(wake, domain.EventWake, nil, nil)
		add(wake.Add(time.Duration(2+jitter(5))*time.Minute), domain.EventPee, outdoor, nil)

		for _, meal := range []int{7, 12, 17} {
			mealAt := at(date, meal, jitter(40))
			add(mealAt, domain.EventMeal, nil, nil)
			add(mealAt.Add(time.Duration(10+jitter(15))*time.Minute), domain.EventPee, pottyLocation(day), nil)
			if meal != 12 {
				add(mealAt.Add(time.Duration(20+jitter(20))*time.Minute), domain.EventPoop, pottyLocation(day), nil)
			}
		}

		for _, walkHour := range []int{8, 13, 19} {
			minutes := 20 + jitter(25)
			add(at(date, walkHour, jitter(50)), domain.EventWalk, outdoor, &minutes)
		}

		for _, napHour := range []int{10, 15} {
			napAt := at(date, napHour, jitter(30))
			add(napAt, domain.EventSleep, nil, nil)
			napEnd := napAt.Add(time.Duration(40+jitter(60)) * time.Minute)
			add(napEnd, domain.EventWake, nil, nil)
			add(napEnd.Add(time.Duration(1+jitter(8))*time.Minute), domain.EventPee, pottyLocation(day), nil)
		}

		add(at(date, 22, jitter(30)), domain.EventPee, outdoor, nil)
		add(at(date, 22, 30+jitter(25)), domain.EventSleep, nil, nil)
	}

	return domain.SortedByTime(events)
}
