package repository

import (
	"context"
	"errors"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/pkg/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	// CreateOpenCoverageGap inserts an open gap unless the puppy already has one.
	CreateOpenCoverageGap(ctx context.Context, gap *domain.Event) error
	GetByID(ctx context.Context, puppyID, id uuid.UUID) (*domain.Event, error)
	GetByClientRequestID(ctx context.Context, puppyID uuid.UUID, clientRequestID string) (*domain.Event, error)
	// ListRange returns every event in [from, to), oldest first, coverage gaps included.
	ListRange(ctx context.Context, puppyID uuid.UUID, from, to time.Time) ([]domain.Event, error)
	// ListCoverageGaps returns the gaps overlapping [from, to], open gaps included.
	ListCoverageGaps(ctx context.Context, puppyID uuid.UUID, from, to time.Time) ([]domain.Event, error)
	List(ctx context.Context, puppyID uuid.UUID, filter domain.EventFilter) ([]domain.Event, error)
	ActiveCoverageGap(ctx context.Context, puppyID uuid.UUID) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, puppyID, id uuid.UUID) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	return translate(r.db.WithContext(ctx).Create(event).Error)
}

func (r *eventRepository) CreateOpenCoverageGap(ctx context.Context, gap *domain.Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&domain.Event{}).
			Where("puppy_id = ? AND type = ? AND end_time IS NULL", gap.PuppyID, domain.EventCoverageGap).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrActiveCoverageGap
		}
		return translate(tx.Create(gap).Error)
	})
}

func (r *eventRepository) GetByID(ctx context.Context, puppyID, id uuid.UUID) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).First(&event, "id = ? AND puppy_id = ?", id, puppyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetByClientRequestID(ctx context.Context, puppyID uuid.UUID, clientRequestID string) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).
		Where("puppy_id = ? AND client_request_id = ?", puppyID, clientRequestID).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found is not an error for idempotency check
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) ListRange(ctx context.Context, puppyID uuid.UUID, from, to time.Time) ([]domain.Event, error) {
	var events []domain.Event
	err := r.db.WithContext(ctx).
		Where("puppy_id = ? AND time >= ? AND time < ?", puppyID, from, to).
		Order("time ASC, id ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) ListCoverageGaps(ctx context.Context, puppyID uuid.UUID, from, to time.Time) ([]domain.Event, error) {
	var gaps []domain.Event
	err := r.db.WithContext(ctx).
		Where("puppy_id = ? AND type = ?", puppyID, domain.EventCoverageGap).
		Where("time <= ?", to).
		Where("end_time IS NULL OR end_time >= ?", from).
		Order("time ASC").
		Find(&gaps).Error
	return gaps, err
}

func (r *eventRepository) List(ctx context.Context, puppyID uuid.UUID, filter domain.EventFilter) ([]domain.Event, error) {
	query := r.db.WithContext(ctx).
		Where("puppy_id = ?", puppyID).
		Order("time DESC, id DESC")

	if filter.From != nil {
		query = query.Where("time >= ?", filter.From)
	}
	if filter.To != nil {
		query = query.Where("time <= ?", filter.To)
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}

	if filter.Cursor != "" {
		cursor, err := pagination.DecodeCursor(filter.Cursor)
		if err == nil && cursor != nil {
			query = query.Where(
				"(time < ? OR (time = ? AND id < ?))",
				cursor.Time, cursor.Time, cursor.ID,
			)
		}
	}

	// One extra row tells the caller whether another page exists.
	limit := pagination.NormalizeLimit(filter.Limit)
	query = query.Limit(limit + 1)

	var events []domain.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) ActiveCoverageGap(ctx context.Context, puppyID uuid.UUID) (*domain.Event, error) {
	var gap domain.Event
	err := r.db.WithContext(ctx).
		Where("puppy_id = ? AND type = ? AND end_time IS NULL", puppyID, domain.EventCoverageGap).
		Order("time DESC").
		First(&gap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &gap, nil
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	return translate(r.db.WithContext(ctx).Save(event).Error)
}

func (r *eventRepository) Delete(ctx context.Context, puppyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND puppy_id = ?", id, puppyID).
		Delete(&domain.Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// translate maps driver constraint errors onto domain errors.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateRequest
	}
	return err
}
