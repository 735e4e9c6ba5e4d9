package repository

import (
	"context"
	"errors"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PuppyRepository interface {
	Create(ctx context.Context, puppy *domain.Puppy) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Puppy, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, puppy *domain.Puppy) error
}

type puppyRepository struct {
	db *gorm.DB
}

func NewPuppyRepository(db *gorm.DB) PuppyRepository {
	return &puppyRepository{db: db}
}

func (r *puppyRepository) Create(ctx context.Context, puppy *domain.Puppy) error {
	return r.db.WithContext(ctx).Create(puppy).Error
}

func (r *puppyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Puppy, error) {
	var puppy domain.Puppy
	err := r.db.WithContext(ctx).First(&puppy, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &puppy, nil
}

func (r *puppyRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Puppy{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *puppyRepository) Update(ctx context.Context, puppy *domain.Puppy) error {
	return r.db.WithContext(ctx).Save(puppy).Error
}
