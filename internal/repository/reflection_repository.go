package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"efecto18/internal/model"
)

// ReflectionRepository manages the nightly journal entries.
type ReflectionRepository struct {
	db *gorm.DB
}

func NewReflectionRepository(db *gorm.DB) *ReflectionRepository {
	return &ReflectionRepository{db: db}
}

// Upsert stores the reflection for its date. Identity is the date, not the
// caller-supplied ID: an existing entry for the same date is overwritten.
func (r *ReflectionRepository) Upsert(ctx context.Context, reflection *model.Reflection) error {
	db := r.db.WithContext(ctx)

	var existing model.Reflection
	err := db.Where("date = ?", reflection.Date).First(&existing).Error
	switch {
	case err == nil:
		reflection.ID = existing.ID
		if err := db.Save(reflection).Error; err != nil {
			return fmt.Errorf("update reflection: %w", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Create(reflection).Error; err != nil {
			return fmt.Errorf("create reflection: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find reflection: %w", err)
	}
}

func (r *ReflectionRepository) FindByDate(ctx context.Context, date string) (*model.Reflection, error) {
	var reflection model.Reflection
	if err := r.db.WithContext(ctx).Where("date = ?", date).First(&reflection).Error; err != nil {
		return nil, err
	}
	return &reflection, nil
}

// ListAll returns reflections newest first.
func (r *ReflectionRepository) ListAll(ctx context.Context) ([]model.Reflection, error) {
	var reflections []model.Reflection
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&reflections).Error; err != nil {
		return nil, fmt.Errorf("list reflections: %w", err)
	}
	return reflections, nil
}
