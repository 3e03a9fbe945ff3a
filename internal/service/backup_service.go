package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"efecto18/internal/model"
	"efecto18/internal/repository"
)

// Bundle is the full portable snapshot of the store.
type Bundle struct {
	Categories  []model.Category   `json:"categories"`
	Tasks       []model.Task       `json:"tasks"`
	Reflections []model.Reflection `json:"reflections"`
	ExportDate  string             `json:"exportDate"`
}

// BackupService exports and restores the whole store. Restore is
// destructive and all-or-nothing: it runs in a single transaction and no
// clearing starts before the input has been parsed and shape-checked.
type BackupService struct {
	db             *gorm.DB
	categoryRepo   *repository.CategoryRepository
	taskRepo       *repository.TaskRepository
	reflectionRepo *repository.ReflectionRepository

	// Now is the clock; replaceable in tests.
	Now func() time.Time
}

func NewBackupService(db *gorm.DB, categoryRepo *repository.CategoryRepository, taskRepo *repository.TaskRepository, reflectionRepo *repository.ReflectionRepository) *BackupService {
	return &BackupService{
		db:             db,
		categoryRepo:   categoryRepo,
		taskRepo:       taskRepo,
		reflectionRepo: reflectionRepo,
		Now:            time.Now,
	}
}

// Export snapshots the three collections.
func (s *BackupService) Export(ctx context.Context) (*Bundle, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	reflections, err := s.reflectionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		Categories:  categories,
		Tasks:       tasks,
		Reflections: reflections,
		ExportDate:  s.Now().Format(time.RFC3339),
	}, nil
}

// ExportJSON renders the snapshot as indented JSON.
func (s *BackupService) ExportJSON(ctx context.Context) ([]byte, error) {
	bundle, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return data, nil
}

// Filename names a backup file with the export date embedded.
func (s *BackupService) Filename() string {
	return fmt.Sprintf("efecto18-backup-%s.json", DateOf(s.Now()))
}

// Restore replaces the entire store with the bundle's contents. A missing
// reflections array is treated as empty, not an error.
func (s *BackupService) Restore(ctx context.Context, data []byte) error {
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return &RestoreIntegrityError{Reason: err.Error()}
	}
	if bundle.Categories == nil && bundle.Tasks == nil {
		return &RestoreIntegrityError{Reason: "no categories or tasks present"}
	}
	for _, task := range bundle.Tasks {
		switch task.Status {
		case model.StatusBank, model.StatusPlanned, model.StatusCompleted, model.StatusDeleted:
		default:
			return &RestoreIntegrityError{Reason: fmt.Sprintf("unknown task status %q", task.Status)}
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Category{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&model.Reflection{}).Error; err != nil {
			return err
		}
		if len(bundle.Categories) > 0 {
			if err := tx.Create(&bundle.Categories).Error; err != nil {
				return err
			}
		}
		if len(bundle.Tasks) > 0 {
			if err := tx.Create(&bundle.Tasks).Error; err != nil {
				return err
			}
		}
		if len(bundle.Reflections) > 0 {
			if err := tx.Create(&bundle.Reflections).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}
