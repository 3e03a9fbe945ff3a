package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"efecto18/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Save inserts the task, or replaces it when an ID is already set.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListRelevant returns the tasks the planner cares about on a given date:
// every bank task (date-independent) plus every task planned for that date,
// whatever its status.
func (r *TaskRepository) ListRelevant(ctx context.Context, date string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("status = ? OR planned_date = ?", model.StatusBank, date).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list relevant tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) ListByStatus(ctx context.Context, status string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks by status: %w", err)
	}
	return tasks, nil
}

// FindBySlot returns the non-deleted task occupying (date, slot), or nil
// when the slot is free.
func (r *TaskRepository) FindBySlot(ctx context.Context, date, slot string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("planned_date = ? AND time_slot = ? AND status <> ?", date, slot, model.StatusDeleted).
		First(&task).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find task by slot: %w", err)
	}
}
