package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"efecto18/internal/model"
	"efecto18/internal/repository"
)

// MaxCategories caps how many named focus areas the planner accepts. The
// store itself carries no cap; this is lifecycle policy.
const MaxCategories = 5

// TaskService is the task lifecycle engine. Every operation re-reads the
// task from the store before writing, so callers never corrupt state with
// a stale copy.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository

	// Now is the clock; replaceable in tests.
	Now func() time.Time
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo, Now: time.Now}
}

// CreateCategory adds a named focus area, up to the five-slot cap.
func (s *TaskService) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("category name is required")
	}
	count, err := s.categoryRepo.CountNamed(ctx)
	if err != nil {
		return nil, err
	}
	if count >= MaxCategories {
		return nil, validationf("at most %d focus categories are allowed", MaxCategories)
	}
	category := model.Category{Name: name}
	if err := s.categoryRepo.Save(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// RenameCategory changes a focus area's name. An empty name retires the
// slot without deleting it; banked tasks keep pointing at it.
func (s *TaskService) RenameCategory(ctx context.Context, id uint, name string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("category %d does not exist", id)
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	category.Name = strings.TrimSpace(name)
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *TaskService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List(ctx)
}

// CreateTask banks a new task under an existing category.
func (s *TaskService) CreateTask(ctx context.Context, title string, categoryID uint) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationf("task title is required")
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("category %d does not exist", categoryID)
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	task := model.Task{
		Title:      title,
		CategoryID: categoryID,
		Status:     model.StatusBank,
	}
	if err := s.taskRepo.Save(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// AssignToSlot plans the task on date, optionally into an hourly slot. A
// nil slot means planned-but-untimed. Assignment overwrites slot occupancy:
// a previous occupant of (date, slot) is demoted to untimed-planned so that
// at most one non-deleted task holds any slot.
func (s *TaskService) AssignToSlot(ctx context.Context, taskID uint, date string, slot *string) (*model.Task, error) {
	task, err := s.fetch(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == model.StatusDeleted {
		return nil, fmt.Errorf("%w: task %d is deleted", ErrInvalidTransition, taskID)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, validationf("invalid date %q, expected YYYY-MM-DD", date)
	}
	if slot != nil {
		if err := validateSlot(*slot); err != nil {
			return nil, err
		}
		occupant, err := s.taskRepo.FindBySlot(ctx, date, *slot)
		if err != nil {
			return nil, err
		}
		if occupant != nil && occupant.ID != task.ID {
			occupant.TimeSlot = nil
			if err := s.taskRepo.Save(ctx, occupant); err != nil {
				return nil, err
			}
		}
	}

	task.Status = model.StatusPlanned
	task.PlannedDate = &date
	task.TimeSlot = slot
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ReturnToBank moves a planned or completed task back into the bank,
// clearing its date and slot.
func (s *TaskService) ReturnToBank(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.fetch(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != model.StatusPlanned && task.Status != model.StatusCompleted {
		return nil, fmt.Errorf("%w: %s task cannot return to the bank", ErrInvalidTransition, task.Status)
	}
	task.Status = model.StatusBank
	task.PlannedDate = nil
	task.TimeSlot = nil
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ToggleCompletion flips a task between planned and completed. Other fields
// are untouched, so toggling twice is the identity.
func (s *TaskService) ToggleCompletion(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.fetch(ctx, taskID)
	if err != nil {
		return nil, err
	}
	switch task.Status {
	case model.StatusPlanned:
		task.Status = model.StatusCompleted
	case model.StatusCompleted:
		task.Status = model.StatusPlanned
	default:
		return nil, fmt.Errorf("%w: cannot toggle completion of a %s task", ErrInvalidTransition, task.Status)
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// MoveToTomorrow re-plans a task from today to the next calendar day,
// untimed. Only legal for tasks planned for today.
func (s *TaskService) MoveToTomorrow(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.fetch(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == model.StatusDeleted {
		return nil, fmt.Errorf("%w: task %d is deleted", ErrInvalidTransition, taskID)
	}
	today := DateOf(s.Now())
	if task.PlannedDate == nil || *task.PlannedDate != today {
		return nil, validationf("task %d is not planned for today", taskID)
	}
	tomorrow := DateOf(s.Now().AddDate(0, 0, 1))
	task.Status = model.StatusPlanned
	task.PlannedDate = &tomorrow
	task.TimeSlot = nil
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Discard soft-deletes a task. The tombstone stays in the store for backup
// fidelity and no later operation can revive it.
func (s *TaskService) Discard(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.fetch(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == model.StatusDeleted {
		return nil, fmt.Errorf("%w: task %d is already deleted", ErrInvalidTransition, taskID)
	}
	task.Status = model.StatusDeleted
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Relevant returns the bank plus everything planned for date.
func (s *TaskService) Relevant(ctx context.Context, date string) ([]model.Task, error) {
	return s.taskRepo.ListRelevant(ctx, date)
}

func (s *TaskService) fetch(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("task %d does not exist", taskID)
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

func validateSlot(slot string) error {
	t, err := time.Parse("15:04", slot)
	if err != nil || t.Minute() != 0 {
		return validationf("invalid time slot %q, expected HH:00", slot)
	}
	return nil
}
