package service

import (
	"context"
	"strings"
	"time"

	"efecto18/internal/model"
	"efecto18/internal/repository"
)

// ReviewService drives the nightly three-phase rollover: acknowledge what
// got done, triage what did not, then write the day's reflection. All phase
// state lives in the store, so an interrupted review resumes where it was.
type ReviewService struct {
	tasks          *TaskService
	reflectionRepo *repository.ReflectionRepository

	Now func() time.Time
}

func NewReviewService(tasks *TaskService, reflectionRepo *repository.ReflectionRepository) *ReviewService {
	return &ReviewService{tasks: tasks, reflectionRepo: reflectionRepo, Now: time.Now}
}

func (s *ReviewService) Today() string {
	return DateOf(s.Now())
}

// ScheduledToday lists today's slotted tasks for the acknowledge phase,
// completed ones included.
func (s *ReviewService) ScheduledToday(ctx context.Context) ([]model.Task, error) {
	today := s.Today()
	relevant, err := s.tasks.Relevant(ctx, today)
	if err != nil {
		return nil, err
	}
	var scheduled []model.Task
	for _, task := range relevant {
		if task.PlannedDate == nil || *task.PlannedDate != today || !task.Slotted() {
			continue
		}
		if task.Status == model.StatusPlanned || task.Status == model.StatusCompleted {
			scheduled = append(scheduled, task)
		}
	}
	return scheduled, nil
}

// Unresolved lists the tasks the triage phase still has to decide on:
// planned for today and neither completed nor deleted. An empty result is
// the phase's (inspectable, unenforced) completion condition.
func (s *ReviewService) Unresolved(ctx context.Context) ([]model.Task, error) {
	today := s.Today()
	relevant, err := s.tasks.Relevant(ctx, today)
	if err != nil {
		return nil, err
	}
	var unresolved []model.Task
	for _, task := range relevant {
		if task.Status == model.StatusPlanned && task.PlannedDate != nil && *task.PlannedDate == today {
			unresolved = append(unresolved, task)
		}
	}
	return unresolved, nil
}

// Acknowledge toggles completion on one of today's tasks (phase 1).
func (s *ReviewService) Acknowledge(ctx context.Context, taskID uint) (*model.Task, error) {
	return s.tasks.ToggleCompletion(ctx, taskID)
}

// Resolve settles one unresolved task (phase 2): carry it to tomorrow or
// discard it.
func (s *ReviewService) Resolve(ctx context.Context, taskID uint, keep bool) (*model.Task, error) {
	if keep {
		return s.tasks.MoveToTomorrow(ctx, taskID)
	}
	return s.tasks.Discard(ctx, taskID)
}

// RecordReflection writes the journal entry for date (phase 3), overwriting
// any earlier entry for the same date. Returning nil is the signal that the
// day is closed.
func (s *ReviewService) RecordReflection(ctx context.Context, date, text string) error {
	if strings.TrimSpace(text) == "" {
		return validationf("reflection text is required")
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return validationf("invalid date %q, expected YYYY-MM-DD", date)
	}
	reflection := model.Reflection{Date: date, Text: text}
	return s.reflectionRepo.Upsert(ctx, &reflection)
}

// Reflections returns the journal, newest first.
func (s *ReviewService) Reflections(ctx context.Context) ([]model.Reflection, error) {
	return s.reflectionRepo.ListAll(ctx)
}
