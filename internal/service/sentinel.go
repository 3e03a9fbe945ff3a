package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"efecto18/internal/model"
	"efecto18/internal/notify"
	"efecto18/internal/repository"
)

// Interruption is what the sentinel raises at the top of a working hour:
// the hour that just began and the task scheduled into its slot, if any.
type Interruption struct {
	Hour int
	Task *model.Task
}

// Sentinel interrupts the user once per working hour to ask whether the
// schedule is being honored. It is a poll-driven state machine, Idle or
// Interrupting; resolution comes only from ConfirmFocused or
// ConfirmDistracted, which write nothing to the store.
//
// The last-triggered hour lives in memory only. A restart during the
// triggering hour re-interrupts; asking twice is harmless.
type Sentinel struct {
	taskRepo *repository.TaskRepository
	settings *repository.SettingRepository
	notifier notify.Notifier

	// Now is the clock; replaceable in tests.
	Now func() time.Time

	// OnInterrupt fires when an interruption is raised.
	OnInterrupt func(Interruption)
	// OnResolve receives the user's answer: true for focused.
	OnResolve func(focused bool)

	mu           sync.Mutex
	interrupting bool
	lastHour     int
}

func NewSentinel(taskRepo *repository.TaskRepository, settings *repository.SettingRepository, notifier notify.Notifier) *Sentinel {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Sentinel{
		taskRepo: taskRepo,
		settings: settings,
		notifier: notifier,
		Now:      time.Now,
		lastHour: -1,
	}
}

// Check runs one poll tick and returns the interruption it raised, if any.
// It triggers when the wall clock sits exactly on a working-hour boundary
// that has not triggered yet. The working-hours window is re-read from
// settings on every tick so edits apply without a restart.
func (s *Sentinel) Check(ctx context.Context) (*Interruption, error) {
	now := s.Now()
	if now.Minute() != 0 {
		return nil, nil
	}
	hour := now.Hour()

	s.mu.Lock()
	blocked := s.interrupting || hour == s.lastHour
	s.mu.Unlock()
	if blocked {
		return nil, nil
	}

	hours, err := LoadWorkingHours(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	if !hours.Contains(hour) {
		return nil, nil
	}

	task, err := s.scheduledTask(ctx, DateOf(now), Slot(hour))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.interrupting = true
	s.lastHour = hour
	s.mu.Unlock()

	interruption := Interruption{Hour: hour, Task: task}
	if s.OnInterrupt != nil {
		s.OnInterrupt(interruption)
	}
	s.alert(interruption)
	return &interruption, nil
}

// ConfirmFocused resolves the current interruption positively.
func (s *Sentinel) ConfirmFocused() error { return s.resolve(true) }

// ConfirmDistracted resolves the current interruption negatively. Follow-on
// action (the pause ritual) is the caller's business.
func (s *Sentinel) ConfirmDistracted() error { return s.resolve(false) }

// Interrupting reports whether an interruption is awaiting resolution.
func (s *Sentinel) Interrupting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interrupting
}

func (s *Sentinel) resolve(focused bool) error {
	s.mu.Lock()
	if !s.interrupting {
		s.mu.Unlock()
		return ErrNoInterruption
	}
	s.interrupting = false
	s.mu.Unlock()

	if s.OnResolve != nil {
		s.OnResolve(focused)
	}
	return nil
}

func (s *Sentinel) scheduledTask(ctx context.Context, date, slot string) (*model.Task, error) {
	relevant, err := s.taskRepo.ListRelevant(ctx, date)
	if err != nil {
		return nil, err
	}
	for i := range relevant {
		task := &relevant[i]
		if task.Status == model.StatusDeleted || !task.Slotted() {
			continue
		}
		if task.PlannedDate != nil && *task.PlannedDate == date && *task.TimeSlot == slot {
			return task, nil
		}
	}
	return nil, nil
}

// alert is best-effort: a failed or absent channel never blocks the in-app
// interruption.
func (s *Sentinel) alert(interruption Interruption) {
	body := "Are you focused on what you should be?"
	if interruption.Task != nil {
		body = fmt.Sprintf("You agreed to do: %s", interruption.Task.Title)
	}
	if err := s.notifier.Notify("Sentinel check-in", body); err != nil {
		log.Printf("sentinel notification: %v", err)
	}
}
