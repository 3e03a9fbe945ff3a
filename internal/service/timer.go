package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"efecto18/internal/repository"
)

// TimerTargetKey is the settings key holding the countdown deadline as an
// absolute epoch-milliseconds timestamp.
const TimerTargetKey = "timer_target"

// DefaultTimerSeconds is the work-block length offered when no timer runs.
const DefaultTimerSeconds = 300

// Timer states.
const (
	TimerStopped = "stopped"
	TimerRunning = "running"
)

// TimerStatus is a point-in-time view of the countdown timer.
type TimerStatus struct {
	State     string
	Remaining int // seconds
}

// CountdownTimer is the single global work-block timer. It persists an
// absolute deadline and always recomputes the remaining time from the wall
// clock, so a suspended or restarted process resumes with the right value.
type CountdownTimer struct {
	settings *repository.SettingRepository

	// Now is the clock; replaceable in tests.
	Now func() time.Time
	// DefaultSeconds is the duration shown while stopped and not expired.
	DefaultSeconds int

	mu sync.Mutex
	// expired pins the remaining time at zero after a run finishes, until
	// the next Start or Stop.
	expired bool
}

func NewCountdownTimer(settings *repository.SettingRepository) *CountdownTimer {
	return &CountdownTimer{
		settings:       settings,
		Now:            time.Now,
		DefaultSeconds: DefaultTimerSeconds,
	}
}

// Start begins a countdown of the given length and persists its deadline.
func (t *CountdownTimer) Start(ctx context.Context, seconds int) error {
	if seconds <= 0 {
		return validationf("timer duration must be positive")
	}
	deadline := t.Now().Add(time.Duration(seconds) * time.Second).UnixMilli()
	if err := t.settings.Set(ctx, TimerTargetKey, strconv.FormatInt(deadline, 10)); err != nil {
		return err
	}
	t.mu.Lock()
	t.expired = false
	t.mu.Unlock()
	return nil
}

// Stop clears the deadline and resets the remaining time to the default.
func (t *CountdownTimer) Stop(ctx context.Context) error {
	if err := t.settings.Delete(ctx, TimerTargetKey); err != nil {
		return err
	}
	t.mu.Lock()
	t.expired = false
	t.mu.Unlock()
	return nil
}

// Status reports the current state. Remaining time is ceil(deadline - now)
// in seconds, never a decremented counter. Reaching zero while running
// self-transitions to stopped with the remaining time pinned at zero.
func (t *CountdownTimer) Status(ctx context.Context) (TimerStatus, error) {
	raw, ok, err := t.settings.Get(ctx, TimerTargetKey)
	if !ok || err != nil {
		if err != nil {
			return TimerStatus{}, err
		}
		t.mu.Lock()
		expired := t.expired
		t.mu.Unlock()
		if expired {
			return TimerStatus{State: TimerStopped, Remaining: 0}, nil
		}
		return TimerStatus{State: TimerStopped, Remaining: t.DefaultSeconds}, nil
	}

	deadline, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Unreadable deadline: drop it rather than run forever.
		if err := t.settings.Delete(ctx, TimerTargetKey); err != nil {
			return TimerStatus{}, err
		}
		return TimerStatus{State: TimerStopped, Remaining: t.DefaultSeconds}, nil
	}

	diff := deadline - t.Now().UnixMilli()
	if diff <= 0 {
		if err := t.settings.Delete(ctx, TimerTargetKey); err != nil {
			return TimerStatus{}, err
		}
		t.mu.Lock()
		t.expired = true
		t.mu.Unlock()
		return TimerStatus{State: TimerStopped, Remaining: 0}, nil
	}
	remaining := int((diff + 999) / 1000)
	return TimerStatus{State: TimerRunning, Remaining: remaining}, nil
}

// Check runs one poll tick.
func (t *CountdownTimer) Check(ctx context.Context) error {
	_, err := t.Status(ctx)
	return err
}
