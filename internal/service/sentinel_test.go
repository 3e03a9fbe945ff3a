package service_test

import (
	"errors"
	"testing"
	"time"

	"efecto18/internal/service"
)

func newTestSentinel(env *testEnv) *service.Sentinel {
	sentinel := service.NewSentinel(env.taskRepo, env.settings, nil)
	sentinel.Now = func() time.Time { return env.now }
	return sentinel
}

func TestSentinelTriggersOncePerHour(t *testing.T) {
	env := newTestEnv(t)
	sentinel := newTestSentinel(env)

	env.now = time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)
	interruption, err := sentinel.Check(env.ctx)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if interruption == nil || interruption.Hour != 8 {
		t.Fatalf("expected an interruption at hour 8, got %+v", interruption)
	}
	if !sentinel.Interrupting() {
		t.Fatalf("sentinel must be interrupting")
	}

	// Same hour, even after resolution: no re-trigger.
	if err := sentinel.ConfirmFocused(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	env.now = time.Date(2024, 5, 20, 8, 0, 30, 0, time.UTC)
	if interruption, _ := sentinel.Check(env.ctx); interruption != nil {
		t.Fatalf("hour 8 must not trigger twice")
	}

	// Next hour triggers again.
	env.now = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	if interruption, _ := sentinel.Check(env.ctx); interruption == nil {
		t.Fatalf("hour 9 must trigger")
	}
}

func TestSentinelRespectsWindowAndMinute(t *testing.T) {
	env := newTestEnv(t)
	sentinel := newTestSentinel(env)

	// Outside the default 8..18 window.
	env.now = time.Date(2024, 5, 20, 19, 0, 0, 0, time.UTC)
	if interruption, _ := sentinel.Check(env.ctx); interruption != nil {
		t.Fatalf("hour 19 is outside the window")
	}

	// Inside the window but not on the hour boundary.
	env.now = time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC)
	if interruption, _ := sentinel.Check(env.ctx); interruption != nil {
		t.Fatalf("minute 30 must not trigger")
	}

	// Window edits apply without restart.
	if err := service.SaveWorkingHours(env.ctx, env.settings, service.WorkingHours{Start: 6, End: 21}); err != nil {
		t.Fatal(err)
	}
	env.now = time.Date(2024, 5, 20, 19, 0, 0, 0, time.UTC)
	if interruption, _ := sentinel.Check(env.ctx); interruption == nil {
		t.Fatalf("hour 19 is inside the widened window")
	}
}

func TestSentinelCarriesScheduledTask(t *testing.T) {
	env := newTestEnv(t)
	sentinel := newTestSentinel(env)

	category := env.mustCategory(t, "Salud")
	task := env.mustTask(t, "Correr", category.ID)
	slot := "08:00"
	if _, err := env.tasks.AssignToSlot(env.ctx, task.ID, "2024-05-20", &slot); err != nil {
		t.Fatal(err)
	}

	env.now = time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)
	interruption, err := sentinel.Check(env.ctx)
	if err != nil {
		t.Fatal(err)
	}
	if interruption == nil || interruption.Task == nil || interruption.Task.Title != "Correr" {
		t.Fatalf("interruption must carry the slot's task, got %+v", interruption)
	}

	// An empty hour still interrupts, just without a task.
	if err := sentinel.ConfirmFocused(); err != nil {
		t.Fatal(err)
	}
	env.now = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	interruption, err = sentinel.Check(env.ctx)
	if err != nil {
		t.Fatal(err)
	}
	if interruption == nil || interruption.Task != nil {
		t.Fatalf("empty hour must interrupt with no task, got %+v", interruption)
	}
}

func TestSentinelResolution(t *testing.T) {
	env := newTestEnv(t)
	sentinel := newTestSentinel(env)

	if err := sentinel.ConfirmFocused(); !errors.Is(err, service.ErrNoInterruption) {
		t.Fatalf("resolving while idle must fail, got %v", err)
	}

	var outcomes []bool
	sentinel.OnResolve = func(focused bool) { outcomes = append(outcomes, focused) }

	env.now = time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)
	if _, err := sentinel.Check(env.ctx); err != nil {
		t.Fatal(err)
	}
	if err := sentinel.ConfirmDistracted(); err != nil {
		t.Fatal(err)
	}
	if sentinel.Interrupting() {
		t.Fatalf("resolution must return the sentinel to idle")
	}
	if len(outcomes) != 1 || outcomes[0] {
		t.Fatalf("the negative outcome must reach the caller, got %v", outcomes)
	}
}
