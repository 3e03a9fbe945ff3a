package service_test

import (
	"testing"
	"time"

	"efecto18/internal/service"
)

func newTestTimer(env *testEnv) *service.CountdownTimer {
	timer := service.NewCountdownTimer(env.settings)
	timer.Now = func() time.Time { return env.now }
	return timer
}

func TestTimerSurvivesForwardJump(t *testing.T) {
	env := newTestEnv(t)
	timer := newTestTimer(env)

	if err := timer.Start(env.ctx, 300); err != nil {
		t.Fatalf("start: %v", err)
	}
	status, err := timer.Status(env.ctx)
	if err != nil || status.State != service.TimerRunning || status.Remaining != 300 {
		t.Fatalf("expected running/300, got %+v (%v)", status, err)
	}

	// Simulate a suspended process: the wall clock jumps past the deadline.
	env.now = env.now.Add(301 * time.Second)
	status, err = timer.Status(env.ctx)
	if err != nil {
		t.Fatal(err)
	}
	if status.State != service.TimerStopped || status.Remaining != 0 {
		t.Fatalf("expected stopped/0 after the jump, got %+v", status)
	}

	// Pinned at zero until the next start.
	status, err = timer.Status(env.ctx)
	if err != nil || status.State != service.TimerStopped || status.Remaining != 0 {
		t.Fatalf("expected the zero to stick, got %+v (%v)", status, err)
	}

	if err := timer.Start(env.ctx, 60); err != nil {
		t.Fatal(err)
	}
	status, err = timer.Status(env.ctx)
	if err != nil || status.State != service.TimerRunning || status.Remaining != 60 {
		t.Fatalf("expected a fresh run, got %+v (%v)", status, err)
	}
}

func TestTimerRemainingIsRecomputed(t *testing.T) {
	env := newTestEnv(t)
	timer := newTestTimer(env)

	if err := timer.Start(env.ctx, 300); err != nil {
		t.Fatal(err)
	}

	// Remaining rounds up to whole seconds.
	env.now = env.now.Add(500 * time.Millisecond)
	status, err := timer.Status(env.ctx)
	if err != nil || status.Remaining != 300 {
		t.Fatalf("expected ceil to 300, got %+v (%v)", status, err)
	}

	env.now = env.now.Add(10 * time.Second)
	status, err = timer.Status(env.ctx)
	if err != nil || status.Remaining != 290 {
		t.Fatalf("expected 290, got %+v (%v)", status, err)
	}
}

func TestTimerStopResetsToDefault(t *testing.T) {
	env := newTestEnv(t)
	timer := newTestTimer(env)

	if err := timer.Start(env.ctx, 120); err != nil {
		t.Fatal(err)
	}
	if err := timer.Stop(env.ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	status, err := timer.Status(env.ctx)
	if err != nil || status.State != service.TimerStopped || status.Remaining != service.DefaultTimerSeconds {
		t.Fatalf("expected stopped at the default duration, got %+v (%v)", status, err)
	}
}

func TestTimerDeadlinePersistsAcrossInstances(t *testing.T) {
	env := newTestEnv(t)
	timer := newTestTimer(env)

	if err := timer.Start(env.ctx, 300); err != nil {
		t.Fatal(err)
	}

	// A new instance over the same store behaves like a process restart.
	env.now = env.now.Add(100 * time.Second)
	reloaded := newTestTimer(env)
	status, err := reloaded.Status(env.ctx)
	if err != nil || status.State != service.TimerRunning || status.Remaining != 200 {
		t.Fatalf("expected running/200 after reload, got %+v (%v)", status, err)
	}
}
