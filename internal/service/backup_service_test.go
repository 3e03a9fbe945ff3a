package service_test

import (
	"errors"
	"testing"

	"efecto18/internal/model"
	"efecto18/internal/service"
)

func seedStore(t *testing.T, env *testEnv) {
	t.Helper()
	salud := env.mustCategory(t, "Salud")
	trabajo := env.mustCategory(t, "Trabajo")

	correr := env.mustTask(t, "Correr", salud.ID)
	slot := "07:00"
	if _, err := env.tasks.AssignToSlot(env.ctx, correr.ID, env.today(), &slot); err != nil {
		t.Fatal(err)
	}
	informe := env.mustTask(t, "Informe", trabajo.ID)
	if _, err := env.tasks.Discard(env.ctx, informe.ID); err != nil {
		t.Fatal(err)
	}
	env.mustTask(t, "Leer", salud.ID)

	if err := env.review.RecordReflection(env.ctx, env.today(), "Buen día"); err != nil {
		t.Fatal(err)
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	seedStore(t, env)

	data, err := env.backup.ExportJSON(env.ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	before, err := env.backup.Export(env.ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Mutate the store so the restore has something to undo.
	env.mustTask(t, "Intruso", before.Categories[0].ID)
	if _, err := env.tasks.Discard(env.ctx, before.Tasks[0].ID); err != nil {
		t.Fatal(err)
	}

	if err := env.backup.Restore(env.ctx, data); err != nil {
		t.Fatalf("restore: %v", err)
	}

	after, err := env.backup.Export(env.ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Categories) != len(before.Categories) ||
		len(after.Tasks) != len(before.Tasks) ||
		len(after.Reflections) != len(before.Reflections) {
		t.Fatalf("restore must reproduce the snapshot: %d/%d categories, %d/%d tasks, %d/%d reflections",
			len(after.Categories), len(before.Categories),
			len(after.Tasks), len(before.Tasks),
			len(after.Reflections), len(before.Reflections))
	}
	for i, want := range before.Tasks {
		got := after.Tasks[i]
		if got.ID != want.ID || got.Title != want.Title || got.Status != want.Status {
			t.Fatalf("task %d differs: got %+v want %+v", i, got, want)
		}
		if (got.PlannedDate == nil) != (want.PlannedDate == nil) ||
			(got.PlannedDate != nil && *got.PlannedDate != *want.PlannedDate) {
			t.Fatalf("task %d planned date differs", i)
		}
		if (got.TimeSlot == nil) != (want.TimeSlot == nil) ||
			(got.TimeSlot != nil && *got.TimeSlot != *want.TimeSlot) {
			t.Fatalf("task %d slot differs", i)
		}
	}
	if after.Reflections[0].Text != "Buen día" {
		t.Fatalf("reflection text lost in the round trip")
	}
}

func TestRestoreRejectsMalformedInput(t *testing.T) {
	env := newTestEnv(t)
	seedStore(t, env)

	var integrityErr *service.RestoreIntegrityError
	if err := env.backup.Restore(env.ctx, []byte("{not json")); !errors.As(err, &integrityErr) {
		t.Fatalf("expected integrity error, got %v", err)
	}
	if err := env.backup.Restore(env.ctx, []byte(`{"exportDate":"2024-01-01"}`)); !errors.As(err, &integrityErr) {
		t.Fatalf("bundle without collections must be rejected, got %v", err)
	}
	if err := env.backup.Restore(env.ctx, []byte(`{"categories":[],"tasks":[{"id":1,"title":"x","status":"weird"}]}`)); !errors.As(err, &integrityErr) {
		t.Fatalf("unknown status must be rejected, got %v", err)
	}

	// Nothing was cleared: the rejection came before any destructive write.
	bundle, err := env.backup.Export(env.ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(bundle.Tasks) == 0 || len(bundle.Categories) == 0 {
		t.Fatalf("store must survive a rejected restore")
	}
}

func TestRestoreTreatsMissingReflectionsAsEmpty(t *testing.T) {
	env := newTestEnv(t)
	seedStore(t, env)

	payload := []byte(`{
		"categories": [{"id": 1, "name": "Salud", "createdAt": "2024-01-01T00:00:00Z"}],
		"tasks": [{"id": 1, "title": "Correr", "categoryId": 1, "status": "bank", "plannedDate": null, "timeSlot": null, "createdAt": "2024-01-01T00:00:00Z"}]
	}`)
	if err := env.backup.Restore(env.ctx, payload); err != nil {
		t.Fatalf("restore: %v", err)
	}

	bundle, err := env.backup.Export(env.ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(bundle.Reflections) != 0 {
		t.Fatalf("reflections must be cleared, got %d", len(bundle.Reflections))
	}
	if len(bundle.Tasks) != 1 || bundle.Tasks[0].Title != "Correr" {
		t.Fatalf("unexpected tasks after restore: %+v", bundle.Tasks)
	}
	if bundle.Tasks[0].Status != model.StatusBank {
		t.Fatalf("restored task status mangled: %+v", bundle.Tasks[0])
	}
}
