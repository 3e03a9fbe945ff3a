package repository_test

import (
	"context"
	"testing"

	"efecto18/internal/model"
	"efecto18/internal/repository"
)

func TestReflectionUpsertKeyedByDate(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewReflectionRepository(db)
	ctx := context.Background()

	first := model.Reflection{Date: "2024-05-20", Text: "first"}
	if err := repo.Upsert(ctx, &first); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second := model.Reflection{Date: "2024-05-20", Text: "second"}
	if err := repo.Upsert(ctx, &second); err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("identity must resolve by date: got id %d, want %d", second.ID, first.ID)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one reflection, got %d", len(all))
	}
	if all[0].Text != "second" {
		t.Fatalf("expected latest text, got %q", all[0].Text)
	}
}
