package service

import (
	"context"
	"errors"
	"testing"

	"github.com/storycanvas/backend/internal/model"
)

func TestStorybookService_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sb := env.mustCreateStorybook(t, "新故事书")
	if sb.UUID == "" {
		t.Fatalf("expected generated uuid")
	}
	if sb.Status != model.StatusDraft {
		t.Fatalf("expected draft status, got %s", sb.Status)
	}

	got, err := env.storybooks.Get(ctx, "owner-1", sb.ID)
	if err != nil {
		t.Fatalf("get storybook error: %v", err)
	}
	if got.Title != "新故事书" {
		t.Fatalf("unexpected title %q", got.Title)
	}

	if _, err := env.storybooks.Get(ctx, "owner-1", 99999); !errors.Is(err, ErrStorybookNotFound) {
		t.Fatalf("expected ErrStorybookNotFound, got %v", err)
	}
}

func TestStorybookService_UpdateStatusAndSettings(t *testing.T) {
	env := newTestEnv(t)
	sb := env.mustCreateStorybook(t, "新故事书")
	ctx := context.Background()

	status := model.StatusActive
	title := "改名后的故事书"
	updated, err := env.storybooks.Update(ctx, "owner-1", sb.ID, UpdateStorybookRequest{
		Title:    &title,
		Status:   &status,
		Settings: model.JSONMap{"theme": "dark"},
	})
	if err != nil {
		t.Fatalf("update storybook error: %v", err)
	}
	if updated.Title != title || updated.Status != status {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Settings["theme"] != "dark" {
		t.Fatalf("settings not merged: %v", updated.Settings)
	}

	bad := "published"
	if _, err := env.storybooks.Update(ctx, "owner-1", sb.ID, UpdateStorybookRequest{Status: &bad}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestStorybookService_ListByOwnerSkipsDeleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	keep := env.mustCreateStorybook(t, "保留")
	gone := env.mustCreateStorybook(t, "待删除")
	if err := env.storybooks.Delete(ctx, "owner-1", gone.ID); err != nil {
		t.Fatalf("delete storybook error: %v", err)
	}

	list, err := env.storybooks.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list storybooks error: %v", err)
	}
	if len(list) != 1 || list[0].ID != keep.ID {
		t.Fatalf("expected only storybook %d, got %+v", keep.ID, list)
	}
}

func TestStorybookService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	sb := env.mustCreateStorybook(t, "级联删除")
	ctx := context.Background()

	page := env.mustCreatePage(t, sb.ID)
	env.mustCreateFrame(t, page.ID, model.NodeText)
	ch := env.mustCreateChapter(t, sb.ID, "第一章")
	env.mustCreateBlock(t, ch.ID, model.NodeText)

	if err := env.storybooks.Delete(ctx, "owner-1", sb.ID); err != nil {
		t.Fatalf("delete storybook error: %v", err)
	}

	for _, probe := range []struct {
		name  string
		model any
	}{
		{"pages", &model.Page{}},
		{"frames", &model.Frame{}},
		{"chapters", &model.Chapter{}},
		{"blocks", &model.Block{}},
	} {
		var count int64
		env.db.Model(probe.model).Where("storybook_id = ?", sb.ID).Count(&count)
		if count != 0 {
			t.Fatalf("expected no %s left after cascade, got %d", probe.name, count)
		}
	}
}
