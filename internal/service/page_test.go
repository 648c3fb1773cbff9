package service

import (
	"context"
	"errors"
	"testing"

	"github.com/storycanvas/backend/internal/model"
	"github.com/storycanvas/backend/internal/ordering"
)

func TestPageService_CreateAssignsSequentialIndexes(t *testing.T) {
	env := newTestEnv(t)
	sb := env.mustCreateStorybook(t, "测试故事书")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		page := env.mustCreatePage(t, sb.ID)
		if page.OrderIndex != i {
			t.Fatalf("expected order index %d, got %d", i, page.OrderIndex)
		}
	}

	pages, err := env.pages.List(ctx, "owner-1", sb.ID)
	if err != nil {
		t.Fatalf("list pages error: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	for i, p := range pages {
		if p.OrderIndex != i {
			t.Fatalf("page %d has order index %d", i, p.OrderIndex)
		}
	}
}

func TestPageService_CreateAppliesPresetAndDefaults(t *testing.T) {
	env := newTestEnv(t)
	sb := env.mustCreateStorybook(t, "测试故事书")

	page, err := env.pages.Create(context.Background(), "owner-1", CreatePageRequest{
		StorybookID: sb.ID,
		SizePreset:  model.SizeLandscape,
	})
	if err != nil {
		t.Fatalf("create page error: %v", err)
	}
	w, h, _ := model.PresetSize(model.SizeLandscape)
	if page.Width != w || page.Height != h {
		t.Fatalf("expected size %vx%v, got %vx%v", w, h, page.Width, page.Height)
	}
	if page.Margins != model.DefaultMargins() {
		t.Fatalf("unexpected margins: %+v", page.Margins)
	}
	if page.Grid != model.DefaultGrid() {
		t.Fatalf("unexpected grid: %+v", page.Grid)
	}

	// 未指定预设时默认竖版
	page2 := env.mustCreatePage(t, sb.ID)
	if page2.SizePreset != model.SizePortrait {
		t.Fatalf("expected default preset %s, got %s", model.SizePortrait, page2.SizePreset)
	}

	_, err = env.pages.Create(context.Background(), "owner-1", CreatePageRequest{
		StorybookID: sb.ID,
		SizePreset:  "poster",
	})
	if !errors.Is(err, ErrInvalidSizePreset) {
		t.Fatalf("expected ErrInvalidSizePreset, got %v", err)
	}
}

func TestPageService_CreateMarksLayoutEnabled(t *testing.T) {
	env := newTestEnv(t)
	sb := env.mustCreateStorybook(t, "测试故事书")
	env.mustCreatePage(t, sb.ID)

	got, err := env.storybooks.Get(context.Background(), "owner-1", sb.ID)
	if err != nil {
		t.Fatalf("get storybook error: %v", err)
	}
	if enabled, _ := got.Settings[SettingLayoutEnabled].(bool); !enabled {
		t.Fatalf("expected %s=true in settings, got %v", SettingLayoutEnabled, got.Settings)
	}
}

func TestPageService_RemoveCompactsIndexes(t *testing.T) {
	env := newTestEnv(t)
	sb := env.mustCreateStorybook(t, "测试故事书")
	ctx := context.Background()

	p0 := env.mustCreatePage(t, sb.ID)
	p1 := env.mustCreatePage(t, sb.ID)
	p2 := env.mustCreatePage(t, sb.ID)

	if err := env.pages.Remove(ctx, "owner-1", p1.ID); err != nil {
		t.Fatalf("remove page error: %v", err)
	}

	pages, err := env.pages.List(ctx, "owner-1", sb.ID)
	if err != nil {
		t.Fatalf("list pages error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].ID != p0.ID || pages[0].OrderIndex != 0 {
		t.Fatalf("unexpected first page: id=%d index=%d", pages[0].ID, pages[0].OrderIndex)
	}
	if pages[1].ID != p2.ID || pages[1].OrderIndex != 1 {
		t.Fatalf("unexpected second page: id=%d index=%d", pages[1].ID, pages[1].OrderIndex)
	}
}

func TestPageService_RemoveDeletesFrames(t *testing.T) {
	env := newTestEnv(t)
	sb := env.mustCreateStorybook(t, "测试故事书")
	page := env.mustCreatePage(t, sb.ID)
	frame := env.mustCreateFrame(t, page.ID, model.NodeText)

	if err := env.pages.Remove(context.Background(), "owner-1", page.ID); err != nil {
		t.Fatalf("remove page error: %v", err)
	}
	var count int64
	env.db.Model(&model.Frame{}).Where("id = ?", frame.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected frame %d to be deleted with its page", frame.ID)
	}
}

func TestPageService_Reorder(t *testing.T) {
	env := newTestEnv(t)
	sb := env.mustCreateStorybook(t, "测试故事书")
	ctx := context.Background()

	p0 := env.mustCreatePage(t, sb.ID)
	p1 := env.mustCreatePage(t, sb.ID)
	p2 := env.mustCreatePage(t, sb.ID)

	pages, err := env.pages.Reorder(ctx, "owner-1", sb.ID, []uint{p2.ID, p0.ID, p1.ID})
	if err != nil {
		t.Fatalf("reorder error: %v", err)
	}
	wantOrder := []uint{p2.ID, p0.ID, p1.ID}
	for i, p := range pages {
		if p.ID != wantOrder[i] || p.OrderIndex != i {
			t.Fatalf("position %d: expected page %d, got id=%d index=%d", i, wantOrder[i], p.ID, p.OrderIndex)
		}
	}
}

func TestPageService_ReorderRejectsInvalidPermutation(t *testing.T) {
	env := newTestEnv(t)
	sb := env.mustCreateStorybook(t, "测试故事书")
	ctx := context.Background()

	p0 := env.mustCreatePage(t, sb.ID)
	p1 := env.mustCreatePage(t, sb.ID)

	cases := [][]uint{
		{p0.ID},               // 缺少成员
		{p0.ID, p0.ID},        // 重复成员
		{p0.ID, p1.ID, 99999}, // 非本集合成员
	}
	for _, ids := range cases {
		if _, err := env.pages.Reorder(ctx, "owner-1", sb.ID, ids); !errors.Is(err, ordering.ErrInvalidReorder) {
			t.Fatalf("ids %v: expected ErrInvalidReorder, got %v", ids, err)
		}
	}

	// 拒绝后原有顺序不变
	pages, err := env.pages.List(ctx, "owner-1", sb.ID)
	if err != nil {
		t.Fatalf("list pages error: %v", err)
	}
	if pages[0].ID != p0.ID || pages[1].ID != p1.ID {
		t.Fatalf("order changed after rejected reorder: %d, %d", pages[0].ID, pages[1].ID)
	}
}

func TestPageService_DuplicateInsertsAfterSource(t *testing.T) {
	env := newTestEnv(t)
	sb := env.mustCreateStorybook(t, "测试故事书")
	ctx := context.Background()

	p0 := env.mustCreatePage(t, sb.ID)
	p1 := env.mustCreatePage(t, sb.ID)
	env.mustCreateFrame(t, p0.ID, model.NodeText)
	env.mustCreateFrame(t, p0.ID, model.NodeImage)

	clone, err := env.pages.Duplicate(ctx, "owner-1", p0.ID)
	if err != nil {
		t.Fatalf("duplicate page error: %v", err)
	}
	if clone.ID == p0.ID {
		t.Fatalf("clone shares id with source")
	}
	if clone.OrderIndex != 1 {
		t.Fatalf("expected clone at index 1, got %d", clone.OrderIndex)
	}

	pages, err := env.pages.List(ctx, "owner-1", sb.ID)
	if err != nil {
		t.Fatalf("list pages error: %v", err)
	}
	wantOrder := []uint{p0.ID, clone.ID, p1.ID}
	for i, p := range pages {
		if p.ID != wantOrder[i] || p.OrderIndex != i {
			t.Fatalf("position %d: expected page %d, got id=%d index=%d", i, wantOrder[i], p.ID, p.OrderIndex)
		}
	}

	frames, err := env.frames.ListByPage(ctx, "owner-1", clone.ID)
	if err != nil {
		t.Fatalf("list clone frames error: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 cloned frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f.ZIndex != i+1 {
			t.Fatalf("cloned frame %d has z index %d", i, f.ZIndex)
		}
		if f.Version != 1 {
			t.Fatalf("cloned frame %d has version %d", i, f.Version)
		}
	}
}

func TestPageService_UpdatePresetRecomputesSize(t *testing.T) {
	env := newTestEnv(t)
	sb := env.mustCreateStorybook(t, "测试故事书")
	page := env.mustCreatePage(t, sb.ID)

	preset := model.SizeSquare
	updated, err := env.pages.Update(context.Background(), "owner-1", page.ID, UpdatePageRequest{
		SizePreset: &preset,
	})
	if err != nil {
		t.Fatalf("update page error: %v", err)
	}
	w, h, _ := model.PresetSize(model.SizeSquare)
	if updated.Width != w || updated.Height != h {
		t.Fatalf("expected size %vx%v, got %vx%v", w, h, updated.Width, updated.Height)
	}
}
