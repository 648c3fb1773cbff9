package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/storycanvas/backend/internal/model"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db error: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Storybook{}, &model.Page{}, &model.Frame{},
		&model.Chapter{}, &model.Block{},
	); err != nil {
		t.Fatalf("migrate error: %v", err)
	}
	return db
}

func seedStorybookWithPage(t *testing.T, db *gorm.DB) (*model.Storybook, *model.Page) {
	t.Helper()
	sb := &model.Storybook{UUID: "uuid-1", OwnerID: "owner-1", Title: "测试", Status: model.StatusDraft}
	if err := db.Create(sb).Error; err != nil {
		t.Fatalf("seed storybook error: %v", err)
	}
	page := &model.Page{StorybookID: sb.ID, OwnerID: sb.OwnerID, SizePreset: model.SizePortrait, Width: 1536, Height: 2048}
	if err := db.Create(page).Error; err != nil {
		t.Fatalf("seed page error: %v", err)
	}
	return sb, page
}

func seedFrame(t *testing.T, repo FrameRepository, sb *model.Storybook, page *model.Page) *model.Frame {
	t.Helper()
	frame := &model.Frame{
		PageID:      page.ID,
		StorybookID: sb.ID,
		OwnerID:     sb.OwnerID,
		Type:        model.NodeText,
		W:           320, H: 120,
		Content: model.DefaultContent(model.NodeText),
		Version: 1,
	}
	if err := repo.Create(frame, nil); err != nil {
		t.Fatalf("create frame error: %v", err)
	}
	return frame
}

func TestFrameRepository_CreateAppendsToTop(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFrameRepository(db)
	sb, page := seedStorybookWithPage(t, db)

	for i := 1; i <= 3; i++ {
		frame := seedFrame(t, repo, sb, page)
		if frame.ZIndex != i {
			t.Fatalf("expected z index %d, got %d", i, frame.ZIndex)
		}
	}
}

func TestFrameRepository_UpdateCASExpectedVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFrameRepository(db)
	sb, page := seedStorybookWithPage(t, db)
	frame := seedFrame(t, repo, sb, page)

	expected := 1
	err := repo.UpdateCAS(frame.ID, sb.ID, &expected, map[string]any{"x": 42.0})
	if err != nil {
		t.Fatalf("cas update error: %v", err)
	}
	got, err := repo.Get(frame.ID)
	if err != nil {
		t.Fatalf("get frame error: %v", err)
	}
	if got.X != 42 || got.Version != 2 {
		t.Fatalf("expected x=42 version=2, got x=%v version=%d", got.X, got.Version)
	}

	// 旧版本重放：拒绝且不产生任何写入
	stale := 1
	err = repo.UpdateCAS(frame.ID, sb.ID, &stale, map[string]any{"x": 999.0})
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	got, _ = repo.Get(frame.ID)
	if got.X != 42 || got.Version != 2 {
		t.Fatalf("conflicting update leaked: x=%v version=%d", got.X, got.Version)
	}
}

func TestFrameRepository_UpdateCASWithoutVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFrameRepository(db)
	sb, page := seedStorybookWithPage(t, db)
	frame := seedFrame(t, repo, sb, page)

	if err := repo.UpdateCAS(frame.ID, sb.ID, nil, map[string]any{"y": 7.0}); err != nil {
		t.Fatalf("lww update error: %v", err)
	}
	got, _ := repo.Get(frame.ID)
	if got.Y != 7 || got.Version != 2 {
		t.Fatalf("expected y=7 version=2, got y=%v version=%d", got.Y, got.Version)
	}

	if err := repo.UpdateCAS(99999, sb.ID, nil, map[string]any{"y": 1.0}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFrameRepository_UpdateCASEncodesJSONColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFrameRepository(db)
	sb, page := seedStorybookWithPage(t, db)
	frame := seedFrame(t, repo, sb, page)

	content := model.NodeContent{Text: &model.TextContent{Text: "标题", Align: "center"}}
	style := model.Style{FontFamily: "Georgia", FontSize: 96}
	err := repo.UpdateCAS(frame.ID, sb.ID, nil, map[string]any{
		"content": content,
		"style":   style,
	})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}

	got, err := repo.Get(frame.ID)
	if err != nil {
		t.Fatalf("get frame error: %v", err)
	}
	if got.Content.Text == nil || got.Content.Text.Align != "center" {
		t.Fatalf("content column did not round-trip: %+v", got.Content)
	}
	if got.Style.FontFamily != "Georgia" || got.Style.FontSize != 96 {
		t.Fatalf("style column did not round-trip: %+v", got.Style)
	}
}

func TestFrameRepository_MutationsTouchStorybook(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFrameRepository(db)
	sb, page := seedStorybookWithPage(t, db)

	var before model.Storybook
	db.First(&before, sb.ID)
	time.Sleep(10 * time.Millisecond)

	seedFrame(t, repo, sb, page)

	var after model.Storybook
	db.First(&after, sb.ID)
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Fatalf("expected storybook updated_at to advance: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestFrameRepository_DuplicateResetsVersionAndTimestamps(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFrameRepository(db)
	sb, page := seedStorybookWithPage(t, db)
	frame := seedFrame(t, repo, sb, page)

	expected := 1
	if err := repo.UpdateCAS(frame.ID, sb.ID, &expected, map[string]any{"x": 5.0}); err != nil {
		t.Fatalf("update error: %v", err)
	}
	src, _ := repo.Get(frame.ID)

	clone, err := repo.Duplicate(src)
	if err != nil {
		t.Fatalf("duplicate error: %v", err)
	}
	if clone.ID == src.ID {
		t.Fatalf("clone shares id with source")
	}
	if clone.Version != 1 {
		t.Fatalf("clone starts at version %d", clone.Version)
	}
	if clone.ZIndex != src.ZIndex+1 {
		t.Fatalf("expected clone above source, got z=%d", clone.ZIndex)
	}
	if clone.CreatedAt.IsZero() {
		t.Fatalf("clone created_at not assigned")
	}
}
