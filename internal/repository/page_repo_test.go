package repository

import (
	"errors"
	"testing"

	"github.com/storycanvas/backend/internal/model"
	"github.com/storycanvas/backend/internal/ordering"
	"gorm.io/gorm"
)

func seedPages(t *testing.T, db *gorm.DB, repo PageRepository, sb *model.Storybook, n int) []*model.Page {
	t.Helper()
	pages := make([]*model.Page, 0, n)
	for i := 0; i < n; i++ {
		page := &model.Page{
			StorybookID: sb.ID,
			OwnerID:     sb.OwnerID,
			SizePreset:  model.SizePortrait,
			Width:       1536, Height: 2048,
		}
		if err := repo.Append(page); err != nil {
			t.Fatalf("append page error: %v", err)
		}
		pages = append(pages, page)
	}
	return pages
}

func TestPageRepository_AppendAssignsNextIndex(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPageRepository(db)
	sb, _ := seedStorybookWithPage(t, db)

	// 种子页占据 0 号位，后续追加依次排在其后
	pages := seedPages(t, db, repo, sb, 2)
	if pages[0].OrderIndex != 1 || pages[1].OrderIndex != 2 {
		t.Fatalf("unexpected indexes: %d, %d", pages[0].OrderIndex, pages[1].OrderIndex)
	}
}

func TestPageRepository_DeleteAndCompact(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPageRepository(db)
	frameRepo := NewFrameRepository(db)
	sb, seed := seedStorybookWithPage(t, db)
	pages := seedPages(t, db, repo, sb, 2)
	frame := seedFrame(t, frameRepo, sb, seed)

	if err := repo.DeleteAndCompact(seed); err != nil {
		t.Fatalf("delete page error: %v", err)
	}

	remaining, err := repo.ListByStorybook(sb.ID)
	if err != nil {
		t.Fatalf("list pages error: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(remaining))
	}
	if remaining[0].ID != pages[0].ID || remaining[0].OrderIndex != 0 {
		t.Fatalf("unexpected first page: id=%d index=%d", remaining[0].ID, remaining[0].OrderIndex)
	}
	if remaining[1].ID != pages[1].ID || remaining[1].OrderIndex != 1 {
		t.Fatalf("unexpected second page: id=%d index=%d", remaining[1].ID, remaining[1].OrderIndex)
	}

	var count int64
	db.Model(&model.Frame{}).Where("id = ?", frame.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected frames of deleted page to be removed")
	}
}

func TestPageRepository_Reorder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPageRepository(db)
	sb, seed := seedStorybookWithPage(t, db)
	pages := seedPages(t, db, repo, sb, 2)

	if err := repo.Reorder(sb.ID, []uint{pages[1].ID, seed.ID, pages[0].ID}); err != nil {
		t.Fatalf("reorder error: %v", err)
	}
	got, err := repo.ListByStorybook(sb.ID)
	if err != nil {
		t.Fatalf("list pages error: %v", err)
	}
	wantOrder := []uint{pages[1].ID, seed.ID, pages[0].ID}
	for i, p := range got {
		if p.ID != wantOrder[i] || p.OrderIndex != i {
			t.Fatalf("position %d: expected page %d, got id=%d index=%d", i, wantOrder[i], p.ID, p.OrderIndex)
		}
	}

	if err := repo.Reorder(sb.ID, []uint{seed.ID}); !errors.Is(err, ordering.ErrInvalidReorder) {
		t.Fatalf("expected ErrInvalidReorder, got %v", err)
	}
}

func TestPageRepository_DuplicateClonesFrames(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPageRepository(db)
	frameRepo := NewFrameRepository(db)
	sb, seed := seedStorybookWithPage(t, db)
	pages := seedPages(t, db, repo, sb, 1)
	seedFrame(t, frameRepo, sb, seed)
	seedFrame(t, frameRepo, sb, seed)

	clone, err := repo.Duplicate(seed)
	if err != nil {
		t.Fatalf("duplicate page error: %v", err)
	}
	if clone.OrderIndex != 1 {
		t.Fatalf("expected clone at index 1, got %d", clone.OrderIndex)
	}

	got, err := repo.ListByStorybook(sb.ID)
	if err != nil {
		t.Fatalf("list pages error: %v", err)
	}
	wantOrder := []uint{seed.ID, clone.ID, pages[0].ID}
	for i, p := range got {
		if p.ID != wantOrder[i] || p.OrderIndex != i {
			t.Fatalf("position %d: expected page %d, got id=%d index=%d", i, wantOrder[i], p.ID, p.OrderIndex)
		}
	}

	cloned, err := frameRepo.ListByPage(clone.ID)
	if err != nil {
		t.Fatalf("list cloned frames error: %v", err)
	}
	if len(cloned) != 2 {
		t.Fatalf("expected 2 cloned frames, got %d", len(cloned))
	}
	for i, f := range cloned {
		if f.PageID != clone.ID {
			t.Fatalf("cloned frame %d points at page %d", i, f.PageID)
		}
		if f.ZIndex != i+1 || f.Version != 1 {
			t.Fatalf("cloned frame %d has z=%d version=%d", i, f.ZIndex, f.Version)
		}
	}
}

func TestStorybookRepository_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStorybookRepository(db)

	if _, err := repo.Get(12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
