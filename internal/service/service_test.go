package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/storycanvas/backend/internal/eventbus"
	"github.com/storycanvas/backend/internal/model"
	"github.com/storycanvas/backend/internal/repository"
	"gorm.io/gorm"
)

// testEnv 基于内存 sqlite 的全栈服务测试环境
type testEnv struct {
	db         *gorm.DB
	gate       *AccessGate
	storybooks *StorybookService
	pages      *PageService
	frames     *FrameService
	canvas     *CanvasService
	chapters   *ChapterService
	blocks     *BlockService
}

func newTestEnv(t *testing.T) *testEnv {
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

	storybookRepo := repository.NewStorybookRepository(db)
	pageRepo := repository.NewPageRepository(db)
	frameRepo := repository.NewFrameRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	blockRepo := repository.NewBlockRepository(db)

	bus := eventbus.NewCanvasEventBus()
	gate := NewAccessGate(storybookRepo)
	pageSvc := NewPageService(gate, storybookRepo, pageRepo, bus)
	frameSvc := NewFrameService(gate, pageRepo, frameRepo, bus)

	return &testEnv{
		db:         db,
		gate:       gate,
		storybooks: NewStorybookService(gate, storybookRepo, bus),
		pages:      pageSvc,
		frames:     frameSvc,
		canvas:     NewCanvasService(gate, pageRepo, pageSvc, frameSvc),
		chapters:   NewChapterService(gate, chapterRepo, bus),
		blocks:     NewBlockService(gate, chapterRepo, blockRepo, bus),
	}
}

// mustCreateStorybook 以 owner-1 创建故事书
func (e *testEnv) mustCreateStorybook(t *testing.T, title string) *model.Storybook {
	t.Helper()
	sb, err := e.storybooks.Create(context.Background(), "owner-1", CreateStorybookRequest{Title: title})
	if err != nil {
		t.Fatalf("create storybook error: %v", err)
	}
	return sb
}

func (e *testEnv) mustCreatePage(t *testing.T, storybookID uint) *model.Page {
	t.Helper()
	page, err := e.pages.Create(context.Background(), "owner-1", CreatePageRequest{StorybookID: storybookID})
	if err != nil {
		t.Fatalf("create page error: %v", err)
	}
	return page
}

func (e *testEnv) mustCreateFrame(t *testing.T, pageID uint, nodeType model.NodeType) *model.Frame {
	t.Helper()
	frame, err := e.frames.Create(context.Background(), "owner-1", CreateFrameRequest{PageID: pageID, Type: nodeType})
	if err != nil {
		t.Fatalf("create frame error: %v", err)
	}
	return frame
}

func intPtr(v int) *int { return &v }
