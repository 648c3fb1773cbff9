package main

import (
	"context"
	"flag"
	"log"
	"os"

	"k8s.io/klog/v2"

	"github.com/storycanvas/backend/config"
	"github.com/storycanvas/backend/internal/eventbus"
	"github.com/storycanvas/backend/internal/handler"
	"github.com/storycanvas/backend/internal/pkg/database"
	"github.com/storycanvas/backend/internal/repository"
	"github.com/storycanvas/backend/internal/router"
	"github.com/storycanvas/backend/internal/service"
)

func main() {
	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	klog.V(6).Info("服务启动中...")

	cfg := config.GetConfig()

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// 初始化数据库
	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化 Repository
	storybookRepo := repository.NewStorybookRepository(db)
	pageRepo := repository.NewPageRepository(db)
	frameRepo := repository.NewFrameRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	blockRepo := repository.NewBlockRepository(db)

	// 初始化事件总线，导出等下游消费方据此探测脏文档
	bus := eventbus.NewCanvasEventBus()
	bus.Subscribe(eventbus.CanvasStorybookTouched, func(ctx context.Context, event eventbus.CanvasEvent) error {
		klog.V(6).Infof("故事书 %d 内容已变更", event.StorybookID)
		return nil
	})

	// 初始化 Service
	gate := service.NewAccessGate(storybookRepo)
	storybookService := service.NewStorybookService(gate, storybookRepo, bus)
	pageService := service.NewPageService(gate, storybookRepo, pageRepo, bus)
	frameService := service.NewFrameService(gate, pageRepo, frameRepo, bus)
	canvasService := service.NewCanvasService(gate, pageRepo, pageService, frameService)
	chapterService := service.NewChapterService(gate, chapterRepo, bus)
	blockService := service.NewBlockService(gate, chapterRepo, blockRepo, bus)

	// 初始化 Handler
	storybookHandler := handler.NewStorybookHandler(storybookService, canvasService)
	pageHandler := handler.NewPageHandler(pageService)
	frameHandler := handler.NewFrameHandler(frameService)
	chapterHandler := handler.NewChapterHandler(chapterService)
	blockHandler := handler.NewBlockHandler(blockService)

	// 设置路由
	r := router.Setup(cfg, storybookHandler, pageHandler, frameHandler, chapterHandler, blockHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
