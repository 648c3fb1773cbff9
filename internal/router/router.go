package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/storycanvas/backend/config"
	"github.com/storycanvas/backend/internal/handler"
)

func Setup(
	cfg *config.Config,
	storybookHandler *handler.StorybookHandler,
	pageHandler *handler.PageHandler,
	frameHandler *handler.FrameHandler,
	chapterHandler *handler.ChapterHandler,
	blockHandler *handler.BlockHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", handler.CallerHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	api := r.Group("/api")
	{
		storybooks := api.Group("/storybooks")
		{
			storybooks.POST("", storybookHandler.Create)
			storybooks.GET("", storybookHandler.List)
			storybooks.GET("/:id", storybookHandler.Get)
			storybooks.PUT("/:id", storybookHandler.Update)
			storybooks.DELETE("/:id", storybookHandler.Delete)
			storybooks.POST("/:id/canvas", storybookHandler.EnsureCanvas) // 幂等引导默认画布
			storybooks.POST("/:id/pages", pageHandler.Create)
			storybooks.GET("/:id/pages", pageHandler.List)
			storybooks.POST("/:id/pages/reorder", pageHandler.Reorder)
			storybooks.GET("/:id/frames", frameHandler.ListByStorybook) // 导出方拉平画布用
			storybooks.POST("/:id/chapters", chapterHandler.Create)
			storybooks.GET("/:id/chapters", chapterHandler.List)
			storybooks.POST("/:id/chapters/reorder", chapterHandler.Reorder)
		}

		pages := api.Group("/pages")
		{
			pages.PUT("/:id", pageHandler.Update)
			pages.DELETE("/:id", pageHandler.Delete)
			pages.POST("/:id/duplicate", pageHandler.Duplicate)
			pages.POST("/:id/frames", frameHandler.Create)
			pages.GET("/:id/frames", frameHandler.ListByPage)
		}

		frames := api.Group("/frames")
		{
			frames.PUT("/:id", frameHandler.Update)
			frames.DELETE("/:id", frameHandler.Delete)
			frames.POST("/:id/duplicate", frameHandler.Duplicate)
		}

		chapters := api.Group("/chapters")
		{
			chapters.PUT("/:id", chapterHandler.Update)
			chapters.DELETE("/:id", chapterHandler.Delete)
			chapters.POST("/:id/duplicate", chapterHandler.Duplicate)
			chapters.POST("/:id/blocks", blockHandler.Create)
			chapters.GET("/:id/blocks", blockHandler.List)
		}

		blocks := api.Group("/blocks")
		{
			blocks.PUT("/:id", blockHandler.Update)
			blocks.DELETE("/:id", blockHandler.Delete)
		}
	}

	return r
}
