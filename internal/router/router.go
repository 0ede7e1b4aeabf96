package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/weibaohui/openreceptionist/config"
	"github.com/weibaohui/openreceptionist/internal/handler"
)

func Setup(
	cfg *config.Config,
	callHandler *handler.CallHandler,
	streamHandler *handler.StreamHandler,
	crmMockHandler *handler.CRMMockHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// WebSocket 升级不能过压缩中间件
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPathsRegexs([]string{`^/api/calls/.*/stream$`})))

	api := r.Group("/api")
	{
		calls := api.Group("/calls")
		{
			calls.POST("", callHandler.Start)
			calls.GET("/:id", callHandler.Get)
			calls.POST("/:id/end", callHandler.End)
			calls.POST("/:id/chat", callHandler.Chat)
			calls.POST("/:id/tools/:name", callHandler.InvokeTool)
			calls.GET("/:id/stream", streamHandler.Stream)
		}

		// 本地 CRM 模拟端点，供联调目录查询
		mock := api.Group("/mock")
		{
			mock.POST("/crm/lookup", crmMockHandler.Lookup)
		}
	}

	return r
}
