package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/config"
	"github.com/weibaohui/openreceptionist/internal/eventbus"
	"github.com/weibaohui/openreceptionist/internal/handler"
	"github.com/weibaohui/openreceptionist/internal/pkg/database"
	"github.com/weibaohui/openreceptionist/internal/pkg/directory"
	"github.com/weibaohui/openreceptionist/internal/repository"
	"github.com/weibaohui/openreceptionist/internal/router"
	"github.com/weibaohui/openreceptionist/internal/service"
	"github.com/weibaohui/openreceptionist/internal/service/receptionist"
	"github.com/weibaohui/openreceptionist/internal/session"
	"github.com/weibaohui/openreceptionist/internal/subscriber"
)

func main() {
	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	klog.V(6).Info("服务启动中...")

	cfg := config.GetConfig()

	if cfg.Database.Type == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}

	// 初始化数据库
	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化 Repository
	callRepo := repository.NewCallRepository(db)
	noteRepo := repository.NewCallNoteRepository(db)
	quoteRepo := repository.NewQuoteRequestRepository(db)
	messageRepo := repository.NewMessageRequestRepository(db)

	// 会话表与事件总线
	sessions := session.NewManager()
	callBus := eventbus.NewCallEventBus()

	// 通话结束时落库并销毁会话
	callSubscriber := subscriber.NewCallEventSubscriber(sessions, callRepo, noteRepo, quoteRepo, messageRepo)
	callSubscriber.Register(callBus)

	// 客户目录客户端：按配置选 webhook 或内置样例
	dirClient := directory.New(cfg)

	// 初始化 Service
	callService := service.NewCallService(cfg, sessions, callBus, callRepo, dirClient)

	// 大模型未配置时只关 Agent 对话，工具直调不受影响
	if cfg.LLM.APIKey != "" {
		chatModel, err := receptionist.NewChatModel(context.Background(), cfg)
		if err != nil {
			klog.Errorf("创建 ChatModel 失败，Agent 对话不可用: %v", err)
		} else {
			callService.SetChatModel(chatModel)
		}
	} else {
		klog.V(6).Info("未配置 LLM API Key，Agent 对话不可用")
	}

	// 初始化 Handler
	callHandler := handler.NewCallHandler(callService)
	streamHandler := handler.NewStreamHandler(callService)
	crmMockHandler := handler.NewCRMMockHandler(cfg)

	// 设置路由
	r := router.Setup(cfg, callHandler, streamHandler, crmMockHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
