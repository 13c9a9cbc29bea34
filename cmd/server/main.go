package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/aidocs/backend/config"
	"github.com/aidocs/backend/internal/eventbus"
	"github.com/aidocs/backend/internal/handler"
	"github.com/aidocs/backend/internal/pkg/database"
	"github.com/aidocs/backend/internal/pkg/llm"
	"github.com/aidocs/backend/internal/repository"
	"github.com/aidocs/backend/internal/router"
	"github.com/aidocs/backend/internal/service"
	"github.com/aidocs/backend/internal/subscriber"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"k8s.io/klog/v2"
)

func main() {
	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	// .env 可选，仅用于本地开发
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		klog.Warningf("加载 .env 失败: %v", err)
	}

	klog.V(6).Info("服务启动中...")

	cfg := config.GetConfig()

	// 初始化数据库
	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	sectionRepo := repository.NewSectionRepository(db)

	// 初始化内容生成器，未配置 API Key 时直接使用兜底内容
	var chatModel einomodel.BaseChatModel
	if cfg.LLM.APIKey != "" {
		chatModel, err = llm.NewChatModel(context.Background(), cfg.LLM)
		if err != nil {
			klog.Warningf("创建 ChatModel 失败，使用兜底内容: %v", err)
			chatModel = nil
		}
	} else {
		klog.Warningf("未配置 OPENAI_API_KEY，所有生成请求都将使用兜底内容")
	}
	generator := llm.NewGenerator(chatModel,
		llm.WithTimeout(cfg.LLM.Timeout),
		llm.WithRateLimit(cfg.LLM.RequestsPerSecond),
	)

	// 事件总线
	projectBus := eventbus.NewProjectEventBus()
	sectionBus := eventbus.NewSectionEventBus()
	subscriber.NewActivitySubscriber().Register(projectBus, sectionBus)

	// 初始化 Service
	authService := service.NewAuthService(cfg, userRepo)
	projectService := service.NewProjectService(cfg, projectRepo, sectionRepo, generator, projectBus)
	sectionService := service.NewSectionService(projectRepo, sectionRepo, generator, sectionBus)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	sectionHandler := handler.NewSectionHandler(sectionService)

	// 设置路由
	r := router.Setup(cfg, authService, authHandler, projectHandler, sectionHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
