package main

import (
	"flag"
	"log"
	"os"

	"k8s.io/klog/v2"

	"github.com/docuassist/backend/config"
	"github.com/docuassist/backend/internal/handler"
	"github.com/docuassist/backend/internal/pkg/database"
	"github.com/docuassist/backend/internal/repository"
	"github.com/docuassist/backend/internal/router"
	"github.com/docuassist/backend/internal/service"
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

	// 预置模板
	if err := service.InitDefaultTemplates(db); err != nil {
		log.Fatalf("Failed to seed default templates: %v", err)
	}

	// 初始化 Repository
	templateRepo := repository.NewTemplateRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// 初始化 Service
	settingsService := service.NewSettingsService(settingsRepo, cfg)
	templateService := service.NewTemplateService(templateRepo)
	documentService := service.NewDocumentService(documentRepo)
	chatService := service.NewChatService(templateRepo, documentRepo, settingsService)

	// 初始化 Handler
	templateHandler := handler.NewTemplateHandler(templateService)
	docHandler := handler.NewDocumentHandler(documentService)
	chatHandler := handler.NewChatHandler(chatService)
	settingsHandler := handler.NewSettingsHandler(settingsService)

	// 设置路由
	r := router.Setup(cfg, templateHandler, docHandler, chatHandler, settingsHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
