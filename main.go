package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Aashish23092/interest-notice-validator/config"
	"github.com/Aashish23092/interest-notice-validator/handler"
	"github.com/Aashish23092/interest-notice-validator/logging"
	"github.com/Aashish23092/interest-notice-validator/service"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	// Initialize configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gin.SetMode(cfg.GinMode)

	// Initialize service layer
	pdfProcessor := service.NewPDFProcessor()
	noticeService := service.NewNoticeService(pdfProcessor, logger)

	// Initialize handler layer
	noticeHandler := handler.NewNoticeHandler(noticeService, cfg.MaxFileSize, logger)

	router := handler.NewRouter(noticeHandler, logger, handler.RouterOptions{
		MaxMultipartMemory: cfg.MaxMultipartMemory,
		RequestTimeout:     cfg.RequestTimeout,
	})

	// Start server
	logger.Info("starting interest notice validator",
		zap.String("port", cfg.ServerPort),
		zap.Int64("max_file_size", cfg.MaxFileSize),
		zap.String("gin_mode", cfg.GinMode),
	)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
