package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/ocr-form-extractor/config"
	"github.com/Aashish23092/ocr-form-extractor/handler"
	"github.com/Aashish23092/ocr-form-extractor/service"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Printf("OCR engine: %s, TESSDATA_PREFIX: %s", cfg.OCREngine, cfg.TesseractDataPath)

	defaultKeys, err := cfg.DefaultKeys()
	if err != nil {
		log.Fatalf("Failed to load default keys: %v", err)
	}
	log.Printf("Loaded %d default keys", len(defaultKeys))

	// Initialize service layer
	ocrService, err := service.NewOCRServiceFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize OCR: %v", err)
	}
	extractionService := service.NewExtractionService(ocrService, defaultKeys, cfg.PageMarkers, cfg.OCRTimeout)
	exportService := service.NewExportService()

	// Initialize handler layer
	extractHandler := handler.NewExtractHandler(extractionService, exportService, cfg.MaxFileSize)

	// Setup Gin router
	router := gin.Default()

	// Leave headroom over the file cap for the other form fields
	router.MaxMultipartMemory = cfg.MaxFileSize + 1<<20

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "OCR Form Extractor",
			"engine":  cfg.OCREngine,
		})
	})

	// API routes
	api := router.Group("/api/v1")
	extractHandler.RegisterRoutes(api)

	// Start server
	log.Printf("Starting OCR Form Extractor on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
