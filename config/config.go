package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EngineTesseract = "tesseract"
	EnginePaddle    = "paddle"
)

type Config struct {
	ServerPort        string
	TesseractDataPath string
	OCRLanguage       string
	OCREngine         string
	PaddleAPIURL      string
	OCRTimeout        time.Duration
	MaxFileSize       int64

	// OCRWorkers caps concurrent page recognition; 0 means one per CPU.
	OCRWorkers int

	// PageMarkers inserts "--- Page n ---" before each page's text.
	PageMarkers     bool
	PreferTextLayer bool
	ScanBarcodes    bool

	// KeysFile replaces the built-in "common keys" list when set.
	KeysFile string
}

func LoadConfig() *Config {
	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		TesseractDataPath: getEnv("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/"),
		OCRLanguage:       getEnv("OCR_LANGUAGE", "eng"),
		OCREngine:         strings.ToLower(getEnv("OCR_ENGINE", EngineTesseract)),
		PaddleAPIURL:      getEnv("PADDLEOCR_API_URL", "http://paddleocr:8866/predict/ocr_system"),
		OCRTimeout:        getEnvAsDuration("OCR_TIMEOUT", 2*time.Minute),
		MaxFileSize:       getEnvAsInt64("MAX_FILE_SIZE", 10*1024*1024), // 10 MB
		OCRWorkers:        int(getEnvAsInt64("OCR_WORKERS", 0)),
		PageMarkers:       getEnvAsBool("PAGE_MARKERS", true),
		PreferTextLayer:   getEnvAsBool("PREFER_TEXT_LAYER", false),
		ScanBarcodes:      getEnvAsBool("SCAN_BARCODES", false),
		KeysFile:          getEnv("KEYS_FILE", ""),
	}
}

// Validate checks the values that would otherwise fail late, at request time.
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	switch c.OCREngine {
	case EngineTesseract, EnginePaddle:
	default:
		return fmt.Errorf("unknown OCR_ENGINE %q (expected %s or %s)", c.OCREngine, EngineTesseract, EnginePaddle)
	}
	if c.OCREngine == EnginePaddle && c.PaddleAPIURL == "" {
		return fmt.Errorf("PADDLEOCR_API_URL is required for the paddle engine")
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.MaxFileSize)
	}
	if c.OCRWorkers < 0 {
		return fmt.Errorf("OCR_WORKERS must not be negative, got %d", c.OCRWorkers)
	}
	if c.OCRTimeout <= 0 {
		return fmt.Errorf("OCR_TIMEOUT must be positive, got %s", c.OCRTimeout)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
