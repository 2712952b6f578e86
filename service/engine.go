package service

import (
	"fmt"

	"github.com/Aashish23092/ocr-form-extractor/client"
	"github.com/Aashish23092/ocr-form-extractor/config"
	"github.com/Aashish23092/ocr-form-extractor/dto"
)

// NewOCREngine builds the engine named by cfg.OCREngine.
func NewOCREngine(cfg *config.Config) (OCREngine, error) {
	switch cfg.OCREngine {
	case config.EngineTesseract, "":
		return client.NewTesseractClient(cfg.TesseractDataPath, cfg.OCRLanguage), nil
	case config.EnginePaddle:
		return client.NewPaddleClient(cfg.PaddleAPIURL, cfg.OCRTimeout), nil
	}
	return nil, fmt.Errorf("%w: %s", dto.ErrUnknownEngine, cfg.OCREngine)
}

// NewOCRServiceFromConfig wires the engine, PDF processor and optional QR
// scanner selected by cfg.
func NewOCRServiceFromConfig(cfg *config.Config) (*OCRService, error) {
	engine, err := NewOCREngine(cfg)
	if err != nil {
		return nil, err
	}
	var scanner BarcodeScanner
	if cfg.ScanBarcodes {
		scanner = NewQRScanner()
	}
	svc := NewOCRService(engine, NewPDFProcessor(), scanner, cfg.PreferTextLayer)
	svc.SetWorkers(cfg.OCRWorkers)
	return svc, nil
}
