package client

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// PageText is the recognized text of one page image, one entry per text
// line, with the engine's mean confidence on a 0-100 scale.
type PageText struct {
	Lines      []string
	Confidence float64
}

type TesseractClient struct {
	dataPath  string
	languages []string
}

func NewTesseractClient(dataPath, language string) *TesseractClient {
	languages := strings.Split(language, "+")
	if language == "" {
		languages = []string{"eng"}
	}
	return &TesseractClient{
		dataPath:  dataPath,
		languages: languages,
	}
}

// Name identifies the engine in logs and responses.
func (tc *TesseractClient) Name() string {
	return "tesseract"
}

// Recognize runs Tesseract on an encoded image (PNG, JPEG, TIFF).
// A gosseract client is not safe for concurrent use, so one is created per
// call.
func (tc *TesseractClient) Recognize(ctx context.Context, image []byte) (PageText, error) {
	if err := ctx.Err(); err != nil {
		return PageText{}, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		client.SetTessdataPrefix(tc.dataPath)
	}

	if err := client.SetLanguage(tc.languages...); err != nil {
		return PageText{}, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(image); err != nil {
		return PageText{}, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return PageText{}, fmt.Errorf("failed to extract text: %w", err)
	}

	page := PageText{Lines: splitRecognizedLines(text)}

	// Get bounding boxes to calculate confidence
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// If bounding boxes fail, just return text and 0 confidence
		log.Printf("Tesseract bounding boxes unavailable: %v", err)
		return page, nil
	}

	var totalConf float64
	for _, box := range boxes {
		totalConf += box.Confidence
	}
	if len(boxes) > 0 {
		page.Confidence = totalConf / float64(len(boxes))
	}

	return page, nil
}

// Close performs cleanup
func (tc *TesseractClient) Close() {
	log.Println("Tesseract client closed")
}

// splitRecognizedLines keeps every non-blank line of engine output, trimmed
// of trailing whitespace. Engines emit blank lines between blocks; those are
// layout, not text.
func splitRecognizedLines(text string) []string {
	text = strings.ReplaceAll(text, "\r", "")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
