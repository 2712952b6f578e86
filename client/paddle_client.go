package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// PaddleClient calls a PaddleOCR serving endpoint
// (hub serving "ocr_system") over HTTP.
type PaddleClient struct {
	apiURL     string
	httpClient *http.Client
}

// NewPaddleClient creates a new PaddleOCR client
func NewPaddleClient(apiURL string, timeout time.Duration) *PaddleClient {
	if timeout <= 0 {
		timeout = time.Minute
	}
	log.Printf("PaddleOCR initialized with API: %s", apiURL)
	return &PaddleClient{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *PaddleClient) Name() string {
	return "paddle"
}

type paddleResponse struct {
	Results [][]struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"results"`
}

// Recognize sends one encoded page image and returns its text lines in the
// order the engine reports them.
func (p *PaddleClient) Recognize(ctx context.Context, image []byte) (PageText, error) {
	payload := map[string]interface{}{
		"images": []string{base64.StdEncoding.EncodeToString(image)},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return PageText{}, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(payloadBytes))
	if err != nil {
		return PageText{}, fmt.Errorf("failed to build PaddleOCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return PageText{}, fmt.Errorf("failed to call PaddleOCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return PageText{}, fmt.Errorf("PaddleOCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result paddleResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return PageText{}, fmt.Errorf("failed to decode PaddleOCR response: %w", err)
	}

	var page PageText
	if len(result.Results) == 0 {
		return page, nil
	}

	var totalConf float64
	for _, line := range result.Results[0] {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		page.Lines = append(page.Lines, text)
		totalConf += line.Confidence
	}
	if n := len(page.Lines); n > 0 {
		page.Confidence = totalConf / float64(n)
		// PaddleOCR scores are 0-1; Tesseract's are 0-100
		if page.Confidence <= 1 {
			page.Confidence *= 100
		}
	}

	log.Printf("PaddleOCR HTTP API recognized %d lines", len(page.Lines))
	return page, nil
}
