package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// OCRService calls the OCR collaborator for image-dominant documents.
type OCRService struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewOCRService creates a new OCRService instance
func NewOCRService() (*OCRService, error) {
	apiKey := os.Getenv("OCR_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("OCR_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("OCR_API_KEY or OCR_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("OCR_API_URL")
	if apiURL == "" {
		apiURL = "https://api.ocr.space/parse/pdf"
	}

	return &OCRService{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// OCR submits a single-page document and returns the recognized text.
func (s *OCRService) OCR(ctx context.Context, page []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCR request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Text, nil
}
