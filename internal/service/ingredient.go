package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/platefile/backend/internal/types"
)

// IngredientService maps raw ingredient lines to normalized records.
// When the parsing collaborator fails, for any reason including missing
// credentials, it fails open: one record per line with nil quantity and
// unit and the raw line as the name. Ingredients are never dropped
// because a parsing dependency is unavailable.
type IngredientService struct {
	parser IngredientParser
}

// NewIngredientService creates a new IngredientService instance
func NewIngredientService(parser IngredientParser) *IngredientService {
	return &IngredientService{parser: parser}
}

// Normalize parses the given lines into normalized ingredients.
func (s *IngredientService) Normalize(ctx context.Context, lines []string) []types.NormalizedIngredient {
	parsed, err := s.parser.Parse(ctx, lines)
	if err != nil || len(parsed) != len(lines) {
		if err != nil {
			log.Printf("[IngredientService] parser unavailable, failing open: %v", err)
		} else {
			log.Printf("[IngredientService] parser returned %d results for %d lines, failing open", len(parsed), len(lines))
		}
		return failOpen(lines)
	}

	result := make([]types.NormalizedIngredient, len(parsed))
	for i, p := range parsed {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = strings.TrimSpace(lines[i])
		}
		result[i] = types.NormalizedIngredient{
			RawText:     lines[i],
			Quantity:    p.Quantity,
			Unit:        normalizeUnit(p.Unit),
			Name:        name,
			Preparation: p.PreparationNotes,
		}
	}
	return result
}

// failOpen degrades output quality instead of aborting: the raw line
// becomes the name, quantity and unit stay unknown.
func failOpen(lines []string) []types.NormalizedIngredient {
	result := make([]types.NormalizedIngredient, len(lines))
	for i, line := range lines {
		result[i] = types.NormalizedIngredient{
			RawText: line,
			Name:    line,
		}
	}
	return result
}

// normalizeUnit lower-cases and trims a parsed unit. Empty units collapse
// to nil (unitless).
func normalizeUnit(unit *string) *string {
	if unit == nil {
		return nil
	}
	u := strings.ToLower(strings.TrimSpace(*unit))
	if u == "" {
		return nil
	}
	return &u
}

// ZestfulClient calls the ingredient-parsing collaborator. A client
// constructed without credentials is still usable; its calls return
// errors and the ingredient service falls open at the call site.
type ZestfulClient struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewZestfulClient creates a new ZestfulClient instance
func NewZestfulClient() *ZestfulClient {
	apiURL := os.Getenv("ZESTFUL_API_URL")
	if apiURL == "" {
		apiURL = "https://zestful.p.rapidapi.com/parseIngredients"
	}

	return &ZestfulClient{
		apiKey: os.Getenv("ZESTFUL_API_KEY"),
		apiURL: apiURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Parse submits raw lines and returns one parsed record per line.
func (c *ZestfulClient) Parse(ctx context.Context, lines []string) ([]types.ParsedIngredient, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("ZESTFUL_API_KEY is not set")
	}

	reqBody := struct {
		Ingredients []string `json:"ingredients"`
	}{Ingredients: lines}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parser request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Results []struct {
			Input      string `json:"input"`
			Ingredient struct {
				Quantity         *float64 `json:"quantity"`
				Unit             *string  `json:"unit"`
				Product          string   `json:"product"`
				PreparationNotes *string  `json:"preparationNotes"`
			} `json:"ingredientParsed"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	parsed := make([]types.ParsedIngredient, len(result.Results))
	for i, r := range result.Results {
		parsed[i] = types.ParsedIngredient{
			Input:            r.Input,
			Quantity:         r.Ingredient.Quantity,
			Unit:             r.Ingredient.Unit,
			Name:             r.Ingredient.Product,
			PreparationNotes: r.Ingredient.PreparationNotes,
		}
	}
	return parsed, nil
}
