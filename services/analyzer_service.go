package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"backend/models"
)

// AnalyzerService calls the external recognition API that turns a free-text
// food description into nutrition facts.
type AnalyzerService struct {
	baseURL string
	client  *http.Client
}

func NewAnalyzerService() *AnalyzerService {
	return &AnalyzerService{
		baseURL: os.Getenv("ANALYZER_URL"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type analyzeResponse struct {
	models.NutritionFacts
	Error string `json:"error"`
}

func (s *AnalyzerService) AnalyzeText(ctx context.Context, text string) (models.NutritionFacts, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return models.NutritionFacts{}, fmt.Errorf("failed to marshal analyze payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/api/analyze-text", bytes.NewReader(payload))
	if err != nil {
		return models.NutritionFacts{}, fmt.Errorf("failed to create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return models.NutritionFacts{}, fmt.Errorf("failed to call analyzer: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.NutritionFacts{}, fmt.Errorf("failed to read analyzer response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.NutritionFacts{}, fmt.Errorf("analyzer API error %d: %s", resp.StatusCode, string(body))
	}

	var ar analyzeResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return models.NutritionFacts{}, fmt.Errorf("failed to parse analyzer JSON: %w", err)
	}
	if ar.Error != "" {
		return models.NutritionFacts{}, fmt.Errorf("analyzer rejected input: %s", ar.Error)
	}
	return ar.NutritionFacts, nil
}
