package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"backend/models"
)

// EstimatorService asks the external estimation service for daily targets.
// It returns the same schema as the local formula, so the profile service
// can substitute one for the other.
type EstimatorService struct {
	baseURL string
	client  *http.Client
}

func NewEstimatorService() *EstimatorService {
	return &EstimatorService{
		baseURL: os.Getenv("ESTIMATOR_URL"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether an estimator endpoint is configured at all.
func (s *EstimatorService) Enabled() bool {
	return s.baseURL != ""
}

func (s *EstimatorService) EstimateTargets(p models.Profile) (models.Targets, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"age":           p.Age,
		"gender":        p.Gender,
		"height":        p.Height,
		"weight":        p.Weight,
		"activityLevel": p.ActivityLevel,
		"goal":          p.Goal,
	})
	if err != nil {
		return models.Targets{}, fmt.Errorf("failed to marshal estimator payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/api/calculate-bmr", bytes.NewReader(payload))
	if err != nil {
		return models.Targets{}, fmt.Errorf("failed to create estimator request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return models.Targets{}, fmt.Errorf("failed to call estimator: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Targets{}, fmt.Errorf("failed to read estimator response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.Targets{}, fmt.Errorf("estimator API error %d: %s", resp.StatusCode, string(body))
	}

	var t models.Targets
	if err := json.Unmarshal(body, &t); err != nil {
		return models.Targets{}, fmt.Errorf("failed to parse estimator JSON: %w", err)
	}
	if t.Target <= 0 {
		return models.Targets{}, fmt.Errorf("estimator returned empty targets")
	}
	return t, nil
}
